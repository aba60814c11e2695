package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opencourse/opencourse/internal/race"
)

// PutCourse inserts or fully replaces a course document. Roster saves and
// launches both go through this full-document replace; there is no
// partial update.
func (s *Store) PutCourse(ctx context.Context, c *race.Course) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("put course: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO courses (id, doc) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc
	`, c.ID, string(doc))
	if err != nil {
		return fmt.Errorf("put course: %w", err)
	}
	return nil
}

// DeleteCourse removes a course. Its results are left in place.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// Course returns a course by id, or (nil, nil) when absent.
func (s *Store) Course(ctx context.Context, id string) (*race.Course, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM courses WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	c := &race.Course{}
	if err := json.Unmarshal([]byte(doc), c); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// CourseByName returns the first course with the given name, or
// (nil, nil). Course names have no index; this is a convenience scan for
// the CLI, which lets the operator name a course instead of pasting ids.
func (s *Store) CourseByName(ctx context.Context, name string) (*race.Course, error) {
	courses, err := s.Courses(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

// Courses returns every course in insertion order.
func (s *Store) Courses(ctx context.Context) ([]*race.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM courses ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("scan courses: %w", err)
	}
	defer rows.Close()

	courses := []*race.Course{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan courses: %w", err)
		}
		c := &race.Course{}
		if err := json.Unmarshal([]byte(doc), c); err != nil {
			return nil, fmt.Errorf("scan courses: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan courses: %w", err)
	}
	return courses, nil
}
