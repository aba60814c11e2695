package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opencourse/opencourse/internal/race"
)

// InsertResult inserts a result record. The course id and bib are
// extracted into their index columns.
func (s *Store) InsertResult(ctx context.Context, r *race.Result) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, course_id, bib, doc) VALUES (?, ?, ?, ?)
	`, r.ID, r.CourseID, r.Bib, string(doc))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// UpdateResult replaces a stored result document, refreshing the index
// columns (binding a bib moves the record out of the unresolved bucket).
func (s *Store) UpdateResult(ctx context.Context, r *race.Result) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE results SET course_id = ?, bib = ?, doc = ? WHERE id = ?
	`, r.CourseID, r.Bib, string(doc), r.ID)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update result: no row with id %s", r.ID)
	}
	return nil
}

// DeleteResult removes a result, used when an erroneous arrival must be
// discarded.
func (s *Store) DeleteResult(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

// Result returns a result by id, or (nil, nil) when absent.
func (s *Store) Result(ctx context.Context, id string) (*race.Result, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM results WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	r := &race.Result{}
	if err := json.Unmarshal([]byte(doc), r); err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return r, nil
}

// ResultsByCourse returns a course's results through the course_id index,
// in insertion order. The classification engine relies on that order for
// its tie-break.
func (s *Store) ResultsByCourse(ctx context.Context, courseID string) ([]*race.Result, error) {
	return s.scanResults(ctx,
		`SELECT doc FROM results WHERE course_id = ? ORDER BY rowid ASC`, courseID)
}

// ResultsByBib returns every result carrying the given bib, across
// courses, through the bib index.
func (s *Store) ResultsByBib(ctx context.Context, bib int) ([]*race.Result, error) {
	return s.scanResults(ctx,
		`SELECT doc FROM results WHERE bib = ? ORDER BY rowid ASC`, bib)
}

// CountResultsByCourse reports how many arrivals a course has recorded.
func (s *Store) CountResultsByCourse(ctx context.Context, courseID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM results WHERE course_id = ?`, courseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

func (s *Store) scanResults(ctx context.Context, query string, args ...any) ([]*race.Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	defer rows.Close()

	results := []*race.Result{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan results: %w", err)
		}
		r := &race.Result{}
		if err := json.Unmarshal([]byte(doc), r); err != nil {
			return nil, fmt.Errorf("scan results: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	return results, nil
}
