package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/opencourse/opencourse/internal/race"
)

// indexName is the stored form of a category name for the unique name
// index. NFC normalization keeps "Féminin" typed via combining accents
// and via precomposed characters on the same index key.
func indexName(name string) string {
	return norm.NFC.String(name)
}

// InsertCategory inserts a category. The name must be unique across the
// collection (case-sensitive, NFC-normalized).
func (s *Store) InsertCategory(ctx context.Context, c *race.Category) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, doc) VALUES (?, ?, ?)
	`, c.ID, indexName(c.Name), string(doc))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// UpdateCategory replaces a stored category document. The name index
// column is refreshed alongside.
func (s *Store) UpdateCategory(ctx context.Context, c *race.Category) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, doc = ? WHERE id = ?
	`, indexName(c.Name), string(doc), c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category. Deleting does not cascade: roster
// entries and results keep their embedded snapshots.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Category returns a category by id, or (nil, nil) when absent.
func (s *Store) Category(ctx context.Context, id string) (*race.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx,
		`SELECT doc FROM categories WHERE id = ?`, id))
}

// CategoryByName looks a category up through the name index.
// Returns (nil, nil) when absent.
func (s *Store) CategoryByName(ctx context.Context, name string) (*race.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx,
		`SELECT doc FROM categories WHERE name = ?`, indexName(name)))
}

// Categories returns every category in insertion order.
func (s *Store) Categories(ctx context.Context) ([]*race.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM categories ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	defer rows.Close()

	categories := []*race.Category{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan categories: %w", err)
		}
		c := &race.Category{}
		if err := json.Unmarshal([]byte(doc), c); err != nil {
			return nil, fmt.Errorf("scan categories: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return categories, nil
}

func scanCategory(row *sql.Row) (*race.Category, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	c := &race.Category{}
	if err := json.Unmarshal([]byte(doc), c); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}
