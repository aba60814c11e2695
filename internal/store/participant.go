package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opencourse/opencourse/internal/race"
)

// InsertParticipant inserts a participant document.
func (s *Store) InsertParticipant(ctx context.Context, p *race.Participant) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO participants (id, doc) VALUES (?, ?)
	`, p.ID, string(doc))
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// UpdateParticipant replaces a stored participant document.
func (s *Store) UpdateParticipant(ctx context.Context, p *race.Participant) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE participants SET doc = ? WHERE id = ?
	`, string(doc), p.ID)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	return nil
}

// DeleteParticipant removes a participant.
func (s *Store) DeleteParticipant(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

// Participant returns a participant by id, or (nil, nil) when absent.
func (s *Store) Participant(ctx context.Context, id string) (*race.Participant, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM participants WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	p := &race.Participant{}
	if err := json.Unmarshal([]byte(doc), p); err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

// Participants returns every participant in insertion order.
func (s *Store) Participants(ctx context.Context) ([]*race.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM participants ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("scan participants: %w", err)
	}
	defer rows.Close()

	participants := []*race.Participant{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan participants: %w", err)
		}
		p := &race.Participant{}
		if err := json.Unmarshal([]byte(doc), p); err != nil {
			return nil, fmt.Errorf("scan participants: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan participants: %w", err)
	}
	return participants, nil
}
