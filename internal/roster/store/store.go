package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmcardoso/payplan/internal/roster"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*roster.Participant, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM participants
		WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p roster.Participant

	err := s.db.QueryRowContext(ctx, query, email).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, roster.ErrNotFound
		}

		return nil, fmt.Errorf("finding participant: %w", err)
	}

	return &p, nil
}

func (s *Store) SaveParticipant(ctx context.Context, p *roster.Participant) error {
	query := `
		INSERT INTO participants (name, email, phone, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email) WHERE email <> ''
		DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, p.Name, p.Email, p.Phone).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving participant: %w", err)
	}

	return nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]*roster.Participant, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM participants
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	var participants []*roster.Participant

	for rows.Next() {
		var p roster.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}

		participants = append(participants, &p)
	}

	return participants, nil
}
