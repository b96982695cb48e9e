// Package leads stores the beta mailing list: one row per email, upserted.
// It sits outside the document pipeline and never touches quote data.
package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zakahfir/microflow-ai/internal/infra/db/postgres"
)

type Lead struct {
	Name       string    `json:"prenom"`
	Email      string    `json:"email"`
	Profession string    `json:"metier"`
	CreatedAt  time.Time `json:"date_inscription"`
}

type Service struct {
	DB *postgres.DB
}

func New(db *postgres.DB) *Service { return &Service{DB: db} }

// Upsert registers a lead by email. Re-submitting the same email refreshes
// the name and profession but keeps the original signup date.
func (s *Service) Upsert(ctx context.Context, l Lead) error {
	email := strings.ToLower(strings.TrimSpace(l.Email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", l.Email)
	}
	_, err := s.DB.Pool.Exec(ctx, `
		INSERT INTO leads (name, email, profession, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, profession = EXCLUDED.profession`,
		strings.TrimSpace(l.Name), email, strings.TrimSpace(l.Profession))
	if err != nil {
		return fmt.Errorf("upsert lead: %w", err)
	}
	return nil
}

// List returns the mailing list, oldest signup first.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	rows, err := s.DB.Pool.Query(ctx,
		`SELECT name, email, profession, created_at FROM leads ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.Name, &l.Email, &l.Profession, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
