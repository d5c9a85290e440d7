package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// AuthUser carries the credential row loaded for a login attempt.
type AuthUser struct {
	ID            string
	Name          string
	Role          string
	InstitutionID *string
	PasswordHash  string
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, role, institution_id, password_hash
    FROM users
    WHERE email = $1 AND deleted_at IS NULL
  `, email).Scan(&out.ID, &out.Name, &out.Role, &out.InstitutionID, &out.PasswordHash)
	return out, err
}

func (s *Store) RecordFailedLogin(ctx context.Context, email, ip string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO failed_logins (email, ip)
    VALUES ($1, $2)
  `, email, nullIfEmpty(ip))
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
