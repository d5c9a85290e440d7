package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kitaguard/internal/domain/auth"
	"kitaguard/internal/platform/config"
)

// Seed makes a fresh deployment operable: one institution and one
// super admin who can run purges and read compliance reports.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	institutionID, err := ensureInstitution(ctx, pool, cfg.SeedInstitution)
	if err != nil {
		return err
	}
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	return ensureSuperAdmin(ctx, pool, institutionID, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureInstitution(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM institutions WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO institutions (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureSuperAdmin(ctx context.Context, pool *pgxpool.Pool, institutionID, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, name, password_hash, role, institution_id)
    VALUES ($1, $2, $3, $4, $5)
  `, email, "System Administrator", hash, string(auth.RoleSuperAdmin), institutionID)
	return err
}
