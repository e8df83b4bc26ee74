package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"workpulse/internal/domain/auth"
	"workpulse/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(strings.ToLower(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role, status)
    VALUES ($1,$2,$3,$4,$5)
  `, cfg.SeedAdminName, email, hash, auth.RoleAdmin, auth.UserStatusActive)
	return err
}
