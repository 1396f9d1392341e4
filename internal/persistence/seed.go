package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/config"
	"github.com/growflow/backend/internal/domain"
)

// SeedAdmin creates the default admin account when no user with the configured
// email exists. Skipped entirely when ADMIN_PASSWORD is unset.
func SeedAdmin(ctx context.Context, pool *pgxpool.Pool, cfg config.BootstrapConfig, bcryptCost int, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping admin seed")
		return nil
	}
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set; skipping admin seed")
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email=$1`, cfg.AdminEmail).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, bcryptCost)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (name, email, role, password_hash) VALUES ($1,$2,$3,$4)`,
		cfg.AdminName, cfg.AdminEmail, domain.StaffRoleAdmin, hash,
	)
	if err != nil {
		return err
	}
	logger.Info("seeded default admin user", zap.String("email", cfg.AdminEmail))
	return nil
}
