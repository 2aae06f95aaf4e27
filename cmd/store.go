package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mariadb"
	"github.com/kozaktomas/face-attendance/internal/database/postgres"
	"github.com/rs/zerolog"
)

// newStore connects to the backend selected by DATABASE_DRIVER.
func newStore(cfg *config.DatabaseConfig) (database.Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "mysql", "mariadb":
		pool, err := mariadb.NewPool(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MariaDB: %w", err)
		}
		return pool, nil
	case "postgres", "postgresql":
		pool, err := postgres.NewPool(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (use mysql or postgres)", cfg.Driver)
	}
}

// openStore connects and applies pending migrations.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (database.Store, error) {
	store, err := newStore(&cfg.Database)
	if err != nil {
		return nil, err
	}

	applied, err := store.Migrate(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, file := range applied {
		log.Info().Str("migration", file).Msg("applied migration")
	}
	return store, nil
}
