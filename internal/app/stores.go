package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
)

// OpenStores opens the backend named by Storage.Backend, migrating first when
// DB.AutoMigrate is set. The returned func releases the connection.
func OpenStores(ctx context.Context, cfg *config.Config) (Stores, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		slog.Warn("using in-memory storage; data is lost on exit")
		return MemoryStores(), func() {}, nil
	case "postgres":
	default:
		return Stores{}, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.DB.AutoMigrate {
		if err := Migrate(ctx, cfg, database.Up); err != nil {
			return Stores{}, nil, err
		}
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return Stores{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return PostgresStores(db), func() { db.Close() }, nil
}

// Migrate runs migrations on a dedicated connection, which the migrate driver closes.
func Migrate(ctx context.Context, cfg *config.Config, dir database.Direction) error {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return database.Migrate(db, dir)
}
