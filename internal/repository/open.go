package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"player-economy/internal/config"
)

// Open connects to the configured database, verifies the connection and
// applies the embedded migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, Dialect, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Driver {
	case config.DriverSQLite, "":
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			return nil, "", fmt.Errorf("storage path is required")
		}
		dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, "", fmt.Errorf("open sqlite db: %w", err)
		}
		// A single writer connection keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		dialect = DialectSQLite
	case config.DriverPostgres:
		db, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, "", fmt.Errorf("open postgres db: %w", err)
		}
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 10
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
		db.SetConnMaxLifetime(5 * time.Minute)
		dialect = DialectPostgres
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s db: %w", dialect, err)
	}

	if err := Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.Info("Successfully connected to database", "driver", string(dialect))
	}

	return db, dialect, nil
}
