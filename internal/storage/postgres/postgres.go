// Package postgres implements the relational movie adapter on top of the
// film_list view.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/pressly/goose/v3"

	"filmshelf/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const pingTimeout = 5 * time.Second

// Querier is the subset of pgxpool.Pool the movie adapter issues. Narrowed
// so tests can substitute a mock pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Open creates the connection pool, verifies connectivity, and migrates the
// film schema to the current state expected of the system.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if err := migrate(ctx, logger, cfg.PostgresDSN); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.InfoContext(ctx, "postgres connection established")
	return pool, nil
}

// migrate runs goose over a short-lived database/sql handle; the pgx pool
// never sees migration traffic.
func migrate(ctx context.Context, logger *slog.Logger, dsn string) error {
	handle, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration handle: %w", err)
	}
	defer func() { _ = handle.Close() }()

	goose.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	goose.SetBaseFS(migrations)
	if err = goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return goose.UpContext(ctx, handle, "migrations")
}
