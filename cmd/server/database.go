package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/phrazzld/recipe-api/internal/redact"
)

// setupAppDatabase opens the connection pool and applies the pool limits.
// It does not contact the database; see waitForDatabase.
func setupAppDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("database pool configured",
		slog.String("url", redact.DatabaseURL(cfg.Database.URL)),
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns))
	return db, nil
}

// pinger is the part of *sql.DB used to check availability.
type pinger interface {
	PingContext(ctx context.Context) error
}

// waitForDatabase pings db every interval until it answers or timeout
// elapses. A non-positive timeout allows a single attempt.
func waitForDatabase(
	ctx context.Context,
	db pinger,
	timeout, interval time.Duration,
	logger *slog.Logger,
) error {
	start := time.Now()
	deadline := start.Add(timeout)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := db.PingContext(pingCtx)
		cancel()

		if err == nil {
			logger.Info("database available",
				slog.Int("attempts", attempt),
				slog.Duration("waited", time.Since(start)))
			return nil
		}

		if !time.Now().Add(interval).Before(deadline) {
			return fmt.Errorf("database unavailable after %d attempts: %w", attempt, err)
		}

		logger.Warn("database unavailable, waiting",
			slog.Int("attempt", attempt),
			slog.String("error", redact.Error(err)))

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
