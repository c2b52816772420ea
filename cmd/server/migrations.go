package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/recipe-api/internal/platform/migrations"
)

// handleMigrations runs a single goose command against the embedded
// migrations. It is called from run when the -migrate flag is set.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("executing migrations", slog.String("command", command))
	return migrations.Run(ctx, db, command, logger)
}
