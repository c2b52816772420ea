package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
)

// setupAppLogger configures the process-wide logger from the server config
// and logs the non-secret parts of the configuration.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Int("cors_origins", len(cfg.Server.CORSAllowedOrigins)))
	l.Debug("auth configuration",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes),
		slog.Int("bcrypt_cost", cfg.Auth.BCryptCost))

	return l, nil
}
