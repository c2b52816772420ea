package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/phrazzld/recipe-api/internal/platform/metrics"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/phrazzld/recipe-api/internal/ratelimit"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/phrazzld/recipe-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Service interfaces
	jwtService         auth.JWTService
	userService        service.UserService
	recipeService      service.RecipeService
	tagService         service.LabelService
	ingredientService  service.LabelService
	metrics            *metrics.Metrics
	authLimiter        *ratelimit.KeyedRateLimiter
	authLimiterRetryIn time.Duration
}

// newApplication creates a new application instance with all dependencies initialized.
// The database handle must already be reachable.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	// Stores
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	recipeStore := postgres.NewPostgresRecipeStore(db, logger)
	tagStore := postgres.NewPostgresTagStore(db, logger)
	ingredientStore := postgres.NewPostgresIngredientStore(db, logger)

	// Services
	app.userService = service.NewUserService(userStore, auth.NewBcryptVerifier(cfg.Auth.BCryptCost), db, logger)

	app.recipeService, err = service.NewRecipeService(recipeStore, tagStore, ingredientStore, db, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe service: %w", err)
	}

	app.tagService, err = service.NewLabelService(tagStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	app.ingredientService, err = service.NewLabelService(ingredientStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient service: %w", err)
	}

	app.authLimiter = ratelimit.New(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst)
	app.authLimiterRetryIn = time.Duration(float64(time.Second) / cfg.Auth.RateLimitRPS)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup releases resources owned by the application. The database handle
// is owned by the caller.
func (app *application) cleanup() {
	if app.authLimiter != nil {
		app.authLimiter.Stop()
	}
	app.logger.Info("application shutdown completed")
}
