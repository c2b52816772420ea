package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/store"
)

// PostgresRecipeStore implements the store.RecipeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRecipeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecipeStore creates a new PostgreSQL implementation of the RecipeStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresRecipeStore(db store.DBTX, logger *slog.Logger) *PostgresRecipeStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecipeStore{
		db:     db,
		logger: logger.With(slog.String("component", "recipe_store")),
	}
}

// Ensure PostgresRecipeStore implements store.RecipeStore interface
var _ store.RecipeStore = (*PostgresRecipeStore)(nil)

// WithTx implements store.RecipeStore.WithTx
func (s *PostgresRecipeStore) WithTx(tx *sql.Tx) store.RecipeStore {
	return &PostgresRecipeStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.RecipeStore.Create
// Returns store.ErrInvalidEntity if the owning user doesn't exist.
func (s *PostgresRecipeStore) Create(ctx context.Context, recipe *domain.Recipe) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := recipe.Validate(); err != nil {
		log.Warn("recipe validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO recipes (user_id, title, time_minutes, price, description, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		recipe.UserID,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price,
		recipe.Description,
		recipe.Link,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	).Scan(&recipe.ID)
	if err != nil {
		log.Error("failed to create recipe",
			slog.String("error", err.Error()),
			slog.String("user_id", recipe.UserID.String()))
		return MapError(err)
	}

	log.Info("recipe created",
		slog.Int64("recipe_id", recipe.ID),
		slog.String("user_id", recipe.UserID.String()))
	return nil
}

// GetByOwner implements store.RecipeStore.GetByOwner
func (s *PostgresRecipeStore) GetByOwner(ctx context.Context, userID uuid.UUID, id int64) (*domain.Recipe, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, time_minutes, price, description, link, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND user_id = $2
	`
	recipe, err := scanRecipe(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("recipe not found",
				slog.Int64("recipe_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrRecipeNotFound
		}
		log.Error("failed to get recipe",
			slog.String("error", err.Error()),
			slog.Int64("recipe_id", id))
		return nil, MapError(err)
	}

	return recipe, nil
}

// ListByOwner implements store.RecipeStore.ListByOwner
func (s *PostgresRecipeStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Recipe, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, time_minutes, price, description, link, created_at, updated_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list recipes",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	recipes := make([]*domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			log.Error("failed to scan recipe row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating recipe rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return recipes, nil
}

// Update implements store.RecipeStore.Update
func (s *PostgresRecipeStore) Update(ctx context.Context, recipe *domain.Recipe) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := recipe.Validate(); err != nil {
		log.Warn("recipe validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("recipe_id", recipe.ID))
		return err
	}

	query := `
		UPDATE recipes
		SET title = $1, time_minutes = $2, price = $3, description = $4, link = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		recipe.Title,
		recipe.TimeMinutes,
		recipe.Price,
		recipe.Description,
		recipe.Link,
		recipe.UpdatedAt,
		recipe.ID,
		recipe.UserID,
	)
	if err != nil {
		log.Error("failed to update recipe",
			slog.String("error", err.Error()),
			slog.Int64("recipe_id", recipe.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrRecipeNotFound); err != nil {
		log.Debug("recipe not found for update",
			slog.Int64("recipe_id", recipe.ID),
			slog.String("user_id", recipe.UserID.String()))
		return err
	}

	log.Info("recipe updated",
		slog.Int64("recipe_id", recipe.ID),
		slog.String("user_id", recipe.UserID.String()))
	return nil
}

// DeleteByOwner implements store.RecipeStore.DeleteByOwner
// Association rows are removed by ON DELETE CASCADE; tags and ingredients survive.
func (s *PostgresRecipeStore) DeleteByOwner(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		log.Error("failed to delete recipe",
			slog.String("error", err.Error()),
			slog.Int64("recipe_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrRecipeNotFound); err != nil {
		log.Debug("recipe not found for delete",
			slog.Int64("recipe_id", id),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("recipe deleted",
		slog.Int64("recipe_id", id),
		slog.String("user_id", userID.String()))
	return nil
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	recipe := domain.Recipe{
		Tags:        []*domain.Tag{},
		Ingredients: []*domain.Ingredient{},
	}
	if err := row.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.TimeMinutes,
		&recipe.Price,
		&recipe.Description,
		&recipe.Link,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &recipe, nil
}
