package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
)

// RecipeStore defines persistence for recipe records. Tag and ingredient
// associations are handled by the LabelStore of the matching kind.
type RecipeStore interface {
	// Create saves a new recipe and sets its ID.
	// Returns validation errors from the domain Recipe if data is invalid.
	Create(ctx context.Context, recipe *domain.Recipe) error

	// GetByOwner retrieves the recipe with the given ID owned by userID.
	// Tags and Ingredients are left empty.
	// Returns ErrRecipeNotFound if it does not exist or belongs to another user.
	GetByOwner(ctx context.Context, userID uuid.UUID, id int64) (*domain.Recipe, error)

	// ListByOwner returns all recipes owned by userID ordered by ID descending.
	// Tags and Ingredients are left empty.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Recipe, error)

	// Update persists every mutable field of the recipe. The recipe's UserID
	// scopes the update and is never changed.
	// Returns ErrRecipeNotFound if no owned recipe matched.
	Update(ctx context.Context, recipe *domain.Recipe) error

	// DeleteByOwner removes the recipe and its label associations. The labels
	// themselves are kept.
	// Returns ErrRecipeNotFound if no owned recipe matched.
	DeleteByOwner(ctx context.Context, userID uuid.UUID, id int64) error

	// WithTx returns a RecipeStore that uses the provided transaction.
	WithTx(tx *sql.Tx) RecipeStore
}
