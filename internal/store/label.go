package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
)

// LabelStore defines persistence for one kind of label (tags or ingredients)
// and for the association between labels of that kind and recipes.
// Every read and write is scoped to the owning user.
type LabelStore interface {
	// Kind returns the label kind this store persists.
	Kind() domain.LabelKind

	// Create saves a new label and sets its ID.
	// Returns ErrLabelExists if the owner already has a label with the same name.
	// When the store runs inside a transaction, a failed insert leaves the
	// transaction usable so the caller can look up the existing label instead.
	Create(ctx context.Context, label *domain.Label) error

	// GetByOwner retrieves the label with the given ID owned by userID.
	// Returns the kind's not-found error if it does not exist or belongs to another user.
	GetByOwner(ctx context.Context, userID uuid.UUID, id int64) (*domain.Label, error)

	// GetByName retrieves the owner's label with exactly the given (normalized) name.
	// Returns the kind's not-found error if there is none.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Label, error)

	// ListByOwner returns all labels owned by userID ordered by name descending.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error)

	// Update persists a label's name. The label's UserID scopes the update.
	// Returns the kind's not-found error if no owned label matched, or
	// ErrLabelExists if the new name is already taken by another label of the owner.
	Update(ctx context.Context, label *domain.Label) error

	// DeleteByOwner removes the label and every recipe association referencing it.
	// Returns the kind's not-found error if no owned label matched.
	DeleteByOwner(ctx context.Context, userID uuid.UUID, id int64) error

	// ReplaceForRecipe makes labelIDs the complete set of labels of this kind
	// associated with recipeID. An empty slice clears the set.
	ReplaceForRecipe(ctx context.Context, recipeID int64, labelIDs []int64) error

	// ListForRecipes returns the labels of this kind associated with each of
	// the given recipes, keyed by recipe ID and ordered by name descending.
	// Recipes without labels are absent from the map.
	ListForRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]*domain.Label, error)

	// WithTx returns a LabelStore of the same kind that uses the provided transaction.
	WithTx(tx *sql.Tx) LabelStore
}
