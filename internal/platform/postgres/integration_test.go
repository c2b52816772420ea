//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/phrazzld/recipe-api/internal/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type txStores struct {
	users       store.UserStore
	recipes     store.RecipeStore
	tags        store.LabelStore
	ingredients store.LabelStore
}

func newTxStores(db *sql.DB, tx *sql.Tx) txStores {
	log := discardLogger()
	return txStores{
		users:       postgres.NewPostgresUserStore(db, bcrypt.MinCost, log).WithTx(tx),
		recipes:     postgres.NewPostgresRecipeStore(db, log).WithTx(tx),
		tags:        postgres.NewPostgresTagStore(db, log).WithTx(tx),
		ingredients: postgres.NewPostgresIngredientStore(db, log).WithTx(tx),
	}
}

func createUser(t *testing.T, s txStores, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password1234")
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func TestIntegration_LabelUniquenessSurvivesInTransaction(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(db, tx)
		owner := createUser(t, s, "owner@example.com")

		first, err := domain.NewLabel(owner.ID, domain.LabelKindTag, "Thai")
		require.NoError(t, err)
		require.NoError(t, s.tags.Create(ctx, first))

		dup, err := domain.NewLabel(owner.ID, domain.LabelKindTag, "Thai")
		require.NoError(t, err)
		err = s.tags.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrLabelExists)

		// The savepoint keeps the transaction usable after the violation.
		found, err := s.tags.GetByName(ctx, owner.ID, "Thai")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)

		// The same name is free for an ingredient and for another user.
		ing, err := domain.NewLabel(owner.ID, domain.LabelKindIngredient, "Thai")
		require.NoError(t, err)
		require.NoError(t, s.ingredients.Create(ctx, ing))

		other := createUser(t, s, "other@example.com")
		otherTag, err := domain.NewLabel(other.ID, domain.LabelKindTag, "Thai")
		require.NoError(t, err)
		require.NoError(t, s.tags.Create(ctx, otherTag))
	})
}

func TestIntegration_RecipeOwnershipAndAssociations(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := newTxStores(db, tx)
		owner := createUser(t, s, "cook@example.com")
		stranger := createUser(t, s, "stranger@example.com")

		recipe, err := domain.NewRecipe(owner.ID, "Pad thai", 25, decimal.RequireFromString("7.50"), "", "")
		require.NoError(t, err)
		require.NoError(t, s.recipes.Create(ctx, recipe))

		var ids []int64
		for _, name := range []string{"Thai", "Dinner"} {
			tag, err := domain.NewLabel(owner.ID, domain.LabelKindTag, name)
			require.NoError(t, err)
			require.NoError(t, s.tags.Create(ctx, tag))
			ids = append(ids, tag.ID)
		}
		require.NoError(t, s.tags.ReplaceForRecipe(ctx, recipe.ID, ids))

		linked, err := s.tags.ListForRecipes(ctx, []int64{recipe.ID})
		require.NoError(t, err)
		require.Len(t, linked[recipe.ID], 2)
		assert.Equal(t, "Thai", linked[recipe.ID][0].Name, "labels are ordered by name descending")

		_, err = s.recipes.GetByOwner(ctx, stranger.ID, recipe.ID)
		assert.ErrorIs(t, err, store.ErrRecipeNotFound)
		assert.ErrorIs(t, s.recipes.DeleteByOwner(ctx, stranger.ID, recipe.ID), store.ErrRecipeNotFound)

		got, err := s.recipes.GetByOwner(ctx, owner.ID, recipe.ID)
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("7.5")))

		// Deleting the recipe keeps its tags.
		require.NoError(t, s.recipes.DeleteByOwner(ctx, owner.ID, recipe.ID))
		tags, err := s.tags.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, tags, 2)
	})
}
