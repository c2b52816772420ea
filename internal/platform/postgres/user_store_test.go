package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/postgres"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

func TestPostgresUserStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and inserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		user, err := domain.NewUser("Cook@Example.com", testPassword)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, "cook@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, user))
		assert.Empty(t, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(testPassword)))
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		user, err := domain.NewUser("cook@example.com", testPassword)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").WillReturnError(newPgError("23505"))

		err = s.Create(ctx, user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user is rejected before the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		err := s.Create(ctx, &domain.User{ID: uuid.New(), Email: "not-an-email", Password: testPassword})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPostgresUserStore_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()
	columns := []string{"id", "email", "hashed_password", "created_at", "updated_at"}

	t.Run("by id", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "cook@example.com", "hash", now, now))

		user, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "hash", user.HashedPassword)
		assert.Empty(t, user.Password)
	})

	t.Run("by id not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		mock.ExpectQuery("FROM users").WithArgs(id).WillReturnRows(sqlmock.NewRows(columns))

		_, err := s.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("by email is case insensitive", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		mock.ExpectQuery("WHERE email = ").
			WithArgs("cook@example.com").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "cook@example.com", "hash", now, now))

		user, err := s.GetByEmail(ctx, "  COOK@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "cook@example.com", user.Email)
	})
}

func TestPostgresUserStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rehashes a new password", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		user := &domain.User{ID: uuid.New(), Email: "cook@example.com", HashedPassword: "old", Password: testPassword}
		mock.ExpectExec("UPDATE users").
			WithArgs("cook@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), user.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(ctx, user))
		assert.NotEqual(t, "old", user.HashedPassword)
		assert.Empty(t, user.Password)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		user := &domain.User{ID: uuid.New(), Email: "cook@example.com", HashedPassword: "hash"}
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(ctx, user), store.ErrUserNotFound)
	})

	t.Run("email taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresUserStore(db, bcrypt.MinCost, discardLogger())

		user := &domain.User{ID: uuid.New(), Email: "taken@example.com", HashedPassword: "hash"}
		mock.ExpectExec("UPDATE users").WillReturnError(newPgError("23505"))

		assert.ErrorIs(t, s.Update(ctx, user), store.ErrEmailExists)
	})
}
