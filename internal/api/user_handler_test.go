package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/mocks"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserRouter(svc *mocks.MockUserService, userID uuid.UUID) http.Handler {
	h := NewUserHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(withUser(userID))
	r.Get("/api/users/me", h.GetMe)
	r.Patch("/api/users/me", h.UpdateMe)
	return r
}

func TestUserHandler_GetMe(t *testing.T) {
	userID := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	svc := &mocks.MockUserService{}
	svc.On("GetUser", mock.Anything, userID).Return(&domain.User{
		ID:             userID,
		Email:          "cook@example.com",
		HashedPassword: "$2a$10$secret",
		CreatedAt:      created,
	}, nil)

	w := doRequest(t, newUserRouter(svc, userID), http.MethodGet, "/api/users/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")

	resp := decodeBody[UserResponse](t, w)
	assert.Equal(t, userID, resp.ID)
	assert.Equal(t, "cook@example.com", resp.Email)
	assert.True(t, created.Equal(resp.CreatedAt))
}

func TestUserHandler_GetMeUnauthenticated(t *testing.T) {
	svc := &mocks.MockUserService{}
	w := doRequest(t, newUserRouter(svc, uuid.Nil), http.MethodGet, "/api/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	userID := uuid.New()

	t.Run("partial update of email", func(t *testing.T) {
		svc := &mocks.MockUserService{}
		svc.On("UpdateUser", mock.Anything, userID, strPtr("new@example.com"), (*string)(nil)).
			Return(&domain.User{ID: userID, Email: "new@example.com"}, nil)

		w := doRequest(t, newUserRouter(svc, userID), http.MethodPatch, "/api/users/me", `{"email":"new@example.com"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "new@example.com", decodeBody[UserResponse](t, w).Email)
		svc.AssertExpectations(t)
	})

	t.Run("short password is rejected before the service", func(t *testing.T) {
		svc := &mocks.MockUserService{}
		w := doRequest(t, newUserRouter(svc, userID), http.MethodPatch, "/api/users/me", `{"password":"short"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"password": "must be at least 12 characters"},
			decodeBody[shared.ErrorResponse](t, w).Fields)
		svc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("email taken is a conflict", func(t *testing.T) {
		svc := &mocks.MockUserService{}
		svc.On("UpdateUser", mock.Anything, userID, strPtr("taken@example.com"), (*string)(nil)).
			Return(nil, store.ErrEmailExists)

		w := doRequest(t, newUserRouter(svc, userID), http.MethodPatch, "/api/users/me", `{"email":"taken@example.com"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
