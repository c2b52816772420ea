package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/mocks"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/phrazzld/recipe-api/internal/service/auth"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuthRouter(users service.UserService, jwtSvc auth.JWTService) http.Handler {
	h := NewAuthHandler(users, jwtSvc, nil)
	h.timeFunc = func() time.Time { return fixedNow }

	r := chi.NewRouter()
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/refresh", h.RefreshToken)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()
	jwtSvc := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh", Lifetime: time.Hour}

	t.Run("success", func(t *testing.T) {
		users := &mocks.MockUserService{}
		users.On("CreateUser", mock.Anything, "Cook@Example.com", "password1234").
			Return(&domain.User{ID: userID, Email: "cook@example.com"}, nil)

		w := doRequest(t, newAuthRouter(users, jwtSvc), http.MethodPost, "/api/auth/register",
			`{"email":"Cook@Example.com","password":"password1234"}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeBody[AuthResponse](t, w)
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "access", resp.AccessToken)
		assert.Equal(t, "refresh", resp.RefreshToken)
		assert.Equal(t, "2026-03-01T13:00:00Z", resp.ExpiresAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := &mocks.MockUserService{}
		users.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.NewServiceError("user", "create", store.ErrEmailExists))

		w := doRequest(t, newAuthRouter(users, jwtSvc), http.MethodPost, "/api/auth/register",
			`{"email":"cook@example.com","password":"password1234"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation failures list every field", func(t *testing.T) {
		users := &mocks.MockUserService{}
		w := doRequest(t, newAuthRouter(users, jwtSvc), http.MethodPost, "/api/auth/register",
			`{"email":"not-an-email","password":"short"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{
			"error": "Validation failed",
			"fields": {
				"email": "must be a valid email address",
				"password": "must be at least 12 characters"
			}
		}`, w.Body.String())
		users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()
	jwtSvc := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}

	t.Run("success", func(t *testing.T) {
		users := &mocks.MockUserService{}
		users.On("Authenticate", mock.Anything, "cook@example.com", "password1234").
			Return(&domain.User{ID: userID}, nil)

		w := doRequest(t, newAuthRouter(users, jwtSvc), http.MethodPost, "/api/auth/login",
			`{"email":"cook@example.com","password":"password1234"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "access", decodeBody[AuthResponse](t, w).AccessToken)
	})

	t.Run("bad credentials", func(t *testing.T) {
		users := &mocks.MockUserService{}
		users.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrInvalidCredentials)

		w := doRequest(t, newAuthRouter(users, jwtSvc), http.MethodPost, "/api/auth/login",
			`{"email":"cook@example.com","password":"wrong-password"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
	})

	t.Run("token generation failure", func(t *testing.T) {
		users := &mocks.MockUserService{}
		users.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).
			Return(&domain.User{ID: userID}, nil)
		failing := &mocks.MockJWTService{
			GenerateTokenFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
				return "", assert.AnError
			},
		}

		w := doRequest(t, newAuthRouter(users, failing), http.MethodPost, "/api/auth/login",
			`{"email":"cook@example.com","password":"password1234"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to generate authentication token"}`, w.Body.String())
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		validateErr    error
		expectedStatus int
	}{
		{"valid refresh token", `{"refresh_token":"good"}`, nil, http.StatusOK},
		{"expired refresh token", `{"refresh_token":"old"}`, auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"access token used for refresh", `{"refresh_token":"access"}`, auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"missing refresh token", `{}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtSvc := &mocks.MockJWTService{
				Token:        "new-access",
				RefreshToken: "new-refresh",
				ValidateRefreshTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
					if tt.validateErr != nil {
						return nil, tt.validateErr
					}
					return &auth.Claims{UserID: userID, TokenType: auth.TokenTypeRefresh}, nil
				},
			}

			w := doRequest(t, newAuthRouter(&mocks.MockUserService{}, jwtSvc), http.MethodPost,
				"/api/auth/refresh", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				resp := decodeBody[AuthResponse](t, w)
				assert.Equal(t, userID, resp.UserID)
				assert.Equal(t, "new-access", resp.AccessToken)
				assert.Equal(t, "new-refresh", resp.RefreshToken)
			}
		})
	}
}
