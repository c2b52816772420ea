package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BCryptCost:                  4,
	}
}

func newTestService(t *testing.T, secret string, at time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(secret), func() time.Time { return at })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(testAuthConfig(testSecret))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, svc.AccessTokenLifetime())
	})

	t.Run("short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(testAuthConfig("short"))
		assert.Error(t, err)
	})

	t.Run("zero lifetime", func(t *testing.T) {
		t.Parallel()
		cfg := testAuthConfig(testSecret)
		cfg.TokenLifetimeMinutes = 0
		_, err := NewJWTService(cfg)
		assert.Error(t, err)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenUniqueIDs(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testSecret, fixedTime)
	userID := uuid.New()

	first, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "jti makes every token distinct")
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestService(t, testSecret, fixedTime)
				token, err := svc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token, err := newTestService(t, testSecret, fixedTime).GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, testSecret, fixedTime.Add(2*time.Hour)), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "expired within clock skew",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token, err := newTestService(t, testSecret, fixedTime).GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, testSecret, fixedTime.Add(time.Hour+time.Minute)), token
			},
		},
		{
			name: "issued in the future",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token, err := newTestService(t, testSecret, fixedTime.Add(time.Hour)).
					GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, testSecret, fixedTime), token
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token, err := newTestService(t, testSecret, fixedTime).GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newTestService(t, wrongSecret, fixedTime), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestService(t, testSecret, fixedTime), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token used as access token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestService(t, testSecret, fixedTime)
				token, err := svc.GenerateRefreshToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := newTestService(t, testSecret, fixedTime)

	refresh, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)
	access, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		t.Parallel()
		claims, err := svc.ValidateRefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Equal(t, fixedTime.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("access token rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateRefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		later := newTestService(t, testSecret, fixedTime.Add(48*time.Hour))
		_, err := later.ValidateRefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		other := newTestService(t, wrongSecret, fixedTime)
		_, err := other.ValidateRefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}
