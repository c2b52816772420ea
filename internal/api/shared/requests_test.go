package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Title       string `json:"title"`
	TimeMinutes *int   `json:"time_minutes"`
}

func newJSONRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		var v decodeTarget
		require.NoError(t, DecodeJSON(newJSONRequest(`{"title":"Soup","time_minutes":10}`), &v))
		assert.Equal(t, "Soup", v.Title)
		require.NotNil(t, v.TimeMinutes)
		assert.Equal(t, 10, *v.TimeMinutes)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		var v decodeTarget
		require.NoError(t, DecodeJSON(newJSONRequest(`{"title":"Soup","user":"someone-else"}`), &v))
		assert.Equal(t, "Soup", v.Title)
	})

	t.Run("invalid json", func(t *testing.T) {
		var v decodeTarget
		err := DecodeJSON(newJSONRequest(`{"title": "Soup",}`), &v)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("empty body", func(t *testing.T) {
		var v decodeTarget
		err := DecodeJSON(newJSONRequest(""), &v)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})

	t.Run("wrong type", func(t *testing.T) {
		var v decodeTarget
		err := DecodeJSON(newJSONRequest(`{"time_minutes":"ten"}`), &v)
		require.ErrorIs(t, err, domain.ErrValidation)

		fields, ok := domain.FieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"time_minutes": "must be an integer"}, fields)
	})
}

type validateTarget struct {
	Email    string      `json:"email"    validate:"required,email"`
	Password string      `json:"password" validate:"required,min=12,max=72"`
	Items    []validItem `json:"items"    validate:"dive"`
}

type validItem struct {
	Name string `json:"name" validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateRequest(validateTarget{Email: "a@example.com", Password: "long-enough-password"})
		assert.NoError(t, err)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		err := ValidateRequest(validateTarget{
			Email:    "not-an-email",
			Password: "short",
			Items:    []validItem{{Name: "ok"}, {}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))

		fields, ok := domain.FieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{
			"email":         "must be a valid email address",
			"password":      "must be at least 12 characters",
			"items[1].name": "is required",
		}, fields)
	})
}
