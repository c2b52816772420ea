package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/stretchr/testify/require"
)

// withUser stands in for the authentication middleware.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(shared.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// mountResource registers the standard collection/detail routes the same
// way the server does.
func mountResource(r chi.Router, list, create, get, put, patch, del http.HandlerFunc) {
	if list != nil {
		r.Get("/", list)
	}
	if create != nil {
		r.Post("/", create)
	}
	r.Route("/{id:[0-9]+}", func(r chi.Router) {
		if get != nil {
			r.Get("/", get)
		}
		if put != nil {
			r.Put("/", put)
		}
		if patch != nil {
			r.Patch("/", patch)
		}
		if del != nil {
			r.Delete("/", del)
		}
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func strPtr(s string) *string { return &s }
