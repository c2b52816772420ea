package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	expected := `
# HELP recipe_api_http_requests_total Total number of HTTP requests handled.
# TYPE recipe_api_http_requests_total counter
recipe_api_http_requests_total{method="GET",route="/api/recipes/{id}",status="404"} 3
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "recipe_api_http_requests_total")
	assert.NoError(t, err)
}

func TestLabelReconciled(t *testing.T) {
	m := metrics.New()

	m.LabelReconciled(domain.LabelKindTag, true)
	m.LabelReconciled(domain.LabelKindTag, false)
	m.LabelReconciled(domain.LabelKindTag, false)
	m.LabelReconciled(domain.LabelKindIngredient, true)

	expected := `
# HELP recipe_api_labels_reconciled_total Tags and ingredients resolved from recipe payloads, by outcome.
# TYPE recipe_api_labels_reconciled_total counter
recipe_api_labels_reconciled_total{kind="ingredient",outcome="created"} 1
recipe_api_labels_reconciled_total{kind="tag",outcome="created"} 1
recipe_api_labels_reconciled_total{kind="tag",outcome="reused"} 2
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "recipe_api_labels_reconciled_total")
	assert.NoError(t, err)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := metrics.New()
	m.LabelReconciled(domain.LabelKindTag, true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recipe_api_labels_reconciled_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
