package api

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/mocks"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLabelRouter(svc *mocks.MockLabelService, userID uuid.UUID) http.Handler {
	h := NewLabelHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(withUser(userID))
	r.Route("/api/"+svc.Kind().Plural(), func(r chi.Router) {
		mountResource(r, h.List, nil, h.Get, h.Update, h.Patch, h.Delete)
	})
	return r
}

func TestLabelHandler_List(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockLabelService{LabelKind: domain.LabelKindIngredient}
	svc.On("List", mock.Anything, userID).Return([]*domain.Label{
		{ID: 3, UserID: userID, Kind: domain.LabelKindIngredient, Name: "Salt"},
		{ID: 9, UserID: userID, Kind: domain.LabelKindIngredient, Name: "Pepper"},
	}, nil)

	w := doRequest(t, newLabelRouter(svc, userID), http.MethodGet, "/api/ingredients/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":3,"name":"Salt"},{"id":9,"name":"Pepper"}]`, w.Body.String())
}

func TestLabelHandler_ListEmpty(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockLabelService{LabelKind: domain.LabelKindTag}
	svc.On("List", mock.Anything, userID).Return([]*domain.Label{}, nil)

	w := doRequest(t, newLabelRouter(svc, userID), http.MethodGet, "/api/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestLabelHandler_Get(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockLabelService{LabelKind: domain.LabelKindTag}
	svc.On("Get", mock.Anything, userID, int64(4)).
		Return(&domain.Label{ID: 4, UserID: userID, Kind: domain.LabelKindTag, Name: "Vegan"}, nil)
	svc.On("Get", mock.Anything, userID, int64(5)).Return(nil, store.ErrTagNotFound)

	router := newLabelRouter(svc, userID)

	w := doRequest(t, router, http.MethodGet, "/api/tags/4/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":4,"name":"Vegan"}`, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/api/tags/5/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Tag not found", decodeBody[shared.ErrorResponse](t, w).Error)

	w = doRequest(t, router, http.MethodGet, "/api/tags/99999999999999999999/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Tag not found", decodeBody[shared.ErrorResponse](t, w).Error)
}

func TestLabelHandler_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("PATCH renames", func(t *testing.T) {
		svc := &mocks.MockLabelService{LabelKind: domain.LabelKindTag}
		svc.On("Update", mock.Anything, userID, int64(4), strPtr("Brunch"), service.UpdatePartial).
			Return(&domain.Label{ID: 4, UserID: userID, Kind: domain.LabelKindTag, Name: "Brunch"}, nil)

		w := doRequest(t, newLabelRouter(svc, userID), http.MethodPatch, "/api/tags/4/", `{"name":"Brunch"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":4,"name":"Brunch"}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("PUT without name reaches the service in full mode", func(t *testing.T) {
		svc := &mocks.MockLabelService{LabelKind: domain.LabelKindTag}
		svc.On("Update", mock.Anything, userID, int64(4), (*string)(nil), service.UpdateFull).
			Return(nil, domain.NewValidationError("name", "is required", nil))

		w := doRequest(t, newLabelRouter(svc, userID), http.MethodPut, "/api/tags/4/", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"name": "is required"}, decodeBody[shared.ErrorResponse](t, w).Fields)
	})

	t.Run("rename collision is a field error", func(t *testing.T) {
		svc := &mocks.MockLabelService{LabelKind: domain.LabelKindIngredient}
		svc.On("Update", mock.Anything, userID, int64(4), strPtr("Salt"), service.UpdatePartial).
			Return(nil, domain.NewValidationError("name", "already exists", service.ErrLabelNameTaken))

		w := doRequest(t, newLabelRouter(svc, userID), http.MethodPatch, "/api/ingredients/4", `{"name":"Salt"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"name": "already exists"}, decodeBody[shared.ErrorResponse](t, w).Fields)
	})
}

func TestLabelHandler_Delete(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockLabelService{LabelKind: domain.LabelKindIngredient}
	svc.On("Delete", mock.Anything, userID, int64(4)).Return(nil)
	svc.On("Delete", mock.Anything, userID, int64(5)).Return(store.ErrIngredientNotFound)

	router := newLabelRouter(svc, userID)

	w := doRequest(t, router, http.MethodDelete, "/api/ingredients/4/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/ingredients/5/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ingredient not found", decodeBody[shared.ErrorResponse](t, w).Error)
}

func TestLabelHandler_NoCreateRoute(t *testing.T) {
	svc := &mocks.MockLabelService{LabelKind: domain.LabelKindTag}
	w := doRequest(t, newLabelRouter(svc, uuid.New()), http.MethodPost, "/api/tags/", `{"name":"x"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
