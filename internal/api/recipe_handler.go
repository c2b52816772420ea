package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/phrazzld/recipe-api/internal/store"
)

// RecipeHandler handles the /api/recipes resource.
type RecipeHandler struct {
	recipes service.RecipeService
	logger  *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipes service.RecipeService, logger *slog.Logger) *RecipeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeHandler{
		recipes: recipes,
		logger:  logger.With(slog.String("component", "recipe_handler")),
	}
}

// List handles GET /api/recipes. Descriptions are omitted from list items.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	recipes, err := h.recipes.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list recipes")
		return
	}

	resp := make([]RecipeSummaryResponse, len(recipes))
	for i, recipe := range recipes {
		resp[i] = newRecipeSummary(recipe)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /api/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, store.ErrRecipeNotFound, log)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get recipe")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newRecipeDetail(recipe))
}

// Create handles POST /api/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	fields, ok := decodeRecipeFields(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipes.Create(r.Context(), userID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create recipe")
		return
	}

	log.Info("recipe created",
		slog.Int64("recipe_id", recipe.ID),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, newRecipeDetail(recipe))
}

// Update handles PUT /api/recipes/{id}.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, service.UpdateFull)
}

// Patch handles PATCH /api/recipes/{id}.
func (h *RecipeHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, service.UpdatePartial)
}

func (h *RecipeHandler) update(w http.ResponseWriter, r *http.Request, mode service.UpdateMode) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, store.ErrRecipeNotFound, log)
	if !ok {
		return
	}

	fields, ok := decodeRecipeFields(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipes.Update(r.Context(), userID, id, fields, mode)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update recipe")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newRecipeDetail(recipe))
}

// Delete handles DELETE /api/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, store.ErrRecipeNotFound, log)
	if !ok {
		return
	}

	if err := h.recipes.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete recipe")
		return
	}

	shared.RespondNoContent(w)
}

func decodeRecipeFields(w http.ResponseWriter, r *http.Request) (service.RecipeFields, bool) {
	var req RecipeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return service.RecipeFields{}, false
	}

	fields, err := req.toFields()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return service.RecipeFields{}, false
	}

	return fields, true
}
