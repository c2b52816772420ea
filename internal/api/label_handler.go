package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/phrazzld/recipe-api/internal/store"
)

// LabelHandler handles one label collection, /api/tags or /api/ingredients.
// Labels are created only through recipe payloads, so there is no create route.
type LabelHandler struct {
	labels   service.LabelService
	notFound error
	logger   *slog.Logger
}

// NewLabelHandler creates a LabelHandler for the kind managed by labels.
func NewLabelHandler(labels service.LabelService, logger *slog.Logger) *LabelHandler {
	if logger == nil {
		logger = slog.Default()
	}
	kind := labels.Kind()
	return &LabelHandler{
		labels:   labels,
		notFound: store.LabelNotFoundError(kind),
		logger: logger.With(
			slog.String("component", "label_handler"),
			slog.String("kind", string(kind)),
		),
	}
}

// List handles GET on the collection, ordered by name descending.
func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	labels, err := h.labels.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list "+h.labels.Kind().Plural())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newLabelResponses(labels))
}

// Get handles GET on a single label.
func (h *LabelHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, h.notFound, log)
	if !ok {
		return
	}

	label, err := h.labels.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newLabelResponse(label))
}

// Update handles PUT on a single label; the name is required.
func (h *LabelHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, service.UpdateFull)
}

// Patch handles PATCH on a single label.
func (h *LabelHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, service.UpdatePartial)
}

func (h *LabelHandler) update(w http.ResponseWriter, r *http.Request, mode service.UpdateMode) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, h.notFound, log)
	if !ok {
		return
	}

	var req LabelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	label, err := h.labels.Update(r.Context(), userID, id, req.Name, mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newLabelResponse(label))
}

// Delete handles DELETE on a single label. The label is removed from every
// recipe that referenced it.
func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, id, ok := handleUserIDAndPathID(w, r, h.notFound, log)
	if !ok {
		return
	}

	if err := h.labels.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondNoContent(w)
}

// Plural returns the collection name served by the handler, e.g. "tags".
func (h *LabelHandler) Plural() string {
	return h.labels.Kind().Plural()
}
