package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
)

// idParam is the chi URL parameter holding a resource ID.
const idParam = "id"

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathID extracts a positive int64 resource ID from the URL path.
// Routes constrain the parameter to digits, so the only failure in practice
// is a value too large for int64.
func getPathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, idParam)
	if raw == "" {
		return 0, domain.NewValidationError(idParam, "is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(idParam, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserIDAndPathID is a composite helper that extracts both the user ID
// from context and the resource ID from the path. It writes an error response
// if either extraction fails. An unparseable ID can never match a row, so it
// is answered with notFound like any other missing resource.
//
// Returns:
//   - (userID, id, true): both values were extracted
//   - (uuid.Nil, 0, false): an error response has been written
func handleUserIDAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	notFound error,
	log *slog.Logger,
) (uuid.UUID, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, 0, false
	}

	id, err := getPathID(r)
	if err != nil {
		log.Debug("invalid path parameter", slog.String("value", chi.URLParam(r, idParam)))
		HandleAPIError(w, r, notFound, "")
		return uuid.Nil, 0, false
	}

	return userID, id, true
}

// requireUserID extracts the user ID or writes a 401 response.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}
