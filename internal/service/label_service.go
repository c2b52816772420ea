package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/store"
)

// ErrLabelNameTaken is the cause attached to the "name" field error when a
// rename collides with another label of the same owner.
var ErrLabelNameTaken = errors.New("label name already in use")

// LabelService provides ownership-scoped operations on one kind of label.
// Labels are only created through recipe reconciliation.
type LabelService interface {
	// Kind returns the label kind this service manages.
	Kind() domain.LabelKind

	// List returns the user's labels ordered by name descending.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error)

	// Get returns one of the user's labels.
	// Returns the kind's not-found error if absent or foreign-owned.
	Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Label, error)

	// Update renames a label. In partial mode a nil name leaves the label
	// unchanged; in full mode the name is required.
	Update(ctx context.Context, userID uuid.UUID, id int64, name *string, mode UpdateMode) (*domain.Label, error)

	// Delete removes the label from every recipe and then deletes it.
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

type labelServiceImpl struct {
	labels store.LabelStore
	db     *sql.DB
	logger *slog.Logger
}

var _ LabelService = (*labelServiceImpl)(nil)

// NewLabelService creates a LabelService for the kind of the given store.
func NewLabelService(labels store.LabelStore, db *sql.DB, logger *slog.Logger) (LabelService, error) {
	switch {
	case labels == nil:
		return nil, NewServiceError("label", "new", errors.New("label store cannot be nil"))
	case db == nil:
		return nil, NewServiceError("label", "new", errors.New("database cannot be nil"))
	case logger == nil:
		return nil, NewServiceError("label", "new", errors.New("logger cannot be nil"))
	}

	return &labelServiceImpl{
		labels: labels,
		db:     db,
		logger: logger.With(slog.String("component", string(labels.Kind())+"_service")),
	}, nil
}

// Kind implements LabelService.Kind
func (s *labelServiceImpl) Kind() domain.LabelKind {
	return s.labels.Kind()
}

func (s *labelServiceImpl) name() string {
	return string(s.labels.Kind())
}

// List implements LabelService.List
func (s *labelServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	labels, err := s.labels.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to list labels", slog.String("error", err.Error()), slog.String("user_id", userID.String()))
		return nil, NewServiceError(s.name(), "list", err)
	}
	return labels, nil
}

// Get implements LabelService.Get
func (s *labelServiceImpl) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	label, err := s.labels.GetByOwner(ctx, userID, id)
	if err != nil {
		logFailure(log, "get "+s.name(), err, slog.Int64("label_id", id))
		return nil, NewServiceError(s.name(), "get", err)
	}
	return label, nil
}

// Update implements LabelService.Update
func (s *labelServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	name *string,
	mode UpdateMode,
) (*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if name == nil && mode == UpdateFull {
		err := domain.NewValidationError("name", "is required", domain.ErrEmptyLabelName)
		return nil, NewServiceError(s.name(), "update", err)
	}

	var updated *domain.Label
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		labels := s.labels.WithTx(tx)

		label, err := labels.GetByOwner(ctx, userID, id)
		if err != nil {
			return err
		}
		updated = label
		if name == nil {
			return nil
		}

		if err := label.Rename(*name); err != nil {
			return err
		}
		if err := labels.Update(ctx, label); err != nil {
			if errors.Is(err, store.ErrLabelExists) {
				return domain.NewValidationError("name", "already exists", ErrLabelNameTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		logFailure(log, "update "+s.name(), err, slog.Int64("label_id", id))
		return nil, NewServiceError(s.name(), "update", err)
	}

	log.Info("label updated",
		slog.String("kind", s.name()),
		slog.Int64("label_id", id),
		slog.String("user_id", userID.String()))

	return updated, nil
}

// Delete implements LabelService.Delete
func (s *labelServiceImpl) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.labels.DeleteByOwner(ctx, userID, id); err != nil {
		logFailure(log, "delete "+s.name(), err, slog.Int64("label_id", id))
		return NewServiceError(s.name(), "delete", err)
	}

	log.Info("label deleted",
		slog.String("kind", s.name()),
		slog.Int64("label_id", id),
		slog.String("user_id", userID.String()))
	return nil
}
