package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/store"
)

// ReconcileRecorder observes the outcome of each reconciled label.
// *metrics.Metrics satisfies it.
type ReconcileRecorder interface {
	LabelReconciled(kind domain.LabelKind, created bool)
}

type noopRecorder struct{}

func (noopRecorder) LabelReconciled(domain.LabelKind, bool) {}

// normalizeLabelNames normalizes and validates nested label names, dropping
// duplicates while keeping first-seen order. Field names in the returned
// validation errors follow the request shape, e.g. "tags[1].name".
func normalizeLabelNames(kind domain.LabelKind, names []string) ([]string, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))

	for i, raw := range names {
		var candidate domain.Label
		if err := candidate.Rename(raw); err != nil {
			field := fmt.Sprintf("%s[%d].name", kind.Plural(), i)
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				errs = append(errs, domain.NewValidationError(field, ve.Message, ve.Err))
			} else {
				errs = append(errs, domain.NewValidationError(field, "is invalid", err))
			}
			continue
		}
		name := candidate.Name
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}

	return result, errs
}

// reconcileLabels resolves each normalized name to a label owned by userID,
// reusing an existing label or creating a new one. labels must be bound to
// the caller's transaction. A unique violation on create means another
// request inserted the same name first, and the winning row is reused.
// The result is ordered by name descending.
func reconcileLabels(
	ctx context.Context,
	labels store.LabelStore,
	userID uuid.UUID,
	names []string,
	recorder ReconcileRecorder,
	log *slog.Logger,
) ([]*domain.Label, error) {
	kind := labels.Kind()
	result := make([]*domain.Label, 0, len(names))

	for _, name := range names {
		existing, err := labels.GetByName(ctx, userID, name)
		if err == nil {
			recorder.LabelReconciled(kind, false)
			result = append(result, existing)
			continue
		}
		if !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to look up %s %q: %w", kind, name, err)
		}

		label, err := domain.NewLabel(userID, kind, name)
		if err != nil {
			return nil, err
		}

		err = labels.Create(ctx, label)
		switch {
		case err == nil:
			log.Debug("created label during reconciliation",
				slog.String("kind", string(kind)),
				slog.Int64("label_id", label.ID))
			recorder.LabelReconciled(kind, true)
			result = append(result, label)
		case errors.Is(err, store.ErrLabelExists):
			winner, getErr := labels.GetByName(ctx, userID, name)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load concurrently created %s %q: %w", kind, name, getErr)
			}
			log.Debug("reused concurrently created label",
				slog.String("kind", string(kind)),
				slog.Int64("label_id", winner.ID))
			recorder.LabelReconciled(kind, false)
			result = append(result, winner)
		default:
			return nil, fmt.Errorf("failed to create %s %q: %w", kind, name, err)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name > result[j].Name
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

func labelIDs(labels []*domain.Label) []int64 {
	ids := make([]int64, len(labels))
	for i, l := range labels {
		ids[i] = l.ID
	}
	return ids
}
