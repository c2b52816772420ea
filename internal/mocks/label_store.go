package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/store"
)

// MockLabelStore implements store.LabelStore for one label kind on top of Memory.
type MockLabelStore struct {
	mem  *Memory
	kind domain.LabelKind

	// Function fields for customizable behavior
	CreateFn    func(ctx context.Context, label *domain.Label) error
	GetByNameFn func(ctx context.Context, userID uuid.UUID, name string) (*domain.Label, error)

	// CreateCalls counts calls to Create, including ones that failed.
	CreateCalls int
}

var _ store.LabelStore = (*MockLabelStore)(nil)

// NewMockLabelStore creates a label store of kind backed by mem.
func NewMockLabelStore(mem *Memory, kind domain.LabelKind) *MockLabelStore {
	return &MockLabelStore{mem: mem, kind: kind}
}

// Kind implements store.LabelStore
func (s *MockLabelStore) Kind() domain.LabelKind {
	return s.kind
}

// Create implements store.LabelStore
func (s *MockLabelStore) Create(ctx context.Context, label *domain.Label) error {
	s.CreateCalls++
	if s.CreateFn != nil {
		return s.CreateFn(ctx, label)
	}
	return s.Insert(label)
}

// Insert adds label directly, enforcing (owner, name) uniqueness. Tests use
// it to seed data and to simulate a concurrent writer from CreateFn.
func (s *MockLabelStore) Insert(label *domain.Label) error {
	if err := label.Validate(); err != nil {
		return err
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	for _, l := range s.mem.labels[s.kind] {
		if l.UserID == label.UserID && l.Name == label.Name {
			return store.ErrLabelExists
		}
	}
	label.ID = s.mem.newID()
	s.mem.labels[s.kind][label.ID] = copyLabel(label)
	return nil
}

// GetByOwner implements store.LabelStore
func (s *MockLabelStore) GetByOwner(ctx context.Context, userID uuid.UUID, id int64) (*domain.Label, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	l, ok := s.mem.labels[s.kind][id]
	if !ok || l.UserID != userID {
		return nil, store.LabelNotFoundError(s.kind)
	}
	return copyLabel(l), nil
}

// GetByName implements store.LabelStore
func (s *MockLabelStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Label, error) {
	if s.GetByNameFn != nil {
		return s.GetByNameFn(ctx, userID, name)
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	for _, l := range s.mem.labels[s.kind] {
		if l.UserID == userID && l.Name == name {
			return copyLabel(l), nil
		}
	}
	return nil, store.LabelNotFoundError(s.kind)
}

// ListByOwner implements store.LabelStore
func (s *MockLabelStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	labels := []*domain.Label{}
	for _, l := range s.mem.labels[s.kind] {
		if l.UserID == userID {
			labels = append(labels, copyLabel(l))
		}
	}
	sortLabels(labels)
	return labels, nil
}

// Update implements store.LabelStore
func (s *MockLabelStore) Update(ctx context.Context, label *domain.Label) error {
	if err := label.Validate(); err != nil {
		return err
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	existing, ok := s.mem.labels[s.kind][label.ID]
	if !ok || existing.UserID != label.UserID {
		return store.LabelNotFoundError(s.kind)
	}
	for _, l := range s.mem.labels[s.kind] {
		if l.ID != label.ID && l.UserID == label.UserID && l.Name == label.Name {
			return store.ErrLabelExists
		}
	}
	existing.Name = label.Name
	return nil
}

// DeleteByOwner implements store.LabelStore
func (s *MockLabelStore) DeleteByOwner(ctx context.Context, userID uuid.UUID, id int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	l, ok := s.mem.labels[s.kind][id]
	if !ok || l.UserID != userID {
		return store.LabelNotFoundError(s.kind)
	}
	delete(s.mem.labels[s.kind], id)
	for _, set := range s.mem.links[s.kind] {
		delete(set, id)
	}
	return nil
}

// ReplaceForRecipe implements store.LabelStore
func (s *MockLabelStore) ReplaceForRecipe(ctx context.Context, recipeID int64, labelIDs []int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	recipe, ok := s.mem.recipes[recipeID]
	if !ok {
		return store.ErrRecipeNotFound
	}

	set := make(map[int64]struct{}, len(labelIDs))
	for _, id := range labelIDs {
		l, ok := s.mem.labels[s.kind][id]
		if !ok || l.UserID != recipe.UserID {
			return store.ErrInvalidEntity
		}
		set[id] = struct{}{}
	}
	s.mem.links[s.kind][recipeID] = set
	return nil
}

// ListForRecipes implements store.LabelStore
func (s *MockLabelStore) ListForRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]*domain.Label, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	result := make(map[int64][]*domain.Label)
	for _, recipeID := range recipeIDs {
		for id := range s.mem.links[s.kind][recipeID] {
			result[recipeID] = append(result[recipeID], copyLabel(s.mem.labels[s.kind][id]))
		}
		if labels, ok := result[recipeID]; ok {
			sortLabels(labels)
		}
	}
	return result, nil
}

// WithTx implements store.LabelStore. The fake has no transactions.
func (s *MockLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return s
}
