package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/store"
)

// MockRecipeStore implements store.RecipeStore on top of Memory.
type MockRecipeStore struct {
	mem *Memory

	// Function fields for customizable behavior
	CreateFn func(ctx context.Context, recipe *domain.Recipe) error
	UpdateFn func(ctx context.Context, recipe *domain.Recipe) error
}

var _ store.RecipeStore = (*MockRecipeStore)(nil)

// NewMockRecipeStore creates a recipe store backed by mem.
func NewMockRecipeStore(mem *Memory) *MockRecipeStore {
	return &MockRecipeStore{mem: mem}
}

// Create implements store.RecipeStore
func (s *MockRecipeStore) Create(ctx context.Context, recipe *domain.Recipe) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, recipe)
	}
	if err := recipe.Validate(); err != nil {
		return err
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	recipe.ID = s.mem.newID()
	s.mem.recipes[recipe.ID] = copyRecipe(recipe)
	return nil
}

// GetByOwner implements store.RecipeStore
func (s *MockRecipeStore) GetByOwner(ctx context.Context, userID uuid.UUID, id int64) (*domain.Recipe, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	r, ok := s.mem.recipes[id]
	if !ok || r.UserID != userID {
		return nil, store.ErrRecipeNotFound
	}
	return copyRecipe(r), nil
}

// ListByOwner implements store.RecipeStore
func (s *MockRecipeStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Recipe, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	recipes := []*domain.Recipe{}
	for _, r := range s.mem.recipes {
		if r.UserID == userID {
			recipes = append(recipes, copyRecipe(r))
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID > recipes[j].ID })
	return recipes, nil
}

// Update implements store.RecipeStore
func (s *MockRecipeStore) Update(ctx context.Context, recipe *domain.Recipe) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, recipe)
	}
	if err := recipe.Validate(); err != nil {
		return err
	}

	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	existing, ok := s.mem.recipes[recipe.ID]
	if !ok || existing.UserID != recipe.UserID {
		return store.ErrRecipeNotFound
	}
	updated := copyRecipe(recipe)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.mem.recipes[recipe.ID] = updated
	return nil
}

// DeleteByOwner implements store.RecipeStore
func (s *MockRecipeStore) DeleteByOwner(ctx context.Context, userID uuid.UUID, id int64) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()

	r, ok := s.mem.recipes[id]
	if !ok || r.UserID != userID {
		return store.ErrRecipeNotFound
	}
	delete(s.mem.recipes, id)
	for kind := range s.mem.links {
		delete(s.mem.links[kind], id)
	}
	return nil
}

// WithTx implements store.RecipeStore. The fake has no transactions.
func (s *MockRecipeStore) WithTx(tx *sql.Tx) store.RecipeStore {
	return s
}
