package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a testify mock of service.RecipeService for handler tests.
type MockRecipeService struct {
	mock.Mock
}

var _ service.RecipeService = (*MockRecipeService)(nil)

// List mocks service.RecipeService.List
func (m *MockRecipeService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Recipe, error) {
	args := m.Called(ctx, userID)
	recipes, _ := args.Get(0).([]*domain.Recipe)
	return recipes, args.Error(1)
}

// Get mocks service.RecipeService.Get
func (m *MockRecipeService) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Recipe, error) {
	args := m.Called(ctx, userID, id)
	recipe, _ := args.Get(0).(*domain.Recipe)
	return recipe, args.Error(1)
}

// Create mocks service.RecipeService.Create
func (m *MockRecipeService) Create(
	ctx context.Context,
	userID uuid.UUID,
	fields service.RecipeFields,
) (*domain.Recipe, error) {
	args := m.Called(ctx, userID, fields)
	recipe, _ := args.Get(0).(*domain.Recipe)
	return recipe, args.Error(1)
}

// Update mocks service.RecipeService.Update
func (m *MockRecipeService) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	fields service.RecipeFields,
	mode service.UpdateMode,
) (*domain.Recipe, error) {
	args := m.Called(ctx, userID, id, fields, mode)
	recipe, _ := args.Get(0).(*domain.Recipe)
	return recipe, args.Error(1)
}

// Delete mocks service.RecipeService.Delete
func (m *MockRecipeService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockLabelService is a testify mock of service.LabelService. LabelKind is
// returned from Kind without recording a call.
type MockLabelService struct {
	mock.Mock
	LabelKind domain.LabelKind
}

var _ service.LabelService = (*MockLabelService)(nil)

// Kind implements service.LabelService.Kind
func (m *MockLabelService) Kind() domain.LabelKind {
	return m.LabelKind
}

// List mocks service.LabelService.List
func (m *MockLabelService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error) {
	args := m.Called(ctx, userID)
	labels, _ := args.Get(0).([]*domain.Label)
	return labels, args.Error(1)
}

// Get mocks service.LabelService.Get
func (m *MockLabelService) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Label, error) {
	args := m.Called(ctx, userID, id)
	label, _ := args.Get(0).(*domain.Label)
	return label, args.Error(1)
}

// Update mocks service.LabelService.Update
func (m *MockLabelService) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	name *string,
	mode service.UpdateMode,
) (*domain.Label, error) {
	args := m.Called(ctx, userID, id, name, mode)
	label, _ := args.Get(0).(*domain.Label)
	return label, args.Error(1)
}

// Delete mocks service.LabelService.Delete
func (m *MockLabelService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockUserService is a testify mock of service.UserService.
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

// CreateUser mocks service.UserService.CreateUser
func (m *MockUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// Authenticate mocks service.UserService.Authenticate
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// GetUser mocks service.UserService.GetUser
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// GetUserByEmail mocks service.UserService.GetUserByEmail
func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// UpdateUser mocks service.UserService.UpdateUser
func (m *MockUserService) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	email, password *string,
) (*domain.User, error) {
	args := m.Called(ctx, userID, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}
