package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/service"
	"github.com/shopspring/decimal"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// UpdateUserRequest defines the payload for PATCH /api/users/me.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=12,max=72"`
}

// UserResponse is the public representation of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LabelRequest is the body accepted when updating a tag or ingredient.
type LabelRequest struct {
	Name *string `json:"name"`
}

// LabelRef is a tag or ingredient descriptor nested in a recipe payload.
type LabelRef struct {
	Name string `json:"name"`
}

// LabelResponse is the representation of a tag or ingredient.
type LabelResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RecipeRequest is the body accepted by recipe create, PUT and PATCH.
// Price is kept raw so that both "5.50" and 5.5 are accepted and a bad
// value is reported against the price field.
type RecipeRequest struct {
	Title       *string         `json:"title"`
	TimeMinutes *int            `json:"time_minutes"`
	Price       json.RawMessage `json:"price"`
	Description *string         `json:"description"`
	Link        *string         `json:"link"`
	Tags        *[]LabelRef     `json:"tags"`
	Ingredients *[]LabelRef     `json:"ingredients"`
}

// RecipeSummaryResponse is the list representation of a recipe.
type RecipeSummaryResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       string          `json:"price"`
	Link        string          `json:"link"`
	Tags        []LabelResponse `json:"tags"`
	Ingredients []LabelResponse `json:"ingredients"`
}

// RecipeDetailResponse adds the description to the list representation.
type RecipeDetailResponse struct {
	RecipeSummaryResponse
	Description string `json:"description"`
}

var jsonNull = []byte("null")

// toFields converts the request into service fields. A missing or null
// price is treated as absent.
func (req *RecipeRequest) toFields() (service.RecipeFields, error) {
	fields := service.RecipeFields{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Description: req.Description,
		Link:        req.Link,
		Tags:        labelNames(req.Tags),
		Ingredients: labelNames(req.Ingredients),
	}

	raw := bytes.TrimSpace(req.Price)
	if len(raw) > 0 && !bytes.Equal(raw, jsonNull) {
		var price decimal.Decimal
		if err := price.UnmarshalJSON(raw); err != nil {
			return service.RecipeFields{}, domain.NewValidationError("price", "must be a valid decimal number", domain.ErrInvalidFormat)
		}
		fields.Price = &price
	}

	return fields, nil
}

func labelNames(refs *[]LabelRef) *[]string {
	if refs == nil {
		return nil
	}
	names := make([]string, len(*refs))
	for i, ref := range *refs {
		names[i] = ref.Name
	}
	return &names
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func newLabelResponse(l *domain.Label) LabelResponse {
	return LabelResponse{ID: l.ID, Name: l.Name}
}

func newLabelResponses(labels []*domain.Label) []LabelResponse {
	out := make([]LabelResponse, len(labels))
	for i, l := range labels {
		out[i] = newLabelResponse(l)
	}
	return out
}

func newRecipeSummary(r *domain.Recipe) RecipeSummaryResponse {
	return RecipeSummaryResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(domain.PriceScale),
		Link:        r.Link,
		Tags:        newLabelResponses(r.Tags),
		Ingredients: newLabelResponses(r.Ingredients),
	}
}

func newRecipeDetail(r *domain.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeSummaryResponse: newRecipeSummary(r),
		Description:           r.Description,
	}
}
