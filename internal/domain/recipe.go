package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe validation errors
var (
	ErrEmptyRecipeUserID   = errors.New("recipe user ID cannot be empty")
	ErrEmptyRecipeTitle    = errors.New("recipe title cannot be empty")
	ErrRecipeTitleTooLong  = errors.New("recipe title is too long")
	ErrNegativeTimeMinutes = errors.New("recipe time cannot be negative")
	ErrInvalidPrice        = errors.New("invalid recipe price")
	ErrRecipeLinkTooLong   = errors.New("recipe link is too long")
)

// Price limits mirror the numeric(5,2) column.
const PriceScale = 2

// MaxPrice is the exclusive upper bound for a recipe price.
var MaxPrice = decimal.NewFromInt(1000)

// Recipe is a user-owned recipe with its tag and ingredient sets.
// Tags and Ingredients are always owned by the same user as the recipe.
type Recipe struct {
	ID          int64           `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	Tags        []*Tag          `json:"tags"`
	Ingredients []*Ingredient   `json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewRecipe creates an unsaved Recipe owned by userID with empty tag and
// ingredient sets. The ID is assigned by the store.
func NewRecipe(
	userID uuid.UUID,
	title string,
	timeMinutes int,
	price decimal.Decimal,
	description, link string,
) (*Recipe, error) {
	now := time.Now().UTC()
	recipe := &Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: timeMinutes,
		Price:       price,
		Description: description,
		Link:        link,
		Tags:        []*Tag{},
		Ingredients: []*Ingredient{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	return recipe, nil
}

// Validate checks every field and reports all field failures at once.
func (r *Recipe) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyRecipeUserID
	}

	var errs ValidationErrors

	switch {
	case r.Title == "":
		errs = append(errs, NewValidationError("title", "is required", ErrEmptyRecipeTitle))
	case utf8.RuneCountInString(r.Title) > MaxNameLength:
		errs = append(errs, NewValidationError("title", "must not exceed 255 characters", ErrRecipeTitleTooLong))
	}

	if r.TimeMinutes < 0 {
		errs = append(errs, NewValidationError("time_minutes", "must be greater than or equal to 0", ErrNegativeTimeMinutes))
	}

	if err := ValidatePrice(r.Price); err != nil {
		errs = append(errs, err)
	}

	if utf8.RuneCountInString(r.Link) > MaxNameLength {
		errs = append(errs, NewValidationError("link", "must not exceed 255 characters", ErrRecipeLinkTooLong))
	}

	return errs.ErrOrNil()
}

// maxPriceCoefficientBits bounds the unscaled value of a price. Anything
// wider has far more significant digits than numeric(5,2) can hold.
const maxPriceCoefficientBits = 128

// ValidatePrice checks that a price is non-negative, below MaxPrice and has
// at most PriceScale fractional digits.
//
// Decimals parsed from user input may carry exponents up to 2^31, and
// comparing them rescales to a common exponent, so the magnitude is bounded
// from the coefficient length and exponent before any arithmetic runs.
func ValidatePrice(price decimal.Decimal) *ValidationError {
	if price.IsNegative() {
		return NewValidationError("price", "must be greater than or equal to 0", ErrInvalidPrice)
	}
	if price.IsZero() {
		return nil
	}

	tooLarge := NewValidationError("price", "must be less than 1000", ErrInvalidPrice)
	tooPrecise := NewValidationError("price", "must have at most 2 decimal places", ErrInvalidPrice)

	exp := int64(price.Exponent())
	coef := price.Coefficient()
	if coef.BitLen() > maxPriceCoefficientBits {
		if exp >= 0 {
			return tooLarge
		}
		return tooPrecise
	}

	// value lies in [10^(digits-1+exp), 10^(digits+exp))
	digits := int64(len(coef.Text(10)))
	switch {
	case digits+exp > 3:
		return tooLarge
	case digits+exp <= -PriceScale:
		return tooPrecise
	}

	switch {
	case price.GreaterThanOrEqual(MaxPrice):
		return tooLarge
	case !price.Equal(price.Truncate(PriceScale)):
		return tooPrecise
	}
	return nil
}

// Touch records a modification time.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now().UTC()
}
