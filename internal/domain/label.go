package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// LabelKind identifies which user-scoped name collection a Label belongs to.
type LabelKind string

// Supported label kinds
const (
	LabelKindTag        LabelKind = "tag"
	LabelKindIngredient LabelKind = "ingredient"
)

// MaxNameLength bounds label names and recipe titles/links.
const MaxNameLength = 255

// Label validation errors
var (
	ErrEmptyLabelUserID = errors.New("label user ID cannot be empty")
	ErrEmptyLabelName   = errors.New("label name cannot be empty")
	ErrLabelNameTooLong = errors.New("label name is too long")
	ErrInvalidLabelKind = errors.New("invalid label kind")
)

// Label is a named, user-owned entity that recipes reference by set
// membership. Tags and ingredients are both labels and differ only in Kind.
type Label struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      LabelKind `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a Label of kind LabelKindTag.
type Tag = Label

// Ingredient is a Label of kind LabelKindIngredient.
type Ingredient = Label

// NewLabel creates an unsaved Label owned by userID. The ID is assigned by the store.
func NewLabel(userID uuid.UUID, kind LabelKind, name string) (*Label, error) {
	label := &Label{
		UserID:    userID,
		Kind:      kind,
		Name:      NormalizeLabelName(name),
		CreatedAt: time.Now().UTC(),
	}

	if err := label.Validate(); err != nil {
		return nil, err
	}

	return label, nil
}

// NormalizeLabelName trims surrounding whitespace and converts the name to
// Unicode NFC so that visually identical names reconcile to the same label.
func NormalizeLabelName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Validate checks if the Label has valid data.
func (l *Label) Validate() error {
	if l.UserID == uuid.Nil {
		return ErrEmptyLabelUserID
	}

	if !l.Kind.Valid() {
		return ErrInvalidLabelKind
	}

	return validateLabelName(l.Name)
}

// Rename replaces the label's name after normalizing and validating it.
func (l *Label) Rename(name string) error {
	name = NormalizeLabelName(name)
	if err := validateLabelName(name); err != nil {
		return err
	}
	l.Name = name
	return nil
}

// Valid reports whether k is a known label kind.
func (k LabelKind) Valid() bool {
	return k == LabelKindTag || k == LabelKindIngredient
}

// Plural returns the collection name used in routes and log fields.
func (k LabelKind) Plural() string {
	return string(k) + "s"
}

func validateLabelName(name string) error {
	if name == "" {
		return NewValidationError("name", "is required", ErrEmptyLabelName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewValidationError("name", "must not exceed 255 characters", ErrLabelNameTooLong)
	}
	return nil
}
