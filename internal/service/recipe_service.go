package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/shopspring/decimal"
)

// UpdateMode selects merge (PATCH) or replace (PUT) semantics.
type UpdateMode int

const (
	// UpdatePartial changes only the supplied fields.
	UpdatePartial UpdateMode = iota
	// UpdateFull requires every required field and resets omitted optional ones.
	UpdateFull
)

// RecipeFields carries the writable recipe fields from a request.
// A nil pointer means the field was absent from the payload. For Tags and
// Ingredients, a non-nil pointer to an empty slice clears the association set.
type RecipeFields struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// RecipeService provides ownership-scoped recipe operations. Every method
// takes the acting user's ID; recipes owned by anyone else behave exactly
// like missing ones.
type RecipeService interface {
	// List returns the user's recipes ordered by ID descending, with labels.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Recipe, error)

	// Get returns one of the user's recipes with its labels.
	// Returns store.ErrRecipeNotFound if absent or foreign-owned.
	Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Recipe, error)

	// Create validates fields, reconciles nested tags and ingredients under
	// the user and saves the recipe, all in one transaction.
	Create(ctx context.Context, userID uuid.UUID, fields RecipeFields) (*domain.Recipe, error)

	// Update applies fields according to mode. Supplied tag or ingredient
	// lists replace the corresponding association set; absent ones are kept.
	// Returns store.ErrRecipeNotFound if absent or foreign-owned.
	Update(ctx context.Context, userID uuid.UUID, id int64, fields RecipeFields, mode UpdateMode) (*domain.Recipe, error)

	// Delete removes the recipe and its associations. Tags and ingredients are kept.
	// Returns store.ErrRecipeNotFound if absent or foreign-owned.
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

type recipeServiceImpl struct {
	recipes     store.RecipeStore
	tags        store.LabelStore
	ingredients store.LabelStore
	db          *sql.DB
	recorder    ReconcileRecorder
	logger      *slog.Logger
}

var _ RecipeService = (*recipeServiceImpl)(nil)

// NewRecipeService creates a RecipeService. recorder may be nil.
func NewRecipeService(
	recipes store.RecipeStore,
	tags store.LabelStore,
	ingredients store.LabelStore,
	db *sql.DB,
	recorder ReconcileRecorder,
	logger *slog.Logger,
) (RecipeService, error) {
	switch {
	case recipes == nil:
		return nil, NewServiceError("recipe", "new", errors.New("recipe store cannot be nil"))
	case tags == nil || tags.Kind() != domain.LabelKindTag:
		return nil, NewServiceError("recipe", "new", errors.New("tag store is required"))
	case ingredients == nil || ingredients.Kind() != domain.LabelKindIngredient:
		return nil, NewServiceError("recipe", "new", errors.New("ingredient store is required"))
	case db == nil:
		return nil, NewServiceError("recipe", "new", errors.New("database cannot be nil"))
	case logger == nil:
		return nil, NewServiceError("recipe", "new", errors.New("logger cannot be nil"))
	}

	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &recipeServiceImpl{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		db:          db,
		recorder:    recorder,
		logger:      logger.With(slog.String("component", "recipe_service")),
	}, nil
}

// List implements RecipeService.List
func (s *recipeServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Recipe, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	recipes, err := s.recipes.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to list recipes", slog.String("error", err.Error()), slog.String("user_id", userID.String()))
		return nil, NewServiceError("recipe", "list", err)
	}

	if err := loadLabels(ctx, s.tags, s.ingredients, recipes); err != nil {
		log.Error("failed to load recipe labels", slog.String("error", err.Error()), slog.String("user_id", userID.String()))
		return nil, NewServiceError("recipe", "list", err)
	}

	return recipes, nil
}

// Get implements RecipeService.Get
func (s *recipeServiceImpl) Get(ctx context.Context, userID uuid.UUID, id int64) (*domain.Recipe, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	recipe, err := s.recipes.GetByOwner(ctx, userID, id)
	if err != nil {
		logFailure(log, "get recipe", err, slog.Int64("recipe_id", id))
		return nil, NewServiceError("recipe", "get", err)
	}

	if err := loadLabels(ctx, s.tags, s.ingredients, []*domain.Recipe{recipe}); err != nil {
		log.Error("failed to load recipe labels", slog.String("error", err.Error()), slog.Int64("recipe_id", id))
		return nil, NewServiceError("recipe", "get", err)
	}

	return recipe, nil
}

// Create implements RecipeService.Create
func (s *recipeServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	fields RecipeFields,
) (*domain.Recipe, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	recipe := &domain.Recipe{
		UserID:      userID,
		Tags:        []*domain.Tag{},
		Ingredients: []*domain.Ingredient{},
	}
	applyRecipeFields(recipe, fields, UpdateFull)

	errs, err := appendValidation(nil, recipe.Validate())
	if err != nil {
		return nil, NewServiceError("recipe", "create", err)
	}
	errs = mergeMissing(errs, requireRecipeFields(fields))
	tagNames, ingredientNames, labelErrs := normalizeNested(fields)
	errs = append(errs, labelErrs...)
	if err := errs.ErrOrNil(); err != nil {
		log.Debug("recipe create rejected", slog.Any("fields", errs.Fields()))
		return nil, NewServiceError("recipe", "create", err)
	}

	created, err := domain.NewRecipe(userID, recipe.Title, recipe.TimeMinutes, recipe.Price, recipe.Description, recipe.Link)
	if err != nil {
		return nil, NewServiceError("recipe", "create", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.recipes.WithTx(tx).Create(ctx, created); err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		return s.replaceLabels(ctx, tx, created, tagNames, ingredientNames, log)
	})
	if err != nil {
		logFailure(log, "create recipe", err, slog.String("user_id", userID.String()))
		return nil, NewServiceError("recipe", "create", err)
	}

	log.Info("recipe created",
		slog.Int64("recipe_id", created.ID),
		slog.String("user_id", userID.String()),
		slog.Int("tags", len(created.Tags)),
		slog.Int("ingredients", len(created.Ingredients)))

	return created, nil
}

// Update implements RecipeService.Update
func (s *recipeServiceImpl) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	fields RecipeFields,
	mode UpdateMode,
) (*domain.Recipe, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var errs domain.ValidationErrors
	if mode == UpdateFull {
		errs = requireRecipeFields(fields)
	}
	tagNames, ingredientNames, labelErrs := normalizeNested(fields)
	errs = append(errs, labelErrs...)
	if err := errs.ErrOrNil(); err != nil {
		log.Debug("recipe update rejected", slog.Int64("recipe_id", id), slog.Any("fields", errs.Fields()))
		return nil, NewServiceError("recipe", "update", err)
	}

	var updated *domain.Recipe
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		recipes := s.recipes.WithTx(tx)

		recipe, err := recipes.GetByOwner(ctx, userID, id)
		if err != nil {
			return err
		}

		applyRecipeFields(recipe, fields, mode)
		if err := recipe.Validate(); err != nil {
			return err
		}
		recipe.Touch()

		if err := recipes.Update(ctx, recipe); err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		if err := s.replaceLabels(ctx, tx, recipe, tagNames, ingredientNames, log); err != nil {
			return err
		}
		if err := loadLabels(ctx, s.tags.WithTx(tx), s.ingredients.WithTx(tx), []*domain.Recipe{recipe}); err != nil {
			return err
		}

		updated = recipe
		return nil
	})
	if err != nil {
		logFailure(log, "update recipe", err, slog.Int64("recipe_id", id))
		return nil, NewServiceError("recipe", "update", err)
	}

	log.Info("recipe updated",
		slog.Int64("recipe_id", id),
		slog.String("user_id", userID.String()),
		slog.Bool("full", mode == UpdateFull))

	return updated, nil
}

// Delete implements RecipeService.Delete
func (s *recipeServiceImpl) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.recipes.DeleteByOwner(ctx, userID, id); err != nil {
		logFailure(log, "delete recipe", err, slog.Int64("recipe_id", id))
		return NewServiceError("recipe", "delete", err)
	}

	log.Info("recipe deleted", slog.Int64("recipe_id", id), slog.String("user_id", userID.String()))
	return nil
}

// replaceLabels reconciles the supplied name lists and makes them the
// recipe's association sets. A nil list leaves that set untouched.
func (s *recipeServiceImpl) replaceLabels(
	ctx context.Context,
	tx *sql.Tx,
	recipe *domain.Recipe,
	tagNames, ingredientNames *[]string,
	log *slog.Logger,
) error {
	if tagNames != nil {
		labels, err := s.reconcileInto(ctx, s.tags.WithTx(tx), recipe, *tagNames, log)
		if err != nil {
			return err
		}
		recipe.Tags = labels
	}
	if ingredientNames != nil {
		labels, err := s.reconcileInto(ctx, s.ingredients.WithTx(tx), recipe, *ingredientNames, log)
		if err != nil {
			return err
		}
		recipe.Ingredients = labels
	}
	return nil
}

func (s *recipeServiceImpl) reconcileInto(
	ctx context.Context,
	labels store.LabelStore,
	recipe *domain.Recipe,
	names []string,
	log *slog.Logger,
) ([]*domain.Label, error) {
	// Labels always belong to the recipe's owner, never to a caller-supplied user.
	resolved, err := reconcileLabels(ctx, labels, recipe.UserID, names, s.recorder, log)
	if err != nil {
		return nil, err
	}
	if err := labels.ReplaceForRecipe(ctx, recipe.ID, labelIDs(resolved)); err != nil {
		return nil, fmt.Errorf("failed to replace recipe %s: %w", labels.Kind().Plural(), err)
	}
	return resolved, nil
}

// loadLabels attaches tags and ingredients to each recipe.
func loadLabels(ctx context.Context, tags, ingredients store.LabelStore, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	tagMap, err := tags.ListForRecipes(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	ingredientMap, err := ingredients.ListForRecipes(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}

	for _, r := range recipes {
		r.Tags = []*domain.Tag{}
		r.Ingredients = []*domain.Ingredient{}
		if l, ok := tagMap[r.ID]; ok {
			r.Tags = l
		}
		if l, ok := ingredientMap[r.ID]; ok {
			r.Ingredients = l
		}
	}
	return nil
}

// requireRecipeFields reports the required fields missing from a create or
// full update. Title emptiness is left to Recipe.Validate.
func requireRecipeFields(fields RecipeFields) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if fields.Title == nil {
		errs = append(errs, domain.NewValidationError("title", "is required", domain.ErrEmptyRecipeTitle))
	}
	if fields.TimeMinutes == nil {
		errs = append(errs, domain.NewValidationError("time_minutes", "is required", nil))
	}
	if fields.Price == nil {
		errs = append(errs, domain.NewValidationError("price", "is required", nil))
	}
	return errs
}

// applyRecipeFields copies fields onto recipe. In full mode omitted optional
// fields are reset to their zero value. Identity and owner are never touched.
func applyRecipeFields(recipe *domain.Recipe, fields RecipeFields, mode UpdateMode) {
	if fields.Title != nil {
		recipe.Title = *fields.Title
	}
	if fields.TimeMinutes != nil {
		recipe.TimeMinutes = *fields.TimeMinutes
	}
	if fields.Price != nil {
		recipe.Price = *fields.Price
	}

	switch {
	case fields.Description != nil:
		recipe.Description = *fields.Description
	case mode == UpdateFull:
		recipe.Description = ""
	}

	switch {
	case fields.Link != nil:
		recipe.Link = *fields.Link
	case mode == UpdateFull:
		recipe.Link = ""
	}
}

// normalizeNested validates the nested label lists that are present.
func normalizeNested(fields RecipeFields) (tags, ingredients *[]string, errs domain.ValidationErrors) {
	if fields.Tags != nil {
		names, tagErrs := normalizeLabelNames(domain.LabelKindTag, *fields.Tags)
		tags = &names
		errs = append(errs, tagErrs...)
	}
	if fields.Ingredients != nil {
		names, ingredientErrs := normalizeLabelNames(domain.LabelKindIngredient, *fields.Ingredients)
		ingredients = &names
		errs = append(errs, ingredientErrs...)
	}
	return tags, ingredients, errs
}

// appendValidation merges validation details from err into errs. Any other
// non-nil error is returned unchanged as the second result.
func appendValidation(errs domain.ValidationErrors, err error) (domain.ValidationErrors, error) {
	if err == nil {
		return errs, nil
	}
	var multi domain.ValidationErrors
	if errors.As(err, &multi) {
		return append(errs, multi...), nil
	}
	var single *domain.ValidationError
	if errors.As(err, &single) {
		return append(errs, single), nil
	}
	return errs, err
}

// mergeMissing appends the errors in more whose field errs does not report yet.
func mergeMissing(errs, more domain.ValidationErrors) domain.ValidationErrors {
	present := errs.Fields()
	for _, e := range more {
		if _, ok := present[e.Field]; !ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// logFailure logs expected outcomes (not found, invalid input) at debug
// level and everything else as an error.
func logFailure(log *slog.Logger, action string, err error, attrs ...any) {
	args := append([]any{slog.String("error", err.Error())}, attrs...)
	if store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation) || store.IsDuplicateError(err) {
		log.Debug(action+" failed", args...)
		return
	}
	log.Error(action+" failed", args...)
}
