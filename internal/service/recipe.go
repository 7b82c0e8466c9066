package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox-server/internal/domain"
	domainerrors "github.com/recipebox/recipebox-server/internal/errors"
	"github.com/recipebox/recipebox-server/internal/id"
	"github.com/recipebox/recipebox-server/internal/store"
	"github.com/recipebox/recipebox-server/internal/validation"
)

// RecipeService orchestrates recipe CRUD and tag/ingredient reconciliation.
type RecipeService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, validator *validation.Validator, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// NamedRef references a tag or ingredient by name. Names resolve to the
// caller's own records, creating them on first use.
type NamedRef struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateRecipeRequest contains a full recipe payload. TimeMinutes and
// Price are pointers so an absent field is distinguishable from a
// legitimate zero and fails the required check.
type CreateRecipeRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"required,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Description string           `json:"description"`
	Link        string           `json:"link" validate:"omitempty,max=2048"`
	Tags        []NamedRef       `json:"tags" validate:"dive"`
	Ingredients []NamedRef       `json:"ingredients" validate:"dive"`
}

// UpdateRecipeRequest contains partial recipe updates. Nil fields are left
// untouched; a non-nil empty Tags/Ingredients slice clears that set.
type UpdateRecipeRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Link        *string          `json:"link" validate:"omitempty,max=2048"`
	Tags        *[]NamedRef      `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]NamedRef      `json:"ingredients" validate:"omitempty,dive"`
}

// RecipeFilter narrows a listing to recipes referencing any of the given
// tag or ingredient IDs.
type RecipeFilter struct {
	TagIDs        []string
	IngredientIDs []string
}

// Create validates the payload, reconciles tag and ingredient names, and
// stores the recipe with its relation sets in one transaction.
func (s *RecipeService) Create(ctx context.Context, userID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := domain.ValidatePrice(*req.Price); err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTags(ctx, userID, req.Tags)
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := s.resolveIngredients(ctx, userID, req.Ingredients)
	if err != nil {
		return nil, err
	}

	recipeID, err := id.Generate("recipe")
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	recipe := &domain.Recipe{
		ID:          recipeID,
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe, tagIDs, ingredientIDs); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recipe created",
			"recipe_id", recipeID,
			"user_id", userID,
			"tags", len(tagIDs),
			"ingredients", len(ingredientIDs),
		)
	}

	return recipe, nil
}

// Get returns one of the user's recipes.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// List returns the user's recipes, newest first, optionally filtered.
func (s *RecipeService) List(ctx context.Context, userID string, filter RecipeFilter) ([]*domain.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, userID, store.RecipeFilter{
		TagIDs:        filter.TagIDs,
		IngredientIDs: filter.IngredientIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Replace performs a full update: every stored field takes the payload's
// value, with omitted optional fields reset to their zero values and
// omitted relation lists cleared.
func (s *RecipeService) Replace(ctx context.Context, userID, recipeID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := domain.ValidatePrice(*req.Price); err != nil {
		return nil, err
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTags(ctx, userID, req.Tags)
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := s.resolveIngredients(ctx, userID, req.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe.Title = req.Title
	recipe.TimeMinutes = *req.TimeMinutes
	recipe.Price = *req.Price
	recipe.Description = req.Description
	recipe.Link = req.Link
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe, &tagIDs, &ingredientIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("replace recipe: %w", err)
	}

	return recipe, nil
}

// Update performs a partial update. Only fields present in the payload
// change; a present-but-empty tag or ingredient list clears that set.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID string, req UpdateRecipeRequest) (*domain.Recipe, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := domain.ValidatePrice(*req.Price); err != nil {
			return nil, err
		}
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, domainerrors.Validation("title must not be empty")
		}
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}
	recipe.Touch()

	var tagIDs, ingredientIDs *[]string
	if req.Tags != nil {
		ids, err := s.resolveTags(ctx, userID, *req.Tags)
		if err != nil {
			return nil, err
		}
		tagIDs = &ids
	}
	if req.Ingredients != nil {
		ids, err := s.resolveIngredients(ctx, userID, *req.Ingredients)
		if err != nil {
			return nil, err
		}
		ingredientIDs = &ids
	}

	if err := s.store.UpdateRecipe(ctx, recipe, tagIDs, ingredientIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	return recipe, nil
}

// Delete removes one of the user's recipes. Referenced tags and
// ingredients are kept.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	if err := s.store.DeleteRecipe(ctx, userID, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Recipe deleted", "recipe_id", recipeID, "user_id", userID)
	}
	return nil
}

// resolveTags maps tag names to IDs, creating missing tags. Duplicate
// names in the payload collapse to a single relation.
func (s *RecipeService) resolveTags(ctx context.Context, userID string, refs []NamedRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		tag, _, err := s.store.FindOrCreateTag(ctx, userID, ref.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", ref.Name, err)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// resolveIngredients maps ingredient names to IDs, creating missing ones.
func (s *RecipeService) resolveIngredients(ctx context.Context, userID string, refs []NamedRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		ing, _, err := s.store.FindOrCreateIngredient(ctx, userID, ref.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve ingredient %q: %w", ref.Name, err)
		}
		ids = append(ids, ing.ID)
	}
	return ids, nil
}
