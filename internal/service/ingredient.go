package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/recipebox/recipebox-server/internal/domain"
	domainerrors "github.com/recipebox/recipebox-server/internal/errors"
	"github.com/recipebox/recipebox-server/internal/store"
	"github.com/recipebox/recipebox-server/internal/validation"
)

// IngredientService manages a user's ingredient pantry.
type IngredientService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, validator *validation.Validator, logger *slog.Logger) *IngredientService {
	return &IngredientService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// List returns the user's ingredients. With assignedOnly, only ingredients
// referenced by at least one recipe are returned.
func (s *IngredientService) List(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Ingredient, error) {
	ingredients, err := s.store.ListIngredients(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// Get returns one of the user's ingredients.
func (s *IngredientService) Get(ctx context.Context, userID, ingredientID string) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, userID, ingredientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// Rename changes an ingredient's name. A collision with another of the
// user's ingredients reports a validation failure.
func (s *IngredientService) Rename(ctx context.Context, userID, ingredientID string, req RenameRequest) (*domain.Ingredient, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ing, err := s.Get(ctx, userID, ingredientID)
	if err != nil {
		return nil, err
	}

	ing.Name = req.Name
	ing.Touch()

	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Validation("ingredient with this name already exists")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}

	return ing, nil
}

// Delete removes one of the user's ingredients and detaches it from all recipes.
func (s *IngredientService) Delete(ctx context.Context, userID, ingredientID string) error {
	if err := s.store.DeleteIngredient(ctx, userID, ingredientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("ingredient not found")
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Ingredient deleted", "ingredient_id", ingredientID, "user_id", userID)
	}
	return nil
}
