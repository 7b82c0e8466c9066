// Package store defines the persistence interface for the RecipeBox server.
//
// Every read and write on user-owned records takes the owner's user ID as
// an explicit parameter; implementations must scope queries to that owner
// so that records belonging to other users behave as if they do not exist.
package store

import (
	"context"

	"github.com/recipebox/recipebox-server/internal/domain"
)

// RecipeFilter narrows a recipe listing. IDs refer to the caller's own
// tags/ingredients; a recipe matches if it references any of them.
type RecipeFilter struct {
	TagIDs        []string
	IngredientIDs []string
}

// UserStore persists user accounts. Users are the only records not
// scoped to an owner (they are the owners).
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
}

// TagStore persists user-scoped tags.
type TagStore interface {
	FindOrCreateTag(ctx context.Context, userID, name string) (*domain.Tag, bool, error)
	GetTag(ctx context.Context, userID, id string) (*domain.Tag, error)
	ListTags(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, userID, id string) error
}

// IngredientStore persists user-scoped ingredients.
type IngredientStore interface {
	FindOrCreateIngredient(ctx context.Context, userID, name string) (*domain.Ingredient, bool, error)
	GetIngredient(ctx context.Context, userID, id string) (*domain.Ingredient, error)
	ListIngredients(ctx context.Context, userID string, assignedOnly bool) ([]*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	DeleteIngredient(ctx context.Context, userID, id string) error
}

// RecipeStore persists recipes and their relation sets.
//
// CreateRecipe and UpdateRecipe write the recipe row and its relation
// rewrites in a single transaction: either everything commits or nothing
// does. For UpdateRecipe a nil tagIDs/ingredientIDs pointer leaves that
// relation set untouched; a pointer to an empty slice clears it.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs []string) error
	GetRecipe(ctx context.Context, userID, id string) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, userID string, filter RecipeFilter) ([]*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe, tagIDs, ingredientIDs *[]string) error
	DeleteRecipe(ctx context.Context, userID, id string) error
}

// Store is the combined persistence interface.
type Store interface {
	UserStore
	TagStore
	IngredientStore
	RecipeStore

	Close() error
}
