package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox-server/internal/domain"
	"github.com/recipebox/recipebox-server/internal/store"
)

// recipeColumns is the ordered list of columns selected in recipe queries.
// Must match the scan order in scanRecipe.
const recipeColumns = `id, user_id, title, time_minutes, price, description, link, created_at, updated_at`

// scanRecipe scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Recipe. Tags and Ingredients are left empty; the caller loads them.
func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var r domain.Recipe

	var (
		price     string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.TimeMinutes,
		&price,
		&r.Description,
		&r.Link,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Price is stored as its exact decimal string, never a float.
	r.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// placeholders returns a comma-joined list of n SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// CreateRecipe inserts a recipe row and its tag/ingredient relations in a
// single transaction. On success the recipe's Tags and Ingredients slices
// are populated from the stored relation set.
func (s *Store) CreateRecipe(ctx context.Context, r *domain.Recipe, tagIDs, ingredientIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (id, user_id, title, time_minutes, price, description, link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.UserID,
		r.Title,
		r.TimeMinutes,
		r.Price.String(),
		r.Description,
		r.Link,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	if err := replaceRecipeTags(ctx, tx, r.ID, tagIDs); err != nil {
		return err
	}
	if err := replaceRecipeIngredients(ctx, tx, r.ID, ingredientIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return s.loadRecipeRelations(ctx, []*domain.Recipe{r})
}

// GetRecipe retrieves one of the user's recipes by ID, with its tags and
// ingredients loaded.
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) GetRecipe(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`, recipeID, userID)

	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRecipeRelations(ctx, []*domain.Recipe{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns the user's recipes ordered by creation time, newest
// first. Filter IDs narrow the result to recipes referencing any of the
// given tags or ingredients.
func (s *Store) ListRecipes(ctx context.Context, userID string, filter store.RecipeFilter) ([]*domain.Recipe, error) {
	query := `SELECT DISTINCT ` + qualify("recipes", recipeColumns) + ` FROM recipes`
	args := []any{}

	if len(filter.TagIDs) > 0 {
		query += ` JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id`
	}
	if len(filter.IngredientIDs) > 0 {
		query += ` JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id`
	}

	query += ` WHERE recipes.user_id = ?`
	args = append(args, userID)

	if len(filter.TagIDs) > 0 {
		query += ` AND recipe_tags.tag_id IN (` + placeholders(len(filter.TagIDs)) + `)`
		for _, tagID := range filter.TagIDs {
			args = append(args, tagID)
		}
	}
	if len(filter.IngredientIDs) > 0 {
		query += ` AND recipe_ingredients.ingredient_id IN (` + placeholders(len(filter.IngredientIDs)) + `)`
		for _, ingredientID := range filter.IngredientIDs {
			args = append(args, ingredientID)
		}
	}

	query += ` ORDER BY recipes.created_at DESC, recipes.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if recipes == nil {
		recipes = []*domain.Recipe{}
	}

	if err := s.loadRecipeRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateRecipe updates the recipe row and rewrites its relation sets in a
// single transaction. A nil tagIDs/ingredientIDs pointer leaves that
// relation set untouched; a pointer to an empty slice clears it.
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) UpdateRecipe(ctx context.Context, r *domain.Recipe, tagIDs, ingredientIDs *[]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE recipes SET
			title = ?,
			time_minutes = ?,
			price = ?,
			description = ?,
			link = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		r.Title,
		r.TimeMinutes,
		r.Price.String(),
		r.Description,
		r.Link,
		formatTime(r.UpdatedAt),
		r.ID,
		r.UserID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if tagIDs != nil {
		if err := replaceRecipeTags(ctx, tx, r.ID, *tagIDs); err != nil {
			return err
		}
	}
	if ingredientIDs != nil {
		if err := replaceRecipeIngredients(ctx, tx, r.ID, *ingredientIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return s.loadRecipeRelations(ctx, []*domain.Recipe{r})
}

// DeleteRecipe removes one of the user's recipes. Join rows are removed by
// the ON DELETE CASCADE on recipe_tags and recipe_ingredients; the tags and
// ingredients themselves survive.
// Returns store.ErrNotFound if the recipe does not exist or belongs to another user.
func (s *Store) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`, recipeID, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// replaceRecipeTags rewrites a recipe's tag set inside an open transaction:
// delete all existing join rows, insert the new set.
func replaceRecipeTags(ctx context.Context, tx *sql.Tx, recipeID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete recipe_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_tags (recipe_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert recipe_tag: %w", err)
		}
	}
	return nil
}

// replaceRecipeIngredients rewrites a recipe's ingredient set inside an open
// transaction: delete all existing join rows, insert the new set.
func replaceRecipeIngredients(ctx context.Context, tx *sql.Tx, recipeID string, ingredientIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete recipe_ingredients: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, ingredientID := range ingredientIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, created_at)
			VALUES (?, ?, ?)`,
			recipeID,
			ingredientID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert recipe_ingredient: %w", err)
		}
	}
	return nil
}

// loadRecipeRelations populates Tags and Ingredients for a batch of recipes
// with one query per relation.
func (s *Store) loadRecipeRelations(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Recipe, len(recipes))
	args := make([]any, 0, len(recipes))
	for _, r := range recipes {
		r.Tags = []domain.Tag{}
		r.Ingredients = []domain.Ingredient{}
		byID[r.ID] = r
		args = append(args, r.ID)
	}
	in := `(` + placeholders(len(recipes)) + `)`

	// Tags.
	rows, err := s.db.QueryContext(ctx, `
		SELECT rt.recipe_id, `+qualify("t", tagColumns)+`
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN `+in+`
		ORDER BY t.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("query recipe tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID string
		var t domain.Tag
		var createdAt, updatedAt string
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scan recipe tag: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Tags = append(r.Tags, t)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Ingredients.
	rows, err = s.db.QueryContext(ctx, `
		SELECT ri.recipe_id, `+qualify("i", ingredientColumns)+`
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN `+in+`
		ORDER BY i.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("query recipe ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID string
		var ing domain.Ingredient
		var createdAt, updatedAt string
		if err := rows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name, &createdAt, &updatedAt); err != nil {
			return fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if ing.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		if ing.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return err
		}
		if r, ok := byID[recipeID]; ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}
	return rows.Err()
}

// qualify prefixes every column in a comma-separated list with a table alias.
func qualify(table, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = table + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
