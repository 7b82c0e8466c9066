package api

import (
	"encoding/json/v2"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/recipebox/recipebox-server/internal/domain"
	"github.com/recipebox/recipebox-server/internal/http/response"
	"github.com/recipebox/recipebox-server/internal/service"
)

// recipeSummary is the list representation of a recipe. Detail responses
// carry the description, lists leave it out.
type recipeSummary struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       decimal.Decimal     `json:"price"`
	Link        string              `json:"link"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Tags        []domain.Tag        `json:"tags"`
	Ingredients []domain.Ingredient `json:"ingredients"`
}

func summarizeRecipes(recipes []*domain.Recipe) []recipeSummary {
	summaries := make([]recipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, recipeSummary{
			ID:          r.ID,
			Title:       r.Title,
			TimeMinutes: r.TimeMinutes,
			Price:       r.Price,
			Link:        r.Link,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			Tags:        r.Tags,
			Ingredients: r.Ingredients,
		})
	}
	return summaries
}

// splitIDList parses a comma-separated query value into IDs, skipping blanks.
func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// handleListRecipes returns the caller's recipes, newest first.
// GET /recipes?tags=id1,id2&ingredients=id3
func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	filter := service.RecipeFilter{
		TagIDs:        splitIDList(r.URL.Query().Get("tags")),
		IngredientIDs: splitIDList(r.URL.Query().Get("ingredients")),
	}

	recipes, err := s.recipeService.List(r.Context(), getUserID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, summarizeRecipes(recipes), s.logger)
}

// handleCreateRecipe creates a recipe with its tag and ingredient names.
// POST /recipes
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRecipeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	recipe, err := s.recipeService.Create(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, recipe, s.logger)
}

// handleGetRecipe returns a single recipe.
// GET /recipes/{id}
func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipeService.Get(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipe, s.logger)
}

// handleReplaceRecipe fully replaces a recipe.
// PUT /recipes/{id}
func (s *Server) handleReplaceRecipe(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRecipeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	recipe, err := s.recipeService.Replace(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipe, s.logger)
}

// handleUpdateRecipe applies a partial update to a recipe.
// PATCH /recipes/{id}
func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateRecipeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	recipe, err := s.recipeService.Update(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recipe, s.logger)
}

// handleDeleteRecipe deletes a recipe.
// DELETE /recipes/{id}
func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipeService.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
