package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipebox-server/internal/http/response"
	"github.com/recipebox/recipebox-server/internal/service"
)

// handleListIngredients returns the caller's ingredients.
// GET /ingredients?assigned_only=1
func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.ingredientService.List(r.Context(), getUserID(r.Context()), assignedOnly(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ingredients, s.logger)
}

// handleGetIngredient returns a single ingredient.
// GET /ingredients/{id}
func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ingredient, err := s.ingredientService.Get(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ingredient, s.logger)
}

// handleRenameIngredient renames an ingredient.
// PATCH /ingredients/{id}
func (s *Server) handleRenameIngredient(w http.ResponseWriter, r *http.Request) {
	var req service.RenameRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	ingredient, err := s.ingredientService.Rename(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, ingredient, s.logger)
}

// handleDeleteIngredient deletes an ingredient and detaches it from all recipes.
// DELETE /ingredients/{id}
func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := s.ingredientService.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
