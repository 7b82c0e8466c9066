package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipebox-server/internal/http/response"
	"github.com/recipebox/recipebox-server/internal/service"
)

// assignedOnly reports whether the assigned_only query flag is set.
func assignedOnly(r *http.Request) bool {
	switch r.URL.Query().Get("assigned_only") {
	case "1", "true":
		return true
	}
	return false
}

// handleListTags returns the caller's tags.
// GET /tags?assigned_only=1
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tagService.List(r.Context(), getUserID(r.Context()), assignedOnly(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tags, s.logger)
}

// handleGetTag returns a single tag.
// GET /tags/{id}
func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.tagService.Get(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tag, s.logger)
}

// handleRenameTag renames a tag.
// PATCH /tags/{id}
func (s *Server) handleRenameTag(w http.ResponseWriter, r *http.Request) {
	var req service.RenameRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tag, err := s.tagService.Rename(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tag, s.logger)
}

// handleDeleteTag deletes a tag and detaches it from all recipes.
// DELETE /tags/{id}
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.tagService.Delete(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
