// Package api provides the HTTP API server and handlers for the RecipeBox application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/recipebox/recipebox-server/internal/http/response"
	"github.com/recipebox/recipebox-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService       *service.AuthService
	recipeService     *service.RecipeService
	tagService        *service.TagService
	ingredientService *service.IngredientService
	router            *chi.Mux
	logger            *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	recipeService *service.RecipeService,
	tagService *service.TagService,
	ingredientService *service.IngredientService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:       authService,
		recipeService:     recipeService,
		tagService:        tagService,
		ingredientService: ingredientService,
		router:            chi.NewRouter(),
		logger:            logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// User endpoints. Registration and the token exchange are public,
	// the profile requires auth.
	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Post("/token", s.handleIssueToken)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetProfile)
			r.Patch("/me", s.handleUpdateProfile)
		})
	})

	// Recipes (require auth).
	s.router.Route("/recipes", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListRecipes)
		r.Post("/", s.handleCreateRecipe)
		r.Get("/{id}", s.handleGetRecipe)
		r.Put("/{id}", s.handleReplaceRecipe)
		r.Patch("/{id}", s.handleUpdateRecipe)
		r.Delete("/{id}", s.handleDeleteRecipe)
	})

	// Tags (require auth).
	s.router.Route("/tags", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListTags)
		r.Get("/{id}", s.handleGetTag)
		r.Patch("/{id}", s.handleRenameTag)
		r.Delete("/{id}", s.handleDeleteTag)
	})

	// Ingredients (require auth).
	s.router.Route("/ingredients", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListIngredients)
		r.Get("/{id}", s.handleGetIngredient)
		r.Patch("/{id}", s.handleRenameIngredient)
		r.Delete("/{id}", s.handleDeleteIngredient)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
