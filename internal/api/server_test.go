package api

import (
	"bytes"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-server/internal/auth"
	"github.com/recipebox/recipebox-server/internal/http/response"
	"github.com/recipebox/recipebox-server/internal/service"
	"github.com/recipebox/recipebox-server/internal/store/sqlite"
	"github.com/recipebox/recipebox-server/internal/validation"
)

// setupTestServer creates a test server backed by a temporary SQLite store.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tokenService, err := auth.NewTokenService([]byte("test-secret-key-for-testing-32bb"), 15*time.Minute)
	require.NoError(t, err)

	v := validation.New()

	authService := service.NewAuthService(s, tokenService, v, logger)
	recipeService := service.NewRecipeService(s, v, logger)
	tagService := service.NewTagService(s, v, logger)
	ingredientService := service.NewIngredientService(s, v, logger)

	return NewServer(authService, recipeService, tagService, ingredientService, logger)
}

// doJSON issues a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, server *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// decodeEnvelope unmarshals a recorded response body.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var result response.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	return result
}

// registerAndLogin creates an account over HTTP and returns an access token.
func registerAndLogin(t *testing.T, server *Server, email string) string {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/users", "", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	w = doJSON(t, server, http.MethodPost, "/users/token", "", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code, "token exchange failed: %s", w.Body.String())

	result := decodeEnvelope(t, w)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
}

func TestRequireAuth(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not-a-real-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/recipes", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			server.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/nonexistent", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_JSONContentType(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", "", nil)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}
