package service

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipebox-server/internal/auth"
	"github.com/recipebox/recipebox-server/internal/store/sqlite"
	"github.com/recipebox/recipebox-server/internal/validation"
)

// testEnv bundles the services wired against a temporary SQLite store.
type testEnv struct {
	auth        *AuthService
	recipes     *RecipeService
	tags        *TagService
	ingredients *IngredientService
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(key, 15*time.Minute)
	require.NoError(t, err)

	v := validation.New()

	return &testEnv{
		auth:        NewAuthService(s, tokenService, v, logger),
		recipes:     NewRecipeService(s, v, logger),
		tags:        NewTagService(s, v, logger),
		ingredients: NewIngredientService(s, v, logger),
	}
}

// registerTestUser creates an account and returns its user ID.
func registerTestUser(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	user, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "correct-horse-battery",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return user.ID
}
