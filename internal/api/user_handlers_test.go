package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/users", "", map[string]any{
		"email":    "new@example.com",
		"password": "correct-horse-battery",
		"name":     "New User",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	result := decodeEnvelope(t, w)
	assert.True(t, result.Success)

	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "new@example.com", data["email"])
	assert.Equal(t, "New User", data["name"])
	assert.NotEmpty(t, data["id"])
	assert.NotContains(t, data, "password_hash")
}

func TestRegister_ValidationErrors(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing email", body: map[string]any{"password": "correct-horse-battery"}},
		{name: "invalid email", body: map[string]any{"email": "not-an-email", "password": "correct-horse-battery"}},
		{name: "short password", body: map[string]any{"email": "a@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, server, http.MethodPost, "/users", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Details)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	server := setupTestServer(t)
	registerAndLogin(t, server, "taken@example.com")

	w := doJSON(t, server, http.MethodPost, "/users", "", map[string]any{
		"email":    "Taken@Example.com",
		"password": "correct-horse-battery",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	result := decodeEnvelope(t, w)
	assert.False(t, result.Success)
}

func TestRegister_InvalidBody(t *testing.T) {
	server := setupTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/users", "", "not an object")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueToken_BadCredentials(t *testing.T) {
	server := setupTestServer(t)
	registerAndLogin(t, server, "login@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "wrong password", body: map[string]any{"email": "login@example.com", "password": "wrong-password-here"}},
		{name: "unknown email", body: map[string]any{"email": "nobody@example.com", "password": "correct-horse-battery"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, server, http.MethodPost, "/users/token", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
		})
	}
}

func TestGetProfile(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "me@example.com")

	w := doJSON(t, server, http.MethodGet, "/users/me", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "me@example.com", data["email"])
}

func TestUpdateProfile(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "patchme@example.com")

	w := doJSON(t, server, http.MethodPatch, "/users/me", token, map[string]any{
		"name": "Renamed",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Renamed", data["name"])
	assert.Equal(t, "patchme@example.com", data["email"])
}

func TestUpdateProfile_EmailIsImmutable(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "fixed@example.com")

	// An email member in the payload is ignored, the address never changes.
	w := doJSON(t, server, http.MethodPatch, "/users/me", token, map[string]any{
		"email": "moved@example.com",
		"name":  "Still Here",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "fixed@example.com", data["email"])
	assert.Equal(t, "Still Here", data["name"])
}
