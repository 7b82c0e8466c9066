package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "tags@example.com")

	createTestRecipe(t, server, token, map[string]any{
		"title":        "Tagged",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Breakfast"}, {"name": "Quick"}},
	})

	w := doJSON(t, server, http.MethodGet, "/tags", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	tags, ok := result.Data.([]any)
	require.True(t, ok)
	assert.Len(t, tags, 2)
}

func TestListTags_AssignedOnly(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "assigned@example.com")

	createTestRecipe(t, server, token, map[string]any{
		"title":        "Keeper",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Used"}},
	})

	// Leave an orphan tag behind by deleting its only recipe.
	data := createTestRecipe(t, server, token, map[string]any{
		"title":        "Doomed",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Orphan"}},
	})
	w := doJSON(t, server, http.MethodDelete, "/recipes/"+data["id"].(string), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, server, http.MethodGet, "/tags?assigned_only=1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	tags, ok := result.Data.([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
	assert.Equal(t, "Used", tags[0].(map[string]any)["name"])
}

func TestRenameTag(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "renametag@example.com")

	data := createTestRecipe(t, server, token, map[string]any{
		"title":        "Holder",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Before"}},
	})
	tagID := data["tags"].([]any)[0].(map[string]any)["id"].(string)

	w := doJSON(t, server, http.MethodPatch, "/tags/"+tagID, token, map[string]any{
		"name": "After",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	renamed, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "After", renamed["name"])
}

func TestRenameTag_MissingName(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "badrename@example.com")

	data := createTestRecipe(t, server, token, map[string]any{
		"title":        "Holder",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Stuck"}},
	})
	tagID := data["tags"].([]any)[0].(map[string]any)["id"].(string)

	w := doJSON(t, server, http.MethodPatch, "/tags/"+tagID, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTag(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "deltag@example.com")

	data := createTestRecipe(t, server, token, map[string]any{
		"title":        "Holder",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Gone"}},
	})
	recipeID := data["id"].(string)
	tagID := data["tags"].([]any)[0].(map[string]any)["id"].(string)

	w := doJSON(t, server, http.MethodDelete, "/tags/"+tagID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The recipe survives without the tag.
	w = doJSON(t, server, http.MethodGet, "/recipes/"+recipeID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	recipe, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Empty(t, recipe["tags"])

	w = doJSON(t, server, http.MethodGet, "/tags/"+tagID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredientEndpoints(t *testing.T) {
	server := setupTestServer(t)
	token := registerAndLogin(t, server, "ings@example.com")

	data := createTestRecipe(t, server, token, map[string]any{
		"title":        "Holder",
		"time_minutes": 5,
		"price":        "2.00",
		"ingredients":  []map[string]any{{"name": "Salt"}},
	})
	ingID := data["ingredients"].([]any)[0].(map[string]any)["id"].(string)

	w := doJSON(t, server, http.MethodGet, "/ingredients", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	result := decodeEnvelope(t, w)
	ingredients, ok := result.Data.([]any)
	require.True(t, ok)
	assert.Len(t, ingredients, 1)

	w = doJSON(t, server, http.MethodPatch, "/ingredients/"+ingID, token, map[string]any{
		"name": "Sea Salt",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	result = decodeEnvelope(t, w)
	renamed, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Sea Salt", renamed["name"])

	w = doJSON(t, server, http.MethodDelete, "/ingredients/"+ingID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, server, http.MethodGet, "/ingredients/"+ingID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTag_CrossUserIsNotFound(t *testing.T) {
	server := setupTestServer(t)
	ownerToken := registerAndLogin(t, server, "tagowner@example.com")
	intruderToken := registerAndLogin(t, server, "tagintruder@example.com")

	data := createTestRecipe(t, server, ownerToken, map[string]any{
		"title":        "Holder",
		"time_minutes": 5,
		"price":        "2.00",
		"tags":         []map[string]any{{"name": "Private"}},
	})
	tagID := data["tags"].([]any)[0].(map[string]any)["id"].(string)

	w := doJSON(t, server, http.MethodGet, "/tags/"+tagID, intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, server, http.MethodDelete, "/tags/"+tagID, intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
