package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/recipebox/recipebox-server/internal/store"
)

func TestFindOrCreateIngredient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-i1", "ing@example.com")

	ing1, created, err := s.FindOrCreateIngredient(ctx, "user-i1", "Salt")
	if err != nil {
		t.Fatalf("FindOrCreateIngredient (create): %v", err)
	}
	if !created {
		t.Error("expected created=true for new ingredient")
	}
	if ing1.ID == "" {
		t.Error("expected non-empty ID for created ingredient")
	}

	ing2, created2, err := s.FindOrCreateIngredient(ctx, "user-i1", "Salt")
	if err != nil {
		t.Fatalf("FindOrCreateIngredient (find): %v", err)
	}
	if created2 {
		t.Error("expected created=false for existing ingredient")
	}
	if ing2.ID != ing1.ID {
		t.Errorf("expected same ID %q, got %q", ing1.ID, ing2.ID)
	}
}

func TestListIngredients_OrderAndScope(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-il", "il@example.com")
	insertTestUser(t, s, "user-il2", "il2@example.com")

	for _, name := range []string{"Kale", "Apple", "Pepper"} {
		if _, _, err := s.FindOrCreateIngredient(ctx, "user-il", name); err != nil {
			t.Fatalf("FindOrCreateIngredient(%s): %v", name, err)
		}
	}
	if _, _, err := s.FindOrCreateIngredient(ctx, "user-il2", "Zest"); err != nil {
		t.Fatalf("FindOrCreateIngredient other user: %v", err)
	}

	got, err := s.ListIngredients(ctx, "user-il", false)
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 ingredients, got %d", len(got))
	}

	// Sorted by name descending.
	want := []string{"Pepper", "Kale", "Apple"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("item %d: got name %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestListIngredients_AssignedOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-ia", "ia@example.com")

	assigned, _, err := s.FindOrCreateIngredient(ctx, "user-ia", "Flour")
	if err != nil {
		t.Fatalf("FindOrCreateIngredient assigned: %v", err)
	}
	if _, _, err := s.FindOrCreateIngredient(ctx, "user-ia", "Idle"); err != nil {
		t.Fatalf("FindOrCreateIngredient idle: %v", err)
	}

	r := makeTestRecipe("recipe-ia", "user-ia", "Bread")
	if err := s.CreateRecipe(ctx, r, nil, []string{assigned.ID}); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	got, err := s.ListIngredients(ctx, "user-ia", true)
	if err != nil {
		t.Fatalf("ListIngredients assignedOnly: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 assigned ingredient, got %d", len(got))
	}
	if got[0].Name != "Flour" {
		t.Errorf("got name %q, want %q", got[0].Name, "Flour")
	}
}

func TestUpdateIngredient_Conflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-iu", "iu@example.com")

	if _, _, err := s.FindOrCreateIngredient(ctx, "user-iu", "Taken"); err != nil {
		t.Fatalf("FindOrCreateIngredient taken: %v", err)
	}
	ing, _, err := s.FindOrCreateIngredient(ctx, "user-iu", "Free")
	if err != nil {
		t.Fatalf("FindOrCreateIngredient free: %v", err)
	}

	ing.Name = "Renamed"
	ing.Touch()
	if err := s.UpdateIngredient(ctx, ing); err != nil {
		t.Fatalf("UpdateIngredient: %v", err)
	}

	got, err := s.GetIngredient(ctx, "user-iu", ing.ID)
	if err != nil {
		t.Fatalf("GetIngredient: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("Name: got %q, want %q", got.Name, "Renamed")
	}

	ing.Name = "Taken"
	if err := s.UpdateIngredient(ctx, ing); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteIngredient_OwnerScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-id1", "id1@example.com")
	insertTestUser(t, s, "user-id2", "id2@example.com")

	ing, _, err := s.FindOrCreateIngredient(ctx, "user-id1", "Butter")
	if err != nil {
		t.Fatalf("FindOrCreateIngredient: %v", err)
	}

	if err := s.DeleteIngredient(ctx, "user-id2", ing.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}

	if err := s.DeleteIngredient(ctx, "user-id1", ing.ID); err != nil {
		t.Fatalf("DeleteIngredient (owner): %v", err)
	}
	if _, err := s.GetIngredient(ctx, "user-id1", ing.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
