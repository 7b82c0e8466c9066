package domain

import "time"

// Ingredient is a user-scoped named entity referenced by recipes.
// Same uniqueness rule as Tag: (owner, name) is unique.
type Ingredient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the modification timestamp.
func (i *Ingredient) Touch() {
	i.UpdatedAt = time.Now().UTC()
}
