package domain

import "time"

// Tag is a user-scoped label attached to recipes.
// Names are unique per owner, not globally — two users can each have
// their own "Dessert" tag as distinct records.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the modification timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
