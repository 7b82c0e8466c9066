package domain

import "time"

// User represents an authenticated account in the system.
// Every recipe, tag, and ingredient belongs to exactly one user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the modification timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets creation and modification timestamps on a new record.
func (u *User) InitTimestamps() {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
}
