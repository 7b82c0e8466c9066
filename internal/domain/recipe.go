package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/recipebox/recipebox-server/internal/errors"
)

// Price constraints mirror a DECIMAL(5,2) column: at most 2 fractional
// digits and at most 5 significant digits total, so the integer part
// must stay below 1000.
var maxPrice = decimal.NewFromInt(1000)

// Recipe is the central record of the catalog. Tags and Ingredients are
// many-to-many relations resolved by name at write time; the loaded
// slices reflect the current relation set.
type Recipe struct {
	ID          string          `json:"id"`
	UserID      string          `json:"-"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Touch updates the modification timestamp.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets creation and modification timestamps on a new record.
func (r *Recipe) InitTimestamps() {
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}

// TagIDs returns the IDs of the recipe's current tag relations.
func (r *Recipe) TagIDs() []string {
	ids := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}
	return ids
}

// IngredientIDs returns the IDs of the recipe's current ingredient relations.
func (r *Recipe) IngredientIDs() []string {
	ids := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ids[i] = ing.ID
	}
	return ids
}

// ValidatePrice checks that a price fits the DECIMAL(5,2) contract:
// non-negative, no more than 2 fractional digits, integer part < 1000.
// Prices are monetary values and never pass through a float.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return errors.Validation("price must not be negative")
	}
	if p.Exponent() < -2 {
		return errors.Validation("price must have no more than 2 decimal places")
	}
	if !p.LessThan(maxPrice) {
		return errors.Validation("price must have no more than 5 digits in total")
	}
	return nil
}
