package domain

import (
	"fmt"
	"strings"
	"time"
)

// Product listing limits.
const (
	// MinPriceCents is the lowest accepted listing price (0.01).
	MinPriceCents int64 = 1
	// MaxPriceCents is the highest accepted listing price (99999.99).
	MaxPriceCents int64 = 9_999_999
	// MaxStockQuantity is the highest accepted quantity in stock.
	MaxStockQuantity = 10_000
	// MaxNameLength is the longest accepted product name.
	MaxNameLength = 255
	// MinDescriptionLength is the shortest accepted product description.
	MinDescriptionLength = 10
)

// Product represents a listing in the marketplace.
type Product struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int       `json:"quantity"`
	CategoryID  *string   `json:"category_id,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFields holds a candidate product submission for validation. Price
// arrives as parsed cents plus a flag for inputs that carried more than two
// fractional digits, so the price rules can be checked in order.
type ProductFields struct {
	Name            string
	Description     string
	PriceCents      int64
	PriceTooPrecise bool
	Quantity        int
}

// ValidateProduct checks the field-level listing rules and returns a map of
// field name to rejection reason, or nil when the submission is accepted.
// Checks run in a fixed order and stop at the first violation. The profanity
// rule is checked separately by the service, which owns the moderator.
func ValidateProduct(f ProductFields) map[string]string {
	switch {
	case f.PriceCents < 0:
		return reject("price", "Price cannot be negative.")
	case f.PriceCents < MinPriceCents || f.PriceCents > MaxPriceCents:
		return reject("price", "Price must be between 0.01 and 99999.99.")
	case f.PriceTooPrecise:
		return reject("price", "Price cannot have more than two decimal places.")
	case f.Quantity < 0:
		return reject("quantity", "Quantity cannot be negative.")
	case f.Quantity > MaxStockQuantity:
		return reject("quantity", "Quantity cannot exceed 10,000.")
	case strings.TrimSpace(f.Name) == "":
		return reject("name", "Name cannot be empty.")
	case len(f.Name) > MaxNameLength:
		return reject("name", fmt.Sprintf("Name cannot exceed %d characters.", MaxNameLength))
	case len(f.Description) < MinDescriptionLength:
		return reject("description", "Description is too short. It should be at least 10 characters long.")
	}
	return nil
}

// ProfanityRejection is the rejection map for a description flagged by the
// content moderator. Split out so the service applies it as the final rule
// in the same order the pure checks run.
func ProfanityRejection() map[string]string {
	return reject("description", "Description contains prohibited or inappropriate content.")
}

func reject(field, reason string) map[string]string {
	return map[string]string{field: reason}
}
