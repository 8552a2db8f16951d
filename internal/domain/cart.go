package domain

import (
	"fmt"
	"time"
)

// Cart limits.
const (
	// MaxQuantityPerProduct is the most units of a single product one cart may hold.
	MaxQuantityPerProduct = 100
	// MaxDiscountCodeLength is the longest accepted discount code.
	MaxDiscountCodeLength = 50
)

// Cart represents a shopping cart owned by either an authenticated user or an
// anonymous session. At least one of UserID and SessionID must be set.
type Cart struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id,omitempty"`
	SessionID    string     `json:"session_id,omitempty"`
	DiscountCode string     `json:"discount_code,omitempty"`
	Items        []CartItem `json:"items"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// CartItem represents a single product line within a cart. Name and price are
// snapshots taken when the item was added; stock checks always go back to the
// product catalog.
type CartItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// OwnerKey returns the storage key discriminating carts by owner: the user ID
// for authenticated carts, otherwise the session ID.
func (c *Cart) OwnerKey() string {
	if c.UserID != "" {
		return "user:" + c.UserID
	}
	return "session:" + c.SessionID
}

// TotalCents is the total price of all items in the cart.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the cart item for the given product, or
// -1 when the product is not in the cart.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Expired reports whether the cart has passed its expiry time.
func (c *Cart) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ValidateCart checks the cart-level rules: an owner must be present and the
// discount code must fit. Returns field rejections or nil.
func ValidateCart(userID, sessionID, discountCode string) map[string]string {
	if userID == "" && sessionID == "" {
		return reject("user", "A user or session must be associated with the cart.")
	}
	if discountCode != "" && len(discountCode) > MaxDiscountCodeLength {
		return reject("discount_code", "Discount code cannot exceed 50 characters.")
	}
	return nil
}

// ValidateCartItem checks the item-level rules against the live stock value.
// The stock message echoes the available quantity so callers can act on it.
func ValidateCartItem(productID string, quantity, availableStock int) map[string]string {
	if quantity <= 0 {
		return reject("quantity", "Quantity must be at least 1.")
	}
	if quantity > MaxQuantityPerProduct {
		return reject("quantity", fmt.Sprintf("Quantity cannot exceed %d per product.", MaxQuantityPerProduct))
	}
	if quantity > availableStock {
		return reject("quantity", fmt.Sprintf("Not enough stock. Available stock is %d.", availableStock))
	}
	if productID == "" {
		return reject("product", "Product must exist for the cart item.")
	}
	return nil
}
