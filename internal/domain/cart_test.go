package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCart_OwnerRequired(t *testing.T) {
	fields := ValidateCart("", "", "")
	assert.Equal(t, map[string]string{
		"user": "A user or session must be associated with the cart.",
	}, fields)

	assert.Nil(t, ValidateCart("user-1", "", ""))
	assert.Nil(t, ValidateCart("", "sess-1", ""))
	assert.Nil(t, ValidateCart("user-1", "sess-1", ""))
}

func TestValidateCart_DiscountCodeLength(t *testing.T) {
	code := strings.Repeat("A", MaxDiscountCodeLength+1)
	fields := ValidateCart("user-1", "", code)
	assert.Equal(t, map[string]string{
		"discount_code": "Discount code cannot exceed 50 characters.",
	}, fields)

	assert.Nil(t, ValidateCart("user-1", "", strings.Repeat("A", MaxDiscountCodeLength)))
}

func TestValidateCartItem(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		stock     int
		want      map[string]string
	}{
		{"valid", "p1", 3, 10, nil},
		{"missing product", "", 3, 10, map[string]string{"product": "Product must exist for the cart item."}},
		{"zero quantity", "p1", 0, 10, map[string]string{"quantity": "Quantity must be at least 1."}},
		{"negative quantity", "p1", -2, 10, map[string]string{"quantity": "Quantity must be at least 1."}},
		{"over per-product cap", "p1", 101, 500, map[string]string{"quantity": "Quantity cannot exceed 100 per product."}},
		{"over stock", "p1", 6, 5, map[string]string{"quantity": "Not enough stock. Available stock is 5."}},
		{"exactly stock", "p1", 5, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCartItem(tt.productID, tt.quantity, tt.stock))
		})
	}
}

func TestCartOwnerKey(t *testing.T) {
	c := Cart{UserID: "u1", SessionID: "s1"}
	assert.Equal(t, "user:u1", c.OwnerKey())

	c.UserID = ""
	assert.Equal(t, "session:s1", c.OwnerKey())
}

func TestCartTotals(t *testing.T) {
	c := Cart{
		Items: []CartItem{
			{ProductID: "p1", PriceCents: 250, Quantity: 2},
			{ProductID: "p2", PriceCents: 1000, Quantity: 3},
		},
	}

	assert.Equal(t, int64(3500), c.TotalCents())
	assert.Equal(t, 5, c.ItemCount())
	assert.Equal(t, 1, c.FindItemIndex("p2"))
	assert.Equal(t, -1, c.FindItemIndex("p3"))
}

func TestCartExpiry(t *testing.T) {
	now := time.Now().UTC()

	c := Cart{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, c.Expired(now))

	c.ExpiresAt = now.Add(-time.Minute)
	assert.True(t, c.Expired(now))
}
