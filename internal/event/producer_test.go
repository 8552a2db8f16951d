package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freshmarket/freshmarket/internal/domain"
)

func TestVerificationData_MapsLifecycleFields(t *testing.T) {
	v := &domain.IDVerification{
		ID:             "ver-001",
		UserID:         "user-001",
		DocumentType:   domain.DocumentTypeNationalID,
		DocumentNumber: "12345678",
		Status:         domain.VerificationStatusVerified,
	}

	data := verificationData(v)

	assert.Equal(t, "ver-001", data.ID)
	assert.Equal(t, "user-001", data.UserID)
	assert.Equal(t, domain.DocumentTypeNationalID, data.DocumentType)
	assert.Equal(t, domain.VerificationStatusVerified, data.Status)
}

func TestProductData_MapsCatalogFields(t *testing.T) {
	catID := "cat-001"
	p := &domain.Product{
		ID:         "prod-001",
		SellerID:   "user-002",
		Name:       "Heritage Carrots",
		PriceCents: 499,
		Quantity:   12,
		CategoryID: &catID,
	}

	data := productData(p)

	assert.Equal(t, "prod-001", data.ID)
	assert.Equal(t, "user-002", data.SellerID)
	assert.Equal(t, int64(499), data.PriceCents)
	assert.Equal(t, 12, data.Quantity)
	assert.Equal(t, &catID, data.CategoryID)
}
