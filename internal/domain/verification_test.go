package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDocumentNumber(t *testing.T) {
	tests := []struct {
		docType string
		number  string
		want    bool
	}{
		{DocumentTypeNationalID, "12345678", true},
		{DocumentTypeNationalID, "1234567", false},
		{DocumentTypeNationalID, "123456789", false},
		{DocumentTypeNationalID, "1234567a", false},
		{DocumentTypePassport, "A1234567", true},
		{DocumentTypePassport, "a1234567", false},
		{DocumentTypePassport, "AB123456", false},
		{DocumentTypeDrivingLicense, "ABC123456", true},
		{DocumentTypeDrivingLicense, "AB1234567", false},
		{DocumentTypeDrivingLicense, "ABCD12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.docType+"/"+tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidDocumentNumber(tt.docType, tt.number))
		})
	}
}

func TestIsValidDocumentType(t *testing.T) {
	for _, dt := range ValidDocumentTypes() {
		assert.True(t, IsValidDocumentType(dt))
	}
	assert.False(t, IsValidDocumentType("voter_card"))
	assert.False(t, IsValidDocumentType(""))
}

func TestIDVerificationIsVerified(t *testing.T) {
	v := IDVerification{Status: VerificationStatusVerified}
	assert.True(t, v.IsVerified())

	for _, s := range []string{VerificationStatusUnverified, VerificationStatusRejected} {
		v.Status = s
		assert.False(t, v.IsVerified())
	}
}
