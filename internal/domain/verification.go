package domain

import (
	"regexp"
	"time"
)

// Verification status constants.
const (
	VerificationStatusUnverified = "unverified"
	VerificationStatusVerified   = "verified"
	VerificationStatusRejected   = "rejected"
)

// Identity document type constants.
const (
	DocumentTypeNationalID     = "national_id"
	DocumentTypePassport       = "passport"
	DocumentTypeDrivingLicense = "driving_license"
)

// Document number format per declared type.
var documentNumberFormats = map[string]*regexp.Regexp{
	DocumentTypeNationalID:     regexp.MustCompile(`^\d{8}$`),
	DocumentTypePassport:       regexp.MustCompile(`^[A-Z]\d{7}$`),
	DocumentTypeDrivingLicense: regexp.MustCompile(`^[A-Z]{3}\d{6}$`),
}

// IDVerification represents an identity document submission.
type IDVerification struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	DocumentType     string    `json:"document_type"`
	DocumentNumber   string    `json:"document_number"`
	DocumentImageURL string    `json:"document_image_url"`
	PhotoImageURL    string    `json:"photo_image_url"`
	Status           string    `json:"status"`
	RejectionField   string    `json:"rejection_field,omitempty"`
	RejectionReason  string    `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsVerified reports whether the record has passed verification.
func (v *IDVerification) IsVerified() bool {
	return v.Status == VerificationStatusVerified
}

// ValidDocumentTypes returns the set of accepted document types.
func ValidDocumentTypes() []string {
	return []string{DocumentTypeNationalID, DocumentTypePassport, DocumentTypeDrivingLicense}
}

// IsValidDocumentType checks whether the given type is an accepted document type.
func IsValidDocumentType(t string) bool {
	_, ok := documentNumberFormats[t]
	return ok
}

// ValidDocumentNumber reports whether the document number matches the format
// required by the declared document type. Unknown types never match.
func ValidDocumentNumber(documentType, number string) bool {
	re, ok := documentNumberFormats[documentType]
	if !ok {
		return false
	}
	return re.MatchString(number)
}
