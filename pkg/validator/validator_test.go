package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingForm struct {
	Name     string `validate:"required,max=255"`
	Contact  string `validate:"required,email"`
	Quantity int    `validate:"gte=0,lte=10000"`
	DocType  string `validate:"omitempty,oneof=national_id passport driving_license"`
}

func TestValidate_Success(t *testing.T) {
	s := listingForm{Name: "Heritage Carrots", Contact: "grower@example.com", Quantity: 25}
	assert.NoError(t, Validate(s))
}

func TestValidate_MissingRequired(t *testing.T) {
	s := listingForm{Contact: "grower@example.com"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := listingForm{Name: "Heritage Carrots", Contact: "not-an-email"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Contact"])
}

func TestValidate_OutOfRange(t *testing.T) {
	s := listingForm{Name: "Heritage Carrots", Contact: "grower@example.com", Quantity: 20000}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Quantity"], "10000")
}

func TestValidate_SliceMinItems(t *testing.T) {
	type ballotForm struct {
		Choices []string `validate:"required,min=2,dive,required"`
	}
	err := Validate(ballotForm{Choices: []string{"only one"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must have at least 2 items", valErr.Fields()["Choices"])
}

func TestValidate_OneOf(t *testing.T) {
	s := listingForm{Name: "Heritage Carrots", Contact: "grower@example.com", DocType: "library_card"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["DocType"], "national_id")
}

func TestValidate_MultipleErrors(t *testing.T) {
	s := listingForm{}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Contact")
	assert.Contains(t, err.Error(), "Name")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"Name":"Heritage Carrots","Contact":"grower@example.com","Quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst listingForm
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, "Heritage Carrots", dst.Name)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{bad`)))

	var dst listingForm
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
