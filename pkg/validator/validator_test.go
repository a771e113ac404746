package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type medicine struct {
	Name   string `json:"name" validate:"required"`
	Dosage string `json:"dosage" validate:"required"`
}

type request struct {
	Phone     string     `json:"phone" validate:"required,phone"`
	Role      string     `json:"role" validate:"required,oneof=patient doctor"`
	Medicines []medicine `json:"medicines" validate:"dive"`
}

func TestValidate_FormatsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(request{
		Phone:     "12ab",
		Role:      "admin",
		Medicines: []medicine{{Name: "Tab. Aspirin 75mg"}},
	})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "phone must be a phone number of 10 to 15 digits", errs["phone"])
	assert.Equal(t, "role must be one of: patient doctor", errs["role"])
	assert.Equal(t, "dosage is required", errs["medicines[0].dosage"])
}

func TestValidate_AcceptsValidRequest(t *testing.T) {
	v := NewValidator()

	err := v.Validate(request{
		Phone:     "9999000002",
		Role:      "patient",
		Medicines: []medicine{{Name: "Tab. Aspirin 75mg", Dosage: "0-1-0"}},
	})
	assert.NoError(t, err)
}
