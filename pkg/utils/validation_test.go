package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renewalForm struct {
	ExpiryDate string `validate:"required,datestr"`
}

func TestValidateStructDateRule(t *testing.T) {
	assert.NoError(t, ValidateStruct(renewalForm{ExpiryDate: "2026-03-04"}))
	assert.NoError(t, ValidateStruct(renewalForm{ExpiryDate: "2026-03-04T10:00:00Z"}))

	err := ValidateStruct(renewalForm{ExpiryDate: "next tuesday"})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "ExpiryDate is invalid", validationErr.Message)
}

func TestRegisterRulesReportsFailure(t *testing.T) {
	err := registerRules(validator.New(), map[string]validator.Func{
		"": func(validator.FieldLevel) bool { return true },
	})
	assert.Error(t, err)

	assert.NoError(t, registerRules(validator.New(), customRules))
}
