package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Standard format"},
		{"98765 43210", "9876543210", "With spaces"},
		{"98765-43210", "9876543210", "With dashes"},
		{"(987) 654.3210", "9876543210", "With parentheses and dots"},
		{"+91 98765 43210", "9876543210", "With country code"},
		{"919876543210", "9876543210", "Country code without plus"},
		{"09876543210", "9876543210", "With trunk prefix"},
		{"6123456789", "6123456789", "Prefix 6"},
		{"7123456789", "7123456789", "Prefix 7"},
		{"8123456789", "8123456789", "Prefix 8"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"   ", ErrEmptyPhone, "Only whitespace"},
		{"123", ErrInvalidLength, "Too short"},
		{"98765432101", ErrInvalidLength, "Too long"},
		{"5876543210", ErrInvalidPrefix, "Invalid prefix 5"},
		{"1234567890", ErrInvalidPrefix, "Valid length but invalid prefix"},
		{"987654321a", ErrInvalidFormat, "Contains letters"},
		{"98765-4321a", ErrInvalidFormat, "Contains letters with dashes"},
		{"98765 4321!", ErrInvalidFormat, "Contains special characters"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.Error(t, err)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestFormat(t *testing.T) {
	validator := NewPhoneValidator()

	formatted, err := validator.Format("+91-98765-43210")
	require.NoError(t, err)
	assert.Equal(t, "98765 43210", formatted)

	_, err = validator.Format("12345")
	assert.Equal(t, ErrInvalidLength, err)
}

func TestIsValid(t *testing.T) {
	validator := NewPhoneValidator()

	assert.True(t, validator.IsValid("9876543210"))
	assert.False(t, validator.IsValid("0000"))
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Already clean"},
		{"+91 98765 43210", "9876543210", "Country code and spaces"},
		{"+91-98765-43210", "9876543210", "Country code and hyphens"},
		{" 98765\t43210 ", "9876543210", "Tabs and padding"},
		{"(987) 654-3210", "(987)6543210", "Parentheses are kept"},
		{"919876543210", "919876543210", "Bare country code is kept"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClientKey(tc.input))
		})
	}
}

func TestClientKey_GroupsVariants(t *testing.T) {
	variants := []string{"+91 98765 43210", "98765-43210", "9876543210"}
	for _, v := range variants {
		assert.Equal(t, ClientKey(variants[0]), ClientKey(v))
	}
}
