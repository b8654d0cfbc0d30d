package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

func nameEmailSchema() *types.SerializedSchema {
	return schemaWith(
		types.SchemaField{Key: "name", Type: types.FieldTypeString, Label: "Name",
			Required: true, Validation: &types.FieldValidation{Min: floatPtr(2)}},
		types.SchemaField{Key: "email", Type: types.FieldTypeEmail, Label: "Email", Required: true},
	)
}

func TestValidateNameEmail(t *testing.T) {
	v, err := NewValidator(nameEmailSchema())
	require.NoError(t, err)

	ok := v.Validate(map[string]any{"name": "Al", "email": "al@x.com"})
	require.True(t, ok.Valid, "errors: %v", ok.Errors)
	require.Empty(t, ok.Errors)

	short := v.Validate(map[string]any{"name": "A", "email": "al@x.com"})
	require.False(t, short.Valid)
	require.Contains(t, short.Errors, "name")
	require.NotContains(t, short.Errors, "email")
}

func TestValidateEmailBareAddressOnly(t *testing.T) {
	v, err := NewValidator(nameEmailSchema())
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"bare address", "al@x.com", true},
		{"display name form", "Al <al@x.com>", false},
		{"angle brackets only", "<al@x.com>", false},
		{"no at sign", "al.x.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(map[string]any{"name": "Al", "email": tt.email})
			require.Equal(t, tt.valid, res.Valid, "errors: %v", res.Errors)
			if !tt.valid {
				require.Contains(t, res.Errors, "email")
			}
		})
	}
}

func TestValidateRequiredMissing(t *testing.T) {
	v, err := NewValidator(nameEmailSchema())
	require.NoError(t, err)

	res := v.Validate(map[string]any{"name": "Ada"})
	require.False(t, res.Valid)
	require.Contains(t, res.Errors, "email")
}

func TestValidateOptionalAbsent(t *testing.T) {
	v, err := NewValidator(schemaWith(
		types.SchemaField{Key: "nickname", Type: types.FieldTypeString, Label: "Nickname"},
	))
	require.NoError(t, err)

	res := v.Validate(map[string]any{})
	require.True(t, res.Valid)

	// Present but mistyped still fails even though the field is optional.
	res = v.Validate(map[string]any{"nickname": 7})
	require.False(t, res.Valid)
}

func TestValidateNumberBounds(t *testing.T) {
	v, err := NewValidator(schemaWith(
		types.SchemaField{Key: "guests", Type: types.FieldTypeNumber, Label: "Guests",
			Required: true, Validation: &types.FieldValidation{Min: floatPtr(1), Max: floatPtr(10)}},
	))
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{"in range", 5, true},
		{"float in range", 2.5, true},
		{"coerced string", "7", true},
		{"below min", 0, false},
		{"above max", 11, false},
		{"not numeric", "several", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(map[string]any{"guests": tt.value})
			require.Equal(t, tt.valid, res.Valid, "errors: %v", res.Errors)
		})
	}
}

func TestValidateBooleanAndDate(t *testing.T) {
	v, err := NewValidator(schemaWith(
		types.SchemaField{Key: "attending", Type: types.FieldTypeBoolean, Label: "Attending", Required: true},
		types.SchemaField{Key: "arrival", Type: types.FieldTypeDate, Label: "Arrival", Required: true},
	))
	require.NoError(t, err)

	res := v.Validate(map[string]any{"attending": true, "arrival": "2026-09-01"})
	require.True(t, res.Valid)

	res = v.Validate(map[string]any{"attending": "yes", "arrival": ""})
	require.False(t, res.Valid)
	require.Contains(t, res.Errors, "attending")
	require.Contains(t, res.Errors, "arrival")
}

func TestValidateSelect(t *testing.T) {
	v, err := NewValidator(schemaWith(
		types.SchemaField{Key: "diet", Type: types.FieldTypeSelect, Label: "Diet", Required: true,
			Validation: &types.FieldValidation{Options: []string{"omnivore", "vegan"}}},
		types.SchemaField{Key: "freeform", Type: types.FieldTypeSelect, Label: "Freeform"},
	))
	require.NoError(t, err)

	res := v.Validate(map[string]any{"diet": "vegan"})
	require.True(t, res.Valid)

	res = v.Validate(map[string]any{"diet": "carnivore"})
	require.False(t, res.Valid)
	require.Contains(t, res.Errors, "diet")

	// A select without options accepts any string.
	res = v.Validate(map[string]any{"diet": "vegan", "freeform": "anything"})
	require.True(t, res.Valid)
}

func TestValidatePattern(t *testing.T) {
	v, err := NewValidator(schemaWith(
		types.SchemaField{Key: "code", Type: types.FieldTypeString, Label: "Code", Required: true,
			Validation: &types.FieldValidation{Pattern: `^[A-Z]{3}-\d{2}$`}},
	))
	require.NoError(t, err)

	require.True(t, v.Validate(map[string]any{"code": "ABC-42"}).Valid)
	require.False(t, v.Validate(map[string]any{"code": "abc-42"}).Valid)
}

func TestNewValidatorBadPattern(t *testing.T) {
	_, err := NewValidator(schemaWith(
		types.SchemaField{Key: "code", Type: types.FieldTypeString,
			Validation: &types.FieldValidation{Pattern: `([`}},
	))
	require.Error(t, err)
}
