package types

import "errors"

// ErrInvalidFieldType reports a field whose type is outside the closed set.
var ErrInvalidFieldType = errors.New("invalid field type")

// Field types. A schema field holds exactly one of these; the set is
// closed and not extensible at this layer.
const (
	FieldTypeString  = "string"
	FieldTypeNumber  = "number"
	FieldTypeBoolean = "boolean"
	FieldTypeDate    = "date"
	FieldTypeEmail   = "email"
	FieldTypeSelect  = "select"
)

// validFieldTypes is the set of recognized field type values.
var validFieldTypes = map[string]bool{
	FieldTypeString:  true,
	FieldTypeNumber:  true,
	FieldTypeBoolean: true,
	FieldTypeDate:    true,
	FieldTypeEmail:   true,
	FieldTypeSelect:  true,
}

// IsValidFieldType reports whether the given string is a recognized field type.
func IsValidFieldType(t string) bool {
	return validFieldTypes[t]
}

// FieldValidation holds the optional constraints of a field.
// Min and Max are pointers so that zero bounds stay distinguishable
// from absent bounds. For string and email fields Min is a minimum
// length; for number fields Min and Max are value bounds.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Equal reports structural equality of two validation blocks.
// A nil block equals another nil block only.
func (v *FieldValidation) Equal(other *FieldValidation) bool {
	if v == nil || other == nil {
		return v == other
	}
	if !floatPtrEqual(v.Min, other.Min) || !floatPtrEqual(v.Max, other.Max) {
		return false
	}
	if v.Pattern != other.Pattern {
		return false
	}
	if len(v.Options) != len(other.Options) {
		return false
	}
	for i := range v.Options {
		if v.Options[i] != other.Options[i] {
			return false
		}
	}
	return true
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SchemaField is one form field definition. Key is unique within a
// schema and stable across versions unless the field is removed.
type SchemaField struct {
	Key         string           `json:"key"`
	Type        string           `json:"type"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Required    bool             `json:"required"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// Equal reports structural equality of the full field definition.
/// Display metadata participates: a label change counts as a change.
func (f SchemaField) Equal(other SchemaField) bool {
	return f.Key == other.Key &&
		f.Type == other.Type &&
		f.Label == other.Label &&
		f.Description == other.Description &&
		f.Required == other.Required &&
		f.Validation.Equal(other.Validation)
}

// SelectOptions returns the permitted option strings for a select
// field. Returns nil when the field has no usable option list; a
// select field without options degrades to an unconstrained string.
func (f SchemaField) SelectOptions() []string {
	if f.Type != FieldTypeSelect || f.Validation == nil || len(f.Validation.Options) == 0 {
		return nil
	}
	return f.Validation.Options
}

// Meta returns the field definition without its key, as stored in the
// schema metadata map.
func (f SchemaField) Meta() FieldMeta {
	return FieldMeta{
		Type:        f.Type,
		Label:       f.Label,
		Description: f.Description,
		Required:    f.Required,
		Validation:  f.Validation,
	}
}

// FieldMeta is a SchemaField sans key, keyed by the metadata map.
type FieldMeta struct {
	Type        string           `json:"type"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Required    bool             `json:"required"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// Field returns the full field definition for the given key.
func (m FieldMeta) Field(key string) SchemaField {
	return SchemaField{
		Key:         key,
		Type:        m.Type,
		Label:       m.Label,
		Description: m.Description,
		Required:    m.Required,
		Validation:  m.Validation,
	}
}
