package schema

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// Result is a discriminated validation outcome. On failure Errors maps
// field keys to human-readable messages; on success it is empty.
type Result struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
}

// fieldRule is one field's compiled validation rule.
type fieldRule struct {
	field   types.SchemaField
	pattern *regexp.Regexp
}

// Validator checks untyped submission data against one schema version.
type Validator struct {
	rules []fieldRule
}

// NewValidator derives a validator from the schema's canonical field
// list. Regex patterns are compiled up front; a non-compiling pattern
// makes the schema itself malformed and returns an error here, so that
// Validate never fails.
func NewValidator(s *types.SerializedSchema) (*Validator, error) {
	rules := make([]fieldRule, 0, len(s.Fields))
	for _, f := range s.Fields {
		rule := fieldRule{field: f}
		if f.Validation != nil && f.Validation.Pattern != "" &&
			(f.Type == types.FieldTypeString || f.Type == types.FieldTypeEmail) {
			re, err := regexp.Compile(f.Validation.Pattern)
			if err != nil {
				return nil, fmt.Errorf("field %q: compiling pattern: %w", f.Key, err)
			}
			rule.pattern = re
		}
		rules = append(rules, rule)
	}
	return &Validator{rules: rules}, nil
}

// Validate checks data against every field rule. It is total: any
// input yields a Result, never an error. Keys in data that the schema
// does not define are ignored.
func (v *Validator) Validate(data map[string]any) Result {
	errs := make(map[string][]string)
	for _, rule := range v.rules {
		f := rule.field
		value, present := data[f.Key]
		if !present || value == nil {
			if f.Required {
				errs[f.Key] = append(errs[f.Key], fmt.Sprintf("%s is required", label(f)))
			}
			continue
		}
		for _, msg := range rule.check(value) {
			errs[f.Key] = append(errs[f.Key], msg)
		}
	}
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}
	return Result{Valid: true, Errors: map[string][]string{}}
}

// check validates a present value against the field's base constraint.
func (r fieldRule) check(value any) []string {
	f := r.field
	switch f.Type {
	case types.FieldTypeString, types.FieldTypeEmail:
		return r.checkString(value)
	case types.FieldTypeNumber:
		return r.checkNumber(value)
	case types.FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("%s must be a boolean", label(f))}
		}
	case types.FieldTypeDate:
		s, ok := value.(string)
		if !ok || s == "" {
			return []string{fmt.Sprintf("%s is required", label(f))}
		}
	case types.FieldTypeSelect:
		return r.checkSelect(value)
	}
	return nil
}

func (r fieldRule) checkString(value any) []string {
	f := r.field
	s, ok := value.(string)
	if !ok {
		return []string{fmt.Sprintf("%s must be a string", label(f))}
	}
	var msgs []string
	if f.Validation != nil && f.Validation.Min != nil {
		minLen := int(*f.Validation.Min)
		if utf8.RuneCountInString(s) < minLen {
			msgs = append(msgs, fmt.Sprintf("%s must be at least %d characters", label(f), minLen))
		}
	}
	if f.Type == types.FieldTypeEmail {
		// ParseAddress accepts display-name forms like "Al <al@x.com>";
		// only a bare address is a valid field value.
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			msgs = append(msgs, "Invalid email address")
		}
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		msgs = append(msgs, fmt.Sprintf("%s does not match the expected format", label(f)))
	}
	return msgs
}

func (r fieldRule) checkNumber(value any) []string {
	f := r.field
	n, ok := coerceNumber(value)
	if !ok {
		return []string{fmt.Sprintf("%s must be a number", label(f))}
	}
	var msgs []string
	if f.Validation != nil {
		if f.Validation.Min != nil && n < *f.Validation.Min {
			msgs = append(msgs, fmt.Sprintf("%s must be at least %g", label(f), *f.Validation.Min))
		}
		if f.Validation.Max != nil && n > *f.Validation.Max {
			msgs = append(msgs, fmt.Sprintf("%s must be at most %g", label(f), *f.Validation.Max))
		}
	}
	return msgs
}

func (r fieldRule) checkSelect(value any) []string {
	f := r.field
	s, ok := value.(string)
	if !ok {
		return []string{fmt.Sprintf("%s must be a string", label(f))}
	}
	options := f.SelectOptions()
	if options == nil {
		// A select field without options degrades to a free string.
		return nil
	}
	for _, opt := range options {
		if s == opt {
			return nil
		}
	}
	return []string{fmt.Sprintf("%s must be one of the permitted options", label(f))}
}

// coerceNumber converts the loose value shapes JSON decoding and form
// input produce into a float64.
func coerceNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// label returns the display name used in validation messages.
func label(f types.SchemaField) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}
