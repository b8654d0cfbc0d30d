package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/malleable/internal/schema"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

// Service errors.
var (
	ErrEmptyRawData = errors.New("raw data is required")
	ErrEmptyPrompt  = errors.New("prompt is required")
	ErrNoFields     = errors.New("generated schema has no fields")
	ErrBadSchema    = errors.New("invalid schema in model response")
)

// Data source kinds for raw-data parsing.
const (
	SourceText  = "text"
	SourceAudio = "audio"
	SourceFile  = "file"
)

// Service runs the LLM-backed schema operations over a Provider.
type Service struct {
	provider Provider
}

// NewService wraps the given provider.
func NewService(p Provider) *Service {
	return &Service{provider: p}
}

// RegenerateResult is a regenerated schema plus the number of
// field-level changes against the current one. The model is told to
// change exactly one field; more is a warning for the caller, not a
// failure.
type RegenerateResult struct {
	NewSchema types.SerializedSchema
	Changes   int
}

// RegenerateSchema asks the model to modify the current schema per the
// user's request. The returned object must satisfy the serialized
// schema shape or an error is returned.
func (s *Service) RegenerateSchema(ctx context.Context, current types.SerializedSchema, fieldContext, userPrompt string) (RegenerateResult, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return RegenerateResult{}, ErrEmptyPrompt
	}

	text, err := s.provider.Complete(ctx, regeneratePrompt(current, fieldContext, userPrompt))
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("regenerating schema: %w", err)
	}

	var newSchema types.SerializedSchema
	if err := ExtractJSON(text, &newSchema); err != nil {
		return RegenerateResult{}, fmt.Errorf("regenerating schema: %w", err)
	}
	if err := checkSchemaShape(newSchema); err != nil {
		return RegenerateResult{}, err
	}

	diff := schema.DiffSchemas(&current, &newSchema)
	changes := len(diff.Added) + len(diff.Removed) + len(diff.Modified)
	return RegenerateResult{NewSchema: newSchema, Changes: changes}, nil
}

// GenerateSchemaFromRawData asks the model to derive a fresh schema
// from sample data. Missing metadata, version, or timestamp in the
// response are backfilled rather than rejected.
func (s *Service) GenerateSchemaFromRawData(ctx context.Context, name, description, rawData string) (types.SerializedSchema, error) {
	if strings.TrimSpace(rawData) == "" {
		return types.SerializedSchema{}, ErrEmptyRawData
	}

	text, err := s.provider.Complete(ctx, generateFromRawDataPrompt(name, description, rawData))
	if err != nil {
		return types.SerializedSchema{}, fmt.Errorf("generating schema: %w", err)
	}

	var generated types.SerializedSchema
	if err := ExtractJSON(text, &generated); err != nil {
		return types.SerializedSchema{}, fmt.Errorf("generating schema: %w", err)
	}
	if err := checkSchemaShape(generated); err != nil {
		return types.SerializedSchema{}, err
	}
	if len(generated.Fields) == 0 {
		return types.SerializedSchema{}, ErrNoFields
	}

	if generated.Metadata.Name == "" {
		generated.Metadata = types.SchemaMetadata{
			Name:        name,
			Description: description,
			Fields:      map[string]types.FieldMeta{},
		}
	}
	if generated.Version == 0 {
		generated.Version = 1
	}
	if generated.UpdatedAt.IsZero() {
		generated.UpdatedAt = time.Now().UTC()
	}
	return generated, nil
}

// ExtraField is a value found in raw data with no matching schema
// field, with a suggested definition for adding it.
type ExtraField struct {
	Key           string `json:"key"`
	Value         any    `json:"value"`
	SuggestedType string `json:"suggestedType"`
	Label         string `json:"label"`
	Description   string `json:"description,omitempty"`
}

// FieldMismatch flags raw data that does not fit its field's type.
type FieldMismatch struct {
	Field         string `json:"field"`
	ExpectedType  string `json:"expectedType"`
	ReceivedValue any    `json:"receivedValue"`
	Suggestion    string `json:"suggestion"`
}

// ParseResult is the outcome of matching raw data to a schema.
type ParseResult struct {
	ParsedData        map[string]any          `json:"parsedData"`
	ExtraFields       []ExtraField            `json:"extraFields"`
	Mismatches        []FieldMismatch         `json:"mismatches"`
	FieldExplanations map[string]string       `json:"fieldExplanations"`
	SchemaSuggestion  *types.SerializedSchema `json:"schemaSuggestion,omitempty"`
}

// ParseRawData asks the model to extract values for the schema's
// fields from free-form input. Absent collections in the response
// come back empty, never nil.
func (s *Service) ParseRawData(ctx context.Context, current types.SerializedSchema, rawData, source string) (ParseResult, error) {
	if strings.TrimSpace(rawData) == "" {
		return ParseResult{}, ErrEmptyRawData
	}

	text, err := s.provider.Complete(ctx, parseRawDataPrompt(current, rawData, source))
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsing raw data: %w", err)
	}

	var result ParseResult
	if err := ExtractJSON(text, &result); err != nil {
		return ParseResult{}, fmt.Errorf("parsing raw data: %w", err)
	}

	if result.ParsedData == nil {
		result.ParsedData = map[string]any{}
	}
	if result.ExtraFields == nil {
		result.ExtraFields = []ExtraField{}
	}
	if result.Mismatches == nil {
		result.Mismatches = []FieldMismatch{}
	}
	if result.FieldExplanations == nil {
		result.FieldExplanations = map[string]string{}
	}
	return result, nil
}

// Migration strategies.
const (
	StrategyConvert = "convert"
	StrategyKeep    = "keep"
	StrategyClear   = "clear"
	StrategyDefault = "default"
	StrategyRemove  = "remove"
)

// MigrationSuggestion is advisory text about carrying a value across
// a field change. Nothing applies it automatically.
type MigrationSuggestion struct {
	Field          string `json:"field"`
	Strategy       string `json:"strategy"`
	SuggestedValue any    `json:"suggestedValue,omitempty"`
	Explanation    string `json:"explanation"`
}

// SuggestMigration asks the model how to carry currentValue across the
// change from oldField to newField. Either side may be nil (field
// added or removed); when both are nil there is nothing to suggest and
// the result is nil without calling the model.
func (s *Service) SuggestMigration(ctx context.Context, oldField, newField *types.SchemaField, currentValue any) (*MigrationSuggestion, error) {
	if oldField == nil && newField == nil {
		return nil, nil
	}
	field := ""
	if newField != nil {
		field = newField.Key
	} else {
		field = oldField.Key
	}

	text, err := s.provider.Complete(ctx, migrationPrompt(oldField, newField, field, currentValue))
	if err != nil {
		return nil, fmt.Errorf("suggesting migration: %w", err)
	}

	var suggestion MigrationSuggestion
	if err := ExtractJSON(text, &suggestion); err != nil {
		return nil, fmt.Errorf("suggesting migration: %w", err)
	}
	return &suggestion, nil
}

// checkSchemaShape rejects model output that does not satisfy the
// serialized schema contract: a field list with valid keys and types.
func checkSchemaShape(s types.SerializedSchema) error {
	if s.Fields == nil {
		return fmt.Errorf("%w: missing fields array", ErrBadSchema)
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" {
			return fmt.Errorf("%w: field with empty key", ErrBadSchema)
		}
		if seen[f.Key] {
			return fmt.Errorf("%w: duplicate field key %q", ErrBadSchema, f.Key)
		}
		seen[f.Key] = true
		if !types.IsValidFieldType(f.Type) {
			return fmt.Errorf("%w: field %q has unknown type %q", ErrBadSchema, f.Key, f.Type)
		}
	}
	return nil
}
