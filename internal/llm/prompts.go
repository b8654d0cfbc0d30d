package llm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// mustJSON renders a value as indented JSON for prompt embedding.
// Prompt inputs are our own structs; a marshal failure is a bug.
func mustJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(raw)
}

func regeneratePrompt(current types.SerializedSchema, fieldContext, userPrompt string) string {
	target := fieldContext
	if fieldContext == "new" {
		target = "Add a new field"
	}
	return fmt.Sprintf(`You are a form schema generator. Your task is to modify a form schema based on user requests.

IMPORTANT RULES:
1. Only modify ONE field at a time (either add one new field or modify one existing field)
2. Preserve all other fields exactly as they are
3. Return the COMPLETE schema with all fields
4. Use valid field types: "string", "number", "boolean", "date", "email", "select"
5. For select fields, include options in validation.options array
6. Ensure field keys are camelCase and descriptive
7. Return ONLY valid JSON, no markdown or explanation

Current schema:
%s

User wants to modify field: %s
User request: %s

Return the complete updated schema as a JSON object with "fields", "metadata", "version" (%d), and "updatedAt" (%q).`,
		mustJSON(current), target, userPrompt,
		current.Version+1, time.Now().UTC().Format(time.RFC3339))
}

func generateFromRawDataPrompt(name, description, rawData string) string {
	return fmt.Sprintf(`You are a form schema generator. Your task is to analyze raw data and generate an appropriate form schema.

IMPORTANT RULES:
1. Analyze the raw data to identify distinct data fields
2. Infer appropriate field types: "string", "number", "boolean", "date", "email", "select"
3. For repeating patterns or categorical data, use select fields with options
4. All field keys must be camelCase and descriptive
5. Mark fields as required if they appear consistently in the data
6. Include helpful descriptions based on the data patterns
7. Create at least 3-5 meaningful fields from the data
8. Return ONLY valid JSON, no markdown or explanation

Raw Data to Analyze:
%s

Form Context:
Name: %s
Description: %s

Return the complete schema as a JSON object with "fields", "metadata" (name %q, description %q), "version" (1), and "updatedAt" (%q).`,
		rawData, name, description, name, description,
		time.Now().UTC().Format(time.RFC3339))
}

func parseRawDataPrompt(schema types.SerializedSchema, rawData, source string) string {
	return fmt.Sprintf(`You are a data parsing assistant. Your task is to parse raw data and match it to an existing form schema.

Current Form Schema:
%s

Raw Data to Parse (source: %s):
%s

IMPORTANT INSTRUCTIONS:
1. Extract values from the raw data that match the existing schema fields
2. Identify any extra information in the raw data that doesn't match existing fields
3. Detect type mismatches where the data doesn't fit the expected field type
4. For extra fields, suggest appropriate field types and labels
5. If extra fields are found, generate an updated schema that includes them
6. For EACH field in parsedData, provide a brief explanation of why this value was chosen

Return ONLY valid JSON with keys "parsedData", "fieldExplanations", "extraFields" (objects with key, value, suggestedType, label, description), "mismatches" (objects with field, expectedType, receivedValue, suggestion), and optionally "schemaSuggestion" (the complete updated schema, version %d).

RULES:
- Only include fields in parsedData that exist in the current schema
- Use camelCase for extra field keys
- Return empty arrays when nothing applies
- Only include schemaSuggestion if extraFields exist
- Include fieldExplanations for every field in parsedData`,
		mustJSON(schema), source, rawData, schema.Version+1)
}

func migrationPrompt(oldField, newField *types.SchemaField, field string, currentValue any) string {
	oldJSON := "N/A (new field)"
	if oldField != nil {
		oldJSON = mustJSON(oldField)
	}
	newJSON := "N/A (field removed)"
	if newField != nil {
		newJSON = mustJSON(newField)
	}
	return fmt.Sprintf(`You are a data migration assistant. A form field has been modified and you need to suggest how to migrate the existing data.

Old Field: %s
New Field: %s
Current Value: %s

Provide a migration strategy. Consider:
1. If the field type changed, can the value be converted?
2. If validation rules changed, is the current value still valid?
3. If the field is new, what's a sensible default?
4. If the field was removed, should the user be warned about data loss?

Return ONLY valid JSON with keys "field" (%q), "strategy" (one of "convert", "keep", "clear", "default", "remove"), "suggestedValue" (new value or null), and "explanation" (brief rationale).`,
		oldJSON, newJSON, mustJSON(currentValue), field)
}
