package schema

import "github.com/mesh-intelligence/malleable/pkg/types"

// SubmissionValidation pairs a historical submission with its
// validation outcome against a candidate schema.
type SubmissionValidation struct {
	Submission types.SubmissionEntry `json:"submission"`
	Result     Result                `json:"result"`
}

// ValidateSubmissions re-validates submissions against the entry's
// current schema, independent of each submission's recorded
// schemaVersion. The returned slice preserves the given submission
// order. The operation is pure: neither the submissions nor the schema
// are mutated.
func ValidateSubmissions(entry types.SerializedSchemaEntry, submissions []types.SubmissionEntry) ([]SubmissionValidation, error) {
	validator, err := NewValidator(&entry.Schema)
	if err != nil {
		return nil, err
	}
	results := make([]SubmissionValidation, 0, len(submissions))
	for _, sub := range submissions {
		results = append(results, SubmissionValidation{
			Submission: sub,
			Result:     validator.Validate(sub.Data),
		})
	}
	return results, nil
}
