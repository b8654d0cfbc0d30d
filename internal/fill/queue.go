package fill

import "github.com/mesh-intelligence/malleable/pkg/types"

// Default explanations used when the parsing service supplied none.
const (
	defaultExistingExplanation = "Value extracted from provided data"
	defaultNewFieldExplanation = "New field detected from your data and added to schema"
)

// ExtraValue is a parsed value for a field absent from the current
// schema, typically proposed as a schema addition.
type ExtraValue struct {
	Key   string
	Value any
}

// BuildQueue converts parsed key/value results into an ordered work
// queue. Parsed keys that match an existing schema field come first,
// in the schema's field order, each carrying the form's current value
// as PreviousValue for revert. Extra fields follow in their given
// order with no previous value. Existing fields animate first so the
// user sees familiar fields populate before new ones appear. Parsed
// keys the schema does not define are dropped.
func BuildQueue(
	schema *types.SerializedSchema,
	current map[string]any,
	parsed map[string]any,
	extras []ExtraValue,
	explanations map[string]string,
) []types.FillingQueueItem {
	queue := make([]types.FillingQueueItem, 0, len(parsed)+len(extras))

	for _, f := range schema.Fields {
		value, ok := parsed[f.Key]
		if !ok {
			continue
		}
		explanation := explanations[f.Key]
		if explanation == "" {
			explanation = defaultExistingExplanation
		}
		queue = append(queue, types.FillingQueueItem{
			Key:           f.Key,
			Value:         value,
			PreviousValue: current[f.Key],
			Explanation:   explanation,
		})
	}

	for _, extra := range extras {
		explanation := explanations[extra.Key]
		if explanation == "" {
			explanation = defaultNewFieldExplanation
		}
		queue = append(queue, types.FillingQueueItem{
			Key:         extra.Key,
			Value:       extra.Value,
			Explanation: explanation,
			IsNewField:  true,
		})
	}

	return queue
}
