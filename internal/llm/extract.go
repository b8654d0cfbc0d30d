package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a model response contains no JSON object.
var ErrNoJSON = errors.New("no JSON object found in model response")

// ExtractJSON decodes the outermost JSON object embedded in free text
// into out. Models wrap JSON in markdown fences or prose despite
// instructions, so the span from the first '{' to the last '}' is
// taken as the candidate object.
func ExtractJSON(text string, out any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), out); err != nil {
		return fmt.Errorf("decoding model response: %w", err)
	}
	return nil
}
