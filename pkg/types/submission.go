package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSubmissionNotFound is returned when no submission matches an ID.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionEntry is one recorded form response. Entries are immutable
// once created except for deletion; schema evolution never rewrites
// them, validity against newer schema versions is computed on demand.
type SubmissionEntry struct {
	ID            string         `json:"id"`
	Data          map[string]any `json:"data"`
	SubmittedAt   time.Time      `json:"submittedAt"`
	SchemaVersion int            `json:"schemaVersion"`
	SchemaSlug    string         `json:"schemaSlug"`
}

// NewSubmission creates a submission with a generated UUID v7 ID,
// recording the schema version the data was captured against.
func NewSubmission(data map[string]any, schemaVersion int, schemaSlug string) (SubmissionEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return SubmissionEntry{}, fmt.Errorf("generating UUID v7: %w", err)
	}
	return SubmissionEntry{
		ID:            id.String(),
		Data:          data,
		SubmittedAt:   time.Now().UTC(),
		SchemaVersion: schemaVersion,
		SchemaSlug:    schemaSlug,
	}, nil
}
