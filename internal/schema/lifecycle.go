package schema

import (
	"time"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// Replacement is the outcome of applying a candidate schema to an
// entry. When Changed is false the entry is returned untouched and
// nothing should be persisted.
type Replacement struct {
	Entry   types.SerializedSchemaEntry
	Diff    Diff
	Changed bool
}

// ApplyReplacement installs a candidate schema over the entry's
// current one. Schemas evolve only by wholesale replacement: the
// candidate's field list and metadata are taken as-is and the version
// is bumped by one. An empty diff short-circuits without touching the
// version or timestamp.
func ApplyReplacement(entry types.SerializedSchemaEntry, candidate types.SerializedSchema) Replacement {
	diff := DiffSchemas(&entry.Schema, &candidate)
	if diff.Empty() {
		return Replacement{Entry: entry, Diff: diff}
	}

	next := entry
	next.Schema.Fields = candidate.Fields
	next.Schema.Metadata = candidate.Metadata
	next.Schema.Version = entry.Schema.Version + 1
	next.Schema.UpdatedAt = time.Now().UTC()
	return Replacement{Entry: next, Diff: diff, Changed: true}
}
