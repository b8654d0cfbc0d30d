package schema

import "github.com/mesh-intelligence/malleable/pkg/types"

// FieldChange records a modified field with both snapshots.
type FieldChange struct {
	Field    string            `json:"field"`
	OldField types.SchemaField `json:"oldField"`
	NewField types.SchemaField `json:"newField"`
}

// Diff is the field-level difference between two schema versions.
// A key appears in at most one bucket.
type Diff struct {
	Added    []types.SchemaField `json:"added"`
	Removed  []types.SchemaField `json:"removed"`
	Modified []FieldChange       `json:"modified"`
}

// Empty reports whether the diff carries no structural change.
// Callers short-circuit on an empty diff: skip persistence and tell
// the user nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// DiffSchemas compares two schema versions by field key. Fields present
// only in newSchema are added; fields present on both sides whose full
// definition differs structurally are modified; fields present only in
// oldSchema are removed. Added and modified follow newSchema's field
// order, removed follows oldSchema's order.
func DiffSchemas(oldSchema, newSchema *types.SerializedSchema) Diff {
	oldFields := oldSchema.FieldMap()
	newFields := newSchema.FieldMap()

	var diff Diff
	for _, nf := range newSchema.Fields {
		of, ok := oldFields[nf.Key]
		switch {
		case !ok:
			diff.Added = append(diff.Added, nf)
		case !of.Equal(nf):
			diff.Modified = append(diff.Modified, FieldChange{
				Field:    nf.Key,
				OldField: of,
				NewField: nf,
			})
		}
	}
	for _, of := range oldSchema.Fields {
		if _, ok := newFields[of.Key]; !ok {
			diff.Removed = append(diff.Removed, of)
		}
	}
	return diff
}
