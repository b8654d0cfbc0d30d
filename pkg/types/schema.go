package types

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Schema errors.
var (
	ErrEmptyName      = errors.New("schema name must not be empty")
	ErrSchemaNotFound = errors.New("schema not found")
)

// SchemaMetadata is the descriptive wrapper of a schema: name,
// description, and field definitions keyed by field key.
type SchemaMetadata struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Fields      map[string]FieldMeta `json:"fields"`
}

// SerializedSchema is a versioned, immutable-once-saved schema
// snapshot. Fields is the canonical field list; Metadata.Fields is
// kept for wire fidelity but all lookups derive from the Fields slice.
type SerializedSchema struct {
	Fields    []SchemaField  `json:"fields"`
	Metadata  SchemaMetadata `json:"metadata"`
	Version   int            `json:"version"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// FieldMap returns a lookup map derived from the canonical field list.
func (s *SerializedSchema) FieldMap() map[string]SchemaField {
	m := make(map[string]SchemaField, len(s.Fields))
	for _, f := range s.Fields {
		m[f.Key] = f
	}
	return m
}

// Field returns the field with the given key from the canonical list.
func (s *SerializedSchema) Field(key string) (SchemaField, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return SchemaField{}, false
}

// HasField reports whether the schema defines the given key.
func (s *SerializedSchema) HasField(key string) bool {
	_, ok := s.Field(key)
	return ok
}

// SerializedSchemaEntry is a named, slugged schema instance. Multiple
// entries coexist in the store; each owns its submission history by slug.
type SerializedSchemaEntry struct {
	Slug   string           `json:"slug"`
	Title  string           `json:"title"`
	Schema SerializedSchema `json:"schema"`
}

// slugStrip removes everything that is not a word character or hyphen.
var slugStrip = regexp.MustCompile(`[^\w-]+`)

// slugCollapse collapses runs of hyphens.
var slugCollapse = regexp.MustCompile(`-{2,}`)

// Slugify converts a display name to a URL-safe slug: lowercase,
// whitespace to hyphens, non-word characters stripped, hyphen runs
// collapsed and trimmed.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.Join(strings.Fields(s), "-")
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewEntry builds a version-1 schema entry from metadata. The field
// list and the metadata map are produced from the single metadata
// source, so the two views start in sync. Field order is the sorted
// key order, since Go map iteration is not stable.
// Returns ErrEmptyName if the metadata has no name and
// ErrInvalidFieldType if any field declares a type outside the closed set.
func NewEntry(metadata SchemaMetadata) (SerializedSchemaEntry, error) {
	if metadata.Name == "" {
		return SerializedSchemaEntry{}, ErrEmptyName
	}
	for key, meta := range metadata.Fields {
		if !IsValidFieldType(meta.Type) {
			return SerializedSchemaEntry{}, fmt.Errorf("field %q: %w", key, ErrInvalidFieldType)
		}
	}

	keys := make([]string, 0, len(metadata.Fields))
	for key := range metadata.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]SchemaField, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, metadata.Fields[key].Field(key))
	}

	return SerializedSchemaEntry{
		Slug:  Slugify(metadata.Name),
		Title: metadata.Name,
		Schema: SerializedSchema{
			Fields:    fields,
			Metadata:  metadata,
			Version:   1,
			UpdatedAt: time.Now().UTC(),
		},
	}, nil
}
