package store

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// Repository layers the schema-list, submissions, and drafts views
// over a Store. Values are JSON-encoded under the fixed storage keys.
type Repository struct {
	store types.Store
}

// NewRepository wraps the given store.
func NewRepository(s types.Store) *Repository {
	return &Repository{store: s}
}

// loadJSON decodes the value at key into out. An absent key is not an
// error; it reports false and leaves out untouched.
func loadJSON[T any](s types.Store, key string, out *T) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// saveJSON encodes v and stores it at key.
func saveJSON(s types.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	return s.Set(key, string(raw))
}

// Schemas returns all stored schema entries. An empty store yields an
// empty slice.
func (r *Repository) Schemas() ([]types.SerializedSchemaEntry, error) {
	var entries []types.SerializedSchemaEntry
	if _, err := loadJSON(r.store, types.KeySchemaList, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SchemaBySlug returns the entry with the given slug.
// Returns ErrSchemaNotFound if no entry matches.
func (r *Repository) SchemaBySlug(slug string) (types.SerializedSchemaEntry, error) {
	entries, err := r.Schemas()
	if err != nil {
		return types.SerializedSchemaEntry{}, err
	}
	for _, entry := range entries {
		if entry.Slug == slug {
			return entry, nil
		}
	}
	return types.SerializedSchemaEntry{}, types.ErrSchemaNotFound
}

// SaveSchema upserts an entry by slug: an existing entry with the same
// slug is replaced in place, otherwise the entry is appended.
func (r *Repository) SaveSchema(entry types.SerializedSchemaEntry) error {
	entries, err := r.Schemas()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Slug == entry.Slug {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return saveJSON(r.store, types.KeySchemaList, entries)
}

// Submissions returns stored submissions in storage order. A non-empty
// slug filters to that schema's history.
func (r *Repository) Submissions(slug string) ([]types.SubmissionEntry, error) {
	var all []types.SubmissionEntry
	if _, err := loadJSON(r.store, types.KeySubmissions, &all); err != nil {
		return nil, err
	}
	if slug == "" {
		return all, nil
	}
	filtered := make([]types.SubmissionEntry, 0, len(all))
	for _, sub := range all {
		if sub.SchemaSlug == slug {
			filtered = append(filtered, sub)
		}
	}
	return filtered, nil
}

// AddSubmission records a new submission with a generated ID and the
// schema version the data was captured against, and returns it.
func (r *Repository) AddSubmission(data map[string]any, schemaVersion int, slug string) (types.SubmissionEntry, error) {
	sub, err := types.NewSubmission(data, schemaVersion, slug)
	if err != nil {
		return types.SubmissionEntry{}, err
	}
	all, err := r.Submissions("")
	if err != nil {
		return types.SubmissionEntry{}, err
	}
	all = append(all, sub)
	if err := saveJSON(r.store, types.KeySubmissions, all); err != nil {
		return types.SubmissionEntry{}, err
	}
	return sub, nil
}

// DeleteSubmission removes the submission with the given ID.
// Returns ErrSubmissionNotFound if no submission matches.
func (r *Repository) DeleteSubmission(id string) error {
	all, err := r.Submissions("")
	if err != nil {
		return err
	}
	kept := make([]types.SubmissionEntry, 0, len(all))
	for _, sub := range all {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}
	if len(kept) == len(all) {
		return types.ErrSubmissionNotFound
	}
	return saveJSON(r.store, types.KeySubmissions, kept)
}

// ClearSubmissions removes a schema's submission history. An empty
// slug clears every submission.
func (r *Repository) ClearSubmissions(slug string) error {
	if slug == "" {
		return r.store.Delete(types.KeySubmissions)
	}
	all, err := r.Submissions("")
	if err != nil {
		return err
	}
	kept := make([]types.SubmissionEntry, 0, len(all))
	for _, sub := range all {
		if sub.SchemaSlug != slug {
			kept = append(kept, sub)
		}
	}
	return saveJSON(r.store, types.KeySubmissions, kept)
}

// Draft returns the in-progress form values for a slug. An absent
// draft yields an empty map.
func (r *Repository) Draft(slug string) (map[string]any, error) {
	drafts, err := r.drafts()
	if err != nil {
		return nil, err
	}
	if values, ok := drafts[slug]; ok {
		return values, nil
	}
	return map[string]any{}, nil
}

// SaveDraft stores the in-progress form values for a slug.
func (r *Repository) SaveDraft(slug string, values map[string]any) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	drafts[slug] = values
	return saveJSON(r.store, types.KeyDrafts, drafts)
}

// ClearDraft discards the in-progress form values for a slug.
func (r *Repository) ClearDraft(slug string) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	delete(drafts, slug)
	return saveJSON(r.store, types.KeyDrafts, drafts)
}

func (r *Repository) drafts() (map[string]map[string]any, error) {
	drafts := make(map[string]map[string]any)
	if _, err := loadJSON(r.store, types.KeyDrafts, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}
