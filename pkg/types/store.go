package types

import "errors"

// Storage keys. Values are JSON-encoded arrays or maps.
const (
	// KeySchemaList holds the array of SerializedSchemaEntry.
	KeySchemaList = "schema-list"
	// KeySubmissions holds the array of SubmissionEntry, filterable
	// by SchemaSlug on read.
	KeySubmissions = "submissions"
	// KeyDrafts holds in-progress form values per schema slug.
	KeyDrafts = "drafts"
)

// Store lifecycle errors.
var (
	ErrStoreClosed = errors.New("store is closed")
	ErrAlreadyOpen = errors.New("store is already open")
	ErrKeyEmpty    = errors.New("storage key must not be empty")
)

// Store is the key-value persistence contract. Implementations hold
// JSON-encoded string values under string keys. Get reports presence
// separately from errors so an absent key is not a failure.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(key string) error

	// Close releases backend resources. Idempotent: multiple calls
	// succeed. After Close, operations return ErrStoreClosed.
	Close() error
}
