// Package store provides the key-value Store implementations (memory
// and SQLite) and the JSON repositories for schema entries, submissions,
// and form drafts.
package store
