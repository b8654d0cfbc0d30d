// Package types defines the schema, submission, and filling-queue entities
// for the malleable forms system, along with the Store interface and
// standard errors shared by the storage backends.
package types
