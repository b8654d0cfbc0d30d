// Package schema implements the schema lifecycle engines: field-level
// diffing between schema versions, validator derivation from a schema,
// re-validation of historical submissions, and wholesale-replacement
// versioning.
package schema
