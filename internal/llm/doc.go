// Package llm wraps the LLM-backed collaborator services: schema
// regeneration from natural-language requests, schema generation from
// raw sample data, raw-data parsing against a schema, and advisory
// migration suggestions. Model responses are free-form text; the
// package extracts and shape-checks the embedded JSON and surfaces
// anything malformed as an error result rather than trusting it.
package llm
