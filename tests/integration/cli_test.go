// CLI integration tests for malleable.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fieldsFileJSON is a two-field definition used by most tests. NewEntry
// orders fields by sorted key: email, then name.
const fieldsFileJSON = `{
  "name": {"type": "string", "label": "Name", "required": true, "validation": {"min": 2}},
  "email": {"type": "email", "label": "Email", "required": true}
}`

// candidateSameJSON matches the schema created from fieldsFileJSON.
const candidateSameJSON = `{
  "fields": [
    {"key": "email", "type": "email", "label": "Email", "required": true},
    {"key": "name", "type": "string", "label": "Name", "required": true, "validation": {"min": 2}}
  ],
  "version": 1
}`

// candidateAddedJSON is candidateSameJSON plus one select field.
const candidateAddedJSON = `{
  "fields": [
    {"key": "email", "type": "email", "label": "Email", "required": true},
    {"key": "name", "type": "string", "label": "Name", "required": true, "validation": {"min": 2}},
    {"key": "diet", "type": "select", "label": "Diet", "required": false,
     "validation": {"options": ["omnivore", "vegan"]}}
  ],
  "version": 1
}`

// TestMain builds the malleable binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "malleable-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "malleable")
	SetMalleableBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/malleable")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

// createEventSchema creates the standard test schema and returns its slug.
func createEventSchema(t *testing.T, env *TestEnv) string {
	t.Helper()
	fieldsFile := env.WriteFile("fields.json", fieldsFileJSON)
	env.MustRunMalleable("create", "--name", "Event Registration", "--fields-file", fieldsFile)
	return "event-registration"
}

// Test1_Initialize verifies malleable initialization.
func Test1_Initialize(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunMalleable("init")

	if result.Stdout == "" {
		t.Error("expected init output message")
	}

	if _, err := os.Stat(env.DataDir); os.IsNotExist(err) {
		t.Error("data directory not created")
	}

	dbFile := filepath.Join(env.DataDir, "malleable.db")
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		t.Error("malleable.db not created")
	}
}

// Test2_CreateListShow verifies schema creation from a fields file.
func Test2_CreateListShow(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")

	fieldsFile := env.WriteFile("fields.json", fieldsFileJSON)
	createResult := env.MustRunMalleable("create", "--name", "Event Registration", "--fields-file", fieldsFile)
	if !strings.Contains(createResult.Stdout, "event-registration") {
		t.Errorf("expected slug in create output, got %q", createResult.Stdout)
	}

	// list --json returns the single entry at version 1.
	listResult := env.MustRunMalleable("list", "--json")
	entries := ParseJSON[[]SchemaEntry](t, listResult.Stdout)
	if len(entries) != 1 {
		t.Fatalf("expected 1 schema, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Slug != "event-registration" {
		t.Errorf("slug = %q, want event-registration", entry.Slug)
	}
	if entry.Title != "Event Registration" {
		t.Errorf("title = %q, want Event Registration", entry.Title)
	}
	if entry.Schema.Version != 1 {
		t.Errorf("version = %d, want 1", entry.Schema.Version)
	}
	if len(entry.Schema.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(entry.Schema.Fields))
	}

	// show --json returns the same entry by slug.
	showResult := env.MustRunMalleable("show", "event-registration", "--json")
	shown := ParseJSON[SchemaEntry](t, showResult.Stdout)
	if shown.Slug != entry.Slug {
		t.Errorf("show slug = %q, want %q", shown.Slug, entry.Slug)
	}

	// Creating the same name again is a user error.
	dup := env.RunMalleable("create", "--name", "Event Registration", "--fields-file", fieldsFile)
	if dup.ExitCode != 1 {
		t.Errorf("duplicate create exit code = %d, want 1", dup.ExitCode)
	}
	if !strings.Contains(dup.Stderr, "already exists") {
		t.Errorf("expected duplicate error, got %q", dup.Stderr)
	}
}

// Test3_SubmitAndHistory verifies valid submission recording and the
// submissions subcommands.
func Test3_SubmitAndHistory(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")
	slug := createEventSchema(t, env)

	// A valid submission records with a generated UUID v7 ID and the
	// schema version it was captured against.
	result := env.MustRunMalleable("submit", slug, "--data", `{"name":"Ada","email":"ada@x.com"}`, "--json")
	sub1 := ParseJSON[Submission](t, result.Stdout)
	if !isUUIDv7(sub1.ID) {
		t.Errorf("submission ID %q is not a UUID v7", sub1.ID)
	}
	if sub1.SchemaVersion != 1 {
		t.Errorf("schemaVersion = %d, want 1", sub1.SchemaVersion)
	}
	if sub1.SchemaSlug != slug {
		t.Errorf("schemaSlug = %q, want %q", sub1.SchemaSlug, slug)
	}

	result = env.MustRunMalleable("submit", slug, "--data", `{"name":"Grace","email":"grace@x.com"}`, "--json")
	sub2 := ParseJSON[Submission](t, result.Stdout)
	if sub1.ID == sub2.ID {
		t.Error("submission IDs should be unique")
	}

	// History lists both, in submission order.
	listResult := env.MustRunMalleable("submissions", "list", slug, "--json")
	subs := ParseJSON[[]Submission](t, listResult.Stdout)
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].ID != sub1.ID || subs[1].ID != sub2.ID {
		t.Error("submissions not in submission order")
	}

	// Delete one by ID.
	env.MustRunMalleable("submissions", "delete", sub1.ID)
	listResult = env.MustRunMalleable("submissions", "list", slug, "--json")
	subs = ParseJSON[[]Submission](t, listResult.Stdout)
	if len(subs) != 1 || subs[0].ID != sub2.ID {
		t.Errorf("expected only %s to remain", sub2.ID)
	}

	// Deleting it again is a user error.
	del := env.RunMalleable("submissions", "delete", sub1.ID)
	if del.ExitCode != 1 {
		t.Errorf("delete of missing submission exit code = %d, want 1", del.ExitCode)
	}

	// Clear the history.
	env.MustRunMalleable("submissions", "clear", slug)
	listResult = env.MustRunMalleable("submissions", "list", slug, "--json")
	subs = ParseJSON[[]Submission](t, listResult.Stdout)
	if len(subs) != 0 {
		t.Errorf("expected 0 submissions after clear, got %d", len(subs))
	}
}

// Test4_SubmitInvalid verifies rejected submissions store nothing.
func Test4_SubmitInvalid(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")
	slug := createEventSchema(t, env)

	result := env.RunMalleable("submit", slug, "--data", `{"name":"A","email":"not-an-email"}`)
	if result.ExitCode != 1 {
		t.Errorf("invalid submit exit code = %d, want 1", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "validation failed") {
		t.Errorf("expected validation errors on stderr, got %q", result.Stderr)
	}

	listResult := env.MustRunMalleable("submissions", "list", slug, "--json")
	subs := ParseJSON[[]Submission](t, listResult.Stdout)
	if len(subs) != 0 {
		t.Errorf("rejected submission was stored: %d entries", len(subs))
	}
}

// Test5_Diff verifies the candidate-schema diff report.
func Test5_Diff(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")
	slug := createEventSchema(t, env)

	// A candidate with one extra field reports it as added.
	addedFile := env.WriteFile("candidate-added.json", candidateAddedJSON)
	diffResult := env.MustRunMalleable("diff", slug, "--candidate", addedFile, "--json")
	diff := ParseJSON[DiffReport](t, diffResult.Stdout)
	if len(diff.Added) != 1 || diff.Added[0].Key != "diet" {
		t.Errorf("added = %+v, want one entry for diet", diff.Added)
	}
	if len(diff.Removed) != 0 || len(diff.Modified) != 0 {
		t.Errorf("unexpected removed/modified: %+v", diff)
	}

	// An identical candidate reports no changes.
	sameFile := env.WriteFile("candidate-same.json", candidateSameJSON)
	sameResult := env.MustRunMalleable("diff", slug, "--candidate", sameFile)
	if !strings.Contains(sameResult.Stdout, "No changes") {
		t.Errorf("expected no-changes output, got %q", sameResult.Stdout)
	}
}

// Test6_ValidateReport verifies the per-submission validation report.
func Test6_ValidateReport(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")
	slug := createEventSchema(t, env)

	env.MustRunMalleable("submit", slug, "--data", `{"name":"Ada","email":"ada@x.com"}`)
	env.MustRunMalleable("submit", slug, "--data", `{"name":"Grace","email":"grace@x.com"}`)

	result := env.MustRunMalleable("validate", slug, "--json")
	reports := ParseJSON[[]ValidationReport](t, result.Stdout)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	for _, r := range reports {
		if !r.Result.Valid {
			t.Errorf("submission %s reported invalid: %v", r.Submission.ID, r.Result.Errors)
		}
	}

	human := env.MustRunMalleable("validate", slug)
	if !strings.Contains(human.Stdout, "2 of 2 submissions valid") {
		t.Errorf("expected summary line, got %q", human.Stdout)
	}
}

// Test7_UnknownSchema verifies not-found handling across commands.
func Test7_UnknownSchema(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")

	for _, args := range [][]string{
		{"show", "nope"},
		{"validate", "nope"},
		{"submit", "nope", "--data", `{"x":1}`},
	} {
		result := env.RunMalleable(args...)
		if result.ExitCode != 1 {
			t.Errorf("%v exit code = %d, want 1", args, result.ExitCode)
		}
		if !strings.Contains(result.Stderr, "not found") {
			t.Errorf("%v expected not-found error, got %q", args, result.Stderr)
		}
	}
}

// Test8_Version verifies the version command.
func Test8_Version(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunMalleable("version")
	if !strings.Contains(result.Stdout, "malleable") {
		t.Errorf("expected version output, got %q", result.Stdout)
	}
}

// Test9_Persistence verifies data survives separate CLI invocations.
func Test9_Persistence(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunMalleable("init")
	slug := createEventSchema(t, env)
	env.MustRunMalleable("submit", slug, "--data", `{"name":"Ada","email":"ada@x.com"}`)

	// Each invocation reopens the database; everything written by
	// earlier invocations must still be there.
	listResult := env.MustRunMalleable("list", "--json")
	entries := ParseJSON[[]SchemaEntry](t, listResult.Stdout)
	if len(entries) != 1 {
		t.Errorf("expected 1 schema after reopen, got %d", len(entries))
	}

	subsResult := env.MustRunMalleable("submissions", "list", slug, "--json")
	subs := ParseJSON[[]Submission](t, subsResult.Stdout)
	if len(subs) != 1 {
		t.Errorf("expected 1 submission after reopen, got %d", len(subs))
	}
}
