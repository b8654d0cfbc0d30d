// Package integration provides CLI integration tests for malleable.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// malleableBin is the path to the built malleable binary.
	malleableBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetMalleableBin sets the path to the malleable binary (called from TestMain).
func SetMalleableBin(path string) {
	malleableBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build malleable: %v", buildErr)
	}
	if malleableBin == "" {
		t.Fatal("malleable binary not built (malleableBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	// Create config directory and write config.yaml
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a malleable command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunMalleable executes the malleable CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunMalleable(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(malleableBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run malleable: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunMalleable executes the malleable CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunMalleable(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunMalleable(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("malleable %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// WriteFile writes a file into the test's temp directory and returns its path.
func (e *TestEnv) WriteFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.TempDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// SchemaEntry represents a stored schema entry for JSON parsing.
type SchemaEntry struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Schema struct {
		Fields []struct {
			Key      string `json:"key"`
			Type     string `json:"type"`
			Label    string `json:"label"`
			Required bool   `json:"required"`
		} `json:"fields"`
		Version int `json:"version"`
	} `json:"schema"`
}

// Submission represents a recorded submission for JSON parsing.
type Submission struct {
	ID            string         `json:"id"`
	Data          map[string]any `json:"data"`
	SubmittedAt   string         `json:"submittedAt"`
	SchemaVersion int            `json:"schemaVersion"`
	SchemaSlug    string         `json:"schemaSlug"`
}

// DiffReport represents a schema diff for JSON parsing.
type DiffReport struct {
	Added []struct {
		Key  string `json:"key"`
		Type string `json:"type"`
	} `json:"added"`
	Removed []struct {
		Key string `json:"key"`
	} `json:"removed"`
	Modified []struct {
		Field string `json:"field"`
	} `json:"modified"`
}

// ValidationReport represents one submission's validation outcome for JSON parsing.
type ValidationReport struct {
	Submission Submission `json:"submission"`
	Result     struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
	} `json:"result"`
}

// isUUIDv7 checks if a string looks like a UUID v7 (basic format check).
func isUUIDv7(s string) bool {
	if len(s) != 36 {
		return false
	}
	// UUID format: 8-4-4-4-12 with hyphens at positions 8, 13, 18, 23.
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	// Version 7: character at position 14 should be '7'.
	return s[14] == '7'
}
