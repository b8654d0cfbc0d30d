// Shared helpers for malleable CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/malleable/internal/store"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

// openRepo resolves the data directory, opens the configured store, and
// wraps it in a Repository. The caller must defer closer().
func openRepo() (*store.Repository, func(), error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := configBackend
	if backend == "" {
		backend = defaultBackend
	}

	cfg := types.Config{
		Backend: backend,
		DataDir: dataDir,
	}

	s, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	closer := func() {
		if err := s.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close store:", err)
		}
	}
	return store.NewRepository(s), closer, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// readInput returns inline data when non-empty, otherwise the contents
// of the file at path, otherwise an error naming both flags.
func readInput(inline, path string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(raw), nil
	}
	return "", fmt.Errorf("provide --data or --data-file")
}

// fieldSummary renders a field as a one-line description for listings.
func fieldSummary(f types.SchemaField) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", f.Key, f.Type)
	if f.Required {
		b.WriteString(" required")
	}
	if len(f.SelectOptions()) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(f.SelectOptions(), ", "))
	}
	return b.String()
}
