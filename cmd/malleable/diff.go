// Diff command for the malleable CLI.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/internal/schema"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

var diffCandidateFile string

var diffCmd = &cobra.Command{
	Use:   "diff <slug>",
	Short: "Diff a stored schema against a candidate schema file",
	Long: `Diff compares the stored schema's current version against a candidate
serialized schema read from a JSON file, and reports added, removed,
and modified fields. Nothing is modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		raw, err := os.ReadFile(diffCandidateFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "diff:", err)
			os.Exit(exitUserError)
		}
		var candidate types.SerializedSchema
		if err := json.Unmarshal(raw, &candidate); err != nil {
			fmt.Fprintln(os.Stderr, "diff: decode candidate:", err)
			os.Exit(exitUserError)
		}

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "diff:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entry, err := repo.SchemaBySlug(slug)
		if err != nil {
			if errors.Is(err, types.ErrSchemaNotFound) {
				fmt.Fprintf(os.Stderr, "diff: schema %q not found\n", slug)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "diff:", err)
			os.Exit(exitSysError)
		}

		diff := schema.DiffSchemas(&entry.Schema, &candidate)

		if flagJSON {
			return printJSON(diff)
		}

		printDiff(diff)
		return nil
	},
}

// printDiff renders a diff as a field-level change report.
func printDiff(diff schema.Diff) {
	if diff.Empty() {
		fmt.Println("No changes")
		return
	}
	for _, f := range diff.Added {
		fmt.Println("+", fieldSummary(f))
	}
	for _, f := range diff.Removed {
		fmt.Println("-", fieldSummary(f))
	}
	for _, c := range diff.Modified {
		fmt.Println("~", c.Field)
		fmt.Println("    was:", fieldSummary(c.OldField))
		fmt.Println("    now:", fieldSummary(c.NewField))
	}
}

func init() {
	diffCmd.Flags().StringVar(&diffCandidateFile, "candidate", "", "JSON file holding the candidate schema (required)")
	diffCmd.MarkFlagRequired("candidate")
}
