// Submit command for the malleable CLI.
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

var (
	submitData     string
	submitDataFile string
)

var submitCmd = &cobra.Command{
	Use:   "submit <slug>",
	Short: "Validate and record a submission",
	Long: `Submit validates JSON form data against the schema's current version.
A valid submission is recorded with the schema version it was captured
against and clears any saved draft. An invalid one is rejected with
per-field errors and nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		raw, err := readInput(submitData, submitDataFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(exitUserError)
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			fmt.Fprintln(os.Stderr, "submit: decode data:", err)
			os.Exit(exitUserError)
		}

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entry, err := repo.SchemaBySlug(slug)
		if err != nil {
			if errors.Is(err, types.ErrSchemaNotFound) {
				fmt.Fprintf(os.Stderr, "submit: schema %q not found\n", slug)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(exitSysError)
		}

		validator, err := schema.NewValidator(&entry.Schema)
		if err != nil {
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(exitSysError)
		}

		result := validator.Validate(data)
		if !result.Valid {
			printValidationErrors(result)
			os.Exit(exitUserError)
		}

		sub, err := repo.AddSubmission(data, entry.Schema.Version, slug)
		if err != nil {
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(exitSysError)
		}
		if err := repo.ClearDraft(slug); err != nil {
			fmt.Fprintln(os.Stderr, "submit:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(sub)
		}
		fmt.Printf("Submitted %s (schema version %d)\n", sub.ID, sub.SchemaVersion)
		return nil
	},
}

// printValidationErrors writes per-field errors to stderr.
func printValidationErrors(result schema.Result) {
	fmt.Fprintln(os.Stderr, "submit: validation failed")
	for field, messages := range result.Errors {
		for _, msg := range messages {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
	}
}

func init() {
	submitCmd.Flags().StringVar(&submitData, "data", "", "form data as a JSON object")
	submitCmd.Flags().StringVar(&submitDataFile, "data-file", "", "file containing form data as a JSON object")
	submitCmd.MarkFlagsMutuallyExclusive("data", "data-file")
}
