// Validate command for the malleable CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/internal/schema"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <slug>",
	Short: "Re-validate a schema's submissions against its current version",
	Long: `Validate runs every stored submission for the schema through the
current schema version, regardless of which version each submission was
captured against. Submissions are reported valid or invalid with
per-field errors; nothing is modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "validate:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entry, err := repo.SchemaBySlug(slug)
		if err != nil {
			if errors.Is(err, types.ErrSchemaNotFound) {
				fmt.Fprintf(os.Stderr, "validate: schema %q not found\n", slug)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "validate:", err)
			os.Exit(exitSysError)
		}

		subs, err := repo.Submissions(slug)
		if err != nil {
			fmt.Fprintln(os.Stderr, "validate:", err)
			os.Exit(exitSysError)
		}

		results, err := schema.ValidateSubmissions(entry, subs)
		if err != nil {
			fmt.Fprintln(os.Stderr, "validate:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(results)
		}

		if len(results) == 0 {
			fmt.Println("No submissions")
			return nil
		}

		invalid := 0
		for _, r := range results {
			badge := "valid"
			if !r.Result.Valid {
				badge = "INVALID"
				invalid++
			}
			fmt.Printf("%s  v%-3d %s\n", r.Submission.ID, r.Submission.SchemaVersion, badge)
			for field, messages := range r.Result.Errors {
				for _, msg := range messages {
					fmt.Printf("    %s: %s\n", field, msg)
				}
			}
		}
		fmt.Printf("\n%d of %d submissions valid against version %d\n",
			len(results)-invalid, len(results), entry.Schema.Version)
		return nil
	},
}
