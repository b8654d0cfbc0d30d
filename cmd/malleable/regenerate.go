// Regenerate command for the malleable CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/internal/llm"
	"github.com/mesh-intelligence/malleable/internal/schema"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

var (
	regeneratePrompt string
	regenerateField  string
	regenerateDryRun bool
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <slug>",
	Short: "Modify a schema through the language model",
	Long: `Regenerate sends the schema and a natural-language request to the
configured language model, diffs the returned schema against the
current version, and installs it as the next version. An unchanged
schema short-circuits: nothing is persisted and the version does not
move. Existing submissions are re-validated against the new version
and reported, never modified. Requires OPENAI_API_KEY.

With --field the request targets one existing field; without it the
model is asked to add a new field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		provider, err := llm.NewOpenAIProvider()
		if err != nil {
			fmt.Fprintln(os.Stderr, "regenerate:", err)
			os.Exit(exitUserError)
		}
		svc := llm.NewService(provider)

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "regenerate:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entry, err := repo.SchemaBySlug(slug)
		if err != nil {
			if errors.Is(err, types.ErrSchemaNotFound) {
				fmt.Fprintf(os.Stderr, "regenerate: schema %q not found\n", slug)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "regenerate:", err)
			os.Exit(exitSysError)
		}

		fieldContext := "new"
		if regenerateField != "" {
			if !entry.Schema.HasField(regenerateField) {
				fmt.Fprintf(os.Stderr, "regenerate: schema has no field %q\n", regenerateField)
				os.Exit(exitUserError)
			}
			fieldContext = regenerateField
		}

		result, err := svc.RegenerateSchema(cmd.Context(), entry.Schema, fieldContext, regeneratePrompt)
		if err != nil {
			fmt.Fprintln(os.Stderr, "regenerate:", err)
			os.Exit(exitUserError)
		}
		if result.Changes > 1 {
			fmt.Fprintf(os.Stderr, "warning: model changed %d fields, expected 1\n", result.Changes)
		}

		replacement := schema.ApplyReplacement(entry, result.NewSchema)
		if !replacement.Changed {
			fmt.Println("No changes; schema version unchanged")
			return nil
		}

		subs, err := repo.Submissions(slug)
		if err != nil {
			fmt.Fprintln(os.Stderr, "regenerate:", err)
			os.Exit(exitSysError)
		}
		compat, err := schema.ValidateSubmissions(replacement.Entry, subs)
		if err != nil {
			fmt.Fprintln(os.Stderr, "regenerate:", err)
			os.Exit(exitSysError)
		}

		if !regenerateDryRun {
			if err := repo.SaveSchema(replacement.Entry); err != nil {
				fmt.Fprintln(os.Stderr, "regenerate:", err)
				os.Exit(exitSysError)
			}
		}

		if flagJSON {
			return printJSON(struct {
				Entry         types.SerializedSchemaEntry   `json:"entry"`
				Diff          schema.Diff                   `json:"diff"`
				Compatibility []schema.SubmissionValidation `json:"compatibility"`
				DryRun        bool                          `json:"dryRun"`
			}{replacement.Entry, replacement.Diff, compat, regenerateDryRun})
		}

		printDiff(replacement.Diff)
		fmt.Printf("\nSchema %q is now version %d", slug, replacement.Entry.Schema.Version)
		if regenerateDryRun {
			fmt.Print(" (dry run, not saved)")
		}
		fmt.Println()

		broken := 0
		for _, r := range compat {
			if !r.Result.Valid {
				broken++
			}
		}
		if broken > 0 {
			fmt.Printf("%d of %d existing submissions no longer validate\n", broken, len(compat))
		} else if len(compat) > 0 {
			fmt.Printf("All %d existing submissions still validate\n", len(compat))
		}
		return nil
	},
}

func init() {
	regenerateCmd.Flags().StringVar(&regeneratePrompt, "prompt", "", "natural-language change request (required)")
	regenerateCmd.Flags().StringVar(&regenerateField, "field", "", "existing field key to modify (default: add a new field)")
	regenerateCmd.Flags().BoolVar(&regenerateDryRun, "dry-run", false, "report the diff without saving")
	regenerateCmd.MarkFlagRequired("prompt")
}
