// Fill command for the malleable CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/internal/fill"
	"github.com/mesh-intelligence/malleable/internal/llm"
	"github.com/mesh-intelligence/malleable/internal/schema"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

var (
	fillData        string
	fillDataFile    string
	fillSource      string
	fillHighlightMS int
	fillDelayMS     int
	fillApplyExtras bool
)

var fillCmd = &cobra.Command{
	Use:   "fill <slug>",
	Short: "Parse raw data and fill the form field by field",
	Long: `Fill sends raw data to the language model to extract values for the
schema's fields, then applies them one at a time: each field is
highlighted for a moment before the next begins. Values already in the
saved draft are carried as the previous values. The filled values are
stored as the schema's draft when the sequence completes. Requires
OPENAI_API_KEY.

Values for fields the schema does not define are reported; with
--apply-extras they are added to the schema as a new version before
filling.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		rawData, err := readInput(fillData, fillDataFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitUserError)
		}
		if fillSource != llm.SourceText && fillSource != llm.SourceAudio && fillSource != llm.SourceFile {
			fmt.Fprintf(os.Stderr, "fill: unknown source %q (valid: text, audio, file)\n", fillSource)
			os.Exit(exitUserError)
		}

		provider, err := llm.NewOpenAIProvider()
		if err != nil {
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitUserError)
		}
		svc := llm.NewService(provider)

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entry, err := repo.SchemaBySlug(slug)
		if err != nil {
			if errors.Is(err, types.ErrSchemaNotFound) {
				fmt.Fprintf(os.Stderr, "fill: schema %q not found\n", slug)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitSysError)
		}

		result, err := svc.ParseRawData(cmd.Context(), entry.Schema, rawData, fillSource)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitUserError)
		}

		for _, mismatch := range result.Mismatches {
			fmt.Fprintf(os.Stderr, "warning: %s expected %s, got %v: %s\n",
				mismatch.Field, mismatch.ExpectedType, mismatch.ReceivedValue, mismatch.Suggestion)
		}

		extras := make([]fill.ExtraValue, 0, len(result.ExtraFields))
		for _, extra := range result.ExtraFields {
			extras = append(extras, fill.ExtraValue{Key: extra.Key, Value: extra.Value})
		}

		if fillApplyExtras && result.SchemaSuggestion != nil {
			replacement := schema.ApplyReplacement(entry, *result.SchemaSuggestion)
			if replacement.Changed {
				if err := repo.SaveSchema(replacement.Entry); err != nil {
					fmt.Fprintln(os.Stderr, "fill:", err)
					os.Exit(exitSysError)
				}
				entry = replacement.Entry
				fmt.Printf("Schema %q grew to version %d:\n", slug, entry.Schema.Version)
				printDiff(replacement.Diff)
				fmt.Println()
			}
		}

		// The draft only holds schema-defined keys: extras the schema
		// did not grow to define never reach the queue.
		extras, skipped := schemaExtras(&entry.Schema, extras)
		for _, key := range skipped {
			hint := ""
			if !fillApplyExtras {
				hint = "; rerun with --apply-extras"
			}
			fmt.Fprintf(os.Stderr, "warning: skipping %q, not in schema%s\n", key, hint)
		}

		draft, err := repo.Draft(slug)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitSysError)
		}

		queue := fill.BuildQueue(&entry.Schema, draft, result.ParsedData, extras, result.FieldExplanations)

		form := fill.NewMapForm(draft)
		done := make(chan struct{})
		machine := fill.NewMachine(form, fill.NewScheduler(), fill.Options{
			HighlightDuration: time.Duration(fillHighlightMS) * time.Millisecond,
			FieldDelay:        time.Duration(fillDelayMS) * time.Millisecond,
		}, fill.Callbacks{
			OnFieldStart: func(item types.FillingQueueItem) {
				fmt.Printf("  %s = %v\n    %s\n", item.Key, item.Value, item.Explanation)
			},
			OnComplete: func() { close(done) },
			OnEmpty:    func() { close(done) },
		})

		machine.Start(queue)
		<-done

		if len(queue) == 0 {
			fmt.Println("Nothing to fill")
			return nil
		}

		if err := repo.SaveDraft(slug, form.Values()); err != nil {
			fmt.Fprintln(os.Stderr, "fill:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(form.Values())
		}
		fmt.Printf("Filled %d fields; draft saved for %q\n", len(queue), slug)
		return nil
	},
}

// schemaExtras splits extras into the values the schema defines and
// the keys it does not.
func schemaExtras(s *types.SerializedSchema, extras []fill.ExtraValue) ([]fill.ExtraValue, []string) {
	kept := make([]fill.ExtraValue, 0, len(extras))
	var skipped []string
	for _, extra := range extras {
		if s.HasField(extra.Key) {
			kept = append(kept, extra)
		} else {
			skipped = append(skipped, extra.Key)
		}
	}
	return kept, skipped
}

func init() {
	fillCmd.Flags().StringVar(&fillData, "data", "", "raw data to parse")
	fillCmd.Flags().StringVar(&fillDataFile, "data-file", "", "file of raw data to parse")
	fillCmd.Flags().StringVar(&fillSource, "source", llm.SourceText, "data source kind: text, audio, or file")
	fillCmd.Flags().IntVar(&fillHighlightMS, "highlight-ms", 0, "per-field highlight window in milliseconds (default 2000)")
	fillCmd.Flags().IntVar(&fillDelayMS, "delay-ms", 0, "delay between fields in milliseconds (default 600)")
	fillCmd.Flags().BoolVar(&fillApplyExtras, "apply-extras", false, "grow the schema with fields found in the data")
	fillCmd.MarkFlagsMutuallyExclusive("data", "data-file")
}
