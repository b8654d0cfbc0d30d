// Create command for the malleable CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/internal/llm"
	"github.com/mesh-intelligence/malleable/pkg/types"
)

var (
	createName        string
	createDescription string
	createFieldsFile  string
	createRawData     string
	createRawDataFile string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new form schema",
	Long: `Create a new schema entry, either from a field definition file or
generated from raw sample data using the configured language model.

Field definitions are a JSON object keyed by field key:

  {"name": {"type": "string", "label": "Name", "required": true,
            "validation": {"min": 2}}}

With --raw-data or --raw-data-file, the model infers fields from the
sample data instead. Requires OPENAI_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createName == "" {
			fmt.Fprintln(os.Stderr, "create: --name is required")
			os.Exit(exitUserError)
		}

		entry, err := buildEntry(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitUserError)
		}

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		if _, err := repo.SchemaBySlug(entry.Slug); err == nil {
			fmt.Fprintf(os.Stderr, "create: schema %q already exists\n", entry.Slug)
			os.Exit(exitUserError)
		}

		if err := repo.SaveSchema(entry); err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entry)
		}
		fmt.Printf("Created schema %q (version %d, %d fields)\n",
			entry.Slug, entry.Schema.Version, len(entry.Schema.Fields))
		return nil
	},
}

// buildEntry constructs the schema entry from either a fields file or
// LLM generation over raw data.
func buildEntry(cmd *cobra.Command) (types.SerializedSchemaEntry, error) {
	if createRawData != "" || createRawDataFile != "" {
		rawData, err := readInput(createRawData, createRawDataFile)
		if err != nil {
			return types.SerializedSchemaEntry{}, err
		}

		provider, err := llm.NewOpenAIProvider()
		if err != nil {
			return types.SerializedSchemaEntry{}, err
		}
		svc := llm.NewService(provider)

		generated, err := svc.GenerateSchemaFromRawData(cmd.Context(), createName, createDescription, rawData)
		if err != nil {
			return types.SerializedSchemaEntry{}, err
		}
		return types.SerializedSchemaEntry{
			Slug:   types.Slugify(createName),
			Title:  createName,
			Schema: generated,
		}, nil
	}

	metadata := types.SchemaMetadata{
		Name:        createName,
		Description: createDescription,
		Fields:      map[string]types.FieldMeta{},
	}
	if createFieldsFile != "" {
		raw, err := os.ReadFile(createFieldsFile)
		if err != nil {
			return types.SerializedSchemaEntry{}, fmt.Errorf("read %s: %w", createFieldsFile, err)
		}
		if err := json.Unmarshal(raw, &metadata.Fields); err != nil {
			return types.SerializedSchemaEntry{}, fmt.Errorf("decode %s: %w", createFieldsFile, err)
		}
	}

	return types.NewEntry(metadata)
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "schema display name (required)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "schema description")
	createCmd.Flags().StringVar(&createFieldsFile, "fields-file", "", "JSON file of field definitions keyed by field key")
	createCmd.Flags().StringVar(&createRawData, "raw-data", "", "raw sample data to infer a schema from")
	createCmd.Flags().StringVar(&createRawDataFile, "raw-data-file", "", "file of raw sample data to infer a schema from")

	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagsMutuallyExclusive("fields-file", "raw-data")
	createCmd.MarkFlagsMutuallyExclusive("fields-file", "raw-data-file")
	createCmd.MarkFlagsMutuallyExclusive("raw-data", "raw-data-file")
}
