// Show command for the malleable CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a schema's fields and metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entry, err := repo.SchemaBySlug(slug)
		if err != nil {
			if errors.Is(err, types.ErrSchemaNotFound) {
				fmt.Fprintf(os.Stderr, "show: schema %q not found\n", slug)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entry)
		}

		fmt.Printf("%s (%s)\n", entry.Title, entry.Slug)
		if entry.Schema.Metadata.Description != "" {
			fmt.Println(entry.Schema.Metadata.Description)
		}
		fmt.Printf("version %d, updated %s\n\n", entry.Schema.Version,
			entry.Schema.UpdatedAt.Format("2006-01-02 15:04:05"))
		for _, f := range entry.Schema.Fields {
			fmt.Println(" ", fieldSummary(f))
		}
		return nil
	},
}
