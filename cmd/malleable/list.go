// List command for the malleable CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		entries, err := repo.Schemas()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No schemas")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%-24s %-32s v%-3d %d fields\n",
				entry.Slug, entry.Title, entry.Schema.Version, len(entry.Schema.Fields))
		}
		return nil
	},
}
