// Submissions commands for the malleable CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Manage stored submissions",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list [slug]",
	Short: "List submissions, optionally filtered to one schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := ""
		if len(args) == 1 {
			slug = args[0]
		}

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "submissions list:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		subs, err := repo.Submissions(slug)
		if err != nil {
			fmt.Fprintln(os.Stderr, "submissions list:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(subs)
		}

		if len(subs) == 0 {
			fmt.Println("No submissions")
			return nil
		}
		for _, sub := range subs {
			fmt.Printf("%s  %-24s v%-3d %s\n",
				sub.ID, sub.SchemaSlug, sub.SchemaVersion,
				sub.SubmittedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var submissionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one submission by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "submissions delete:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		if err := repo.DeleteSubmission(args[0]); err != nil {
			if errors.Is(err, types.ErrSubmissionNotFound) {
				fmt.Fprintf(os.Stderr, "submissions delete: submission %q not found\n", args[0])
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "submissions delete:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Deleted", args[0])
		return nil
	},
}

var submissionsClearCmd = &cobra.Command{
	Use:   "clear [slug]",
	Short: "Clear a schema's submission history, or all submissions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := ""
		if len(args) == 1 {
			slug = args[0]
		}

		repo, closer, err := openRepo()
		if err != nil {
			fmt.Fprintln(os.Stderr, "submissions clear:", err)
			os.Exit(exitSysError)
		}
		defer closer()

		if err := repo.ClearSubmissions(slug); err != nil {
			fmt.Fprintln(os.Stderr, "submissions clear:", err)
			os.Exit(exitSysError)
		}

		if slug == "" {
			fmt.Println("Cleared all submissions")
		} else {
			fmt.Printf("Cleared submissions for %q\n", slug)
		}
		return nil
	},
}

func init() {
	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsDeleteCmd)
	submissionsCmd.AddCommand(submissionsClearCmd)
}
