package main

import (
	"fmt"

	"github.com/openpermit/openpermit/internal/presentation/tui"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Check serialized nodes for required fields",
	Long: `Sends each document to the worker and reports missing identifiers and types.
A directory stands for every document in it.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		_, _, client, cleanup, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		entries, err := loadDocuments(cmd.Context(), args)
		if err != nil {
			return err
		}

		results := make(map[string]domain.ValidationResult, len(entries))
		invalid := 0
		for _, entry := range entries {
			path := entry.Path
			res, err := client.ValidateNode(cmd.Context(), domain.NodeJSON(entry.Document))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[path] = res
			if !res.Valid {
				invalid++
			}

			if !asJSON {
				if err := printMarkdown(cmd.OutOrStdout(), fmt.Sprintf("`%s`\n\n", path)+tui.ValidationMarkdown(res)); err != nil {
					return err
				}
			}
		}

		if asJSON {
			if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
		}
		if invalid > 0 {
			return fmt.Errorf("%d of %d documents are invalid", invalid, len(entries))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print results as JSON keyed by file")
}
