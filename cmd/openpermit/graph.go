package main

import (
	"fmt"

	"github.com/openpermit/openpermit/internal/presentation/graph"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file|dir>...",
	Short: "Export nodes and crosswalks as a Mermaid diagram",
	Long: `Reads serialized nodes and prints a Mermaid diagram (graph LR) of their relationships.
Nodes that fail validation are highlighted unless --no-check is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, _ := cmd.Flags().GetString("select")
		noCheck, _ := cmd.Flags().GetBool("no-check")
		cwFiles, _ := cmd.Flags().GetStringSlice("crosswalk")

		entries, err := loadDocuments(cmd.Context(), args)
		if err != nil {
			return err
		}
		nodes := make([]*domain.Node, 0, len(entries))
		for _, entry := range entries {
			n, err := domain.Deserialize(entry.Document)
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Path, err)
			}
			nodes = append(nodes, n)
		}

		var crosswalks []domain.Crosswalk
		for _, path := range cwFiles {
			cw, err := loadCrosswalk(cmd.Context(), path)
			if err != nil {
				return err
			}
			crosswalks = append(crosswalks, cw)
		}

		highlight := &graph.Highlight{Selected: selected}
		if !noCheck {
			_, _, client, cleanup, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			for i, entry := range entries {
				res, err := client.ValidateNode(cmd.Context(), domain.NodeJSON(entry.Document))
				if err != nil {
					return fmt.Errorf("%s: %w", entry.Path, err)
				}
				if !res.Valid {
					highlight.Invalid = append(highlight.Invalid, nodes[i].ID())
				}
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nodes, crosswalks, highlight))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("select", "", "Highlight the node with this identifier")
	graphCmd.Flags().Bool("no-check", false, "Skip validation highlighting")
	graphCmd.Flags().StringSlice("crosswalk", nil, "Crosswalk file to draw (repeatable)")
}
