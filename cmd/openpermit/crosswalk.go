package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openpermit/openpermit/internal/presentation/tui"
	documents "github.com/openpermit/openpermit/pkg/adapters/loam"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/spf13/cobra"
)

var crosswalkCmd = &cobra.Command{
	Use:   "crosswalk [source-file target-file]",
	Short: "Create a draft crosswalk between two nodes",
	Long: `Creates a crosswalk from a source node to a target node. The endpoints come either
from two serialized node files or from the --source-* and --target-* flags.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected 0 or 2 files, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		var source, target domain.NodeRef
		if len(args) == 2 {
			var err error
			if source, err = refFromFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			if target, err = refFromFile(cmd.Context(), args[1]); err != nil {
				return err
			}
		} else {
			source.ID, _ = cmd.Flags().GetString("source-id")
			source.Type, _ = cmd.Flags().GetString("source-type")
			target.ID, _ = cmd.Flags().GetString("target-id")
			target.Type, _ = cmd.Flags().GetString("target-type")
		}

		_, _, client, cleanup, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		cw, err := client.CreateCrosswalk(cmd.Context(), source, target)
		if err != nil {
			return err
		}
		if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
			if err := saveCrosswalk(cmd.Context(), outPath, cw); err != nil {
				return err
			}
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), cw)
		}
		return printMarkdown(cmd.OutOrStdout(), tui.CrosswalkMarkdown(cw))
	},
}

func refFromFile(ctx context.Context, path string) (domain.NodeRef, error) {
	n, err := documents.New(documents.ReadOnly()).LoadNode(ctx, path)
	if err != nil {
		return domain.NodeRef{}, err
	}
	return n.Ref(), nil
}

// saveCrosswalk stores cw under its JSON field names.
func saveCrosswalk(ctx context.Context, path string, cw domain.Crosswalk) error {
	data, err := json.Marshal(cw)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return documents.New().Save(ctx, path, doc)
}

func init() {
	rootCmd.AddCommand(crosswalkCmd)
	crosswalkCmd.Flags().String("source-id", "", "Source node identifier")
	crosswalkCmd.Flags().String("source-type", domain.NodeTypeStandard, "Source node type")
	crosswalkCmd.Flags().String("target-id", "", "Target node identifier")
	crosswalkCmd.Flags().String("target-type", domain.NodeTypeStandard, "Target node type")
	crosswalkCmd.Flags().StringP("out", "o", "", "Also write the crosswalk to this .json or .yaml file")
	crosswalkCmd.Flags().Bool("json", false, "Print the crosswalk as JSON")
}
