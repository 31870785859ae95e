package main

import (
	"github.com/openpermit/openpermit/internal/presentation/tui"
	documents "github.com/openpermit/openpermit/pkg/adapters/loam"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a node through the worker",
	Long: `Builds a node from flags and prints it. Attributes are given as key=value pairs.

  openpermit generate --id urn:irc:r507 --type Requirement --name "Decks" --attr section=R507`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		nodeType, _ := cmd.Flags().GetString("type")
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		attrs, _ := cmd.Flags().GetStringToString("attr")
		asJSON, _ := cmd.Flags().GetBool("json")
		outPath, _ := cmd.Flags().GetString("out")

		_, logger, client, cleanup, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		meta := map[string]any{}
		if name != "" {
			meta["name"] = name
		}
		if description != "" {
			meta["description"] = description
		}
		attributes := make(map[string]any, len(attrs))
		for k, v := range attrs {
			attributes[k] = v
		}

		node, err := client.CreateNode(cmd.Context(), domain.NodeOptions{
			ID:         id,
			Type:       nodeType,
			Metadata:   meta,
			Attributes: attributes,
		})
		if err != nil {
			return err
		}
		logger.Debug("Node created", "id", node.ID(), "type", node.Type())

		if outPath != "" {
			if err := documents.New().SaveNode(cmd.Context(), outPath, node); err != nil {
				return err
			}
			logger.Debug("Node saved", "path", outPath)
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), node.Serialize())
		}
		return printMarkdown(cmd.OutOrStdout(), tui.NodeMarkdown(node))
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("id", "", "Node identifier (required)")
	generateCmd.Flags().String("type", domain.NodeTypeStandard, "Node type")
	generateCmd.Flags().String("name", "", "Human readable name")
	generateCmd.Flags().String("description", "", "Free text description")
	generateCmd.Flags().StringToString("attr", nil, "Attribute as key=value (repeatable)")
	generateCmd.Flags().Bool("json", false, "Print the serialized node as JSON")
	generateCmd.Flags().StringP("out", "o", "", "Also write the serialized node to this file (.json, .yaml or .md)")
	_ = generateCmd.MarkFlagRequired("id")
}
