package main

import (
	"log"
	"os"

	"github.com/openpermit/openpermit"
	"github.com/openpermit/openpermit/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes node creation, validation and crosswalks as MCP tools over stdio,
so AI agents can build and check OpenPermit nodes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, client, cleanup, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		srv := mcp.NewServer(client, openpermit.Version)
		logger.Info("Starting OpenPermit MCP Server (Stdio)")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
