package main

import (
	"fmt"
	"strings"

	"github.com/openpermit/openpermit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of openpermit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "openpermit version %s\n", strings.TrimSpace(openpermit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
