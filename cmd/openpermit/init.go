package main

import (
	"fmt"
	"os"

	"github.com/openpermit/openpermit/internal/config"
	"github.com/openpermit/openpermit/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
			tui.PrintBanner(out)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
