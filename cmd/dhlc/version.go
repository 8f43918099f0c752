package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dhlc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show dhlc build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), version.Info(!color.NoColor))
		return err
	},
}
