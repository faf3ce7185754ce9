package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kelheim/core/scenario"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scenario version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), scenario.Version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
