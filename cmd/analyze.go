package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kelheim/pkg/report"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze simulation output",
	}
	cmd.AddCommand(newModeStatsCmd())
	return cmd
}

func newModeStatsCmd() *cobra.Command {
	var input, output, title string
	cmd := &cobra.Command{
		Use:   "modestats",
		Short: "Render the mode share per iteration as an HTML chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, err := report.ReadModeStats(input)
			if err != nil {
				return err
			}
			if err := ms.RenderFile(output, title); err != nil {
				return err
			}
			final := ms.Final()
			for _, mode := range ms.Ranked() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %6.2f%%\n", mode, 100*final[mode]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "modestats.csv of a run")
	cmd.Flags().StringVar(&output, "output", "modestats.html", "chart file")
	cmd.Flags().StringVar(&title, "title", "Mode share", "chart title")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}
