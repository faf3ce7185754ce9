package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kelheim/core/runs"
	"github.com/kilianp07/kelheim/pkg/export"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}
	cmd.AddCommand(newRunsLsCmd())
	return cmd
}

func newRunsLsCmd() *cobra.Command {
	var (
		status, format, runID string
		since                 time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := runs.NewStore(settings.Store.Module())
			if err != nil {
				return fmt.Errorf("run store: %w", err)
			}
			defer store.Close()
			recs, err := runs.List(cmd.Context(), store, query(runID, status, since))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return export.WriteJSON(out, recs)
			case "csv":
				return export.WriteCSV(out, recs)
			case "table":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tRUN ID\tSTATUS\tSTARTED\tDURATION\tEXIT")
				for _, r := range recs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", shortID(r.ID), r.RunID, r.Status,
						r.StartedAt.Local().Format(time.DateTime), r.Duration().Round(time.Second), r.ExitCode)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only runs in this state (staged|running|succeeded|failed|cancelled)")
	cmd.Flags().StringVar(&runID, "run-id", "", "only runs with this run id")
	cmd.Flags().DurationVar(&since, "since", 0, "only runs started within this duration")
	cmd.Flags().StringVar(&format, "format", "table", "output format (table|json|csv)")
	return cmd
}

func query(runID, status string, since time.Duration) runs.RunQuery {
	q := runs.RunQuery{RunID: runID, Status: runs.Status(status)}
	if since > 0 {
		q.Since = time.Now().Add(-since)
	}
	return q
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(newRunsCmd())
}
