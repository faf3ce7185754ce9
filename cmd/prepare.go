package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kelheim/core/matsim/network"
	"github.com/kilianp07/kelheim/core/scenario"
	"github.com/kilianp07/kelheim/infra/logger"
)

func newPrepareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Prepare scenario input files",
	}
	cmd.AddCommand(newPrepareNetworkCmd())
	return cmd
}

func newPrepareNetworkCmd() *cobra.Command {
	var input, output, plan string
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Insert the highway extension into a network file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := scenario.Plan(plan)
			if err != nil {
				return err
			}
			n, err := network.Load(input)
			if err != nil {
				return fmt.Errorf("load network: %w", err)
			}
			rep, err := scenario.PatchNetwork(n, p)
			if err != nil {
				return err
			}
			if !rep.Connected {
				logger.New("prepare").Warnf("highway nodes of plan %s are not mutually reachable by car", p.Name)
			}
			if err := n.Save(output); err != nil {
				return fmt.Errorf("write network: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %d links, opened %d links to freight, %d new car connections, wrote %s\n",
				len(rep.AddedLinks), rep.FreightLinks, len(rep.Shortcuts), output)
			return err
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input network file")
	cmd.Flags().StringVar(&output, "output", "", "output network file")
	cmd.Flags().StringVar(&plan, "plan", scenario.PlanKelheim, "highway plan (kelheim|kelheim-1pct)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPrepareCmd())
}
