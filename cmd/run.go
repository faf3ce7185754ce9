package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kelheim/app"
	"github.com/kilianp07/kelheim/core/runs"
	"github.com/kilianp07/kelheim/core/scenario"
	"github.com/kilianp07/kelheim/infra/logger"
)

// runFlags holds the flags of "kelheim run".
type runFlags struct {
	// pct holds one --<size>pct switch per offered sample size.
	pct    map[float64]*bool
	opts   scenario.RunOptions
	dryRun bool
}

func newRunFlags() *runFlags {
	f := &runFlags{opts: scenario.DefaultRunOptions(), pct: map[float64]*bool{}}
	for _, size := range f.opts.Sample.Sizes() {
		f.pct[size] = new(bool)
	}
	return f
}

func newRunCmd() *cobra.Command {
	f := newRunFlags()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Kelheim scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			return launch(cmd, "run", opts, f.dryRun)
		},
	}
	fl := cmd.Flags()
	for i, size := range f.opts.Sample.Sizes() {
		pct := scenario.FormatPct(size)
		usage := "run the " + pct + "% sample"
		if i == 0 {
			usage += " (default)"
		}
		fl.BoolVar(f.pct[size], pct+"pct", false, usage)
	}
	fl.BoolVar(&f.opts.DRT, "with-drt", false, "enable DRT service")
	fl.Float64Var(&f.opts.AVFare, "av-fare", f.opts.AVFare, "AV fare (euro/trip)")
	fl.BoolVar(&f.opts.BikeRnd, "bike-rnd", false, "enable randomness in the ASC of bike")
	fl.Int64Var(&f.opts.RandomSeed, "random-seed", f.opts.RandomSeed, "random seed for the simulation")
	fl.BoolVar(&f.opts.Intermodal, "intermodal", false, "enable intermodality for DRT service")
	fl.StringVar(&f.opts.PlanOrigin, "plans", "", "use input plans of a different origin")
	fl.Float64Var(&f.opts.BaseFare, "base-fare", f.opts.BaseFare, "KEXI base fare (euro/trip)")
	fl.Float64Var(&f.opts.Surcharge, "surcharge", f.opts.Surcharge, "KEXI surcharge for trips from or to the train station (euro/trip)")
	fl.BoolVar(&f.opts.Rebalancing, "rebalancing", false, "enable waiting point based rebalancing for AV")
	fl.StringVar(&f.opts.WaitingPoints, "waiting-points", "", "waiting points file; empty uses fleet start locations")
	fl.IntVar(&f.opts.Iterations, "iterations", f.opts.Iterations, "last iteration, -1 keeps the config value")
	fl.StringVar(&f.opts.OutputDir, "output", "", "override the output directory")
	fl.StringVar(&f.opts.RunID, "runId", "", "override the run id")
	fl.StringArrayVar(&f.opts.Overrides, "set", nil, "config override module.param=value (repeatable); an empty value removes the param, relative input files resolve against the working directory")
	fl.StringVar(&f.opts.HighwayPlan, "highways", f.opts.HighwayPlan, "highway extension plan (kelheim|kelheim-1pct)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "prepare inputs without launching the simulation")
	return cmd
}

func (f *runFlags) options() (scenario.RunOptions, error) {
	opts := f.opts
	opts.Sample = scenario.NewSampleOptions(f.opts.Sample.Sizes()...)
	for _, size := range opts.Sample.Sizes() {
		if !*f.pct[size] {
			continue
		}
		if err := opts.Sample.Select(size); err != nil {
			return opts, err
		}
	}
	return opts, opts.Validate()
}

func newRun1pctCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "run-1pct",
		Short: "Run the fixed 1% Kelheim scenario without DRT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launch(cmd, "run-1pct", scenario.OnePercentPreset(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "prepare inputs without launching the simulation")
	return cmd
}

func launch(cmd *cobra.Command, name string, opts scenario.RunOptions, dryRun bool) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	svc, err := app.New(ctx, settings, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	rec, err := svc.Run(ctx, app.Request{Command: name, Options: opts, DryRun: dryRun})
	if err != nil {
		return err
	}
	if rec.Status == runs.StatusStaged {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "staged %s in %s\n", rec.RunID, rec.StagingDir)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s in %s, output in %s\n", rec.RunID, rec.Status, rec.Duration().Round(time.Second), rec.OutputDir)
	return err
}

func init() {
	rootCmd.AddCommand(newRunCmd(), newRun1pctCmd())
}
