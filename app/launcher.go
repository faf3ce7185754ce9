package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/kelheim/config"
	"github.com/kilianp07/kelheim/core/events"
	coremetrics "github.com/kilianp07/kelheim/core/metrics"
	coremon "github.com/kilianp07/kelheim/core/monitoring"
	"github.com/kilianp07/kelheim/core/runs"
	"github.com/kilianp07/kelheim/core/scenario"
	"github.com/kilianp07/kelheim/infra/java"
	"github.com/kilianp07/kelheim/infra/logger"
	"github.com/kilianp07/kelheim/internal/eventbus"
)

// Request is one invocation of the launcher.
type Request struct {
	// Command names the CLI command for the run record.
	Command string
	Options scenario.RunOptions
	// DryRun stops after staging.
	DryRun bool
}

// finishDeliveryTimeout bounds how long the finished event waits for a
// slow subscriber.
const finishDeliveryTimeout = 5 * time.Second

// Launcher stages a run and drives the simulation JVM.
type Launcher struct {
	cfg    *config.Config
	store  runs.RunStore
	bus    *eventbus.Bus[events.RunEvent]
	sink   coremetrics.MetricsSink
	runner java.Runner
	fetch  *Fetcher
	log    logger.Logger
	now    func() time.Time
}

// NewLauncher wires a launcher. A nil bus or sink disables events or patch
// metrics respectively.
func NewLauncher(cfg *config.Config, store runs.RunStore, bus *eventbus.Bus[events.RunEvent], sink coremetrics.MetricsSink, runner java.Runner) (*Launcher, error) {
	if cfg == nil {
		return nil, errors.New("launcher: nil config")
	}
	if store == nil {
		return nil, errors.New("launcher: nil run store")
	}
	if runner == nil {
		runner = java.NewExecRunner()
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Launcher{
		cfg:    cfg,
		store:  store,
		bus:    bus,
		sink:   sink,
		runner: runner,
		fetch:  NewFetcher(cfg.Scenario.DownloadTimeout()),
		log:    logger.New("launcher"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Launch stages the run, records it and, unless DryRun is set, runs the
// simulation until it exits or ctx is canceled. The returned record is the
// final state of the run.
func (l *Launcher) Launch(ctx context.Context, req Request) (runs.RunRecord, error) {
	st, err := l.Stage(ctx, req.Options)
	if err != nil {
		coremon.CaptureException(err, map[string]string{"command": req.Command, "stage": "prepare"})
		return runs.RunRecord{}, err
	}

	rec := runs.NewRecord(st.RunID, req.Command, DescribeOptions(req.Options))
	rec.StagingDir = st.Dir
	rec.OutputDir = st.OutputDir
	if err := l.store.Append(ctx, rec); err != nil {
		return rec, fmt.Errorf("record run: %w", err)
	}
	l.publish(rec, events.KindStaged, 0)

	cmd, err := java.BuildCommand(l.cfg.Java, st.ConfigPath, st.ManifestPath)
	if req.DryRun {
		if err == nil {
			l.log.Infof("dry run, would execute: %s", cmd.String())
		} else {
			l.log.Infof("dry run, staged inputs in %s", st.Dir)
		}
		return rec, nil
	}
	if err != nil {
		return l.finish(ctx, rec, java.Result{ExitCode: -1}, err)
	}

	rec.Status = runs.StatusRunning
	rec.UpdatedAt = l.now()
	if err := l.store.Append(ctx, rec); err != nil {
		l.log.Warnf("record start of %s: %v", rec.RunID, err)
	}
	l.publish(rec, events.KindStarted, 0)

	res, runErr := l.runner.Run(ctx, cmd, l.lineHandler(rec))
	return l.finish(ctx, rec, res, runErr)
}

func (l *Launcher) lineHandler(rec runs.RunRecord) java.LineHandler {
	jvm := logger.WithFields(logger.New("matsim"), map[string]any{"run_id": rec.RunID})
	return func(stream, line string) {
		if it, ok := java.ParseIteration(line); ok {
			l.publish(rec, events.KindIteration, it)
		}
		if java.IsShutdown(line) {
			coremon.Breadcrumb("run", rec.RunID+" shutdown")
		}
		if stream == java.Stderr {
			jvm.Warnf("%s", line)
			return
		}
		jvm.Infof("%s", line)
	}
}

func (l *Launcher) finish(ctx context.Context, rec runs.RunRecord, res java.Result, runErr error) (runs.RunRecord, error) {
	rec.FinishedAt = l.now()
	rec.UpdatedAt = rec.FinishedAt
	rec.ExitCode = res.ExitCode
	switch {
	case runErr == nil:
		rec.Status = runs.StatusSucceeded
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		rec.Status = runs.StatusCancelled
		rec.Error = runErr.Error()
	default:
		rec.Status = runs.StatusFailed
		rec.Error = runErr.Error()
		coremon.CaptureException(runErr, map[string]string{
			"run_id":    rec.RunID,
			"command":   rec.Command,
			"exit_code": strconv.Itoa(rec.ExitCode),
		})
	}
	// the run context may be canceled already; the final state is still recorded
	if err := l.store.Append(context.WithoutCancel(ctx), rec); err != nil {
		l.log.Errorf("record end of %s: %v", rec.RunID, err)
	}
	l.publish(rec, events.KindFinished, 0)
	l.log.Infow("run finished", map[string]any{
		"run_id":    rec.RunID,
		"status":    string(rec.Status),
		"exit_code": rec.ExitCode,
		"duration":  rec.Duration().String(),
	})
	if runErr != nil {
		return rec, fmt.Errorf("run %s: %w", rec.RunID, runErr)
	}
	return rec, nil
}

func (l *Launcher) publish(rec runs.RunRecord, kind events.Kind, iteration int) {
	crumb := rec.RunID + " " + string(kind)
	switch kind {
	case events.KindIteration:
		crumb += " " + strconv.Itoa(iteration)
	case events.KindFinished:
		crumb += " " + string(rec.Status)
	}
	coremon.Breadcrumb("run", crumb)
	if l.bus == nil {
		return
	}
	now := l.now()
	ev := events.RunEvent{
		RunID:     rec.RunID,
		RecordID:  rec.ID,
		Kind:      kind,
		Iteration: iteration,
		Status:    string(rec.Status),
		ExitCode:  rec.ExitCode,
		Error:     rec.Error,
		Elapsed:   now.Sub(rec.StartedAt),
		Time:      now,
	}
	if kind != events.KindFinished {
		l.bus.Publish(ev)
		return
	}
	// subscribers act on the terminal event, so it waits for buffer space
	ctx, cancel := context.WithTimeout(context.Background(), finishDeliveryTimeout)
	defer cancel()
	if err := l.bus.PublishWait(ctx, ev); err != nil {
		l.log.Warnf("deliver finished event of %s: %v", rec.RunID, err)
	}
}

func (l *Launcher) recordPatch(st *Staged) {
	rec, ok := l.sink.(coremetrics.HighwayPatchRecorder)
	if !ok {
		return
	}
	err := rec.RecordHighwayPatch(events.HighwayPatchEvent{
		RunID:        st.RunID,
		Plan:         st.Patch.Plan,
		AddedLinks:   len(st.Patch.AddedLinks),
		FreightLinks: st.Patch.FreightLinks,
		Connected:    st.Patch.Connected,
		Time:         l.now(),
	})
	if err != nil {
		l.log.Warnf("record highway patch: %v", err)
	}
}

// DescribeOptions flattens the options stored with a run record. Defaults
// are left out.
func DescribeOptions(o scenario.RunOptions) map[string]string {
	def := scenario.DefaultRunOptions()
	m := map[string]string{"sample": scenario.FormatPct(o.Sample.Size())}
	flag := func(name string, on bool) {
		if on {
			m[name] = "true"
		}
	}
	str := func(name, v, d string) {
		if v != d {
			m[name] = v
		}
	}
	num := func(name string, v, d float64) {
		if v != d {
			m[name] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	flag("with-drt", o.DRT)
	flag("bike-rnd", o.BikeRnd)
	flag("intermodal", o.Intermodal)
	flag("rebalancing", o.Rebalancing)
	num("av-fare", o.AVFare, def.AVFare)
	num("base-fare", o.BaseFare, def.BaseFare)
	num("surcharge", o.Surcharge, def.Surcharge)
	if o.RandomSeed != def.RandomSeed {
		m["random-seed"] = strconv.FormatInt(o.RandomSeed, 10)
	}
	if o.Iterations != def.Iterations {
		m["iterations"] = strconv.Itoa(o.Iterations)
	}
	str("plans", o.PlanOrigin, def.PlanOrigin)
	str("waiting-points", o.WaitingPoints, def.WaitingPoints)
	str("highways", o.HighwayPlan, def.HighwayPlan)
	if len(o.Overrides) > 0 {
		m["set"] = strings.Join(o.Overrides, ",")
	}
	return m
}
