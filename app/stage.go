package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilianp07/kelheim/core/matsim/network"
	"github.com/kilianp07/kelheim/core/matsim/simconfig"
	"github.com/kilianp07/kelheim/core/matsim/vehicles"
	"github.com/kilianp07/kelheim/core/modules"
	"github.com/kilianp07/kelheim/core/scenario"
)

// Names of the files written into a staging directory.
const (
	StagedConfig   = "config.xml"
	StagedNetwork  = "network.xml.gz"
	StagedPlans    = "plans.xml.gz"
	StagedManifest = "modules.yaml"
)

// ErrVehicleTypeNotFound is returned when DRT is enabled but the vehicles
// file lacks the AV vehicle type.
var ErrVehicleTypeNotFound = errors.New("vehicle type not found")

// Staged describes the prepared inputs of one run.
type Staged struct {
	RunID     string
	OutputDir string
	Dir       string

	ConfigPath   string
	NetworkPath  string
	PlansPath    string
	ManifestPath string

	Patch    scenario.PatchReport
	Persons  int
	Manifest *modules.Manifest
}

// Stage prepares the config, the patched network, the optional population
// and the module manifest below <staging_dir>/<runId>.
func (l *Launcher) Stage(ctx context.Context, opts scenario.RunOptions) (*Staged, error) {
	for _, w := range opts.Warnings() {
		l.log.Warnf("%s", w)
	}
	base := l.cfg.Scenario.ConfigPath
	cfg, err := simconfig.Load(base)
	if err != nil {
		return nil, fmt.Errorf("load base config: %w", err)
	}
	if err := scenario.PrepareConfig(cfg, opts); err != nil {
		return nil, fmt.Errorf("prepare config: %w", err)
	}
	n, err := scenario.ResolveInputPaths(cfg, filepath.Dir(base))
	if err != nil {
		return nil, fmt.Errorf("resolve input paths: %w", err)
	}
	l.log.Debugf("resolved %d input paths against %s", n, filepath.Dir(base))

	st := &Staged{RunID: scenario.RunID(cfg), OutputDir: scenario.OutputDirectory(cfg)}
	if st.RunID == "" {
		return nil, errors.New("prepared config has no controller.runId")
	}
	st.Dir, err = filepath.Abs(filepath.Join(l.cfg.Scenario.StagingDir, st.RunID))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(st.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	if err := l.stageNetwork(ctx, cfg, opts, st); err != nil {
		return nil, err
	}
	if opts.BikeRnd {
		if err := l.stagePlans(ctx, cfg, st); err != nil {
			return nil, err
		}
	}

	in := modules.Input{Options: opts, RunID: st.RunID}
	in.TimeStepSize, err = scenario.TimeStepSize(cfg)
	if err != nil {
		return nil, err
	}
	if opts.DRT {
		in.DRTModes = scenario.DRTModes(cfg)
		in.AVMaxSpeed, err = l.avMaxSpeed(ctx, cfg, st.Dir)
		if err != nil {
			return nil, err
		}
	}
	st.Manifest, err = modules.Wire(in)
	if err != nil {
		return nil, fmt.Errorf("wire modules: %w", err)
	}
	st.ManifestPath = filepath.Join(st.Dir, StagedManifest)
	if err := st.Manifest.Save(st.ManifestPath); err != nil {
		return nil, fmt.Errorf("write module manifest: %w", err)
	}

	st.ConfigPath = filepath.Join(st.Dir, StagedConfig)
	if err := cfg.Save(st.ConfigPath); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}
	l.log.Infow("staged run", map[string]any{
		"run_id":      st.RunID,
		"dir":         st.Dir,
		"added_links": len(st.Patch.AddedLinks),
		"shortcuts":   len(st.Patch.Shortcuts),
		"modules":     len(st.Manifest.Modules),
	})
	return st, nil
}

func (l *Launcher) stageNetwork(ctx context.Context, cfg *simconfig.Config, opts scenario.RunOptions, st *Staged) error {
	plan, err := scenario.Plan(opts.HighwayPlan)
	if err != nil {
		return err
	}
	src, err := l.fetch.Localize(ctx, scenario.NetworkFile(cfg), st.Dir)
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if src == "" {
		return errors.New("config has no network.inputNetworkFile")
	}
	net, err := network.Load(src)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}
	st.Patch, err = scenario.PatchNetwork(net, plan)
	if err != nil {
		return fmt.Errorf("patch network: %w", err)
	}
	if !st.Patch.Connected {
		l.log.Warnf("highway nodes of plan %s are not mutually reachable by car", plan.Name)
	}
	st.NetworkPath = filepath.Join(st.Dir, StagedNetwork)
	if err := net.Save(st.NetworkPath); err != nil {
		return fmt.Errorf("write network: %w", err)
	}
	cfg.GetOrAddModule("network").Set("inputNetworkFile", st.NetworkPath)
	l.recordPatch(st)
	return nil
}

func (l *Launcher) stagePlans(ctx context.Context, cfg *simconfig.Config, st *Staged) error {
	src, err := l.fetch.Localize(ctx, scenario.PlansFile(cfg), st.Dir)
	if err != nil {
		return fmt.Errorf("plans: %w", err)
	}
	st.PlansPath = filepath.Join(st.Dir, StagedPlans)
	st.Persons, err = scenario.AddBicycleLove(src, st.PlansPath)
	if err != nil {
		return fmt.Errorf("add bike preferences: %w", err)
	}
	cfg.GetOrAddModule("plans").Set("inputPlansFile", st.PlansPath)
	l.log.Infof("added %s to %d persons", scenario.BicycleLoveAttribute, st.Persons)
	return nil
}

func (l *Launcher) avMaxSpeed(ctx context.Context, cfg *simconfig.Config, dir string) (float64, error) {
	loc := scenario.VehiclesFile(cfg)
	if loc == "" || strings.EqualFold(loc, "null") {
		return math.NaN(), fmt.Errorf("vehicles.vehiclesFile is required for the AV speed limit")
	}
	src, err := l.fetch.Localize(ctx, loc, dir)
	if err != nil {
		return math.NaN(), fmt.Errorf("vehicles: %w", err)
	}
	defs, err := vehicles.Load(src)
	if err != nil {
		return math.NaN(), fmt.Errorf("load vehicles: %w", err)
	}
	vt, ok := defs.Type(modules.AVVehicleType)
	if !ok {
		return math.NaN(), fmt.Errorf("%w: %s in %s", ErrVehicleTypeNotFound, modules.AVVehicleType, loc)
	}
	return vt.MaxVelocity(), nil
}
