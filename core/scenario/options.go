package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// RunOptions are the knobs of a Kelheim run.
type RunOptions struct {
	Sample SampleOptions

	// DRT enables the demand-responsive services (KEXI "drt" and "av").
	DRT bool
	// AVFare is a flat AV fare in euro per trip; KEXI uses zone fares.
	AVFare float64
	// BikeRnd adds a random, person-specific bike preference.
	BikeRnd    bool
	RandomSeed int64
	// Intermodal enables pt/DRT intermodal routing modes.
	Intermodal bool
	// PlanOrigin selects an alternative input plans variant.
	PlanOrigin string
	// BaseFare and Surcharge parameterise the KEXI fare.
	BaseFare  float64
	Surcharge float64
	// Rebalancing enables waiting point rebalancing for the AV fleet.
	Rebalancing bool
	// WaitingPoints is the waiting point file; empty means fleet start links.
	WaitingPoints string

	// Iterations overrides the last iteration; -1 keeps the config value.
	Iterations int
	OutputDir  string
	RunID      string
	// Overrides are "module.param=value" assignments applied last.
	Overrides []string

	// HighwayPlan names the highway extension to insert.
	HighwayPlan string
	// PlansFile replaces the input plans outright (presets only).
	PlansFile string
	// OverwriteFiles sets the controller's output directory policy.
	OverwriteFiles string
}

// DefaultRunOptions mirrors the defaults of the full scenario application.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Sample:      NewSampleOptions(25, 10, 1),
		RandomSeed:  4711,
		BaseFare:    2.0,
		Surcharge:   1.0,
		Iterations:  -1,
		HighwayPlan: PlanKelheim,
	}
}

// OnePercentPlans is the 1% population used by the fixed 1% preset.
const OnePercentPlans = "https://svn.vsp.tu-berlin.de/repos/public-svn/matsim/scenarios/countries/de/kelheim/kelheim-v3.0/input/kelheim-v3.0-1pct-plans.xml.gz"

// OnePercentPreset is the fixed 1% run without DRT.
func OnePercentPreset() RunOptions {
	o := DefaultRunOptions()
	_ = o.Sample.Select(1)
	o.HighwayPlan = PlanKelheim1pct
	o.OutputDir = fmt.Sprintf("./output/output-kelheim-v%s-1pct", Version)
	o.RunID = fmt.Sprintf("kelheim-v%s-1pct", Version)
	o.PlansFile = OnePercentPlans
	o.OverwriteFiles = "deleteDirectoryIfExists"
	return o
}

// Validate checks option consistency.
func (o RunOptions) Validate() error {
	var errs []error
	if o.Sample.Size() <= 0 {
		errs = append(errs, errors.New("no sample size selected"))
	}
	if o.Iterations < -1 {
		errs = append(errs, fmt.Errorf("iterations must be >= -1, got %d", o.Iterations))
	}
	if _, err := Plan(o.HighwayPlan); err != nil {
		errs = append(errs, err)
	}
	if strings.ContainsAny(o.PlanOrigin, `/\`) {
		errs = append(errs, fmt.Errorf("plan origin %q must not contain path separators", o.PlanOrigin))
	}
	for _, ov := range o.Overrides {
		if _, err := ParseOverride(ov); err != nil {
			errs = append(errs, err)
		}
	}
	switch o.OverwriteFiles {
	case "", "failIfDirectoryExists", "overwriteExistingFiles", "deleteDirectoryIfExists":
	default:
		errs = append(errs, fmt.Errorf("unknown overwrite policy %q", o.OverwriteFiles))
	}
	return errors.Join(errs...)
}

// Override is a parsed "module.param=value" assignment.
type Override struct {
	Module string
	Param  string
	Value  string
}

// ParseOverride parses a "module.param=value" assignment. An empty value
// removes the param.
func ParseOverride(s string) (Override, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("override %q: want module.param=value", s)
	}
	module, param, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || module == "" || param == "" {
		return Override{}, fmt.Errorf("override %q: want module.param=value", s)
	}
	return Override{Module: module, Param: param, Value: value}, nil
}

// Warnings lists options that are accepted but have no effect in the given
// combination, or values that are unusual.
func (o RunOptions) Warnings() []string {
	var w []string
	if o.Rebalancing && !o.DRT {
		w = append(w, "--rebalancing has no effect without --with-drt")
	}
	if o.WaitingPoints != "" && !(o.DRT && o.Rebalancing) {
		w = append(w, "--waiting-points has no effect without --with-drt and --rebalancing")
	}
	if o.AVFare < 0 || o.BaseFare < 0 || o.Surcharge < 0 {
		w = append(w, "negative fares pay agents for using the service")
	}
	return w
}
