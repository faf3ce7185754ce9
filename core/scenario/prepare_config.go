package scenario

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/kelheim/core/matsim/simconfig"
)

const (
	controllerModule      = "controller"
	plansModule           = "plans"
	qsimModule            = "qsim"
	vspModule             = "vspExperimental"
	routingModule         = "routing"
	globalModule          = "global"
	simwrapperModule      = "simwrapper"
	intermodalModule      = "ptIntermodalRoutingModes"
	planInheritanceModule = "planInheritance"
)

// Simwrapper dashboard defaults for the Kelheim region.
const (
	DashboardShape     = "../shp/dilutionArea.shp"
	DashboardMapCenter = "11.89,48.91"
	DashboardZoom      = 11.0
)

// PrepareConfig applies the Kelheim adjustments to a loaded base config.
// Steps run in a fixed order; later steps see the effects of earlier ones.
func PrepareConfig(cfg *simconfig.Config, opts RunOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	AddSnzActivityScoring(cfg)

	ctrl := cfg.GetOrAddModule(controllerModule)
	plans := cfg.GetOrAddModule(plansModule)
	ctrl.Set("outputDirectory", opts.Sample.AdjustName(ctrl.GetOr("outputDirectory", "")))
	plans.Set("inputPlansFile", opts.Sample.AdjustName(plans.GetOr("inputPlansFile", "")))
	ctrl.Set("runId", opts.Sample.AdjustName(ctrl.GetOr("runId", "")))

	qsim := cfg.GetOrAddModule(qsimModule)
	qsim.SetFloat("flowCapacityFactor", opts.Sample.Sample())
	qsim.SetFloat("storageCapacityFactor", opts.Sample.Sample())

	cfg.GetOrAddModule(vspModule).Set("vspDefaultsCheckingLevel", "abort")
	cfg.GetOrAddModule(routingModule).Set("accessEgressType", "accessEgressModeToLink")

	cfg.GetOrAddModule(globalModule).SetInt("randomSeed", opts.RandomSeed)

	sw := cfg.GetOrAddModule(simwrapperModule)
	sw.SetFloat("sampleSize", opts.Sample.Sample())
	dp := sw.GetOrAddSet("params", func(s *simconfig.ParameterSet) bool {
		return s.GetOr("context", "") == ""
	})
	dp.Set("context", "")
	dp.Set("shp", DashboardShape)
	dp.Set("mapCenter", DashboardMapCenter)
	dp.Set("mapZoomLevel", javaDoubles([]float64{DashboardZoom}))

	if opts.Intermodal {
		cfg.GetOrAddModule(intermodalModule)
	}

	if opts.DRT {
		PrepareDRT(cfg)
	}

	DefaultPtFare.Apply(cfg)

	cfg.GetOrAddModule(planInheritanceModule).SetBool("enabled", true)

	if opts.OutputDir != "" {
		ctrl.Set("outputDirectory", opts.OutputDir)
	}
	if opts.RunID != "" {
		ctrl.Set("runId", opts.RunID)
	}
	if opts.PlansFile != "" {
		plans.Set("inputPlansFile", opts.PlansFile)
	}
	if opts.OverwriteFiles != "" {
		ctrl.Set("overwriteFiles", opts.OverwriteFiles)
	}

	if opts.Iterations != -1 {
		ctrl.SetInt("lastIteration", int64(opts.Iterations))
		AddRunOption(cfg, "iter", strconv.Itoa(opts.Iterations))
	}

	if strings.TrimSpace(opts.PlanOrigin) != "" {
		plans.Set("inputPlansFile", strings.ReplaceAll(plans.GetOr("inputPlansFile", ""), ".plans", ".plans-"+opts.PlanOrigin))
		AddRunOption(cfg, opts.PlanOrigin, "")
	}

	for _, raw := range opts.Overrides {
		ov, err := ParseOverride(raw)
		if err != nil {
			return err
		}
		v := ov.Value
		if v != "" && IsFileParam(ov.Module, ov.Param) && resolvable(v) {
			// relative to the working directory, not to the base config
			if v, err = filepath.Abs(v); err != nil {
				return err
			}
		}
		if v == "" {
			cfg.GetOrAddModule(ov.Module).Unset(ov.Param)
			continue
		}
		cfg.GetOrAddModule(ov.Module).Set(ov.Param, v)
	}
	return nil
}

// AddRunOption tags the output directory and run id with an option, so
// that runs of different variants do not overwrite each other. An empty
// value tags with the option name only.
func AddRunOption(cfg *simconfig.Config, option, value string) {
	postfix := "-" + option
	if value != "" {
		postfix = fmt.Sprintf("-%s_%s", option, value)
	}
	ctrl := cfg.GetOrAddModule(controllerModule)
	out := ctrl.GetOr("outputDirectory", "")
	if strings.HasSuffix(out, "/") {
		ctrl.Set("outputDirectory", strings.TrimSuffix(out, "/")+postfix+"/")
	} else {
		ctrl.Set("outputDirectory", out+postfix)
	}
	ctrl.Set("runId", ctrl.GetOr("runId", "")+strings.ReplaceAll(postfix, ".", ""))
}

// OutputDirectory returns the prepared output directory.
func OutputDirectory(cfg *simconfig.Config) string {
	return cfg.GetOrAddModule(controllerModule).GetOr("outputDirectory", "")
}

// RunID returns the prepared run id.
func RunID(cfg *simconfig.Config) string {
	return cfg.GetOrAddModule(controllerModule).GetOr("runId", "")
}

// PlansFile returns the prepared input plans location.
func PlansFile(cfg *simconfig.Config) string {
	return cfg.GetOrAddModule(plansModule).GetOr("inputPlansFile", "")
}

// NetworkFile returns the input network location.
func NetworkFile(cfg *simconfig.Config) string {
	return cfg.GetOrAddModule("network").GetOr("inputNetworkFile", "")
}

// VehiclesFile returns the vehicle definitions location.
func VehiclesFile(cfg *simconfig.Config) string {
	return cfg.GetOrAddModule("vehicles").GetOr("vehiclesFile", "")
}

// TimeStepSize returns the qsim time step in seconds, default 1.
func TimeStepSize(cfg *simconfig.Config) (float64, error) {
	q := cfg.GetOrAddModule(qsimModule)
	v, ok := q.Get("timeStepSize")
	if !ok {
		return 1, nil
	}
	if strings.Contains(v, ":") {
		return parseClock(v)
	}
	f, err := simconfig.ParseFloat(v)
	if err != nil {
		return 0, fmt.Errorf("qsim.timeStepSize: %w", err)
	}
	return f, nil
}

func parseClock(v string) (float64, error) {
	parts := strings.Split(v, ":")
	total := 0.0
	for _, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("parse time %q: %w", v, err)
		}
		total = total*60 + n
	}
	return total, nil
}
