package scenario

import (
	"strconv"
	"strings"

	"github.com/kilianp07/kelheim/core/matsim/simconfig"
)

const (
	multiModeDrtModule = "multiModeDrt"
	drtSet             = "drt"
	drtCompanionSet    = "drtCompanion"
	dvrpModule         = "dvrp"

	// ModeDRT is the conventionally driven KEXI service.
	ModeDRT = "drt"
	// ModeAV is the autonomous KEXI fleet.
	ModeAV = "av"
)

// CompanionSamplingWeights are the observed group sizes (1..8 passengers)
// of KEXI bookings. Only the conventional service gets companions.
var CompanionSamplingWeights = []float64{22235, 2850, 752, 233, 28, 18, 1, 0}

// DRTModes lists the modes of all DRT parameter sets in config order.
func DRTModes(cfg *simconfig.Config) []string {
	m := cfg.Module(multiModeDrtModule)
	if m == nil {
		return nil
	}
	var modes []string
	for _, s := range m.SetsOfType(drtSet) {
		modes = append(modes, s.GetOr("mode", ModeDRT))
	}
	return modes
}

// PrepareDRT enables the multi-mode DRT groups: companions for the
// conventional service, the dvrp group and per-mode scoring params.
func PrepareDRT(cfg *simconfig.Config) []string {
	m := cfg.GetOrAddModule(multiModeDrtModule)
	for _, s := range m.SetsOfType(drtSet) {
		if s.GetOr("mode", ModeDRT) != ModeDRT {
			continue
		}
		c := s.GetOrAddSet(drtCompanionSet, nil)
		c.Set("drtCompanionSamplingWeights", javaDoubles(CompanionSamplingWeights))
	}
	cfg.GetOrAddModule(dvrpModule)

	modes := DRTModes(cfg)
	for _, mode := range modes {
		adjustDRTMode(cfg, mode)
	}
	return modes
}

// adjustDRTMode adds the unscored interaction activity and the mode params
// a DRT mode needs for routing and scoring. Params already present in the
// base config are kept.
func adjustDRTMode(cfg *simconfig.Config, mode string) {
	sp := ScoringParameters(cfg)
	interaction := mode + " interaction"
	if sp.FindSet(activityParamsSet, simconfig.ParamEquals("activityType", interaction)) == nil {
		a := ActivityParams(cfg, interaction)
		a.SetBool("scoringThisActivityAtAll", false)
		a.Set("typicalDuration", simconfig.FormatTime(1))
	}

	if sp.FindSet(modeParamsSet, simconfig.ParamEquals("mode", mode)) == nil {
		s := sp.AddSet(modeParamsSet)
		s.Set("mode", mode)
	}
}

// javaDoubles formats a list the way the framework writes List<Double>.
func javaDoubles(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(parts[i], ".eE") {
			parts[i] += ".0"
		}
	}
	return strings.Join(parts, ",")
}
