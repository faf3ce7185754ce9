package scenario

import (
	"strconv"

	"github.com/kilianp07/kelheim/core/matsim/simconfig"
)

const (
	scoringModule      = "scoring"
	scoringParamsSet   = "scoringParameters"
	activityParamsSet  = "activityParams"
	modeParamsSet      = "modeParams"
	activityDurationLo = 600
	activityDurationHi = 86400
	activityDurationDt = 600
)

// snzActivity is an activity type of the SNZ mobility data with its
// opening hours. Zero hours mean the activity is open all day.
type snzActivity struct {
	name    string
	opening float64
	closing float64
}

// snzActivities are the activity types found in the Kelheim plans. Every
// type is split into duration buckets, e.g. "work_28800".
var snzActivities = []snzActivity{
	{name: "home"},
	{name: "other"},
	{name: "work", opening: 6, closing: 20},
	{name: "leisure", opening: 9, closing: 27},
	{name: "dining", opening: 8, closing: 27},
	{name: "shop_daily", opening: 8, closing: 20},
	{name: "shop_other", opening: 8, closing: 20},
	{name: "visit", opening: 9, closing: 27},
	{name: "educ_kiga", opening: 7, closing: 17},
	{name: "educ_primary", opening: 7, closing: 16},
	{name: "educ_secondary", opening: 7, closing: 17},
	{name: "educ_tertiary", opening: 7, closing: 22},
	{name: "educ_higher", opening: 7, closing: 19},
	{name: "educ_other", opening: 7, closing: 22},
	{name: "errands", opening: 8, closing: 20},
	{name: "business", opening: 8, closing: 20},
	{name: "personal_business", opening: 8, closing: 20},
}

// extraActivities are unsplit activity types with their typical duration.
var extraActivities = []struct {
	name     string
	duration float64
}{
	{"car interaction", 60},
	{"other", 600 * 3},
	{"freight_start", 60 * 15},
	{"freight_end", 60 * 15},
}

// ScoringParameters returns the subpopulation independent scoring set.
func ScoringParameters(cfg *simconfig.Config) *simconfig.ParameterSet {
	m := cfg.GetOrAddModule(scoringModule)
	return m.GetOrAddSet(scoringParamsSet, func(s *simconfig.ParameterSet) bool {
		v, ok := s.Get("subpopulation")
		return !ok || v == "" || v == "null"
	})
}

// ActivityParams returns the activity params of a type, creating them.
func ActivityParams(cfg *simconfig.Config, activityType string) *simconfig.ParameterSet {
	sp := ScoringParameters(cfg)
	if s := sp.FindSet(activityParamsSet, simconfig.ParamEquals("activityType", activityType)); s != nil {
		return s
	}
	s := sp.AddSet(activityParamsSet)
	s.Set("activityType", activityType)
	return s
}

// AddSnzActivityScoring registers scoring params for all SNZ activity types
// and their duration buckets. It returns the number of activity types.
func AddSnzActivityScoring(cfg *simconfig.Config) int {
	n := 0
	for _, a := range snzActivities {
		for d := activityDurationLo; d <= activityDurationHi; d += activityDurationDt {
			s := ActivityParams(cfg, a.name+"_"+strconv.Itoa(d))
			s.Set("typicalDuration", simconfig.FormatTime(float64(d)))
			s.Set("typicalDurationScoreComputation", "relative")
			if a.opening != 0 || a.closing != 0 {
				s.Set("openingTime", simconfig.FormatTime(a.opening*3600))
				s.Set("closingTime", simconfig.FormatTime(a.closing*3600))
			}
			n++
		}
	}
	for _, a := range extraActivities {
		s := ActivityParams(cfg, a.name)
		s.Set("typicalDuration", simconfig.FormatTime(a.duration))
		n++
	}
	return n
}
