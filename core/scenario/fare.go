package scenario

import (
	"math"

	"github.com/kilianp07/kelheim/core/matsim/simconfig"
)

const (
	ptFareModule           = "ptfare"
	distanceBasedFareSet   = "distanceBasedPtFareParams"
	distanceClassFareSet   = "distanceClassFareParams"
	ptFareTransactionParty = "pt-operator"
)

// DistanceClass is a linear fare for trips up to MaxDistance meters.
type DistanceClass struct {
	MaxDistance float64
	Intercept   float64
	Slope       float64
}

// PtFare is the distance based public transport fare of the region.
type PtFare struct {
	UpperBoundFactor float64
	MinFare          float64
	Classes          []DistanceClass
}

// DefaultPtFare is the regional tariff: a short distance class up to 50 km
// and an open-ended long distance class.
var DefaultPtFare = PtFare{
	UpperBoundFactor: 1.5,
	MinFare:          2.0,
	Classes: []DistanceClass{
		{MaxDistance: 50000, Intercept: 1.6, Slope: 0.00017},
		{MaxDistance: math.Inf(1), Intercept: 30, Slope: 0.00025},
	},
}

// Apply writes the fare into the ptfare group.
func (f PtFare) Apply(cfg *simconfig.Config) {
	m := cfg.GetOrAddModule(ptFareModule)
	m.SetBool("applyUpperBound", true)
	m.SetFloat("upperBoundFactor", f.UpperBoundFactor)

	p := m.GetOrAddSet(distanceBasedFareSet, nil)
	p.SetFloat("minFare", f.MinFare)
	p.Set("transactionPartner", ptFareTransactionParty)
	for _, c := range f.Classes {
		dist := simconfig.FormatFloat(c.MaxDistance)
		s := p.FindSet(distanceClassFareSet, simconfig.ParamEquals("maxDistance", dist))
		if s == nil {
			s = p.AddSet(distanceClassFareSet)
			s.Set("maxDistance", dist)
		}
		s.SetFloat("fareIntercept", c.Intercept)
		s.SetFloat("fareSlope", c.Slope)
	}
	p.SetInt("order", 1)
}
