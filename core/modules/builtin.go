package modules

import (
	"errors"
	"fmt"
)

// Short names of the supported modules.
const (
	PtFare                   = "PtFareModule"
	SwissRailRaptor          = "SwissRailRaptorModule"
	PersonMoneyEvents        = "PersonMoneyEventsAnalysisModule"
	SimWrapper               = "SimWrapperModule"
	MainModeIdentifier       = "KelheimMainModeIdentifier"
	ModeChoiceCoverage       = "ModeChoiceCoverageControlerListener"
	IncomeDependentScoring   = "IncomeDependentUtilityOfMoneyPersonScoringParameters"
	BicycleLove              = "BicycleLoveScoring"
	DrtRouteFactory          = "DrtRouteFactory"
	Dvrp                     = "DvrpModule"
	MultiModeDrt             = "MultiModeDrtModule"
	MultiModeDrtCompanion    = "MultiModeDrtCompanionModule"
	DvrpQSimComponents       = "DvrpQSimComponents"
	LimitedMaxSpeed          = "DvrpModeLimitedMaxSpeedTravelTimeModule"
	KelheimDrtFare           = "KelheimDrtFareModule"
	WaitingPointsRebalancing = "WaitingPointsBasedRebalancingModule"
	NoRebalancing            = "NoRebalancingStrategy"
)

func init() {
	static(PtFare, KindModule, "org.matsim.contrib.vsp.pt.fare.PtFareModule", "", false)
	static(SwissRailRaptor, KindModule, "ch.sbb.matsim.routing.pt.raptor.SwissRailRaptorModule", "", false)
	static(PersonMoneyEvents, KindModule, "org.matsim.analysis.personMoney.PersonMoneyEventsAnalysisModule", "", false)
	static(SimWrapper, KindModule, "org.matsim.simwrapper.SimWrapperModule", "", false)
	static(MainModeIdentifier, KindBinding, "org.matsim.analysis.KelheimMainModeIdentifier",
		"org.matsim.core.router.AnalysisMainModeIdentifier", false)
	static(ModeChoiceCoverage, KindListener, "org.matsim.analysis.ModeChoiceCoverageControlerListener", "", false)
	static(IncomeDependentScoring, KindBinding, "playground.vsp.scoring.IncomeDependentUtilityOfMoneyPersonScoringParameters",
		"org.matsim.core.scoring.functions.ScoringParametersForPerson", true)
	modal[bicycleLoveParams](BicycleLove, KindEventHandler, "org.matsim.run.BicycleLoveScoring", "", false)

	static(DrtRouteFactory, KindRouteFactory, "org.matsim.contrib.drt.routing.DrtRouteFactory",
		"org.matsim.contrib.drt.routing.DrtRoute", false)
	static(Dvrp, KindModule, "org.matsim.contrib.dvrp.run.DvrpModule", "", false)
	static(MultiModeDrt, KindModule, "org.matsim.contrib.drt.run.MultiModeDrtModule", "", false)
	static(MultiModeDrtCompanion, KindModule, "org.matsim.contrib.drt.extension.companions.MultiModeDrtCompanionModule", "", false)
	modal[qsimParams](DvrpQSimComponents, KindQSimComponents, "org.matsim.contrib.dvrp.run.DvrpQSimComponents", "", false)
	modal[maxSpeedParams](LimitedMaxSpeed, KindModule, "org.matsim.contrib.dvrp.trafficmonitoring.DvrpModeLimitedMaxSpeedTravelTimeModule", "", false)
	modal[fareParams](KelheimDrtFare, KindModule, "org.matsim.drtFare.KelheimDrtFareModule", "", false)
	modal[rebalancingParams](WaitingPointsRebalancing, KindModule, "org.matsim.rebalancing.WaitingPointsBasedRebalancingModule", "", false)
	modal[noRebalancingParams](NoRebalancing, KindBinding, "org.matsim.contrib.drt.optimizer.rebalancing.NoRebalancingStrategy",
		"org.matsim.contrib.drt.optimizer.rebalancing.RebalancingStrategy", true)
}

type bicycleLoveParams struct {
	Attribute string `json:"attribute"`
	LegMode   string `json:"legMode"`
}

func (bicycleLoveParams) mode() string { return "" }
func (p bicycleLoveParams) params() map[string]any {
	return map[string]any{"attribute": p.Attribute, "legMode": p.LegMode}
}
func (p bicycleLoveParams) validate() error {
	if p.Attribute == "" || p.LegMode == "" {
		return errors.New("attribute and legMode are required")
	}
	return nil
}

type qsimParams struct {
	Modes []string `json:"modes"`
}

func (qsimParams) mode() string             { return "" }
func (p qsimParams) params() map[string]any { return map[string]any{"modes": p.Modes} }
func (p qsimParams) validate() error {
	if len(p.Modes) == 0 {
		return errors.New("at least one mode is required")
	}
	return nil
}

type maxSpeedParams struct {
	Mode         string  `json:"mode"`
	TimeStepSize float64 `json:"timeStepSize"`
	MaxSpeed     float64 `json:"maxSpeed"`
}

func (p maxSpeedParams) mode() string { return p.Mode }
func (p maxSpeedParams) params() map[string]any {
	return map[string]any{"timeStepSize": p.TimeStepSize, "maxSpeed": p.MaxSpeed}
}
func (p maxSpeedParams) validate() error {
	if p.Mode == "" {
		return errors.New("mode is required")
	}
	if p.TimeStepSize <= 0 || p.MaxSpeed <= 0 {
		return fmt.Errorf("time step %v and max speed %v must be positive", p.TimeStepSize, p.MaxSpeed)
	}
	return nil
}

type fareParams struct {
	Mode      string  `json:"mode"`
	AVFare    float64 `json:"avFare"`
	BaseFare  float64 `json:"baseFare"`
	Surcharge float64 `json:"surcharge"`
}

func (p fareParams) mode() string { return p.Mode }
func (p fareParams) params() map[string]any {
	return map[string]any{"avFare": p.AVFare, "baseFare": p.BaseFare, "surcharge": p.Surcharge}
}
func (p fareParams) validate() error {
	if p.Mode == "" {
		return errors.New("mode is required")
	}
	if p.AVFare < 0 || p.BaseFare < 0 || p.Surcharge < 0 {
		return errors.New("fares must not be negative")
	}
	return nil
}

type rebalancingParams struct {
	Mode          string `json:"mode"`
	WaitingPoints string `json:"waitingPoints"`
}

func (p rebalancingParams) mode() string { return p.Mode }
func (p rebalancingParams) params() map[string]any {
	// an empty path makes the fleet start links the waiting points
	return map[string]any{"waitingPoints": p.WaitingPoints}
}
func (p rebalancingParams) validate() error {
	if p.Mode == "" {
		return errors.New("mode is required")
	}
	return nil
}

type noRebalancingParams struct {
	Mode string `json:"mode"`
}

func (p noRebalancingParams) mode() string         { return p.Mode }
func (noRebalancingParams) params() map[string]any { return nil }
func (p noRebalancingParams) validate() error {
	if p.Mode == "" {
		return errors.New("mode is required")
	}
	return nil
}
