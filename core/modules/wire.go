package modules

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/kelheim/core/factory"
	"github.com/kilianp07/kelheim/core/scenario"
)

// AVVehicleType is the vehicle type whose maximum velocity caps the AV fleet.
const AVVehicleType = "autonomous_vehicle"

// Input is everything module selection depends on.
type Input struct {
	Options scenario.RunOptions
	RunID   string
	// DRTModes are the modes of the prepared multi-mode DRT config.
	DRTModes []string
	// TimeStepSize is the qsim time step in seconds.
	TimeStepSize float64
	// AVMaxSpeed is the maximum velocity of the AV vehicle type in m/s.
	AVMaxSpeed float64
}

// Wire selects and orders the controller modules of a run.
func Wire(in Input) (*Manifest, error) {
	var cfgs []factory.ModuleConfig
	add := func(name string, conf map[string]any) {
		cfgs = append(cfgs, factory.ModuleConfig{Type: name, Conf: conf})
	}

	add(PtFare, nil)
	add(SwissRailRaptor, nil)
	add(PersonMoneyEvents, nil)
	add(SimWrapper, nil)
	add(MainModeIdentifier, nil)
	add(ModeChoiceCoverage, nil)
	add(IncomeDependentScoring, nil)
	if in.Options.BikeRnd {
		add(BicycleLove, map[string]any{"attribute": scenario.BicycleLoveAttribute, "legMode": "bike"})
	}

	if in.Options.DRT {
		if len(in.DRTModes) == 0 {
			return nil, errors.New("DRT enabled but the config defines no DRT modes")
		}
		if in.AVMaxSpeed <= 0 || math.IsNaN(in.AVMaxSpeed) {
			return nil, fmt.Errorf("vehicle type %s: invalid maximum velocity %v", AVVehicleType, in.AVMaxSpeed)
		}
		add(DrtRouteFactory, nil)
		add(Dvrp, nil)
		add(MultiModeDrt, nil)
		add(MultiModeDrtCompanion, nil)
		add(DvrpQSimComponents, map[string]any{"modes": in.DRTModes})
		add(LimitedMaxSpeed, map[string]any{
			"mode":         scenario.ModeAV,
			"timeStepSize": in.TimeStepSize,
			"maxSpeed":     in.AVMaxSpeed,
		})
		for _, mode := range in.DRTModes {
			add(KelheimDrtFare, map[string]any{
				"mode":      mode,
				"avFare":    in.Options.AVFare,
				"baseFare":  in.Options.BaseFare,
				"surcharge": in.Options.Surcharge,
			})
			if in.Options.Rebalancing && mode == scenario.ModeAV {
				add(WaitingPointsRebalancing, map[string]any{"mode": mode, "waitingPoints": in.Options.WaitingPoints})
			} else {
				add(NoRebalancing, map[string]any{"mode": mode})
			}
		}
	}

	m := &Manifest{Scenario: "kelheim-v" + scenario.Version, RunID: in.RunID}
	for _, c := range cfgs {
		inst, err := Create(c)
		if err != nil {
			return nil, err
		}
		m.Modules = append(m.Modules, inst)
	}
	return m, nil
}
