// File: internal/cycle/rankine.go
package cycle

import (
	"fmt"

	"github.com/combicycle/ccgt/internal/props"
)

// rankineStates holds the four resolved steam-cycle points in flow order.
// Mass flows are left at zero here; the HRSG coupler determines the
// steam-to-gas ratio and the engine scales the states afterwards.
type rankineStates struct {
	condenserOutlet    State
	pumpOutlet         State
	hrsgOutlet         State
	steamTurbineOutlet State
}

// resolveRankine computes the superheated Rankine cycle: saturated liquid out
// of the condenser, isentropic-efficiency pumping to boiler pressure, heating
// and superheating to the target temperature, and isentropic-efficiency
// expansion back to condenser pressure.
func resolveRankine(provider props.Provider, p Params) (rankineStates, error) {
	o := oracle{provider: provider, fluid: p.SteamFluid, stage: "rankine"}

	if p.BoilerPressure <= p.CondenserPressure {
		return rankineStates{}, &InvalidDesignError{
			Stage: "rankine",
			Reason: fmt.Sprintf("boiler pressure %g Pa must exceed condenser pressure %g Pa",
				p.BoilerPressure, p.CondenserPressure),
		}
	}

	// Condenser outlet: saturated liquid, quality pinned to zero. Pressure
	// and temperature alone would be ambiguous on the saturation line.
	t1, err := o.eval(props.Temperature, props.Pressure, p.CondenserPressure, props.Quality, 0)
	if err != nil {
		return rankineStates{}, err
	}
	h1, err := o.eval(props.Enthalpy, props.Pressure, p.CondenserPressure, props.Quality, 0)
	if err != nil {
		return rankineStates{}, err
	}
	s1, err := o.eval(props.Entropy, props.Pressure, p.CondenserPressure, props.Quality, 0)
	if err != nil {
		return rankineStates{}, err
	}
	zero := 0.0
	condOut := State{
		Fluid:       p.SteamFluid,
		Pressure:    p.CondenserPressure,
		Temperature: t1,
		Enthalpy:    h1,
		Entropy:     s1,
		Quality:     &zero,
	}

	// Pump outlet: isentropic rise divided by the pump efficiency.
	h2s, err := o.eval(props.Enthalpy, props.Pressure, p.BoilerPressure, props.Entropy, s1)
	if err != nil {
		return rankineStates{}, err
	}
	h2 := h1 + (h2s-h1)/p.PumpEfficiency
	pumpOut, err := o.stateAtPH(p.BoilerPressure, h2, 0)
	if err != nil {
		return rankineStates{}, err
	}

	// HRSG outlet: superheated steam at boiler pressure. The target must sit
	// above the saturation temperature, otherwise the "superheat" state would
	// in fact be wet and the design is self-contradictory.
	tSat, err := o.eval(props.Temperature, props.Pressure, p.BoilerPressure, props.Quality, 1)
	if err != nil {
		return rankineStates{}, err
	}
	if p.SuperheatTemperature <= tSat {
		return rankineStates{}, &InvalidDesignError{
			Stage: "rankine",
			Reason: fmt.Sprintf("superheat temperature %.2f K does not exceed saturation temperature %.2f K at boiler pressure %g Pa",
				p.SuperheatTemperature, tSat, p.BoilerPressure),
		}
	}
	h3, err := o.eval(props.Enthalpy, props.Pressure, p.BoilerPressure, props.Temperature, p.SuperheatTemperature)
	if err != nil {
		return rankineStates{}, err
	}
	s3, err := o.eval(props.Entropy, props.Pressure, p.BoilerPressure, props.Temperature, p.SuperheatTemperature)
	if err != nil {
		return rankineStates{}, err
	}
	hrsgOut := State{
		Fluid:       p.SteamFluid,
		Pressure:    p.BoilerPressure,
		Temperature: p.SuperheatTemperature,
		Enthalpy:    h3,
		Entropy:     s3,
	}

	// Steam turbine outlet: expansion to condenser pressure; the endpoint
	// usually lands inside the dome, so quality is resolved from (P, h).
	h4s, err := o.eval(props.Enthalpy, props.Pressure, p.CondenserPressure, props.Entropy, s3)
	if err != nil {
		return rankineStates{}, err
	}
	h4 := h3 - p.SteamTurbineEfficiency*(h3-h4s)
	turbOut, err := o.stateAtPH(p.CondenserPressure, h4, 0)
	if err != nil {
		return rankineStates{}, err
	}

	return rankineStates{
		condenserOutlet:    condOut,
		pumpOutlet:         pumpOut,
		hrsgOutlet:         hrsgOut,
		steamTurbineOutlet: turbOut,
	}, nil
}
