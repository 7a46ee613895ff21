// File: internal/cycle/state.go
package cycle

import (
	"errors"

	"github.com/combicycle/ccgt/internal/props"
)

// StateKey names one of the fixed cycle points a solve resolves. The keys are
// the engine's public vocabulary; callers index Result.States with them.
type StateKey string

const (
	CompressorInlet    StateKey = "compressor-inlet"
	CompressorOutlet   StateKey = "compressor-outlet"
	CombustorOutlet    StateKey = "combustor-outlet"
	GasTurbineOutlet   StateKey = "gas-turbine-outlet"
	CondenserOutlet    StateKey = "condenser-outlet"
	PumpOutlet         StateKey = "pump-outlet"
	HRSGOutlet         StateKey = "hrsg-outlet"
	SteamTurbineOutlet StateKey = "steam-turbine-outlet"
)

// StateKeys is the canonical ordering of the named points: gas cycle along its
// flow path, then steam cycle along its flow path.
var StateKeys = []StateKey{
	CompressorInlet,
	CompressorOutlet,
	CombustorOutlet,
	GasTurbineOutlet,
	CondenserOutlet,
	PumpOutlet,
	HRSGOutlet,
	SteamTurbineOutlet,
}

// State is one resolved point in a cycle for one working fluid. States are
// created once per solve and read-only afterwards; a parameter change means a
// fresh solve, never an in-place update.
type State struct {
	Fluid       props.Fluid `json:"fluid"`
	Pressure    float64     `json:"pressure"`    // Pa
	Temperature float64     `json:"temperature"` // K
	Enthalpy    float64     `json:"enthalpy"`    // J/kg
	Entropy     float64     `json:"entropy"`     // J/(kg K)
	// Quality is nil for single-phase states and for fluids with no dome.
	Quality *float64 `json:"quality,omitempty"`
	// Exergy is derived against the reference environment, not primary.
	Exergy   float64 `json:"exergy"`   // J/kg
	MassFlow float64 `json:"massFlow"` // kg/s
}

// oracle wraps a props.Provider for one fluid within one resolver stage,
// converting property failures into InvalidDesignError: an out-of-range
// lookup is a design problem, never silently defaulted.
type oracle struct {
	provider props.Provider
	fluid    props.Fluid
	stage    string
}

func (o oracle) eval(out props.Property, in1 props.Property, v1 float64, in2 props.Property, v2 float64) (float64, error) {
	v, err := o.provider.Evaluate(o.fluid, out, in1, v1, in2, v2)
	if err != nil {
		return 0, &InvalidDesignError{
			Stage:  o.stage,
			Reason: "property evaluation failed",
			Err:    err,
		}
	}
	return v, nil
}

// quality returns the vapor quality at (P, h), or nil when the state is
// outside the two-phase dome.
func (o oracle) quality(p, h float64) (*float64, error) {
	x, err := o.provider.Evaluate(o.fluid, props.Quality, props.Pressure, p, props.Enthalpy, h)
	if err != nil {
		if errors.Is(err, props.ErrNotTwoPhase) {
			return nil, nil
		}
		return nil, &InvalidDesignError{Stage: o.stage, Reason: "quality evaluation failed", Err: err}
	}
	return &x, nil
}

// stateAtPH builds a full State from pressure and enthalpy, resolving
// temperature, entropy and (for two-phase capable fluids) quality.
func (o oracle) stateAtPH(p, h, massFlow float64) (State, error) {
	t, err := o.eval(props.Temperature, props.Pressure, p, props.Enthalpy, h)
	if err != nil {
		return State{}, err
	}
	s, err := o.eval(props.Entropy, props.Pressure, p, props.Enthalpy, h)
	if err != nil {
		return State{}, err
	}
	x, err := o.quality(p, h)
	if err != nil {
		return State{}, err
	}
	return State{
		Fluid:       o.fluid,
		Pressure:    p,
		Temperature: t,
		Enthalpy:    h,
		Entropy:     s,
		Quality:     x,
		MassFlow:    massFlow,
	}, nil
}
