// File: internal/cycle/hrsg.go
package cycle

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/combicycle/ccgt/internal/props"
)

// PinchResult reports the resolved HRSG coupling: the steam-to-gas mass-flow
// ratio, the minimum temperature approach along the exchanger, and where it
// occurs. Location is the fraction of total duty transferred, counted from
// the gas inlet / steam outlet end (0) to the gas outlet / steam inlet end (1).
type PinchResult struct {
	MassFlowRatio float64 `json:"massFlowRatio"`
	MinApproach   float64 `json:"minApproach"` // K
	Location      float64 `json:"location"`
	Duty          float64 `json:"duty"` // W, gas to steam
	RatioSolved   bool    `json:"ratioSolved"`
}

// ProfilePoint is one sample of the counter-flow temperature profile, used by
// the pinch search, the renderer and the brute-force verification tests.
type ProfilePoint struct {
	DutyFraction     float64 `json:"dutyFraction"`
	GasTemperature   float64 `json:"gasTemperature"`   // K
	SteamTemperature float64 `json:"steamTemperature"` // K
}

// sweepSamples is the uniform sampling density of one profile evaluation.
// The steam-side dome breakpoints are always added exactly, so the binding
// two-phase plateau corner is never missed between samples.
const sweepSamples = 129

// pinchIterationBound caps the bisection; past it the coupler fails with a
// ConvergenceError instead of looping.
const pinchIterationBound = 120

// coupler solves the counter-flow heat-exchange constraint between the
// cooling gas stream and the heating steam stream.
type coupler struct {
	gas      oracle
	steam    oracle
	gasIn    State   // gas-turbine outlet
	steamIn  State   // pump outlet
	steamOut State   // HRSG outlet (superheated)
	margin   float64 // required minimum approach, K
	floor    float64 // gas-side outlet temperature floor, K
	maxIter  int
}

func newCoupler(provider props.Provider, p Params, gas braytonStates, steam rankineStates) coupler {
	return coupler{
		gas:      oracle{provider: provider, fluid: p.GasFluid, stage: "hrsg"},
		steam:    oracle{provider: provider, fluid: p.SteamFluid, stage: "hrsg"},
		gasIn:    gas.gasTurbineOutlet,
		steamIn:  steam.pumpOutlet,
		steamOut: steam.hrsgOutlet,
		margin:   p.PinchDeltaT,
		floor:    p.StackTemperatureFloor,
		maxIter:  pinchIterationBound,
	}
}

// dutyFractions returns the sorted sweep grid: uniform samples plus the exact
// duty fractions where the steam side enters and leaves the two-phase dome.
func (c coupler) dutyFractions() ([]float64, error) {
	dh := c.steamOut.Enthalpy - c.steamIn.Enthalpy
	qs := make([]float64, 0, sweepSamples+2)
	for i := 0; i < sweepSamples; i++ {
		qs = append(qs, float64(i)/float64(sweepSamples-1))
	}
	for _, quality := range []float64{1, 0} {
		hSat, err := c.steam.eval(props.Enthalpy, props.Pressure, c.steamOut.Pressure, props.Quality, quality)
		if err != nil {
			return nil, err
		}
		q := (c.steamOut.Enthalpy - hSat) / dh
		if q > 0 && q < 1 {
			qs = append(qs, q)
		}
	}
	sort.Float64s(qs)
	return qs, nil
}

// profile evaluates the counter-flow temperature profile for a trial ratio.
// Each call is a fresh, side-effect-free evaluation.
func (c coupler) profile(ratio float64, qs []float64) ([]ProfilePoint, error) {
	dh := c.steamOut.Enthalpy - c.steamIn.Enthalpy
	pts := make([]ProfilePoint, len(qs))
	for i, q := range qs {
		gasT, err := c.gas.eval(props.Temperature,
			props.Pressure, c.gasIn.Pressure,
			props.Enthalpy, c.gasIn.Enthalpy-q*ratio*dh)
		if err != nil {
			return nil, err
		}
		steamT, err := c.steam.eval(props.Temperature,
			props.Pressure, c.steamOut.Pressure,
			props.Enthalpy, c.steamOut.Enthalpy-q*dh)
		if err != nil {
			return nil, err
		}
		pts[i] = ProfilePoint{DutyFraction: q, GasTemperature: gasT, SteamTemperature: steamT}
	}
	return pts, nil
}

// minApproach returns the minimum local temperature difference for a trial
// ratio and the duty fraction where it occurs.
func (c coupler) minApproach(ratio float64, qs []float64) (float64, float64, error) {
	pts, err := c.profile(ratio, qs)
	if err != nil {
		return 0, 0, err
	}
	diffs := make([]float64, len(pts))
	for i, pt := range pts {
		diffs[i] = pt.GasTemperature - pt.SteamTemperature
	}
	i := floats.MinIdx(diffs)
	return diffs[i], pts[i].DutyFraction, nil
}

// solve determines the mass-flow ratio. In solve mode it searches for the
// ratio at which the minimum approach equals the configured margin, capped by
// the stack temperature floor; in fixed-ratio mode it verifies the given
// ratio and reports the achieved approach.
func (c coupler) solve(p Params) (PinchResult, error) {
	dh := c.steamOut.Enthalpy - c.steamIn.Enthalpy
	if dh <= 0 {
		return PinchResult{}, &InvalidDesignError{
			Stage:  "hrsg",
			Reason: "steam-side enthalpy must rise across the HRSG",
		}
	}
	qs, err := c.dutyFractions()
	if err != nil {
		return PinchResult{}, err
	}

	// The floor caps how much enthalpy the gas may surrender, and with it the
	// largest admissible ratio.
	hFloor, err := c.gas.eval(props.Enthalpy, props.Pressure, c.gasIn.Pressure, props.Temperature, c.floor)
	if err != nil {
		return PinchResult{}, err
	}
	ratioCap := (c.gasIn.Enthalpy - hFloor) / dh
	if ratioCap <= 0 {
		return PinchResult{}, &InfeasibleDesignError{
			RequiredMargin: c.margin,
			BestApproach:   0,
			Reason: fmt.Sprintf("gas enters the HRSG at %.2f K, at or below the %.2f K stack floor",
				c.gasIn.Temperature, c.floor),
		}
	}

	if !p.SolveMassFlowRatio {
		return c.verify(p.MassFlowRatio, ratioCap, qs, dh, p.GasMassFlow)
	}

	// As the ratio vanishes the gas stays hot along the whole exchanger, so
	// this is the largest approach any ratio can achieve.
	const ratioEps = 1e-6
	best, _, err := c.minApproach(ratioEps, qs)
	if err != nil {
		return PinchResult{}, err
	}
	if best < c.margin {
		return PinchResult{}, &InfeasibleDesignError{
			RequiredMargin: c.margin,
			BestApproach:   best,
			Reason:         "pinch margin unattainable for any steam flow; boiler pressure or superheat too high for the available exhaust temperature",
		}
	}

	// If the approach still clears the margin at the floor-capped ratio, the
	// stack floor is the binding constraint, not the pinch.
	atCap, locCap, err := c.minApproach(ratioCap, qs)
	if err != nil {
		return PinchResult{}, err
	}
	if atCap >= c.margin {
		return PinchResult{
			MassFlowRatio: ratioCap,
			MinApproach:   atCap,
			Location:      locCap,
			Duty:          ratioCap * dh * p.GasMassFlow,
			RatioSolved:   true,
		}, nil
	}

	// Monotone bisection: increasing the ratio cools the gas harder and
	// narrows the approach, so minApproach(ratio) - margin has exactly one
	// sign change in (ratioEps, ratioCap).
	lo, hi := ratioEps, ratioCap
	converged := false
	for i := 0; i < c.maxIter; i++ {
		mid := 0.5 * (lo + hi)
		a, _, err := c.minApproach(mid, qs)
		if err != nil {
			return PinchResult{}, err
		}
		if a >= c.margin {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-12*hi {
			converged = true
			break
		}
	}
	if !converged {
		return PinchResult{}, &ConvergenceError{Iterations: c.maxIter, BracketLo: lo, BracketHi: hi}
	}

	// lo is the margin-satisfying side of the final bracket.
	ratio := lo
	approach, loc, err := c.minApproach(ratio, qs)
	if err != nil {
		return PinchResult{}, err
	}
	return PinchResult{
		MassFlowRatio: ratio,
		MinApproach:   approach,
		Location:      loc,
		Duty:          ratio * dh * p.GasMassFlow,
		RatioSolved:   true,
	}, nil
}

// verify handles fixed-ratio mode: the caller owns the ratio, the coupler
// reports the approach it produces. A temperature crossover is still fatal,
// since heat cannot flow against the gradient.
func (c coupler) verify(ratio, ratioCap float64, qs []float64, dh, gasMassFlow float64) (PinchResult, error) {
	if ratio <= 0 {
		return PinchResult{}, &InvalidDesignError{
			Stage:  "hrsg",
			Reason: fmt.Sprintf("fixed mass-flow ratio must be positive, got %g", ratio),
		}
	}
	if ratio > ratioCap {
		return PinchResult{}, &InfeasibleDesignError{
			RequiredMargin: c.margin,
			BestApproach:   0,
			Reason: fmt.Sprintf("fixed mass-flow ratio %g drives the gas outlet below the %.2f K stack floor",
				ratio, c.floor),
		}
	}
	approach, loc, err := c.minApproach(ratio, qs)
	if err != nil {
		return PinchResult{}, err
	}
	if approach <= 0 {
		return PinchResult{}, &InfeasibleDesignError{
			RequiredMargin: c.margin,
			BestApproach:   approach,
			Reason:         fmt.Sprintf("fixed mass-flow ratio %g produces a temperature crossover in the HRSG", ratio),
		}
	}
	return PinchResult{
		MassFlowRatio: ratio,
		MinApproach:   approach,
		Location:      loc,
		Duty:          ratio * dh * gasMassFlow,
		RatioSolved:   false,
	}, nil
}

// exhaust resolves the gas-side HRSG outlet state for the final ratio.
func (c coupler) exhaust(ratio, gasMassFlow float64) (State, error) {
	dh := c.steamOut.Enthalpy - c.steamIn.Enthalpy
	h9 := c.gasIn.Enthalpy - ratio*dh
	return c.gas.stateAtPH(c.gasIn.Pressure, h9, gasMassFlow)
}

// HRSGProfile recomputes the counter-flow temperature profile of a finished
// solve at the given sampling density. Renderers use it for the duty diagram
// and tests use it to cross-check the coupler's reported pinch against a
// dense sweep.
func HRSGProfile(provider props.Provider, p Params, res *Result, samples int) ([]ProfilePoint, error) {
	gas := oracle{provider: provider, fluid: p.GasFluid, stage: "hrsg"}
	steam := oracle{provider: provider, fluid: p.SteamFluid, stage: "hrsg"}

	gasIn := res.States[GasTurbineOutlet]
	steamIn := res.States[PumpOutlet]
	steamOut := res.States[HRSGOutlet]
	dh := steamOut.Enthalpy - steamIn.Enthalpy
	ratio := res.Pinch.MassFlowRatio

	pts := make([]ProfilePoint, samples)
	for i := 0; i < samples; i++ {
		q := float64(i) / float64(samples-1)
		gasT, err := gas.eval(props.Temperature,
			props.Pressure, gasIn.Pressure,
			props.Enthalpy, gasIn.Enthalpy-q*ratio*dh)
		if err != nil {
			return nil, err
		}
		steamT, err := steam.eval(props.Temperature,
			props.Pressure, steamOut.Pressure,
			props.Enthalpy, steamOut.Enthalpy-q*dh)
		if err != nil {
			return nil, err
		}
		pts[i] = ProfilePoint{DutyFraction: q, GasTemperature: gasT, SteamTemperature: steamT}
	}
	return pts, nil
}
