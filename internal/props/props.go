// File: internal/props/props.go
package props

import (
	"errors"
	"fmt"
)

// Fluid identifies a working fluid known to a Provider.
type Fluid string

const (
	// Air is the air-standard gas-cycle working fluid.
	Air Fluid = "air"
	// ExhaustGas is a combustion-gas mixture approximation with a higher
	// specific heat than dry air. Like Air it is single-phase.
	ExhaustGas Fluid = "exhaust-gas"
	// Water is the steam-cycle working fluid, two-phase capable.
	Water Fluid = "water"
)

// Property names one intensive property usable as an Evaluate input or output.
type Property string

const (
	Pressure    Property = "P" // Pa
	Temperature Property = "T" // K
	Enthalpy    Property = "H" // J/kg
	Entropy     Property = "S" // J/(kg K)
	Quality     Property = "Q" // vapor mass fraction, 0..1
)

// TP is a (temperature, pressure) pair, used for critical and triple points.
type TP struct {
	T float64 // K
	P float64 // Pa
}

// Provider is the property oracle the engine depends on: given a fluid and two
// independent intensive properties it returns any other property. Implementations
// must be referentially transparent (same inputs, same outputs) and side-effect
// free; the engine calls them from concurrent goroutines.
type Provider interface {
	Evaluate(fluid Fluid, out Property, in1 Property, v1 float64, in2 Property, v2 float64) (float64, error)
	CriticalPoint(fluid Fluid) (TP, error)
	TriplePoint(fluid Fluid) (TP, error)
}

// Sentinel errors returned (wrapped in *EvalError) by the built-in backends.
var (
	// ErrUnknownFluid indicates the provider has no backend for the fluid.
	ErrUnknownFluid = errors.New("props: unknown fluid")

	// ErrUnsupportedPair indicates the input property pair cannot determine
	// the state (for example P+T inside the two-phase dome, or a repeated
	// property).
	ErrUnsupportedPair = errors.New("props: input pair does not determine state")

	// ErrNotTwoPhase indicates a quality was requested for a state outside
	// the two-phase dome, or for a fluid with no dome at all.
	ErrNotTwoPhase = errors.New("props: state is not in the two-phase region")

	// ErrOutOfRange indicates an input value outside the backend's validity
	// range (non-positive pressure or temperature, supercritical pressure for
	// a saturation query, quality outside [0,1]).
	ErrOutOfRange = errors.New("props: input out of range")
)

// EvalError carries the full evaluation request alongside the underlying cause,
// so a failed lookup can be reported with the offending fluid and properties.
type EvalError struct {
	Fluid    Fluid
	Out      Property
	In1, In2 Property
	V1, V2   float64
	Err      error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("props: evaluate %s(%s=%g, %s=%g) for %q: %v",
		e.Out, e.In1, e.V1, e.In2, e.V2, e.Fluid, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// registry dispatches Provider calls to per-fluid backends.
type registry struct {
	backends map[Fluid]backend
}

// backend is the per-fluid contract behind the registry.
type backend interface {
	evaluate(out Property, in1 Property, v1 float64, in2 Property, v2 float64) (float64, error)
	criticalPoint() TP
	triplePoint() TP
}

// NewStandard returns the built-in provider: ideal-gas air and exhaust-gas
// backends and the simplified two-phase water backend. It is the default
// oracle wired by the CLI; the engine itself only sees the Provider interface.
func NewStandard() Provider {
	return &registry{backends: map[Fluid]backend{
		Air:        newAirBackend(),
		ExhaustGas: newExhaustGasBackend(),
		Water:      newWaterBackend(),
	}}
}

func (r *registry) Evaluate(fluid Fluid, out Property, in1 Property, v1 float64, in2 Property, v2 float64) (float64, error) {
	b, ok := r.backends[fluid]
	if !ok {
		return 0, &EvalError{Fluid: fluid, Out: out, In1: in1, V1: v1, In2: in2, V2: v2, Err: ErrUnknownFluid}
	}
	val, err := b.evaluate(out, in1, v1, in2, v2)
	if err != nil {
		// Backends return bare sentinels; attach the request context once here.
		return 0, &EvalError{Fluid: fluid, Out: out, In1: in1, V1: v1, In2: in2, V2: v2, Err: err}
	}
	return val, nil
}

func (r *registry) CriticalPoint(fluid Fluid) (TP, error) {
	b, ok := r.backends[fluid]
	if !ok {
		return TP{}, fmt.Errorf("props: critical point of %q: %w", fluid, ErrUnknownFluid)
	}
	return b.criticalPoint(), nil
}

func (r *registry) TriplePoint(fluid Fluid) (TP, error) {
	b, ok := r.backends[fluid]
	if !ok {
		return TP{}, fmt.Errorf("props: triple point of %q: %w", fluid, ErrUnknownFluid)
	}
	return b.triplePoint(), nil
}
