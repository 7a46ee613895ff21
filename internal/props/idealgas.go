// File: internal/props/idealgas.go
package props

import "math"

// idealGas models a single-phase calorically perfect gas:
//
//	h(T)   = cp (T - Tref)
//	s(T,P) = cp ln(T/Tref) - R ln(P/Pref)
//
// Both inversions used by the engine, T from (P,h) and T from (P,s), are
// closed-form, so the backend never iterates. Quality queries are rejected
// with ErrNotTwoPhase: the gas never condenses inside the model's range.
type idealGas struct {
	cp, r      float64 // J/(kg K)
	tRef, pRef float64 // datum where h = s = 0
	crit, trip TP
}

// newAirBackend returns dry air as a calorically perfect gas. The critical
// and triple points are real-air constants, exposed for diagnostics only.
func newAirBackend() backend {
	return &idealGas{
		cp:   1004.7,
		r:    287.05,
		tRef: 298.15,
		pRef: 101_325,
		crit: TP{T: 132.63, P: 3.786e6},
		trip: TP{T: 59.75, P: 5265},
	}
}

// newExhaustGasBackend returns a combustion-product mixture approximation.
// The heavier triatomic fraction raises cp relative to dry air.
func newExhaustGasBackend() backend {
	return &idealGas{
		cp:   1148.0,
		r:    287.0,
		tRef: 298.15,
		pRef: 101_325,
		crit: TP{T: 132.63, P: 3.786e6},
		trip: TP{T: 59.75, P: 5265},
	}
}

func (g *idealGas) criticalPoint() TP { return g.crit }
func (g *idealGas) triplePoint() TP   { return g.trip }

func (g *idealGas) enthalpy(t float64) float64 { return g.cp * (t - g.tRef) }

func (g *idealGas) entropy(t, p float64) float64 {
	return g.cp*math.Log(t/g.tRef) - g.r*math.Log(p/g.pRef)
}

func (g *idealGas) evaluate(out Property, in1 Property, v1 float64, in2 Property, v2 float64) (float64, error) {
	if out == Quality || in1 == Quality || in2 == Quality {
		return 0, ErrNotTwoPhase
	}

	p, t, err := g.resolvePT(in1, v1, in2, v2)
	if err != nil {
		return 0, err
	}
	if p <= 0 || t <= 0 || math.IsNaN(p) || math.IsNaN(t) {
		return 0, ErrOutOfRange
	}

	switch out {
	case Pressure:
		return p, nil
	case Temperature:
		return t, nil
	case Enthalpy:
		return g.enthalpy(t), nil
	case Entropy:
		return g.entropy(t, p), nil
	default:
		return 0, ErrUnsupportedPair
	}
}

// resolvePT reduces any supported input pair to (pressure, temperature).
func (g *idealGas) resolvePT(in1 Property, v1 float64, in2 Property, v2 float64) (p, t float64, err error) {
	vals := map[Property]float64{in1: v1, in2: v2}
	if in1 == in2 {
		return 0, 0, ErrUnsupportedPair
	}
	p, hasP := vals[Pressure]
	if !hasP {
		// Every engine query pins pressure; without it h and s alone are
		// degenerate for an ideal gas (h determines T, leaving P free).
		return 0, 0, ErrUnsupportedPair
	}
	if p <= 0 {
		return 0, 0, ErrOutOfRange
	}

	switch {
	case has(vals, Temperature):
		t = vals[Temperature]
	case has(vals, Enthalpy):
		t = g.tRef + vals[Enthalpy]/g.cp
	case has(vals, Entropy):
		t = g.tRef * math.Exp((vals[Entropy]+g.r*math.Log(p/g.pRef))/g.cp)
	default:
		return 0, 0, ErrUnsupportedPair
	}
	return p, t, nil
}

func has(vals map[Property]float64, p Property) bool {
	_, ok := vals[p]
	return ok
}
