// File: internal/props/water.go
package props

import "math"

// water is a simplified but thermodynamically self-consistent two-phase model:
// an incompressible liquid (constant c and v), a calorically perfect vapor, a
// Kirchhoff latent heat L(T) = Lt + (cpv-c)(T-Tt), and a saturation curve
// obtained by integrating Clausius-Clapeyron exactly with that same L(T).
// Phase equilibrium (gf = gg) holds by construction along the whole dome and
// ds/dh at constant pressure equals 1/T in every region, so entropy-based
// second-law accounting computed from this backend is exact, not approximate.
//
// Datum: saturated liquid at the triple point has h = 0 and s = 0.
type water struct {
	tt, pt    float64 // triple point
	tc, pc    float64 // critical point (real-water constants)
	cLiq      float64 // liquid specific heat, J/(kg K)
	vLiq      float64 // liquid specific volume, m3/kg
	cpVap     float64 // vapor isobaric specific heat, J/(kg K)
	rVap      float64 // vapor gas constant, J/(kg K)
	lt        float64 // latent heat at the triple point, J/kg
	dcp       float64 // cpVap - cLiq
	clausiusA float64 // (lt - dcp*tt)/rVap, 1/T coefficient of ln(psat)
}

func newWaterBackend() *water {
	w := &water{
		tt:    273.16,
		pt:    611.657,
		tc:    647.096,
		pc:    22.064e6,
		cLiq:  4186.0,
		vLiq:  1.0e-3,
		cpVap: 1900.0,
		rVap:  461.52,
		lt:    2.5009e6,
	}
	w.dcp = w.cpVap - w.cLiq
	w.clausiusA = (w.lt - w.dcp*w.tt) / w.rVap
	return w
}

func (w *water) criticalPoint() TP { return TP{T: w.tc, P: w.pc} }
func (w *water) triplePoint() TP   { return TP{T: w.tt, P: w.pt} }

// latent is the Kirchhoff latent heat of vaporization at saturation.
func (w *water) latent(t float64) float64 { return w.lt + w.dcp*(t-w.tt) }

// psat integrates d(lnP)/dT = L(T)/(R T^2) in closed form from the triple point.
func (w *water) psat(t float64) float64 {
	return w.pt * math.Exp(w.clausiusA*(1/w.tt-1/t)+(w.dcp/w.rVap)*math.Log(t/w.tt))
}

// tsat inverts psat with Newton iteration; d(lnPsat)/dT = L(T)/(R T^2) is the
// exact derivative of the correlation, so convergence is quadratic.
func (w *water) tsat(p float64) (float64, error) {
	if p <= 0 || p >= w.pc {
		return 0, ErrOutOfRange
	}
	lnP := math.Log(p / w.pt)
	// First guess from the 1/T term alone.
	inv := 1/w.tt - lnP/w.clausiusA
	t := 1 / inv
	if t <= 0 || t >= w.tc {
		t = 0.9 * w.tc
	}
	for i := 0; i < 60; i++ {
		f := math.Log(w.psat(t)/w.pt) - lnP
		df := w.latent(t) / (w.rVap * t * t)
		step := f / df
		t -= step
		if t <= 0 {
			t = 1
		}
		if math.Abs(step) < 1e-10*t {
			return t, nil
		}
	}
	return 0, ErrOutOfRange
}

// Saturation-line properties at temperature t.

func (w *water) hLiqSat(t float64) float64 { return w.cLiq*(t-w.tt) + w.vLiq*(w.psat(t)-w.pt) }
func (w *water) sLiqSat(t float64) float64 { return w.cLiq * math.Log(t/w.tt) }
func (w *water) hVapSat(t float64) float64 { return w.hLiqSat(t) + w.latent(t) }
func (w *water) sVapSat(t float64) float64 { return w.sLiqSat(t) + w.latent(t)/t }

// Single-phase properties. Compressed liquid: dh = c dT + v dP, ds = c dT/T.
// Superheated vapor: isobaric integration of cp from the saturation line, which
// collapses to h = Lt + cpv (T - Tt) + v (P - Pt).

func (w *water) hLiq(t, p float64) float64 { return w.cLiq*(t-w.tt) + w.vLiq*(p-w.pt) }
func (w *water) sLiq(t float64) float64    { return w.cLiq * math.Log(t / w.tt) }

func (w *water) hVap(t, p float64) float64 { return w.lt + w.cpVap*(t-w.tt) + w.vLiq*(p-w.pt) }

func (w *water) sVap(t, p, ts float64) float64 {
	return w.sVapSat(ts) + w.cpVap*math.Log(t/ts)
}

// region classification used by evaluate.
type phase int

const (
	phaseLiquid phase = iota
	phaseTwoPhase
	phaseVapor
)

// state is a fully resolved point: temperature, pressure and, inside the dome,
// quality.
type waterState struct {
	t, p, x float64
	ph      phase
	ts      float64 // saturation temperature at p
}

func (w *water) evaluate(out Property, in1 Property, v1 float64, in2 Property, v2 float64) (float64, error) {
	st, err := w.resolve(in1, v1, in2, v2)
	if err != nil {
		return 0, err
	}
	switch out {
	case Pressure:
		return st.p, nil
	case Temperature:
		return st.t, nil
	case Enthalpy:
		switch st.ph {
		case phaseLiquid:
			return w.hLiq(st.t, st.p), nil
		case phaseVapor:
			return w.hVap(st.t, st.p), nil
		default:
			return w.hLiqSat(st.ts) + st.x*w.latent(st.ts), nil
		}
	case Entropy:
		switch st.ph {
		case phaseLiquid:
			return w.sLiq(st.t), nil
		case phaseVapor:
			return w.sVap(st.t, st.p, st.ts), nil
		default:
			return w.sLiqSat(st.ts) + st.x*w.latent(st.ts)/st.ts, nil
		}
	case Quality:
		if st.ph != phaseTwoPhase {
			return 0, ErrNotTwoPhase
		}
		return st.x, nil
	default:
		return 0, ErrUnsupportedPair
	}
}

// resolve reduces a supported input pair to a waterState. Pressure must be one
// of the inputs: every engine query is along an isobar, and pairing H with S
// is not needed.
func (w *water) resolve(in1 Property, v1 float64, in2 Property, v2 float64) (waterState, error) {
	if in1 == in2 {
		return waterState{}, ErrUnsupportedPair
	}
	vals := map[Property]float64{in1: v1, in2: v2}
	p, hasP := vals[Pressure]
	if !hasP {
		return waterState{}, ErrUnsupportedPair
	}
	if p <= 0 || p >= w.pc || math.IsNaN(p) {
		return waterState{}, ErrOutOfRange
	}
	ts, err := w.tsat(p)
	if err != nil {
		return waterState{}, err
	}

	switch {
	case has(vals, Quality):
		x := vals[Quality]
		if x < 0 || x > 1 {
			return waterState{}, ErrOutOfRange
		}
		return waterState{t: ts, p: p, x: x, ph: phaseTwoPhase, ts: ts}, nil

	case has(vals, Temperature):
		t := vals[Temperature]
		if t <= 0 {
			return waterState{}, ErrOutOfRange
		}
		// On the saturation line pressure and temperature are dependent;
		// the caller must supply quality or enthalpy instead.
		if math.Abs(t-ts) < 1e-6*ts {
			return waterState{}, ErrUnsupportedPair
		}
		if t < ts {
			return waterState{t: t, p: p, ph: phaseLiquid, ts: ts}, nil
		}
		return waterState{t: t, p: p, ph: phaseVapor, ts: ts}, nil

	case has(vals, Enthalpy):
		h := vals[Enthalpy]
		hf, hg := w.hLiqSat(ts), w.hVapSat(ts)
		switch {
		case h < hf:
			t := w.tt + (h-w.vLiq*(p-w.pt))/w.cLiq
			if t <= 0 {
				return waterState{}, ErrOutOfRange
			}
			return waterState{t: t, p: p, ph: phaseLiquid, ts: ts}, nil
		case h > hg:
			t := w.tt + (h-w.lt-w.vLiq*(p-w.pt))/w.cpVap
			return waterState{t: t, p: p, ph: phaseVapor, ts: ts}, nil
		default:
			x := (h - hf) / w.latent(ts)
			return waterState{t: ts, p: p, x: x, ph: phaseTwoPhase, ts: ts}, nil
		}

	case has(vals, Entropy):
		s := vals[Entropy]
		sf, sg := w.sLiqSat(ts), w.sVapSat(ts)
		switch {
		case s < sf:
			t := w.tt * math.Exp(s/w.cLiq)
			return waterState{t: t, p: p, ph: phaseLiquid, ts: ts}, nil
		case s > sg:
			t := ts * math.Exp((s-sg)/w.cpVap)
			return waterState{t: t, p: p, ph: phaseVapor, ts: ts}, nil
		default:
			x := (s - sf) / (w.latent(ts) / ts)
			return waterState{t: ts, p: p, x: x, ph: phaseTwoPhase, ts: ts}, nil
		}
	}
	return waterState{}, ErrUnsupportedPair
}
