// File: internal/props/props_test.go
package props

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUnknownFluid(t *testing.T) {
	p := NewStandard()

	_, err := p.Evaluate(Fluid("helium-3"), Enthalpy, Pressure, 1e5, Temperature, 300)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFluid)

	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, Fluid("helium-3"), evalErr.Fluid)

	_, err = p.CriticalPoint(Fluid("helium-3"))
	assert.ErrorIs(t, err, ErrUnknownFluid)
}

func TestIdealGasRoundTrips(t *testing.T) {
	p := NewStandard()
	const (
		pr = 12e5
		tr = 650.0
	)

	h, err := p.Evaluate(Air, Enthalpy, Pressure, pr, Temperature, tr)
	require.NoError(t, err)
	s, err := p.Evaluate(Air, Entropy, Pressure, pr, Temperature, tr)
	require.NoError(t, err)

	tFromH, err := p.Evaluate(Air, Temperature, Pressure, pr, Enthalpy, h)
	require.NoError(t, err)
	assert.InDelta(t, tr, tFromH, 1e-9)

	tFromS, err := p.Evaluate(Air, Temperature, Pressure, pr, Entropy, s)
	require.NoError(t, err)
	assert.InDelta(t, tr, tFromS, 1e-6)
}

func TestIdealGasIsentropicCompressionHeats(t *testing.T) {
	p := NewStandard()

	s, err := p.Evaluate(Air, Entropy, Pressure, 101_325, Temperature, 288.15)
	require.NoError(t, err)

	// Same entropy at 15x the pressure must sit at a higher temperature.
	tOut, err := p.Evaluate(Air, Temperature, Pressure, 15*101_325, Entropy, s)
	require.NoError(t, err)
	assert.Greater(t, tOut, 288.15)

	// cp/R for our air gives T2/T1 = r^(R/cp).
	want := 288.15 * math.Pow(15, 287.05/1004.7)
	assert.InDelta(t, want, tOut, 1e-6)
}

func TestIdealGasRejectsQuality(t *testing.T) {
	p := NewStandard()
	_, err := p.Evaluate(Air, Quality, Pressure, 1e5, Temperature, 300)
	assert.ErrorIs(t, err, ErrNotTwoPhase)

	_, err = p.Evaluate(ExhaustGas, Enthalpy, Pressure, 1e5, Quality, 0.5)
	assert.ErrorIs(t, err, ErrNotTwoPhase)
}

func TestIdealGasRejectsDegenerateInputs(t *testing.T) {
	p := NewStandard()
	cases := []struct {
		name string
		in1  Property
		v1   float64
		in2  Property
		v2   float64
		want error
	}{
		{"repeated property", Pressure, 1e5, Pressure, 2e5, ErrUnsupportedPair},
		{"no pressure", Temperature, 300, Enthalpy, 1e4, ErrUnsupportedPair},
		{"negative pressure", Pressure, -1, Temperature, 300, ErrOutOfRange},
		{"negative temperature", Pressure, 1e5, Temperature, -4, ErrOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Evaluate(Air, Enthalpy, tc.in1, tc.v1, tc.in2, tc.v2)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWaterSaturationCurve(t *testing.T) {
	w := newWaterBackend()

	// Anchored exactly at the triple point.
	ts, err := w.tsat(w.pt)
	require.NoError(t, err)
	assert.InDelta(t, w.tt, ts, 1e-6)

	// Normal boiling point lands close to 100 C.
	ts, err = w.tsat(101_325)
	require.NoError(t, err)
	assert.InDelta(t, 373.15, ts, 2.0)

	// Typical condenser vacuum.
	ts, err = w.tsat(5_000)
	require.NoError(t, err)
	assert.InDelta(t, 306.0, ts, 1.0)

	// Monotone in pressure.
	tLow, err := w.tsat(1e4)
	require.NoError(t, err)
	tHigh, err := w.tsat(1e7)
	require.NoError(t, err)
	assert.Greater(t, tHigh, tLow)

	// No saturation at or above the critical pressure.
	_, err = w.tsat(w.pc)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestWaterPhaseEquilibriumConsistency(t *testing.T) {
	w := newWaterBackend()

	// Along the dome gf must equal gg, i.e. hg - hf = T (sg - sf).
	for _, temp := range []float64{280, 320, 373.15, 450, 550, 620} {
		hfg := w.hVapSat(temp) - w.hLiqSat(temp)
		sfg := w.sVapSat(temp) - w.sLiqSat(temp)
		assert.InEpsilon(t, hfg, temp*sfg, 1e-12, "Gibbs equality at T=%g", temp)
	}
}

func TestWaterQualityResolution(t *testing.T) {
	p := NewStandard()
	const pc = 5_000.0

	hf, err := p.Evaluate(Water, Enthalpy, Pressure, pc, Quality, 0)
	require.NoError(t, err)
	hg, err := p.Evaluate(Water, Enthalpy, Pressure, pc, Quality, 1)
	require.NoError(t, err)
	require.Greater(t, hg, hf)

	h := hf + 0.85*(hg-hf)
	x, err := p.Evaluate(Water, Quality, Pressure, pc, Enthalpy, h)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, x, 1e-9)

	// Quality via entropy must agree with quality via enthalpy.
	s, err := p.Evaluate(Water, Entropy, Pressure, pc, Enthalpy, h)
	require.NoError(t, err)
	xFromS, err := p.Evaluate(Water, Quality, Pressure, pc, Entropy, s)
	require.NoError(t, err)
	assert.InDelta(t, x, xFromS, 1e-9)

	_, err = p.Evaluate(Water, Quality, Pressure, pc, Quality, 1.5)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestWaterRejectsPTInsideDome(t *testing.T) {
	p := NewStandard()
	w := newWaterBackend()

	ts, err := w.tsat(1e5)
	require.NoError(t, err)

	// P+T exactly on the saturation line does not determine the state.
	_, err = p.Evaluate(Water, Enthalpy, Pressure, 1e5, Temperature, ts)
	assert.ErrorIs(t, err, ErrUnsupportedPair)

	// Clearly sub- and super-saturated temperatures are fine.
	_, err = p.Evaluate(Water, Enthalpy, Pressure, 1e5, Temperature, ts-20)
	assert.NoError(t, err)
	_, err = p.Evaluate(Water, Enthalpy, Pressure, 1e5, Temperature, ts+20)
	assert.NoError(t, err)
}

func TestWaterQualityOutsideDome(t *testing.T) {
	p := NewStandard()

	// Superheated steam has no quality.
	_, err := p.Evaluate(Water, Quality, Pressure, 1e5, Temperature, 500)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotTwoPhase))
}

func TestWaterEntropyMonotoneInEnthalpy(t *testing.T) {
	// ds/dh > 0 along an isobar across all three regions; the exergy
	// accounting relies on this.
	p := NewStandard()
	const pr = 2e6

	prev := math.Inf(-1)
	for h := 1e5; h <= 3.4e6; h += 5e4 {
		s, err := p.Evaluate(Water, Entropy, Pressure, pr, Enthalpy, h)
		require.NoError(t, err)
		assert.Greater(t, s, prev, "entropy must increase with enthalpy at h=%g", h)
		prev = s
	}
}

func TestWaterConstantsExposed(t *testing.T) {
	p := NewStandard()

	crit, err := p.CriticalPoint(Water)
	require.NoError(t, err)
	assert.InDelta(t, 647.096, crit.T, 1e-9)
	assert.InDelta(t, 22.064e6, crit.P, 1e-9)

	trip, err := p.TriplePoint(Water)
	require.NoError(t, err)
	assert.InDelta(t, 273.16, trip.T, 1e-9)
	assert.InDelta(t, 611.657, trip.P, 1e-9)
}
