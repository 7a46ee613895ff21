// File: internal/cycle/diagnostics_test.go
package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combicycle/ccgt/internal/props"
)

// nominalStates builds a full state map that trips no diagnostic.
func nominalStates() map[StateKey]State {
	gas := func(pres, temp float64) State {
		return State{Fluid: props.Air, Pressure: pres, Temperature: temp}
	}
	steam := func(pres, temp float64) State {
		return State{Fluid: props.Water, Pressure: pres, Temperature: temp}
	}
	return map[StateKey]State{
		CompressorInlet:    gas(101_325, 288.15),
		CompressorOutlet:   gas(15*101_325, 680),
		CombustorOutlet:    gas(15*101_325, 1673.15),
		GasTurbineOutlet:   gas(101_325, 950),
		CondenserOutlet:    steam(5000, 306),
		PumpOutlet:         steam(1e7, 306.5),
		HRSGOutlet:         steam(1e7, 823.15),
		SteamTurbineOutlet: steam(5000, 306),
	}
}

func TestCheckValidityNominal(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()

	diags := checkValidity(provider, p, nominalStates())

	// Nominal plants report an empty list, not a nil one, so serialized
	// results always carry the field.
	require.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestCheckValidityTurbineInletLimit(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()
	p.TurbineInletLimit = 1600

	diags := checkValidity(provider, p, nominalStates())

	require.Len(t, diags, 1)
	assert.Equal(t, DiagTurbineInletTemperatureHigh, diags[0].Kind)
	assert.Equal(t, CombustorOutlet, diags[0].State)
	assert.InDelta(t, 1673.15, diags[0].Value, 1e-9)

	// A zero limit disables the check entirely.
	p.TurbineInletLimit = 0
	assert.Empty(t, checkValidity(provider, p, nominalStates()))
}

func TestCheckValiditySupercriticalCrossing(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()

	states := nominalStates()
	states[HRSGOutlet] = State{Fluid: props.Water, Pressure: 23e6, Temperature: 640}

	diags := checkValidity(provider, p, states)

	require.Len(t, diags, 1)
	assert.Equal(t, DiagSupercriticalCrossing, diags[0].Kind)
	assert.Equal(t, HRSGOutlet, diags[0].State)
	assert.InDelta(t, 23e6, diags[0].Value, 1e-9)

	// Above the critical pressure but well below the critical temperature the
	// fluid is just a compressed liquid, which is fine.
	states[HRSGOutlet] = State{Fluid: props.Water, Pressure: 23e6, Temperature: 400}
	assert.Empty(t, checkValidity(provider, p, states))
}

func TestCheckValiditySubTriplePoint(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()

	states := nominalStates()
	states[CondenserOutlet] = State{Fluid: props.Water, Pressure: 500, Temperature: 270}

	diags := checkValidity(provider, p, states)

	require.Len(t, diags, 1)
	assert.Equal(t, DiagSubTriplePoint, diags[0].Kind)
	assert.Equal(t, CondenserOutlet, diags[0].State)
	assert.InDelta(t, 270, diags[0].Value, 1e-9)
}

func TestCheckValidityWetTurbineOutlet(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()

	q := 0.85
	states := nominalStates()
	out := states[SteamTurbineOutlet]
	out.Quality = &q
	states[SteamTurbineOutlet] = out

	diags := checkValidity(provider, p, states)

	require.Len(t, diags, 1)
	assert.Equal(t, DiagWetTurbineOutlet, diags[0].Kind)
	assert.InDelta(t, 0.85, diags[0].Value, 1e-12)

	// Dry saturated vapor is not wet.
	dry := 1.0
	out.Quality = &dry
	states[SteamTurbineOutlet] = out
	assert.Empty(t, checkValidity(provider, p, states))
}

func TestCheckValidityCollectsAllFindingsInOrder(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()
	p.TurbineInletLimit = 1600

	q := 0.80
	states := nominalStates()
	states[CondenserOutlet] = State{Fluid: props.Water, Pressure: 500, Temperature: 306}
	out := states[SteamTurbineOutlet]
	out.Quality = &q
	states[SteamTurbineOutlet] = out

	diags := checkValidity(provider, p, states)

	require.Len(t, diags, 3)
	assert.Equal(t, DiagTurbineInletTemperatureHigh, diags[0].Kind)
	assert.Equal(t, DiagSubTriplePoint, diags[1].Kind)
	assert.Equal(t, DiagWetTurbineOutlet, diags[2].Kind)
}

func TestCheckValiditySkipsUnknownFluids(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()

	// States whose fluid the provider does not know have no critical or
	// triple point to compare against; they must be skipped, not crash.
	states := nominalStates()
	states[PumpOutlet] = State{Fluid: props.Fluid("brine"), Pressure: 1, Temperature: 1}

	assert.Empty(t, checkValidity(provider, p, states))
}
