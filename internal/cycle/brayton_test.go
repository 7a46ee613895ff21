// File: internal/cycle/brayton_test.go
package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combicycle/ccgt/internal/props"
)

func TestResolveBrayton(t *testing.T) {
	provider := props.NewStandard()
	p := exampleParams()

	gas, err := resolveBrayton(provider, p)
	require.NoError(t, err)

	in := gas.compressorInlet
	compOut := gas.compressorOutlet
	combOut := gas.combustorOutlet
	turbOut := gas.gasTurbineOutlet

	// Pressures follow the ratio and the two isobaric legs.
	assert.Equal(t, p.AmbientPressure, in.Pressure)
	assert.InEpsilon(t, p.AmbientPressure*p.PressureRatio, compOut.Pressure, 1e-12)
	assert.Equal(t, compOut.Pressure, combOut.Pressure)
	assert.Equal(t, p.AmbientPressure, turbOut.Pressure)

	// Temperatures rise through compression and firing, fall through the
	// turbine but stay above ambient.
	assert.Greater(t, compOut.Temperature, in.Temperature)
	assert.Equal(t, p.TurbineInletTemperature, combOut.Temperature)
	assert.Less(t, turbOut.Temperature, combOut.Temperature)
	assert.Greater(t, turbOut.Temperature, in.Temperature)

	// Irreversible compression and expansion both generate entropy.
	assert.Greater(t, compOut.Entropy, in.Entropy)
	assert.Greater(t, turbOut.Entropy, combOut.Entropy)

	// Air never reports a vapor quality.
	for _, st := range []State{in, compOut, combOut, turbOut} {
		assert.Nil(t, st.Quality)
		assert.Equal(t, p.GasMassFlow, st.MassFlow)
	}
}

func TestResolveBraytonEfficiencyScalesCompression(t *testing.T) {
	provider := props.NewStandard()

	ideal := exampleParams()
	ideal.CompressorEfficiency = 1.0
	lossy := exampleParams()
	lossy.CompressorEfficiency = 0.80

	gasIdeal, err := resolveBrayton(provider, ideal)
	require.NoError(t, err)
	gasLossy, err := resolveBrayton(provider, lossy)
	require.NoError(t, err)

	// A worse compressor needs more work for the same pressure ratio.
	assert.Greater(t, gasLossy.compressorOutlet.Enthalpy, gasIdeal.compressorOutlet.Enthalpy)
	// And the ideal machine is isentropic.
	assert.InDelta(t, gasIdeal.compressorInlet.Entropy, gasIdeal.compressorOutlet.Entropy, 1e-9)
}

func TestResolveBraytonRejectsImpossibleDesigns(t *testing.T) {
	provider := props.NewStandard()

	t.Run("firing below compressor outlet", func(t *testing.T) {
		p := exampleParams()
		p.TurbineInletTemperature = 500

		_, err := resolveBrayton(provider, p)
		var invalid *InvalidDesignError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "brayton", invalid.Stage)
	})

	t.Run("pressure ratio at unity", func(t *testing.T) {
		p := exampleParams()
		p.PressureRatio = 1

		_, err := resolveBrayton(provider, p)
		var invalid *InvalidDesignError
		require.ErrorAs(t, err, &invalid)
	})
}
