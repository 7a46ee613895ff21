// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combicycle/ccgt/internal/props"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "ccgt", cfg.Logger.ServiceName)
	assert.Equal(t, string(props.Air), cfg.Plant.Gas.Fluid)
	assert.Equal(t, 15.0, cfg.Plant.Gas.PressureRatio)
	assert.Equal(t, 1673.15, cfg.Plant.Gas.TurbineInletTemperature)
	assert.Equal(t, 100e5, cfg.Plant.Steam.BoilerPressure)
	assert.Equal(t, 15.0, cfg.Plant.HRSG.PinchDeltaT)
	assert.True(t, cfg.Plant.HRSG.SolveMassFlowRatio)
	assert.Equal(t, "pretty", cfg.Output.Format)

	// The defaults must pass their own validation.
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Gas Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		badRatio := *cfg
		badRatio.Plant.Gas.PressureRatio = 1.0
		err := badRatio.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pressure_ratio must be greater than 1")

		badEta := *cfg
		badEta.Plant.Gas.CompressorEfficiency = 1.2
		err = badEta.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "compressor_efficiency must be in (0, 1]")

		coldFiring := *cfg
		coldFiring.Plant.Gas.TurbineInletTemperature = 250
		err = coldFiring.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "turbine_inlet_temperature must exceed ambient_temperature")

		noFlow := *cfg
		noFlow.Plant.Gas.MassFlow = 0
		err = noFlow.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mass_flow must be positive")
	})

	t.Run("Steam Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		inverted := *cfg
		inverted.Plant.Steam.BoilerPressure = 1000
		inverted.Plant.Steam.CondenserPressure = 2000
		err := inverted.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "boiler_pressure must exceed condenser_pressure")

		badEta := *cfg
		badEta.Plant.Steam.PumpEfficiency = 0
		err = badEta.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pump_efficiency must be in (0, 1]")
	})

	t.Run("HRSG Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()

		badPinch := *cfg
		badPinch.Plant.HRSG.PinchDeltaT = -5
		err := badPinch.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pinch_delta_t must be a positive temperature difference")

		// Fixed-ratio mode requires a ratio to be given.
		fixedNoRatio := *cfg
		fixedNoRatio.Plant.HRSG.SolveMassFlowRatio = false
		fixedNoRatio.Plant.HRSG.MassFlowRatio = 0
		err = fixedNoRatio.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mass_flow_ratio must be positive")

		fixedWithRatio := fixedNoRatio
		fixedWithRatio.Plant.HRSG.MassFlowRatio = 0.12
		assert.NoError(t, fixedWithRatio.Validate())
	})

	t.Run("Output Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Output.Format = "xml"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "output.format")
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
plant:
  gas:
    pressure_ratio: 18.5
    turbine_inlet_temperature: 1700
  hrsg:
    pinch_delta_t: 10
output:
  format: json
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		err := v.ReadConfig(bytes.NewBuffer(yamlBytes))
		require.NoError(t, err)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 18.5, cfg.Plant.Gas.PressureRatio)
		assert.Equal(t, 1700.0, cfg.Plant.Gas.TurbineInletTemperature)
		assert.Equal(t, 10.0, cfg.Plant.HRSG.PinchDeltaT)
		assert.Equal(t, "json", cfg.Output.Format)
		// Check a default value survived the merge.
		assert.Equal(t, 0.88, cfg.Plant.Gas.CompressorEfficiency)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("plant.gas.pressure_ratio", 0.5) // Intentionally invalid

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "pressure_ratio must be greater than 1")
	})
}

// -- Struct and Mapping Tests --

func TestParamsMapping(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Plant.Gas.MassFlow = 500
	cfg.Plant.Steam.SuperheatTemperature = 800
	cfg.Plant.HRSG.SolveMassFlowRatio = false
	cfg.Plant.HRSG.MassFlowRatio = 0.11

	p := cfg.Params()

	assert.Equal(t, props.Air, p.GasFluid)
	assert.Equal(t, props.Water, p.SteamFluid)
	assert.Equal(t, 500.0, p.GasMassFlow)
	assert.Equal(t, 800.0, p.SuperheatTemperature)
	assert.False(t, p.SolveMassFlowRatio)
	assert.Equal(t, 0.11, p.MassFlowRatio)
	assert.Equal(t, cfg.Plant.Reference.Temperature, p.ReferenceTemperature)
}
