// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/combicycle/ccgt/internal/cycle"
	"github.com/combicycle/ccgt/internal/props"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Plant  PlantConfig  `mapstructure:"plant" yaml:"plant"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// PlantConfig describes the full plant design passed to the solver.
type PlantConfig struct {
	Gas       GasConfig       `mapstructure:"gas" yaml:"gas"`
	Steam     SteamConfig     `mapstructure:"steam" yaml:"steam"`
	HRSG      HRSGConfig      `mapstructure:"hrsg" yaml:"hrsg"`
	Reference ReferenceConfig `mapstructure:"reference" yaml:"reference"`
}

// GasConfig holds the topping (gas turbine) cycle design parameters.
// Temperatures are kelvin, pressures pascal, mass flow kg/s.
type GasConfig struct {
	Fluid                   string  `mapstructure:"fluid" yaml:"fluid"`
	AmbientTemperature      float64 `mapstructure:"ambient_temperature" yaml:"ambient_temperature"`
	AmbientPressure         float64 `mapstructure:"ambient_pressure" yaml:"ambient_pressure"`
	PressureRatio           float64 `mapstructure:"pressure_ratio" yaml:"pressure_ratio"`
	CompressorEfficiency    float64 `mapstructure:"compressor_efficiency" yaml:"compressor_efficiency"`
	TurbineEfficiency       float64 `mapstructure:"turbine_efficiency" yaml:"turbine_efficiency"`
	TurbineInletTemperature float64 `mapstructure:"turbine_inlet_temperature" yaml:"turbine_inlet_temperature"`
	TurbineInletLimit       float64 `mapstructure:"turbine_inlet_limit" yaml:"turbine_inlet_limit"`
	MassFlow                float64 `mapstructure:"mass_flow" yaml:"mass_flow"`
}

// SteamConfig holds the bottoming (steam) cycle design parameters.
type SteamConfig struct {
	Fluid                string  `mapstructure:"fluid" yaml:"fluid"`
	BoilerPressure       float64 `mapstructure:"boiler_pressure" yaml:"boiler_pressure"`
	CondenserPressure    float64 `mapstructure:"condenser_pressure" yaml:"condenser_pressure"`
	SuperheatTemperature float64 `mapstructure:"superheat_temperature" yaml:"superheat_temperature"`
	PumpEfficiency       float64 `mapstructure:"pump_efficiency" yaml:"pump_efficiency"`
	TurbineEfficiency    float64 `mapstructure:"turbine_efficiency" yaml:"turbine_efficiency"`
}

// HRSGConfig tunes the heat recovery steam generator coupling.
type HRSGConfig struct {
	PinchDeltaT           float64 `mapstructure:"pinch_delta_t" yaml:"pinch_delta_t"`
	SolveMassFlowRatio    bool    `mapstructure:"solve_mass_flow_ratio" yaml:"solve_mass_flow_ratio"`
	MassFlowRatio         float64 `mapstructure:"mass_flow_ratio" yaml:"mass_flow_ratio"`
	StackTemperatureFloor float64 `mapstructure:"stack_temperature_floor" yaml:"stack_temperature_floor"`
}

// ReferenceConfig fixes the dead state used for exergy accounting.
type ReferenceConfig struct {
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	Pressure    float64 `mapstructure:"pressure" yaml:"pressure"`
}

// OutputConfig controls where and how solve results are written.
type OutputConfig struct {
	Report  string `mapstructure:"report" yaml:"report"`     // report file, "-" for stdout
	Format  string `mapstructure:"format" yaml:"format"`     // "json" or "pretty"
	Plots   bool   `mapstructure:"plots" yaml:"plots"`       // render diagram set
	PlotDir string `mapstructure:"plot_dir" yaml:"plot_dir"` // directory for rendered plots
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
// The plant defaults describe a single-pressure F-class combined cycle.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ccgt")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Gas cycle --
	v.SetDefault("plant.gas.fluid", string(props.Air))
	v.SetDefault("plant.gas.ambient_temperature", 288.15)
	v.SetDefault("plant.gas.ambient_pressure", 101_325.0)
	v.SetDefault("plant.gas.pressure_ratio", 15.0)
	v.SetDefault("plant.gas.compressor_efficiency", 0.88)
	v.SetDefault("plant.gas.turbine_efficiency", 0.88)
	v.SetDefault("plant.gas.turbine_inlet_temperature", 1673.15)
	v.SetDefault("plant.gas.turbine_inlet_limit", 1773.15)
	v.SetDefault("plant.gas.mass_flow", 1055.9)

	// -- Steam cycle --
	v.SetDefault("plant.steam.fluid", string(props.Water))
	v.SetDefault("plant.steam.boiler_pressure", 100e5)
	v.SetDefault("plant.steam.condenser_pressure", 0.05e5)
	v.SetDefault("plant.steam.superheat_temperature", 823.15)
	v.SetDefault("plant.steam.pump_efficiency", 0.85)
	v.SetDefault("plant.steam.turbine_efficiency", 0.90)

	// -- HRSG --
	v.SetDefault("plant.hrsg.pinch_delta_t", 15.0)
	v.SetDefault("plant.hrsg.solve_mass_flow_ratio", true)
	v.SetDefault("plant.hrsg.mass_flow_ratio", 0.0)
	v.SetDefault("plant.hrsg.stack_temperature_floor", 373.15)

	// -- Reference environment --
	v.SetDefault("plant.reference.temperature", 288.15)
	v.SetDefault("plant.reference.pressure", 101_325.0)

	// -- Output --
	v.SetDefault("output.report", "-")
	v.SetDefault("output.format", "pretty")
	v.SetDefault("output.plots", false)
	v.SetDefault("output.plot_dir", "plots")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Plant.Gas.Validate(); err != nil {
		return fmt.Errorf("plant.gas configuration invalid: %w", err)
	}
	if err := c.Plant.Steam.Validate(); err != nil {
		return fmt.Errorf("plant.steam configuration invalid: %w", err)
	}
	if err := c.Plant.HRSG.Validate(); err != nil {
		return fmt.Errorf("plant.hrsg configuration invalid: %w", err)
	}
	if c.Plant.Reference.Temperature <= 0 || c.Plant.Reference.Pressure <= 0 {
		return fmt.Errorf("plant.reference temperature and pressure must be positive")
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "pretty":
	default:
		return fmt.Errorf("output.format must be \"json\" or \"pretty\", got %q", c.Output.Format)
	}
	return nil
}

// Validate checks the gas cycle design parameters.
func (g *GasConfig) Validate() error {
	if g.AmbientTemperature <= 0 || g.AmbientPressure <= 0 {
		return fmt.Errorf("ambient_temperature and ambient_pressure must be positive")
	}
	if g.PressureRatio <= 1 {
		return fmt.Errorf("pressure_ratio must be greater than 1")
	}
	if err := validateEfficiency("compressor_efficiency", g.CompressorEfficiency); err != nil {
		return err
	}
	if err := validateEfficiency("turbine_efficiency", g.TurbineEfficiency); err != nil {
		return err
	}
	if g.TurbineInletTemperature <= g.AmbientTemperature {
		return fmt.Errorf("turbine_inlet_temperature must exceed ambient_temperature")
	}
	if g.MassFlow <= 0 {
		return fmt.Errorf("mass_flow must be positive")
	}
	return nil
}

// Validate checks the steam cycle design parameters.
func (s *SteamConfig) Validate() error {
	if s.BoilerPressure <= 0 || s.CondenserPressure <= 0 {
		return fmt.Errorf("boiler_pressure and condenser_pressure must be positive")
	}
	if s.BoilerPressure <= s.CondenserPressure {
		return fmt.Errorf("boiler_pressure must exceed condenser_pressure")
	}
	if s.SuperheatTemperature <= 0 {
		return fmt.Errorf("superheat_temperature must be positive")
	}
	if err := validateEfficiency("pump_efficiency", s.PumpEfficiency); err != nil {
		return err
	}
	return validateEfficiency("turbine_efficiency", s.TurbineEfficiency)
}

// Validate checks the HRSG coupling parameters.
func (h *HRSGConfig) Validate() error {
	if h.PinchDeltaT <= 0 {
		return fmt.Errorf("pinch_delta_t must be a positive temperature difference")
	}
	if !h.SolveMassFlowRatio && h.MassFlowRatio <= 0 {
		return fmt.Errorf("mass_flow_ratio must be positive when solve_mass_flow_ratio is false")
	}
	if h.StackTemperatureFloor < 0 {
		return fmt.Errorf("stack_temperature_floor must not be negative")
	}
	return nil
}

func validateEfficiency(name string, eta float64) error {
	if eta <= 0 || eta > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", name, eta)
	}
	return nil
}

// Params maps the plant configuration onto the solver's parameter struct.
func (c *Config) Params() cycle.Params {
	return cycle.Params{
		GasFluid:                props.Fluid(c.Plant.Gas.Fluid),
		AmbientTemperature:      c.Plant.Gas.AmbientTemperature,
		AmbientPressure:         c.Plant.Gas.AmbientPressure,
		PressureRatio:           c.Plant.Gas.PressureRatio,
		CompressorEfficiency:    c.Plant.Gas.CompressorEfficiency,
		GasTurbineEfficiency:    c.Plant.Gas.TurbineEfficiency,
		TurbineInletTemperature: c.Plant.Gas.TurbineInletTemperature,
		TurbineInletLimit:       c.Plant.Gas.TurbineInletLimit,
		GasMassFlow:             c.Plant.Gas.MassFlow,

		SteamFluid:             props.Fluid(c.Plant.Steam.Fluid),
		BoilerPressure:         c.Plant.Steam.BoilerPressure,
		CondenserPressure:      c.Plant.Steam.CondenserPressure,
		SuperheatTemperature:   c.Plant.Steam.SuperheatTemperature,
		PumpEfficiency:         c.Plant.Steam.PumpEfficiency,
		SteamTurbineEfficiency: c.Plant.Steam.TurbineEfficiency,

		PinchDeltaT:           c.Plant.HRSG.PinchDeltaT,
		SolveMassFlowRatio:    c.Plant.HRSG.SolveMassFlowRatio,
		MassFlowRatio:         c.Plant.HRSG.MassFlowRatio,
		StackTemperatureFloor: c.Plant.HRSG.StackTemperatureFloor,

		ReferenceTemperature: c.Plant.Reference.Temperature,
		ReferencePressure:    c.Plant.Reference.Pressure,
	}
}
