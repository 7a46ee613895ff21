// File: internal/cycle/params.go
package cycle

import "github.com/combicycle/ccgt/internal/props"

// Params is the full set of design inputs for one solve. It is passed by
// value and never mutated by the engine; every solve is a fresh computation.
type Params struct {
	// Gas (Brayton) side.
	GasFluid                props.Fluid `json:"gasFluid"`
	AmbientTemperature      float64     `json:"ambientTemperature"` // K
	AmbientPressure         float64     `json:"ambientPressure"`    // Pa
	PressureRatio           float64     `json:"pressureRatio"`
	CompressorEfficiency    float64     `json:"compressorEfficiency"`
	GasTurbineEfficiency    float64     `json:"gasTurbineEfficiency"`
	TurbineInletTemperature float64     `json:"turbineInletTemperature"` // K, combustor outlet
	GasMassFlow             float64     `json:"gasMassFlow"`             // kg/s

	// Steam (Rankine) side.
	SteamFluid             props.Fluid `json:"steamFluid"`
	BoilerPressure         float64     `json:"boilerPressure"`       // Pa
	CondenserPressure      float64     `json:"condenserPressure"`    // Pa
	SuperheatTemperature   float64     `json:"superheatTemperature"` // K, HRSG outlet
	PumpEfficiency         float64     `json:"pumpEfficiency"`
	SteamTurbineEfficiency float64     `json:"steamTurbineEfficiency"`

	// HRSG coupling.
	PinchDeltaT           float64 `json:"pinchDeltaT"` // K, minimum approach
	SolveMassFlowRatio    bool    `json:"solveMassFlowRatio"`
	MassFlowRatio         float64 `json:"massFlowRatio"`         // used when SolveMassFlowRatio is false
	StackTemperatureFloor float64 `json:"stackTemperatureFloor"` // K, gas-side outlet floor

	// Exergy reference environment.
	ReferenceTemperature float64 `json:"referenceTemperature"` // K
	ReferencePressure    float64 `json:"referencePressure"`    // Pa

	// Advisory limits.
	TurbineInletLimit float64 `json:"turbineInletLimit"` // K, material limit
}
