// File: internal/cycle/brayton.go
package cycle

import (
	"fmt"

	"github.com/combicycle/ccgt/internal/props"
)

// braytonStates holds the four resolved gas-cycle points in flow order.
type braytonStates struct {
	compressorInlet  State
	compressorOutlet State
	combustorOutlet  State
	gasTurbineOutlet State
}

// resolveBrayton computes the air-standard gas cycle: isentropic-efficiency
// compression from ambient, isobaric heat addition up to the turbine inlet
// temperature, and isentropic-efficiency expansion back to ambient pressure.
func resolveBrayton(provider props.Provider, p Params) (braytonStates, error) {
	o := oracle{provider: provider, fluid: p.GasFluid, stage: "brayton"}

	if p.PressureRatio <= 1 {
		return braytonStates{}, &InvalidDesignError{
			Stage:  "brayton",
			Reason: fmt.Sprintf("compressor pressure ratio must exceed 1, got %g", p.PressureRatio),
		}
	}

	pIn := p.AmbientPressure
	pHigh := pIn * p.PressureRatio

	// Compressor inlet: ambient intake.
	h5, err := o.eval(props.Enthalpy, props.Pressure, pIn, props.Temperature, p.AmbientTemperature)
	if err != nil {
		return braytonStates{}, err
	}
	s5, err := o.eval(props.Entropy, props.Pressure, pIn, props.Temperature, p.AmbientTemperature)
	if err != nil {
		return braytonStates{}, err
	}
	inlet := State{
		Fluid:       p.GasFluid,
		Pressure:    pIn,
		Temperature: p.AmbientTemperature,
		Enthalpy:    h5,
		Entropy:     s5,
		MassFlow:    p.GasMassFlow,
	}

	// Compressor outlet: isentropic rise divided by the isentropic efficiency.
	h6s, err := o.eval(props.Enthalpy, props.Pressure, pHigh, props.Entropy, s5)
	if err != nil {
		return braytonStates{}, err
	}
	h6 := h5 + (h6s-h5)/p.CompressorEfficiency
	compOut, err := o.stateAtPH(pHigh, h6, p.GasMassFlow)
	if err != nil {
		return braytonStates{}, err
	}

	// Combustor outlet: isobaric heat addition pinned by the turbine inlet
	// temperature. No combustion chemistry; the enthalpy rise is external heat.
	if p.TurbineInletTemperature <= compOut.Temperature {
		return braytonStates{}, &InvalidDesignError{
			Stage: "brayton",
			Reason: fmt.Sprintf("turbine inlet temperature %.2f K does not exceed compressor outlet %.2f K: no net heat addition possible",
				p.TurbineInletTemperature, compOut.Temperature),
		}
	}
	h7, err := o.eval(props.Enthalpy, props.Pressure, pHigh, props.Temperature, p.TurbineInletTemperature)
	if err != nil {
		return braytonStates{}, err
	}
	s7, err := o.eval(props.Entropy, props.Pressure, pHigh, props.Temperature, p.TurbineInletTemperature)
	if err != nil {
		return braytonStates{}, err
	}
	combOut := State{
		Fluid:       p.GasFluid,
		Pressure:    pHigh,
		Temperature: p.TurbineInletTemperature,
		Enthalpy:    h7,
		Entropy:     s7,
		MassFlow:    p.GasMassFlow,
	}

	// Gas turbine outlet: expansion back to ambient pressure, isentropic drop
	// scaled by the turbine efficiency.
	h8s, err := o.eval(props.Enthalpy, props.Pressure, pIn, props.Entropy, s7)
	if err != nil {
		return braytonStates{}, err
	}
	h8 := h7 - p.GasTurbineEfficiency*(h7-h8s)
	turbOut, err := o.stateAtPH(pIn, h8, p.GasMassFlow)
	if err != nil {
		return braytonStates{}, err
	}

	return braytonStates{
		compressorInlet:  inlet,
		compressorOutlet: compOut,
		combustorOutlet:  combOut,
		gasTurbineOutlet: turbOut,
	}, nil
}
