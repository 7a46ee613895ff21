// File: internal/cycle/balance.go
package cycle

import (
	"fmt"
	"math"

	"github.com/combicycle/ccgt/internal/props"
)

// Component names one physical plant component carrying a balance record.
type Component string

const (
	ComponentCompressor   Component = "compressor"
	ComponentCombustor    Component = "combustor"
	ComponentGasTurbine   Component = "gas-turbine"
	ComponentHRSG         Component = "hrsg"
	ComponentSteamTurbine Component = "steam-turbine"
	ComponentPump         Component = "pump"
	ComponentCondenser    Component = "condenser"
)

// ComponentBalance is the first- and second-law record of one component.
// Work, Heat and ExergyDestruction are in watts. Work is positive when shaft
// work is extracted from the working fluid, so compressors and pumps carry
// negative work. Heat is positive when it enters the component's working
// fluid. ExergyDestruction is non-negative for every valid solve; a negative
// value is an internal-consistency failure.
type ComponentBalance struct {
	Component         Component `json:"component"`
	Work              float64   `json:"work"`
	Heat              float64   `json:"heat"`
	ExergyDestruction float64   `json:"exergyDestruction"`
	Inlet             StateKey  `json:"inlet"`
	Outlet            StateKey  `json:"outlet"`
}

// PlantSummary aggregates the plant-level accounting. Power, heat and exergy
// terms are in watts. ThermalEfficiency is net work over heat input,
// ExergeticEfficiency is net work over exergy input, MaxEfficiency is exergy
// input over heat input, and ClosureResidual is the relative imbalance of the
// plant exergy ledger. CondenserExergyLoss leaves with the rejected condenser
// heat, ExhaustExergyLoss with the stack gas.
type PlantSummary struct {
	NetPower             float64 `json:"netPower"`
	HeatInput            float64 `json:"heatInput"`
	ThermalEfficiency    float64 `json:"thermalEfficiency"`
	ExergyInput          float64 `json:"exergyInput"`
	ExergeticEfficiency  float64 `json:"exergeticEfficiency"`
	MaxEfficiency        float64 `json:"maxEfficiency"`
	GasCycleEfficiency   float64 `json:"gasCycleEfficiency"`
	SteamCycleEfficiency float64 `json:"steamCycleEfficiency"`
	TotalExergyDestroyed float64 `json:"totalExergyDestroyed"`
	CondenserExergyLoss  float64 `json:"condenserExergyLoss"`
	ExhaustExergyLoss    float64 `json:"exhaustExergyLoss"`
	ClosureResidual      float64 `json:"closureResidual"`
}

// closureTolerance is the relative residual above which the exergy balance is
// declared broken rather than merely noisy.
const closureTolerance = 1e-6

// refEnvironment caches the dead-state enthalpy and entropy per fluid for one
// solve, so exergy of every state is measured against the same datum.
type refEnvironment struct {
	t0, p0  float64
	byFluid map[props.Fluid]struct{ h0, s0 float64 }
}

func newRefEnvironment(provider props.Provider, p Params, fluids ...props.Fluid) (*refEnvironment, error) {
	env := &refEnvironment{
		t0:      p.ReferenceTemperature,
		p0:      p.ReferencePressure,
		byFluid: make(map[props.Fluid]struct{ h0, s0 float64 }, len(fluids)),
	}
	for _, f := range fluids {
		if _, ok := env.byFluid[f]; ok {
			continue
		}
		o := oracle{provider: provider, fluid: f, stage: "accounting"}
		h0, err := o.eval(props.Enthalpy, props.Pressure, env.p0, props.Temperature, env.t0)
		if err != nil {
			return nil, err
		}
		s0, err := o.eval(props.Entropy, props.Pressure, env.p0, props.Temperature, env.t0)
		if err != nil {
			return nil, err
		}
		env.byFluid[f] = struct{ h0, s0 float64 }{h0, s0}
	}
	return env, nil
}

// exergy is the specific flow exergy (h - h0) - T0 (s - s0).
func (env *refEnvironment) exergy(st State) float64 {
	ref := env.byFluid[st.Fluid]
	return (st.Enthalpy - ref.h0) - env.t0*(st.Entropy-ref.s0)
}

// withExergy returns a copy of the state with its exergy filled in.
func (env *refEnvironment) withExergy(st State) State {
	st.Exergy = env.exergy(st)
	return st
}

// account computes the seven component balances and the plant summary.
// States must already carry exergy; exhaust is the gas-side HRSG outlet.
func account(provider props.Provider, p Params, st map[StateKey]State, exhaust State, pinch PinchResult) ([]ComponentBalance, PlantSummary, error) {
	mg := p.GasMassFlow
	ms := pinch.MassFlowRatio * mg

	s5 := st[CompressorInlet]
	s6 := st[CompressorOutlet]
	s7 := st[CombustorOutlet]
	s8 := st[GasTurbineOutlet]
	s1 := st[CondenserOutlet]
	s2 := st[PumpOutlet]
	s3 := st[HRSGOutlet]
	s4 := st[SteamTurbineOutlet]

	compWork := mg * (s6.Enthalpy - s5.Enthalpy) // input
	gasTurbWork := mg * (s7.Enthalpy - s8.Enthalpy)
	pumpWork := ms * (s2.Enthalpy - s1.Enthalpy) // input
	steamTurbWork := ms * (s3.Enthalpy - s4.Enthalpy)
	heatIn := mg * (s7.Enthalpy - s6.Enthalpy)
	condenserHeat := ms * (s4.Enthalpy - s1.Enthalpy) // rejected

	exergyIn := mg * (s7.Exergy - s6.Exergy)

	// Condenser heat leaves at the condensing temperature; its exergy content
	// is discounted by the Carnot factor at that temperature.
	tCond, err := (oracle{provider: provider, fluid: p.SteamFluid, stage: "accounting"}).
		eval(props.Temperature, props.Pressure, p.CondenserPressure, props.Quality, 0)
	if err != nil {
		return nil, PlantSummary{}, err
	}
	if p.ReferenceTemperature >= tCond {
		reason := fmt.Sprintf("reference temperature %.2f K is at or above the condensing temperature %.2f K, so the condenser cannot reject heat to the environment",
			p.ReferenceTemperature, tCond)
		return nil, PlantSummary{}, &InvalidDesignError{Stage: "accounting", Reason: reason}
	}
	condenserLoss := condenserHeat * (1 - p.ReferenceTemperature/tCond)

	balances := []ComponentBalance{
		{
			Component:         ComponentCompressor,
			Work:              -compWork,
			ExergyDestruction: compWork - mg*(s6.Exergy-s5.Exergy),
			Inlet:             CompressorInlet,
			Outlet:            CompressorOutlet,
		},
		{
			Component: ComponentCombustor,
			Heat:      heatIn,
			// The exergy delivered by heat addition is measured at the
			// working fluid itself (no flame model), so none is destroyed
			// within this component's boundary.
			ExergyDestruction: 0,
			Inlet:             CompressorOutlet,
			Outlet:            CombustorOutlet,
		},
		{
			Component:         ComponentGasTurbine,
			Work:              gasTurbWork,
			ExergyDestruction: mg*(s7.Exergy-s8.Exergy) - gasTurbWork,
			Inlet:             CombustorOutlet,
			Outlet:            GasTurbineOutlet,
		},
		{
			Component:         ComponentHRSG,
			Heat:              pinch.Duty,
			ExergyDestruction: mg*(s8.Exergy-exhaust.Exergy) - ms*(s3.Exergy-s2.Exergy),
			Inlet:             GasTurbineOutlet,
			Outlet:            HRSGOutlet,
		},
		{
			Component:         ComponentSteamTurbine,
			Work:              steamTurbWork,
			ExergyDestruction: ms*(s3.Exergy-s4.Exergy) - steamTurbWork,
			Inlet:             HRSGOutlet,
			Outlet:            SteamTurbineOutlet,
		},
		{
			Component:         ComponentPump,
			Work:              -pumpWork,
			ExergyDestruction: pumpWork - ms*(s2.Exergy-s1.Exergy),
			Inlet:             CondenserOutlet,
			Outlet:            PumpOutlet,
		},
		{
			Component:         ComponentCondenser,
			Heat:              -condenserHeat,
			ExergyDestruction: ms*(s4.Exergy-s1.Exergy) - condenserLoss,
			Inlet:             SteamTurbineOutlet,
			Outlet:            CondenserOutlet,
		},
	}

	// Second-law screen. Rounding noise within tolerance of zero is snapped;
	// anything genuinely negative is a bug in the states or the property
	// backend and must surface, not be clamped away.
	destructionTol := 1e-9 * math.Max(exergyIn, 1)
	totalDestroyed := 0.0
	for i := range balances {
		d := balances[i].ExergyDestruction
		if d < 0 {
			if d < -destructionTol {
				return nil, PlantSummary{}, &BalanceViolationError{
					Component: balances[i].Component,
					Magnitude: d,
					Reason:    "negative exergy destruction",
				}
			}
			balances[i].ExergyDestruction = 0
		}
		totalDestroyed += balances[i].ExergyDestruction
	}

	netPower := gasTurbWork + steamTurbWork - compWork - pumpWork
	exhaustLoss := mg * (exhaust.Exergy - s5.Exergy)

	summary := PlantSummary{
		NetPower:             netPower,
		HeatInput:            heatIn,
		ThermalEfficiency:    netPower / heatIn,
		ExergyInput:          exergyIn,
		ExergeticEfficiency:  netPower / exergyIn,
		MaxEfficiency:        exergyIn / heatIn,
		GasCycleEfficiency:   (gasTurbWork - compWork) / heatIn,
		SteamCycleEfficiency: (steamTurbWork - pumpWork) / pinch.Duty,
		TotalExergyDestroyed: totalDestroyed,
		CondenserExergyLoss:  condenserLoss,
		ExhaustExergyLoss:    exhaustLoss,
	}

	// Closure: everything the heat addition delivered must be found again as
	// net work, destruction, or losses to the surroundings.
	residual := math.Abs(exergyIn-(netPower+totalDestroyed+condenserLoss+exhaustLoss)) / exergyIn
	summary.ClosureResidual = residual
	if residual > closureTolerance {
		return nil, PlantSummary{}, &BalanceViolationError{
			Magnitude: residual,
			Reason:    "exergy balance failed to close",
		}
	}

	return balances, summary, nil
}
