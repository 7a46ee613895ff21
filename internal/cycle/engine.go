// File: internal/cycle/engine.go
package cycle

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/combicycle/ccgt/internal/props"
)

// Result is the complete output of one solve: the eight named states, the
// gas-side HRSG exhaust, per-component balances in canonical order, the pinch
// solution, the plant summary, and the ordered advisory diagnostics (an empty
// slice means a fully nominal design).
type Result struct {
	States      map[StateKey]State `json:"states"`
	Exhaust     State              `json:"exhaust"`
	Balances    []ComponentBalance `json:"balances"`
	Pinch       PinchResult        `json:"pinch"`
	Summary     PlantSummary       `json:"summary"`
	Diagnostics []Diagnostic       `json:"diagnostics"`
}

// Engine solves CCGT designs against a property provider. It holds no
// per-solve state; Solve is a pure function of its parameters and safe for
// concurrent use.
type Engine struct {
	provider props.Provider
	logger   *zap.Logger
}

// New creates an Engine. A nil logger disables logging.
func New(provider props.Provider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		provider: provider,
		logger:   logger.With(zap.String("component", "cycle_engine")),
	}
}

// Solve resolves both cycles, couples them through the HRSG pinch constraint,
// and returns the full energy and exergy accounting. The two cycles have no
// data dependency on each other, so their state chains are resolved
// concurrently before the coupler synchronizes on both.
func (e *Engine) Solve(ctx context.Context, p Params) (*Result, error) {
	var (
		gas   braytonStates
		steam rankineStates
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gas, err = resolveBrayton(e.provider, p)
		return err
	})
	g.Go(func() error {
		var err error
		steam, err = resolveRankine(e.provider, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCoupler(e.provider, p, gas, steam)
	pinch, err := c.solve(p)
	if err != nil {
		return nil, err
	}
	exhaust, err := c.exhaust(pinch.MassFlowRatio, p.GasMassFlow)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("hrsg coupled",
		zap.Float64("mass_flow_ratio", pinch.MassFlowRatio),
		zap.Float64("min_approach_k", pinch.MinApproach),
		zap.Float64("pinch_location", pinch.Location),
		zap.Float64("duty_w", pinch.Duty))

	env, err := newRefEnvironment(e.provider, p, p.GasFluid, p.SteamFluid)
	if err != nil {
		return nil, err
	}

	steamFlow := pinch.MassFlowRatio * p.GasMassFlow
	withFlow := func(st State, flow float64) State {
		st.MassFlow = flow
		return env.withExergy(st)
	}

	states := map[StateKey]State{
		CompressorInlet:    env.withExergy(gas.compressorInlet),
		CompressorOutlet:   env.withExergy(gas.compressorOutlet),
		CombustorOutlet:    env.withExergy(gas.combustorOutlet),
		GasTurbineOutlet:   env.withExergy(gas.gasTurbineOutlet),
		CondenserOutlet:    withFlow(steam.condenserOutlet, steamFlow),
		PumpOutlet:         withFlow(steam.pumpOutlet, steamFlow),
		HRSGOutlet:         withFlow(steam.hrsgOutlet, steamFlow),
		SteamTurbineOutlet: withFlow(steam.steamTurbineOutlet, steamFlow),
	}
	exhaust = env.withExergy(exhaust)

	balances, summary, err := account(e.provider, p, states, exhaust, pinch)
	if err != nil {
		return nil, err
	}

	diags := checkValidity(e.provider, p, states)

	e.logger.Info("solve complete",
		zap.Float64("net_power_w", summary.NetPower),
		zap.Float64("thermal_efficiency", summary.ThermalEfficiency),
		zap.Float64("exergetic_efficiency", summary.ExergeticEfficiency),
		zap.Int("diagnostics", len(diags)))

	return &Result{
		States:      states,
		Exhaust:     exhaust,
		Balances:    balances,
		Pinch:       pinch,
		Summary:     summary,
		Diagnostics: diags,
	}, nil
}
