// -- cmd/solve.go --
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/combicycle/ccgt/internal/config"
	"github.com/combicycle/ccgt/internal/cycle"
	"github.com/combicycle/ccgt/internal/observability"
	"github.com/combicycle/ccgt/internal/props"
	"github.com/combicycle/ccgt/internal/render"
	"github.com/combicycle/ccgt/internal/report"
)

// newSolveCmd creates and configures the `solve` command.
func newSolveCmd(v *viper.Viper) *cobra.Command {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Resolves the configured plant design and writes the balance report",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line flags correctly
			// override values from the config file and environment.
			bindings := map[string]string{
				"plant.gas.pressure_ratio":            "pressure-ratio",
				"plant.gas.turbine_inlet_temperature": "turbine-inlet",
				"plant.gas.mass_flow":                 "gas-mass-flow",
				"plant.steam.boiler_pressure":         "boiler-pressure",
				"plant.steam.superheat_temperature":   "superheat",
				"plant.hrsg.pinch_delta_t":            "pinch",
				"plant.hrsg.solve_mass_flow_ratio":    "solve-ratio",
				"plant.hrsg.mass_flow_ratio":          "mass-flow-ratio",
				"output.report":                       "output",
				"output.format":                       "format",
				"output.plots":                        "plots",
				"output.plot_dir":                     "plot-dir",
			}
			for key, flag := range bindings {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-resolve the config now that flags are bound, so overrides
			// land with the right precedence and are re-validated.
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}
			params := cfg.Params()

			logger.Info("Solving plant design",
				zap.Float64("pressure_ratio", params.PressureRatio),
				zap.Float64("turbine_inlet_temperature", params.TurbineInletTemperature),
				zap.Float64("boiler_pressure", params.BoilerPressure),
				zap.Float64("pinch_delta_t", params.PinchDeltaT),
				zap.Bool("solve_mass_flow_ratio", params.SolveMassFlowRatio),
			)

			provider := props.NewStandard()
			engine := cycle.New(provider, logger)

			result, err := engine.Solve(ctx, params)
			if err != nil {
				return describeSolveError(err)
			}

			for _, d := range result.Diagnostics {
				logger.Warn("Design diagnostic",
					zap.String("kind", string(d.Kind)),
					zap.String("state", string(d.State)),
					zap.String("detail", d.Message),
				)
			}

			reporter, err := report.New(cfg.Output.Format, cfg.Output.Report)
			if err != nil {
				return err
			}
			env := report.NewEnvelope(Version, params, result)
			if err := reporter.Write(env); err != nil {
				reporter.Close()
				return err
			}
			if err := reporter.Close(); err != nil {
				return err
			}

			if cfg.Output.Plots {
				paths, err := render.New(provider, cfg.Output.PlotDir, logger).All(params, result)
				if err != nil {
					return fmt.Errorf("failed to render diagrams: %w", err)
				}
				logger.Info("Rendered diagrams", zap.Strings("paths", paths))
			}

			logger.Info("Solve complete",
				zap.String("run_id", env.RunID),
				zap.Float64("net_power_mw", result.Summary.NetPower/1e6),
				zap.Float64("thermal_efficiency", result.Summary.ThermalEfficiency),
				zap.Float64("mass_flow_ratio", result.Pinch.MassFlowRatio),
			)
			return nil
		},
	}

	flags := solveCmd.Flags()
	flags.Float64("pressure-ratio", 0, "compressor pressure ratio override")
	flags.Float64("turbine-inlet", 0, "gas turbine inlet temperature override [K]")
	flags.Float64("gas-mass-flow", 0, "gas cycle mass flow override [kg/s]")
	flags.Float64("boiler-pressure", 0, "steam boiler pressure override [Pa]")
	flags.Float64("superheat", 0, "steam superheat temperature override [K]")
	flags.Float64("pinch", 0, "HRSG pinch temperature difference override [K]")
	flags.Bool("solve-ratio", true, "solve the HRSG mass flow ratio for the pinch target")
	flags.Float64("mass-flow-ratio", 0, "fixed steam/gas mass flow ratio (with --solve-ratio=false)")
	flags.StringP("output", "o", "", "report destination (\"-\" for stdout)")
	flags.StringP("format", "f", "", "report format: json or pretty")
	flags.Bool("plots", false, "render the diagram set")
	flags.String("plot-dir", "", "directory for rendered diagrams")

	return solveCmd
}

// describeSolveError unwraps the solver's typed failures into actionable
// messages; anything unrecognized passes through unchanged.
func describeSolveError(err error) error {
	var invalid *cycle.InvalidDesignError
	if errors.As(err, &invalid) {
		return fmt.Errorf("the design is not physically resolvable (%s stage): %w", invalid.Stage, err)
	}
	var infeasible *cycle.InfeasibleDesignError
	if errors.As(err, &infeasible) {
		return fmt.Errorf(
			"no steam mass flow satisfies the pinch constraint: required margin %.2f K, best achievable %.2f K: %w",
			infeasible.RequiredMargin, infeasible.BestApproach, err)
	}
	var convergence *cycle.ConvergenceError
	if errors.As(err, &convergence) {
		return fmt.Errorf("the pinch search did not converge after %d iterations: %w", convergence.Iterations, err)
	}
	var violation *cycle.BalanceViolationError
	if errors.As(err, &violation) {
		return fmt.Errorf("energy/exergy accounting failed to close: %w", err)
	}
	return err
}
