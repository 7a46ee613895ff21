// File: internal/report/text_reporter.go
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/combicycle/ccgt/internal/cycle"
)

// TextReporter renders a human-readable plant summary for terminal use.
type TextReporter struct {
	writer io.WriteCloser
}

// NewTextReporter creates a reporter that owns the given writer.
func NewTextReporter(w io.WriteCloser) *TextReporter {
	return &TextReporter{writer: w}
}

// Write renders the envelope as aligned tables.
func (r *TextReporter) Write(env *Envelope) error {
	res := env.Result
	if res == nil {
		return fmt.Errorf("report envelope carries no result")
	}

	fmt.Fprintf(r.writer, "%s %s  run %s  %s\n\n", env.Tool, env.Version, env.RunID,
		env.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))

	tw := tabwriter.NewWriter(r.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATE\tFLUID\tP [bar]\tT [K]\th [kJ/kg]\ts [kJ/kg.K]\tx [-]\tex [kJ/kg]\tmdot [kg/s]")
	writeState := func(name string, st cycle.State) {
		quality := "-"
		if st.Quality != nil {
			quality = fmt.Sprintf("%.4f", *st.Quality)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.2f\t%.2f\t%.4f\t%s\t%.2f\t%.2f\n",
			name, st.Fluid, st.Pressure/1e5, st.Temperature,
			st.Enthalpy/1e3, st.Entropy/1e3, quality, st.Exergy/1e3, st.MassFlow)
	}
	for _, key := range cycle.StateKeys {
		writeState(string(key), res.States[key])
	}
	writeState("stack-exhaust", res.Exhaust)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(r.writer, "\nHRSG: mass flow ratio %.4f", res.Pinch.MassFlowRatio)
	if res.Pinch.RatioSolved {
		fmt.Fprint(r.writer, " (solved)")
	} else {
		fmt.Fprint(r.writer, " (fixed)")
	}
	fmt.Fprintf(r.writer, ", min approach %.2f K at duty fraction %.3f, duty %.2f MW\n\n",
		res.Pinch.MinApproach, res.Pinch.Location, res.Pinch.Duty/1e6)

	tw = tabwriter.NewWriter(r.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tWORK [MW]\tHEAT [MW]\tDESTRUCTION [MW]")
	for _, b := range res.Balances {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.3f\n",
			b.Component, b.Work/1e6, b.Heat/1e6, b.ExergyDestruction/1e6)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Summary
	fmt.Fprintf(r.writer, "\nNet power          %.2f MW\n", s.NetPower/1e6)
	fmt.Fprintf(r.writer, "Heat input         %.2f MW\n", s.HeatInput/1e6)
	fmt.Fprintf(r.writer, "Thermal efficiency %.2f %%\n", s.ThermalEfficiency*100)
	fmt.Fprintf(r.writer, "Exergetic eff.     %.2f %% (ceiling %.2f %%)\n",
		s.ExergeticEfficiency*100, s.MaxEfficiency*100)
	fmt.Fprintf(r.writer, "Exergy destroyed   %.2f MW\n", s.TotalExergyDestroyed/1e6)
	fmt.Fprintf(r.writer, "Condenser loss     %.2f MW, exhaust loss %.2f MW\n",
		s.CondenserExergyLoss/1e6, s.ExhaustExergyLoss/1e6)

	if len(res.Diagnostics) == 0 {
		fmt.Fprintln(r.writer, "\nDiagnostics: none")
	} else {
		fmt.Fprintln(r.writer, "\nDiagnostics:")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(r.writer, "  [%s] %s\n", d.Kind, d.Message)
		}
	}
	return nil
}

// Close releases the underlying writer.
func (r *TextReporter) Close() error {
	return r.writer.Close()
}
