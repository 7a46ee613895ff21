// File: internal/cycle/diagnostics.go
package cycle

import (
	"fmt"

	"github.com/combicycle/ccgt/internal/props"
)

// DiagnosticKind tags one advisory check.
type DiagnosticKind string

const (
	DiagTurbineInletTemperatureHigh DiagnosticKind = "turbine-inlet-temperature-high"
	DiagSupercriticalCrossing       DiagnosticKind = "supercritical-crossing"
	DiagSubTriplePoint              DiagnosticKind = "sub-triple-point"
	DiagWetTurbineOutlet            DiagnosticKind = "wet-turbine-outlet"
)

// Diagnostic is a non-fatal advisory about an unsafe or physically degenerate
// state. Diagnostics never abort a solve; they ride along with the result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	State   StateKey       `json:"state"`
	Value   float64        `json:"value"`
	Message string         `json:"message"`
}

// nearCriticalFraction defines "temperature near or above critical" for the
// supercritical-crossing check.
const nearCriticalFraction = 0.95

// checkValidity scans the finished states and collects every applicable
// diagnostic. The scan is pure and never short-circuits: all findings are
// returned together, in the canonical state-key order, so results are
// deterministic across solves.
func checkValidity(provider props.Provider, p Params, states map[StateKey]State) []Diagnostic {
	diags := []Diagnostic{}

	// Gas-turbine inlet against the configured material limit.
	if tit := states[CombustorOutlet].Temperature; p.TurbineInletLimit > 0 && tit > p.TurbineInletLimit {
		diags = append(diags, Diagnostic{
			Kind:  DiagTurbineInletTemperatureHigh,
			State: CombustorOutlet,
			Value: tit,
			Message: fmt.Sprintf("gas turbine inlet at %.1f K exceeds the %.1f K material limit",
				tit, p.TurbineInletLimit),
		})
	}

	for _, key := range StateKeys {
		st := states[key]

		if crit, err := provider.CriticalPoint(st.Fluid); err == nil {
			if st.Pressure > crit.P && st.Temperature > nearCriticalFraction*crit.T {
				diags = append(diags, Diagnostic{
					Kind:  DiagSupercriticalCrossing,
					State: key,
					Value: st.Pressure,
					Message: fmt.Sprintf("%s at %.3g Pa exceeds the critical pressure %.3g Pa of %s near its critical temperature",
						key, st.Pressure, crit.P, st.Fluid),
				})
			}
		}

		if trip, err := provider.TriplePoint(st.Fluid); err == nil {
			if st.Pressure < trip.P || st.Temperature < trip.T {
				diags = append(diags, Diagnostic{
					Kind:  DiagSubTriplePoint,
					State: key,
					Value: st.Temperature,
					Message: fmt.Sprintf("%s falls below the triple point of %s (%.2f K, %.3g Pa): condensation or freezing risk",
						key, st.Fluid, trip.T, trip.P),
				})
			}
		}
	}

	// Wet expansion at the steam-turbine outlet erodes the last blade rows.
	if out := states[SteamTurbineOutlet]; out.Quality != nil && *out.Quality < 1 {
		diags = append(diags, Diagnostic{
			Kind:  DiagWetTurbineOutlet,
			State: SteamTurbineOutlet,
			Value: *out.Quality,
			Message: fmt.Sprintf("steam turbine exhausts wet steam at quality %.3f: blade erosion risk",
				*out.Quality),
		})
	}

	return diags
}
