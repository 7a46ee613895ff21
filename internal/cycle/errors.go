// File: internal/cycle/errors.go
package cycle

import "fmt"

// The engine's error taxonomy. All four are fatal: a solve either returns a
// complete Result (possibly with advisory Diagnostics) or one of these.

// InvalidDesignError reports design inputs that are thermodynamically
// impossible for a resolver, or a property evaluation the oracle rejected.
// It aborts the solve before later stages run.
type InvalidDesignError struct {
	Stage  string // "brayton", "rankine", "hrsg", "accounting"
	Reason string
	Err    error // underlying property error, if any
}

func (e *InvalidDesignError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid design (%s): %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid design (%s): %s", e.Stage, e.Reason)
}

func (e *InvalidDesignError) Unwrap() error { return e.Err }

// InfeasibleDesignError reports that the HRSG coupler cannot satisfy the pinch
// margin for any steam mass-flow ratio. BestApproach is the largest minimum
// temperature approach achievable, kept for diagnosis.
type InfeasibleDesignError struct {
	RequiredMargin float64 // K
	BestApproach   float64 // K
	Reason         string
}

func (e *InfeasibleDesignError) Error() string {
	return fmt.Sprintf("infeasible design: %s (required pinch margin %.2f K, best achievable approach %.2f K)",
		e.Reason, e.RequiredMargin, e.BestApproach)
}

// ConvergenceError reports that the pinch bisection exhausted its iteration
// bound. The last bracket is carried for diagnosis.
type ConvergenceError struct {
	Iterations int
	BracketLo  float64
	BracketHi  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("pinch solve did not converge after %d iterations (last bracket [%g, %g])",
		e.Iterations, e.BracketLo, e.BracketHi)
}

// BalanceViolationError reports a negative exergy destruction or a failed
// balance closure. This is an internal-consistency bug (a resolver or the
// property backend produced inconsistent states), never a user input problem,
// and it is surfaced rather than clamped.
type BalanceViolationError struct {
	Component Component // empty for a plant-level closure failure
	Magnitude float64   // signed destruction (W) or relative closure residual
	Reason    string
}

func (e *BalanceViolationError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("balance violation in %s: %s (%g)", e.Component, e.Reason, e.Magnitude)
	}
	return fmt.Sprintf("balance violation: %s (%g)", e.Reason, e.Magnitude)
}
