// Package optimize defines the shared contracts of the descent framework:
// objective evaluation, evaluation counting, and solver results.
package optimize

import (
	"gonum.org/v1/gonum/mat"
)

// Termination messages reported by solvers. The message on a result is
// always exactly one of these.
const (
	// MsgConvergedByPolicy is reported when the convergence policy signals
	// stop on the current search direction.
	MsgConvergedByPolicy = "converged by direction policy"
	// MsgIterationLimit is reported when the iteration cap is reached before
	// the policy signals convergence.
	MsgIterationLimit = "iteration limit reached"
	// MsgWithinTolerance is reported by the golden-section search, which
	// always terminates by interval width.
	MsgWithinTolerance = "Converged within tolerance"
)

// Objective provides objective function, gradient and Hessian evaluation at
// a point. It is supplied by the caller and is the only boundary between the
// optimization core and concrete problem definitions.
//
// Grad and Hess may return nil when the corresponding derivative is not
// available; solvers propagate the absence into the result.
type Objective interface {
	Func(x []float64) float64
	Grad(x []float64) []float64
	Hess(x []float64) *mat.Dense
}

// Result is the outcome of a vector-valued solver run. It is constructed
// once at the end of the run and owns independent copies of all contained
// vectors and matrices; it never aliases solver-internal state.
type Result struct {
	// X is the returned solution.
	X []float64
	// Converged reports whether the convergence policy signalled stop.
	Converged bool
	// Message is the termination message, one of the Msg constants.
	Message string
	// Iterations is the number of completed iterations.
	Iterations int
	// F is the objective value at X.
	F float64
	// Gradient is the gradient at X, nil when not computed.
	Gradient []float64
	// Hessian is the Hessian at X, nil when not computed.
	Hessian *mat.Dense
	// Counts aggregates the evaluation counts of every component that
	// contributed to the run.
	Counts EvalCounts
}

// ScalarResult is the outcome of a one-dimensional solver run. Deriv and
// SecondDeriv are NaN when the derivative was not computed.
type ScalarResult struct {
	X           float64
	Converged   bool
	Message     string
	Iterations  int
	F           float64
	Deriv       float64
	SecondDeriv float64
	Counts      EvalCounts
}
