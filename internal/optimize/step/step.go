// Package step provides step-length strategies for the descent solver.
package step

import (
	"gonum.org/v1/gonum/floats"

	"github.com/descentlabs/descent/internal/optimize"
)

// ObjectiveFunc evaluates the objective at x.
type ObjectiveFunc func(x []float64) float64

// GradientFunc evaluates the gradient of the objective at x.
type GradientFunc func(x []float64) []float64

// Search computes a non-negative step length along a direction. Last
// returns the most recently computed step, or the type default before the
// first call; it exists for diagnostics, not correctness.
type Search interface {
	Step(x, d []float64) float64
	Last() float64
	Counts() optimize.EvalCounts
}

// Constant is a fixed step length. It ignores the point and direction and
// never evaluates the objective.
type Constant struct {
	eta float64
}

// NewConstant creates a constant step search with step eta > 0.
func NewConstant(eta float64) (*Constant, error) {
	if eta <= 0 {
		return nil, optimize.NewErrorf("step length must be positive, got %v", eta).
			WithComponent("step").WithOp("NewConstant")
	}
	return &Constant{eta: eta}, nil
}

// Step returns the fixed step length.
func (c *Constant) Step(_, _ []float64) float64 {
	return c.eta
}

// Last returns the fixed step length, also before any Step call.
func (c *Constant) Last() float64 {
	return c.eta
}

// Counts returns zero counts; the constant step never evaluates anything.
func (c *Constant) Counts() optimize.EvalCounts {
	return optimize.EvalCounts{}
}

// maxBacktracks bounds the shrink loop so a pathological objective cannot
// spin the search down to a denormal step.
const maxBacktracks = 64

// Backtracking is the Armijo backtracking line search: starting from eta0,
// the step is shrunk by rho until the sufficient-decrease condition
//
//	f(x + eta*d) <= f(x) + c1*eta*(g(x)·d)
//
// holds.
type Backtracking struct {
	fn   ObjectiveFunc
	grad GradientFunc

	eta0 float64
	c1   float64
	rho  float64

	last   float64
	counts optimize.EvalCounts
}

// NewBacktracking creates an Armijo backtracking step search. eta0 must be
// positive and the damping factor c1 and shrink factor rho must lie strictly
// in (0, 1).
func NewBacktracking(fn ObjectiveFunc, grad GradientFunc, eta0, c1, rho float64) (*Backtracking, error) {
	newErr := func(format string, args ...interface{}) *optimize.Error {
		return optimize.NewErrorf(format, args...).
			WithComponent("step").WithOp("NewBacktracking")
	}
	if fn == nil {
		return nil, newErr("objective callable must not be nil")
	}
	if grad == nil {
		return nil, newErr("gradient callable must not be nil")
	}
	if eta0 <= 0 {
		return nil, newErr("initial step must be positive, got %v", eta0)
	}
	if c1 <= 0 || c1 >= 1 {
		return nil, newErr("damping factor must be in (0,1), got %v", c1)
	}
	if rho <= 0 || rho >= 1 {
		return nil, newErr("shrink factor must be in (0,1), got %v", rho)
	}
	return &Backtracking{fn: fn, grad: grad, eta0: eta0, c1: c1, rho: rho}, nil
}

// Step runs the backtracking loop from x along d. One function and one
// gradient evaluation are charged up front, then one function evaluation per
// sufficient-decrease test.
func (b *Backtracking) Step(x, d []float64) float64 {
	eta := b.eta0

	fx := b.fn(x)
	g := b.grad(x)
	b.counts.CountFunc(1)
	b.counts.CountGrad(1)

	// Directional derivative along d.
	ip := floats.Dot(g, d)

	candidate := make([]float64, len(x))
	for i := 0; i < maxBacktracks; i++ {
		copy(candidate, x)
		floats.AddScaled(candidate, eta, d)

		b.counts.CountFunc(1)
		if b.fn(candidate) <= fx+b.c1*eta*ip {
			break
		}
		eta *= b.rho
	}

	b.last = eta
	return eta
}

// Last returns the most recently computed step, zero before the first call.
func (b *Backtracking) Last() float64 {
	return b.last
}

// Counts returns the evaluation counts accumulated so far.
func (b *Backtracking) Counts() optimize.EvalCounts {
	return b.counts
}
