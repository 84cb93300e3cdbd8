// Package direction provides search-direction strategies for the descent
// solver.
package direction

import (
	"github.com/descentlabs/descent/internal/optimize"
)

// GradientFunc evaluates the gradient of the objective at x.
type GradientFunc func(x []float64) []float64

// Search produces a search direction from the current point. The direction
// has the dimensionality of the point and is recomputed every iteration; it
// is not required to be a descent direction.
//
// Implementations own their evaluation counters and update them at each
// evaluation site.
type Search interface {
	Direction(x []float64) []float64
	Counts() optimize.EvalCounts
}

// Steepest is the steepest-descent strategy: the negated gradient of the
// objective at the current point.
type Steepest struct {
	grad   GradientFunc
	counts optimize.EvalCounts
}

// NewSteepest creates a steepest-descent direction search over the supplied
// gradient. The gradient callable remains owned by the caller.
func NewSteepest(grad GradientFunc) (*Steepest, error) {
	if grad == nil {
		return nil, optimize.NewError("gradient callable must not be nil").
			WithComponent("direction").WithOp("NewSteepest")
	}
	return &Steepest{grad: grad}, nil
}

// Direction evaluates the gradient at x, charging one gradient evaluation,
// and returns it negated element-wise.
func (s *Steepest) Direction(x []float64) []float64 {
	g := s.grad(x)
	s.counts.CountGrad(1)

	d := make([]float64, len(g))
	for i, v := range g {
		d[i] = -v
	}
	return d
}

// Counts returns the evaluation counts accumulated so far.
func (s *Steepest) Counts() optimize.EvalCounts {
	return s.counts
}
