// Package policy provides convergence policies that decide, from the
// current search direction, whether the descent solver should stop.
package policy

import (
	"github.com/descentlabs/descent/internal/optimize"
	"github.com/descentlabs/descent/internal/optimize/norms"
)

// Policy decides whether a search direction signals convergence.
type Policy interface {
	Converged(d []float64) bool
	Counts() optimize.EvalCounts
}

// Never defers all stopping to the iteration cap.
type Never struct{}

// Converged always returns false.
func (Never) Converged([]float64) bool {
	return false
}

// Counts returns zero counts.
func (Never) Counts() optimize.EvalCounts {
	return optimize.EvalCounts{}
}

// DefaultThreshold is the direction-norm threshold used when none is given.
const DefaultThreshold = 1e-6

// MinNorm signals convergence when the norm of the direction falls to or
// below a threshold.
type MinNorm struct {
	norm      norms.Norm
	threshold float64
}

// NewMinNorm creates a minimum-norm policy. A nil norm defaults to the
// Euclidean norm and a non-positive threshold to DefaultThreshold.
func NewMinNorm(n norms.Norm, threshold float64) *MinNorm {
	if n == nil {
		n = norms.Euclidean()
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &MinNorm{norm: n, threshold: threshold}
}

// Converged reports whether norm(d) <= threshold.
func (p *MinNorm) Converged(d []float64) bool {
	return p.norm.Norm(d) <= p.threshold
}

// Counts returns zero counts; the policy never evaluates the objective.
func (p *MinNorm) Counts() optimize.EvalCounts {
	return optimize.EvalCounts{}
}
