// Package norms provides the vector norms used by convergence policies.
package norms

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/descentlabs/descent/internal/optimize"
)

// Norm computes a scalar norm of a vector. Implementations are defined for
// any finite-length vector, including length zero (norm 0).
type Norm interface {
	Norm(v []float64) float64
}

// PNorm is the (Σ|x_i|^p)^(1/p) family of norms.
//
// p == 0 is the pseudo-norm counting non-zero entries, p == 1 the sum of
// absolute values, p == 2 the Euclidean norm. p == 2 is the default and is
// computed through a dedicated fast path rather than the generic p-th-root
// formula.
type PNorm struct {
	p int
}

// NewP creates a p-norm. The order must be non-negative.
func NewP(p int) (*PNorm, error) {
	if p < 0 {
		return nil, optimize.NewErrorf("norm order must be non-negative, got %d", p).
			WithComponent("norms").WithOp("NewP")
	}
	return &PNorm{p: p}, nil
}

// Euclidean returns the 2-norm.
func Euclidean() *PNorm {
	return &PNorm{p: 2}
}

// Order returns the order p of the norm.
func (n *PNorm) Order() int {
	return n.p
}

// Norm computes the p-norm of v.
func (n *PNorm) Norm(v []float64) float64 {
	switch n.p {
	case 0:
		nonzero := 0
		for _, x := range v {
			if x != 0 {
				nonzero++
			}
		}
		return float64(nonzero)
	case 1:
		sum := 0.0
		for _, x := range v {
			sum += math.Abs(x)
		}
		return sum
	case 2:
		return floats.Norm(v, 2)
	default:
		sum := 0.0
		p := float64(n.p)
		for _, x := range v {
			sum += math.Pow(math.Abs(x), p)
		}
		if sum == 0 {
			return 0
		}
		return math.Pow(sum, 1/p)
	}
}

// Max is the maximum-magnitude norm, max_i |x_i|.
type Max struct{}

// Norm computes the max norm of v.
func (Max) Norm(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
