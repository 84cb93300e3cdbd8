// Package golden implements derivative-free golden-section minimization of
// a scalar function over a bracketing interval.
package golden

import (
	"math"

	"github.com/descentlabs/descent/internal/optimize"
)

// w is the complement of the golden ratio fraction, 1.5 - sqrt(5)/2.
var w = 1.5 - math.Sqrt(5)/2

// machEps is the double-precision machine epsilon.
const machEps = 0x1p-52

// DefaultTol returns the default interval tolerance, sqrt(machine epsilon).
func DefaultTol() float64 {
	return math.Sqrt(machEps)
}

// Minimize searches [lbound, ubound] for a minimizer of f. The interval must
// bracket an interior minimum: after the four initial evaluations at the
// bounds and the two golden-section inner guesses, at least one inner point
// must improve on both outer points. A non-positive tol selects DefaultTol.
//
// The search charges 4 function evaluations up front and 2 per iteration;
// the objective value reported at the final midpoint is not charged.
func Minimize(f func(float64) float64, lbound, ubound, tol float64) (*optimize.ScalarResult, error) {
	newErr := func(format string, args ...interface{}) *optimize.Error {
		return optimize.NewErrorf(format, args...).
			WithComponent("golden").WithOp("Minimize")
	}
	if f == nil {
		return nil, newErr("objective must not be nil")
	}
	if !(lbound < ubound) {
		return nil, newErr("invalid bracket: lbound %v must be below ubound %v", lbound, ubound)
	}
	if tol <= 0 {
		tol = DefaultTol()
	}

	span := ubound - lbound
	lguess := lbound + w*span
	uguess := ubound - w*span

	flbound := f(lbound)
	fubound := f(ubound)
	flguess := f(lguess)
	fuguess := f(uguess)

	var counts optimize.EvalCounts
	counts.CountFunc(4)

	outer := math.Min(flbound, fubound)
	if !(flguess < outer || fuguess < outer) {
		return nil, newErr("bracket [%v, %v] does not contain an interior minimum", lbound, ubound)
	}

	nIter := 0
	for math.Abs(ubound-lbound) > tol*(math.Abs(lguess)+math.Abs(uguess)) {
		if flguess < fuguess {
			// Shrink from the right.
			ubound, fubound = uguess, fuguess
		} else {
			// Shrink from the left.
			lbound, flbound = lguess, flguess
		}

		span = ubound - lbound
		lguess = lbound + w*span
		uguess = ubound - w*span
		flguess = f(lguess)
		fuguess = f(uguess)
		counts.CountFunc(2)

		nIter++
	}

	// Two scaled additions rather than a subtract-then-halve, to control
	// rounding of the reported midpoint.
	mid := 0.5*lbound + 0.5*ubound

	return &optimize.ScalarResult{
		X:           mid,
		Converged:   true,
		Message:     optimize.MsgWithinTolerance,
		Iterations:  nIter,
		F:           f(mid),
		Deriv:       math.NaN(),
		SecondDeriv: math.NaN(),
		Counts:      counts,
	}, nil
}
