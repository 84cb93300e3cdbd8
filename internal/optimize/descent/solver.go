// Package descent implements the line-search descent solver: an iterative
// optimizer composing a direction search, a step search and a convergence
// policy over a caller-supplied objective.
package descent

import (
	"context"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/descentlabs/descent/internal/optimize"
	"github.com/descentlabs/descent/internal/optimize/direction"
	"github.com/descentlabs/descent/internal/optimize/policy"
	"github.com/descentlabs/descent/internal/optimize/step"
)

// TailTransform post-processes the updated point at the end of each
// iteration, e.g. a proximal or projection operator. It must return a vector
// of the same dimension.
type TailTransform func(x []float64) []float64

// Config assembles the collaborators of a solver run. Direction, Step and
// Policy are stateful and carry evaluation counters mutated in place, so two
// concurrent runs must not share instances.
type Config struct {
	// Objective under minimization.
	Objective optimize.Objective
	// Direction produces the search direction each iteration.
	Direction direction.Search
	// Step produces the step length each iteration.
	Step step.Search
	// Policy decides convergence from the direction.
	Policy policy.Policy

	// X0 is the initial point.
	X0 []float64
	// MaxIterations caps the iteration count.
	MaxIterations int
	// Accelerate enables Nesterov lookahead: the direction is evaluated at
	// an extrapolated point rather than the current iterate.
	Accelerate bool
	// Tail is applied to the updated point each iteration, identity when nil.
	Tail TailTransform
}

// Solver runs the descent loop for one configuration. A Solver is
// single-use per run in the sense that its collaborators accumulate counts;
// create fresh collaborators for independent runs.
type Solver struct {
	cfg Config
}

// New validates the configuration and creates a solver.
func New(cfg Config) (*Solver, error) {
	newErr := func(msg string) *optimize.Error {
		return optimize.NewError(msg).WithComponent("descent").WithOp("New")
	}
	if cfg.Objective == nil {
		return nil, newErr("objective must not be nil")
	}
	if cfg.Direction == nil {
		return nil, newErr("direction search must not be nil")
	}
	if cfg.Step == nil {
		return nil, newErr("step search must not be nil")
	}
	if cfg.Policy == nil {
		return nil, newErr("convergence policy must not be nil")
	}
	if len(cfg.X0) == 0 {
		return nil, newErr("initial point must not be empty")
	}
	if cfg.MaxIterations < 1 {
		return nil, newErr("maximum iteration count must be at least 1")
	}

	// Detach from the caller's slice.
	cfg.X0 = append([]float64(nil), cfg.X0...)
	return &Solver{cfg: cfg}, nil
}

// Solve runs the descent loop to completion and builds the result. The
// context is checked once per iteration; on cancellation Solve returns
// ctx.Err() and no result.
func (s *Solver) Solve(ctx context.Context) (*optimize.Result, error) {
	dim := len(s.cfg.X0)

	xc := append([]float64(nil), s.cfg.X0...)
	// Previous and lookahead points only matter under acceleration; both
	// start at x0.
	xp := append([]float64(nil), s.cfg.X0...)
	z := append([]float64(nil), s.cfg.X0...)

	converged := false
	nIter := 0

	for nIter < s.cfg.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		active := xc
		if s.cfg.Accelerate {
			active = z
		}

		d := s.cfg.Direction.Direction(active)
		if len(d) != dim {
			return nil, optimize.NewErrorf(
				"direction dimension %d does not match point dimension %d", len(d), dim).
				WithComponent("descent").WithOp("Solve")
		}

		if s.cfg.Policy.Converged(d) {
			converged = true
			break
		}

		eta := s.cfg.Step.Step(active, d)
		floats.AddScaled(xc, eta, d)

		if s.cfg.Tail != nil {
			xc = s.cfg.Tail(xc)
			if len(xc) != dim {
				return nil, optimize.NewErrorf(
					"tail transform changed dimension from %d to %d", dim, len(xc)).
					WithComponent("descent").WithOp("Solve")
			}
		}

		if s.cfg.Accelerate {
			// Nesterov lookahead with the (k+1)/(k+4) momentum schedule.
			m := float64(nIter+1) / float64(nIter+4)
			for i := range z {
				z[i] = xc[i] + m*(xc[i]-xp[i])
			}
			copy(xp, xc)
		}

		nIter++
	}

	return s.buildResult(xc, converged, nIter), nil
}

// buildResult re-evaluates the objective at the final point, charging one
// function, gradient and Hessian evaluation on top of the collaborators'
// aggregated counts.
func (s *Solver) buildResult(xc []float64, converged bool, nIter int) *optimize.Result {
	msg := optimize.MsgIterationLimit
	if converged {
		msg = optimize.MsgConvergedByPolicy
	}

	f := s.cfg.Objective.Func(xc)
	g := s.cfg.Objective.Grad(xc)
	h := s.cfg.Objective.Hess(xc)

	counts := optimize.EvalCounts{FuncEvals: 1, GradEvals: 1, HessEvals: 1}
	counts = counts.
		Add(s.cfg.Direction.Counts()).
		Add(s.cfg.Step.Counts()).
		Add(s.cfg.Policy.Counts())

	res := &optimize.Result{
		X:          append([]float64(nil), xc...),
		Converged:  converged,
		Message:    msg,
		Iterations: nIter,
		F:          f,
		Counts:     counts,
	}
	if g != nil {
		res.Gradient = append([]float64(nil), g...)
	}
	if h != nil {
		res.Hessian = mat.DenseCopyOf(h)
	}
	return res
}
