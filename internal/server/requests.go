package server

import (
	"fmt"

	"github.com/descentlabs/descent/internal/optimize"
	"github.com/descentlabs/descent/internal/optimize/descent"
	"github.com/descentlabs/descent/internal/optimize/direction"
	"github.com/descentlabs/descent/internal/optimize/functions"
	"github.com/descentlabs/descent/internal/optimize/norms"
	"github.com/descentlabs/descent/internal/optimize/policy"
	"github.com/descentlabs/descent/internal/optimize/step"
)

// OptimizeRequest describes one descent run. Zero-valued knobs fall back to
// the service's solver defaults.
type OptimizeRequest struct {
	// Objective is a registered objective name: sphere, himmelblau,
	// rosenbrock.
	Objective string    `json:"objective"`
	X0        []float64 `json:"x0"`

	MaxIterations int  `json:"max_iterations,omitempty"`
	Accelerate    bool `json:"accelerate,omitempty"`

	Step   *StepSpec   `json:"step,omitempty"`
	Policy *PolicySpec `json:"policy,omitempty"`
}

// StepSpec selects the step-search strategy.
type StepSpec struct {
	// Type is "constant" or "backtracking".
	Type string  `json:"type"`
	Eta  float64 `json:"eta,omitempty"`
	C1   float64 `json:"c1,omitempty"`
	Rho  float64 `json:"rho,omitempty"`
}

// PolicySpec selects the convergence policy.
type PolicySpec struct {
	// Type is "never" or "min_norm".
	Type      string  `json:"type"`
	Threshold float64 `json:"threshold,omitempty"`
	// Norm is "euclidean" (default) or "max".
	Norm string `json:"norm,omitempty"`
}

// GoldenRequest describes a synchronous golden-section search over the
// polynomial Σ coeffs[i]·x^i on [lower, upper].
type GoldenRequest struct {
	Coeffs []float64 `json:"coeffs"`
	Lower  float64   `json:"lower"`
	Upper  float64   `json:"upper"`
	Tol    float64   `json:"tol,omitempty"`
}

// objectiveByName resolves a registered objective.
func objectiveByName(name string) (optimize.Objective, error) {
	switch name {
	case "sphere":
		return functions.Sphere{}, nil
	case "himmelblau":
		return functions.Himmelblau{}, nil
	case "rosenbrock":
		return functions.NewRosenbrock(), nil
	default:
		return nil, fmt.Errorf("unknown objective %q", name)
	}
}

// buildSolver assembles fresh solver collaborators for one request; nothing
// is shared across runs because the strategies carry counters.
func (s *Server) buildSolver(req OptimizeRequest) (*descent.Solver, error) {
	obj, err := objectiveByName(req.Objective)
	if err != nil {
		return nil, err
	}
	if len(req.X0) == 0 {
		return nil, fmt.Errorf("x0 is required")
	}
	if req.Objective == "himmelblau" && len(req.X0) != 2 {
		return nil, fmt.Errorf("himmelblau requires a two-dimensional x0")
	}

	dir, err := direction.NewSteepest(obj.Grad)
	if err != nil {
		return nil, err
	}

	st, err := s.buildStep(req.Step, obj)
	if err != nil {
		return nil, err
	}

	pol, err := s.buildPolicy(req.Policy)
	if err != nil {
		return nil, err
	}

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = s.cfg.Solver.MaxIterations
	}

	return descent.New(descent.Config{
		Objective:     obj,
		Direction:     dir,
		Step:          st,
		Policy:        pol,
		X0:            req.X0,
		MaxIterations: maxIter,
		Accelerate:    req.Accelerate,
	})
}

func (s *Server) buildStep(spec *StepSpec, obj optimize.Objective) (step.Search, error) {
	if spec == nil {
		return step.NewConstant(s.cfg.Solver.StepSize)
	}

	switch spec.Type {
	case "", "constant":
		eta := spec.Eta
		if eta == 0 {
			eta = s.cfg.Solver.StepSize
		}
		return step.NewConstant(eta)
	case "backtracking":
		eta0, c1, rho := spec.Eta, spec.C1, spec.Rho
		if eta0 == 0 {
			eta0 = 1.0
		}
		if c1 == 0 {
			c1 = 1e-4
		}
		if rho == 0 {
			rho = 0.5
		}
		return step.NewBacktracking(obj.Func, obj.Grad, eta0, c1, rho)
	default:
		return nil, fmt.Errorf("unknown step type %q", spec.Type)
	}
}

func (s *Server) buildPolicy(spec *PolicySpec) (policy.Policy, error) {
	if spec == nil {
		return policy.NewMinNorm(nil, s.cfg.Solver.Threshold), nil
	}

	switch spec.Type {
	case "never":
		return policy.Never{}, nil
	case "", "min_norm":
		threshold := spec.Threshold
		if threshold == 0 {
			threshold = s.cfg.Solver.Threshold
		}
		var n norms.Norm
		switch spec.Norm {
		case "", "euclidean":
			n = norms.Euclidean()
		case "max":
			n = norms.Max{}
		default:
			return nil, fmt.Errorf("unknown norm %q", spec.Norm)
		}
		return policy.NewMinNorm(n, threshold), nil
	default:
		return nil, fmt.Errorf("unknown policy type %q", spec.Type)
	}
}

// polynomial evaluates Σ coeffs[i]·x^i by Horner's rule.
func polynomial(coeffs []float64) func(float64) float64 {
	return func(x float64) float64 {
		sum := 0.0
		for i := len(coeffs) - 1; i >= 0; i-- {
			sum = sum*x + coeffs[i]
		}
		return sum
	}
}
