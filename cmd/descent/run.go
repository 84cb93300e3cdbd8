package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/descentlabs/descent/internal/optimize"
	"github.com/descentlabs/descent/internal/optimize/descent"
	"github.com/descentlabs/descent/internal/optimize/direction"
	"github.com/descentlabs/descent/internal/optimize/functions"
	"github.com/descentlabs/descent/internal/optimize/policy"
	"github.com/descentlabs/descent/internal/optimize/step"
)

var (
	objectiveName string
	x0            []float64
	maxIters      int
	accelerate    bool
	stepType      string
	eta           float64
	armijoC1      float64
	armijoRho     float64
	threshold     float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single descent optimization",
	Long:  `Runs one line-search descent over a named objective and prints the result as JSON.`,
	RunE:  runDescent,
}

func init() {
	runCmd.Flags().StringVar(&objectiveName, "objective", "sphere",
		"Objective: sphere, himmelblau, rosenbrock")
	runCmd.Flags().Float64SliceVar(&x0, "x0", []float64{1, 1}, "Initial point")
	runCmd.Flags().IntVar(&maxIters, "max-iters", 100, "Iteration cap")
	runCmd.Flags().BoolVar(&accelerate, "accelerate", false, "Enable Nesterov lookahead")
	runCmd.Flags().StringVar(&stepType, "step", "backtracking",
		"Step search: constant, backtracking")
	runCmd.Flags().Float64Var(&eta, "eta", 1.0, "Initial (or constant) step length")
	runCmd.Flags().Float64Var(&armijoC1, "c1", 1e-4, "Armijo damping factor")
	runCmd.Flags().Float64Var(&armijoRho, "rho", 0.5, "Backtracking shrink factor")
	runCmd.Flags().Float64Var(&threshold, "threshold", 1e-6,
		"Direction-norm convergence threshold")

	rootCmd.AddCommand(runCmd)
}

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

func runDescent(cmd *cobra.Command, args []string) error {
	obj, err := objectiveByName(objectiveName)
	if err != nil {
		return err
	}

	dir, err := direction.NewSteepest(obj.Grad)
	if err != nil {
		return err
	}

	var st step.Search
	switch stepType {
	case "constant":
		st, err = step.NewConstant(eta)
	case "backtracking":
		st, err = step.NewBacktracking(obj.Func, obj.Grad, eta, armijoC1, armijoRho)
	default:
		err = fmt.Errorf("unknown step search %q", stepType)
	}
	if err != nil {
		return err
	}

	solver, err := descent.New(descent.Config{
		Objective:     obj,
		Direction:     dir,
		Step:          st,
		Policy:        policy.NewMinNorm(nil, threshold),
		X0:            x0,
		MaxIterations: maxIters,
		Accelerate:    accelerate,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting descent", map[string]interface{}{
		"objective": objectiveName,
		"max_iters": maxIters,
		"step":      stepType,
	})

	res, err := solver.Solve(context.Background())
	if err != nil {
		return err
	}

	logger.Info("Descent finished", map[string]interface{}{
		"converged":  res.Converged,
		"iterations": res.Iterations,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"x":          res.X,
		"f":          res.F,
		"converged":  res.Converged,
		"message":    res.Message,
		"iterations": res.Iterations,
		"func_evals": res.Counts.FuncEvals,
		"grad_evals": res.Counts.GradEvals,
	})
}
