package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/descentlabs/descent/internal/optimize/golden"
)

var (
	goldenCoeffs []float64
	goldenLower  float64
	goldenUpper  float64
	goldenTol    float64
)

var goldenCmd = &cobra.Command{
	Use:   "golden",
	Short: "Run a golden-section search over a polynomial",
	Long: `Minimizes the polynomial sum(coeffs[i] * x^i) over [lower, upper]
using derivative-free golden-section search.`,
	RunE: runGolden,
}

func init() {
	goldenCmd.Flags().Float64SliceVar(&goldenCoeffs, "coeffs", nil,
		"Polynomial coefficients, constant term first (required)")
	goldenCmd.Flags().Float64Var(&goldenLower, "lower", 0, "Bracket lower bound")
	goldenCmd.Flags().Float64Var(&goldenUpper, "upper", 1, "Bracket upper bound")
	goldenCmd.Flags().Float64Var(&goldenTol, "tol", 0,
		"Interval tolerance (default sqrt of machine epsilon)")

	goldenCmd.MarkFlagRequired("coeffs")
	rootCmd.AddCommand(goldenCmd)
}

func runGolden(cmd *cobra.Command, args []string) error {
	if len(goldenCoeffs) == 0 {
		return fmt.Errorf("at least one coefficient is required")
	}

	f := func(x float64) float64 {
		sum := 0.0
		for i := len(goldenCoeffs) - 1; i >= 0; i-- {
			sum = sum*x + goldenCoeffs[i]
		}
		return sum
	}

	res, err := golden.Minimize(f, goldenLower, goldenUpper, goldenTol)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"x":          res.X,
		"f":          res.F,
		"converged":  res.Converged,
		"message":    res.Message,
		"iterations": res.Iterations,
		"func_evals": res.Counts.FuncEvals,
	})
}
