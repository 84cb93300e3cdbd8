package optimize

// EvalCounts tracks how many objective evaluations a solver component has
// performed. Every strategy owns its own counts; a result aggregates the
// counts of all components that contributed to producing it.
//
// Counts are monotonically non-decreasing over a single solver run and are
// never reset mid-run.
type EvalCounts struct {
	// FuncEvals is the number of objective function evaluations.
	FuncEvals int
	// GradEvals is the number of gradient evaluations.
	GradEvals int
	// HessEvals is the number of Hessian evaluations.
	HessEvals int
}

// CountFunc records n additional function evaluations.
func (c *EvalCounts) CountFunc(n int) {
	c.FuncEvals += n
}

// CountGrad records n additional gradient evaluations.
func (c *EvalCounts) CountGrad(n int) {
	c.GradEvals += n
}

// CountHess records n additional Hessian evaluations.
func (c *EvalCounts) CountHess(n int) {
	c.HessEvals += n
}

// Add returns the component-wise sum of c and other.
func (c EvalCounts) Add(other EvalCounts) EvalCounts {
	return EvalCounts{
		FuncEvals: c.FuncEvals + other.FuncEvals,
		GradEvals: c.GradEvals + other.GradEvals,
		HessEvals: c.HessEvals + other.HessEvals,
	}
}
