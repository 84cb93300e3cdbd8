package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalCountsIncrement(t *testing.T) {
	var c EvalCounts

	c.CountFunc(1)
	c.CountFunc(2)
	c.CountGrad(1)
	c.CountHess(4)

	assert.Equal(t, 3, c.FuncEvals)
	assert.Equal(t, 1, c.GradEvals)
	assert.Equal(t, 4, c.HessEvals)
}

func TestEvalCountsAdd(t *testing.T) {
	a := EvalCounts{FuncEvals: 1, GradEvals: 2, HessEvals: 3}
	b := EvalCounts{FuncEvals: 10, GradEvals: 20, HessEvals: 30}

	sum := a.Add(b)
	assert.Equal(t, EvalCounts{FuncEvals: 11, GradEvals: 22, HessEvals: 33}, sum)

	// Add must not mutate its operands.
	assert.Equal(t, 1, a.FuncEvals)
	assert.Equal(t, 10, b.FuncEvals)
}
