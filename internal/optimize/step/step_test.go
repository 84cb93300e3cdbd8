package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func sphereGrad(x []float64) []float64 {
	g := make([]float64, len(x))
	for i, v := range x {
		g[i] = 2 * v
	}
	return g
}

func TestNewConstantValidation(t *testing.T) {
	for _, eta := range []float64{0, -1} {
		_, err := NewConstant(eta)
		assert.Error(t, err, "eta=%v", eta)
	}
}

func TestConstantStep(t *testing.T) {
	c, err := NewConstant(0.25)
	require.NoError(t, err)

	// Last is defined even before the first call.
	assert.Equal(t, 0.25, c.Last())

	assert.Equal(t, 0.25, c.Step([]float64{1, 2}, []float64{-1, -1}))
	assert.Equal(t, 0.25, c.Step(nil, nil))
	assert.Equal(t, 0.25, c.Last())

	counts := c.Counts()
	assert.Zero(t, counts.FuncEvals)
	assert.Zero(t, counts.GradEvals)
}

func TestNewBacktrackingValidation(t *testing.T) {
	tests := []struct {
		name          string
		eta0, c1, rho float64
	}{
		{name: "zero eta0", eta0: 0, c1: 0.5, rho: 0.5},
		{name: "negative eta0", eta0: -1, c1: 0.5, rho: 0.5},
		{name: "c1 at zero", eta0: 1, c1: 0, rho: 0.5},
		{name: "c1 at one", eta0: 1, c1: 1, rho: 0.5},
		{name: "rho at zero", eta0: 1, c1: 0.5, rho: 0},
		{name: "rho at one", eta0: 1, c1: 0.5, rho: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBacktracking(sphere, sphereGrad, tt.eta0, tt.c1, tt.rho)
			assert.Error(t, err)
		})
	}

	_, err := NewBacktracking(nil, sphereGrad, 1, 0.5, 0.5)
	assert.Error(t, err)
	_, err = NewBacktracking(sphere, nil, 1, 0.5, 0.5)
	assert.Error(t, err)
}

// On f(x)=x² from x=3 along d=-6 with eta0=1, rho=0.5: the full step lands
// at -3 with no decrease, one shrink lands at 0 and satisfies the Armijo
// condition, so the accepted step is 0.5.
func TestBacktrackingShrinksUntilSufficientDecrease(t *testing.T) {
	b, err := NewBacktracking(sphere, sphereGrad, 1.0, 1e-4, 0.5)
	require.NoError(t, err)

	assert.Equal(t, 0.0, b.Last())

	eta := b.Step([]float64{3}, []float64{-6})
	assert.Equal(t, 0.5, eta)
	assert.Equal(t, 0.5, b.Last())

	// One f and one g up front, then one f per sufficient-decrease test
	// (the rejected full step and the accepted shrunk step).
	counts := b.Counts()
	assert.Equal(t, 3, counts.FuncEvals)
	assert.Equal(t, 1, counts.GradEvals)
	assert.Equal(t, 0, counts.HessEvals)
}

func TestBacktrackingAcceptsFirstCandidate(t *testing.T) {
	b, err := NewBacktracking(sphere, sphereGrad, 0.25, 1e-4, 0.5)
	require.NoError(t, err)

	// x=1, d=-2: x+0.25*d = 0.5, f drops from 1 to 0.25, accepted at once.
	eta := b.Step([]float64{1}, []float64{-2})
	assert.Equal(t, 0.25, eta)
	assert.Equal(t, 2, b.Counts().FuncEvals)
	assert.Equal(t, 1, b.Counts().GradEvals)
}

// Every candidate is worse than the start point by a full unit, so the
// Armijo condition can never hold, regardless of how small eta gets, and
// the defensive cap must stop the loop. A merely flat objective would not
// do here: once eta underflows the sufficient-decrease bound, rounding
// lets a flat candidate through early.
func TestBacktrackingGuardsAgainstEndlessShrink(t *testing.T) {
	cliff := func(x []float64) float64 {
		if x[0] == 0 {
			return 0
		}
		return 1
	}
	grad := func(x []float64) []float64 { return []float64{1} }

	b, err := NewBacktracking(cliff, grad, 1.0, 0.5, 0.5)
	require.NoError(t, err)

	eta := b.Step([]float64{0}, []float64{-1})
	assert.Greater(t, eta, 0.0)
	assert.Equal(t, maxBacktracks+1, b.Counts().FuncEvals)
}
