package direction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSteepestRejectsNilGradient(t *testing.T) {
	_, err := NewSteepest(nil)
	assert.Error(t, err)
}

func TestSteepestNegatesGradient(t *testing.T) {
	grad := func(x []float64) []float64 {
		g := make([]float64, len(x))
		for i, v := range x {
			g[i] = 2 * v
		}
		return g
	}

	s, err := NewSteepest(grad)
	require.NoError(t, err)

	d := s.Direction([]float64{1, 1})
	assert.Equal(t, []float64{-2, -2}, d)
	assert.Equal(t, 1, s.Counts().GradEvals)
	assert.Equal(t, 0, s.Counts().FuncEvals)
	assert.Equal(t, 0, s.Counts().HessEvals)

	// Counts accumulate across calls.
	s.Direction([]float64{3, -4})
	assert.Equal(t, 2, s.Counts().GradEvals)
}
