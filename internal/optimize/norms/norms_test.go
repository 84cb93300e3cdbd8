package norms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPRejectsNegativeOrder(t *testing.T) {
	_, err := NewP(-1)
	assert.Error(t, err)
}

func TestPNorm(t *testing.T) {
	tests := []struct {
		name string
		p    int
		v    []float64
		want float64
	}{
		{name: "p=0 counts non-zeros", p: 0, v: []float64{0, 3, 0, -2, 1}, want: 3},
		{name: "p=0 integer vector", p: 0, v: []float64{1, 0, 2, 0}, want: 2},
		{name: "p=0 empty", p: 0, v: nil, want: 0},
		{name: "p=1 sums magnitudes", p: 1, v: []float64{1, -2, 3}, want: 6},
		{name: "p=2 pythagorean", p: 2, v: []float64{3, 4}, want: 5},
		{name: "p=2 empty", p: 2, v: []float64{}, want: 0},
		{name: "p=3 cubic", p: 3, v: []float64{-2, 0, 0}, want: 2},
		{name: "p=4 zero vector", p: 4, v: []float64{0, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewP(tt.p)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, n.Norm(tt.v), 1e-12)
		})
	}
}

// The dedicated Euclidean fast path must agree with the generic p-th-root
// formula for p=2.
func TestEuclideanMatchesGenericFormula(t *testing.T) {
	vectors := [][]float64{
		{1, 2, 3},
		{-5.7, 6, -8.1, 1.3},
		{0.25, -0.5},
		{7},
	}

	euclid := Euclidean()
	for _, v := range vectors {
		sum := 0.0
		for _, x := range v {
			sum += math.Pow(math.Abs(x), 2)
		}
		generic := math.Pow(sum, 0.5)
		assert.InDelta(t, generic, euclid.Norm(v), 1e-12)
	}
}

func TestMaxNorm(t *testing.T) {
	assert.Equal(t, 8.1, Max{}.Norm([]float64{-5.7, 6, -8.1, 1.3}))
	assert.Equal(t, 0.0, Max{}.Norm(nil))
}

// With exactly one non-zero entry every magnitude norm collapses to that
// entry's magnitude.
func TestSingleEntryNormsAgree(t *testing.T) {
	v := []float64{0, 0, -4.5, 0}

	assert.InDelta(t, 4.5, Euclidean().Norm(v), 1e-12)
	assert.InDelta(t, 4.5, Max{}.Norm(v), 1e-12)

	one, err := NewP(1)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, one.Norm(v), 1e-12)
}
