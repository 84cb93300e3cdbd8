package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewQuadraticValidation(t *testing.T) {
	square := mat.NewDense(2, 2, []float64{2, 0, 0, 2})

	_, err := NewQuadratic(nil, []float64{0, 0}, 0)
	assert.Error(t, err)

	_, err = NewQuadratic(mat.NewDense(2, 3, nil), []float64{0, 0}, 0)
	assert.Error(t, err)

	// Affine term dimension must match the Hessian dimension.
	_, err = NewQuadratic(square, []float64{0, 0, 0}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")

	_, err = NewQuadratic(square, []float64{0, 0}, 0)
	assert.NoError(t, err)
}

func TestQuadraticEvaluation(t *testing.T) {
	// f(x, y) = ½(2x² + 2y²) + x − y + 3 = x² + y² + x − y + 3
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 2})
	q, err := NewQuadratic(a, []float64{1, -1}, 3)
	require.NoError(t, err)

	x := []float64{1, 2}
	assert.InDelta(t, 1+4+1-2+3, q.Func(x), 1e-12)
	assert.InDelta(t, 3, q.Grad(x)[0], 1e-12) // 2x + 1
	assert.InDelta(t, 3, q.Grad(x)[1], 1e-12) // 2y - 1

	h := q.Hess(x)
	require.NotNil(t, h)
	assert.Equal(t, 2.0, h.At(0, 0))
	assert.Equal(t, 2.0, h.At(1, 1))
}

// The stored Hessian must be an independent copy of the caller's matrix.
func TestQuadraticCopiesInputs(t *testing.T) {
	a := mat.NewDense(1, 1, []float64{2})
	b := []float64{1}
	q, err := NewQuadratic(a, b, 0)
	require.NoError(t, err)

	a.Set(0, 0, 100)
	b[0] = 100

	assert.InDelta(t, 2, q.Func([]float64{1}), 1e-12) // ½·2·1 + 1·1
}

func TestSphere(t *testing.T) {
	s := Sphere{}
	x := []float64{1, -2, 3}

	assert.Equal(t, 14.0, s.Func(x))
	assert.Equal(t, []float64{2, -4, 6}, s.Grad(x))

	h := s.Hess(x)
	assert.Equal(t, 2.0, h.At(1, 1))
	assert.Equal(t, 0.0, h.At(0, 2))
}

func TestHimmelblauMinima(t *testing.T) {
	minima := [][]float64{
		{3, 2},
		{-2.805118, 3.131312},
		{-3.779310, -3.283186},
		{3.584428, -1.848126},
	}

	h := Himmelblau{}
	for _, m := range minima {
		assert.InDelta(t, 0, h.Func(m), 1e-4)
		g := h.Grad(m)
		assert.InDelta(t, 0, g[0], 1e-3)
		assert.InDelta(t, 0, g[1], 1e-3)
	}
}

func TestHimmelblauGradientMatchesFiniteDifference(t *testing.T) {
	h := Himmelblau{}
	x := []float64{1.3, -0.7}
	g := h.Grad(x)

	const eps = 1e-6
	for i := 0; i < 2; i++ {
		hi := append([]float64(nil), x...)
		lo := append([]float64(nil), x...)
		hi[i] += eps
		lo[i] -= eps
		fd := (h.Func(hi) - h.Func(lo)) / (2 * eps)
		assert.InDelta(t, fd, g[i], 1e-4)
	}
}

func TestRosenbrock(t *testing.T) {
	r := NewRosenbrock()

	assert.Equal(t, 0.0, r.Func([]float64{1, 1, 1}))
	assert.Equal(t, []float64{0, 0, 0}, r.Grad([]float64{1, 1, 1}))
	assert.Nil(t, r.Hess([]float64{1, 1}))

	// f(0,0) = b·0 + (a−0)² = 1 for the classic parameters.
	assert.Equal(t, 1.0, r.Func([]float64{0, 0}))
}

func TestParabola(t *testing.T) {
	f := Parabola(2)
	assert.Equal(t, 0.0, f(2))
	assert.Equal(t, 1.0, f(3))
	assert.Equal(t, 1.0, f(1))
}
