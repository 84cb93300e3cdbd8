// Package functions provides the concrete test objectives shipped with the
// framework: quadratic forms, the sphere, Himmelblau's function and
// Rosenbrock's function.
package functions

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/descentlabs/descent/internal/optimize"
)

// Quadratic is f(x) = ½·xᵀAx + bᵀx + c with gradient Ax + b and Hessian A.
type Quadratic struct {
	a *mat.Dense
	b []float64
	c float64
}

// NewQuadratic creates a quadratic objective. The Hessian a must be square
// and the affine term b must match its dimension.
func NewQuadratic(a mat.Matrix, b []float64, c float64) (*Quadratic, error) {
	newErr := func(format string, args ...interface{}) *optimize.Error {
		return optimize.NewErrorf(format, args...).
			WithComponent("functions").WithOp("NewQuadratic")
	}
	if a == nil {
		return nil, newErr("Hessian must not be nil")
	}
	r, cols := a.Dims()
	if r != cols {
		return nil, newErr("Hessian must be square, got %dx%d", r, cols)
	}
	if len(b) != r {
		return nil, newErr("affine term dimension %d does not match Hessian dimension %d", len(b), r)
	}
	return &Quadratic{
		a: mat.DenseCopyOf(a),
		b: append([]float64(nil), b...),
		c: c,
	}, nil
}

// Func evaluates ½·xᵀAx + bᵀx + c.
func (q *Quadratic) Func(x []float64) float64 {
	xv := mat.NewVecDense(len(x), x)
	var ax mat.VecDense
	ax.MulVec(q.a, xv)
	return 0.5*mat.Dot(xv, &ax) + floats.Dot(q.b, x) + q.c
}

// Grad evaluates Ax + b.
func (q *Quadratic) Grad(x []float64) []float64 {
	xv := mat.NewVecDense(len(x), x)
	var ax mat.VecDense
	ax.MulVec(q.a, xv)

	g := make([]float64, len(x))
	for i := range g {
		g[i] = ax.AtVec(i) + q.b[i]
	}
	return g
}

// Hess returns a copy of A.
func (q *Quadratic) Hess(x []float64) *mat.Dense {
	return mat.DenseCopyOf(q.a)
}

// Sphere is f(x) = Σ x_i², the standard convex smoke-test objective.
type Sphere struct{}

// Func evaluates Σ x_i².
func (Sphere) Func(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Grad evaluates 2x.
func (Sphere) Grad(x []float64) []float64 {
	g := make([]float64, len(x))
	for i, v := range x {
		g[i] = 2 * v
	}
	return g
}

// Hess returns 2I.
func (Sphere) Hess(x []float64) *mat.Dense {
	n := len(x)
	h := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		h.Set(i, i, 2)
	}
	return h
}

// Himmelblau is the two-dimensional Himmelblau function
// f(x, y) = (x² + y − 11)² + (x + y² − 7)², with four global minima of
// value 0. Inputs must be two-dimensional.
type Himmelblau struct{}

// Func evaluates the Himmelblau function.
func (Himmelblau) Func(v []float64) float64 {
	x, y := v[0], v[1]
	p := x*x + y - 11
	q := x + y*y - 7
	return p*p + q*q
}

// Grad evaluates the analytic gradient.
func (Himmelblau) Grad(v []float64) []float64 {
	x, y := v[0], v[1]
	p := x*x + y - 11
	q := x + y*y - 7
	return []float64{
		4*x*p + 2*q,
		2*p + 4*y*q,
	}
}

// Hess evaluates the analytic Hessian.
func (Himmelblau) Hess(v []float64) *mat.Dense {
	x, y := v[0], v[1]
	hxx := 12*x*x + 4*y - 42
	hxy := 4*x + 4*y
	hyy := 12*y*y + 4*x - 26
	return mat.NewDense(2, 2, []float64{hxx, hxy, hxy, hyy})
}

// Rosenbrock is the n-dimensional Rosenbrock function
// f(x) = Σ b·(x_{i+1} − x_i²)² + (a − x_i)² with minimum at (a, a², ...).
// The Hessian is not provided.
type Rosenbrock struct {
	A, B float64
}

// NewRosenbrock returns the classic a=1, b=100 Rosenbrock function.
func NewRosenbrock() Rosenbrock {
	return Rosenbrock{A: 1, B: 100}
}

// Func evaluates the Rosenbrock function.
func (r Rosenbrock) Func(x []float64) float64 {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		t := x[i+1] - x[i]*x[i]
		u := r.A - x[i]
		sum += r.B*t*t + u*u
	}
	return sum
}

// Grad evaluates the analytic gradient.
func (r Rosenbrock) Grad(x []float64) []float64 {
	g := make([]float64, len(x))
	for i := 0; i+1 < len(x); i++ {
		t := x[i+1] - x[i]*x[i]
		g[i] += -4*r.B*t*x[i] - 2*(r.A-x[i])
		g[i+1] += 2 * r.B * t
	}
	return g
}

// Hess returns nil; the Hessian is not computed for this objective.
func (r Rosenbrock) Hess(x []float64) *mat.Dense {
	return nil
}

// Parabola is the scalar function (x − center)², used with the
// golden-section search.
func Parabola(center float64) func(float64) float64 {
	return func(x float64) float64 {
		d := x - center
		return d * d
	}
}

var _ optimize.Objective = (*Quadratic)(nil)
var _ optimize.Objective = Sphere{}
var _ optimize.Objective = Himmelblau{}
var _ optimize.Objective = Rosenbrock{}
