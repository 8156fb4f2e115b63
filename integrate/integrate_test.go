package integrate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wiless/illumcalc/integrate"
)

func TestQuadSine(t *testing.T) {
	r := integrate.Quad(math.Sin, 0, math.Pi, integrate.Options{})
	assert.True(t, r.Converged)
	assert.InDelta(t, 2.0, r.Value, 1e-10)
	assert.Greater(t, r.Evals, 0)
}

func TestQuadReversedBounds(t *testing.T) {
	r := integrate.Quad(math.Sin, math.Pi, 0, integrate.Options{})
	assert.True(t, r.Converged)
	assert.InDelta(t, -2.0, r.Value, 1e-10)
}

func TestQuadEmptyInterval(t *testing.T) {
	r := integrate.Quad(math.Exp, 1, 1, integrate.Options{})
	assert.True(t, r.Converged)
	assert.Equal(t, 0.0, r.Value)
}

func TestQuadPeaked(t *testing.T) {
	// narrow Lorentzian needs several bisections
	f := func(x float64) float64 { return 1 / (1e-4 + x*x) }
	want := 2 / 1e-2 * math.Atan(1/1e-2)
	r := integrate.Quad(f, -1, 1, integrate.Options{})
	assert.True(t, r.Converged)
	assert.InEpsilon(t, want, r.Value, 1e-6)
}

func TestQuadNotConverged(t *testing.T) {
	f := func(x float64) float64 { return 1 / math.Sqrt(x) }
	r := integrate.Quad(f, 0, 1, integrate.Options{AbsTol: 1e-14, RelTol: 1e-14, MaxIter: 2})
	assert.False(t, r.Converged)
	assert.InDelta(t, 2.0, r.Value, 0.2)
	assert.Greater(t, r.AbsErr, 0.0)
}

func TestQuadNaN(t *testing.T) {
	r := integrate.Quad(func(float64) float64 { return math.NaN() }, 0, 1, integrate.Options{})
	assert.False(t, r.Converged)
	assert.True(t, math.IsNaN(r.Value))
}

func TestDblProduct(t *testing.T) {
	r := integrate.Dbl(func(x, y float64) float64 { return x * y }, 0, 1, 0, 1, integrate.Options{})
	assert.True(t, r.Converged)
	assert.InDelta(t, 0.25, r.Value, 1e-12)
}

func TestDblSolidAngle(t *testing.T) {
	// power of cos(theta)^q over the forward hemisphere is 2pi/(2q+1)
	q := 24.5
	f := func(theta, phi float64) float64 { return math.Pow(math.Cos(theta), 2*q) * math.Sin(theta) }
	r := integrate.Dbl(f, 0, math.Pi/2, 0, 2*math.Pi, integrate.Options{})
	assert.True(t, r.Converged)
	assert.InEpsilon(t, 2*math.Pi/(2*q+1), r.Value, 1e-6)
}

func TestDblInnerNotConverged(t *testing.T) {
	f := func(u, v float64) float64 { return 1 / math.Sqrt(u) }
	r := integrate.Dbl(f, 0, 1, 0, 1, integrate.Options{AbsTol: 1e-14, RelTol: 1e-14, MaxIter: 2})
	assert.False(t, r.Converged)
}

func TestWithDefaults(t *testing.T) {
	o := integrate.Options{RelTol: 1e-3}.WithDefaults()
	assert.Equal(t, 1e-3, o.RelTol)
	assert.Equal(t, integrate.DefaultOptions.AbsTol, o.AbsTol)
	assert.Equal(t, integrate.DefaultOptions.MaxIter, o.MaxIter)
	assert.Equal(t, integrate.DefaultOptions.Order, o.Order)
}
