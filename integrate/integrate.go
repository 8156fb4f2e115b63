// Package integrate evaluates one and two dimensional integrals by adaptive
// bisection of Gauss-Legendre panels.
//
// Each panel is estimated with an n-point and a 2n-point rule; their difference
// is taken as the panel error. The panel with the largest error is bisected
// until the summed error meets the tolerance or MaxIter panels exist. The
// returned Result always carries the best estimate, and Converged tells the
// caller whether the tolerance was met.
package integrate

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Options controls tolerance and effort of an integration.
type Options struct {
	AbsTol  float64 // absolute error target
	RelTol  float64 // relative error target
	MaxIter int     // maximum number of panels per 1D integral
	Order   int     // Legendre nodes of the coarse rule
}

// DefaultOptions is used for every zero field of an Options value.
var DefaultOptions = Options{
	AbsTol:  1e-9,
	RelTol:  1e-7,
	MaxIter: 64,
	Order:   10,
}

// WithDefaults returns o with zero or negative fields replaced by DefaultOptions.
func (o Options) WithDefaults() Options {
	if o.AbsTol <= 0 {
		o.AbsTol = DefaultOptions.AbsTol
	}
	if o.RelTol <= 0 {
		o.RelTol = DefaultOptions.RelTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultOptions.MaxIter
	}
	if o.Order <= 0 {
		o.Order = DefaultOptions.Order
	}
	return o
}

// Result of an integration.
type Result struct {
	Value     float64
	AbsErr    float64
	Evals     int
	Converged bool
}

type panel struct {
	lo, hi float64
	value  float64
	err    float64
}

// Quad integrates f over [a, b].
func Quad(f func(float64) float64, a, b float64, opt Options) Result {
	opt = opt.WithDefaults()
	if a == b {
		return Result{Converged: true}
	}
	sign := 1.0
	if a > b {
		a, b = b, a
		sign = -1
	}

	var evals int
	estimate := func(lo, hi float64) panel {
		coarse := quad.Fixed(f, lo, hi, opt.Order, quad.Legendre{}, 0)
		fine := quad.Fixed(f, lo, hi, 2*opt.Order, quad.Legendre{}, 0)
		evals += 3 * opt.Order
		return panel{lo: lo, hi: hi, value: fine, err: math.Abs(fine - coarse)}
	}

	panels := []panel{estimate(a, b)}
	for {
		var value, errSum float64
		worst := 0
		for i, p := range panels {
			value += p.value
			errSum += p.err
			if p.err > panels[worst].err {
				worst = i
			}
		}
		res := Result{Value: sign * value, AbsErr: errSum, Evals: evals}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return res
		}
		if errSum <= math.Max(opt.AbsTol, opt.RelTol*math.Abs(value)) {
			res.Converged = true
			return res
		}
		if len(panels) >= opt.MaxIter {
			return res
		}

		p := panels[worst]
		mid := p.lo + (p.hi-p.lo)/2
		panels[worst] = estimate(p.lo, mid)
		panels = append(panels, estimate(mid, p.hi))
	}
}

// Dbl integrates f(u, v) with u in [u0, u1] as the inner variable and v in
// [v0, v1] as the outer one. The result converges only if the outer integral
// and every inner integral did.
func Dbl(f func(u, v float64) float64, u0, u1, v0, v1 float64, opt Options) Result {
	converged := true
	evals := 0
	var innerErr float64
	outer := Quad(func(v float64) float64 {
		r := Quad(func(u float64) float64 { return f(u, v) }, u0, u1, opt)
		evals += r.Evals
		converged = converged && r.Converged
		innerErr = math.Max(innerErr, r.AbsErr)
		return r.Value
	}, v0, v1, opt)

	return Result{
		Value:     outer.Value,
		AbsErr:    outer.AbsErr + innerErr*math.Abs(v1-v0),
		Evals:     evals,
		Converged: converged && outer.Converged,
	}
}
