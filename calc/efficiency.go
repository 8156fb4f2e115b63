package calc

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"

	"github.com/wiless/illumcalc/aperture"
	"github.com/wiless/illumcalc/feed"
	"github.com/wiless/illumcalc/integrate"
)

var (
	ErrUnsupportedAperture = errors.New("unsupported aperture")
	ErrUnsupportedFeed     = errors.New("unsupported feed")
	// ErrInvalidGeometry is returned when the feed cannot illuminate the aperture.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// Efficiency is the result of one computation. Powers are normalised so that
// the boresight field of the feed is 1 at unit distance.
type Efficiency struct {
	Taper     float64
	Spillover float64

	TotalPower        float64 // radiated into the forward hemisphere
	AperturePower     float64 // intercepted by the aperture
	FieldAveragePower float64 // of a uniform field with the aperture's mean amplitude

	Converged bool
	AbsErr    float64 // largest absolute error estimate of the three integrals
}

// Aperture returns the aperture efficiency, taper times spillover.
func (e Efficiency) Aperture() float64 {
	return e.Taper * e.Spillover
}

// region is an integration domain over the aperture plane. point maps the
// integration variables to plane coordinates and the area element.
type region struct {
	area           float64
	u0, u1, v0, v1 float64
	point          func(u, v float64) (x, y, jac float64)
}

func polar(radius float64) region {
	return region{
		area: math.Pi * radius * radius,
		u0:   0, u1: radius,
		v0: 0, v1: 2 * math.Pi,
		point: func(rho, phi float64) (float64, float64, float64) {
			return rho * math.Cos(phi), rho * math.Sin(phi), rho
		},
	}
}

func rectangle(a, b float64) region {
	return region{
		area: a * b,
		u0:   -a / 2, u1: a / 2,
		v0: -b / 2, v1: b / 2,
		point: func(x, y float64) (float64, float64, float64) {
			return x, y, 1
		},
	}
}

func apertureRegion(a *aperture.Aperture) (region, error) {
	if a == nil {
		return region{}, fmt.Errorf("%w: nil aperture", ErrUnsupportedAperture)
	}
	dims := func(names ...string) ([]float64, error) {
		result := make([]float64, len(names))
		for i, n := range names {
			v, ok := a.LinearSI(n)
			if !ok {
				return nil, fmt.Errorf("%w: %s has no %q", ErrUnsupportedAperture, a.Kind(), n)
			}
			if !(v > 0) {
				return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidGeometry, n)
			}
			result[i] = v
		}
		return result, nil
	}

	switch a.Kind() {
	case aperture.Circular:
		d, err := dims(aperture.Radius)
		if err != nil {
			return region{}, err
		}
		return polar(d[0]), nil
	case aperture.Square:
		d, err := dims(aperture.Width)
		if err != nil {
			return region{}, err
		}
		return rectangle(d[0], d[0]), nil
	case aperture.Rectangular:
		d, err := dims(aperture.XLength, aperture.YLength)
		if err != nil {
			return region{}, err
		}
		return rectangle(d[0], d[1]), nil
	}
	return region{}, fmt.Errorf("%w: %s", ErrUnsupportedAperture, a.Kind())
}

// Compute evaluates taper and spillover efficiency of f illuminating a.
//
// The feed boresight points at the aperture centre. For a point p on the
// aperture, the ray from the feed has length d and direction u; the feed
// pattern is evaluated at the angle between u and the boresight and the
// intercepted power is weighted by the projection of u on the aperture
// normal (0, 0, -1).
func Compute(f *feed.Feed, a *aperture.Aperture, opt integrate.Options) (Efficiency, error) {
	if f == nil || f.Kind() != feed.CosThetaQ {
		return Efficiency{}, fmt.Errorf("%w: %v", ErrUnsupportedFeed, kindOf(f))
	}
	reg, err := apertureRegion(a)
	if err != nil {
		return Efficiency{}, err
	}

	pos := f.Position()
	height := pos.DistanceFrom(vlib.Origin3D)
	if height == 0 {
		return Efficiency{}, fmt.Errorf("%w: feed at the aperture centre", ErrInvalidGeometry)
	}
	if pos.Z <= 0 {
		return Efficiency{}, fmt.Errorf("%w: feed must be above the aperture plane", ErrInvalidGeometry)
	}

	// incidence returns the distance d, the feed pattern angle and the
	// projection on the aperture normal of the ray from the feed to (x, y, 0).
	incidence := func(x, y float64) (d, theta, proj float64) {
		ray := vlib.Location3D{X: x - pos.X, Y: y - pos.Y, Z: -pos.Z}
		d = ray.DistanceFrom(vlib.Origin3D)
		cosTheta := -(ray.X*pos.X + ray.Y*pos.Y + ray.Z*pos.Z) / (d * height)
		theta = math.Acos(math.Max(-1, math.Min(1, cosTheta)))
		proj = -ray.Z / d
		return d, theta, proj
	}

	total := integrate.Dbl(func(theta, phi float64) float64 {
		amp := f.Amplitude(theta)
		return amp * amp * math.Sin(theta)
	}, 0, math.Pi/2, 0, 2*math.Pi, opt)

	power := integrate.Dbl(func(u, v float64) float64 {
		x, y, jac := reg.point(u, v)
		d, theta, proj := incidence(x, y)
		amp := f.Amplitude(theta)
		return amp * amp / (d * d) * proj * jac
	}, reg.u0, reg.u1, reg.v0, reg.v1, opt)

	field := integrate.Dbl(func(u, v float64) float64 {
		x, y, jac := reg.point(u, v)
		d, theta, proj := incidence(x, y)
		return f.Amplitude(theta) / d * math.Sqrt(proj) * jac
	}, reg.u0, reg.u1, reg.v0, reg.v1, opt)

	if !(power.Value > 0) {
		return Efficiency{}, fmt.Errorf("%w: no power intercepted by the aperture", ErrInvalidGeometry)
	}
	avg := field.Value / reg.area

	e := Efficiency{
		TotalPower:        total.Value,
		AperturePower:     power.Value,
		FieldAveragePower: avg * avg * reg.area,
		Converged:         total.Converged && power.Converged && field.Converged,
		AbsErr:            math.Max(total.AbsErr, math.Max(power.AbsErr, field.AbsErr)),
	}
	e.Taper = e.FieldAveragePower / e.AperturePower
	e.Spillover = e.AperturePower / e.TotalPower
	if math.IsNaN(e.Taper) || math.IsInf(e.Taper, 0) || math.IsNaN(e.Spillover) || math.IsInf(e.Spillover, 0) {
		return Efficiency{}, fmt.Errorf("%w: efficiency is undefined", ErrInvalidGeometry)
	}

	if !e.Converged {
		log.WithFields(log.Fields{
			"aperture": a.Kind(),
			"abserr":   e.AbsErr,
			"evals":    total.Evals + power.Evals + field.Evals,
		}).Warn("efficiency integrals did not converge")
	}
	return e, nil
}

// ComputeOneShot runs Compute with the calculation's integration options.
func (c *Calculation) ComputeOneShot(f *feed.Feed, a *aperture.Aperture) (Efficiency, error) {
	return Compute(f, a, c.Options)
}

func kindOf(f *feed.Feed) feed.Kind {
	if f == nil {
		return 0
	}
	return f.Kind()
}
