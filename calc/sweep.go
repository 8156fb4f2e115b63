package calc

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"

	"github.com/wiless/illumcalc/aperture"
	"github.com/wiless/illumcalc/feed"
	"github.com/wiless/illumcalc/params"
)

// ErrUnknownSweepVariable is returned when the sweep variable names neither a
// feed nor an aperture parameter.
var ErrUnknownSweepVariable = fmt.Errorf("sweep variable: %w", params.ErrUnknownParameter)

// SweepError reports the sample at which a sweep failed.
type SweepError struct {
	Index    int
	Variable string
	Value    float64
	Err      error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("sweep sample %d (%s = %g): %v", e.Index, e.Variable, e.Value, e.Err)
}

func (e *SweepError) Unwrap() error { return e.Err }

// Sweep holds per-sample results in sample order.
type Sweep struct {
	Variable  string
	Values    vlib.VectorF
	Taper     vlib.VectorF
	Spillover vlib.VectorF
	Converged []bool
}

// Aperture returns the per-sample aperture efficiency.
func (s *Sweep) Aperture() vlib.VectorF {
	result := vlib.NewVectorF(len(s.Taper))
	for i := range result {
		result[i] = s.Taper[i] * s.Spillover[i]
	}
	return result
}

// Linspace returns n evenly spaced values from start to stop inclusive;
// n == 1 yields [start].
func Linspace(start, stop float64, n int) vlib.VectorF {
	if n < 1 {
		return vlib.VectorF{}
	}
	result := vlib.NewVectorF(n)
	if n == 1 {
		result[0] = start
		return result
	}
	floats.Span(result, start, stop)
	return result
}

// ComputeSweep1D sweeps the configured variable over deep copies of f and a.
// The variable is looked up in the feed first, then in the aperture. Feed
// cascades apply at each sample. progress, if not nil, receives the completed
// percentage after each sample. ctx is checked before each sample.
func (c *Calculation) ComputeSweep1D(ctx context.Context, f *feed.Feed, a *aperture.Aperture, progress func(int)) (*Sweep, error) {
	if c.mode != Sweep1D {
		return nil, fmt.Errorf("%w: sweep requested in %s mode", ErrWrongMode, c.mode)
	}
	settings := c.sweep
	if settings.Steps < 1 {
		return nil, &params.Error{Name: SweepSteps, Value: fmt.Sprint(settings.Steps), Err: params.ErrInvalidValue}
	}
	if f == nil || a == nil {
		return nil, fmt.Errorf("%w: missing feed or aperture", ErrInvalidGeometry)
	}

	fc, ac := f.Clone(), a.Clone()
	var set func(float64) error
	switch {
	case fc.Has(settings.Variable):
		set = func(v float64) error { return fc.SetParameter(settings.Variable, v) }
	case ac.Has(settings.Variable):
		set = func(v float64) error { return ac.SetParameter(settings.Variable, v) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSweepVariable, settings.Variable)
	}

	values := Linspace(settings.Start, settings.Stop, settings.Steps)
	n := len(values)
	result := &Sweep{
		Variable:  settings.Variable,
		Values:    values,
		Taper:     vlib.NewVectorF(n),
		Spillover: vlib.NewVectorF(n),
		Converged: make([]bool, n),
	}

	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sweep stopped before sample %d: %w", i, err)
		}
		if err := set(v); err != nil {
			return nil, &SweepError{Index: i, Variable: settings.Variable, Value: v, Err: err}
		}
		eff, err := Compute(fc, ac, c.Options)
		if err != nil {
			return nil, &SweepError{Index: i, Variable: settings.Variable, Value: v, Err: err}
		}
		result.Taper[i] = eff.Taper
		result.Spillover[i] = eff.Spillover
		result.Converged[i] = eff.Converged

		log.WithFields(log.Fields{
			"variable":  settings.Variable,
			"value":     v,
			"taper":     eff.Taper,
			"spillover": eff.Spillover,
		}).Debug("sweep sample")
		if progress != nil {
			progress((i + 1) * 100 / n)
		}
	}
	return result, nil
}

// Run executes the calculation in its current mode and caches the results.
func (c *Calculation) Run(ctx context.Context, f *feed.Feed, a *aperture.Aperture, progress func(int)) (*Results, error) {
	res := &Results{Mode: c.mode}
	switch c.mode {
	case DirectCalc:
		eff, err := c.ComputeOneShot(f, a)
		if err != nil {
			return nil, err
		}
		res.Point = &eff
	case Sweep1D:
		s, err := c.ComputeSweep1D(ctx, f, a, progress)
		if err != nil {
			return nil, err
		}
		res.Sweep = s
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, c.mode)
	}
	c.SaveResults(res)
	return res, nil
}
