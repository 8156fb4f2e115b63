// Package calc evaluates taper and spillover efficiency of a feed
// illuminating an aperture, once or as a one dimensional parameter sweep.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/wiless/illumcalc/integrate"
	"github.com/wiless/illumcalc/params"
)

var (
	ErrUnsupportedMode = errors.New("unsupported calculation mode")
	// ErrWrongMode is returned by an entry point called in a mode it does not serve.
	ErrWrongMode = errors.New("wrong calculation mode")
)

// Mode selects between a single point and a sweep.
type Mode int

const (
	DirectCalc Mode = iota
	Sweep1D
	Sweep2D
)

var Modes = [...]string{
	"Direct Calculation",
	"Linear 1D Sweep",
	"Linear 2D Sweep",
}

var modeKeys = [...]string{"DirectCalc", "Sweep1D", "Sweep2D"}

func (m Mode) String() string {
	if int(m) < 0 || int(m) >= len(Modes) {
		return "Unknown-Mode"
	}
	return Modes[m]
}

// ParseMode accepts the display name or the short key of a mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for m := DirectCalc; int(m) < len(Modes); m++ {
		if strings.EqualFold(s, Modes[m]) || strings.EqualFold(s, modeKeys[m]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// Sweep parameter names.
const (
	SweepVariable = "Sweep Variable"
	SweepStart    = "Sweep Start"
	SweepStop     = "Sweep Stop"
	SweepSteps    = "Sweep Steps"
)

// SweepSettings are the parameters of the Sweep1D mode.
type SweepSettings struct {
	Variable string
	Start    float64
	Stop     float64
	Steps    int
}

// DefaultSweep sweeps the feed frequency from 0.1 to 1 GHz.
var DefaultSweep = SweepSettings{
	Variable: "Freq (GHz)",
	Start:    0.1,
	Stop:     1.0,
	Steps:    10,
}

// Setting is one calculation parameter rendered for display.
type Setting struct {
	Name  string
	Value string
}

// Results holds the outcome of the last Run.
type Results struct {
	Mode  Mode
	Point *Efficiency
	Sweep *Sweep
}

// Calculation is the caller-owned calculation model: a mode, its parameters,
// the integration options and the cached results of the last run.
type Calculation struct {
	Options integrate.Options

	mode    Mode
	sweep   SweepSettings
	results *Results
}

// NewCalculation returns a DirectCalc calculation with default integration options.
func NewCalculation() *Calculation {
	return &Calculation{Options: integrate.DefaultOptions}
}

func (c *Calculation) Mode() Mode { return c.mode }

// SetMode switches mode and resets its parameters to their defaults.
func (c *Calculation) SetMode(mode Mode) error {
	if int(mode) < 0 || int(mode) >= len(Modes) {
		return fmt.Errorf("%w: %d", ErrUnsupportedMode, int(mode))
	}
	c.mode = mode
	c.sweep = SweepSettings{}
	if mode == Sweep1D {
		c.sweep = DefaultSweep
	}
	log.WithField("mode", mode).Debug("calculation mode reset")
	return nil
}

// Sweep returns the Sweep1D parameters; the zero value in other modes.
func (c *Calculation) Sweep() SweepSettings { return c.sweep }

func (c *Calculation) names() []string {
	if c.mode != Sweep1D {
		return nil
	}
	return []string{SweepVariable, SweepStart, SweepStop, SweepSteps}
}

// Names returns the parameter names of the current mode.
func (c *Calculation) Names() []string { return c.names() }

// Has reports whether name is a parameter of the current mode.
func (c *Calculation) Has(name string) bool {
	for _, n := range c.names() {
		if n == name {
			return true
		}
	}
	return false
}

// Parameters returns the current mode's parameters in display order.
func (c *Calculation) Parameters() []Setting {
	if c.mode != Sweep1D {
		return nil
	}
	return []Setting{
		{SweepVariable, c.sweep.Variable},
		{SweepStart, strconv.FormatFloat(c.sweep.Start, 'g', -1, 64)},
		{SweepStop, strconv.FormatFloat(c.sweep.Stop, 'g', -1, 64)},
		{SweepSteps, strconv.Itoa(c.sweep.Steps)},
	}
}

// UpdateParameter coerces raw by parameter: the sweep variable is kept as
// text, the step count must be an integer >= 1, everything else is a float.
// A rejected value leaves the calculation unchanged.
func (c *Calculation) UpdateParameter(name, raw string) error {
	if !c.Has(name) {
		return &params.Error{Name: name, Value: raw, Err: params.ErrUnknownParameter}
	}
	switch name {
	case SweepVariable:
		c.sweep.Variable = strings.TrimSpace(raw)
	case SweepSteps:
		n, err := params.ParseInt(name, raw)
		if err != nil {
			return err
		}
		if n < 1 {
			return &params.Error{Name: name, Value: raw, Err: params.ErrInvalidValue}
		}
		c.sweep.Steps = n
	case SweepStart, SweepStop:
		v, err := params.ParseFloat(name, raw)
		if err != nil {
			return err
		}
		if name == SweepStart {
			c.sweep.Start = v
		} else {
			c.sweep.Stop = v
		}
	}
	log.WithFields(log.Fields{"name": name, "value": raw}).Debug("calculation updated")
	return nil
}

// Results returns the cached results, nil if none were saved.
func (c *Calculation) Results() *Results { return c.results }

func (c *Calculation) SaveResults(r *Results) { c.results = r }

func (c *Calculation) ClearResults() { c.results = nil }
