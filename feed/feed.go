// Package feed models the radiating source that illuminates an aperture.
package feed

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"

	"github.com/wiless/illumcalc/params"
)

var (
	// ErrUnsupportedKind is returned when selecting a feed kind that has no model.
	ErrUnsupportedKind = errors.New("unsupported feed kind")
	// ErrDomain is returned when an update would leave a derived quantity undefined.
	ErrDomain = errors.New("value outside valid domain")
)

// Kind selects the feed radiation model.
type Kind int

const (
	CosThetaQ Kind = iota + 1
)

// Kinds holds the display name of each Kind.
var Kinds = [...]string{
	"Unknown-FeedType",
	"E(Theta) = cos(Theta)^Q",
}

var kindKeys = [...]string{
	"",
	"CosThetaQ",
}

func (k Kind) String() string {
	if int(k) <= 0 || int(k) >= len(Kinds) {
		return Kinds[0]
	}
	return Kinds[k]
}

// ParseKind accepts either the display name or the short key of a kind,
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k := CosThetaQ; int(k) < len(Kinds); k++ {
		if strings.EqualFold(s, Kinds[k]) || strings.EqualFold(s, kindKeys[k]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// Pattern is the parameter record and radiation model of one feed kind.
type Pattern interface {
	Kind() Kind
	Values() []params.Value
	Get(name string) (params.Value, bool)
	// Set stores value and updates every dependent parameter. On error the
	// record is left exactly as it was.
	Set(name string, value float64) error
	// Amplitude is the field strength at angle theta (rad) off boresight.
	Amplitude(theta float64) float64
	// Position is the phase centre in metres.
	Position() vlib.Location3D
	Clone() Pattern
}

// Feed is a caller-owned, mutable feed description. The zero value has no
// kind; use New.
type Feed struct {
	pattern Pattern
}

// New returns a CosThetaQ feed with default parameters.
func New() *Feed {
	f := new(Feed)
	f.pattern = newCosThetaQ()
	return f
}

// Kind returns the current kind, 0 for a zero Feed.
func (f *Feed) Kind() Kind {
	if f.pattern == nil {
		return 0
	}
	return f.pattern.Kind()
}

// Pattern exposes the radiation model, nil for a zero Feed.
func (f *Feed) Pattern() Pattern {
	return f.pattern
}

// SetType discards all parameters and reinitialises them to the defaults of kind.
func (f *Feed) SetType(kind Kind) error {
	switch kind {
	case CosThetaQ:
		f.pattern = newCosThetaQ()
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedKind, int(kind))
	}
	log.WithField("kind", kind).Debug("feed type reset")
	return nil
}

// UpdateParameter parses raw and applies it to the parameter called name.
func (f *Feed) UpdateParameter(name, raw string) error {
	if !f.Has(name) {
		return &params.Error{Name: name, Value: raw, Err: params.ErrUnknownParameter}
	}
	value, err := params.ParseFloat(name, raw)
	if err != nil {
		return err
	}
	return f.SetParameter(name, value)
}

// SetParameter stores value under name and cascades the derived quantities.
func (f *Feed) SetParameter(name string, value float64) error {
	if f.pattern == nil {
		return fmt.Errorf("%w: feed has no kind", ErrUnsupportedKind)
	}
	if err := f.pattern.Set(name, value); err != nil {
		log.WithFields(log.Fields{"name": name, "value": value}).WithError(err).Debug("feed update rejected")
		return err
	}
	log.WithFields(log.Fields{"name": name, "value": value}).Debug("feed updated")
	return nil
}

// Has reports whether name is a parameter of the current kind.
func (f *Feed) Has(name string) bool {
	if f.pattern == nil {
		return false
	}
	_, ok := f.pattern.Get(name)
	return ok
}

// Value returns the stored (display unit) value of name.
func (f *Feed) Value(name string) (float64, bool) {
	if f.pattern == nil {
		return 0, false
	}
	v, ok := f.pattern.Get(name)
	return v.Value, ok
}

// LinearSI returns the value of name in linear SI units; ok is false when
// the parameter does not exist.
func (f *Feed) LinearSI(name string) (float64, bool) {
	if f.pattern == nil {
		return 0, false
	}
	v, ok := f.pattern.Get(name)
	if !ok {
		return 0, false
	}
	return v.SI(), true
}

// Parameters returns the current parameters in schema order.
func (f *Feed) Parameters() []params.Value {
	if f.pattern == nil {
		return nil
	}
	return f.pattern.Values()
}

// Names returns the parameter names of the current kind.
func (f *Feed) Names() []string {
	vals := f.Parameters()
	result := make([]string, len(vals))
	for i, v := range vals {
		result[i] = v.Name
	}
	return result
}

// Clone returns a deep copy.
func (f *Feed) Clone() *Feed {
	if f.pattern == nil {
		return new(Feed)
	}
	return &Feed{pattern: f.pattern.Clone()}
}

// Amplitude is shorthand for Pattern().Amplitude.
func (f *Feed) Amplitude(theta float64) float64 {
	return f.pattern.Amplitude(theta)
}

// Position is shorthand for Pattern().Position.
func (f *Feed) Position() vlib.Location3D {
	return f.pattern.Position()
}
