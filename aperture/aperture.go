// Package aperture models the planar opening, centred on the origin in the
// z=0 plane, that a feed illuminates.
package aperture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/wiless/illumcalc/params"
	"github.com/wiless/illumcalc/units"
)

// ErrUnsupportedKind is returned when selecting an aperture kind that has no model.
var ErrUnsupportedKind = errors.New("unsupported aperture kind")

// Kind selects the aperture geometry.
type Kind int

const (
	Circular Kind = iota + 1
	Square
	Rectangular
)

// Kinds holds the display name of each Kind, indexed by value.
var Kinds = [...]string{
	"Unknown-ApertureType",
	"Circular Aperture",
	"Square Aperture",
	"Rectangular Aperture",
}

var kindKeys = [...]string{"", "Circular", "Square", "Rectangular"}

func (k Kind) String() string {
	if int(k) <= 0 || int(k) >= len(Kinds) {
		return Kinds[0]
	}
	return Kinds[k]
}

// ParseKind accepts the display name ("Circular Aperture") or the short key
// ("circular"), case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k := Circular; int(k) < len(Kinds); k++ {
		if strings.EqualFold(s, Kinds[k]) || strings.EqualFold(s, kindKeys[k]) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// Parameter names.
const (
	Radius  = "Radius (mm)"
	Width   = "Width (mm)"
	XLength = "X Length (mm)"
	YLength = "Y Length (mm)"
)

type circular struct{ radius float64 }

type square struct{ width float64 }

type rectangular struct{ xLength, yLength float64 }

var (
	circularSchema = params.Schema[circular]{
		{Name: Radius, Unit: units.Millimeter, Ref: func(c *circular) *float64 { return &c.radius }},
	}
	squareSchema = params.Schema[square]{
		{Name: Width, Unit: units.Millimeter, Ref: func(s *square) *float64 { return &s.width }},
	}
	rectangularSchema = params.Schema[rectangular]{
		{Name: XLength, Unit: units.Millimeter, Ref: func(r *rectangular) *float64 { return &r.xLength }},
		{Name: YLength, Unit: units.Millimeter, Ref: func(r *rectangular) *float64 { return &r.yLength }},
	}
)

// Shape is the parameter record of one aperture kind.
type Shape interface {
	Kind() Kind
	Values() []params.Value
	Get(name string) (params.Value, bool)
	Set(name string, value float64) error
	Clone() Shape
}

type record[T any] struct {
	kind   Kind
	schema params.Schema[T]
	data   T
}

func (r *record[T]) Kind() Kind { return r.kind }

func (r *record[T]) Values() []params.Value { return r.schema.Values(&r.data) }

func (r *record[T]) Get(name string) (params.Value, bool) { return r.schema.Get(&r.data, name) }

func (r *record[T]) Set(name string, value float64) error {
	if !units.IsFinite(value) {
		return &params.Error{Name: name, Value: strconv.FormatFloat(value, 'g', -1, 64), Err: params.ErrInvalidValue}
	}
	return r.schema.Set(&r.data, name, value)
}

func (r *record[T]) Clone() Shape {
	c := *r
	return &c
}

func newShape(kind Kind) Shape {
	switch kind {
	case Circular:
		return &record[circular]{kind: kind, schema: circularSchema, data: circular{radius: 1}}
	case Square:
		return &record[square]{kind: kind, schema: squareSchema, data: square{width: 1}}
	case Rectangular:
		return &record[rectangular]{kind: kind, schema: rectangularSchema, data: rectangular{xLength: 2, yLength: 1}}
	}
	return nil
}

// Aperture is a caller-owned, mutable aperture description. The zero value
// has no kind and is rejected by the efficiency engine.
type Aperture struct {
	shape Shape
}

// New returns a circular aperture with default parameters.
func New() *Aperture {
	return &Aperture{shape: newShape(Circular)}
}

func (a *Aperture) Kind() Kind {
	if a.shape == nil {
		return 0
	}
	return a.shape.Kind()
}

// SetType discards all parameters and reinitialises them to the defaults of kind.
func (a *Aperture) SetType(kind Kind) error {
	s := newShape(kind)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnsupportedKind, int(kind))
	}
	a.shape = s
	log.WithField("kind", kind).Debug("aperture type reset")
	return nil
}

// UpdateParameter parses raw and stores it under name.
func (a *Aperture) UpdateParameter(name, raw string) error {
	if !a.Has(name) {
		return &params.Error{Name: name, Value: raw, Err: params.ErrUnknownParameter}
	}
	value, err := params.ParseFloat(name, raw)
	if err != nil {
		return err
	}
	return a.SetParameter(name, value)
}

// SetParameter stores value under name.
func (a *Aperture) SetParameter(name string, value float64) error {
	if a.shape == nil {
		return fmt.Errorf("%w: aperture has no kind", ErrUnsupportedKind)
	}
	if err := a.shape.Set(name, value); err != nil {
		return err
	}
	log.WithFields(log.Fields{"name": name, "value": value}).Debug("aperture updated")
	return nil
}

// Has reports whether the current kind defines name.
func (a *Aperture) Has(name string) bool {
	if a.shape == nil {
		return false
	}
	_, ok := a.shape.Get(name)
	return ok
}

// Value returns the stored value of name in display units.
func (a *Aperture) Value(name string) (float64, bool) {
	if a.shape == nil {
		return 0, false
	}
	v, ok := a.shape.Get(name)
	return v.Value, ok
}

// LinearSI returns the value of name in metres; ok is false for unknown names.
func (a *Aperture) LinearSI(name string) (float64, bool) {
	if a.shape == nil {
		return 0, false
	}
	v, ok := a.shape.Get(name)
	if !ok {
		return 0, false
	}
	return v.SI(), true
}

// Parameters returns the current values in schema order.
func (a *Aperture) Parameters() []params.Value {
	if a.shape == nil {
		return nil
	}
	return a.shape.Values()
}

// Names lists the parameter names of the current kind.
func (a *Aperture) Names() []string {
	vals := a.Parameters()
	result := make([]string, len(vals))
	for i, v := range vals {
		result[i] = v.Name
	}
	return result
}

// Clone returns a deep copy.
func (a *Aperture) Clone() *Aperture {
	if a.shape == nil {
		return new(Aperture)
	}
	return &Aperture{shape: a.shape.Clone()}
}
