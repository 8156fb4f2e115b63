// Package params implements the named, unit-tagged parameter schemas shared by
// the feed and aperture models.
package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wiless/illumcalc/units"
)

var (
	// ErrUnknownParameter is returned for a name that is not in the current schema.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidValue is returned when a raw value cannot be coerced.
	ErrInvalidValue = errors.New("invalid value")
)

// Error reports a rejected parameter update.
type Error struct {
	Name  string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parameter %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("parameter %q = %q: %v", e.Name, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Value is a read-only view of one parameter, in display units.
type Value struct {
	Name  string
	Value float64
	Unit  units.Unit
}

// SI returns the value converted to linear SI units.
func (v Value) SI() float64 {
	return v.Unit.ToSI(v.Value)
}

// Field binds a display name and unit to a float field of the record T.
type Field[T any] struct {
	Name string
	Unit units.Unit
	Ref  func(*T) *float64
}

// Schema is the ordered field list of a parameter record.
type Schema[T any] []Field[T]

// Lookup returns the field called name.
func (s Schema[T]) Lookup(name string) (Field[T], bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Names returns the field names in schema order.
func (s Schema[T]) Names() []string {
	result := make([]string, len(s))
	for i, f := range s {
		result[i] = f.Name
	}
	return result
}

// Get reads the field called name from rec.
func (s Schema[T]) Get(rec *T, name string) (Value, bool) {
	f, ok := s.Lookup(name)
	if !ok {
		return Value{}, false
	}
	return Value{Name: f.Name, Value: *f.Ref(rec), Unit: f.Unit}, true
}

// Set stores value into the field called name of rec.
func (s Schema[T]) Set(rec *T, name string, value float64) error {
	f, ok := s.Lookup(name)
	if !ok {
		return &Error{Name: name, Err: ErrUnknownParameter}
	}
	*f.Ref(rec) = value
	return nil
}

// Values returns every field of rec in schema order.
func (s Schema[T]) Values(rec *T) []Value {
	result := make([]Value, len(s))
	for i, f := range s {
		result[i] = Value{Name: f.Name, Value: *f.Ref(rec), Unit: f.Unit}
	}
	return result
}

// ParseFloat parses a raw user value for parameter name. NaN and infinities
// are rejected.
func ParseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !units.IsFinite(v) {
		return 0, &Error{Name: name, Value: raw, Err: ErrInvalidValue}
	}
	return v, nil
}

// ParseInt parses a raw user value for an integer parameter such as a step count.
func ParseInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &Error{Name: name, Value: raw, Err: ErrInvalidValue}
	}
	return v, nil
}
