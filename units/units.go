// Package units holds the physical constants and the display-unit tags used
// by the feed and aperture parameters.
package units

import (
	"math"
	"strings"

	"github.com/wiless/vlib"
)

// SpeedOfLight in m/s
const SpeedOfLight = 299792458.0

// Unit is the display unit a parameter value is stored in.
type Unit int

const (
	Dimensionless Unit = iota
	Millimeter
	Gigahertz
	Degree
	DBi
)

// Units holds the label token of each Unit, in the priority order used by FromLabel.
var Units = [...]string{
	"",
	"mm",
	"GHz",
	"Deg",
	"dBi",
}

func (u Unit) String() string {
	if int(u) < 0 || int(u) >= len(Units) {
		return "Unknown-Unit"
	}
	return Units[u]
}

// ToSI converts a value stored in unit u to linear SI (m, Hz, rad, ratio).
func (u Unit) ToSI(value float64) float64 {
	switch u {
	case Millimeter:
		return value * 1e-3
	case Gigahertz:
		return value * 1e9
	case Degree:
		return vlib.ToRadian(value)
	case DBi:
		return vlib.InvDb(value)
	default:
		return value
	}
}

// FromSI is the inverse of ToSI.
func (u Unit) FromSI(value float64) float64 {
	switch u {
	case Millimeter:
		return value * 1e3
	case Gigahertz:
		return value * 1e-9
	case Degree:
		return vlib.ToDegree(value)
	case DBi:
		return vlib.Db(value)
	default:
		return value
	}
}

// FromLabel derives the unit from a parameter label such as "Radius (mm)".
// Matching is case-sensitive and the first token found in Units order wins,
// so "HPBW (deg)" is Dimensionless.
func FromLabel(label string) Unit {
	for u := Millimeter; int(u) < len(Units); u++ {
		if strings.Contains(label, Units[u]) {
			return u
		}
	}
	return Dimensionless
}

// LinearSI converts a value stored under label to linear SI using the label convention.
func LinearSI(label string, value float64) float64 {
	return FromLabel(label).ToSI(value)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
