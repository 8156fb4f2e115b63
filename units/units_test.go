package units_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wiless/illumcalc/units"
)

func TestFromLabel(t *testing.T) {
	cases := map[string]units.Unit{
		"Radius (mm)":     units.Millimeter,
		"Freq (GHz)":      units.Gigahertz,
		"PosTheta (Deg)":  units.Degree,
		"Gain (dBi)":      units.DBi,
		"Q":               units.Dimensionless,
		"HPBW (deg)":      units.Dimensionless,
		"Sweep Start":     units.Dimensionless,
		"Wavelength (mm)": units.Millimeter,
	}
	for label, want := range cases {
		assert.Equal(t, want, units.FromLabel(label), label)
	}
}

func TestFromLabelPriority(t *testing.T) {
	// mm is checked before GHz, Deg and dBi
	assert.Equal(t, units.Millimeter, units.FromLabel("odd (GHz mm)"))
	assert.Equal(t, units.Gigahertz, units.FromLabel("odd (Deg GHz)"))
	assert.Equal(t, units.Degree, units.FromLabel("odd (dBi Deg)"))
}

func TestLinearSI(t *testing.T) {
	assert.InDelta(t, 0.5, units.LinearSI("Radius (mm)", 500), 1e-15)
	assert.InDelta(t, 2.5e9, units.LinearSI("Freq (GHz)", 2.5), 1e-3)
	assert.InDelta(t, math.Pi/2, units.LinearSI("PosPhi (Deg)", 90), 1e-15)
	assert.InDelta(t, 100.0, units.LinearSI("Gain (dBi)", 20), 1e-12)
	assert.Equal(t, 24.5, units.LinearSI("Q", 24.5))
}

func TestToSIRoundTrip(t *testing.T) {
	for u := units.Dimensionless; u <= units.DBi; u++ {
		for _, v := range []float64{-3.5, 0.25, 1, 17} {
			assert.InDelta(t, v, u.FromSI(u.ToSI(v)), 1e-12, u.String())
		}
	}
}

func TestUnitString(t *testing.T) {
	assert.Equal(t, "GHz", units.Gigahertz.String())
	assert.Equal(t, "Unknown-Unit", units.Unit(42).String())
}
