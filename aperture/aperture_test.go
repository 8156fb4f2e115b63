package aperture_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiless/illumcalc/aperture"
	"github.com/wiless/illumcalc/params"
	"github.com/wiless/illumcalc/units"
)

func TestDefaults(t *testing.T) {
	a := aperture.New()
	assert.Equal(t, aperture.Circular, a.Kind())
	assert.Equal(t, []string{aperture.Radius}, a.Names())

	r, ok := a.LinearSI(aperture.Radius)
	require.True(t, ok)
	assert.InDelta(t, 1e-3, r, 1e-18)

	require.NoError(t, a.SetType(aperture.Square))
	assert.Equal(t, []string{aperture.Width}, a.Names())

	require.NoError(t, a.SetType(aperture.Rectangular))
	assert.Equal(t, []params.Value{
		{Name: aperture.XLength, Value: 2, Unit: units.Millimeter},
		{Name: aperture.YLength, Value: 1, Unit: units.Millimeter},
	}, a.Parameters())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, "Square Aperture", aperture.Square.String())
	assert.Equal(t, "Unknown-ApertureType", aperture.Kind(0).String())

	for _, s := range []string{"rectangular", "Rectangular Aperture", " RECTANGULAR "} {
		k, err := aperture.ParseKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, aperture.Rectangular, k)
	}
	_, err := aperture.ParseKind("elliptical")
	assert.True(t, errors.Is(err, aperture.ErrUnsupportedKind))
}

func TestSetTypeResets(t *testing.T) {
	a := aperture.New()
	require.NoError(t, a.UpdateParameter(aperture.Radius, "500"))
	require.NoError(t, a.SetType(aperture.Circular))
	v, _ := a.Value(aperture.Radius)
	assert.Equal(t, 1.0, v)

	err := a.SetType(aperture.Kind(9))
	assert.True(t, errors.Is(err, aperture.ErrUnsupportedKind))
	assert.Equal(t, aperture.Circular, a.Kind())
}

func TestUpdateParameter(t *testing.T) {
	a := aperture.New()
	require.NoError(t, a.UpdateParameter(aperture.Radius, "250.5"))
	v, _ := a.Value(aperture.Radius)
	assert.Equal(t, 250.5, v)

	before := a.Parameters()
	err := a.UpdateParameter(aperture.Radius, "wide")
	assert.True(t, errors.Is(err, params.ErrInvalidValue))
	assert.Equal(t, before, a.Parameters())

	err = a.UpdateParameter(aperture.Width, "3")
	assert.True(t, errors.Is(err, params.ErrUnknownParameter))
	assert.Equal(t, before, a.Parameters())

	_, ok := a.LinearSI(aperture.Width)
	assert.False(t, ok)
}

func TestInvalidInputLeavesApertureUnchanged(t *testing.T) {
	for _, k := range []aperture.Kind{aperture.Circular, aperture.Square, aperture.Rectangular} {
		a := aperture.New()
		require.NoError(t, a.SetType(k))
		for _, name := range a.Names() {
			before := a.Parameters()
			for _, raw := range []string{"wide", "", "NaN", "+Inf"} {
				err := a.UpdateParameter(name, raw)
				assert.True(t, errors.Is(err, params.ErrInvalidValue), "%s %s %q", k, name, raw)
				assert.Equal(t, before, a.Parameters(), "%s %s %q", k, name, raw)
			}
		}
	}
}

func TestClone(t *testing.T) {
	a := aperture.New()
	require.NoError(t, a.SetType(aperture.Rectangular))
	c := a.Clone()
	require.NoError(t, c.UpdateParameter(aperture.XLength, "10"))

	v, _ := a.Value(aperture.XLength)
	assert.Equal(t, 2.0, v)
	v, _ = c.Value(aperture.XLength)
	assert.Equal(t, 10.0, v)
}

func TestZeroValue(t *testing.T) {
	var a aperture.Aperture
	assert.Equal(t, aperture.Kind(0), a.Kind())
	assert.Empty(t, a.Names())
	assert.True(t, errors.Is(a.SetParameter(aperture.Radius, 1), aperture.ErrUnsupportedKind))
	assert.Equal(t, aperture.Kind(0), a.Clone().Kind())
}
