package params_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiless/illumcalc/params"
	"github.com/wiless/illumcalc/units"
)

type box struct {
	width, height float64
}

var boxSchema = params.Schema[box]{
	{Name: "Width (mm)", Unit: units.Millimeter, Ref: func(b *box) *float64 { return &b.width }},
	{Name: "Height (mm)", Unit: units.Millimeter, Ref: func(b *box) *float64 { return &b.height }},
}

func TestSchemaGetSet(t *testing.T) {
	b := box{width: 3, height: 4}

	v, ok := boxSchema.Get(&b, "Height (mm)")
	require.True(t, ok)
	assert.Equal(t, 4.0, v.Value)
	assert.InDelta(t, 0.004, v.SI(), 1e-15)

	require.NoError(t, boxSchema.Set(&b, "Width (mm)", 7))
	assert.Equal(t, 7.0, b.width)

	err := boxSchema.Set(&b, "Depth (mm)", 1)
	assert.True(t, errors.Is(err, params.ErrUnknownParameter))

	_, ok = boxSchema.Get(&b, "Depth (mm)")
	assert.False(t, ok)
}

func TestSchemaOrder(t *testing.T) {
	b := box{width: 1, height: 2}
	assert.Equal(t, []string{"Width (mm)", "Height (mm)"}, boxSchema.Names())

	vals := boxSchema.Values(&b)
	require.Len(t, vals, 2)
	assert.Equal(t, "Width (mm)", vals[0].Name)
	assert.Equal(t, 2.0, vals[1].Value)
}

func TestParseFloat(t *testing.T) {
	v, err := params.ParseFloat("Q", " 24.5 ")
	require.NoError(t, err)
	assert.Equal(t, 24.5, v)

	for _, raw := range []string{"", "abc", "1,5", "NaN", "inf", "-Inf"} {
		_, err := params.ParseFloat("Q", raw)
		assert.True(t, errors.Is(err, params.ErrInvalidValue), raw)

		var perr *params.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "Q", perr.Name)
	}
}

func TestParseInt(t *testing.T) {
	v, err := params.ParseInt("Sweep Steps", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	_, err = params.ParseInt("Sweep Steps", "2.5")
	assert.True(t, errors.Is(err, params.ErrInvalidValue))
}
