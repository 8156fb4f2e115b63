package feed

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wiless/vlib"

	"github.com/wiless/illumcalc/params"
	"github.com/wiless/illumcalc/units"
)

// Parameter names of the CosThetaQ feed.
const (
	Freq       = "Freq (GHz)"
	Wavelength = "Wavelength (mm)"
	HPBW       = "HPBW (deg)"
	Gain       = "Gain (dBi)"
	Q          = "Q"
	PosX       = "PosX (mm)"
	PosY       = "PosY (mm)"
	PosZ       = "PosZ (mm)"
	PosR       = "PosR (mm)"
	PosTheta   = "PosTheta (Deg)"
	PosPhi     = "PosPhi (Deg)"
)

// QToGainLin is the boresight directivity of E = cos(theta)^q over the forward
// hemisphere, 4pi / (2pi/(2q+1)).
func QToGainLin(q float64) float64 {
	return 4*q + 2
}

// QToGainDBi is QToGainLin in dBi.
func QToGainDBi(q float64) float64 {
	return vlib.Db(QToGainLin(q))
}

// GainLinToQ inverts QToGainLin.
func GainLinToQ(gain float64) float64 {
	return (gain - 2) / 4
}

// GainDBiToQ inverts QToGainDBi.
func GainDBiToQ(gainDBi float64) float64 {
	return GainLinToQ(vlib.InvDb(gainDBi))
}

// QToHPBW returns the half power beamwidth in radians.
func QToHPBW(q float64) float64 {
	return 2 * math.Acos(math.Pow(2, -1/(2*q)))
}

// HPBWToQ returns q for a half power beamwidth in radians, taking the edge
// of the beam at -3 dB. It inverts QToHPBW only approximately (q is about
// 0.34% low).
func HPBWToQ(hpbw float64) float64 {
	return -3 / (20 * math.Log10(math.Cos(hpbw/2)))
}

// HPBWToGainDBi is the boresight gain for a half power beamwidth in radians.
func HPBWToGainDBi(hpbw float64) float64 {
	return QToGainDBi(HPBWToQ(hpbw))
}

type cosThetaQ struct {
	freqGHz, wavelengthMM float64
	hpbwDeg, gainDBi, q   float64
	x, y, z               float64
	r, thetaDeg, phiDeg   float64
}

var cosThetaQSchema = params.Schema[cosThetaQ]{
	{Name: Freq, Unit: units.Gigahertz, Ref: func(p *cosThetaQ) *float64 { return &p.freqGHz }},
	{Name: Wavelength, Unit: units.Millimeter, Ref: func(p *cosThetaQ) *float64 { return &p.wavelengthMM }},
	// tagged explicitly; FromLabel(HPBW) is Dimensionless.
	{Name: HPBW, Unit: units.Degree, Ref: func(p *cosThetaQ) *float64 { return &p.hpbwDeg }},
	{Name: Gain, Unit: units.DBi, Ref: func(p *cosThetaQ) *float64 { return &p.gainDBi }},
	{Name: Q, Unit: units.Dimensionless, Ref: func(p *cosThetaQ) *float64 { return &p.q }},
	{Name: PosX, Unit: units.Millimeter, Ref: func(p *cosThetaQ) *float64 { return &p.x }},
	{Name: PosY, Unit: units.Millimeter, Ref: func(p *cosThetaQ) *float64 { return &p.y }},
	{Name: PosZ, Unit: units.Millimeter, Ref: func(p *cosThetaQ) *float64 { return &p.z }},
	{Name: PosR, Unit: units.Millimeter, Ref: func(p *cosThetaQ) *float64 { return &p.r }},
	{Name: PosTheta, Unit: units.Degree, Ref: func(p *cosThetaQ) *float64 { return &p.thetaDeg }},
	{Name: PosPhi, Unit: units.Degree, Ref: func(p *cosThetaQ) *float64 { return &p.phiDeg }},
}

func newCosThetaQ() *cosThetaQ {
	p := &cosThetaQ{
		freqGHz: 1,
		hpbwDeg: 20,
		z:       1,
	}
	// defaults are consistent, so the cascades cannot fail here
	_ = p.cascade(Freq)
	_ = p.cascade(HPBW)
	_ = p.cascade(PosZ)
	return p
}

func (p *cosThetaQ) Kind() Kind { return CosThetaQ }

func (p *cosThetaQ) Values() []params.Value { return cosThetaQSchema.Values(p) }

func (p *cosThetaQ) Get(name string) (params.Value, bool) { return cosThetaQSchema.Get(p, name) }

func (p *cosThetaQ) Clone() Pattern {
	c := *p
	return &c
}

func (p *cosThetaQ) Set(name string, value float64) error {
	if !units.IsFinite(value) {
		return &params.Error{Name: name, Value: strconv.FormatFloat(value, 'g', -1, 64), Err: params.ErrInvalidValue}
	}
	snapshot := *p
	if err := cosThetaQSchema.Set(p, name, value); err != nil {
		return err
	}
	if err := p.cascade(name); err != nil {
		*p = snapshot
		return &params.Error{Name: name, Value: strconv.FormatFloat(value, 'g', -1, 64), Err: err}
	}
	return nil
}

// cascade recomputes every quantity that depends on name from name alone.
func (p *cosThetaQ) cascade(name string) error {
	switch name {
	case Freq:
		if p.freqGHz <= 0 {
			return fmt.Errorf("%w: frequency must be positive", ErrDomain)
		}
		p.wavelengthMM = units.Millimeter.FromSI(units.SpeedOfLight / units.Gigahertz.ToSI(p.freqGHz))
	case Wavelength:
		if p.wavelengthMM <= 0 {
			return fmt.Errorf("%w: wavelength must be positive", ErrDomain)
		}
		p.freqGHz = units.Gigahertz.FromSI(units.SpeedOfLight / units.Millimeter.ToSI(p.wavelengthMM))
	case Gain:
		q := GainDBiToQ(p.gainDBi)
		if err := checkQ(q); err != nil {
			return err
		}
		p.q = q
		p.hpbwDeg = vlib.ToDegree(QToHPBW(q))
	case HPBW:
		if p.hpbwDeg <= 0 || p.hpbwDeg >= 180 {
			return fmt.Errorf("%w: beamwidth must be in (0, 180) deg", ErrDomain)
		}
		q := HPBWToQ(vlib.ToRadian(p.hpbwDeg))
		if err := checkQ(q); err != nil {
			return err
		}
		p.q = q
		p.gainDBi = QToGainDBi(q)
	case Q:
		if err := checkQ(p.q); err != nil {
			return err
		}
		p.gainDBi = QToGainDBi(p.q)
		p.hpbwDeg = vlib.ToDegree(QToHPBW(p.q))
	case PosX, PosY, PosZ:
		p.toSpherical()
	case PosR, PosTheta, PosPhi:
		if p.r < 0 {
			return fmt.Errorf("%w: radius must not be negative", ErrDomain)
		}
		p.toCartesian()
	}

	for _, v := range p.Values() {
		if !units.IsFinite(v.Value) {
			return fmt.Errorf("%w: %s is undefined", ErrDomain, v.Name)
		}
	}
	return nil
}

func checkQ(q float64) error {
	if !(q > 0) || math.IsInf(q, 0) {
		return fmt.Errorf("%w: q = %g must be positive", ErrDomain, q)
	}
	return nil
}

// toSpherical keeps the previous angles at the origin, where they are undefined.
func (p *cosThetaQ) toSpherical() {
	loc := vlib.Location3D{X: p.x, Y: p.y, Z: p.z}
	p.r = loc.DistanceFrom(vlib.Origin3D)
	if p.r == 0 {
		return
	}
	cosTheta := math.Max(-1, math.Min(1, p.z/p.r))
	p.thetaDeg = vlib.ToDegree(math.Acos(cosTheta))
	p.phiDeg = vlib.ToDegree(math.Atan2(p.y, p.x))
}

func (p *cosThetaQ) toCartesian() {
	var loc vlib.Location3D
	loc.FromSpherical(p.r, p.thetaDeg, p.phiDeg)
	p.x, p.y, p.z = loc.X, loc.Y, loc.Z
}

// Amplitude is cos(theta)^q in the forward hemisphere and zero behind it.
func (p *cosThetaQ) Amplitude(theta float64) float64 {
	c := math.Cos(theta)
	if c <= 0 {
		return 0
	}
	return math.Pow(c, p.q)
}

func (p *cosThetaQ) Position() vlib.Location3D {
	return vlib.Location3D{
		X: units.Millimeter.ToSI(p.x),
		Y: units.Millimeter.ToSI(p.y),
		Z: units.Millimeter.ToSI(p.z),
	}
}
