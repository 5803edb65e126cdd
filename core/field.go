package core

import "math"

const (
	// InverseGoldenRatio spreads successive angles with low discrepancy.
	InverseGoldenRatio = 0.6180339887498949

	// FieldPadding keeps scatter points clear of the bounding rings.
	FieldPadding = 6.0

	// FallbackInnerRadius and FallbackOuterRadius bound the band when the
	// Mars and Jupiter rings cannot be found.
	FallbackInnerRadius = 290.0
	FallbackOuterRadius = 400.0

	fieldJitter  = 0.08 // fraction of the band width
	fieldMinSize = 0.6
	fieldMaxSize = 1.8
)

// FieldPoint is one decorative scatter point.
type FieldPoint struct {
	Angle  float64
	Radius float64
	Size   float64
}

// FieldConfig describes the band to fill.
type FieldConfig struct {
	Count     int
	Gap       float64
	MinRadius float64
	MaxRadius float64
}

// WithFallback substitutes the fallback ring pair for missing radii.
func (c FieldConfig) WithFallback() FieldConfig {
	if c.MinRadius <= 0 || math.IsNaN(c.MinRadius) {
		c.MinRadius = FallbackInnerRadius
	}
	if c.MaxRadius <= 0 || math.IsNaN(c.MaxRadius) {
		c.MaxRadius = FallbackOuterRadius
	}
	return c
}

// Band returns the radius interval points are confined to. When padding
// empties the band it is halved once; ok is false when the band is still
// empty.
func (c FieldConfig) Band() (lo, hi float64, ok bool) {
	pad := FieldPadding
	for attempt := 0; attempt < 2; attempt++ {
		lo = c.MinRadius + c.Gap + pad
		hi = c.MaxRadius - c.Gap - pad
		if hi > lo {
			return lo, hi, true
		}
		pad /= 2
	}
	return lo, hi, false
}

// GenerateField produces the deterministic scatter for cfg. Identical
// inputs always yield identical output.
func GenerateField(cfg FieldConfig) []FieldPoint {
	cfg = cfg.WithFallback()
	if cfg.Count <= 0 {
		return nil
	}
	lo, hi, ok := cfg.Band()
	if !ok {
		return nil
	}

	width := hi - lo
	n := float64(cfg.Count)
	points := make([]FieldPoint, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		fi := float64(i)
		r := lo + (fi/n)*width + fieldJitter*width*signedHash(fi)
		points[i] = FieldPoint{
			Angle:  frac(fi*InverseGoldenRatio) * 2 * math.Pi,
			Radius: clamp(r, lo, hi),
			Size:   fieldMinSize + unitHash(fi*78.233+1.618)*(fieldMaxSize-fieldMinSize),
		}
	}
	return points
}

// unitHash is the usual sine hash folded into [0, 1).
func unitHash(x float64) float64 {
	return frac(math.Sin(x*12.9898) * 43758.5453)
}

// signedHash maps unitHash onto [-1, 1).
func signedHash(x float64) float64 {
	return unitHash(x)*2 - 1
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
