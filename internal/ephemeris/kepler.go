package ephemeris

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/signalsfoundry/orrery/kb"
)

// J2000 is the Julian day of 2000-01-01 12:00 TT.
const J2000 = 2451545.0

const (
	keplerTolerance = 1e-10
	keplerMaxIter   = 50
)

// JulianDay returns the Julian day of t in UTC.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	return satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// Centuries returns Julian centuries since J2000.
func Centuries(t time.Time) float64 {
	return (JulianDay(t) - J2000) / 36525.0
}

// OrbitState is a body's heliocentric state on a date.
type OrbitState struct {
	// Position is ecliptic J2000 in AU.
	Position r3.Vec
	// MeanAnomaly is in radians, normalised to [0, 2π).
	MeanAnomaly float64
	// Longitude is the ecliptic longitude in radians, in (-π, π].
	Longitude float64
}

// Propagate evaluates the mean elements at t.
func Propagate(el kb.Elements, t time.Time) OrbitState {
	T := Centuries(t)
	a := el.SemiMajorAxis + el.SemiMajorAxisRate*T
	e := el.Eccentricity + el.EccentricityRate*T
	inc := deg2rad(el.Inclination + el.InclinationRate*T)
	L := el.MeanLongitude + el.MeanLongitudeRate*T
	peri := el.PerihelionLong + el.PerihelionRate*T
	node := deg2rad(el.AscendingNode + el.AscendingNodeRate*T)

	M := normalizeAngle(deg2rad(L - peri))
	omega := deg2rad(peri) - node
	E := SolveKepler(M, e)

	// Position in the orbital plane, perihelion along +x.
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(omega), math.Sin(omega)
	cn, sn := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(inc), math.Sin(inc)
	P := r3.Vec{X: cw*cn - sw*sn*ci, Y: cw*sn + sw*cn*ci, Z: sw * si}
	Q := r3.Vec{X: -sw*cn - cw*sn*ci, Y: -sw*sn + cw*cn*ci, Z: cw * si}
	pos := r3.Add(r3.Scale(xp, P), r3.Scale(yp, Q))

	return OrbitState{
		Position:    pos,
		MeanAnomaly: M,
		Longitude:   math.Atan2(pos.Y, pos.X),
	}
}

// Distance returns the heliocentric distance in AU.
func (s OrbitState) Distance() float64 {
	return r3.Norm(s.Position)
}

// SolveKepler solves E − e·sin E = M for E by Newton–Raphson.
func SolveKepler(M, e float64) float64 {
	E := M
	if e > 0.8 {
		E = math.Pi
	}
	for i := 0; i < keplerMaxIter; i++ {
		d := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= d
		if math.Abs(d) < keplerTolerance {
			break
		}
	}
	return E
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func normalizeAngle(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}
