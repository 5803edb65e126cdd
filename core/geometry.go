package core

import (
	"math"

	"github.com/signalsfoundry/orrery/model"
)

// SceneSize is the width and height of the diagram in scene units.
const SceneSize = 1600.0

// SceneCenter is the diagram centre on both axes.
const SceneCenter = SceneSize / 2

// Point is a position on the rendering surface. Y grows downwards.
type Point struct {
	X, Y float64
}

// PolarToScreen maps a polar pair around centre c onto an inverted-y
// surface, so positive angles run counter-clockwise on screen.
func PolarToScreen(c float64, radius, angle float64) Point {
	return Point{
		X: c + radius*math.Cos(angle),
		Y: c - radius*math.Sin(angle),
	}
}

// MarkerKind selects which attributes a marker is positioned through.
type MarkerKind int

const (
	// PointMarker is positioned by its centre (an SVG circle).
	PointMarker MarkerKind = iota
	// SpriteMarker is positioned by its top-left corner (an SVG image).
	SpriteMarker
)

func (k MarkerKind) String() string {
	switch k {
	case PointMarker:
		return "point"
	case SpriteMarker:
		return "sprite"
	default:
		return "unknown"
	}
}

// Marker is the visual element of one body.
type Marker interface {
	Kind() MarkerKind
	// Size returns the sprite extent; point markers may return zeros.
	Size() (w, h float64)
	SetCenter(x, y float64)
	SetTopLeft(x, y float64)
}

// MarkerLookup resolves a body's marker, reporting false when the document
// has none.
type MarkerLookup interface {
	Marker(id model.BodyID) (Marker, bool)
}

// Mapper writes polar positions onto markers.
type Mapper struct {
	Center float64

	fixed map[model.BodyID]float64
}

// NewMapper constructs a mapper around centre c.
func NewMapper(c float64) *Mapper {
	return &Mapper{Center: c, fixed: make(map[model.BodyID]float64)}
}

// SetFixedRadius registers the drawn ring radius of a body. Registered radii
// win over server-supplied ones so bodies sit exactly on their rings.
func (m *Mapper) SetFixedRadius(id model.BodyID, r float64) {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return
	}
	m.fixed[id] = r
}

// FixedRadius returns the registered ring radius, if any.
func (m *Mapper) FixedRadius(id model.BodyID) (float64, bool) {
	r, ok := m.fixed[id]
	return r, ok
}

// ResolveRadius applies the radius policy for one body.
func (m *Mapper) ResolveRadius(id model.BodyID, served float64) float64 {
	if r, ok := m.fixed[id]; ok {
		return r
	}
	return served
}

// Locate returns the screen point for a body without touching any marker.
func (m *Mapper) Locate(id model.BodyID, p model.Polar) Point {
	return PolarToScreen(m.Center, m.ResolveRadius(id, p.Radius), p.Angle)
}

// Place positions a single marker.
func (m *Mapper) Place(marker Marker, id model.BodyID, p model.Polar) {
	if marker == nil {
		return
	}
	pt := m.Locate(id, p)
	switch marker.Kind() {
	case SpriteMarker:
		w, h := marker.Size()
		marker.SetTopLeft(pt.X-w/2, pt.Y-h/2)
	default:
		marker.SetCenter(pt.X, pt.Y)
	}
}

// Apply positions every body of the snapshot that has a marker. Entries
// without a marker or with an unusable polar pair are skipped. It returns
// the number of markers moved.
func (m *Mapper) Apply(markers MarkerLookup, snap model.PositionSnapshot) int {
	if markers == nil {
		return 0
	}
	moved := 0
	for id, p := range snap.Positions {
		if !p.Valid() && !m.hasFixed(id, p) {
			continue
		}
		marker, ok := markers.Marker(id)
		if !ok || marker == nil {
			continue
		}
		m.Place(marker, id, p)
		moved++
	}
	return moved
}

// hasFixed accepts a pair whose served radius is unusable when a ring radius
// replaces it anyway.
func (m *Mapper) hasFixed(id model.BodyID, p model.Polar) bool {
	if _, ok := m.fixed[id]; !ok {
		return false
	}
	return !math.IsNaN(p.Angle) && !math.IsInf(p.Angle, 0)
}
