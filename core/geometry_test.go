package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/orrery/model"
)

const eps = 1e-9

type fakeMarker struct {
	kind       MarkerKind
	w, h       float64
	cx, cy     float64
	x, y       float64
	centerSets int
	cornerSets int
}

func (m *fakeMarker) Kind() MarkerKind { return m.kind }

func (m *fakeMarker) Size() (float64, float64) { return m.w, m.h }

func (m *fakeMarker) SetCenter(x, y float64) {
	m.cx, m.cy = x, y
	m.centerSets++
}

func (m *fakeMarker) SetTopLeft(x, y float64) {
	m.x, m.y = x, y
	m.cornerSets++
}

type markerSet map[model.BodyID]*fakeMarker

func (s markerSet) Marker(id model.BodyID) (Marker, bool) {
	m, ok := s[id]
	if !ok {
		return nil, false
	}
	return m, true
}

func TestPolarToScreen_Formula(t *testing.T) {
	for _, c := range []float64{0, 450, 800} {
		for _, r := range []float64{1, 80, 300, 700} {
			for theta := -2 * math.Pi; theta <= 2*math.Pi; theta += 0.37 {
				got := PolarToScreen(c, r, theta)
				wantX := c + r*math.Cos(theta)
				wantY := c - r*math.Sin(theta)
				if math.Abs(got.X-wantX) > eps || math.Abs(got.Y-wantY) > eps {
					t.Fatalf("PolarToScreen(%v, %v, %v) = %+v, want (%v, %v)", c, r, theta, got, wantX, wantY)
				}
			}
		}
	}
}

func TestPolarToScreen_QuarterTurnPointsUp(t *testing.T) {
	got := PolarToScreen(800, 300, 1.5708)
	if math.Abs(got.X-800) > 0.01 || math.Abs(got.Y-500) > 0.01 {
		t.Fatalf("quarter turn landed at %+v, want (800, 500)", got)
	}
}

func TestMapperPlace_SpriteIsCentred(t *testing.T) {
	m := NewMapper(800)
	sprite := &fakeMarker{kind: SpriteMarker, w: 40, h: 20}
	m.Place(sprite, model.Saturn, model.Polar{Radius: 100, Angle: 0})

	if sprite.centerSets != 0 {
		t.Fatalf("sprite marker received a centre write")
	}
	if math.Abs(sprite.x-880) > eps || math.Abs(sprite.y-790) > eps {
		t.Fatalf("sprite top-left = (%v, %v), want (880, 790)", sprite.x, sprite.y)
	}
}

func TestMapperApply_FixedRadiusWins(t *testing.T) {
	m := NewMapper(800)
	m.SetFixedRadius(model.Earth, 230)
	earth := &fakeMarker{kind: PointMarker}
	mars := &fakeMarker{kind: PointMarker}

	moved := m.Apply(markerSet{model.Earth: earth, model.Mars: mars}, model.PositionSnapshot{
		Positions: map[model.BodyID]model.Polar{
			model.Earth: {Radius: 231.7, Angle: 0},
			model.Mars:  {Radius: 290, Angle: math.Pi},
		},
	})
	if moved != 2 {
		t.Fatalf("moved = %d, want 2", moved)
	}
	if math.Abs(earth.cx-1030) > eps || math.Abs(earth.cy-800) > eps {
		t.Fatalf("earth centre = (%v, %v), want ring radius 230 applied", earth.cx, earth.cy)
	}
	if math.Abs(mars.cx-510) > 1e-6 || math.Abs(mars.cy-800) > 1e-6 {
		t.Fatalf("mars centre = (%v, %v), want served radius 290 applied", mars.cx, mars.cy)
	}
}

func TestMapperApply_SkipsMissingMarkersAndBadPairs(t *testing.T) {
	m := NewMapper(800)
	earth := &fakeMarker{kind: PointMarker}

	moved := m.Apply(markerSet{model.Earth: earth}, model.PositionSnapshot{
		Positions: map[model.BodyID]model.Polar{
			model.Earth:   {Radius: math.NaN(), Angle: 0},
			model.Neptune: {Radius: 700, Angle: 1},
		},
	})
	if moved != 0 {
		t.Fatalf("moved = %d, want 0", moved)
	}
	if earth.centerSets != 0 {
		t.Fatalf("earth marker written despite NaN radius")
	}
	if got := m.Apply(nil, model.PositionSnapshot{}); got != 0 {
		t.Fatalf("Apply(nil) = %d, want 0", got)
	}
}

func TestMapperSetFixedRadius_IgnoresNonPositive(t *testing.T) {
	m := NewMapper(800)
	m.SetFixedRadius(model.Venus, 0)
	m.SetFixedRadius(model.Venus, -3)
	if _, ok := m.FixedRadius(model.Venus); ok {
		t.Fatalf("non-positive ring radius was registered")
	}
	if got := m.ResolveRadius(model.Venus, 170); got != 170 {
		t.Fatalf("ResolveRadius = %v, want served radius", got)
	}
}
