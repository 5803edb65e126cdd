package model

import "math"

// Polar is a body's position on the diagram: radius in scene units and
// angle in radians, counter-clockwise from the positive x axis.
type Polar struct {
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"`
}

// Valid reports whether the pair can be placed on screen.
func (p Polar) Valid() bool {
	if math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) || p.Radius <= 0 {
		return false
	}
	return !math.IsNaN(p.Angle) && !math.IsInf(p.Angle, 0)
}

// PositionSnapshot is the full set of body positions for one date. A new
// snapshot supersedes the previous one wholesale.
type PositionSnapshot struct {
	Date      string           `json:"date"`
	Positions map[BodyID]Polar `json:"positions"`
}

// Clone returns a deep copy of the snapshot.
func (s PositionSnapshot) Clone() PositionSnapshot {
	out := PositionSnapshot{Date: s.Date, Positions: make(map[BodyID]Polar, len(s.Positions))}
	for id, p := range s.Positions {
		out.Positions[id] = p
	}
	return out
}
