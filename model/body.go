package model

import (
	"fmt"
	"strings"
)

// BodyID identifies a rendered celestial body. It doubles as the DOM id of
// the body's marker.
type BodyID string

const (
	Sun     BodyID = "sun"
	Mercury BodyID = "mercury"
	Venus   BodyID = "venus"
	Earth   BodyID = "earth"
	Mars    BodyID = "mars"
	Jupiter BodyID = "jupiter"
	Saturn  BodyID = "saturn"
	Uranus  BodyID = "uranus"
	Neptune BodyID = "neptune"
)

// Planets lists the orbiting bodies from the innermost outwards.
var Planets = []BodyID{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune}

// Bodies lists every rendered body, the Sun first.
var Bodies = append([]BodyID{Sun}, Planets...)

// aliases maps alternative spellings onto canonical ids. Ephemeris tables
// name the giants by their barycentres.
var aliases = map[string]BodyID{
	"mars barycenter":    Mars,
	"jupiter barycenter": Jupiter,
	"saturn barycenter":  Saturn,
	"uranus barycenter":  Uranus,
	"neptune barycenter": Neptune,
	"sol":                Sun,
}

// ParseBodyID normalises user or request input into a known BodyID.
func ParseBodyID(raw string) (BodyID, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", fmt.Errorf("body id is required")
	}
	if id, ok := aliases[key]; ok {
		return id, nil
	}
	for _, id := range Bodies {
		if string(id) == key {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown body %q", raw)
}

// IsPlanet reports whether the body orbits the Sun in the diagram. The Sun
// sits at the centre and never carries a radius or angle.
func (id BodyID) IsPlanet() bool {
	for _, p := range Planets {
		if p == id {
			return true
		}
	}
	return false
}

// Title returns the display name of the body.
func (id BodyID) Title() string {
	if id == "" {
		return ""
	}
	return strings.ToUpper(string(id[:1])) + string(id[1:])
}
