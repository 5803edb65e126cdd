package kb

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/orrery/model"
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventBodyUpdated EventType = iota
)

// Event is emitted to subscribers when a body's facts change.
type Event struct {
	Type EventType
	Body BodyFacts
}

// Elements are mean Keplerian elements at J2000 with linear rates per Julian
// century. Angles are in degrees, distances in AU.
type Elements struct {
	SemiMajorAxis, SemiMajorAxisRate float64
	Eccentricity, EccentricityRate   float64
	Inclination, InclinationRate     float64
	MeanLongitude, MeanLongitudeRate float64
	PerihelionLong, PerihelionRate   float64
	AscendingNode, AscendingNodeRate float64
}

// BodyFacts is the static record of one body.
type BodyFacts struct {
	ID model.BodyID

	// RingRadius is the orbit ring radius on the diagram, in scene units.
	// Zero for the Sun.
	RingRadius float64

	DayLengthHours   float64
	YearLengthDays   float64
	Gravity          float64
	MeanTemperatureC float64
	Moons            int
	Atmosphere       string
	Composition      string

	Elements *Elements
}

// Catalog is an in-memory, thread-safe store of body facts.
type Catalog struct {
	mu sync.RWMutex

	bodies map[model.BodyID]*BodyFacts

	subs []func(Event)
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{bodies: make(map[model.BodyID]*BodyFacts)}
}

// NewSolarSystem returns a catalog preloaded with the Sun and the eight
// planets.
func NewSolarSystem() *Catalog {
	c := NewCatalog()
	for _, b := range solarSystem() {
		// Preloaded ids are unique.
		_ = c.Add(b)
	}
	return c
}

// Add inserts a body. It returns an error if the id already exists.
func (c *Catalog) Add(b BodyFacts) error {
	if b.ID == "" {
		return fmt.Errorf("body id is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bodies[b.ID]; exists {
		return fmt.Errorf("body with ID %q already exists", b.ID)
	}
	cp := b
	c.bodies[b.ID] = &cp
	return nil
}

// Get returns a copy of the body's facts.
func (c *Catalog) Get(id model.BodyID) (BodyFacts, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bodies[id]
	if !ok {
		return BodyFacts{}, false
	}
	return *b, true
}

// Planets returns the orbiting bodies sorted by ring radius.
func (c *Catalog) Planets() []BodyFacts {
	c.mu.RLock()
	res := make([]BodyFacts, 0, len(c.bodies))
	for _, b := range c.bodies {
		if b.Elements != nil {
			res = append(res, *b)
		}
	}
	c.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool { return res[i].RingRadius < res[j].RingRadius })
	return res
}

// RingRadii returns the diagram ring radius of every planet.
func (c *Catalog) RingRadii() map[model.BodyID]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[model.BodyID]float64, len(c.bodies))
	for id, b := range c.bodies {
		if b.RingRadius > 0 {
			out[id] = b.RingRadius
		}
	}
	return out
}

// SetRingRadius changes the diagram radius of a planet and notifies
// subscribers.
func (c *Catalog) SetRingRadius(id model.BodyID, r float64) error {
	if r <= 0 {
		return fmt.Errorf("ring radius for %q must be positive, got %v", id, r)
	}
	c.mu.Lock()
	b, ok := c.bodies[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("body with ID %q not found", id)
	}
	if b.Elements == nil {
		c.mu.Unlock()
		return fmt.Errorf("body %q has no orbit", id)
	}
	b.RingRadius = r
	event := Event{Type: EventBodyUpdated, Body: *b}
	subs := append([]func(Event){}, c.subs...)
	c.mu.Unlock()

	// Notify outside the lock so subscribers may read the catalog.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Subscribe registers a callback for catalog events. It returns an
// unsubscribe function.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
	idx := len(c.subs) - 1

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < 0 || idx >= len(c.subs) {
			return
		}
		c.subs = append(c.subs[:idx], c.subs[idx+1:]...)
		idx = -1
	}
}
