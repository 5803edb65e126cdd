package orrery

import (
	"context"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/model"
)

// DefaultFieldCount and DefaultFieldGap size the asteroid belt.
const (
	DefaultFieldCount = 220
	DefaultFieldGap   = 8.0
)

// Renderer moves markers for a snapshot and owns the decorative field.
type Renderer struct {
	ctx    context.Context
	scene  Scene
	mapper *core.Mapper
	log    logging.Logger
}

// NewRenderer builds a renderer around scene, registering every drawn orbit
// ring as the fixed radius of its body. ctx scopes its log records.
func NewRenderer(ctx context.Context, scene Scene, log logging.Logger) *Renderer {
	if log == nil {
		log = logging.Noop()
	}
	r := &Renderer{ctx: ctx, scene: scene, mapper: core.NewMapper(core.SceneCenter), log: log}
	r.LoadRings()
	return r
}

// Mapper exposes the coordinate mapper.
func (r *Renderer) Mapper() *core.Mapper { return r.mapper }

// LoadRings re-reads the orbit rings from the scene.
func (r *Renderer) LoadRings() {
	for _, id := range model.Planets {
		if radius, ok := r.scene.OrbitRadius(id); ok {
			r.mapper.SetFixedRadius(id, radius)
		}
	}
}

// Render places every body in snap. It returns the number of markers moved.
func (r *Renderer) Render(snap model.PositionSnapshot) int {
	moved := r.mapper.Apply(r.scene, snap)
	r.log.Debug(r.ctx, "positions rendered",
		logging.String("date", snap.Date),
		logging.Int("moved", moved),
		logging.Int("bodies", len(snap.Positions)),
	)
	return moved
}

// PopulateField fills the band between the Mars and Jupiter rings.
func (r *Renderer) PopulateField(count int, gap float64) []core.FieldPoint {
	cfg := core.FieldConfig{Count: count, Gap: gap}
	if radius, ok := r.scene.OrbitRadius(model.Mars); ok {
		cfg.MinRadius = radius
	}
	if radius, ok := r.scene.OrbitRadius(model.Jupiter); ok {
		cfg.MaxRadius = radius
	}
	points := core.GenerateField(cfg)
	r.scene.ReplaceField(points)
	return points
}
