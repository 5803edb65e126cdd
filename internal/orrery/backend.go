package orrery

import (
	"context"

	"github.com/signalsfoundry/orrery/model"
)

// Backend is the lookup surface the engine consumes. Calls block, so the
// engine only ever makes them off the UI loop.
type Backend interface {
	Positions(ctx context.Context, date string) (model.PositionSnapshot, error)
	PlanetInfo(ctx context.Context, body model.BodyID, date string) (model.PlanetInfo, error)
	SpaceWeather(ctx context.Context, date string) (model.SpaceWeather, error)
}
