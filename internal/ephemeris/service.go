// Package ephemeris computes the diagram positions and descriptive facts the
// front-end looks up for a date.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/observability"
	"github.com/signalsfoundry/orrery/internal/storage"
	"github.com/signalsfoundry/orrery/kb"
	"github.com/signalsfoundry/orrery/model"
)

var (
	// ErrUnknownBody is returned for body ids not in the catalog.
	ErrUnknownBody = errors.New("unknown body")
	// ErrInvalidDate is returned for unparseable dates.
	ErrInvalidDate = core.ErrInvalidDate
)

// SnapshotCache stores computed snapshots by date. Load returns an error
// wrapping storage.ErrCacheMiss when the date has no entry.
type SnapshotCache interface {
	Load(ctx context.Context, date string) (model.PositionSnapshot, error)
	Store(ctx context.Context, snap model.PositionSnapshot) error
	Purge(ctx context.Context) error
}

// Service answers position, info and space-weather lookups.
type Service struct {
	catalog *kb.Catalog
	cache   SnapshotCache
	metrics *observability.EphemerisCollector
	log     logging.Logger

	unsubscribe func()
}

// ServiceOption customises Service construction.
type ServiceOption func(*Service)

// WithCache attaches a snapshot cache. It is purged whenever a ring radius
// changes in the catalog.
func WithCache(c SnapshotCache) ServiceOption {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMetrics attaches an optional metrics collector.
func WithMetrics(m *observability.EphemerisCollector) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService builds a service over catalog.
func NewService(catalog *kb.Catalog, log logging.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logging.Noop()
	}
	s := &Service{catalog: catalog, log: log.With(logging.String("component", "ephemeris"))}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cache != nil {
		s.unsubscribe = catalog.Subscribe(s.onCatalogEvent)
	}
	return s
}

// Close detaches the service from catalog events.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Service) onCatalogEvent(ev kb.Event) {
	ctx := context.Background()
	if err := s.cache.Purge(ctx); err != nil {
		s.log.Warn(ctx, "snapshot cache purge failed", logging.Err(err))
		return
	}
	s.log.Info(ctx, "snapshot cache purged",
		logging.String("body", string(ev.Body.ID)),
		logging.Float64("ring_radius", ev.Body.RingRadius))
}

// Positions returns the diagram position of every planet on date.
func (s *Service) Positions(ctx context.Context, date string) (model.PositionSnapshot, error) {
	day, norm, err := core.NormalizeDate(date)
	if err != nil {
		return model.PositionSnapshot{}, err
	}
	ctx, span := observability.StartSpan(ctx, "ephemeris.Positions", attribute.String("date", norm))
	defer span.End()

	if s.cache != nil {
		snap, err := s.cache.Load(ctx, norm)
		switch {
		case err == nil:
			s.metrics.ObserveCache(true)
			return snap, nil
		case errors.Is(err, storage.ErrCacheMiss):
			s.metrics.ObserveCache(false)
		default:
			s.log.Warn(ctx, "snapshot cache read failed", logging.String("date", norm), logging.Err(err))
		}
	}

	start := time.Now()
	snap := s.compute(day, norm)
	s.metrics.ObserveComputation("positions", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Store(ctx, snap); err != nil {
			s.log.Warn(ctx, "snapshot cache write failed", logging.String("date", norm), logging.Err(err))
		}
	}
	return snap, nil
}

func (s *Service) compute(day time.Time, date string) model.PositionSnapshot {
	snap := model.PositionSnapshot{Date: date, Positions: make(map[model.BodyID]model.Polar)}
	for _, b := range s.catalog.Planets() {
		st := Propagate(*b.Elements, day)
		snap.Positions[b.ID] = model.Polar{Radius: b.RingRadius, Angle: st.Longitude}
	}
	return snap
}

// PlanetInfo returns the descriptive facts of body on date.
func (s *Service) PlanetInfo(ctx context.Context, body model.BodyID, date string) (model.PlanetInfo, error) {
	id, err := model.ParseBodyID(string(body))
	if err != nil {
		return model.PlanetInfo{}, fmt.Errorf("%w: %v", ErrUnknownBody, err)
	}
	facts, ok := s.catalog.Get(id)
	if !ok {
		return model.PlanetInfo{}, fmt.Errorf("%w: %q", ErrUnknownBody, body)
	}
	day, norm, err := core.NormalizeDate(date)
	if err != nil {
		return model.PlanetInfo{}, err
	}
	_, span := observability.StartSpan(ctx, "ephemeris.PlanetInfo",
		attribute.String("body", string(id)), attribute.String("date", norm))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveComputation("info", time.Since(start)) }()

	info := model.PlanetInfo{
		Planet:           id,
		Date:             norm,
		DayLengthHours:   facts.DayLengthHours,
		YearLengthDays:   facts.YearLengthDays,
		Gravity:          facts.Gravity,
		MeanTemperatureC: facts.MeanTemperatureC,
		Moons:            facts.Moons,
		Atmosphere:       facts.Atmosphere,
		Composition:      facts.Composition,
	}
	if facts.Elements == nil {
		return info, nil
	}

	st := Propagate(*facts.Elements, day)
	info.YearProgress = st.MeanAnomaly / (2 * math.Pi)
	info.DayOfYearEarth = info.YearProgress * facts.YearLengthDays
	if facts.DayLengthHours > 0 {
		info.YearLengthLocalDays = facts.YearLengthDays * 24 / facts.DayLengthHours
		info.DayOfYearLocal = info.DayOfYearEarth * 24 / facts.DayLengthHours
	}
	return info, nil
}

// SpaceWeather returns the next predicted geomagnetic storm after date.
func (s *Service) SpaceWeather(ctx context.Context, date string) (model.SpaceWeather, error) {
	day, norm, err := core.NormalizeDate(date)
	if err != nil {
		return model.SpaceWeather{}, err
	}
	_, span := observability.StartSpan(ctx, "ephemeris.SpaceWeather", attribute.String("date", norm))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveComputation("space_weather", time.Since(start)) }()

	return model.SpaceWeather{Date: norm, NextStorm: NextStorm(day)}, nil
}
