package observability

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EphemerisCollector exposes metrics for position and info computations.
type EphemerisCollector struct {
	gatherer prometheus.Gatherer

	ComputationDuration *prometheus.HistogramVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	CacheHitRatio       prometheus.Gauge

	mu           sync.Mutex
	hits, misses float64
}

// NewEphemerisCollector registers ephemeris metrics against the provided registerer.
func NewEphemerisCollector(reg prometheus.Registerer) (*EphemerisCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orrery_ephemeris_computation_duration_seconds",
		Help:    "Duration of ephemeris computations, labeled by kind (positions, info, space_weather).",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"kind"})
	durations, err := registerHistogramVec(reg, durations, "orrery_ephemeris_computation_duration_seconds")
	if err != nil {
		return nil, err
	}

	hits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_snapshot_cache_hits_total",
		Help: "Number of position snapshots served from the cache.",
	}), "orrery_snapshot_cache_hits_total")
	if err != nil {
		return nil, err
	}

	misses, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_snapshot_cache_misses_total",
		Help: "Number of position snapshots computed because the cache had no entry.",
	}), "orrery_snapshot_cache_misses_total")
	if err != nil {
		return nil, err
	}

	ratio, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_snapshot_cache_hit_ratio",
		Help: "Hit ratio for the position snapshot cache.",
	}), "orrery_snapshot_cache_hit_ratio")
	if err != nil {
		return nil, err
	}

	return &EphemerisCollector{
		gatherer:            gatherer,
		ComputationDuration: durations,
		CacheHits:           hits,
		CacheMisses:         misses,
		CacheHitRatio:       ratio,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *EphemerisCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveComputation records a computation duration for kind.
func (c *EphemerisCollector) ObserveComputation(kind string, d time.Duration) {
	if c == nil || c.ComputationDuration == nil {
		return
	}
	c.ComputationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveCache counts a cache lookup and refreshes the hit ratio.
func (c *EphemerisCollector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
		if c.CacheHits != nil {
			c.CacheHits.Inc()
		}
	} else {
		c.misses++
		if c.CacheMisses != nil {
			c.CacheMisses.Inc()
		}
	}
	if c.CacheHitRatio != nil {
		c.CacheHitRatio.Set(c.hits / (c.hits + c.misses))
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
