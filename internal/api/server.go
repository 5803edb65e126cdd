// Package api serves the orrery's HTTP backend: the position, planet-info
// and space-weather lookups as JSON, plus the page and its assets.
package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/observability"
	"github.com/signalsfoundry/orrery/internal/web/assets"
	"github.com/signalsfoundry/orrery/model"
	"github.com/signalsfoundry/orrery/timectrl"
)

// Lookup is the computation surface behind the JSON routes.
type Lookup interface {
	Positions(ctx context.Context, date string) (model.PositionSnapshot, error)
	PlanetInfo(ctx context.Context, body model.BodyID, date string) (model.PlanetInfo, error)
	SpaceWeather(ctx context.Context, date string) (model.SpaceWeather, error)
}

// Server holds the handlers' collaborators.
type Server struct {
	lookup      Lookup
	log         logging.Logger
	metrics     *observability.ServerCollector
	rings       map[model.BodyID]float64
	annotations model.Annotations
	clock       timectrl.Clock
	wasmDir     string

	index *template.Template
}

// Option customises Server construction.
type Option func(*Server)

// WithMetrics records HTTP metrics and exposes /metrics.
func WithMetrics(c *observability.ServerCollector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithRings sets the orbit ring radii drawn on the page.
func WithRings(rings map[model.BodyID]float64) Option {
	return func(s *Server) {
		s.rings = rings
	}
}

// WithAnnotations sets the per-body annotations embedded in the page.
func WithAnnotations(a model.Annotations) Option {
	return func(s *Server) {
		s.annotations = a
	}
}

// WithClock overrides the clock that decides "today".
func WithClock(c timectrl.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithWASMDir serves the browser engine from dir under /wasm/. The
// directory must hold orrery.wasm and wasm_exec.js.
func WithWASMDir(dir string) Option {
	return func(s *Server) {
		s.wasmDir = dir
	}
}

// NewServer constructs a Server around lookup.
func NewServer(lookup Lookup, log logging.Logger, opts ...Option) (*Server, error) {
	if log == nil {
		log = logging.Noop()
	}
	index, err := assets.IndexTemplate()
	if err != nil {
		return nil, err
	}
	s := &Server{
		lookup: lookup,
		log:    log,
		clock:  timectrl.SystemClock{},
		index:  index,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID(s.log))
	r.Use(middleware.Recoverer)
	r.Use(Tracing)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(AccessLog)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
		r.Get("/planet-info", s.handlePlanetInfo)
		r.Get("/space-weather", s.handleSpaceWeather)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			s.fail(w, r, ErrNotFound)
		})
	})

	r.Get("/", s.handleIndex)
	r.Handle(assets.StaticPrefix+"*", http.StripPrefix(assets.StaticPrefix, http.FileServer(http.FS(assets.Static()))))
	if s.wasmDir != "" {
		r.Handle("/wasm/*", http.StripPrefix("/wasm/", http.FileServer(http.Dir(s.wasmDir))))
	}
	return r
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	date, err := requireParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.lookup.Positions(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePlanetInfo(w http.ResponseWriter, r *http.Request) {
	planet, err := requireParam(r, "planet")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	date, err := requireParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	info, err := s.lookup.PlanetInfo(r.Context(), model.BodyID(planet), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSpaceWeather(w http.ResponseWriter, r *http.Request) {
	date, err := requireParam(r, "date")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sw, err := s.lookup.SpaceWeather(r.Context(), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

// handleIndex renders the page for ?date=, or today when the parameter is
// absent or unparseable. A failed lookup still renders the page with every
// body parked at angle zero.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := requestLogger(r)

	today := core.CalendarDay(s.clock.Now())
	day := today
	if raw := r.URL.Query().Get("date"); raw != "" {
		if parsed, _, err := core.NormalizeDate(raw); err == nil {
			day = parsed
		} else {
			log.Debug(ctx, "index date rejected", logging.String("date", raw))
		}
	}

	snap, err := s.lookup.Positions(ctx, core.FormatDate(day))
	if err != nil {
		log.Warn(ctx, "index positions unavailable", logging.Err(err))
		snap = model.PositionSnapshot{}
	}

	page := assets.NewPage(day, today, snap, s.rings, s.annotations)
	page.WASM = s.wasmDir != ""

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, page); err != nil {
		log.Error(ctx, "render index", logging.Err(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := writeError(w, err)
	log := requestLogger(r)
	if code >= http.StatusInternalServerError {
		log.Error(r.Context(), "lookup failed", logging.Err(err))
		return
	}
	log.Debug(r.Context(), "request rejected", logging.Err(err), logging.Int("status", code))
}

func requireParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	return v, nil
}
