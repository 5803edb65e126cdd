package orrery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/model"
	"github.com/signalsfoundry/orrery/timectrl"
)

const awaitTimeout = 2 * time.Second

// ---- backend ----

type positionsReply struct {
	snap model.PositionSnapshot
	err  error
}

type positionsCall struct {
	date  string
	reply chan positionsReply
}

type infoReply struct {
	info model.PlanetInfo
	err  error
}

type infoCall struct {
	body  model.BodyID
	date  string
	reply chan infoReply
}

type weatherReply struct {
	sw  model.SpaceWeather
	err error
}

type weatherCall struct {
	date  string
	reply chan weatherReply
}

// fakeBackend hands every call to the test, which answers it explicitly.
type fakeBackend struct {
	positions chan positionsCall
	info      chan infoCall
	weather   chan weatherCall
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		positions: make(chan positionsCall, 16),
		info:      make(chan infoCall, 16),
		weather:   make(chan weatherCall, 16),
	}
}

func (b *fakeBackend) Positions(ctx context.Context, date string) (model.PositionSnapshot, error) {
	call := positionsCall{date: date, reply: make(chan positionsReply, 1)}
	b.positions <- call
	r := <-call.reply
	return r.snap, r.err
}

func (b *fakeBackend) PlanetInfo(ctx context.Context, body model.BodyID, date string) (model.PlanetInfo, error) {
	call := infoCall{body: body, date: date, reply: make(chan infoReply, 1)}
	b.info <- call
	r := <-call.reply
	return r.info, r.err
}

func (b *fakeBackend) SpaceWeather(ctx context.Context, date string) (model.SpaceWeather, error) {
	call := weatherCall{date: date, reply: make(chan weatherReply, 1)}
	b.weather <- call
	r := <-call.reply
	return r.sw, r.err
}

func (b *fakeBackend) nextPositions(t *testing.T) positionsCall {
	t.Helper()
	select {
	case c := <-b.positions:
		return c
	case <-time.After(awaitTimeout):
		t.Fatalf("timed out waiting for a position lookup")
		return positionsCall{}
	}
}

// positionCalls collects n lookups keyed by date.
func (b *fakeBackend) positionCalls(t *testing.T, n int) map[string]positionsCall {
	t.Helper()
	out := make(map[string]positionsCall, n)
	for i := 0; i < n; i++ {
		c := b.nextPositions(t)
		out[c.date] = c
	}
	return out
}

func (b *fakeBackend) infoCalls(t *testing.T, n int) map[model.BodyID]infoCall {
	t.Helper()
	out := make(map[model.BodyID]infoCall, n)
	for i := 0; i < n; i++ {
		select {
		case c := <-b.info:
			out[c.body] = c
		case <-time.After(awaitTimeout):
			t.Fatalf("timed out waiting for an info lookup")
		}
	}
	return out
}

func (b *fakeBackend) nextWeather(t *testing.T) weatherCall {
	t.Helper()
	select {
	case c := <-b.weather:
		return c
	case <-time.After(awaitTimeout):
		t.Fatalf("timed out waiting for a space weather lookup")
		return weatherCall{}
	}
}

func (b *fakeBackend) assertNoPositions(t *testing.T) {
	t.Helper()
	select {
	case c := <-b.positions:
		t.Fatalf("unexpected position lookup for %q", c.date)
	case <-time.After(20 * time.Millisecond):
	}
}

func snapshot(date string, positions map[model.BodyID]model.Polar) model.PositionSnapshot {
	return model.PositionSnapshot{Date: date, Positions: positions}
}

// ---- views ----

type fakeField struct{ value string }

func (f *fakeField) Value() string     { return f.value }
func (f *fakeField) SetValue(v string) { f.value = v }

type fakeHistory struct {
	location string
	pushes   []string
	replaces []string
	reloads  []string
}

func (h *fakeHistory) Location() string { return h.location }

func (h *fakeHistory) Push(date string) {
	h.location = date
	h.pushes = append(h.pushes, date)
}

func (h *fakeHistory) Replace(date string) {
	h.location = date
	h.replaces = append(h.replaces, date)
}

func (h *fakeHistory) Reload(date string) { h.reloads = append(h.reloads, date) }

type shownPhase struct {
	phase core.Phase
	date  string
}

type fakeMoon struct{ shown []shownPhase }

func (m *fakeMoon) ShowPhase(p core.Phase, date string) {
	m.shown = append(m.shown, shownPhase{p, date})
}

type fakeMarker struct {
	kind       core.MarkerKind
	w, h       float64
	cx, cy     float64
	x, y       float64
	placements int
}

func (m *fakeMarker) Kind() core.MarkerKind { return m.kind }

func (m *fakeMarker) Size() (float64, float64) { return m.w, m.h }

func (m *fakeMarker) SetCenter(x, y float64) {
	m.cx, m.cy = x, y
	m.placements++
}

func (m *fakeMarker) SetTopLeft(x, y float64) {
	m.x, m.y = x, y
	m.placements++
}

type fakeScene struct {
	markers map[model.BodyID]*fakeMarker
	rings   map[model.BodyID]float64
	field   []core.FieldPoint
	fills   int
}

func newFakeScene() *fakeScene {
	s := &fakeScene{markers: make(map[model.BodyID]*fakeMarker), rings: make(map[model.BodyID]float64)}
	for _, id := range model.Bodies {
		s.markers[id] = &fakeMarker{kind: core.PointMarker}
	}
	return s
}

func (s *fakeScene) Marker(id model.BodyID) (core.Marker, bool) {
	m, ok := s.markers[id]
	if !ok {
		return nil, false
	}
	return m, true
}

func (s *fakeScene) OrbitRadius(id model.BodyID) (float64, bool) {
	r, ok := s.rings[id]
	return r, ok
}

func (s *fakeScene) ReplaceField(points []core.FieldPoint) {
	s.field = append([]core.FieldPoint(nil), points...)
	s.fills++
}

type fakePopup struct {
	mu       sync.Mutex
	visible  bool
	loading  []model.BodyID
	contents []PopupContent
	errors   []string
	moves    []core.Point
	w, h     float64
	viewport Rect
	escape   func()
	detached int
}

func newFakePopup() *fakePopup {
	return &fakePopup{w: 200, h: 120, viewport: Rect{W: 1024, H: 768}}
}

func (p *fakePopup) ShowLoading(body model.BodyID) {
	p.visible = true
	p.loading = append(p.loading, body)
}

func (p *fakePopup) ShowContent(c PopupContent) { p.contents = append(p.contents, c) }

func (p *fakePopup) ShowError(msg string) { p.errors = append(p.errors, msg) }

func (p *fakePopup) Hide() { p.visible = false }

func (p *fakePopup) Measure() (float64, float64) { return p.w, p.h }

func (p *fakePopup) Viewport() Rect { return p.viewport }

func (p *fakePopup) MoveTo(pt core.Point) { p.moves = append(p.moves, pt) }

func (p *fakePopup) AttachEscape(fn func()) { p.setEscape(fn) }

func (p *fakePopup) DetachEscape() {
	p.setEscape(nil)
	p.detached++
}

func (p *fakePopup) setEscape(fn func()) {
	p.mu.Lock()
	p.escape = fn
	p.mu.Unlock()
}

func (p *fakePopup) pressEscape() bool {
	p.mu.Lock()
	fn := p.escape
	p.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

func (p *fakePopup) lastContent(t *testing.T) PopupContent {
	t.Helper()
	if len(p.contents) == 0 {
		t.Fatalf("popup never showed content")
	}
	return p.contents[len(p.contents)-1]
}

type fakeCalendar struct {
	visible bool
	grids   []MonthGrid
}

func (c *fakeCalendar) Render(g MonthGrid) { c.grids = append(c.grids, g) }

func (c *fakeCalendar) Show() { c.visible = true }

func (c *fakeCalendar) Hide() { c.visible = false }

type fakeCRT struct{ states []bool }

func (c *fakeCRT) SetCRT(on bool) { c.states = append(c.states, on) }

// ---- harness ----

var testToday = time.Date(2031, time.June, 15, 9, 30, 0, 0, time.UTC)

type harness struct {
	loop     *ManualLoop
	backend  *fakeBackend
	field    *fakeField
	history  *fakeHistory
	moon     *fakeMoon
	scene    *fakeScene
	popup    *fakePopup
	calendar *fakeCalendar
	crt      *fakeCRT
	clock    *timectrl.FixedClock
	app      *App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		loop:     NewManualLoop(),
		backend:  newFakeBackend(),
		field:    &fakeField{},
		history:  &fakeHistory{},
		moon:     &fakeMoon{},
		scene:    newFakeScene(),
		popup:    newFakePopup(),
		calendar: &fakeCalendar{},
		crt:      &fakeCRT{},
		clock:    timectrl.NewFixedClock(testToday),
	}
	h.app = NewApp(context.Background(), Options{
		Loop:    h.loop,
		Backend: h.backend,
		Views: Views{
			Field:    h.field,
			History:  h.history,
			Moon:     h.moon,
			Scene:    h.scene,
			Popup:    h.popup,
			Calendar: h.calendar,
			CRT:      h.crt,
		},
		Annotations: model.Annotations{
			model.Mars: {Title: "Mars, the red planet", Notes: "Home of Olympus Mons."},
		},
		Clock:    h.clock,
		Autoplay: timectrl.NewTimeController(time.Hour, 1),
	})
	return h
}

// openPopup opens a popup and runs the deferred placement, so the next await
// only sees fetch results.
func (h *harness) openPopup(body model.BodyID, anchor core.Point) string {
	id := h.app.Popup.Open(body, anchor)
	h.loop.RunPending()
	return id
}

func (h *harness) await(t *testing.T) {
	t.Helper()
	if !h.loop.Await(awaitTimeout) {
		t.Fatalf("timed out waiting for the UI loop")
	}
}
