// Package tui is a terminal front-end for the orrery engine. It implements
// the engine's views on a tcell screen: orbits drawn as ellipses to undo
// the cell aspect ratio, one glyph per body, a side panel with the date and
// moon phase, and overlays for the info popup and the month calendar.
package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/model"
)

const (
	panelWidth = 30

	// The engine places the popup in pixel-like units; one cell counts as
	// cellW by cellH of them.
	cellW = 8.0
	cellH = 16.0

	popupTextWidth = 40
)

var glyphs = map[model.BodyID]rune{
	model.Sun:     '@',
	model.Mercury: 'm',
	model.Venus:   'v',
	model.Earth:   'E',
	model.Mars:    'M',
	model.Jupiter: 'J',
	model.Saturn:  'S',
	model.Uranus:  'U',
	model.Neptune: 'N',
}

// Options configures a UI.
type Options struct {
	Loop orrery.Dispatcher
	// Rings are the orbit radii drawn on the diagram.
	Rings map[model.BodyID]float64
	Log   logging.Logger
	// Quit is called when the user asks to leave.
	Quit func()
}

// UI owns the terminal state. Every method runs on the engine's UI loop.
type UI struct {
	screen tcell.Screen
	loop   orrery.Dispatcher
	log    logging.Logger
	quit   func()
	app    *orrery.App

	rings   map[model.BodyID]float64
	markers map[model.BodyID]*marker
	field   []core.FieldPoint

	dateText string
	editing  bool
	edit     []rune

	history  *History
	moon     core.Phase
	moonDate string

	popup    popupState
	calendar calendarState

	crt     bool
	playing bool
	focus   int
	status  string

	scheduled bool
}

type popupState struct {
	visible  bool
	loading  model.BodyID
	content  *orrery.PopupContent
	errMsg   string
	col, row int
	escape   func()
}

type calendarState struct {
	visible bool
	grid    orrery.MonthGrid
	cursor  int
}

// New builds a UI over screen. The screen must already be initialised.
func New(screen tcell.Screen, opts Options) *UI {
	if opts.Log == nil {
		opts.Log = logging.Noop()
	}
	u := &UI{
		screen:  screen,
		loop:    opts.Loop,
		log:     opts.Log.With(logging.String("component", "tui")),
		quit:    opts.Quit,
		rings:   opts.Rings,
		markers: make(map[model.BodyID]*marker, len(model.Bodies)),
		history: NewHistory(),
		focus:   -1,
	}
	for _, id := range model.Bodies {
		u.markers[id] = &marker{ui: u, id: id}
	}
	u.markers[model.Sun].x, u.markers[model.Sun].y = core.SceneCenter, core.SceneCenter
	u.markers[model.Sun].placed = true
	return u
}

// Bind attaches the engine the input handlers drive.
func (u *UI) Bind(app *orrery.App) {
	u.app = app
	app.Dates.OnApplied(func(string) {
		u.status = ""
		u.invalidate()
	})
	if app.Player != nil {
		app.Player.OnChange(func(playing bool) {
			u.playing = playing
			u.invalidate()
		})
	}
}

// History exposes the in-memory history.
func (u *UI) History() *History { return u.history }

// Views returns the engine-facing adapters.
func (u *UI) Views() orrery.Views {
	return orrery.Views{
		Field:    dateField{u},
		History:  historyView{u},
		Moon:     moonPanel{u},
		Scene:    scene{u},
		Popup:    popupView{u},
		Calendar: calendarView{u},
		CRT:      crtView{u},
	}
}

// invalidate schedules one redraw after the current loop task.
func (u *UI) invalidate() {
	if u.scheduled || u.loop == nil {
		return
	}
	u.scheduled = true
	u.loop.Post(func() {
		u.scheduled = false
		u.Draw()
	})
}

// sceneSize returns the diagram's extent in cells, twice as wide as tall.
func (u *UI) sceneSize() (cols, rows int) {
	w, h := u.screen.Size()
	rows = h
	if avail := (w - panelWidth) / 2; avail < rows {
		rows = avail
	}
	if rows < 1 {
		rows = 1
	}
	return rows * 2, rows
}

// cellOf maps scene units onto a cell of the diagram.
func (u *UI) cellOf(x, y float64) (col, row int) {
	cols, rows := u.sceneSize()
	col = int(math.Floor(x / core.SceneSize * float64(cols)))
	row = int(math.Floor(y / core.SceneSize * float64(rows)))
	return clampInt(col, 0, cols-1), clampInt(row, 0, rows-1)
}

// anchorOf returns the centre of a cell in popup units.
func anchorOf(col, row int) core.Point {
	return core.Point{X: float64(col)*cellW + cellW/2, Y: float64(row)*cellH + cellH/2}
}

// focusOrder is the Tab order of markers.
func focusOrder() []model.BodyID { return model.Bodies }

func (u *UI) focused() (model.BodyID, core.Point) {
	order := focusOrder()
	if u.focus < 0 || u.focus >= len(order) {
		return "", core.Point{}
	}
	id := order[u.focus]
	m := u.markers[id]
	return id, anchorOf(u.cellOf(m.x, m.y))
}

// bodyAt returns the body drawn at a cell.
func (u *UI) bodyAt(col, row int) (model.BodyID, bool) {
	for _, id := range model.Bodies {
		m := u.markers[id]
		if !m.placed {
			continue
		}
		if c, r := u.cellOf(m.x, m.y); c == col && r == row {
			return id, true
		}
	}
	return "", false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
