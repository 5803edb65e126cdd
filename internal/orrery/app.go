package orrery

import (
	"context"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/prefs"
	"github.com/signalsfoundry/orrery/model"
	"github.com/signalsfoundry/orrery/timectrl"
)

// Views groups the front-end implementations the engine drives.
type Views struct {
	Field    DateField
	History  History
	Moon     MoonPanel
	Scene    Scene
	Popup    PopupView
	Calendar CalendarView
	CRT      CRTView
}

// Options configures an App.
type Options struct {
	Loop        Dispatcher
	Backend     Backend
	Views       Views
	Annotations model.Annotations
	Prefs       prefs.Store
	Clock       timectrl.Clock
	// Autoplay drives the play button. Nil disables autoplay.
	Autoplay   *timectrl.TimeController
	FieldCount int
	FieldGap   float64
	Log        logging.Logger
}

// App is the composition root of the engine. Its event methods are safe to
// call from any goroutine; they post onto the UI loop.
type App struct {
	Loop     Dispatcher
	Renderer *Renderer
	Dates    *DateController
	Popup    *PopupController
	Calendar *CalendarController
	CRT      *CRTController
	Player   *Player

	fieldCount int
	fieldGap   float64
}

// NewApp wires every controller. Construction touches views, so it must
// happen on the UI loop or before the loop starts.
func NewApp(ctx context.Context, opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logging.Noop()
	}
	if opts.FieldCount == 0 {
		opts.FieldCount = DefaultFieldCount
	}
	if opts.FieldGap == 0 {
		opts.FieldGap = DefaultFieldGap
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewMemoryStore()
	}

	renderer := NewRenderer(ctx, opts.Views.Scene, log)
	dates := NewDateController(ctx, DateControllerConfig{
		Loop:     opts.Loop,
		Backend:  opts.Backend,
		Field:    opts.Views.Field,
		History:  opts.Views.History,
		Moon:     opts.Views.Moon,
		Renderer: renderer,
		Clock:    opts.Clock,
		Log:      log,
	})
	app := &App{
		Loop:     opts.Loop,
		Renderer: renderer,
		Dates:    dates,
		Popup: NewPopupController(ctx, PopupControllerConfig{
			Loop:        opts.Loop,
			Backend:     opts.Backend,
			View:        opts.Views.Popup,
			Dates:       dates,
			Annotations: opts.Annotations,
			Log:         log,
		}),
		Calendar:   NewCalendarController(opts.Views.Calendar, dates, log),
		fieldCount: opts.FieldCount,
		fieldGap:   opts.FieldGap,
	}
	if opts.Views.CRT != nil {
		app.CRT = NewCRTController(ctx, opts.Prefs, opts.Views.CRT, log)
	}
	if opts.Autoplay != nil {
		app.Player = NewPlayer(ctx, opts.Loop, dates, opts.Autoplay, log)
	}
	return app
}

// Start populates the asteroid field and loads the initial date.
func (a *App) Start() {
	a.Loop.Post(func() {
		a.Renderer.PopulateField(a.fieldCount, a.fieldGap)
		_ = a.Dates.Init()
	})
}

// SubmitDate applies the date field's text.
func (a *App) SubmitDate() {
	a.Loop.Post(func() { _ = a.Dates.Submit() })
}

// ShiftDays moves the date by days.
func (a *App) ShiftDays(days int) {
	a.Loop.Post(func() { _ = a.Dates.ShiftDate(days) })
}

// ShiftMonths moves the date by months.
func (a *App) ShiftMonths(months int) {
	a.Loop.Post(func() { _ = a.Dates.ShiftMonths(months) })
}

// GoToday jumps to today.
func (a *App) GoToday() {
	a.Loop.Post(func() { _ = a.Dates.GoToday() })
}

// PopState handles browser back/forward.
func (a *App) PopState() {
	a.Loop.Post(func() { _ = a.Dates.OnPopState() })
}

// ClickTarget describes a pointer click.
type ClickTarget struct {
	// Body is set when a marker was clicked.
	Body   model.BodyID
	Anchor core.Point
	// InPopup is true when the click landed inside the popup.
	InPopup bool
	// Origin locates the click relative to the calendar widget.
	Origin ClickOrigin
}

// Click routes a document click.
func (a *App) Click(target ClickTarget) {
	a.Loop.Post(func() {
		a.Calendar.HandleOutsideClick(target.Origin)
		if target.Body != "" {
			a.Popup.Open(target.Body, target.Anchor)
			return
		}
		a.Popup.HandleClick(target.InPopup)
	})
}

// KeyDown routes a key press. focused is the marker holding keyboard focus,
// if any, and anchor its on-screen position.
func (a *App) KeyDown(key string, focused model.BodyID, anchor core.Point) {
	a.Loop.Post(func() {
		if key == "Escape" {
			a.Popup.HandleKey(key)
			a.Calendar.Close()
			return
		}
		if focused != "" && IsActivationKey(key) {
			a.Popup.Open(focused, anchor)
		}
	})
}

// ToggleCalendar opens or closes the month widget.
func (a *App) ToggleCalendar() {
	a.Loop.Post(a.Calendar.Toggle)
}

// CalendarStep moves the month widget one month back when n is negative,
// otherwise one month forward.
func (a *App) CalendarStep(n int) {
	a.Loop.Post(func() {
		if n < 0 {
			a.Calendar.PrevMonth()
		} else {
			a.Calendar.NextMonth()
		}
	})
}

// SelectDay picks a day in the month widget.
func (a *App) SelectDay(day int) {
	a.Loop.Post(func() { _ = a.Calendar.SelectDay(day) })
}

// ToggleCRT flips the CRT filter.
func (a *App) ToggleCRT() {
	if a.CRT == nil {
		return
	}
	a.Loop.Post(func() { a.CRT.Toggle() })
}

// TogglePlay starts or pauses autoplay.
func (a *App) TogglePlay() {
	if a.Player == nil {
		return
	}
	a.Loop.Post(func() { a.Player.Toggle() })
}
