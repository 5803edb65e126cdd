package orrery

import (
	"context"
	"errors"
	"time"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/model"
	"github.com/signalsfoundry/orrery/timectrl"
)

// ErrInvalidDate is returned for date text that cannot be parsed.
var ErrInvalidDate = core.ErrInvalidDate

// SetDateOptions controls how a date change is recorded in history.
type SetDateOptions struct {
	PushHistory bool
	// Initial marks the startup load. A failed refresh then keeps the
	// server-rendered positions instead of reloading the same page.
	Initial bool
}

// DateController owns the displayed date. It is the only component that
// triggers a position refresh. Methods must be called on the UI loop.
type DateController struct {
	ctx     context.Context
	loop    Dispatcher
	backend Backend
	field   DateField
	history History
	moon    MoonPanel
	render  *Renderer
	clock   timectrl.Clock
	log     logging.Logger

	// requested is the most recent valid date passed to SetDate.
	requested time.Time
	// displayed is the date whose positions are on screen.
	displayed string
	token     uint64

	listeners []func(date string)
}

// DateControllerConfig wires a DateController.
type DateControllerConfig struct {
	Loop     Dispatcher
	Backend  Backend
	Field    DateField
	History  History
	Moon     MoonPanel
	Renderer *Renderer
	Clock    timectrl.Clock
	Log      logging.Logger
}

// NewDateController constructs a controller. ctx bounds every fetch it
// starts.
func NewDateController(ctx context.Context, cfg DateControllerConfig) *DateController {
	if cfg.Clock == nil {
		cfg.Clock = timectrl.SystemClock{}
	}
	if cfg.Log == nil {
		cfg.Log = logging.Noop()
	}
	return &DateController{
		ctx:     ctx,
		loop:    cfg.Loop,
		backend: cfg.Backend,
		field:   cfg.Field,
		history: cfg.History,
		moon:    cfg.Moon,
		render:  cfg.Renderer,
		clock:   cfg.Clock,
		log:     cfg.Log.With(logging.String("component", "dates")),
	}
}

// OnApplied registers fn to run after a snapshot has been rendered.
func (c *DateController) OnApplied(fn func(date string)) {
	c.listeners = append(c.listeners, fn)
}

// Requested returns the most recently requested date, or "" before the
// first SetDate.
func (c *DateController) Requested() string {
	if c.requested.IsZero() {
		return ""
	}
	return core.FormatDate(c.requested)
}

// RequestedDay is Requested as a time, zero before the first SetDate.
func (c *DateController) RequestedDay() time.Time { return c.requested }

// Displayed returns the date whose positions are on screen. Until the first
// snapshot lands it falls back to the requested date.
func (c *DateController) Displayed() string {
	if c.displayed != "" {
		return c.displayed
	}
	return c.Requested()
}

// Token returns the latest issued request token.
func (c *DateController) Token() uint64 { return c.token }

// Today returns the clock's current calendar day.
func (c *DateController) Today() time.Time {
	return core.CalendarDay(c.clock.Now())
}

// SetDate normalises input and starts a position refresh for it. Invalid
// input returns an error wrapping ErrInvalidDate and changes nothing.
func (c *DateController) SetDate(input string, opts SetDateOptions) error {
	day, date, err := core.NormalizeDate(input)
	if err != nil {
		c.log.Debug(c.ctx, "rejected date input", logging.String("input", input))
		return err
	}

	c.token++
	token := c.token
	c.requested = day

	c.field.SetValue(date)
	c.moon.ShowPhase(core.MoonPhase(day), date)

	go c.fetch(token, date, opts)
	return nil
}

// ShiftDate moves the requested date by days.
func (c *DateController) ShiftDate(days int) error {
	from := c.requested
	if from.IsZero() {
		from = c.Today()
	}
	return c.SetDate(core.FormatDate(core.AddDays(from, days)), SetDateOptions{PushHistory: true})
}

// Advance moves the requested date by days, replacing the history entry
// instead of adding one.
func (c *DateController) Advance(days int) error {
	from := c.requested
	if from.IsZero() {
		from = c.Today()
	}
	return c.SetDate(core.FormatDate(core.AddDays(from, days)), SetDateOptions{})
}

// ShiftMonths moves the requested date by whole months, clamping the day.
func (c *DateController) ShiftMonths(months int) error {
	from := c.requested
	if from.IsZero() {
		from = c.Today()
	}
	return c.SetDate(core.FormatDate(core.AddMonths(from, months)), SetDateOptions{PushHistory: true})
}

// GoToday jumps to the clock's current date.
func (c *DateController) GoToday() error {
	return c.SetDate(core.FormatDate(c.Today()), SetDateOptions{PushHistory: true})
}

// Submit applies the text currently in the date field.
func (c *DateController) Submit() error {
	return c.SetDate(c.field.Value(), SetDateOptions{PushHistory: true})
}

// OnPopState re-derives the date from the location after back/forward
// navigation. A missing or unreadable parameter means today.
func (c *DateController) OnPopState() error {
	return c.fromLocation(SetDateOptions{})
}

// Init loads the initial date from the location, then the date field, then
// today, without adding a history entry.
func (c *DateController) Init() error {
	opts := SetDateOptions{Initial: true}
	if loc := c.history.Location(); loc != "" {
		return c.fromLocation(opts)
	}
	if v := c.field.Value(); v != "" {
		if err := c.SetDate(v, opts); err == nil {
			return nil
		}
	}
	return c.SetDate(core.FormatDate(c.Today()), opts)
}

func (c *DateController) fromLocation(opts SetDateOptions) error {
	loc := c.history.Location()
	if loc != "" {
		err := c.SetDate(loc, opts)
		if err == nil || !errors.Is(err, ErrInvalidDate) {
			return err
		}
		c.log.Warn(c.ctx, "ignoring unreadable date in location", logging.String("location", loc))
	}
	return c.SetDate(core.FormatDate(c.Today()), opts)
}

func (c *DateController) fetch(token uint64, date string, opts SetDateOptions) {
	snap, err := c.backend.Positions(c.ctx, date)
	c.loop.Post(func() { c.apply(token, date, opts, snap, err) })
}

func (c *DateController) apply(token uint64, date string, opts SetDateOptions, snap model.PositionSnapshot, err error) {
	if token != c.token {
		c.log.Debug(c.ctx, "dropping stale position response",
			logging.String("date", date),
			logging.Any("token", token),
			logging.Any("latest", c.token),
		)
		return
	}
	if err != nil {
		if opts.Initial {
			c.log.Warn(c.ctx, "initial position refresh failed, keeping rendered page",
				logging.String("date", date), logging.Err(err))
			return
		}
		c.log.Warn(c.ctx, "position refresh failed, reloading page",
			logging.String("date", date), logging.Err(err))
		c.history.Reload(date)
		return
	}

	c.displayed = date
	if c.render != nil {
		c.render.Render(snap)
	}
	if opts.PushHistory {
		c.history.Push(date)
	} else {
		c.history.Replace(date)
	}
	for _, fn := range c.listeners {
		fn(date)
	}
}
