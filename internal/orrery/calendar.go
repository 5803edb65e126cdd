package orrery

import (
	"time"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
)

// MonthGrid is one month laid out in Monday-first weeks. Cells outside the
// month are zero.
type MonthGrid struct {
	Year     int
	Month    time.Month
	Weeks    [][7]int
	Selected int // day of the displayed date in this month, or 0
	Today    int // day of today in this month, or 0
}

// Title returns e.g. "January 2030".
func (g MonthGrid) Title() string {
	return time.Date(g.Year, g.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// WeekdayLabels are the column headings of a MonthGrid.
var WeekdayLabels = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// BuildMonthGrid lays out year/month.
func BuildMonthGrid(year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Monday is column zero.
	col := (int(first.Weekday()) + 6) % 7
	days := core.DaysIn(year, month)

	g := MonthGrid{Year: first.Year(), Month: first.Month()}
	var week [7]int
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g
}

// ClickOrigin classifies where an outside-click candidate landed.
type ClickOrigin int

const (
	ClickElsewhere ClickOrigin = iota
	ClickCalendar
	ClickDateField
	ClickToggle
)

// CalendarController drives the month widget. Methods must be called on the
// UI loop.
type CalendarController struct {
	view  CalendarView
	dates *DateController
	log   logging.Logger

	open  bool
	year  int
	month time.Month
}

// NewCalendarController constructs a closed calendar.
func NewCalendarController(view CalendarView, dates *DateController, log logging.Logger) *CalendarController {
	if log == nil {
		log = logging.Noop()
	}
	return &CalendarController{view: view, dates: dates, log: log.With(logging.String("component", "calendar"))}
}

// IsOpen reports whether the widget is visible.
func (c *CalendarController) IsOpen() bool { return c.open }

// Month returns the month currently displayed.
func (c *CalendarController) Month() (int, time.Month) { return c.year, c.month }

// Open shows the month of the requested date.
func (c *CalendarController) Open() {
	anchor := c.dates.RequestedDay()
	if anchor.IsZero() {
		anchor = c.dates.Today()
	}
	c.year, c.month = anchor.Year(), anchor.Month()
	c.open = true
	c.render()
	c.view.Show()
}

// Toggle opens a closed widget and closes an open one.
func (c *CalendarController) Toggle() {
	if c.open {
		c.Close()
		return
	}
	c.Open()
}

// Close hides the widget.
func (c *CalendarController) Close() {
	if !c.open {
		return
	}
	c.open = false
	c.view.Hide()
}

// PrevMonth shows the previous month.
func (c *CalendarController) PrevMonth() { c.step(-1) }

// NextMonth shows the following month.
func (c *CalendarController) NextMonth() { c.step(1) }

func (c *CalendarController) step(n int) {
	if !c.open {
		return
	}
	first := time.Date(c.year, c.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	c.year, c.month = first.Year(), first.Month()
	c.render()
}

// SelectDay sets the date to day of the displayed month and closes.
func (c *CalendarController) SelectDay(day int) error {
	if !c.open || day < 1 || day > core.DaysIn(c.year, c.month) {
		return nil
	}
	date := core.FormatDate(time.Date(c.year, c.month, day, 0, 0, 0, 0, time.UTC))
	c.Close()
	return c.dates.SetDate(date, SetDateOptions{PushHistory: true})
}

// HandleOutsideClick closes the widget unless the click came from the
// widget itself, the date field, or its toggle.
func (c *CalendarController) HandleOutsideClick(origin ClickOrigin) {
	if origin != ClickElsewhere {
		return
	}
	c.Close()
}

func (c *CalendarController) render() {
	g := BuildMonthGrid(c.year, c.month)
	if day := c.dates.RequestedDay(); day.Year() == g.Year && day.Month() == g.Month {
		g.Selected = day.Day()
	}
	today := c.dates.Today()
	if today.Year() == g.Year && today.Month() == g.Month {
		g.Today = today.Day()
	}
	c.view.Render(g)
}
