package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/model"
)

// PollEvents forwards terminal events onto the UI loop until the screen is
// finalised or ctx is cancelled.
func (u *UI) PollEvents(ctx context.Context) {
	for {
		ev := u.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		u.loop.Post(func() { u.HandleEvent(ev) })
	}
}

// HandleEvent applies one terminal event. It must run on the UI loop.
func (u *UI) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
		u.invalidate()
	case *tcell.EventKey:
		u.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			u.handleClick(ev.Position())
		}
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	if u.editing {
		u.handleEditKey(ev)
		return
	}
	if u.calendar.visible && u.handleCalendarKey(ev) {
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		u.exit()
	case tcell.KeyEscape:
		if u.popup.escape != nil {
			u.popup.escape()
		}
		u.app.KeyDown("Escape", "", core.Point{})
	case tcell.KeyLeft:
		u.app.ShiftDays(-1)
	case tcell.KeyRight:
		u.app.ShiftDays(1)
	case tcell.KeyPgUp:
		u.app.ShiftMonths(-1)
	case tcell.KeyPgDn:
		u.app.ShiftMonths(1)
	case tcell.KeyTab:
		u.cycleFocus(1)
	case tcell.KeyBacktab:
		u.cycleFocus(-1)
	case tcell.KeyEnter:
		u.activate("Enter")
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			u.activate(" ")
		case 'q':
			u.exit()
		case 't':
			u.app.GoToday()
		case 'g', '/':
			u.startEdit()
		case 'k':
			u.app.ToggleCalendar()
		case 'p':
			u.app.TogglePlay()
		case 'c':
			u.app.ToggleCRT()
		case 'b':
			if u.history.Back() {
				u.app.PopState()
			}
		case 'f':
			if u.history.Forward() {
				u.app.PopState()
			}
		}
	}
}

func (u *UI) startEdit() {
	u.editing = true
	u.edit = []rune(u.dateText)
	u.invalidate()
}

func (u *UI) handleEditKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		u.editing = false
		u.dateText = string(u.edit)
		u.status = ""
		u.app.SubmitDate()
	case tcell.KeyEscape:
		u.editing = false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(u.edit); n > 0 {
			u.edit = u.edit[:n-1]
		}
	case tcell.KeyCtrlU:
		u.edit = u.edit[:0]
	case tcell.KeyRune:
		u.edit = append(u.edit, ev.Rune())
	}
	u.invalidate()
}

// handleCalendarKey moves the day cursor while the calendar is open. It
// reports whether the key was consumed.
func (u *UI) handleCalendarKey(ev *tcell.EventKey) bool {
	g := u.calendar.grid
	last := core.DaysIn(g.Year, g.Month)
	move := func(n int) {
		u.calendar.cursor = clampInt(u.calendar.cursor+n, 1, last)
		u.invalidate()
	}
	switch ev.Key() {
	case tcell.KeyLeft:
		move(-1)
	case tcell.KeyRight:
		move(1)
	case tcell.KeyUp:
		move(-7)
	case tcell.KeyDown:
		move(7)
	case tcell.KeyEnter:
		u.app.SelectDay(u.calendar.cursor)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ',', '<':
			u.app.CalendarStep(-1)
		case '.', '>':
			u.app.CalendarStep(1)
		case 'k':
			u.app.ToggleCalendar()
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (u *UI) cycleFocus(n int) {
	count := len(focusOrder())
	if u.focus < 0 && n < 0 {
		u.focus = 0
	}
	u.focus = ((u.focus+n)%count + count) % count
	u.invalidate()
}

func (u *UI) activate(key string) {
	if id, anchor := u.focused(); id != "" {
		u.app.KeyDown(key, id, anchor)
	}
}

func (u *UI) handleClick(col, row int) {
	target := orrery.ClickTarget{Anchor: anchorOf(col, row)}
	px := u.panelX()

	if u.popup.visible {
		x, y, w, h := u.popupBox()
		target.InPopup = col >= x && col < x+w && row >= y && row < y+h
	}

	var day int
	toggle := false
	switch {
	case target.InPopup:
	case u.calendar.visible && inBox(col, row)(u.calendarBox()):
		target.Origin = orrery.ClickCalendar
		day = u.calendarDayAt(col, row)
	case col >= px && row == rowDate:
		target.Origin = orrery.ClickDateField
		u.startEdit()
	case col >= px && row == rowToggle:
		target.Origin = orrery.ClickToggle
		toggle = true
	case col < px:
		if id, ok := u.bodyAt(col, row); ok {
			target.Body = id
			u.focus = indexOf(id)
		}
	}

	u.app.Click(target)
	if toggle {
		u.app.ToggleCalendar()
	}
	if day > 0 {
		u.app.SelectDay(day)
	}
}

func inBox(col, row int) func(x, y, w, h int) bool {
	return func(x, y, w, h int) bool {
		return col >= x && col < x+w && row >= y && row < y+h
	}
}

func indexOf(id model.BodyID) int {
	for i, b := range focusOrder() {
		if b == id {
			return i
		}
	}
	return -1
}

func (u *UI) exit() {
	if u.quit != nil {
		u.quit()
	}
}
