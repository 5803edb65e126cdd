package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/model"
)

// Panel rows.
const (
	rowTitle    = 0
	rowDate     = 1
	rowToggle   = 2
	rowCalendar = 3
	rowMoon     = 14
)

var helpLines = []string{
	"←/→ day   PgUp/PgDn month",
	"t today   g date   k calendar",
	"Tab focus   Enter/Space info",
	"p play   c crt   b/f history",
	"q quit",
}

// Draw repaints the whole screen.
func (u *UI) Draw() {
	s := u.screen
	base := tcell.StyleDefault
	if u.crt {
		base = base.Foreground(tcell.ColorLightGreen).Background(tcell.ColorBlack)
	}
	s.SetStyle(base)
	s.Clear()

	u.drawOrbits(base.Dim(true))
	u.drawField(base.Foreground(tcell.ColorGray))
	u.drawMarkers(base)
	u.drawPanel(base)
	if u.calendar.visible {
		u.drawCalendar(base)
	}
	if u.popup.visible {
		u.drawPopup(base)
	}
	if u.crt {
		u.drawScanlines()
	}
	s.Show()
}

func (u *UI) drawOrbits(style tcell.Style) {
	for _, id := range model.Planets {
		r, ok := u.rings[id]
		if !ok || r <= 0 {
			continue
		}
		steps := int(math.Max(96, r/3))
		for i := 0; i < steps; i++ {
			theta := 2 * math.Pi * float64(i) / float64(steps)
			p := core.PolarToScreen(core.SceneCenter, r, theta)
			col, row := u.cellOf(p.X, p.Y)
			u.screen.SetContent(col, row, '·', nil, style)
		}
	}
}

func (u *UI) drawField(style tcell.Style) {
	for _, fp := range u.field {
		p := core.PolarToScreen(core.SceneCenter, fp.Radius, fp.Angle)
		col, row := u.cellOf(p.X, p.Y)
		u.screen.SetContent(col, row, '.', nil, style)
	}
}

func (u *UI) drawMarkers(base tcell.Style) {
	focused, _ := u.focused()
	for _, id := range model.Bodies {
		m := u.markers[id]
		if !m.placed {
			continue
		}
		style := base.Bold(true)
		if id == model.Sun {
			style = style.Foreground(tcell.ColorYellow)
		}
		if id == focused {
			style = style.Reverse(true)
		}
		col, row := u.cellOf(m.x, m.y)
		u.screen.SetContent(col, row, glyphs[id], nil, style)
	}
}

func (u *UI) panelX() int {
	cols, _ := u.sceneSize()
	return cols + 2
}

func (u *UI) drawPanel(base tcell.Style) {
	x := u.panelX()
	u.text(x, rowTitle, "ORRERY", base.Bold(true))

	date := "Date: " + u.dateText
	if u.editing {
		date = "Date> " + string(u.edit) + "_"
	}
	u.text(x, rowDate, date, base)
	u.text(x, rowToggle, "[k] calendar", base.Dim(true))

	row := rowMoon
	u.text(x, row, "Moon: "+u.moon.Name, base)
	row++
	if u.playing {
		u.text(x, row, "▶ playing", base)
	} else {
		u.text(x, row, "❚❚ paused", base)
	}
	row++
	crt := "CRT off"
	if u.crt {
		crt = "CRT on"
	}
	u.text(x, row, crt, base)
	row++
	if u.status != "" {
		u.text(x, row, u.status, base.Foreground(tcell.ColorRed))
	}
	row += 2
	for _, line := range helpLines {
		u.text(x, row, line, base.Dim(true))
		row++
	}
}

// calendarBox returns the calendar's outer cell rectangle.
func (u *UI) calendarBox() (x, y, w, h int) {
	return u.panelX(), rowCalendar, 7*3 + 2, len(u.calendar.grid.Weeks) + 4
}

func (u *UI) drawCalendar(base tcell.Style) {
	x, y, w, h := u.calendarBox()
	u.box(x, y, w, h, base)
	g := u.calendar.grid
	u.text(x+1, y+1, fmt.Sprintf("%-21s", g.Title()), base.Bold(true))
	for i, label := range orrery.WeekdayLabels {
		u.text(x+1+3*i, y+2, label, base.Dim(true))
	}
	for wi, week := range g.Weeks {
		for di, day := range week {
			if day == 0 {
				continue
			}
			style := base
			if day == g.Selected {
				style = style.Bold(true)
			}
			if day == g.Today {
				style = style.Underline(true)
			}
			if day == u.calendar.cursor {
				style = style.Reverse(true)
			}
			u.text(x+1+3*di, y+3+wi, fmt.Sprintf("%2d", day), style)
		}
	}
}

// calendarDayAt returns the day under a cell of the calendar grid.
func (u *UI) calendarDayAt(col, row int) int {
	x, y, _, _ := u.calendarBox()
	wi, di := row-(y+3), (col-(x+1))/3
	if col < x+1 || wi < 0 || wi >= len(u.calendar.grid.Weeks) || di < 0 || di > 6 {
		return 0
	}
	return u.calendar.grid.Weeks[wi][di]
}

// popupBox returns the popup's outer cell rectangle.
func (u *UI) popupBox() (x, y, w, h int) {
	pw, ph := popupView{u}.Measure()
	return u.popup.col, u.popup.row, int(pw / cellW), int(ph / cellH)
}

func (u *UI) drawPopup(base tcell.Style) {
	x, y, w, h := u.popupBox()
	u.box(x, y, w, h, base)
	for i, line := range u.popupLines() {
		style := base
		if i == 0 {
			style = style.Bold(true)
		}
		if u.popup.errMsg != "" {
			style = style.Foreground(tcell.ColorRed)
		}
		u.text(x+2, y+1+i, fmt.Sprintf("%-*s", w-4, line), style)
	}
}

// drawScanlines dims every other row.
func (u *UI) drawScanlines() {
	w, h := u.screen.Size()
	for row := 1; row < h; row += 2 {
		for col := 0; col < w; col++ {
			r, comb, style, _ := u.screen.GetContent(col, row)
			u.screen.SetContent(col, row, r, comb, style.Dim(true))
		}
	}
}

func (u *UI) box(x, y, w, h int, style tcell.Style) {
	for col := x; col < x+w; col++ {
		for row := y; row < y+h; row++ {
			u.screen.SetContent(col, row, ' ', nil, style)
		}
	}
	for col := x + 1; col < x+w-1; col++ {
		u.screen.SetContent(col, y, '─', nil, style)
		u.screen.SetContent(col, y+h-1, '─', nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		u.screen.SetContent(x, row, '│', nil, style)
		u.screen.SetContent(x+w-1, row, '│', nil, style)
	}
	u.screen.SetContent(x, y, '┌', nil, style)
	u.screen.SetContent(x+w-1, y, '┐', nil, style)
	u.screen.SetContent(x, y+h-1, '└', nil, style)
	u.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)
}

func (u *UI) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
