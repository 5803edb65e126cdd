package tui

import (
	"strings"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/model"
)

type marker struct {
	ui     *UI
	id     model.BodyID
	x, y   float64
	placed bool
}

func (m *marker) Kind() core.MarkerKind { return core.PointMarker }

func (m *marker) Size() (w, h float64) { return 0, 0 }

func (m *marker) SetCenter(x, y float64) {
	m.x, m.y, m.placed = x, y, true
	m.ui.invalidate()
}

func (m *marker) SetTopLeft(x, y float64) { m.SetCenter(x, y) }

type dateField struct{ u *UI }

func (f dateField) Value() string {
	if f.u.editing {
		return string(f.u.edit)
	}
	return f.u.dateText
}

func (f dateField) SetValue(v string) {
	f.u.dateText = v
	f.u.invalidate()
}

type historyView struct{ u *UI }

func (h historyView) Location() string { return h.u.history.Location() }

func (h historyView) Push(date string) { h.u.history.Push(date) }

func (h historyView) Replace(date string) { h.u.history.Replace(date) }

func (h historyView) Reload(date string) {
	h.u.history.Reload(date)
	h.u.status = "positions unavailable for " + date
	h.u.invalidate()
}

type moonPanel struct{ u *UI }

func (m moonPanel) ShowPhase(phase core.Phase, date string) {
	m.u.moon, m.u.moonDate = phase, date
	m.u.invalidate()
}

type scene struct{ u *UI }

func (s scene) Marker(id model.BodyID) (core.Marker, bool) {
	m, ok := s.u.markers[id]
	if !ok {
		return nil, false
	}
	return m, true
}

func (s scene) OrbitRadius(id model.BodyID) (float64, bool) {
	r, ok := s.u.rings[id]
	return r, ok && r > 0
}

func (s scene) ReplaceField(points []core.FieldPoint) {
	s.u.field = append(s.u.field[:0], points...)
	s.u.invalidate()
}

type popupView struct{ u *UI }

func (p popupView) ShowLoading(body model.BodyID) {
	p.u.popup = popupState{visible: true, loading: body, escape: p.u.popup.escape, col: p.u.popup.col, row: p.u.popup.row}
	p.u.invalidate()
}

func (p popupView) ShowContent(content orrery.PopupContent) {
	p.u.popup.loading = ""
	p.u.popup.errMsg = ""
	p.u.popup.content = &content
	p.u.invalidate()
}

func (p popupView) ShowError(msg string) {
	p.u.popup.loading = ""
	p.u.popup.content = nil
	p.u.popup.errMsg = msg
	p.u.invalidate()
}

func (p popupView) Hide() {
	p.u.popup.visible = false
	p.u.popup.content = nil
	p.u.invalidate()
}

func (p popupView) Measure() (w, h float64) {
	lines := p.u.popupLines()
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	// One cell of border and one of padding each side.
	return float64(width+4) * cellW, float64(len(lines)+2) * cellH
}

func (p popupView) Viewport() orrery.Rect {
	w, h := p.u.screen.Size()
	return orrery.Rect{W: float64(w) * cellW, H: float64(h) * cellH}
}

func (p popupView) MoveTo(topLeft core.Point) {
	p.u.popup.col = int(topLeft.X / cellW)
	p.u.popup.row = int(topLeft.Y / cellH)
	p.u.invalidate()
}

func (p popupView) AttachEscape(fn func()) { p.u.popup.escape = fn }

func (p popupView) DetachEscape() { p.u.popup.escape = nil }

// popupLines renders the popup body as plain text.
func (u *UI) popupLines() []string {
	switch {
	case u.popup.errMsg != "":
		return []string{u.popup.errMsg}
	case u.popup.content != nil:
		c := u.popup.content
		lines := []string{c.Title}
		if c.Notes != "" {
			lines = append(lines, wrap(c.Notes, popupTextWidth)...)
		}
		lines = append(lines, "")
		for _, row := range c.Rows {
			lines = append(lines, wrap(row.Label+": "+row.Value, popupTextWidth)...)
		}
		return lines
	case u.popup.loading != "":
		return []string{"Loading " + u.popup.loading.Title() + "..."}
	}
	return nil
}

type calendarView struct{ u *UI }

func (c calendarView) Render(grid orrery.MonthGrid) {
	c.u.calendar.grid = grid
	day := grid.Selected
	if day == 0 {
		day = grid.Today
	}
	if day == 0 {
		day = 1
	}
	c.u.calendar.cursor = day
	c.u.invalidate()
}

func (c calendarView) Show() {
	c.u.calendar.visible = true
	c.u.invalidate()
}

func (c calendarView) Hide() {
	c.u.calendar.visible = false
	c.u.invalidate()
}

type crtView struct{ u *UI }

func (c crtView) SetCRT(on bool) {
	c.u.crt = on
	c.u.invalidate()
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
