package orrery

import (
	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/model"
)

// The interfaces below are the engine's view of the page. Front-ends (the
// browser DOM adapter, the terminal UI, tests) implement them. Every method
// is called on the UI loop.

// DateField is the editable date input.
type DateField interface {
	Value() string
	SetValue(v string)
}

// History mirrors the displayed date into the location's date parameter.
type History interface {
	// Location returns the date parameter of the current entry, or "".
	Location() string
	Push(date string)
	Replace(date string)
	// Reload performs a full page load for date.
	Reload(date string)
}

// MoonPanel shows the lunation phase of the requested date.
type MoonPanel interface {
	ShowPhase(phase core.Phase, date string)
}

// Scene is the drawn diagram.
type Scene interface {
	core.MarkerLookup
	// OrbitRadius returns the radius of the body's drawn orbit ring.
	OrbitRadius(id model.BodyID) (float64, bool)
	// ReplaceField clears the scatter container and draws points.
	ReplaceField(points []core.FieldPoint)
}

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

// PopupView is the single info modal.
type PopupView interface {
	ShowLoading(body model.BodyID)
	ShowContent(content PopupContent)
	ShowError(msg string)
	Hide()

	// Measure returns the rendered popup size once layout has settled.
	Measure() (w, h float64)
	Viewport() Rect
	MoveTo(topLeft core.Point)

	// AttachEscape installs a key listener that calls fn on Escape. fn may
	// be invoked from any goroutine.
	AttachEscape(fn func())
	DetachEscape()
}

// CalendarView draws the month grid widget.
type CalendarView interface {
	Render(grid MonthGrid)
	Show()
	Hide()
}

// CRTView toggles the scanline filter.
type CRTView interface {
	SetCRT(on bool)
}
