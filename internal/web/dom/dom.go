//go:build js && wasm

package dom

import (
	"fmt"
	"strconv"
	"syscall/js"

	"github.com/signalsfoundry/orrery/core"
)

const svgNS = "http://www.w3.org/2000/svg"

// Element ids of the served page.
const (
	idDateForm      = "date-form"
	idDateInput     = "date-input"
	idCalendar      = "calendar"
	idCalendarBtn   = "calendar-toggle"
	idDateNav       = "date-nav"
	idTodayLink     = "today-link"
	idMoonImg       = "moon-phase-img"
	idMoonName      = "moon-phase-name"
	idPlayToggle    = "play-toggle"
	idCRTToggle     = "crt-toggle"
	idSidebarToggle = "sidebar-toggle"
	idField         = "asteroid-field"
	idPopup         = "planet-popup"
	idPopupBody     = "popup-body"
	idAnnotations   = "annotations"
)

// Document wraps the page's global objects.
type Document struct {
	window js.Value
	doc    js.Value
}

// Global returns the document of the running page.
func Global() *Document {
	w := js.Global()
	return &Document{window: w, doc: w.Get("document")}
}

func (d *Document) byID(id string) js.Value {
	return d.doc.Call("getElementById", id)
}

// has reports whether v is a live element reference.
func has(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

// Text returns the text content of the element with id, or "".
func (d *Document) Text(id string) string {
	el := d.byID(id)
	if !has(el) {
		return ""
	}
	return el.Get("textContent").String()
}

func attrFloat(el js.Value, name string) float64 {
	v := el.Call("getAttribute", name)
	if !has(v) {
		return 0
	}
	f, err := strconv.ParseFloat(v.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

func setAttrFloat(el js.Value, name string, v float64) {
	el.Call("setAttribute", name, strconv.FormatFloat(v, 'f', 2, 64))
}

func setHidden(el js.Value, hidden bool) {
	if hidden {
		el.Call("setAttribute", "hidden", "")
		return
	}
	el.Call("removeAttribute", "hidden")
}

// centre returns the viewport centre of el.
func centre(el js.Value) core.Point {
	r := el.Call("getBoundingClientRect")
	return core.Point{
		X: r.Get("left").Float() + r.Get("width").Float()/2,
		Y: r.Get("top").Float() + r.Get("height").Float()/2,
	}
}

func px(v float64) string {
	return fmt.Sprintf("%.0fpx", v)
}
