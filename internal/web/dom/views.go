//go:build js && wasm

package dom

import (
	"html"
	"strings"
	"syscall/js"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/internal/web/assets"
	"github.com/signalsfoundry/orrery/model"
)

// Views returns the engine views backed by d.
func (d *Document) Views() orrery.Views {
	return orrery.Views{
		Field:    dateField{d},
		History:  history{d},
		Moon:     moonPanel{d},
		Scene:    scene{d},
		Popup:    &popupView{d: d},
		Calendar: calendarView{d},
		CRT:      crtView{d},
	}
}

type dateField struct{ d *Document }

func (f dateField) Value() string {
	el := f.d.byID(idDateInput)
	if !has(el) {
		return ""
	}
	return el.Get("value").String()
}

func (f dateField) SetValue(v string) {
	if el := f.d.byID(idDateInput); has(el) {
		el.Set("value", v)
	}
	// The page title and non-script navigation follow the field.
	f.d.doc.Set("title", "Orrery · "+v)
}

type moonPanel struct{ d *Document }

func (m moonPanel) ShowPhase(phase core.Phase, date string) {
	if img := m.d.byID(idMoonImg); has(img) {
		img.Set("src", assets.MoonSrc(phase))
		img.Set("alt", phase.Name)
		img.Set("title", phase.Name+" on "+date)
	}
	if name := m.d.byID(idMoonName); has(name) {
		name.Set("textContent", phase.Name)
	}
}

type scene struct{ d *Document }

func (s scene) Marker(id model.BodyID) (core.Marker, bool) {
	el := s.d.byID(string(id))
	if !has(el) {
		return nil, false
	}
	return svgMarker{el}, true
}

func (s scene) OrbitRadius(id model.BodyID) (float64, bool) {
	el := s.d.byID("orbit-" + string(id))
	if !has(el) {
		return 0, false
	}
	return attrFloat(el, "r"), true
}

func (s scene) ReplaceField(points []core.FieldPoint) {
	g := s.d.byID(idField)
	if !has(g) {
		return
	}
	g.Set("textContent", "")
	frag := s.d.doc.Call("createDocumentFragment")
	for _, p := range points {
		pos := core.PolarToScreen(core.SceneCenter, p.Radius, p.Angle)
		c := s.d.doc.Call("createElementNS", svgNS, "circle")
		c.Call("setAttribute", "class", "asteroid")
		setAttrFloat(c, "cx", pos.X)
		setAttrFloat(c, "cy", pos.Y)
		setAttrFloat(c, "r", p.Size)
		frag.Call("appendChild", c)
	}
	g.Call("appendChild", frag)
}

// svgMarker is a circle (centre) or image (top-left) in the scene.
type svgMarker struct{ el js.Value }

func (m svgMarker) Kind() core.MarkerKind {
	if strings.EqualFold(m.el.Get("tagName").String(), "image") {
		return core.SpriteMarker
	}
	return core.PointMarker
}

func (m svgMarker) Size() (w, h float64) {
	return attrFloat(m.el, "width"), attrFloat(m.el, "height")
}

func (m svgMarker) SetCenter(x, y float64) {
	setAttrFloat(m.el, "cx", x)
	setAttrFloat(m.el, "cy", y)
}

func (m svgMarker) SetTopLeft(x, y float64) {
	setAttrFloat(m.el, "x", x)
	setAttrFloat(m.el, "y", y)
}

type popupView struct {
	d      *Document
	escape js.Func
	bound  bool
}

func (p *popupView) body() js.Value { return p.d.byID(idPopupBody) }

func (p *popupView) show(markup string) {
	if b := p.body(); has(b) {
		b.Set("innerHTML", markup)
	}
	if el := p.d.byID(idPopup); has(el) {
		setHidden(el, false)
	}
}

func (p *popupView) ShowLoading(body model.BodyID) {
	p.show(`<p class="loading">Loading ` + html.EscapeString(body.Title()) + `…</p>`)
}

func (p *popupView) ShowContent(content orrery.PopupContent) {
	p.show(content.HTML())
}

func (p *popupView) ShowError(msg string) {
	p.show(`<p class="error">` + html.EscapeString(msg) + `</p>`)
}

func (p *popupView) Hide() {
	if el := p.d.byID(idPopup); has(el) {
		setHidden(el, true)
	}
}

func (p *popupView) Measure() (w, h float64) {
	el := p.d.byID(idPopup)
	if !has(el) {
		return 0, 0
	}
	r := el.Call("getBoundingClientRect")
	return r.Get("width").Float(), r.Get("height").Float()
}

func (p *popupView) Viewport() orrery.Rect {
	return orrery.Rect{
		W: p.d.window.Get("innerWidth").Float(),
		H: p.d.window.Get("innerHeight").Float(),
	}
}

func (p *popupView) MoveTo(topLeft core.Point) {
	el := p.d.byID(idPopup)
	if !has(el) {
		return
	}
	style := el.Get("style")
	style.Set("left", px(topLeft.X))
	style.Set("top", px(topLeft.Y))
}

func (p *popupView) AttachEscape(fn func()) {
	p.DetachEscape()
	p.escape = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 && args[0].Get("key").String() == "Escape" {
			fn()
		}
		return nil
	})
	p.bound = true
	p.d.doc.Call("addEventListener", "keydown", p.escape)
}

func (p *popupView) DetachEscape() {
	if !p.bound {
		return
	}
	p.d.doc.Call("removeEventListener", "keydown", p.escape)
	p.escape.Release()
	p.bound = false
}

type calendarView struct{ d *Document }

func (c calendarView) Render(grid orrery.MonthGrid) {
	el := c.d.byID(idCalendar)
	if !has(el) {
		return
	}
	el.Set("innerHTML", calendarHTML(grid))
}

func (c calendarView) Show() {
	if el := c.d.byID(idCalendar); has(el) {
		setHidden(el, false)
	}
}

func (c calendarView) Hide() {
	if el := c.d.byID(idCalendar); has(el) {
		setHidden(el, true)
	}
}

type crtView struct{ d *Document }

func (c crtView) SetCRT(on bool) {
	c.d.doc.Get("body").Get("classList").Call("toggle", "crt", on)
	if btn := c.d.byID(idCRTToggle); has(btn) {
		btn.Call("setAttribute", "aria-pressed", boolAttr(on))
	}
}
