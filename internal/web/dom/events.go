//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/model"
)

// Bindings holds the listeners installed by Bind.
type Bindings struct {
	d     *Document
	funcs []listener
}

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

// Bind installs the page's event listeners. Handlers only classify the
// event and post to app; no DOM state is changed outside the UI loop.
func (d *Document) Bind(app *orrery.App) *Bindings {
	b := &Bindings{d: d}

	b.on(d.byID(idDateForm), "submit", func(ev js.Value) {
		ev.Call("preventDefault")
		app.SubmitDate()
	})
	b.on(d.byID(idDateNav), "click", func(ev js.Value) {
		link := closest(ev.Get("target"), "a")
		if !has(link) {
			return
		}
		ev.Call("preventDefault")
		if link.Get("id").String() == idTodayLink {
			app.GoToday()
			return
		}
		if n := shiftAttr(dataset(link, "shiftDays")); n != 0 {
			app.ShiftDays(n)
		}
		if n := shiftAttr(dataset(link, "shiftMonths")); n != 0 {
			app.ShiftMonths(n)
		}
	})
	b.on(d.byID(idCalendarBtn), "click", func(js.Value) { app.ToggleCalendar() })
	b.on(d.byID(idCalendar), "click", func(ev js.Value) {
		target := ev.Get("target")
		if step := closest(target, "[data-calendar-step]"); has(step) {
			app.CalendarStep(shiftAttr(dataset(step, "calendarStep")))
			return
		}
		if cell := closest(target, "td[data-day]"); has(cell) {
			app.SelectDay(shiftAttr(dataset(cell, "day")))
		}
	})
	b.on(d.byID(idPlayToggle), "click", func(js.Value) { app.TogglePlay() })
	b.on(d.byID(idCRTToggle), "click", func(js.Value) { app.ToggleCRT() })
	b.on(d.byID(idSidebarToggle), "click", func(js.Value) {
		collapsed := d.doc.Get("body").Get("classList").Call("toggle", "sidebar-collapsed").Bool()
		if btn := d.byID(idSidebarToggle); has(btn) {
			btn.Call("setAttribute", "aria-expanded", boolAttr(!collapsed))
		}
	})

	b.on(d.doc, "click", func(ev js.Value) {
		app.Click(d.classifyClick(ev.Get("target")))
	})
	b.on(d.doc, "keydown", func(ev js.Value) {
		key := ev.Get("key").String()
		var body model.BodyID
		active := d.doc.Get("activeElement")
		if marker := closest(active, ".body"); has(marker) {
			if id, err := model.ParseBodyID(marker.Get("id").String()); err == nil {
				body = id
			}
		}
		if body != "" && orrery.IsActivationKey(key) {
			ev.Call("preventDefault")
		}
		app.KeyDown(key, body, anchorOf(active, body))
	})
	b.on(d.window, "popstate", func(js.Value) { app.PopState() })

	if app.Player != nil {
		app.Player.OnChange(func(playing bool) {
			btn := d.byID(idPlayToggle)
			if !has(btn) {
				return
			}
			btn.Call("setAttribute", "aria-pressed", boolAttr(playing))
			if playing {
				btn.Set("textContent", "❚❚ pause")
			} else {
				btn.Set("textContent", "▶ play")
			}
		})
	}
	return b
}

// Release removes every listener.
func (b *Bindings) Release() {
	for _, l := range b.funcs {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	b.funcs = nil
}

func (b *Bindings) on(target js.Value, event string, fn func(ev js.Value)) {
	if !has(target) {
		return
	}
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, f)
	b.funcs = append(b.funcs, listener{target: target, event: event, fn: f})
}

func (d *Document) classifyClick(target js.Value) orrery.ClickTarget {
	var ct orrery.ClickTarget
	switch {
	case has(closest(target, "#"+idCalendar)):
		ct.Origin = orrery.ClickCalendar
	case has(closest(target, "#"+idCalendarBtn)):
		ct.Origin = orrery.ClickToggle
	case has(closest(target, "#"+idDateInput)):
		ct.Origin = orrery.ClickDateField
	}
	if has(closest(target, "#"+idPopup)) {
		ct.InPopup = true
		return ct
	}
	if marker := closest(target, ".body"); has(marker) {
		if id, err := model.ParseBodyID(marker.Get("id").String()); err == nil {
			ct.Body = id
			ct.Anchor = centre(marker)
		}
	}
	return ct
}

func anchorOf(el js.Value, body model.BodyID) (p core.Point) {
	if body == "" || !has(el) {
		return p
	}
	return centre(el)
}

func closest(el js.Value, selector string) js.Value {
	if !has(el) || el.Get("closest").IsUndefined() {
		return js.Null()
	}
	return el.Call("closest", selector)
}

func dataset(el js.Value, key string) string {
	v := el.Get("dataset").Get(key)
	if !has(v) {
		return ""
	}
	return v.String()
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
