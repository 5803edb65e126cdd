package orrery

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/model"
)

// PopupMargin is the minimum distance kept between the popup and both the
// anchor and the viewport edge.
const PopupMargin = 12.0

// DateSource reports the date whose positions are on screen.
type DateSource interface {
	Displayed() string
}

// PopupRow is one labelled line of popup content.
type PopupRow struct {
	Label string
	Value string
}

// PopupContent is the rendered description of a body.
type PopupContent struct {
	Body  model.BodyID
	Title string
	Notes string
	Rows  []PopupRow
}

// HTML renders the content with every text field escaped.
func (c PopupContent) HTML() string {
	var b strings.Builder
	b.WriteString(`<h3 class="popup-title">`)
	b.WriteString(html.EscapeString(c.Title))
	b.WriteString(`</h3>`)
	if c.Notes != "" {
		b.WriteString(`<p class="popup-notes">`)
		b.WriteString(html.EscapeString(c.Notes))
		b.WriteString(`</p>`)
	}
	b.WriteString(`<dl class="popup-facts">`)
	for _, row := range c.Rows {
		b.WriteString(`<dt>`)
		b.WriteString(html.EscapeString(row.Label))
		b.WriteString(`</dt><dd>`)
		b.WriteString(html.EscapeString(row.Value))
		b.WriteString(`</dd>`)
	}
	b.WriteString(`</dl>`)
	return b.String()
}

// Row returns the value for label.
func (c PopupContent) Row(label string) (string, bool) {
	for _, row := range c.Rows {
		if row.Label == label {
			return row.Value, true
		}
	}
	return "", false
}

// Labels used in popup rows.
const (
	LabelDayLength   = "Day length"
	LabelYearLength  = "Year length"
	LabelLocalYear   = "Year length (local days)"
	LabelGravity     = "Surface gravity"
	LabelTemperature = "Mean temperature"
	LabelMoons       = "Moons"
	LabelAtmosphere  = "Atmosphere"
	LabelComposition = "Composition"
	LabelProgress    = "Year progress"
	LabelDayOfYear   = "Day of year"
	LabelLocalDay    = "Day of year (local days)"
	LabelNextStorm   = "Next predicted storm"
)

// BuildPopupContent merges the static annotation with fetched facts.
func BuildPopupContent(body model.BodyID, ann model.Annotation, info model.PlanetInfo) PopupContent {
	title := ann.Title
	if title == "" {
		title = body.Title()
	}
	rows := []PopupRow{
		{LabelDayLength, fmt.Sprintf("%.2f h", info.DayLengthHours)},
	}
	if body.IsPlanet() {
		rows = append(rows,
			PopupRow{LabelYearLength, fmt.Sprintf("%.2f Earth days", info.YearLengthDays)},
			PopupRow{LabelLocalYear, fmt.Sprintf("%.2f", info.YearLengthLocalDays)},
		)
	}
	rows = append(rows,
		PopupRow{LabelGravity, fmt.Sprintf("%.2f m/s²", info.Gravity)},
		PopupRow{LabelTemperature, fmt.Sprintf("%.1f °C", info.MeanTemperatureC)},
		PopupRow{LabelMoons, fmt.Sprintf("%d", info.Moons)},
		PopupRow{LabelAtmosphere, info.Atmosphere},
		PopupRow{LabelComposition, info.Composition},
	)
	if body.IsPlanet() {
		rows = append(rows,
			PopupRow{LabelProgress, fmt.Sprintf("%.1f%%", info.YearProgress*100)},
			PopupRow{LabelDayOfYear, fmt.Sprintf("%.1f", info.DayOfYearEarth)},
			PopupRow{LabelLocalDay, fmt.Sprintf("%.1f", info.DayOfYearLocal)},
		)
	}
	return PopupContent{Body: body, Title: title, Notes: ann.Notes, Rows: rows}
}

// PlacePopup returns the top-left corner for a popup of size w×h anchored at
// anchor. It prefers below-right of the anchor, flips to the other side on
// either axis when the preferred side lacks room, and finally clamps into vp.
func PlacePopup(anchor core.Point, w, h float64, vp Rect) core.Point {
	x := anchor.X + PopupMargin
	if x+w > vp.X+vp.W-PopupMargin {
		x = anchor.X - PopupMargin - w
	}
	y := anchor.Y + PopupMargin
	if y+h > vp.Y+vp.H-PopupMargin {
		y = anchor.Y - PopupMargin - h
	}
	return core.Point{
		X: clampSpan(x, vp.X+PopupMargin, vp.X+vp.W-PopupMargin-w),
		Y: clampSpan(y, vp.Y+PopupMargin, vp.Y+vp.H-PopupMargin-h),
	}
}

// clampSpan clamps v into [lo, hi], preferring lo when the span is inverted.
func clampSpan(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// IsActivationKey reports whether key activates a focused marker.
func IsActivationKey(key string) bool {
	return key == "Enter" || key == " " || key == "Spacebar"
}

type popupSession struct {
	id      string
	body    model.BodyID
	anchor  core.Point
	content *PopupContent
}

// PopupController opens and closes the single info popup. Methods must be
// called on the UI loop.
type PopupController struct {
	ctx         context.Context
	loop        Dispatcher
	backend     Backend
	view        PopupView
	dates       DateSource
	annotations model.Annotations
	log         logging.Logger

	session *popupSession
}

// PopupControllerConfig wires a PopupController.
type PopupControllerConfig struct {
	Loop        Dispatcher
	Backend     Backend
	View        PopupView
	Dates       DateSource
	Annotations model.Annotations
	Log         logging.Logger
}

// NewPopupController constructs a closed popup controller.
func NewPopupController(ctx context.Context, cfg PopupControllerConfig) *PopupController {
	if cfg.Log == nil {
		cfg.Log = logging.Noop()
	}
	return &PopupController{
		ctx:         ctx,
		loop:        cfg.Loop,
		backend:     cfg.Backend,
		view:        cfg.View,
		dates:       cfg.Dates,
		annotations: cfg.Annotations,
		log:         cfg.Log.With(logging.String("component", "popup")),
	}
}

// IsOpen reports whether a popup session is active.
func (p *PopupController) IsOpen() bool { return p.session != nil }

// Current returns the open session's id and body.
func (p *PopupController) Current() (id string, body model.BodyID, ok bool) {
	if p.session == nil {
		return "", "", false
	}
	return p.session.id, p.session.body, true
}

// Open shows the popup for body near anchor and starts fetching its facts.
// Any session already open is superseded. It returns the new session id.
func (p *PopupController) Open(body model.BodyID, anchor core.Point) string {
	if p.session == nil {
		p.view.AttachEscape(func() { p.loop.Post(p.Close) })
	}
	s := &popupSession{id: uuid.NewString(), body: body, anchor: anchor}
	p.session = s

	p.view.ShowLoading(body)
	p.schedulePlacement(s.id)

	date := ""
	if p.dates != nil {
		date = p.dates.Displayed()
	}
	go p.fetchInfo(s.id, body, date)
	if body == model.Sun {
		go p.fetchSpaceWeather(s.id, date)
	}
	return s.id
}

// Close hides the popup and detaches the Escape listener.
func (p *PopupController) Close() {
	if p.session == nil {
		return
	}
	p.session = nil
	p.view.Hide()
	p.view.DetachEscape()
}

// HandleKey closes on Escape. It reports whether the key was consumed.
func (p *PopupController) HandleKey(key string) bool {
	if key == "Escape" && p.session != nil {
		p.Close()
		return true
	}
	return false
}

// HandleClick closes the popup for clicks outside it.
func (p *PopupController) HandleClick(insidePopup bool) {
	if insidePopup {
		return
	}
	p.Close()
}

// active returns the session only if it is still the open one.
func (p *PopupController) active(id string) *popupSession {
	if p.session == nil || p.session.id != id {
		return nil
	}
	return p.session
}

// schedulePlacement defers measurement until the loop has let layout settle.
func (p *PopupController) schedulePlacement(id string) {
	p.loop.Post(func() {
		s := p.active(id)
		if s == nil {
			return
		}
		w, h := p.view.Measure()
		p.view.MoveTo(PlacePopup(s.anchor, w, h, p.view.Viewport()))
	})
}

func (p *PopupController) fetchInfo(id string, body model.BodyID, date string) {
	info, err := p.backend.PlanetInfo(p.ctx, body, date)
	p.loop.Post(func() {
		s := p.active(id)
		if s == nil {
			p.log.Debug(p.ctx, "dropping info for closed popup",
				logging.String("body", string(body)), logging.String("session", id))
			return
		}
		if err != nil {
			p.log.Warn(p.ctx, "planet info lookup failed",
				logging.String("body", string(body)), logging.Err(err))
			p.view.ShowError(fmt.Sprintf("Could not load information for %s.", body.Title()))
			p.schedulePlacement(id)
			return
		}
		content := BuildPopupContent(body, p.annotations[body], info)
		if s.content != nil {
			// Space weather arrived first.
			if v, ok := s.content.Row(LabelNextStorm); ok {
				content.Rows = append(content.Rows, PopupRow{LabelNextStorm, v})
			}
		}
		s.content = &content
		p.view.ShowContent(content)
		p.schedulePlacement(id)
	})
}

func (p *PopupController) fetchSpaceWeather(id, date string) {
	sw, err := p.backend.SpaceWeather(p.ctx, date)
	p.loop.Post(func() {
		s := p.active(id)
		if s == nil {
			return
		}
		if err != nil {
			p.log.Debug(p.ctx, "space weather lookup failed", logging.Err(err))
			return
		}
		row := PopupRow{LabelNextStorm, sw.NextStorm.UTC().Format("2006-01-02 15:04 UTC")}
		if s.content == nil {
			// Held until the main facts land.
			s.content = &PopupContent{Body: s.body, Rows: []PopupRow{row}}
			return
		}
		s.content.Rows = append(s.content.Rows, row)
		p.view.ShowContent(*s.content)
		p.schedulePlacement(id)
	})
}
