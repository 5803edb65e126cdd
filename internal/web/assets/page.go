package assets

import (
	"math"
	"sort"
	"time"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/model"
)

// Marker is one body as drawn by the template.
type Marker struct {
	ID     model.BodyID
	Title  string
	Ring   float64
	X, Y   float64
	Sprite bool
	W, H   float64
}

// Page is the data rendered into the index template.
type Page struct {
	Date        string
	Today       string
	Nav         Nav
	Markers     []Marker
	Moon        core.Phase
	Annotations model.Annotations
	// WASM enables the script tags that boot the browser engine.
	WASM bool
}

// Nav holds the dates behind the navigation links. The browser engine
// intercepts them; without it they are plain page loads.
type Nav struct {
	PrevMonth, PrevDay, NextDay, NextMonth string
}

// Sprite sizes of bodies drawn as images rather than circles.
var spriteSizes = map[model.BodyID][2]float64{
	model.Saturn: {56, 28},
}

// NewPage lays the snapshot out server side so the page is correct before
// the browser engine starts, and without it.
func NewPage(date, today time.Time, snap model.PositionSnapshot, rings map[model.BodyID]float64, ann model.Annotations) Page {
	mapper := core.NewMapper(core.SceneCenter)
	for id, r := range rings {
		mapper.SetFixedRadius(id, r)
	}
	page := Page{
		Date:        core.FormatDate(date),
		Today:       core.FormatDate(today),
		Nav: Nav{
			PrevMonth: core.FormatDate(core.AddMonths(date, -1)),
			PrevDay:   core.FormatDate(core.AddDays(date, -1)),
			NextDay:   core.FormatDate(core.AddDays(date, 1)),
			NextMonth: core.FormatDate(core.AddMonths(date, 1)),
		},
		Moon:        core.MoonPhase(date),
		Annotations: ann,
	}

	page.Markers = append(page.Markers, Marker{ID: model.Sun, Title: model.Sun.Title(), X: core.SceneCenter, Y: core.SceneCenter})
	ids := make([]model.BodyID, 0, len(rings))
	for id := range rings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return rings[ids[i]] < rings[ids[j]] })
	for _, id := range ids {
		m := Marker{ID: id, Title: id.Title(), Ring: rings[id]}
		pt := core.Point{X: core.SceneCenter + rings[id], Y: core.SceneCenter}
		if p, ok := snap.Positions[id]; ok && !math.IsNaN(p.Angle) && !math.IsInf(p.Angle, 0) {
			pt = mapper.Locate(id, p)
		}
		m.X, m.Y = pt.X, pt.Y
		if size, ok := spriteSizes[id]; ok {
			m.Sprite = true
			m.W, m.H = size[0], size[1]
			m.X, m.Y = pt.X-m.W/2, pt.Y-m.H/2
		}
		page.Markers = append(page.Markers, m)
	}
	return page
}
