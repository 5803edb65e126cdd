package assets

import (
	"bytes"
	"io/fs"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/model"
)

func TestEveryPhaseHasArt(t *testing.T) {
	static := Static()
	for _, p := range core.Phases() {
		name := strings.TrimPrefix(MoonSrc(p), StaticPrefix)
		if _, err := fs.Stat(static, name); err != nil {
			t.Fatalf("phase %q: missing %s: %v", p.Name, name, err)
		}
	}
}

func TestAnnotationsCoverBodies(t *testing.T) {
	ann, err := Annotations()
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	for _, id := range model.Bodies {
		a, ok := ann[id]
		if !ok || a.Title == "" {
			t.Fatalf("no annotation for %s", id)
		}
	}
}

func TestNewPagePlacesMarkers(t *testing.T) {
	day := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := model.PositionSnapshot{
		Date: "2030-01-01",
		Positions: map[model.BodyID]model.Polar{
			model.Earth:  {Radius: 300, Angle: math.Pi / 2},
			model.Saturn: {Radius: 999, Angle: 0},
		},
	}
	rings := map[model.BodyID]float64{model.Earth: 230, model.Saturn: 500}
	page := NewPage(day, day, snap, rings, nil)

	if len(page.Markers) != 3 || page.Markers[0].ID != model.Sun {
		t.Fatalf("markers = %+v", page.Markers)
	}
	earth := page.Markers[1]
	if math.Abs(earth.X-800) > 1e-9 || math.Abs(earth.Y-570) > 1e-9 {
		t.Fatalf("earth at (%v,%v), want (800,570)", earth.X, earth.Y)
	}
	saturn := page.Markers[2]
	if !saturn.Sprite || math.Abs(saturn.X-(1300-28)) > 1e-9 || math.Abs(saturn.Y-(800-14)) > 1e-9 {
		t.Fatalf("saturn = %+v", saturn)
	}
	if page.Nav.PrevDay != "2029-12-31" || page.Nav.NextMonth != "2030-02-01" {
		t.Fatalf("nav = %+v", page.Nav)
	}
}

func TestIndexTemplateRenders(t *testing.T) {
	tmpl, err := IndexTemplate()
	if err != nil {
		t.Fatalf("IndexTemplate: %v", err)
	}
	day := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rings := map[model.BodyID]float64{model.Earth: 230, model.Mars: 290}
	ann := model.Annotations{model.Mars: {Title: "Mars <red>", Notes: "dusty"}}
	page := NewPage(day, day, model.PositionSnapshot{}, rings, ann)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`id="orbit-earth"`,
		`r="290"`,
		`id="asteroid-field"`,
		`id="date-input" name="date" type="text" value="2030-01-01"`,
		`/?date=2029-12-01`,
		`id="planet-popup"`,
		`"mars"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered page lacks %q", want)
		}
	}
	if strings.Contains(out, "<red>") {
		t.Fatalf("annotation text not escaped")
	}
	if strings.Contains(out, "wasm_exec.js") {
		t.Fatalf("wasm scripts rendered without WASM")
	}
}

func TestParseAnnotationsRejectsUnknownBody(t *testing.T) {
	if _, err := ParseAnnotations([]byte("pluto:\n  title: Pluto\n")); err == nil {
		t.Fatalf("expected error for unknown body")
	}
	ann, err := ParseAnnotations([]byte("Mars Barycenter:\n  title: Red\n  notes: dust\n"))
	if err != nil {
		t.Fatalf("ParseAnnotations: %v", err)
	}
	if ann[model.Mars].Notes != "dust" {
		t.Fatalf("annotations = %+v", ann)
	}
}
