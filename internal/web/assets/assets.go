// Package assets embeds the page template, stylesheet, annotations and art
// served alongside the orrery.
package assets

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/orrery/core"
	"github.com/signalsfoundry/orrery/model"
)

// StaticPrefix is the URL prefix the static tree is mounted under.
const StaticPrefix = "/static/"

//go:embed templates/*.tmpl static annotations.yaml
var files embed.FS

// Static returns the tree served under StaticPrefix.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// IndexTemplate parses the page template.
func IndexTemplate() (*template.Template, error) {
	return template.New("index.html.tmpl").Funcs(template.FuncMap{
		"moonSrc": MoonSrc,
		"half":    func(v float64) float64 { return v / 2 },
	}).ParseFS(files, "templates/index.html.tmpl")
}

// MoonSrc returns the URL of a phase's panel image.
func MoonSrc(p core.Phase) string {
	return StaticPrefix + "moon/" + p.AssetID + ".svg"
}

// Annotations decodes the bundled per-body annotations.
func Annotations() (model.Annotations, error) {
	raw, err := files.ReadFile("annotations.yaml")
	if err != nil {
		return nil, err
	}
	return ParseAnnotations(raw)
}

// ParseAnnotations decodes a yaml map of body id to title and notes. Keys
// accept the same spellings as model.ParseBodyID.
func ParseAnnotations(raw []byte) (model.Annotations, error) {
	var decoded map[string]model.Annotation
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	out := make(model.Annotations, len(decoded))
	for key, a := range decoded {
		id, err := model.ParseBodyID(key)
		if err != nil {
			return nil, fmt.Errorf("annotations: %w", err)
		}
		out[id] = a
	}
	return out, nil
}
