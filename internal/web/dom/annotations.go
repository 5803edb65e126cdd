//go:build js && wasm

package dom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/signalsfoundry/orrery/model"
)

// Annotations decodes the JSON block the server renders into the page.
func (d *Document) Annotations() (model.Annotations, error) {
	raw := strings.TrimSpace(d.Text(idAnnotations))
	if raw == "" || raw == "null" {
		return model.Annotations{}, nil
	}
	var ann model.Annotations
	if err := json.Unmarshal([]byte(raw), &ann); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	return ann, nil
}

// Origin returns the page origin, e.g. "https://example.org".
func (d *Document) Origin() string {
	return d.window.Get("location").Get("origin").String()
}
