package sink

import (
	"encoding/json"

	"github.com/matzehuels/arcforge/pkg/scene"
)

// RenderJSON exports the scene as a pretty-printed JSON document. This is
// the rendering-ready description consumed by browser-side engines.
func RenderJSON(s scene.Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseJSON reads a scene previously written by [RenderJSON].
func ParseJSON(data []byte) (scene.Scene, error) {
	var s scene.Scene
	err := json.Unmarshal(data, &s)
	return s, err
}
