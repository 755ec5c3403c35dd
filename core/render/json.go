// Package render — JSON renderer.
// Serialises the story as is: metadata, ordered pages with their kinds and
// anchors, and the summary they were chosen against.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/stampify/core"
)

// JSONRenderer produces indented JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the story.
func (r *JSONRenderer) Render(story *core.Story) ([]byte, error) {
	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
