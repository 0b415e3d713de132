package render

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/scalafo/pkg/pattern"
)

// schemaVersion changes whenever a pattern's JSON shape changes.
const schemaVersion = "1"

// JSON renders patterns as a single document for CI consumers.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Schema   string        `json:"schema"`
	Tool     string        `json:"tool"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type pattern.PatternType `json:"type"`
	Data pattern.Pattern     `json:"data"`
}

// Render formats all patterns as indented JSON. HTML escaping is off so
// diagnostic text such as "<init>" or "a && b" survives unmangled.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonOutput{
		Schema:   schemaVersion,
		Tool:     "scalafo",
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{Type: p.Type(), Data: p})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON) + "\n"
	}
	return buf.String()
}
