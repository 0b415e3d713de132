// Package render provides output renderers for scalafo's visualization patterns.
package render

import "github.com/dkoosis/scalafo/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// ForFormat returns the renderer for a resolved output format. Unknown
// formats fall back to terminal output.
func ForFormat(format string, theme Theme, width int) Renderer {
	switch format {
	case "llm":
		return NewLLM()
	case "json":
		return NewJSON()
	default:
		return NewTerminal(theme, width)
	}
}
