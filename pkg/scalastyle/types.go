// Package scalastyle parses scalastyle batch output into structured diagnostics.
package scalastyle

import (
	"fmt"
	"strconv"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	// SeverityDisabled marks tool-internal exceptions that must not block a review.
	SeverityDisabled
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityDisabled:
		return "disabled"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityWarning || s > SeverityDisabled {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	case "disabled":
		*s = SeverityDisabled
	default:
		return fmt.Errorf("%w %q", ErrUnknownSeverity, string(b))
	}
	return nil
}

// Diagnostic is one scalastyle finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Line     int      `json:"line"`
	// Column is nil when the tool did not report one.
	Column *int `json:"column,omitempty"`
	// Offset holds the raw character offset for syntax-error reports whose
	// line was recovered from the file; nil otherwise.
	Offset *int `json:"offset,omitempty"`
}

// Location formats the diagnostic position as path:line[:col].
func (d Diagnostic) Location() string {
	loc := d.Path + ":" + strconv.Itoa(d.Line)
	if d.Column != nil {
		loc += ":" + strconv.Itoa(*d.Column)
	}
	return loc
}

// Col returns the column or 0 when absent.
func (d Diagnostic) Col() int {
	if d.Column == nil {
		return 0
	}
	return *d.Column
}

// Stats aggregates counts over a set of diagnostics.
type Stats struct {
	Total      int
	BySeverity map[Severity]int
	ByFile     map[string]int
}

// ComputeStats counts diagnostics by severity and file.
func ComputeStats(diags []Diagnostic) Stats {
	stats := Stats{
		BySeverity: make(map[Severity]int),
		ByFile:     make(map[string]int),
	}
	for _, d := range diags {
		stats.Total++
		stats.BySeverity[d.Severity]++
		stats.ByFile[d.Path]++
	}
	return stats
}

// Files returns the distinct paths in first-seen order.
func Files(diags []Diagnostic) []string {
	seen := make(map[string]bool)
	var files []string
	for _, d := range diags {
		if !seen[d.Path] {
			seen[d.Path] = true
			files = append(files, d.Path)
		}
	}
	return files
}
