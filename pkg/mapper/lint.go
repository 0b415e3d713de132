// Package mapper converts parsed tool output to visualization patterns.
package mapper

import (
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/scalafo/pkg/pattern"
	"github.com/dkoosis/scalafo/pkg/scalastyle"
)

const (
	statusFail  = "fail"
	statusPass  = "pass"
	statusSkip  = "skip"
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"
)

// cases.Caser is not safe for concurrent use; create per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// FromDiagnostics converts scalastyle diagnostics into patterns.
// Returns: Summary + Leaderboard (if >1 file) + TestTable per file, files
// in the order the tool reported them.
func FromDiagnostics(diags []scalastyle.Diagnostic) []pattern.Pattern {
	findings := make([]finding, len(diags))
	for i, d := range diags {
		findings[i] = finding{
			file:    d.Path,
			rule:    "scalastyle",
			status:  severityStatus(d.Severity),
			line:    d.Line,
			column:  d.Column,
			message: d.Name,
		}
		if d.Offset != nil {
			findings[i].offset = *d.Offset
		}
	}
	return findingPatterns(findings, findingLabels{
		title: "Scalastyle",
		kind:  pattern.SummaryKindLint,
		notes: titleCase(scalastyle.SeverityDisabled.String()),
	})
}

// severityStatus maps severities onto table statuses. Disabled findings
// show as passing so they never fail a run.
func severityStatus(s scalastyle.Severity) string {
	switch s {
	case scalastyle.SeverityError:
		return statusFail
	case scalastyle.SeverityWarning:
		return statusSkip
	default:
		return statusPass
	}
}

// displayPath shortens a path to its parent directory and base name.
func displayPath(p string) string {
	name := filepath.Base(p)
	if dir := filepath.Dir(p); dir != "." {
		name = filepath.Join(filepath.Base(dir), name)
	}
	return name
}
