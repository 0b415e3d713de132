package mapper

import (
	"github.com/dkoosis/scalafo/pkg/pattern"
	"github.com/dkoosis/scalafo/pkg/sarif"
)

// FromSARIF converts a SARIF document into the same patterns as scalastyle
// output, so `wrap sarif` output reads back identically. The summary is
// titled after the first run's driver.
func FromSARIF(doc *sarif.Document) []pattern.Pattern {
	var findings []finding
	for _, g := range sarif.GroupByFile(doc) {
		for _, r := range g.Results {
			findings = append(findings, fromResult(g.Key, r))
		}
	}
	return findingPatterns(findings, findingLabels{
		title: sarifTitle(doc),
		kind:  pattern.SummaryKindSARIF,
		notes: "Notes",
	})
}

func fromResult(file string, r sarif.Result) finding {
	f := finding{
		file:    file,
		rule:    r.RuleID,
		status:  mapLevel(r.Level),
		line:    r.Line(),
		offset:  r.CharOffset(),
		message: r.Message.Text,
	}
	// SARIF columns are 1-based; 0 is the omitted value.
	if c := r.Col(); c > 0 {
		f.column = &c
	}
	if f.rule == "" {
		f.rule = "sarif"
	}
	return f
}

func sarifTitle(doc *sarif.Document) string {
	if len(doc.Runs) > 0 && doc.Runs[0].Tool.Driver.Name != "" {
		return titleCase(doc.Runs[0].Tool.Driver.Name)
	}
	return "Analysis"
}

func mapLevel(level string) string {
	switch level {
	case "error":
		return statusFail
	case "warning":
		return statusSkip
	default:
		return statusPass
	}
}
