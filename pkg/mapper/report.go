package mapper

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dkoosis/scalafo/internal/report"
	"github.com/dkoosis/scalafo/pkg/coverage"
	"github.com/dkoosis/scalafo/pkg/pattern"
	"github.com/dkoosis/scalafo/pkg/sarif"
	"github.com/dkoosis/scalafo/pkg/scalastyle"
	"github.com/dkoosis/scalafo/pkg/source"
	"github.com/dkoosis/scalafo/pkg/xunit"
)

// Options supplies what sections need beyond their own content: the
// project files (syntax-error offsets, coverage line counts) and the files
// under review.
type Options struct {
	FS         source.FS
	Paths      coverage.PathSet
	SourceRoot string
}

var errNoSourceFS = errors.New("coverage section needs a project root")

// FromReport converts multi-section report data into patterns.
// Individual section parse failures are reported as error patterns, not
// as a top-level error. A malformed lint section shouldn't hide passing tests.
func FromReport(sections []report.Section, opts Options) []pattern.Pattern {
	allPatterns := make([]pattern.Pattern, 0, len(sections)*2)
	toolSummaries := make([]pattern.SummaryItem, 0, len(sections))
	pass, fail := 0, 0

	for _, sec := range sections {
		sectionPatterns, sectionPass, scopeLabel := mapSection(sec, opts)

		// An explicit status on the delimiter overrides the derived one.
		switch sec.Status {
		case statusPass:
			sectionPass = true
		case statusFail:
			sectionPass = false
		}

		kind := kindSuccess
		if sectionPass {
			pass++
		} else {
			fail++
			kind = kindError
		}
		toolSummaries = append(toolSummaries, pattern.SummaryItem{
			Label: sec.Tool,
			Value: scopeLabel,
			Kind:  kind,
		})

		// Tag tables with their tool source for renderer grouping
		for _, p := range sectionPatterns {
			if t, ok := p.(*pattern.TestTable); ok {
				t.Source = sec.Tool
			}
		}
		allPatterns = append(allPatterns, sectionPatterns...)
	}

	label := fmt.Sprintf("REPORT: %d tools", len(sections))
	if fail == 0 {
		label += ", all pass"
	} else {
		parts := []string{fmt.Sprintf("%d fail", fail)}
		if pass > 0 {
			parts = append(parts, fmt.Sprintf("%d pass", pass))
		}
		label += ": " + strings.Join(parts, ", ")
	}

	topSummary := &pattern.Summary{
		Label:   label,
		Kind:    pattern.SummaryKindReport,
		Metrics: toolSummaries,
	}

	return append([]pattern.Pattern{topSummary}, allPatterns...)
}

func mapSection(sec report.Section, opts Options) ([]pattern.Pattern, bool, string) {
	switch sec.Format {
	case report.FormatScalastyle:
		return mapScalastyleSection(sec, opts)
	case report.FormatCobertura:
		return mapCoberturaSection(sec, opts)
	case report.FormatJUnit:
		return mapJUnitSection(sec)
	case report.FormatSARIF:
		return mapSARIFSection(sec)
	default:
		return sectionError(sec.Tool, fmt.Errorf("unknown format %q", sec.Format)),
			false, fmt.Sprintf("unknown format %q", sec.Format)
	}
}

// sectionError emits a visible error pattern for a section that failed to parse.
func sectionError(tool string, err error) []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Error{Source: tool, Message: err.Error()},
	}
}

func mapScalastyleSection(sec report.Section, opts Options) ([]pattern.Pattern, bool, string) {
	diags, err := scalastyle.NewParser(opts.FS).Parse(bytes.NewReader(sec.Content))
	if err != nil {
		return sectionError(sec.Tool, err), false, fmt.Sprintf("parse error: %v", err)
	}
	stats := scalastyle.ComputeStats(diags)
	// Drop the per-section summary; the report summary carries the counts.
	patterns := FromDiagnostics(diags)[1:]
	if stats.Total == 0 {
		return patterns, true, "clean"
	}
	errs := stats.BySeverity[scalastyle.SeverityError]
	label := fmt.Sprintf("%d err, %d warn", errs, stats.BySeverity[scalastyle.SeverityWarning])
	return patterns, errs == 0, label
}

func mapCoberturaSection(sec report.Section, opts Options) ([]pattern.Pattern, bool, string) {
	if opts.FS == nil {
		return sectionError(sec.Tool, errNoSourceFS), false, "no project root"
	}
	var ropts []coverage.Option
	if opts.SourceRoot != "" {
		ropts = append(ropts, coverage.WithSourceRoot(opts.SourceRoot))
	}
	cov, err := coverage.NewReconstructor(opts.FS, ropts...).Reconstruct(sec.Content, opts.Paths)
	if err != nil {
		return sectionError(sec.Tool, err), false, fmt.Sprintf("parse error: %v", err)
	}
	covered, notCovered := cov.Totals()
	label := fmt.Sprintf("%d files, %d/%d lines covered", len(cov), covered, covered+notCovered)
	// Coverage is informational; it never fails a report on its own.
	return []pattern.Pattern{coverageMap(cov)}, true, label
}

func mapJUnitSection(sec report.Section) ([]pattern.Pattern, bool, string) {
	results, err := xunit.ParseBytes(sec.Content)
	if err != nil {
		return sectionError(sec.Tool, err), false, fmt.Sprintf("parse error: %v", err)
	}
	stats := xunit.ComputeStats(results)
	patterns := FromTests(results)[1:]

	if stats.Failed == 0 && stats.Broken == 0 {
		return patterns, true, fmt.Sprintf("PASS, %d tests", stats.Total)
	}
	return patterns, false, fmt.Sprintf("FAIL, %d failed, %d passed", stats.Failed+stats.Broken, stats.Passed)
}

func mapSARIFSection(sec report.Section) ([]pattern.Pattern, bool, string) {
	doc, err := sarif.ReadBytes(sec.Content)
	if err != nil {
		return sectionError(sec.Tool, err), false, fmt.Sprintf("parse error: %v", err)
	}
	stats := sarif.ComputeStats(doc)
	patterns := FromSARIF(doc)[1:]

	passed := stats.ByLevel["error"] == 0
	label := fmt.Sprintf("%d diags", stats.TotalIssues)
	if stats.TotalIssues > 0 {
		var parts []string
		if n := stats.ByLevel["error"]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d err", n))
		}
		if n := stats.ByLevel["warning"]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d warn", n))
		}
		if n := stats.ByLevel["note"]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d note", n))
		}
		label = strings.Join(parts, ", ")
	}
	return patterns, passed, label
}
