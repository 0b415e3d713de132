package mapper

import (
	"fmt"

	"github.com/dkoosis/scalafo/pkg/coverage"
	"github.com/dkoosis/scalafo/pkg/pattern"
)

// FromCoverage converts reconstructed bitmaps into a Summary and a
// CoverageMap with one row per file, ordered by path.
func FromCoverage(report coverage.Report) []pattern.Pattern {
	covered, notCovered := report.Totals()
	return []pattern.Pattern{
		coverageSummary(len(report), covered, notCovered),
		coverageMap(report),
	}
}

func coverageSummary(files, covered, notCovered int) *pattern.Summary {
	executable := covered + notCovered
	if executable == 0 {
		return &pattern.Summary{
			Label: fmt.Sprintf("Coverage: %d files, no executable lines", files),
			Kind:  pattern.SummaryKindCoverage,
			Metrics: []pattern.SummaryItem{
				{Label: "Files", Value: fmt.Sprintf("%d", files), Kind: kindInfo},
			},
		}
	}

	pct := float64(covered) * 100 / float64(executable)
	kind := kindSuccess
	if notCovered > 0 {
		kind = kindWarning
	}
	return &pattern.Summary{
		Label: fmt.Sprintf("Coverage: %.1f%% of %d lines", pct, executable),
		Kind:  pattern.SummaryKindCoverage,
		Metrics: []pattern.SummaryItem{
			{Label: "Covered", Value: fmt.Sprintf("%d", covered), Kind: kindSuccess},
			{Label: "Not Covered", Value: fmt.Sprintf("%d", notCovered), Kind: kind},
			{Label: "Files", Value: fmt.Sprintf("%d", files), Kind: kindInfo},
		},
	}
}

func coverageMap(report coverage.Report) *pattern.CoverageMap {
	paths := report.Paths()
	files := make([]pattern.CoverageFile, len(paths))
	for i, p := range paths {
		bm := report[p]
		c, u := bm.Counts()
		files[i] = pattern.CoverageFile{
			Path:       p,
			Lines:      bm.String(),
			Covered:    c,
			NotCovered: u,
			Percent:    bm.Percent(),
		}
	}
	return &pattern.CoverageMap{Label: "Line Coverage", Files: files}
}
