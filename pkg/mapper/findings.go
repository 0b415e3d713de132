package mapper

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dkoosis/scalafo/pkg/pattern"
)

// finding is one located diagnostic, whichever format it was read from.
type finding struct {
	file    string
	rule    string
	status  string // statusFail, statusSkip or statusPass
	line    int    // 0 when unknown
	column  *int   // nil when the tool reported none
	offset  int    // raw character offset, 0 when absent
	message string
}

// itemName formats rule:line[:col]. A column is written only when one was
// reported, so a missing column never reads as column 0.
func (f finding) itemName() string {
	if f.line <= 0 {
		return f.rule
	}
	name := f.rule + ":" + strconv.Itoa(f.line)
	if f.column != nil {
		name += ":" + strconv.Itoa(*f.column)
	}
	return name
}

func (f finding) details() string {
	if f.line <= 0 && f.offset > 0 {
		return fmt.Sprintf("at offset %d: %s", f.offset, f.message)
	}
	return f.message
}

// findingLabels names the summary for one source of findings.
type findingLabels struct {
	title string // "Scalastyle"
	kind  pattern.SummaryKind
	notes string // metric label for findings that never fail: "Disabled", "Notes"
}

func findingPatterns(findings []finding, labels findingLabels) []pattern.Pattern {
	var order []string
	byFile := make(map[string][]finding)
	for _, f := range findings {
		if _, seen := byFile[f.file]; !seen {
			order = append(order, f.file)
		}
		byFile[f.file] = append(byFile[f.file], f)
	}

	patterns := []pattern.Pattern{findingSummary(findings, len(order), labels)}
	if lb := findingLeaderboard(byFile); lb != nil {
		patterns = append(patterns, lb)
	}
	for _, file := range order {
		patterns = append(patterns, findingTable(file, byFile[file]))
	}
	return patterns
}

func findingSummary(findings []finding, files int, labels findingLabels) *pattern.Summary {
	if len(findings) == 0 {
		return &pattern.Summary{
			Label:   labels.title + ": clean",
			Kind:    labels.kind,
			Metrics: []pattern.SummaryItem{{Label: "Issues", Value: "0", Kind: kindSuccess}},
		}
	}

	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.status]++
	}
	var metrics []pattern.SummaryItem
	for _, m := range []struct {
		status, label, kind string
	}{
		{statusFail, "Errors", kindError},
		{statusSkip, "Warnings", kindWarning},
		{statusPass, labels.notes, kindInfo},
	} {
		if n := counts[m.status]; n > 0 {
			metrics = append(metrics, pattern.SummaryItem{Label: m.label, Value: strconv.Itoa(n), Kind: m.kind})
		}
	}
	metrics = append(metrics, pattern.SummaryItem{Label: "Files", Value: strconv.Itoa(files), Kind: kindInfo})

	return &pattern.Summary{
		Label:   fmt.Sprintf("%s: %d issues", labels.title, len(findings)),
		Kind:    labels.kind,
		Metrics: metrics,
	}
}

// findingLeaderboard ranks the ten files with the most findings. A single
// file needs no ranking.
func findingLeaderboard(byFile map[string][]finding) *pattern.Leaderboard {
	if len(byFile) <= 1 {
		return nil
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		ni, nj := len(byFile[files[i]]), len(byFile[files[j]])
		if ni != nj {
			return ni > nj
		}
		return files[i] < files[j]
	})
	top := files[:min(len(files), 10)]

	items := make([]pattern.LeaderboardItem, len(top))
	for i, f := range top {
		n := len(byFile[f])
		items[i] = pattern.LeaderboardItem{
			Name:   displayPath(f),
			Metric: fmt.Sprintf("%d issues", n),
			Value:  float64(n),
			Rank:   i + 1,
		}
	}
	return &pattern.Leaderboard{
		Label:      "Files with Most Issues",
		MetricName: "Issues",
		Items:      items,
		TotalCount: len(byFile),
		ShowRank:   true,
	}
}

// findingTable lists one file's findings: errors first, then by position.
// A finding without a column sorts before one on the same line with a column.
func findingTable(file string, findings []finding) *pattern.TestTable {
	sorted := make([]finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if pa, pb := statusPriority(a.status), statusPriority(b.status); pa != pb {
			return pa < pb
		}
		if a.line != b.line {
			return a.line < b.line
		}
		return columnOrder(a.column) < columnOrder(b.column)
	})

	items := make([]pattern.TestTableItem, len(sorted))
	for i, f := range sorted {
		items[i] = pattern.TestTableItem{
			Name:    f.itemName(),
			Status:  f.status,
			Details: f.details(),
		}
	}
	return &pattern.TestTable{Label: file, Results: items}
}

func columnOrder(c *int) int {
	if c == nil {
		return -1
	}
	return *c
}

func statusPriority(status string) int {
	switch status {
	case statusFail:
		return 0
	case statusSkip:
		return 1
	default:
		return 2
	}
}
