package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dkoosis/scalafo/pkg/pattern"
)

const (
	statusFail = "fail"
	statusSkip = "skip"
	statusPass = "pass"
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, deterministic sort, SCOPE line, importance-budgeted truncation.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var summaries []*pattern.Summary
	var tables []*pattern.TestTable
	var maps []*pattern.CoverageMap
	var errs []*pattern.Error

	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			summaries = append(summaries, v)
		case *pattern.TestTable:
			tables = append(tables, v)
		case *pattern.CoverageMap:
			maps = append(maps, v)
		case *pattern.Error:
			errs = append(errs, v)
		}
	}

	var kind pattern.SummaryKind
	if len(summaries) > 0 {
		kind = summaries[0].Kind
	}

	var sb strings.Builder
	switch kind {
	case pattern.SummaryKindReport:
		sb.WriteString(l.renderReport(summaries[0], tables, errs))
		errs = nil
	case pattern.SummaryKindTest:
		sb.WriteString(l.renderTestOutput(summaries, tables))
	case pattern.SummaryKindCoverage:
		sb.WriteString("SCOPE: " + summaries[0].Label + "\n")
	default:
		sb.WriteString(l.renderDiagnostics(tables))
	}
	for _, m := range maps {
		sb.WriteString(renderCoverageText(m))
	}
	for _, e := range errs {
		sb.WriteString(renderErrorText(e))
	}
	return sb.String()
}

func (l *LLM) renderReport(summary *pattern.Summary, tables []*pattern.TestTable, errs []*pattern.Error) string {
	var sb strings.Builder
	sb.WriteString(summary.Label + "\n")

	tablesByTool := make(map[string][]*pattern.TestTable)
	for _, t := range tables {
		tablesByTool[t.Source] = append(tablesByTool[t.Source], t)
	}
	errsByTool := make(map[string][]*pattern.Error)
	for _, e := range errs {
		errsByTool[e.Source] = append(errsByTool[e.Source], e)
	}

	for _, m := range summary.Metrics {
		sb.WriteString("\n" + m.Label + ": " + m.Value + "\n")
		for _, e := range errsByTool[m.Label] {
			sb.WriteString("  ERROR " + e.Message + "\n")
		}
		for _, t := range tablesByTool[m.Label] {
			sb.WriteString("\n  " + t.Label + "\n")
			for _, item := range t.Results {
				prefix := "  "
				if item.Status == statusFail {
					prefix = "  FAIL "
				}
				sb.WriteString(prefix + item.Name)
				if item.Duration != "" {
					sb.WriteString(" (" + item.Duration + ")")
				}
				sb.WriteString("\n")
				writeDetails(&sb, item.Details)
			}
		}
	}

	return sb.String()
}

// renderDiagnostics prints lint and SARIF findings with one block per file.
// Files carrying errors come first; within a file, errors lead and the rest
// follow by line. Item names are printed as the mapper formatted them.
func (l *LLM) renderDiagnostics(tables []*pattern.TestTable) string {
	var sb strings.Builder

	sb.WriteString("SCOPE: " + diagnosticScope(tables) + "\n")

	type diagEntry struct {
		level   string
		name    string
		line    int
		message string
	}
	type fileBlock struct {
		file  string
		worst int
		diags []diagEntry
	}

	blocks := make([]fileBlock, 0, len(tables))
	for _, t := range tables {
		b := fileBlock{file: t.Label, worst: llmLevelPriority("")}
		for _, item := range t.Results {
			level := llmLevel(item.Status)
			b.worst = min(b.worst, llmLevelPriority(level))
			b.diags = append(b.diags, diagEntry{
				level:   level,
				name:    item.Name,
				line:    locationLine(item.Name),
				message: item.Details,
			})
		}
		sort.SliceStable(b.diags, func(i, j int) bool {
			pi, pj := llmLevelPriority(b.diags[i].level), llmLevelPriority(b.diags[j].level)
			if pi != pj {
				return pi < pj
			}
			return b.diags[i].line < b.diags[j].line
		})
		blocks = append(blocks, b)
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].worst != blocks[j].worst {
			return blocks[i].worst < blocks[j].worst
		}
		return blocks[i].file < blocks[j].file
	})

	for _, b := range blocks {
		sb.WriteString("\n## " + b.file + "\n")
		for _, d := range b.diags {
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", d.level, d.name, d.message))
		}
	}

	return sb.String()
}

func llmLevel(status string) string {
	switch status {
	case statusFail:
		return "ERR"
	case statusPass:
		return "NOTE"
	default:
		return "WARN"
	}
}

func (l *LLM) renderTestOutput(summaries []*pattern.Summary, tables []*pattern.TestTable) string {
	var sb strings.Builder

	for _, s := range summaries {
		sb.WriteString("SCOPE: " + s.Label + "\n")
	}

	// Tables arrive failures first, then the collapsed passing suites.
	for _, t := range tables {
		sb.WriteString("\n")
		sb.WriteString(t.Label + "\n")
		for _, item := range t.Results {
			prefix := "  PASS"
			switch item.Status {
			case statusFail:
				prefix = "  FAIL"
			case statusSkip:
				prefix = "  SKIP"
			}

			dur := ""
			if item.Duration != "" {
				dur = " (" + item.Duration + ")"
			}
			sb.WriteString(fmt.Sprintf("%s %s%s\n", prefix, item.Name, dur))
			writeDetails(&sb, item.Details)
		}
	}

	return sb.String()
}

// renderCoverageText lists uncovered line ranges per file; the bitmap
// itself is too noisy for a reader.
func renderCoverageText(c *pattern.CoverageMap) string {
	var sb strings.Builder
	sb.WriteString("\n" + strings.ToUpper(c.Label) + "\n")
	if len(c.Files) == 0 {
		sb.WriteString("  (no files under review)\n")
		return sb.String()
	}
	for _, f := range c.Files {
		sb.WriteString(fmt.Sprintf("  %s %.1f%% (%d/%d)", f.Path, f.Percent, f.Covered, f.Covered+f.NotCovered))
		if ranges := uncoveredRanges(f.Lines); ranges != "" {
			sb.WriteString(" uncovered: " + ranges)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// uncoveredRanges compresses runs of U lines into "a-b" ranges. Runs are
// broken only by covered lines; non-executable lines do not split a run.
func uncoveredRanges(lines string) string {
	var parts []string
	start, last := 0, 0
	flush := func() {
		if start == 0 {
			return
		}
		if start == last {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, strconv.Itoa(start)+"-"+strconv.Itoa(last))
		}
		start = 0
	}
	for i, ch := range lines {
		line := i + 1
		switch ch {
		case 'U':
			if start == 0 {
				start = line
			}
			last = line
		case 'C':
			flush()
		}
	}
	flush()
	return strings.Join(parts, ",")
}

func renderErrorText(e *pattern.Error) string {
	if e.Source == "" {
		return "ERROR " + e.Message + "\n"
	}
	return "ERROR " + e.Source + ": " + e.Message + "\n"
}

func writeDetails(sb *strings.Builder, details string) {
	if details == "" {
		return
	}
	lines := strings.Split(details, "\n")
	n := min(len(lines), 3)
	for _, line := range lines[:n] {
		sb.WriteString("    " + line + "\n")
	}
	if len(lines) > 3 {
		sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(lines)-3))
	}
}

func diagnosticScope(tables []*pattern.TestTable) string {
	fileCount := len(tables)
	var errCount, warnCount, noteCount int
	for _, t := range tables {
		for _, item := range t.Results {
			switch item.Status {
			case statusFail:
				errCount++
			case statusSkip:
				warnCount++
			default:
				noteCount++
			}
		}
	}
	total := errCount + warnCount + noteCount

	scope := fmt.Sprintf("%d files, %d diags", fileCount, total)
	var breakdown []string
	if errCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d err", errCount))
	}
	if warnCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d warn", warnCount))
	}
	if noteCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d note", noteCount))
	}
	if len(breakdown) > 0 {
		scope += " (" + strings.Join(breakdown, ", ") + ")"
	}
	return scope
}

// locationLine returns the line from a "rule:line[:col]" item name, or 0.
func locationLine(name string) int {
	parts := strings.Split(name, ":")
	if len(parts) < 2 {
		return 0
	}
	line, _ := strconv.Atoi(parts[1])
	return line
}

func llmLevelPriority(level string) int {
	switch level {
	case "ERR":
		return 0
	case "WARN":
		return 1
	default:
		return 2
	}
}
