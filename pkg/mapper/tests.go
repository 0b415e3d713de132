package mapper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dkoosis/scalafo/pkg/pattern"
	"github.com/dkoosis/scalafo/pkg/xunit"
)

// FromTests converts test results into visualization patterns.
// Returns: Summary + TestTable per failing suite + one table of passing
// suites + CoverageMap when results carry coverage.
func FromTests(results []xunit.Result) []pattern.Pattern {
	stats := xunit.ComputeStats(results)
	patterns := []pattern.Pattern{testSummary(stats)}

	suites := groupBySuite(results)

	for _, s := range suites {
		if s.failed > 0 {
			patterns = append(patterns, failedSuiteTable(s))
		}
	}

	var passItems []pattern.TestTableItem
	for _, s := range suites {
		if s.failed == 0 {
			passItems = append(passItems, pattern.TestTableItem{
				Name:     shortSuiteName(s.name),
				Status:   suiteStatus(s),
				Duration: formatDuration(s.duration),
				Count:    len(s.results),
			})
		}
	}
	if len(passItems) > 0 {
		patterns = append(patterns, &pattern.TestTable{
			Label:   fmt.Sprintf("Passing Suites (%d)", len(passItems)),
			Results: passItems,
		})
	}

	// Coverage is shared by every result; render it once.
	for _, r := range results {
		if len(r.Coverage) > 0 {
			patterns = append(patterns, coverageMap(r.Coverage))
			break
		}
	}
	return patterns
}

type suiteResults struct {
	name     string
	results  []xunit.Result
	failed   int
	skipped  int
	duration time.Duration
}

// groupBySuite buckets results by suite: failing suites first, then by name.
func groupBySuite(results []xunit.Result) []*suiteResults {
	index := make(map[string]*suiteResults)
	var suites []*suiteResults
	for _, r := range results {
		name := r.Suite
		if name == "" {
			name = r.Class
		}
		s, ok := index[name]
		if !ok {
			s = &suiteResults{name: name}
			index[name] = s
			suites = append(suites, s)
		}
		s.results = append(s.results, r)
		s.duration += r.Duration
		switch {
		case r.Failed():
			s.failed++
		case r.Status == xunit.StatusSkip:
			s.skipped++
		}
	}
	sort.SliceStable(suites, func(i, j int) bool {
		fi, fj := suites[i].failed > 0, suites[j].failed > 0
		if fi != fj {
			return fi
		}
		return suites[i].name < suites[j].name
	})
	return suites
}

func suiteStatus(s *suiteResults) string {
	if s.skipped == len(s.results) {
		return statusSkip
	}
	return statusPass
}

func testSummary(s xunit.Stats) *pattern.Summary {
	var metrics []pattern.SummaryItem

	if s.Broken > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Errors", Value: fmt.Sprintf("%d", s.Broken), Kind: kindError,
		})
	}
	if s.Failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Failed", Value: fmt.Sprintf("%d/%d tests", s.Failed, s.Total), Kind: kindError,
		})
	}
	if s.Passed > 0 {
		kind := kindSuccess
		if s.Failed > 0 || s.Broken > 0 {
			kind = kindInfo
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Passed", Value: fmt.Sprintf("%d/%d tests", s.Passed, s.Total), Kind: kind,
		})
	}
	if s.Skipped > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped), Kind: kindWarning,
		})
	}

	label := fmt.Sprintf("PASS %d tests (%s)", s.Total, formatDuration(s.Duration))
	if s.Failed > 0 || s.Broken > 0 {
		label = fmt.Sprintf("FAIL %d/%d tests (%s)", s.Failed+s.Broken, s.Total, formatDuration(s.Duration))
	}

	return &pattern.Summary{
		Label:   label,
		Kind:    pattern.SummaryKindTest,
		Metrics: metrics,
	}
}

func failedSuiteTable(s *suiteResults) *pattern.TestTable {
	items := make([]pattern.TestTableItem, 0, s.failed)
	for _, r := range s.results {
		if !r.Failed() {
			continue
		}
		name := r.Name
		if r.Class != "" {
			name = strings.TrimPrefix(name, r.Class+".")
		}
		items = append(items, pattern.TestTableItem{
			Name:     name,
			Status:   statusFail,
			Duration: formatDuration(r.Duration),
			Details:  truncateLines(strings.Split(r.Details, "\n"), 3),
		})
	}
	return &pattern.TestTable{
		Label:   fmt.Sprintf("FAIL %s (%d/%d failed)", shortSuiteName(s.name), s.failed, len(s.results)),
		Results: items,
	}
}

// shortSuiteName keeps the last two segments of a dotted class name.
func shortSuiteName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return name
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncateLines(lines []string, max int) string {
	if len(lines) <= max {
		return strings.Join(lines, "\n")
	}
	result := strings.Join(lines[:max], "\n")
	return result + fmt.Sprintf("\n... (%d more lines)", len(lines)-max)
}
