// Package xunit parses JUnit-style XML test reports (as written by sbt,
// Maven Surefire and friends) into flat test results.
package xunit

import (
	"time"

	"github.com/dkoosis/scalafo/pkg/coverage"
)

// Status values for a test result.
const (
	StatusPass   = "pass"
	StatusFail   = "fail"
	StatusBroken = "broken"
	StatusSkip   = "skip"
)

// Result is one executed test case.
type Result struct {
	Name     string          `json:"name"`
	Class    string          `json:"class,omitempty"`
	Suite    string          `json:"suite,omitempty"`
	Status   string          `json:"status"`
	Duration time.Duration   `json:"duration"`
	Details  string          `json:"details,omitempty"`
	Coverage coverage.Report `json:"coverage,omitempty"`
}

// Failed reports whether the result should block a review.
func (r Result) Failed() bool {
	return r.Status == StatusFail || r.Status == StatusBroken
}

// Stats aggregates results across reports.
type Stats struct {
	Total    int
	Passed   int
	Failed   int
	Broken   int
	Skipped  int
	Duration time.Duration
}

// ComputeStats counts results by status.
func ComputeStats(results []Result) Stats {
	var s Stats
	for _, r := range results {
		s.Total++
		s.Duration += r.Duration
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusBroken:
			s.Broken++
		case StatusSkip:
			s.Skipped++
		}
	}
	return s
}

// AttachCoverage sets the same coverage report on every result. Coverage is
// collected per run, not per test, so each result carries the whole map.
func AttachCoverage(results []Result, report coverage.Report) {
	for i := range results {
		results[i].Coverage = report
	}
}
