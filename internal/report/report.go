// Package report splits a delimited multi-tool review report into sections.
package report

import (
	"bytes"
	"errors"
	"regexp"
)

// Section formats understood by the mapper.
const (
	FormatScalastyle = "scalastyle"
	FormatCobertura  = "cobertura"
	FormatJUnit      = "junit"
	FormatSARIF      = "sarif"
)

// DelimiterRe matches a section header line. Used by both the splitter and
// format detection.
var DelimiterRe = regexp.MustCompile(
	`^--- tool:(\w[\w-]*) format:(scalastyle|cobertura|junit|sarif)(?: status:(pass|fail))? ---$`,
)

// ErrNoSections is returned when the input holds no delimiter line.
var ErrNoSections = errors.New("no sections found in report input")

// Section is one tool's captured output within a report.
type Section struct {
	Tool    string // e.g. "scalastyle", "coverage", "tests"
	Format  string // one of the Format constants
	Status  string // "pass", "fail" or empty when derived from content
	Content []byte
}

// Parse splits delimited report input into sections. Text before the first
// delimiter is discarded. A CRLF line ending on a delimiter is tolerated.
func Parse(data []byte) ([]Section, error) {
	data = trimTrailingNewline(data)
	lines := bytes.Split(data, []byte("\n"))
	var sections []Section
	var current *Section

	for _, line := range lines {
		if m := DelimiterRe.FindSubmatch(bytes.TrimSuffix(line, []byte("\r"))); m != nil {
			if current != nil {
				current.Content = trimTrailingNewline(current.Content)
				sections = append(sections, *current)
			}
			current = &Section{
				Tool:   string(m[1]),
				Format: string(m[2]),
				Status: string(m[3]),
			}
			continue
		}
		if current != nil {
			current.Content = append(current.Content, line...)
			current.Content = append(current.Content, '\n')
		}
	}
	if current != nil {
		current.Content = trimTrailingNewline(current.Content)
		sections = append(sections, *current)
	}

	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	return sections, nil
}

// IsReport reports whether the first non-blank line of data is a delimiter.
func IsReport(data []byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		return DelimiterRe.Match(line)
	}
	return false
}

// trimTrailingNewline removes exactly one trailing newline byte, if present.
func trimTrailingNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}
