package scalastyle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/scalafo/pkg/source"
)

// ErrUnknownSeverity is returned when an output line carries a severity
// token other than warning, error or exception.
var ErrUnknownSeverity = errors.New("unrecognized scalastyle severity")

// ErrInvalidLine is returned for a finding whose line= is not 1-based.
var ErrInvalidLine = errors.New("scalastyle line number must be positive")

var (
	standardRe = regexp.MustCompile(
		`^(?P<severity>[a-z]+) file=(?P<path>.*) message=(?P<name>.*) line=(?P<line>\d+)(?: column=(?P<column>\d+))?$`,
	)

	// On a syntax error scalastyle reports neither line nor column, only the
	// character index into the file, embedded in the message as ",<index>,".
	syntaxErrorRe = regexp.MustCompile(
		`^(?P<severity>[a-z]+) file=(?P<path>.*) message=(?P<name>.*,(?P<offset>\d+),.*)$`,
	)
)

// Parser turns scalastyle stdout into diagnostics. The FS is consulted only
// to recover line numbers for syntax-error reports.
type Parser struct {
	fs source.FS
}

// NewParser creates a parser that resolves file offsets through fsys.
func NewParser(fsys source.FS) *Parser {
	return &Parser{fs: fsys}
}

// Parse reads the complete tool output from r.
func (p *Parser) Parse(r io.Reader) ([]Diagnostic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scalastyle output: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseString parses the complete tool output. Lines that match neither the
// standard nor the syntax-error shape are skipped. An unrecognized severity
// or a failed offset lookup aborts the parse with no partial result.
func (p *Parser) ParseString(output string) ([]Diagnostic, error) {
	var diags []Diagnostic
	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSuffix(line, "\r")

		d, ok, err := p.parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if ok {
			diags = append(diags, d)
		}
	}
	return diags, nil
}

func (p *Parser) parseLine(line string) (Diagnostic, bool, error) {
	if m := standardRe.FindStringSubmatch(line); m != nil {
		return p.fromStandard(m)
	}
	if m := syntaxErrorRe.FindStringSubmatch(line); m != nil {
		return p.fromSyntaxError(m)
	}
	return Diagnostic{}, false, nil
}

func (p *Parser) fromStandard(m []string) (Diagnostic, bool, error) {
	sev, err := mapSeverity(group(standardRe, m, "severity"))
	if err != nil {
		return Diagnostic{}, false, err
	}

	ln, err := strconv.Atoi(group(standardRe, m, "line"))
	if err != nil {
		return Diagnostic{}, false, fmt.Errorf("invalid line number: %w", err)
	}
	if ln < 1 {
		return Diagnostic{}, false, fmt.Errorf("%w: line=%d", ErrInvalidLine, ln)
	}

	d := Diagnostic{
		Severity: sev,
		Path:     group(standardRe, m, "path"),
		Name:     normalizeName(group(standardRe, m, "name")),
		Line:     ln,
	}
	if c := group(standardRe, m, "column"); c != "" {
		col, err := strconv.Atoi(c)
		if err != nil {
			return Diagnostic{}, false, fmt.Errorf("invalid column: %w", err)
		}
		d.Column = &col
	}
	return d, true, nil
}

func (p *Parser) fromSyntaxError(m []string) (Diagnostic, bool, error) {
	sev, err := mapSeverity(group(syntaxErrorRe, m, "severity"))
	if err != nil {
		return Diagnostic{}, false, err
	}

	path := group(syntaxErrorRe, m, "path")
	offset, err := strconv.Atoi(group(syntaxErrorRe, m, "offset"))
	if err != nil {
		return Diagnostic{}, false, fmt.Errorf("invalid character offset: %w", err)
	}

	ln, err := p.lineAtOffset(path, offset)
	if err != nil {
		return Diagnostic{}, false, err
	}

	return Diagnostic{
		Severity: sev,
		Path:     path,
		Name:     normalizeName(group(syntaxErrorRe, m, "name")),
		Line:     ln,
		Offset:   &offset,
	}, true, nil
}

// lineAtOffset maps a byte offset to a 1-based line by counting newlines in
// the first offset bytes of the file.
func (p *Parser) lineAtOffset(path string, offset int) (int, error) {
	if p.fs == nil {
		return 0, fmt.Errorf("resolve offset %d in %s: no file system configured", offset, path)
	}
	prefix, err := p.fs.ReadPrefix(path, offset)
	if err != nil {
		return 0, fmt.Errorf("resolve offset %d in %s: %w", offset, path, err)
	}
	return bytes.Count(prefix, []byte{'\n'}) + 1, nil
}

func mapSeverity(token string) (Severity, error) {
	switch token {
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "exception":
		return SeverityDisabled, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownSeverity, token)
}

func normalizeName(name string) string {
	return strings.ReplaceAll(name, ".message", "")
}

func group(re *regexp.Regexp, m []string, name string) string {
	if i := re.SubexpIndex(name); i >= 0 && i < len(m) {
		return m[i]
	}
	return ""
}

// IsScalastyleOutput reports whether data contains at least one line shaped
// like a scalastyle finding.
func IsScalastyleOutput(data []byte) bool {
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if standardRe.MatchString(line) || syntaxErrorRe.MatchString(line) {
			return true
		}
	}
	return false
}
