// Package detect sniffs stdin to determine the input format.
package detect

import (
	"bytes"
	"regexp"

	"github.com/dkoosis/scalafo/internal/report"
	"github.com/dkoosis/scalafo/pkg/coverage"
	"github.com/dkoosis/scalafo/pkg/sarif"
	"github.com/dkoosis/scalafo/pkg/scalastyle"
	"github.com/dkoosis/scalafo/pkg/xunit"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown    Format = iota
	Report            // delimited multi-tool review report
	SARIF             // SARIF 2.1.0 JSON document
	Cobertura         // Cobertura coverage XML
	JUnit             // JUnit/xUnit test report XML
	Scalastyle        // scalastyle batch text output
)

func (f Format) String() string {
	switch f {
	case Report:
		return "report"
	case SARIF:
		return "sarif"
	case Cobertura:
		return "cobertura"
	case JUnit:
		return "junit"
	case Scalastyle:
		return "scalastyle"
	default:
		return "unknown"
	}
}

// scalastyle prints a trailer even on a clean run, so a run without
// findings is still recognizable.
var scalastyleTrailerRe = regexp.MustCompile(`(?m)^(Processed \d+ file\(s\)|Found \d+ (errors|warnings|infos)|Finished in \d+ ms)\s*$`)

// Sniff examines input to determine its format.
func Sniff(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	switch data[0] {
	case '{':
		if sarif.IsSARIF(data) {
			return SARIF
		}
		return Unknown
	case '<':
		switch {
		case coverage.IsCobertura(data):
			return Cobertura
		case xunit.IsXUnit(data):
			return JUnit
		}
		return Unknown
	}

	if report.IsReport(data) {
		return Report
	}
	if scalastyle.IsScalastyleOutput(data) || scalastyleTrailerRe.Match(data) {
		return Scalastyle
	}
	return Unknown
}
