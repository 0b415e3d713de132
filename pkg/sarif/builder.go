package sarif

import (
	"encoding/json"
	"io"

	"github.com/dkoosis/scalafo/pkg/scalastyle"
)

const schemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// Builder constructs valid SARIF 2.1.0 documents with a single run.
type Builder struct {
	doc *Document
}

// NewBuilder creates a SARIF builder for the given tool.
func NewBuilder(toolName, toolVersion string) *Builder {
	return &Builder{
		doc: &Document{
			Version: "2.1.0",
			Schema:  schemaURI,
			Runs: []Run{{
				Tool:    Tool{Driver: Driver{Name: toolName, Version: toolVersion}},
				Results: []Result{},
			}},
		},
	}
}

// WithInformationURI sets the driver's informationUri.
func (b *Builder) WithInformationURI(uri string) *Builder {
	b.doc.Runs[0].Tool.Driver.InformationURI = uri
	return b
}

// AddResult adds a diagnostic result to the run. line and col of 0 are omitted.
func (b *Builder) AddResult(ruleID, level, message, file string, line, col int) *Builder {
	return b.add(ruleID, level, message, file, Region{StartLine: line, StartColumn: col})
}

func (b *Builder) add(ruleID, level, message, file string, region Region) *Builder {
	r := Result{
		RuleID:  ruleID,
		Level:   level,
		Message: Message{Text: message},
	}
	if file != "" {
		r.Locations = []Location{{
			PhysicalLocation: PhysicalLocation{
				ArtifactLocation: ArtifactLocation{URI: file},
				Region:           region,
			},
		}}
	}
	b.doc.Runs[0].Results = append(b.doc.Runs[0].Results, r)
	return b
}

// AddDiagnostic adds a scalastyle diagnostic. Syntax-error diagnostics keep
// their raw character offset in the region.
func (b *Builder) AddDiagnostic(d scalastyle.Diagnostic) *Builder {
	region := Region{StartLine: d.Line, StartColumn: d.Col()}
	if d.Offset != nil {
		region.CharOffset = *d.Offset
	}
	return b.add(RuleID, Level(d.Severity), d.Name, d.Path, region)
}

// Document returns the constructed SARIF document.
func (b *Builder) Document() *Document {
	return b.doc
}

// WriteTo writes the document as indented JSON to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}

// RuleID is the rule identifier used for scalastyle findings; scalastyle's
// batch output does not name the checker.
const RuleID = "scalastyle"

// Level maps a scalastyle severity to a SARIF level. Disabled findings
// become notes so that they are shown but never fail a gate.
func Level(s scalastyle.Severity) string {
	switch s {
	case scalastyle.SeverityError:
		return "error"
	case scalastyle.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// FromDiagnostics builds a scalastyle SARIF document from parsed diagnostics.
func FromDiagnostics(diags []scalastyle.Diagnostic, toolVersion string) *Document {
	b := NewBuilder("scalastyle", toolVersion).WithInformationURI("http://www.scalastyle.org")
	for _, d := range diags {
		b.AddDiagnostic(d)
	}
	return b.Document()
}
