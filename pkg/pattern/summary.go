package pattern

// SummaryKind names the input a summary was built from. Renderers switch on
// it to pick a layout.
type SummaryKind string

const (
	SummaryKindLint     SummaryKind = "lint"
	SummaryKindSARIF    SummaryKind = "sarif"
	SummaryKindTest     SummaryKind = "test"
	SummaryKindCoverage SummaryKind = "coverage"
	SummaryKindReport   SummaryKind = "report"
)

// Summary is the headline of one input: a label plus counted metrics.
type Summary struct {
	Label   string        `json:"label"`
	Kind    SummaryKind   `json:"kind"`
	Metrics []SummaryItem `json:"metrics,omitempty"`
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string `json:"label"` // e.g. "Errors", "Files"
	Value string `json:"value"`
	Kind  string `json:"kind"` // success, error, warning or info
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
