package pattern

// TestTable lists findings or test results for one group: a source file for
// lint output, a suite for tests.
type TestTable struct {
	Label   string          `json:"label"`
	Source  string          `json:"source,omitempty"` // tool name inside a combined report
	Results []TestTableItem `json:"results"`
}

// TestTableItem is a single finding or test result.
type TestTableItem struct {
	Name     string `json:"name"`   // check:line:col for findings, test name otherwise
	Status   string `json:"status"` // pass, fail or skip
	Duration string `json:"duration,omitempty"`
	Count    int    `json:"count,omitempty"` // tests in the suite, for suite rows
	Details  string `json:"details,omitempty"`
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
