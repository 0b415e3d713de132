package pattern

// CoverageMap shows per-line coverage for the files under review.
type CoverageMap struct {
	Label string         `json:"label"`
	Files []CoverageFile `json:"files"`
}

// CoverageFile is one file's bitmap with derived counts.
type CoverageFile struct {
	Path       string  `json:"path"`
	Lines      string  `json:"lines"` // one character per line: N, C or U
	Covered    int     `json:"covered"`
	NotCovered int     `json:"not_covered"`
	Percent    float64 `json:"percent"`
}

func (c *CoverageMap) Type() PatternType { return PatternTypeCoverageMap }
