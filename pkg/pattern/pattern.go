// Package pattern defines the data scalafo's mappers produce and its
// renderers consume. Nothing here knows about terminals or input formats.
package pattern

// PatternType identifies the kind of pattern.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeLeaderboard PatternType = "leaderboard"
	PatternTypeTestTable   PatternType = "test-table"
	PatternTypeCoverageMap PatternType = "coverage-map"
	PatternTypeError       PatternType = "error"
)

// Pattern is implemented by every pattern type.
type Pattern interface {
	Type() PatternType
}
