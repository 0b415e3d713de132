package pattern

// Leaderboard ranks files by how many findings they carry, worst first.
type Leaderboard struct {
	Label      string            `json:"label"`
	MetricName string            `json:"metric_name"` // column heading, e.g. "Issues"
	Items      []LeaderboardItem `json:"items"`
	TotalCount int               `json:"total_count"` // entries before truncation to the top N
	ShowRank   bool              `json:"show_rank"`
}

// LeaderboardItem is one ranked file.
type LeaderboardItem struct {
	Name   string  `json:"name"`
	Metric string  `json:"metric"` // preformatted, e.g. "3 issues"
	Value  float64 `json:"value"`
	Rank   int     `json:"rank"`
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
