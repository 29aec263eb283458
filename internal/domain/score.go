package domain

import "fmt"

const (
	MinTrustScore = 0
	MaxTrustScore = 100

	// ProvisionalScore is stored at ingestion until the worker writes a computed score.
	ProvisionalScore = 50

	ReportDecayPerReport = 10
)

// ClampScore keeps a trust score inside [MinTrustScore, MaxTrustScore].
func ClampScore(score int) int {
	if score < MinTrustScore {
		return MinTrustScore
	}
	if score > MaxTrustScore {
		return MaxTrustScore
	}
	return score
}

// ReportDecayScore derives the score of an article from the total number of
// reports ever filed against it.
func ReportDecayScore(reportCount int) int {
	if reportCount < 0 {
		reportCount = 0
	}
	return ClampScore(MaxTrustScore - ReportDecayPerReport*reportCount)
}

func ReportDecayExplanation(reportCount int) string {
	return fmt.Sprintf("report_decay reports=%d", reportCount)
}
