package scoring

import "strings"

// ScoreStatus summarizes a report in one word, keyed off the effective
// score: "good" at 60 and above, "ok" at zero and above, "poor" below.
func ScoreStatus(report ScoreReport) string {
	switch {
	case report.Effective >= 60:
		return "good"
	case report.Effective >= 0:
		return "ok"
	default:
		return "poor"
	}
}

// ScoreBar renders a score in [-100, 100] as a fixed-width bar for
// terminal display.
func ScoreBar(score, width int) string {
	if width <= 0 {
		return ""
	}
	clamped := score
	if clamped < -100 {
		clamped = -100
	}
	if clamped > 100 {
		clamped = 100
	}
	filled := (clamped + 100) * width / 200
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
