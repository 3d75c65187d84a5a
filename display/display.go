// Package display renders qualifier output: score formatting, pterm
// tables for humans, and stable JSON for machines.
package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/record"
	"github.com/qualdev/qualifier/scoring"
)

// ArtifactScore pairs an artifact name with its score report for output.
type ArtifactScore struct {
	Artifact string
	Report   scoring.ScoreReport
}

// FormatScore renders a score for human display: [+40], [-30], [  0].
func FormatScore(score int) string {
	switch {
	case score > 0:
		return fmt.Sprintf("[+%d]", score)
	case score < 0:
		return fmt.Sprintf("[%d]", score)
	default:
		return "[  0]"
	}
}

// ScoreColor picks a color from the effective score: green for healthy,
// yellow for middling, red for negative.
func ScoreColor(score int) pterm.Color {
	switch {
	case score >= 60:
		return pterm.FgGreen
	case score >= 0:
		return pterm.FgYellow
	default:
		return pterm.FgRed
	}
}

// ScoreTable renders the score command's table.
func ScoreTable(reports []ArtifactScore) (string, error) {
	data := pterm.TableData{{"ARTIFACT", "RAW", "EFF", "", "STATUS"}}

	for _, entry := range reports {
		report := entry.Report
		statusText := scoring.ScoreStatus(report)
		if len(report.LimitingPath) > 0 {
			statusText = "limited by " + strings.Join(report.LimitingPath, " -> ")
		}

		color := ScoreColor(report.Effective)
		data = append(data, []string{
			entry.Artifact,
			fmt.Sprintf("%d", report.Raw),
			color.Sprintf("%d", report.Effective),
			scoring.ScoreBar(report.Effective, 10),
			color.Sprint(statusText),
		})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, "render score table")
	}
	return rendered, nil
}

type scoreEntry struct {
	Artifact       string   `json:"artifact"`
	RawScore       int      `json:"raw_score"`
	EffectiveScore int      `json:"effective_score"`
	Status         string   `json:"status"`
	LimitingPath   []string `json:"limiting_path"`
}

// ScoresJSON renders score reports as a JSON array for machine use.
func ScoresJSON(reports []ArtifactScore) (string, error) {
	entries := make([]scoreEntry, 0, len(reports))
	for _, entry := range reports {
		entries = append(entries, scoreEntry{
			Artifact:       entry.Artifact,
			RawScore:       entry.Report.Raw,
			EffectiveScore: entry.Report.Effective,
			Status:         scoring.ScoreStatus(entry.Report),
			LimitingPath:   entry.Report.LimitingPath,
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal scores")
	}
	return string(data), nil
}

type showPayload struct {
	Artifact       string          `json:"artifact"`
	RawScore       int             `json:"raw_score"`
	EffectiveScore int             `json:"effective_score"`
	LimitingPath   []string        `json:"limiting_path"`
	Attestations   []record.Record `json:"attestations"`
}

// ShowJSON renders a single artifact's full report, records included.
func ShowJSON(artifact string, report scoring.ScoreReport, records []record.Record) (string, error) {
	payload := showPayload{
		Artifact:       artifact,
		RawScore:       report.Raw,
		EffectiveScore: report.Effective,
		LimitingPath:   report.LimitingPath,
		Attestations:   records,
	}
	if payload.Attestations == nil {
		payload.Attestations = []record.Record{}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", errors.Wrapf(err, "marshal report for %s", artifact)
	}
	return string(data), nil
}
