package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/display"
	"github.com/qualdev/qualifier/errors"
)

// CheckCmd is the CI gate: it exits non-zero when any artifact's
// effective score is below the threshold.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "CI gate: exit non-zero if below threshold",
	Long: `Check every artifact's effective score against a minimum.

Exits 0 when all artifacts are at or above the threshold (an empty
project trivially passes) and 1 when any falls below it.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().Int("min-score", 0, "Minimum acceptable effective score")
	CheckCmd.Flags().String("graph", "", "Path to the dependency graph file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	graphFlag, _ := cmd.Flags().GetString("graph")
	ws, err := loadWorkspace(graphFlag)
	if err != nil {
		return err
	}

	minScore := ws.Cfg.MinScore
	if cmd.Flags().Changed("min-score") {
		minScore, _ = cmd.Flags().GetInt("min-score")
	}

	reports, artifacts := ws.reports()

	var failures []string
	for _, artifact := range artifacts {
		report := reports[artifact]
		if report.Effective < minScore {
			line := fmt.Sprintf("  %s %s", display.FormatScore(report.Effective), artifact)
			if len(report.LimitingPath) > 0 {
				line += fmt.Sprintf("  (limited by %s)", joinPath(report.LimitingPath))
			}
			failures = append(failures, line)
		}
	}

	if len(failures) > 0 {
		return errors.NewCheckFailedError(
			"FAIL: %d of %d artifacts below minimum score %d\n%s",
			len(failures), len(artifacts), minScore, strings.Join(failures, "\n"))
	}

	fmt.Printf("OK: %d artifacts at or above %d\n", len(artifacts), minScore)
	return nil
}
