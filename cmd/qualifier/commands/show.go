package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/display"
	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
)

// ShowCmd shows attestations and scores for one artifact.
var ShowCmd = &cobra.Command{
	Use:   "show <artifact>",
	Short: "Show attestations and scores for an artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	ShowCmd.Flags().String("format", "human", "Output format (human, json)")
	ShowCmd.Flags().String("graph", "", "Path to the dependency graph file")
}

func runShow(cmd *cobra.Command, args []string) error {
	artifact := args[0]

	graphFlag, _ := cmd.Flags().GetString("graph")
	ws, err := loadWorkspace(graphFlag)
	if err != nil {
		return err
	}

	records := qualfile.FindRecordsFor(artifact, ws.QualFiles)
	if len(records) == 0 {
		return errors.NewValidationError("No .qual file found for '%s'", artifact)
	}
	active := record.FilterSuperseded(records)

	reports, _ := ws.reports()
	report := reports[artifact]

	formatFlag, _ := cmd.Flags().GetString("format")
	format := ws.outputFormat(formatFlag, cmd.Flags().Changed("format"))

	if format == "json" {
		out, err := display.ShowJSON(artifact, report, active)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s  raw %s  effective %s\n",
		artifact, display.FormatScore(report.Raw), display.FormatScore(report.Effective))
	if len(report.LimitingPath) > 0 {
		fmt.Printf("  limited by %s\n", joinPath(report.LimitingPath))
	}
	fmt.Println()
	printRecords(active)
	return nil
}
