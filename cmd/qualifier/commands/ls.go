package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/display"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
)

// LsCmd lists artifacts filtered by score or kind.
var LsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List artifacts by score or kind",
	Long: `List known artifacts with their scores.

Filters narrow the listing: --below keeps artifacts whose effective score
is under a threshold, --kind keeps artifacts with an active attestation of
that kind, and --unqualified lists graph artifacts with no records at all.`,
	Args: cobra.NoArgs,
	RunE: runLs,
}

func init() {
	LsCmd.Flags().Int("below", 0, "Only show artifacts scoring below this threshold")
	LsCmd.Flags().String("kind", "", "Filter by attestation kind")
	LsCmd.Flags().Bool("unqualified", false, "Show only unqualified artifacts")
	LsCmd.Flags().String("format", "human", "Output format (human, json)")
	LsCmd.Flags().String("graph", "", "Path to the dependency graph file")
}

func runLs(cmd *cobra.Command, args []string) error {
	graphFlag, _ := cmd.Flags().GetString("graph")
	ws, err := loadWorkspace(graphFlag)
	if err != nil {
		return err
	}

	reports, artifacts := ws.reports()

	if unqualified, _ := cmd.Flags().GetBool("unqualified"); unqualified {
		for _, artifact := range artifacts {
			if len(qualfile.FindRecordsFor(artifact, ws.QualFiles)) == 0 {
				fmt.Println(artifact)
			}
		}
		return nil
	}

	if kindFlag, _ := cmd.Flags().GetString("kind"); kindFlag != "" {
		kept := artifacts[:0]
		for _, artifact := range artifacts {
			if hasActiveKind(artifact, record.Kind(kindFlag), ws.QualFiles) {
				kept = append(kept, artifact)
			}
		}
		artifacts = kept
	}

	if cmd.Flags().Changed("below") {
		below, _ := cmd.Flags().GetInt("below")
		kept := artifacts[:0]
		for _, artifact := range artifacts {
			if reports[artifact].Effective < below {
				kept = append(kept, artifact)
			}
		}
		artifacts = kept
	}

	entries := make([]display.ArtifactScore, 0, len(artifacts))
	for _, artifact := range artifacts {
		entries = append(entries, display.ArtifactScore{Artifact: artifact, Report: reports[artifact]})
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	if ws.outputFormat(formatFlag, cmd.Flags().Changed("format")) == "json" {
		out, err := display.ScoresJSON(entries)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No qualified artifacts")
		return nil
	}
	table, err := display.ScoreTable(entries)
	if err != nil {
		return err
	}
	fmt.Print(table)
	return nil
}

// hasActiveKind reports whether the artifact has a non-superseded
// attestation of the given kind.
func hasActiveKind(artifact string, kind record.Kind, qualFiles []*qualfile.QualFile) bool {
	records := qualfile.FindRecordsFor(artifact, qualFiles)
	for _, rec := range record.FilterSuperseded(records) {
		if rec.Attestation != nil && rec.Attestation.Body.Kind == kind {
			return true
		}
	}
	return false
}
