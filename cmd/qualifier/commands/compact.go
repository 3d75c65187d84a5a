package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/compact"
	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
)

// CompactCmd shrinks .qual files while preserving their scores.
var CompactCmd = &cobra.Command{
	Use:   "compact [artifact]",
	Short: "Compact a .qual file",
	Long: `Compact .qual files without changing any artifact's score.

The default prune drops superseded records. With --snapshot the whole
history collapses into one epoch record per subject, carrying the net
score and the IDs of the records it folded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompact,
}

func init() {
	CompactCmd.Flags().Bool("all", false, "Compact all .qual files in the repo")
	CompactCmd.Flags().Bool("snapshot", false, "Collapse to a single epoch attestation")
	CompactCmd.Flags().Bool("dry-run", false, "Preview without writing")
}

func runCompact(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	snapshot, _ := cmd.Flags().GetBool("snapshot")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var targets []*qualfile.QualFile
	switch {
	case all:
		discovered, err := qualfile.Discover(projectRoot())
		if err != nil {
			return err
		}
		targets = discovered
	case len(args) == 1:
		path := qualfile.FindQualFileFor(args[0])
		if path == "" {
			return errors.NewValidationError("No .qual file found for '%s'", args[0])
		}
		qf, err := qualfile.Parse(path)
		if err != nil {
			return err
		}
		targets = []*qualfile.QualFile{qf}
	default:
		return errors.NewValidationError("an artifact argument is required (or use --all)")
	}

	now := time.Now()
	for _, qf := range targets {
		if err := record.CheckSupersessionCycles(qf.Records); err != nil {
			return err
		}

		var (
			compacted *qualfile.QualFile
			result    compact.Result
			err       error
		)
		if snapshot {
			compacted, result, err = compact.Snapshot(qf, now)
			if err != nil {
				return err
			}
		} else {
			compacted, result = compact.Prune(qf)
		}

		if !dryRun {
			if err := qualfile.WriteAll(compacted.Path, compacted.Records); err != nil {
				return err
			}
		}

		suffix := ""
		if dryRun {
			suffix = " (dry run)"
		}
		fmt.Printf("Compacted %s: %d -> %d records (%d removed)%s\n",
			qf.Path, result.Before, result.After, result.Pruned, suffix)
	}
	return nil
}
