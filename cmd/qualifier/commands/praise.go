package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
	"github.com/qualdev/qualifier/vcs"
)

// PraiseCmd shows who attested an artifact and why. "blame" is an alias;
// the framing is deliberate.
var PraiseCmd = &cobra.Command{
	Use:     "praise <artifact>",
	Aliases: []string{"blame"},
	Short:   "Show who attested an artifact and why",
	Args:    cobra.ExactArgs(1),
	RunE:    runPraise,
}

func init() {
	PraiseCmd.Flags().String("format", "human", "Output format (human, json)")
	PraiseCmd.Flags().Bool("vcs", false, "Use VCS blame/annotate on the .qual file instead of record-based output")
}

func runPraise(cmd *cobra.Command, args []string) error {
	artifact := args[0]

	if useVCS, _ := cmd.Flags().GetBool("vcs"); useVCS {
		return praiseVCS(artifact)
	}

	ws, err := loadWorkspace("")
	if err != nil {
		return err
	}

	records := qualfile.FindRecordsFor(artifact, ws.QualFiles)
	if len(records) == 0 {
		return errors.NewValidationError("No records found for '%s'", artifact)
	}
	active := record.FilterSuperseded(records)

	formatFlag, _ := cmd.Flags().GetString("format")
	if ws.outputFormat(formatFlag, cmd.Flags().Changed("format")) == "json" {
		return praiseJSON(artifact, active)
	}

	fmt.Println()
	fmt.Printf("  %s — %d records\n", artifact, len(active))
	fmt.Println()
	printRecords(active)
	return nil
}

func praiseJSON(artifact string, records []record.Record) error {
	entries := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		if entry := praiseEntry(rec); entry != nil {
			entries = append(entries, entry)
		}
	}

	payload := map[string]any{
		"subject": artifact,
		"records": entries,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal praise for %s", artifact)
	}
	fmt.Println(string(data))
	return nil
}

// praiseEntry flattens a record for the praise JSON output. Optional
// fields appear only when set; dependency and unknown records yield nil.
func praiseEntry(rec record.Record) map[string]any {
	switch {
	case rec.Attestation != nil:
		att := rec.Attestation
		entry := map[string]any{
			"id":         att.ID,
			"kind":       string(att.Body.Kind),
			"score":      att.Body.Score,
			"summary":    att.Body.Summary,
			"author":     att.Author,
			"created_at": att.CreatedAt.Format(time.RFC3339),
		}
		if att.Body.AuthorType != "" {
			entry["author_type"] = string(att.Body.AuthorType)
		}
		if att.Body.SuggestedFix != "" {
			entry["suggested_fix"] = att.Body.SuggestedFix
		}
		if att.Body.Detail != "" {
			entry["detail"] = att.Body.Detail
		}
		if att.Body.Span != nil {
			entry["span"] = att.Body.Span
		}
		return entry
	case rec.Epoch != nil:
		epoch := rec.Epoch
		entry := map[string]any{
			"id":         epoch.ID,
			"type":       record.TypeEpoch,
			"score":      epoch.Body.Score,
			"summary":    epoch.Body.Summary,
			"author":     epoch.Author,
			"created_at": epoch.CreatedAt.Format(time.RFC3339),
		}
		if epoch.Body.AuthorType != "" {
			entry["author_type"] = string(epoch.Body.AuthorType)
		}
		return entry
	}
	return nil
}

// praiseVCS shells out to the underlying VCS blame on the .qual file, for
// line-level attribution of who appended which record.
func praiseVCS(artifact string) error {
	qualPath := qualfile.FindQualFileFor(artifact)
	if qualPath == "" {
		return errors.NewValidationError("No .qual file found containing attestations for '%s'", artifact)
	}

	switch vcsName := vcs.DetectVCS(projectRoot()); vcsName {
	case "git":
		return passthrough("git", "blame", qualPath)
	case "hg":
		return passthrough("hg", "annotate", qualPath)
	case "":
		return errors.NewValidationError("No VCS detected — --vcs requires git or hg")
	default:
		return errors.NewValidationError(
			"VCS blame is not supported for %s — run your VCS blame/annotate command directly on %s",
			vcsName, qualPath)
	}
}

func passthrough(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.NewValidationError("%s %s failed", name, args[0])
	}
	return nil
}
