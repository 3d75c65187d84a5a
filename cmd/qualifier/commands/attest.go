package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/config"
	"github.com/qualdev/qualifier/display"
	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/logger"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
	"github.com/qualdev/qualifier/vcs"
)

// AttestCmd adds an attestation to an artifact.
var AttestCmd = &cobra.Command{
	Use:   "attest [artifact]",
	Short: "Add an attestation to an artifact",
	Long: `Add an attestation to an artifact's .qual file.

The record is appended to {artifact}.qual (or an existing directory-level
.qual file) with a content-addressed ID. Omitting --score uses the kind's
conventional default; omitting --kind records a concern.

With --stdin, JSONL attestation records are read from standard input and
appended in batch; the artifact argument is not used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttest,
}

func init() {
	AttestCmd.Flags().String("kind", "concern", "Attestation kind (pass, fail, blocker, concern, praise, suggestion, waiver, or custom)")
	AttestCmd.Flags().Int("score", 0, "Quality score delta (-100..=100, defaults to the kind's conventional score)")
	AttestCmd.Flags().String("summary", "", "One-line summary (required)")
	AttestCmd.Flags().String("detail", "", "Extended description")
	AttestCmd.Flags().String("suggested-fix", "", "Suggested fix")
	AttestCmd.Flags().StringArray("tag", nil, "Classification tags (repeatable)")
	AttestCmd.Flags().String("author", "", "Author identity (defaults to the VCS user)")
	AttestCmd.Flags().String("author-type", "", "Author classification (human, ai, tool, unknown)")
	AttestCmd.Flags().String("supersedes", "", "ID of a prior attestation this replaces")
	AttestCmd.Flags().String("span", "", "Sub-artifact range, e.g. 42 or 42.5:108.1")
	AttestCmd.Flags().String("ref", "", "VCS revision pin; \"auto\" pins the current git commit")
	AttestCmd.Flags().String("file", "", "Write to this .qual file instead of the resolved one")
	AttestCmd.Flags().Bool("stdin", false, "Read JSONL attestations from stdin (batch mode)")
}

func runAttest(cmd *cobra.Command, args []string) error {
	if batch, _ := cmd.Flags().GetBool("stdin"); batch {
		return runAttestBatch(cmd)
	}

	if len(args) != 1 {
		return errors.NewValidationError("an artifact argument is required (or use --stdin for batch mode)")
	}
	artifact := args[0]

	summary, _ := cmd.Flags().GetString("summary")
	if summary == "" {
		return errors.NewValidationError("--summary is required (or use --stdin for batch mode)")
	}

	kindFlag, _ := cmd.Flags().GetString("kind")
	kind := record.Kind(kindFlag)

	score := kind.DefaultScore()
	if cmd.Flags().Changed("score") {
		score, _ = cmd.Flags().GetInt("score")
	}

	root := projectRoot()
	cfg := config.Load(root)

	author, _ := cmd.Flags().GetString("author")
	if author == "" {
		author = cfg.Author
	}
	if author == "" {
		author = vcs.DetectAuthor(root)
	}

	var authorType record.AuthorType
	if s, _ := cmd.Flags().GetString("author-type"); s != "" {
		parsed, err := record.ParseAuthorType(s)
		if err != nil {
			return err
		}
		authorType = parsed
	}

	var span *record.Span
	if s, _ := cmd.Flags().GetString("span"); s != "" {
		parsed, err := record.ParseSpan(s)
		if err != nil {
			return err
		}
		span = &parsed
	}

	ref, _ := cmd.Flags().GetString("ref")
	if ref == "auto" {
		ref = vcs.RefPin(root)
	}

	detail, _ := cmd.Flags().GetString("detail")
	suggestedFix, _ := cmd.Flags().GetString("suggested-fix")
	tags, _ := cmd.Flags().GetStringArray("tag")
	supersedes, _ := cmd.Flags().GetString("supersedes")

	att := &record.Attestation{
		Subject:   artifact,
		Author:    author,
		CreatedAt: time.Now(),
		Body: record.AttestationBody{
			AuthorType:   authorType,
			Detail:       detail,
			Kind:         kind,
			Ref:          ref,
			Score:        score,
			Span:         span,
			SuggestedFix: suggestedFix,
			Summary:      summary,
			Supersedes:   supersedes,
			Tags:         tags,
		},
	}
	if err := att.Finalize(); err != nil {
		return err
	}
	for _, problem := range record.Validate(att) {
		logger.Warnf("%s", problem)
	}

	explicitPath, _ := cmd.Flags().GetString("file")
	path, err := qualfile.ResolvePath(artifact, explicitPath)
	if err != nil {
		return err
	}
	if err := qualfile.Append(path, record.Record{Attestation: att}); err != nil {
		return err
	}

	fmt.Printf("Attested %s %s %s\n", att.Subject, display.FormatScore(att.Body.Score), att.Body.Kind)
	fmt.Printf("  id: %s\n", att.ID)
	return nil
}

// runAttestBatch reads JSONL attestations from stdin and appends each to
// its subject's .qual file. Blank lines and // comments are skipped.
func runAttestBatch(cmd *cobra.Command) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		var att record.Attestation
		if err := json.Unmarshal([]byte(trimmed), &att); err != nil {
			return errors.NewValidationError("stdin: %s", err)
		}
		if err := att.Finalize(); err != nil {
			return err
		}

		path, err := qualfile.ResolvePath(att.Subject, "")
		if err != nil {
			return err
		}
		if err := qualfile.Append(path, record.Record{Attestation: &att}); err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read stdin")
	}

	fmt.Printf("Attested %d artifacts from stdin\n", count)
	return nil
}
