package commands

import (
	"fmt"
	"strings"

	"github.com/qualdev/qualifier/display"
	"github.com/qualdev/qualifier/record"
)

func joinPath(path []string) string {
	return strings.Join(path, " -> ")
}

// truncateID shortens a record ID for display: first 8 hex chars plus an
// ellipsis.
func truncateID(id string) string {
	if len(id) >= 8 {
		return id[:8] + "…"
	}
	return id
}

func formatPosition(pos record.Position) string {
	if pos.Col != nil {
		return fmt.Sprintf("%d.%d", pos.Line, *pos.Col)
	}
	return fmt.Sprintf("%d", pos.Line)
}

func authorTypeSuffix(at record.AuthorType) string {
	if at == "" || at == record.AuthorHuman {
		return ""
	}
	return fmt.Sprintf("  (%s)", at)
}

// printRecords renders attestations and epochs in the indented two-line
// layout shared by show and praise. Dependency and unknown records are
// skipped; they carry no judgment worth listing.
func printRecords(records []record.Record) {
	for _, rec := range records {
		switch {
		case rec.Attestation != nil:
			att := rec.Attestation
			fmt.Printf("    %s %-10s %q\n",
				display.FormatScore(att.Body.Score), att.Body.Kind, att.Body.Summary)
			fmt.Printf("          %s  %s  %s%s\n",
				att.Author, att.CreatedAt.Format("2006-01-02"),
				truncateID(att.ID), authorTypeSuffix(att.Body.AuthorType))
			if att.Body.SuggestedFix != "" {
				fmt.Printf("          suggested fix: %q\n", att.Body.SuggestedFix)
			} else if att.Body.Detail != "" {
				fmt.Printf("          detail: %q\n", att.Body.Detail)
			}
			if att.Body.Span != nil {
				end := ""
				if att.Body.Span.End != nil {
					end = ":" + formatPosition(*att.Body.Span.End)
				}
				fmt.Printf("          span: %s%s\n", formatPosition(att.Body.Span.Start), end)
			}
			fmt.Println()
		case rec.Epoch != nil:
			epoch := rec.Epoch
			fmt.Printf("    %s %-10s %q\n",
				display.FormatScore(epoch.Body.Score), "epoch", epoch.Body.Summary)
			fmt.Printf("          %s  %s  %s%s\n",
				epoch.Author, epoch.CreatedAt.Format("2006-01-02"),
				truncateID(epoch.ID), authorTypeSuffix(epoch.Body.AuthorType))
			fmt.Println()
		}
	}
}
