// Package compact shrinks .qual files while preserving their scores.
// Prune drops superseded records; Snapshot collapses an entire history
// into epoch records. Both operations keep the raw score of every subject
// unchanged, which is checked as a hard invariant.
package compact

import (
	"fmt"
	"sort"
	"time"

	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
	"github.com/qualdev/qualifier/scoring"
)

// CompactAuthor is the author identity stamped on epoch records.
const CompactAuthor = "qualifier/compact"

// Result reports what a compaction did.
type Result struct {
	// Before is the record count before compaction.
	Before int
	// After is the record count after compaction.
	After int
	// Pruned is the number of records removed.
	Pruned int
}

// Prune drops superseded records, keeping chain tips and every
// non-supersedable record (dependencies, unknowns). The raw score of each
// subject is preserved since superseded records never contribute to it.
func Prune(qf *qualfile.QualFile) (*qualfile.QualFile, Result) {
	before := len(qf.Records)
	active := record.FilterSuperseded(qf.Records)
	after := len(active)

	pruned := &qualfile.QualFile{
		Path:    qf.Path,
		Subject: qf.Subject,
		Records: active,
	}
	return pruned, Result{Before: before, After: after, Pruned: before - after}
}

// Snapshot collapses all scored records into one epoch per subject. Each
// epoch carries the subject's raw score and the IDs of the records it
// folded, in original order. Dependency and unknown records pass through
// unchanged after the epochs. Returns an assertion error if the collapse
// would change any subject's raw score.
func Snapshot(qf *qualfile.QualFile, now time.Time) (*qualfile.QualFile, Result, error) {
	before := len(qf.Records)
	if before == 0 {
		return qf, Result{}, nil
	}

	// Group scored records by subject; epochs are emitted in subject
	// order for deterministic output.
	scoredBySubject := make(map[string][]record.Record)
	var subjects []string
	var passthrough []record.Record
	for _, rec := range qf.Records {
		if !rec.IsScored() {
			passthrough = append(passthrough, rec)
			continue
		}
		subject := rec.Subject()
		if _, seen := scoredBySubject[subject]; !seen {
			subjects = append(subjects, subject)
		}
		scoredBySubject[subject] = append(scoredBySubject[subject], rec)
	}
	sort.Strings(subjects)

	var out []record.Record
	for _, subject := range subjects {
		group := scoredBySubject[subject]
		raw := scoring.RawScore(group)

		refs := make([]string, len(group))
		for i, rec := range group {
			refs[i] = rec.ID()
		}

		epoch := &record.Epoch{
			Subject:   subject,
			Author:    CompactAuthor,
			CreatedAt: now,
			Body: record.EpochBody{
				AuthorType: record.AuthorTool,
				Refs:       refs,
				Score:      raw,
				Summary:    fmt.Sprintf("Compacted from %d attestations", len(group)),
			},
		}
		if err := epoch.Finalize(); err != nil {
			return nil, Result{}, err
		}
		out = append(out, record.Record{Epoch: epoch})

		if got := scoring.RawScore(out[len(out)-1:]); got != raw {
			return nil, Result{}, errors.AssertionFailedf(
				"snapshot changed raw score for %s: %d -> %d", subject, raw, got)
		}
	}
	out = append(out, passthrough...)

	snapped := &qualfile.QualFile{
		Path:    qf.Path,
		Subject: qf.Subject,
		Records: out,
	}
	return snapped, Result{Before: before, After: len(out), Pruned: before - len(out)}, nil
}
