// Package scoring computes artifact quality scores. The raw score of an
// artifact sums its active scored records; the effective score propagates
// along the dependency graph so that nothing scores higher than what it
// is built on.
package scoring

import (
	"github.com/qualdev/qualifier/graph"
	"github.com/qualdev/qualifier/logger"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
)

// ScoreReport holds the computed scores for a single artifact.
type ScoreReport struct {
	// Raw is the sum of active scored record scores, clamped to
	// [-100, 100].
	Raw int
	// Effective is the raw score floored by the worst dependency
	// effective score.
	Effective int
	// LimitingPath is the dependency chain down to the artifact that
	// limits the effective score, nil when nothing does.
	LimitingPath []string
}

// RawScore sums the scores of active (non-superseded) scored records.
// Dependency and unknown records never contribute. Summation saturates
// before the final clamp so pathological inputs cannot overflow.
func RawScore(records []record.Record) int {
	sum := 0
	for _, rec := range record.FilterSuperseded(records) {
		score, ok := rec.Score()
		if !ok {
			continue
		}
		sum = saturatingAdd(sum, score)
	}
	return record.ClampScore(sum)
}

func saturatingAdd(a, b int) int {
	sum := a + b
	if b > 0 && sum < a {
		return int(^uint(0) >> 1)
	}
	if b < 0 && sum > a {
		return -int(^uint(0)>>1) - 1
	}
	return sum
}

// EffectiveScores computes a report for every artifact known to either
// the graph or the qual files.
//
// Raw scores come from each artifact's own records; graph-only artifacts
// get raw 0, record-only artifacts pass through with effective == raw.
// With a non-empty graph, artifacts are walked dependencies-first and
// each effective score is the minimum of the artifact's raw score and its
// dependencies' effective scores. One linear pass suffices since each
// node only looks at already-resolved dependencies.
func EffectiveScores(g *graph.DependencyGraph, qualFiles []*qualfile.QualFile) map[string]ScoreReport {
	recordsBySubject := make(map[string][]record.Record)
	for _, qf := range qualFiles {
		for _, rec := range qf.Records {
			subject := rec.Subject()
			recordsBySubject[subject] = append(recordsBySubject[subject], rec)
		}
	}

	reports := make(map[string]ScoreReport)
	for subject, records := range recordsBySubject {
		raw := RawScore(records)
		reports[subject] = ScoreReport{Raw: raw, Effective: raw}
	}
	for _, artifact := range g.Artifacts() {
		if _, ok := reports[artifact]; !ok {
			reports[artifact] = ScoreReport{}
		}
	}

	if g.IsEmpty() {
		return reports
	}

	order, err := g.Toposort()
	if err != nil {
		// A loaded graph is already cycle-checked; keep raw scores
		// rather than failing the whole computation.
		logger.Warnw("dependency graph has a cycle, skipping propagation", "error", err)
		return reports
	}

	for _, artifact := range order {
		report := reports[artifact]
		for _, dep := range g.Dependencies(artifact) {
			depReport := reports[dep]
			if depReport.Effective < report.Effective {
				report.Effective = depReport.Effective
				report.LimitingPath = append([]string{dep}, depReport.LimitingPath...)
			}
		}
		reports[artifact] = report
	}

	return reports
}
