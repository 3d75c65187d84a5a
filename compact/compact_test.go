package compact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
	"github.com/qualdev/qualifier/scoring"
)

var compactedAt = time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)

func makeRecord(t *testing.T, subject string, kind record.Kind, score int, summary string) record.Record {
	t.Helper()
	att := &record.Attestation{
		Subject:   subject,
		Author:    "test@test.com",
		CreatedAt: time.Date(2026, 2, 24, 10, 0, 0, 0, time.UTC),
		Body: record.AttestationBody{
			Kind:    kind,
			Score:   score,
			Summary: summary,
		},
	}
	require.NoError(t, att.Finalize())
	return record.Record{Attestation: att}
}

func makeSuperseding(t *testing.T, subject string, score int, target string) record.Record {
	t.Helper()
	att := &record.Attestation{
		Subject:   subject,
		Author:    "test@test.com",
		CreatedAt: time.Date(2026, 2, 24, 11, 0, 0, 0, time.UTC),
		Body: record.AttestationBody{
			Kind:       record.KindPass,
			Score:      score,
			Summary:    "updated",
			Supersedes: target,
		},
	}
	require.NoError(t, att.Finalize())
	return record.Record{Attestation: att}
}

func makeQualFile(records ...record.Record) *qualfile.QualFile {
	return &qualfile.QualFile{
		Path:    "test.rs.qual",
		Subject: "test.rs",
		Records: records,
	}
}

func TestPruneNoSupersession(t *testing.T) {
	qf := makeQualFile(
		makeRecord(t, "test.rs", record.KindPraise, 40, "good"),
		makeRecord(t, "test.rs", record.KindConcern, -10, "meh"),
	)
	pruned, result := Prune(qf)

	assert.Equal(t, Result{Before: 2, After: 2, Pruned: 0}, result)
	assert.Len(t, pruned.Records, 2)
}

func TestPruneRemovesSuperseded(t *testing.T) {
	original := makeRecord(t, "test.rs", record.KindConcern, -30, "bad")
	replacement := makeSuperseding(t, "test.rs", 10, original.ID())
	unrelated := makeRecord(t, "test.rs", record.KindPraise, 20, "nice")

	qf := makeQualFile(original, replacement, unrelated)
	scoreBefore := scoring.RawScore(qf.Records)

	pruned, result := Prune(qf)

	assert.Equal(t, Result{Before: 3, After: 2, Pruned: 1}, result)
	assert.Equal(t, scoreBefore, scoring.RawScore(pruned.Records),
		"prune must preserve raw score")

	ids := []string{pruned.Records[0].ID(), pruned.Records[1].ID()}
	assert.Contains(t, ids, replacement.ID())
	assert.Contains(t, ids, unrelated.ID())
}

func TestPruneDeepChain(t *testing.T) {
	a := makeRecord(t, "test.rs", record.KindFail, -50, "step 1")
	b := makeSuperseding(t, "test.rs", -40, a.ID())
	c := makeSuperseding(t, "test.rs", -20, b.ID())
	d := makeSuperseding(t, "test.rs", 0, c.ID())
	e := makeSuperseding(t, "test.rs", 30, d.ID())

	qf := makeQualFile(a, b, c, d, e)
	scoreBefore := scoring.RawScore(qf.Records)

	pruned, result := Prune(qf)
	assert.Equal(t, 1, result.After, "only the chain tip survives")
	assert.Equal(t, e.ID(), pruned.Records[0].ID())
	assert.Equal(t, scoreBefore, scoring.RawScore(pruned.Records))
}

func TestPruneKeepsDanglingSupersedes(t *testing.T) {
	a := makeRecord(t, "test.rs", record.KindPraise, 20, "good")
	b := makeSuperseding(t, "test.rs", 10, "nonexistent_id_12345")

	pruned, result := Prune(makeQualFile(a, b))
	assert.Equal(t, 0, result.Pruned,
		"a supersedes target outside this set leaves both records active")
	assert.Len(t, pruned.Records, 2)
}

func TestPruneKeepsDependencyRecords(t *testing.T) {
	dep := &record.Dependency{
		Subject:   "bin/app",
		Author:    "build",
		CreatedAt: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		Body:      record.DependencyBody{DependsOn: []string{"lib/core"}},
	}
	require.NoError(t, dep.Finalize())

	qf := makeQualFile(makeRecord(t, "bin/app", record.KindPass, 20, "ok"), record.Record{Dependency: dep})
	pruned, _ := Prune(qf)
	assert.Len(t, pruned.Records, 2)
}

func TestSnapshotEmpty(t *testing.T) {
	snapped, result, err := Snapshot(makeQualFile(), compactedAt)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Empty(t, snapped.Records)
}

func TestSnapshotCollapsesToEpoch(t *testing.T) {
	qf := makeQualFile(
		makeRecord(t, "test.rs", record.KindPraise, 40, "good"),
		makeRecord(t, "test.rs", record.KindConcern, -10, "meh"),
	)
	snapped, result, err := Snapshot(qf, compactedAt)
	require.NoError(t, err)

	assert.Equal(t, Result{Before: 2, After: 1, Pruned: 1}, result)
	require.Len(t, snapped.Records, 1)

	epoch := snapped.Records[0].Epoch
	require.NotNil(t, epoch)
	assert.Equal(t, 30, epoch.Body.Score)
	assert.Equal(t, CompactAuthor, epoch.Author)
	assert.Equal(t, record.AuthorTool, epoch.Body.AuthorType)
	assert.Len(t, epoch.Body.Refs, 2)
	assert.Equal(t, "Compacted from 2 attestations", epoch.Body.Summary)
}

func TestSnapshotPreservesScoreAcrossChain(t *testing.T) {
	a := makeRecord(t, "test.rs", record.KindFail, -50, "terrible")
	b := makeSuperseding(t, "test.rs", -20, a.ID())
	c := makeSuperseding(t, "test.rs", 10, b.ID())

	qf := makeQualFile(a, b, c)
	require.Equal(t, 10, scoring.RawScore(qf.Records))

	snapped, _, err := Snapshot(qf, compactedAt)
	require.NoError(t, err)
	require.Len(t, snapped.Records, 1)
	assert.Equal(t, 10, scoring.RawScore(snapped.Records))
	assert.Len(t, snapped.Records[0].Epoch.Body.Refs, 3,
		"refs keep the full folded history, superseded records included")
}

func TestSnapshotGroupsBySubject(t *testing.T) {
	qf := &qualfile.QualFile{
		Path:    "src/.qual",
		Subject: "src/",
		Records: []record.Record{
			makeRecord(t, "src/a.rs", record.KindPraise, 40, "good"),
			makeRecord(t, "src/b.rs", record.KindConcern, -10, "meh"),
			makeRecord(t, "src/a.rs", record.KindConcern, -15, "hmm"),
		},
	}
	snapped, _, err := Snapshot(qf, compactedAt)
	require.NoError(t, err)
	require.Len(t, snapped.Records, 2)

	assert.Equal(t, "src/a.rs", snapped.Records[0].Subject())
	assert.Equal(t, 25, snapped.Records[0].Epoch.Body.Score)
	assert.Equal(t, "src/b.rs", snapped.Records[1].Subject())
	assert.Equal(t, -10, snapped.Records[1].Epoch.Body.Score)
}

func TestSnapshotPassesThroughUnscoredRecords(t *testing.T) {
	dep := &record.Dependency{
		Subject:   "bin/app",
		Author:    "build",
		CreatedAt: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		Body:      record.DependencyBody{DependsOn: []string{"lib/core"}},
	}
	require.NoError(t, dep.Finalize())

	qf := makeQualFile(
		makeRecord(t, "test.rs", record.KindPass, 20, "ok"),
		record.Record{Dependency: dep},
	)
	snapped, _, err := Snapshot(qf, compactedAt)
	require.NoError(t, err)
	require.Len(t, snapped.Records, 2)
	assert.NotNil(t, snapped.Records[0].Epoch)
	assert.NotNil(t, snapped.Records[1].Dependency, "dependency records survive snapshots")
}

func TestSnapshotSingleRecord(t *testing.T) {
	qf := makeQualFile(makeRecord(t, "test.rs", record.KindPraise, 40, "good"))
	snapped, result, err := Snapshot(qf, compactedAt)
	require.NoError(t, err)
	assert.Equal(t, Result{Before: 1, After: 1, Pruned: 0}, result)
	assert.Equal(t, 40, snapped.Records[0].Epoch.Body.Score)
}
