package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualdev/qualifier/graph"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/record"
)

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

func supersedingRecord(t *testing.T, subject, target string, score int, summary string) record.Record {
	t.Helper()
	att := &record.Attestation{
		Subject:   subject,
		Author:    "test@test.com",
		CreatedAt: time.Date(2026, 2, 24, 11, 0, 0, 0, time.UTC),
		Body: record.AttestationBody{
			Kind:       record.KindPass,
			Score:      score,
			Summary:    summary,
			Supersedes: target,
		},
	}
	require.NoError(t, att.Finalize())
	return record.Record{Attestation: att}
}

func qf(subject string, records ...record.Record) *qualfile.QualFile {
	return &qualfile.QualFile{
		Path:    subject + ".qual",
		Subject: subject,
		Records: records,
	}
}

func TestRawScoreSumsAndClamps(t *testing.T) {
	records := []record.Record{
		makeRecord(t, "a.rs", record.KindPraise, 40, "good"),
		makeRecord(t, "a.rs", record.KindConcern, -10, "meh"),
	}
	assert.Equal(t, 30, RawScore(records))

	pileOn := []record.Record{
		makeRecord(t, "a.rs", record.KindPraise, 80, "great"),
		makeRecord(t, "a.rs", record.KindPraise, 80, "superb"),
	}
	assert.Equal(t, 100, RawScore(pileOn), "raw score clamps at 100")

	assert.Equal(t, 0, RawScore(nil))
}

func TestRawScoreIgnoresSuperseded(t *testing.T) {
	a := makeRecord(t, "mod.rs", record.KindBlocker, -50, "v1")
	b := supersedingRecord(t, "mod.rs", a.ID(), -20, "v2")
	c := supersedingRecord(t, "mod.rs", b.ID(), 10, "v3")

	assert.Equal(t, 10, RawScore([]record.Record{a, b, c}),
		"only the chain head contributes")
}

func TestRawScoreIgnoresUnscoredRecords(t *testing.T) {
	dep := &record.Dependency{
		Subject:   "bin/app",
		Author:    "build",
		CreatedAt: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		Body:      record.DependencyBody{DependsOn: []string{"lib/core"}},
	}
	require.NoError(t, dep.Finalize())

	records := []record.Record{
		makeRecord(t, "bin/app", record.KindPass, 20, "ok"),
		{Dependency: dep},
	}
	assert.Equal(t, 20, RawScore(records))
}

func TestEffectiveScoresPropagation(t *testing.T) {
	g, err := graph.Parse(`{"subject":"bin/server","depends_on":["lib/auth","lib/http"]}
{"subject":"lib/auth","depends_on":["lib/crypto"]}
{"subject":"lib/http","depends_on":[]}
{"subject":"lib/crypto","depends_on":[]}
`)
	require.NoError(t, err)

	qfs := []*qualfile.QualFile{
		qf("bin/server", makeRecord(t, "bin/server", record.KindPraise, 80, "solid")),
		qf("lib/auth", makeRecord(t, "lib/auth", record.KindPraise, 60, "fine")),
		qf("lib/http", makeRecord(t, "lib/http", record.KindPraise, 70, "fine")),
		qf("lib/crypto", makeRecord(t, "lib/crypto", record.KindBlocker, -40, "vulnerable")),
	}

	scores := EffectiveScores(g, qfs)

	assert.Equal(t, -40, scores["lib/crypto"].Raw)
	assert.Equal(t, -40, scores["lib/crypto"].Effective)

	assert.Equal(t, 60, scores["lib/auth"].Raw)
	assert.Equal(t, -40, scores["lib/auth"].Effective)
	assert.NotNil(t, scores["lib/auth"].LimitingPath)

	assert.Equal(t, 70, scores["lib/http"].Raw)
	assert.Equal(t, 70, scores["lib/http"].Effective)

	assert.Equal(t, 80, scores["bin/server"].Raw)
	assert.Equal(t, -40, scores["bin/server"].Effective)
}

func TestLimitingPathShowsFullChain(t *testing.T) {
	g, err := graph.Parse(`{"subject":"app","depends_on":["lib"]}
{"subject":"lib","depends_on":["core"]}
{"subject":"core","depends_on":[]}
`)
	require.NoError(t, err)

	qfs := []*qualfile.QualFile{
		qf("app", makeRecord(t, "app", record.KindPraise, 90, "great")),
		qf("lib", makeRecord(t, "lib", record.KindPraise, 70, "fine")),
		qf("core", makeRecord(t, "core", record.KindBlocker, -50, "broken")),
	}

	scores := EffectiveScores(g, qfs)

	assert.Equal(t, -50, scores["core"].Effective)
	assert.Equal(t, -50, scores["lib"].Effective)
	assert.Equal(t, []string{"core"}, scores["lib"].LimitingPath)
	assert.Equal(t, -50, scores["app"].Effective)
	assert.Equal(t, []string{"lib", "core"}, scores["app"].LimitingPath,
		"the path runs through lib down to the actual bottleneck")
}

func TestArtifactsOutsideGraphPassThrough(t *testing.T) {
	g, err := graph.Parse(`{"subject":"app","depends_on":["lib"]}
{"subject":"lib","depends_on":[]}
`)
	require.NoError(t, err)

	qfs := []*qualfile.QualFile{
		qf("standalone", makeRecord(t, "standalone", record.KindPraise, 50, "fine")),
	}

	scores := EffectiveScores(g, qfs)

	assert.Equal(t, 50, scores["standalone"].Raw)
	assert.Equal(t, 50, scores["standalone"].Effective)
	assert.Nil(t, scores["standalone"].LimitingPath)

	assert.Equal(t, 0, scores["app"].Raw, "graph-only artifacts score 0")
	assert.Equal(t, 0, scores["lib"].Raw)
}

func TestEmptyGraphLeavesEffectiveEqualRaw(t *testing.T) {
	qfs := []*qualfile.QualFile{
		qf("a.rs", makeRecord(t, "a.rs", record.KindConcern, -10, "meh")),
	}
	scores := EffectiveScores(graph.Empty(), qfs)
	assert.Equal(t, -10, scores["a.rs"].Raw)
	assert.Equal(t, -10, scores["a.rs"].Effective)
	assert.Nil(t, scores["a.rs"].LimitingPath)
}

func TestScoreStatus(t *testing.T) {
	assert.Equal(t, "good", ScoreStatus(ScoreReport{Effective: 60}))
	assert.Equal(t, "ok", ScoreStatus(ScoreReport{Effective: 0}))
	assert.Equal(t, "ok", ScoreStatus(ScoreReport{Effective: 59}))
	assert.Equal(t, "poor", ScoreStatus(ScoreReport{Effective: -1}))
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, 10, len([]rune(ScoreBar(0, 10))))
	assert.Equal(t, strings.Repeat("█", 10), ScoreBar(100, 10))
	assert.Equal(t, strings.Repeat("░", 10), ScoreBar(-100, 10))
}
