package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualdev/qualifier/errors"
)

func supersedingRecord(t *testing.T, subject, target, summary string) Record {
	t.Helper()
	att := &Attestation{
		Subject:   subject,
		Author:    "test@test.com",
		CreatedAt: mustTime(t, "2026-02-24T11:00:00Z"),
		Body: AttestationBody{
			Kind:       KindPass,
			Score:      20,
			Summary:    summary,
			Supersedes: target,
		},
	}
	require.NoError(t, att.Finalize())
	return Record{Attestation: att}
}

func TestFilterSuperseded(t *testing.T) {
	original := makeRecord(t, "mod.rs", KindConcern, -20, "problem")
	replacement := supersedingRecord(t, "mod.rs", original.ID(), "fixed it")

	active := FilterSuperseded([]Record{original, replacement})
	require.Len(t, active, 1)
	assert.Equal(t, replacement.ID(), active[0].ID())
}

func TestFilterSupersededChainLeavesOnlyHead(t *testing.T) {
	a := makeRecord(t, "mod.rs", KindConcern, -20, "v1")
	b := supersedingRecord(t, "mod.rs", a.ID(), "v2")
	c := supersedingRecord(t, "mod.rs", b.ID(), "v3")

	active := FilterSuperseded([]Record{a, b, c})
	require.Len(t, active, 1)
	assert.Equal(t, c.ID(), active[0].ID())
}

func TestFilterSupersededKeepsUnrelatedRecords(t *testing.T) {
	a := makeRecord(t, "mod.rs", KindConcern, -20, "problem")
	b := makeRecord(t, "other.rs", KindPraise, 30, "nice")
	replacement := supersedingRecord(t, "mod.rs", a.ID(), "fixed")

	active := FilterSuperseded([]Record{a, b, replacement})
	assert.Len(t, active, 2)
}

func TestSupersessionCycleDetected(t *testing.T) {
	// Hand-built records with forged supersedes pointers forming a 2-cycle.
	a := makeAttestation(t, "mod.rs", KindConcern, -10, "a")
	b := makeAttestation(t, "mod.rs", KindConcern, -10, "b")
	a.Body.Supersedes = b.ID
	b.Body.Supersedes = a.ID

	err := CheckSupersessionCycles([]Record{{Attestation: a}, {Attestation: b}})
	require.Error(t, err)
	assert.True(t, errors.IsCycle(err))
	assert.Contains(t, err.Error(), "cycle detected")
}

func TestSupersessionChainIsNotACycle(t *testing.T) {
	a := makeRecord(t, "mod.rs", KindConcern, -20, "v1")
	b := supersedingRecord(t, "mod.rs", a.ID(), "v2")
	c := supersedingRecord(t, "mod.rs", b.ID(), "v3")

	assert.NoError(t, CheckSupersessionCycles([]Record{a, b, c}))
}

func TestSupersessionOfAbsentTargetIsFine(t *testing.T) {
	// The superseded record may live in a file that wasn't loaded.
	orphan := supersedingRecord(t, "mod.rs", "deadbeef", "fixes something elsewhere")
	assert.NoError(t, CheckSupersessionCycles([]Record{orphan}))
	assert.NoError(t, ValidateSupersessionTargets([]Record{orphan}))
}

func TestCrossSubjectSupersessionRejected(t *testing.T) {
	a := makeRecord(t, "foo.rs", KindConcern, -10, "issue in foo")
	b := supersedingRecord(t, "bar.rs", a.ID(), "fix in bar")

	err := ValidateSupersessionTargets([]Record{a, b})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "cross-subject")
}

func TestSameSubjectSupersessionAllowed(t *testing.T) {
	a := makeRecord(t, "foo.rs", KindConcern, -10, "issue")
	b := supersedingRecord(t, "foo.rs", a.ID(), "fixed")

	assert.NoError(t, ValidateSupersessionTargets([]Record{a, b}))
}
