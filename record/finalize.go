package record

// ScoreMin and ScoreMax bound every record score.
const (
	ScoreMin = -100
	ScoreMax = 100
)

// ClampScore clamps a score into [ScoreMin, ScoreMax].
func ClampScore(score int) int {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// Finalize normalizes an attestation and seals its identity: the schema
// marker and type tag are stamped, the score is clamped, the span is
// normalized, the timestamp is forced to UTC, and the content-addressed
// ID is computed from the result. Finalizing an already-final record is a
// no-op.
func (a *Attestation) Finalize() error {
	a.Metabox = SchemaVersion
	a.Type = TypeAttestation
	a.Body.Score = ClampScore(a.Body.Score)
	if a.Body.Span != nil {
		a.Body.Span.Normalize()
	}
	if len(a.Body.Tags) == 0 {
		a.Body.Tags = nil
	}
	a.CreatedAt = a.CreatedAt.UTC()

	a.ID = ""
	id, err := a.GenerateID()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// Finalize normalizes an epoch and computes its ID.
func (e *Epoch) Finalize() error {
	e.Metabox = SchemaVersion
	e.Type = TypeEpoch
	e.Body.Score = ClampScore(e.Body.Score)
	if e.Body.Span != nil {
		e.Body.Span.Normalize()
	}
	if e.Body.Refs == nil {
		e.Body.Refs = []string{}
	}
	e.CreatedAt = e.CreatedAt.UTC()

	e.ID = ""
	id, err := e.GenerateID()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Finalize normalizes a dependency record and computes its ID.
func (d *Dependency) Finalize() error {
	d.Metabox = SchemaVersion
	d.Type = TypeDependency
	if d.Body.DependsOn == nil {
		d.Body.DependsOn = []string{}
	}
	d.CreatedAt = d.CreatedAt.UTC()

	d.ID = ""
	id, err := d.GenerateID()
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// Finalize normalizes the active variant and computes its ID. Unknown
// records pass through untouched.
func (r *Record) Finalize() error {
	switch {
	case r.Attestation != nil:
		return r.Attestation.Finalize()
	case r.Epoch != nil:
		return r.Epoch.Finalize()
	case r.Dependency != nil:
		return r.Dependency.Finalize()
	}
	return nil
}
