// Package record defines the qualifier record model: the four wire record
// types (attestation, epoch, dependency, unknown), their canonical
// serialization, content-addressed BLAKE3 identity, validation, and
// supersession resolution.
//
// Records are immutable once written. Identity is derived from content, so
// two independently-authored record streams for the same subject can be
// concatenated (for example by a textual union merge across branches) and
// the result is automatically well-formed: nothing here depends on file
// position or arrival order.
package record

import (
	"encoding/json"
	"time"

	"github.com/qualdev/qualifier/errors"
)

// SchemaVersion is the value of the metabox envelope field for records
// written by this implementation. Parsing tolerates other values;
// validation flags them.
const SchemaVersion = "1"

// Record type tags carried in the envelope "type" field.
const (
	TypeAttestation = "attestation"
	TypeEpoch       = "epoch"
	TypeDependency  = "dependency"
)

// AuthorType classifies who or what authored a record.
type AuthorType string

// Author classifications.
const (
	AuthorHuman   AuthorType = "human"
	AuthorAI      AuthorType = "ai"
	AuthorTool    AuthorType = "tool"
	AuthorUnknown AuthorType = "unknown"
)

// ParseAuthorType parses an author_type string, rejecting unknown values.
func ParseAuthorType(s string) (AuthorType, error) {
	switch AuthorType(s) {
	case AuthorHuman, AuthorAI, AuthorTool, AuthorUnknown:
		return AuthorType(s), nil
	default:
		return "", errors.NewValidationError("unknown author_type: '%s'", s)
	}
}

// Attestation is a single quality judgment about one subject.
//
// Field order is canonical: the envelope serializes as metabox, type,
// subject, author, created_at, id, body, and this determines record IDs.
// Do not reorder fields.
type Attestation struct {
	// Metabox is the schema version marker. Always "1".
	Metabox string `json:"metabox"`
	// Type is the record type tag. Always "attestation".
	Type string `json:"type"`
	// Subject is the qualified name of the artifact being judged.
	Subject string `json:"subject"`
	// Author is who or what created this attestation (free-text identity).
	Author string `json:"author"`
	// CreatedAt is when this attestation was created (RFC 3339, UTC).
	CreatedAt time.Time `json:"created_at"`
	// ID is the content-addressed record ID (BLAKE3 hex).
	ID string `json:"id"`
	// Body holds the judgment itself.
	Body AttestationBody `json:"body"`
}

// AttestationBody holds the judgment fields. Serialized in strict
// alphabetical order; this is part of the wire contract.
type AttestationBody struct {
	// AuthorType classifies the author: human, ai, tool, or unknown.
	AuthorType AuthorType `json:"author_type,omitempty"`
	// Detail is an extended description (markdown allowed).
	Detail string `json:"detail,omitempty"`
	// Kind is the type of judgment (pass, fail, ... or a custom string).
	Kind Kind `json:"kind"`
	// Ref is a VCS reference pin (e.g. "git:3aba500"). Opaque to qualifier.
	Ref string `json:"ref,omitempty"`
	// Score is the signed quality delta, clamped to [-100, 100].
	Score int `json:"score"`
	// Span addresses a sub-artifact range.
	Span *Span `json:"span,omitempty"`
	// SuggestedFix is an actionable suggestion for improvement.
	SuggestedFix string `json:"suggested_fix,omitempty"`
	// Summary is a human-readable one-liner.
	Summary string `json:"summary"`
	// Supersedes names the ID of a prior attestation this one replaces.
	Supersedes string `json:"supersedes,omitempty"`
	// Tags are freeform classification tags.
	Tags []string `json:"tags,omitempty"`
}

// Epoch is a compaction summary record that replaces a group of records
// with a single scored record preserving the net score.
type Epoch struct {
	Metabox   string    `json:"metabox"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Body      EpochBody `json:"body"`
}

// EpochBody holds the compaction summary. Alphabetical field order.
type EpochBody struct {
	AuthorType AuthorType `json:"author_type,omitempty"`
	// Refs lists the IDs of the records folded into this epoch, in
	// original order.
	Refs  []string `json:"refs"`
	Score int      `json:"score"`
	Span  *Span    `json:"span,omitempty"`
	// Summary describes what was compacted.
	Summary string `json:"summary"`
}

// Dependency declares edges from one subject to the subjects it depends on.
type Dependency struct {
	Metabox   string         `json:"metabox"`
	Type      string         `json:"type"`
	Subject   string         `json:"subject"`
	Author    string         `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	ID        string         `json:"id"`
	Body      DependencyBody `json:"body"`
}

// DependencyBody holds the dependency edge list.
type DependencyBody struct {
	DependsOn []string `json:"depends_on"`
}

// Record is a tagged union over the four record cases. Exactly one of the
// variant fields is set. Records whose type tag is not recognized are
// preserved verbatim in Unknown so that round-tripping through qualifier
// never drops or corrupts records it doesn't yet understand.
type Record struct {
	Attestation *Attestation
	Epoch       *Epoch
	Dependency  *Dependency
	Unknown     json.RawMessage
}

// unknownProbe extracts envelope fields from unrecognized record types.
type unknownProbe struct {
	Subject string `json:"subject"`
	ID      string `json:"id"`
}

// ID returns the record's content-addressed ID (empty for unknown records
// that carry none).
func (r Record) ID() string {
	switch {
	case r.Attestation != nil:
		return r.Attestation.ID
	case r.Epoch != nil:
		return r.Epoch.ID
	case r.Dependency != nil:
		return r.Dependency.ID
	case r.Unknown != nil:
		var p unknownProbe
		if err := json.Unmarshal(r.Unknown, &p); err == nil {
			return p.ID
		}
	}
	return ""
}

// Subject returns the artifact name the record is about.
func (r Record) Subject() string {
	switch {
	case r.Attestation != nil:
		return r.Attestation.Subject
	case r.Epoch != nil:
		return r.Epoch.Subject
	case r.Dependency != nil:
		return r.Dependency.Subject
	case r.Unknown != nil:
		var p unknownProbe
		if err := json.Unmarshal(r.Unknown, &p); err == nil {
			return p.Subject
		}
	}
	return ""
}

// Score returns the record's score and whether the record is a scored
// type. Only attestations and epochs carry scores.
func (r Record) Score() (int, bool) {
	switch {
	case r.Attestation != nil:
		return r.Attestation.Body.Score, true
	case r.Epoch != nil:
		return r.Epoch.Body.Score, true
	}
	return 0, false
}

// IsScored reports whether the record contributes to scoring.
func (r Record) IsScored() bool {
	_, ok := r.Score()
	return ok
}

// Supersedes returns the ID of the record this one replaces, or "" when
// none. Only attestations can supersede.
func (r Record) Supersedes() string {
	if r.Attestation != nil {
		return r.Attestation.Body.Supersedes
	}
	return ""
}

// MarshalJSON emits the active variant through its canonical view, so the
// written bytes use the exact envelope order and timestamp format that the
// record's ID was computed over. Unknown records are emitted verbatim as
// they were read.
func (r Record) MarshalJSON() ([]byte, error) {
	switch {
	case r.Attestation != nil:
		return marshalNoEscape(attestationView(r.Attestation, r.Attestation.ID))
	case r.Epoch != nil:
		return marshalNoEscape(epochView(r.Epoch, r.Epoch.ID))
	case r.Dependency != nil:
		return marshalNoEscape(dependencyView(r.Dependency, r.Dependency.ID))
	case r.Unknown != nil:
		return r.Unknown, nil
	}
	return nil, errors.New("cannot marshal empty record")
}

// UnmarshalJSON dispatches on the envelope "type" field. A missing type
// tag means "attestation" for backward compatibility; an unrecognized tag
// is preserved as an opaque passthrough.
func (r *Record) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	recordType := TypeAttestation
	if probe.Type != nil {
		recordType = *probe.Type
	}

	*r = Record{}
	switch recordType {
	case TypeAttestation:
		var att Attestation
		if err := json.Unmarshal(data, &att); err != nil {
			return err
		}
		r.Attestation = &att
	case TypeEpoch:
		var epoch Epoch
		if err := json.Unmarshal(data, &epoch); err != nil {
			return err
		}
		r.Epoch = &epoch
	case TypeDependency:
		var dep Dependency
		if err := json.Unmarshal(data, &dep); err != nil {
			return err
		}
		r.Dependency = &dep
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		r.Unknown = raw
	}
	return nil
}
