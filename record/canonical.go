package record

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"

	"github.com/qualdev/qualifier/errors"
)

// Canonical serialization is the basis of record identity: the record is
// serialized with its id field set to the empty string and every other
// field in its canonical position, and the BLAKE3-256 digest of those
// bytes (lowercase hex) is the record's ID.
//
// The canonical views below spell out the field order explicitly rather
// than relying on the wire structs staying in sync. Compact JSON, no HTML
// escaping, optional fields elided entirely (never null).

type canonicalAttestation struct {
	Metabox   string          `json:"metabox"`
	Type      string          `json:"type"`
	Subject   string          `json:"subject"`
	Author    string          `json:"author"`
	CreatedAt string          `json:"created_at"`
	ID        string          `json:"id"`
	Body      AttestationBody `json:"body"`
}

type canonicalEpoch struct {
	Metabox   string    `json:"metabox"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Author    string    `json:"author"`
	CreatedAt string    `json:"created_at"`
	ID        string    `json:"id"`
	Body      EpochBody `json:"body"`
}

type canonicalDependency struct {
	Metabox   string         `json:"metabox"`
	Type      string         `json:"type"`
	Subject   string         `json:"subject"`
	Author    string         `json:"author"`
	CreatedAt string         `json:"created_at"`
	ID        string         `json:"id"`
	Body      DependencyBody `json:"body"`
}

// marshalNoEscape is json.Marshal without HTML escaping and without the
// trailing newline json.Encoder appends. Canonical bytes and wire bytes
// both go through here so a record re-read from disk hashes to its own ID.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshal record")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalWire serializes a record to its exact on-disk line bytes. Plain
// json.Marshal re-escapes HTML characters even through MarshalJSON, so
// writers that need byte-exact canonical output use this instead.
func MarshalWire(r Record) ([]byte, error) {
	return r.MarshalJSON()
}

func hashCanonical(v any) (string, error) {
	data, err := marshalNoEscape(v)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalTime renders a timestamp for the canonical bytes: RFC 3339 in
// UTC with a 'Z' suffix, subseconds only when nonzero and then in 3-digit
// groups (milli, micro, nano), the shortest group that loses no precision.
// Format(RFC3339Nano) would trim trailing zeros digit by digit ("0.5Z"
// instead of "0.500Z") and diverge from other implementations' bytes.
func canonicalTime(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	nanos := t.Nanosecond()
	switch {
	case nanos == 0:
		return base + "Z"
	case nanos%1e6 == 0:
		return fmt.Sprintf("%s.%03dZ", base, nanos/1e6)
	case nanos%1e3 == 0:
		return fmt.Sprintf("%s.%06dZ", base, nanos/1e3)
	default:
		return fmt.Sprintf("%s.%09dZ", base, nanos)
	}
}

// The view constructors take the id explicitly: hashing serializes with
// id "", wire output with the record's real ID. Every other field,
// created_at included, serializes identically in both.

func attestationView(a *Attestation, id string) canonicalAttestation {
	return canonicalAttestation{
		Metabox:   a.Metabox,
		Type:      a.Type,
		Subject:   a.Subject,
		Author:    a.Author,
		CreatedAt: canonicalTime(a.CreatedAt),
		ID:        id,
		Body:      a.Body,
	}
}

func epochView(e *Epoch, id string) canonicalEpoch {
	return canonicalEpoch{
		Metabox:   e.Metabox,
		Type:      e.Type,
		Subject:   e.Subject,
		Author:    e.Author,
		CreatedAt: canonicalTime(e.CreatedAt),
		ID:        id,
		Body:      e.Body,
	}
}

func dependencyView(d *Dependency, id string) canonicalDependency {
	return canonicalDependency{
		Metabox:   d.Metabox,
		Type:      d.Type,
		Subject:   d.Subject,
		Author:    d.Author,
		CreatedAt: canonicalTime(d.CreatedAt),
		ID:        id,
		Body:      d.Body,
	}
}

// GenerateID computes the content-addressed ID of an attestation. The
// attestation's current ID field is ignored.
func (a *Attestation) GenerateID() (string, error) {
	return hashCanonical(attestationView(a, ""))
}

// GenerateID computes the content-addressed ID of an epoch.
func (e *Epoch) GenerateID() (string, error) {
	return hashCanonical(epochView(e, ""))
}

// GenerateID computes the content-addressed ID of a dependency record.
func (d *Dependency) GenerateID() (string, error) {
	return hashCanonical(dependencyView(d, ""))
}

// GenerateID computes the content-addressed ID of any known record type.
// Unknown records have no computable ID.
func (r Record) GenerateID() (string, error) {
	switch {
	case r.Attestation != nil:
		return r.Attestation.GenerateID()
	case r.Epoch != nil:
		return r.Epoch.GenerateID()
	case r.Dependency != nil:
		return r.Dependency.GenerateID()
	}
	return "", errors.New("cannot compute an ID for an unknown record type")
}
