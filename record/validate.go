package record

import "fmt"

// Validate checks an attestation and returns every problem found rather
// than stopping at the first one. An empty result means the attestation
// is valid.
func Validate(a *Attestation) []string {
	var problems []string

	if a.Metabox != SchemaVersion {
		problems = append(problems, fmt.Sprintf("unsupported format version: %s", a.Metabox))
	}
	if a.Subject == "" {
		problems = append(problems, "subject must not be empty")
	}
	if a.Body.Summary == "" {
		problems = append(problems, "summary must not be empty")
	}
	if a.Author == "" {
		problems = append(problems, "author must not be empty")
	}
	if a.Body.Score < ScoreMin || a.Body.Score > ScoreMax {
		problems = append(problems, fmt.Sprintf("score %d is out of range [%d, %d]", a.Body.Score, ScoreMin, ScoreMax))
	}
	if a.ID == "" {
		problems = append(problems, "id must not be empty")
	} else if expected, err := a.GenerateID(); err == nil && a.ID != expected {
		problems = append(problems, fmt.Sprintf("id mismatch: expected %s, got %s", expected, a.ID))
	}

	if !a.Body.Kind.Known() {
		if a.Body.Kind == "epoch" {
			problems = append(problems, "'epoch' is a record type, not a kind; use type: \"epoch\" instead")
		}
		if suggestion := SuggestKind(a.Body.Kind); suggestion != "" {
			problems = append(problems, fmt.Sprintf("unknown kind '%s', did you mean '%s'?", a.Body.Kind, suggestion))
		}
	}

	if span := a.Body.Span; span != nil {
		if span.Start.Line == 0 {
			problems = append(problems, "span.start.line must be >= 1 (1-indexed)")
		}
		if span.End != nil && span.End.Line == 0 {
			problems = append(problems, "span.end.line must be >= 1 (1-indexed)")
		}
		if span.Start.Col != nil && *span.Start.Col == 0 {
			problems = append(problems, "span.start.col must be >= 1 (1-indexed)")
		}
	}

	return problems
}
