package record

import (
	"github.com/qualdev/qualifier/errors"
)

// FilterSuperseded returns only the active records: a record is inactive
// when any other record in the set names its ID in supersedes. The
// superseding record does not need to be active itself, so a chain
// A <- B <- C leaves only C active.
func FilterSuperseded(records []Record) []Record {
	superseded := make(map[string]bool)
	for _, r := range records {
		if target := r.Supersedes(); target != "" {
			superseded[target] = true
		}
	}

	active := make([]Record, 0, len(records))
	for _, r := range records {
		if !superseded[r.ID()] {
			active = append(active, r)
		}
	}
	return active
}

// CheckSupersessionCycles walks each record's supersession chain and
// reports a cycle error when a chain revisits a record. Chains pointing
// at IDs absent from the set simply terminate; partial record sets are
// normal.
func CheckSupersessionCycles(records []Record) error {
	byID := make(map[string]string, len(records))
	for _, r := range records {
		byID[r.ID()] = r.Supersedes()
	}

	for _, r := range records {
		visited := make(map[string]bool)
		current := r.ID()
		for {
			if visited[current] {
				return errors.NewCycleError("supersession", "cycle detected involving record %s", current)
			}
			visited[current] = true

			next, present := byID[current]
			if !present || next == "" {
				break
			}
			current = next
		}
	}
	return nil
}

// ValidateSupersessionTargets rejects records that supersede a record
// about a different subject. Targets not present in the set are ignored.
func ValidateSupersessionTargets(records []Record) error {
	byID := make(map[string]Record, len(records))
	for _, r := range records {
		byID[r.ID()] = r
	}

	for _, r := range records {
		target := r.Supersedes()
		if target == "" {
			continue
		}
		targetRecord, present := byID[target]
		if !present {
			continue
		}
		if r.Subject() != targetRecord.Subject() {
			return errors.NewValidationError(
				"record %s (subject '%s') supersedes %s (subject '%s'): cross-subject supersession is not allowed",
				shortID(r.ID()), r.Subject(), shortID(target), targetRecord.Subject())
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
