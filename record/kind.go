package record

// Kind is the type of judgment an attestation makes. A fixed vocabulary
// carries conventional default scores; any other string is a custom kind
// and defaults to 0.
type Kind string

// The built-in kind vocabulary.
const (
	KindPass       Kind = "pass"
	KindFail       Kind = "fail"
	KindBlocker    Kind = "blocker"
	KindConcern    Kind = "concern"
	KindPraise     Kind = "praise"
	KindSuggestion Kind = "suggestion"
	KindWaiver     Kind = "waiver"
)

// KnownKinds lists the built-in kind vocabulary in conventional order.
var KnownKinds = []Kind{
	KindPass,
	KindFail,
	KindBlocker,
	KindConcern,
	KindPraise,
	KindSuggestion,
	KindWaiver,
}

// DefaultScore returns the conventional score for a kind, used when the
// author does not give an explicit score. Custom kinds default to 0.
func (k Kind) DefaultScore() int {
	switch k {
	case KindPass:
		return 20
	case KindFail:
		return -20
	case KindBlocker:
		return -50
	case KindConcern:
		return -10
	case KindPraise:
		return 30
	case KindSuggestion:
		return -5
	case KindWaiver:
		return 10
	default:
		return 0
	}
}

// Known reports whether the kind is in the built-in vocabulary.
func (k Kind) Known() bool {
	switch k {
	case KindPass, KindFail, KindBlocker, KindConcern, KindPraise,
		KindSuggestion, KindWaiver:
		return true
	}
	return false
}

// SuggestKind returns a built-in kind within edit distance 2 of the given
// custom kind, for "did you mean" diagnostics. Returns "" when nothing is
// close enough.
func SuggestKind(custom Kind) Kind {
	for _, known := range KnownKinds {
		if custom == known {
			continue
		}
		if withinEditDistance(string(custom), string(known), 2) {
			return known
		}
	}
	return ""
}

// withinEditDistance reports whether the Levenshtein distance between a
// and b is at most max. Uses a two-row table and aborts early once every
// cell of a row exceeds the bound.
func withinEditDistance(a, b string, max int) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > max {
		return false
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		rowMin := curr[0]
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[i] + 1
			ins := curr[i-1] + 1
			sub := prev[i-1] + cost
			d := del
			if ins < d {
				d = ins
			}
			if sub < d {
				d = sub
			}
			curr[i] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > max {
			return false
		}
		prev, curr = curr, prev
	}
	return prev[len(a)] <= max
}
