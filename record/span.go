package record

import (
	"strconv"
	"strings"

	"github.com/qualdev/qualifier/errors"
)

// Position is a 1-indexed line/column location within an artifact.
// Column is optional; a nil column means "the whole line".
type Position struct {
	Line int  `json:"line"`
	Col  *int `json:"col,omitempty"`
}

// Span addresses a range within an artifact, for attestations about a
// sub-artifact region rather than the whole subject.
type Span struct {
	Start Position  `json:"start"`
	End   *Position `json:"end,omitempty"`
}

// Normalize fills in a missing end position with the start, so a
// single-point span and its explicit equivalent hash identically.
func (s *Span) Normalize() {
	if s.End == nil {
		end := s.Start
		if s.Start.Col != nil {
			col := *s.Start.Col
			end.Col = &col
		}
		s.End = &end
	}
}

// ParseSpan parses the command-line span syntax:
//
//	"42"          line 42
//	"42:58"       lines 42 through 58
//	"42.5:58.80"  line 42 col 5 through line 58 col 80
func ParseSpan(s string) (Span, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		start, err := parsePosition(parts[0])
		if err != nil {
			return Span{}, err
		}
		return Span{Start: start}, nil
	case 2:
		start, err := parsePosition(parts[0])
		if err != nil {
			return Span{}, err
		}
		end, err := parsePosition(parts[1])
		if err != nil {
			return Span{}, err
		}
		return Span{Start: start, End: &end}, nil
	default:
		return Span{}, errors.NewValidationError(
			"invalid span syntax: '%s' (expected LINE, LINE:LINE, or LINE.COL:LINE.COL)", s)
	}
}

func parsePosition(s string) (Position, error) {
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		line, err := strconv.Atoi(parts[0])
		if err != nil {
			return Position{}, errors.NewValidationError("invalid line number: '%s'", parts[0])
		}
		return Position{Line: line}, nil
	case 2:
		line, err := strconv.Atoi(parts[0])
		if err != nil {
			return Position{}, errors.NewValidationError("invalid line number: '%s'", parts[0])
		}
		col, err := strconv.Atoi(parts[1])
		if err != nil {
			return Position{}, errors.NewValidationError("invalid column number: '%s'", parts[1])
		}
		return Position{Line: line, Col: &col}, nil
	default:
		return Position{}, errors.NewValidationError(
			"invalid position syntax: '%s' (expected LINE or LINE.COL)", s)
	}
}
