package negotiation

import (
	"strings"
)

// ParseHeader tokenizes a raw Accept-* header value into an ordered term
// sequence. Entries are comma-separated; each may carry parameters after a
// semicolon, of which only "q" (case-insensitive) is meaningful here.
//
// A term without a q parameter defaults to quality 1 with Explicit=false.
// Positions are assigned in declaration order and are what later
// tie-breaking keys on; they are not re-ordered by quality. Empty list
// segments (doubled or trailing commas) are tolerated and skipped.
//
// An empty or all-whitespace header yields an empty sequence; whether that
// means "anything is acceptable" is the caller's policy.
func ParseHeader(raw string) ([]Term, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	segments := strings.Split(trimmed, ",")
	terms := make([]Term, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		value, params, _ := strings.Cut(seg, ";")
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, &MalformedHeaderError{Header: raw, Segment: seg, Reason: "missing value token"}
		}

		term := Term{Position: len(terms), Value: value, Quality: QualityMax}
		for params != "" {
			var p string
			p, params, _ = strings.Cut(params, ";")
			name, val, ok := strings.Cut(p, "=")
			if !ok {
				// Parameter without a value; nothing recognized here.
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(name), "q") {
				continue
			}
			q, err := ParseQValue(strings.TrimSpace(val))
			if err != nil {
				return nil, &MalformedHeaderError{Header: raw, Segment: seg, Reason: err.Error()}
			}
			term.Quality = q
			term.Explicit = true
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// nextPosition returns the position a synthesized term should take: one past
// the highest position already present.
func nextPosition(terms []Term) int {
	next := 0
	for _, t := range terms {
		if t.Position >= next {
			next = t.Position + 1
		}
	}
	return next
}
