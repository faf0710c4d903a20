package negotiation

import (
	"fmt"
	"sort"
	"strings"
)

// Kind supplies the protocol-specific pieces of a negotiation pipeline. The
// pipeline itself is fixed; kinds only decide how identifiers normalize,
// which token is the wildcard, which implicit terms to inject, and whether a
// non-wildcard term matches a candidate.
type Kind interface {
	// Name identifies the kind: "charset", "encoding", "language", "mediatype".
	Name() string

	// Normalize case-folds an identifier for comparison. Both header terms
	// and offer identifiers go through it, so any consistent folding works.
	Normalize(value string) string

	// Wildcard is the token that matches any candidate ("*", or "*/*" for
	// media types).
	Wildcard() string

	// Coalesce injects implicit default terms before matching, e.g. the
	// iso-8859-1 rule of RFC 2616 Section 14.2. Values passed in are
	// already normalized; synthesized terms take the next free position.
	Coalesce(terms []Term) []Term

	// Matches reports whether a non-wildcard term value accepts a
	// candidate. Exact equality for most kinds; media types also accept
	// "type/*" ranges. Both arguments are normalized.
	Matches(termValue, candidate string) bool
}

// Negotiator selects the best available representation for a raw Accept-*
// header value. Construct one per kind with New or a convenience
// constructor; the zero value is not usable.
//
// A Negotiator holds no mutable state and is safe for concurrent use.
type Negotiator struct {
	kind Kind
}

// New creates a Negotiator for the given kind.
func New(kind Kind) *Negotiator {
	return &Negotiator{kind: kind}
}

// Kind returns the name of the negotiator's kind.
func (n *Negotiator) Kind() string {
	return n.kind.Name()
}

// ForKind creates a Negotiator by kind name.
func ForKind(name string) (*Negotiator, error) {
	switch name {
	case KindCharset:
		return NewCharset(), nil
	case KindEncoding:
		return NewEncoding(), nil
	case KindLanguage:
		return NewLanguage(), nil
	case KindMediaType:
		return NewMediaType(), nil
	default:
		return nil, fmt.Errorf("unsupported negotiation kind: %s", name)
	}
}

// KindNames lists the supported kinds in a stable order.
func KindNames() []string {
	return []string{KindCharset, KindEncoding, KindLanguage, KindMediaType}
}

// ValidateOffers checks that the availability is usable: non-empty, every
// identifier non-empty, every weight in (0, 1]. Exposed so callers can fail
// fast on bad configuration before any request arrives.
func ValidateOffers(available []Offer) error {
	if len(available) == 0 {
		return &InvalidAvailabilityError{Reason: "no representations supplied"}
	}
	for _, o := range available {
		if o.Value == "" {
			return &InvalidAvailabilityError{Weight: o.Weight, Reason: "empty identifier"}
		}
		if o.Weight <= 0 || o.Weight > QualityMax {
			return &InvalidAvailabilityError{
				Value:  o.Value,
				Weight: o.Weight,
				Reason: fmt.Sprintf("weight %s outside (0, 1]", o.Weight),
			}
		}
	}
	return nil
}

// Negotiate returns the identifier of the best-matching offer for the raw
// header value. It fails with *InvalidAvailabilityError before parsing if
// the availability is unusable, with *MalformedHeaderError if the header
// cannot be parsed, and with *NotAcceptableError if nothing survives
// matching with nonzero quality.
func (n *Negotiator) Negotiate(rawHeader string, available []Offer) (string, error) {
	sel, err := n.Select(rawHeader, available)
	if err != nil {
		return "", err
	}
	return sel.Value, nil
}

// Select is Negotiate with the full outcome: the chosen identifier plus its
// intrinsic weight, negotiated quality, and the matched term's position and
// explicitness. Each call is independent and referentially transparent.
func (n *Negotiator) Select(rawHeader string, available []Offer) (*Selection, error) {
	// Availability is validated before the header is even looked at: a bad
	// weight is a server defect and must win over any client error.
	if err := ValidateOffers(available); err != nil {
		return nil, err
	}

	// Rank offers by descending intrinsic weight. The sort is stable so
	// equal weights keep their supplied order, which is what breaks ties
	// among equally ranked survivors at the end.
	ranked := make([]Offer, len(available))
	copy(ranked, available)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	// Absent header means anything is acceptable: the server's own top
	// preference wins without negotiation.
	if strings.TrimSpace(rawHeader) == "" {
		return &Selection{
			Value:   ranked[0].Value,
			Weight:  ranked[0].Weight,
			Quality: ranked[0].Weight,
		}, nil
	}

	terms, err := ParseHeader(rawHeader)
	if err != nil {
		return nil, err
	}
	for i := range terms {
		terms[i].Value = n.kind.Normalize(terms[i].Value)
	}
	terms = n.kind.Coalesce(terms)

	// The first declared wildcard is the fallback for offers no explicit
	// term covers.
	var wild *Term
	for i := range terms {
		if terms[i].Value == n.kind.Wildcard() {
			wild = &terms[i]
			break
		}
	}

	type scored struct {
		offer    Offer
		product  int64 // weight x term quality, exact in millionths
		position int
		explicit bool
	}
	survivors := make([]scored, 0, len(ranked))
	for _, offer := range ranked {
		candidate := n.kind.Normalize(offer.Value)

		// Exact term match first, in declaration order; then the kind's
		// richer predicate (media-type ranges); then the wildcard. An offer
		// no term accepts is excluded outright, not merely zero-rated.
		var matched *Term
		for i := range terms {
			if terms[i].Value == candidate {
				matched = &terms[i]
				break
			}
		}
		if matched == nil {
			for i := range terms {
				t := &terms[i]
				if t.Value == n.kind.Wildcard() {
					continue
				}
				if n.kind.Matches(t.Value, candidate) {
					matched = t
					break
				}
			}
		}
		if matched == nil {
			matched = wild
		}
		if matched == nil {
			continue
		}

		product := int64(offer.Weight) * int64(matched.Quality)
		if product == 0 {
			// An explicit q=0 rejects the offer even though a term matched.
			continue
		}
		survivors = append(survivors, scored{
			offer:    offer,
			product:  product,
			position: matched.Position,
			explicit: matched.Explicit,
		})
	}

	if len(survivors) == 0 {
		return nil, &NotAcceptableError{Header: rawHeader, Available: identifiers(available)}
	}

	// Rank by descending negotiated quality; ties go to the term declared
	// earlier in the header. Remaining ties keep the availability rank
	// order from the stable sort above.
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].product != survivors[j].product {
			return survivors[i].product > survivors[j].product
		}
		return survivors[i].position < survivors[j].position
	})

	best := survivors[0]
	return &Selection{
		Value:    best.offer.Value,
		Weight:   best.offer.Weight,
		Quality:  roundedQuality(best.product),
		Position: best.position,
		Explicit: best.explicit,
	}, nil
}

// roundedQuality reduces an exact millionths product to thousandths for
// display. A nonzero product never rounds to zero: the offer survived the
// zero-quality filter, so its reported quality must not claim otherwise.
func roundedQuality(product int64) QValue {
	q := QValue((product + 500) / 1000)
	if q == 0 && product > 0 {
		q = 1
	}
	return q
}

func identifiers(available []Offer) []string {
	ids := make([]string, len(available))
	for i, o := range available {
		ids[i] = o.Value
	}
	return ids
}
