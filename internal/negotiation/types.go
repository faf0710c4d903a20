// Package negotiation implements server-driven content negotiation for
// Accept-Charset and analogous headers per RFC 2616 Section 14.
// Pure computation: callers supply a raw header value and the set of
// representations the server can produce, and get back the identifier of the
// best match. No transport, no I/O, no state between calls; a Negotiator is
// safe for concurrent use.
package negotiation

// Term is one parsed preference entry from an Accept-* header.
// Terms are ordered by declaration: Position is the zero-based index of the
// entry in the header, and later tie-breaking relies on it. A negotiation
// pass may synthesize extra terms (the implicit iso-8859-1 charset, the
// implicit identity encoding); those take the next position after the parsed
// ones.
type Term struct {
	Position int
	Value    string
	Quality  QValue

	// Explicit records whether the term carried a ";q=" parameter.
	// A term that defaulted to quality 1 is distinguishable from one that
	// stated q=1, because some negotiators rank explicit preferences ahead
	// of defaulted ones.
	Explicit bool
}

// Offer is one representation the server can produce, with its intrinsic
// preference weight. Weight must be in (0, 1]; Negotiate rejects anything
// else before looking at the header.
//
// Availability is an ordered slice rather than a map: when two offers carry
// equal weight the one supplied first wins, and a Go map would lose that
// order.
type Offer struct {
	Value  string
	Weight QValue
}

// Selection is the full outcome of a successful negotiation.
type Selection struct {
	// Value is the chosen identifier, always one of the supplied offers
	// (verbatim, not case-normalized).
	Value string

	// Weight is the chosen offer's intrinsic server-side weight.
	Weight QValue

	// Quality is the negotiated quality: the offer's weight combined with
	// the matched term's header quality, rounded to thousandths.
	Quality QValue

	// Position and Explicit are carried over from the matched header term.
	Position int
	Explicit bool
}
