package negotiation

import (
	"strings"

	"golang.org/x/text/language"
)

// Kind names accepted by ForKind.
const (
	KindCharset   = "charset"
	KindEncoding  = "encoding"
	KindLanguage  = "language"
	KindMediaType = "mediatype"
)

// DefaultCharset is treated as acceptable with quality 1 whenever the header
// names neither it nor a wildcard, per RFC 2616 Section 14.2.
const DefaultCharset = "iso-8859-1"

// IdentityEncoding is the always-acceptable content coding of RFC 2616
// Section 14.3, unless the header explicitly refuses it.
const IdentityEncoding = "identity"

// NewCharset creates a charset negotiator: case-insensitive tokens, "*"
// wildcard, implicit iso-8859-1.
func NewCharset() *Negotiator { return New(charsetKind{}) }

// NewEncoding creates a content-coding negotiator: case-insensitive tokens,
// "*" wildcard, implicit identity.
func NewEncoding() *Negotiator { return New(encodingKind{}) }

// NewLanguage creates a language-tag negotiator. Tags are canonicalized per
// BCP 47, so "en-us" and "EN-US" compare equal; there is no implicit
// default term.
func NewLanguage() *Negotiator { return New(languageKind{}) }

// NewMediaType creates a media-type negotiator. The wildcard is "*/*" and
// "type/*" ranges match any subtype of that type. Media-type parameters are
// never matched.
func NewMediaType() *Negotiator { return New(mediatypeKind{}) }

type charsetKind struct{}

func (charsetKind) Name() string { return KindCharset }
func (charsetKind) Normalize(v string) string { return strings.ToLower(v) }
func (charsetKind) Wildcard() string { return "*" }
func (charsetKind) Matches(t, c string) bool { return t == c }
func (charsetKind) Coalesce(terms []Term) []Term {
	return coalesceDefault(terms, DefaultCharset, "*")
}

type encodingKind struct{}

func (encodingKind) Name() string { return KindEncoding }
func (encodingKind) Normalize(v string) string { return strings.ToLower(v) }
func (encodingKind) Wildcard() string { return "*" }
func (encodingKind) Matches(t, c string) bool { return t == c }
func (encodingKind) Coalesce(terms []Term) []Term {
	return coalesceDefault(terms, IdentityEncoding, "*")
}

// coalesceDefault appends an implicit term for def with quality 1 at the
// next free position, unless the header already names def or the wildcard.
// An explicit mention, even q=0, suppresses the implicit term so the client
// can refuse the default.
func coalesceDefault(terms []Term, def, wildcard string) []Term {
	for _, t := range terms {
		if t.Value == def || t.Value == wildcard {
			return terms
		}
	}
	return append(terms, Term{Position: nextPosition(terms), Value: def, Quality: QualityMax})
}

type languageKind struct{}

func (languageKind) Name() string { return KindLanguage }

// Normalize canonicalizes a language tag per BCP 47 ("en-us" -> "en-US").
// Both header terms and offers go through this, so matching stays exact.
// Unparsable tags fall back to plain lowercasing.
func (languageKind) Normalize(v string) string {
	if v == "*" {
		return v
	}
	if tag, err := language.Parse(v); err == nil {
		return tag.String()
	}
	return strings.ToLower(v)
}

func (languageKind) Wildcard() string { return "*" }
func (languageKind) Matches(t, c string) bool { return t == c }
func (languageKind) Coalesce(terms []Term) []Term { return terms }

type mediatypeKind struct{}

func (mediatypeKind) Name() string { return KindMediaType }
func (mediatypeKind) Normalize(v string) string { return strings.ToLower(v) }
func (mediatypeKind) Wildcard() string { return "*/*" }
func (mediatypeKind) Coalesce(terms []Term) []Term { return terms }

// Matches accepts an exact media type or a "type/*" range covering the
// candidate's type. The full wildcard is handled by the pipeline.
func (mediatypeKind) Matches(t, c string) bool {
	if t == c {
		return true
	}
	if major, ok := strings.CutSuffix(t, "/*"); ok {
		cmajor, _, found := strings.Cut(c, "/")
		return found && cmajor == major
	}
	return false
}
