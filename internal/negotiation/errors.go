package negotiation

import (
	"fmt"
	"strings"
)

// InvalidAvailabilityError reports a server-configuration defect: the
// supplied availability is empty, names an empty identifier, or carries a
// weight outside (0, 1]. It is raised before the header is parsed and is
// never retryable.
type InvalidAvailabilityError struct {
	Value  string // offending identifier, empty when the whole set is at fault
	Weight QValue
	Reason string
}

func (e *InvalidAvailabilityError) Error() string {
	if e.Value == "" {
		return "invalid availability: " + e.Reason
	}
	return fmt.Sprintf("invalid availability: %s for %q", e.Reason, e.Value)
}

// MalformedHeaderError reports a client header that cannot be parsed into
// valid terms, typically a broken qvalue. Treated as a client error;
// propagating a bad header as "anything is acceptable" would be unsafe.
type MalformedHeaderError struct {
	Header  string
	Segment string
	Reason  string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header %q: segment %q: %s", e.Header, e.Segment, e.Reason)
}

// NotAcceptableError reports that parsing succeeded but no available
// representation satisfies any header term with nonzero quality. The message
// enumerates the rejected header and everything the server had on offer, for
// diagnostics; callers map it to a 406-class response.
type NotAcceptableError struct {
	Header    string
	Available []string
}

func (e *NotAcceptableError) Error() string {
	return fmt.Sprintf("no acceptable representation for header %q; available: %s",
		e.Header, strings.Join(e.Available, ", "))
}
