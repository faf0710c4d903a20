package negotiation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// QValue is a quality value in thousandths (RFC 2616 qvalues carry at most
// three decimal digits, so thousandths are exact). Scaled integers keep
// comparison and combination deterministic; parsing a qvalue through float64
// would make tie-breaking depend on rounding.
// Valid protocol values are 0..1000; out-of-range values only occur as
// caller-supplied weights on their way to validation.
type QValue int32

// QualityMax is a quality of 1.0.
const QualityMax QValue = 1000

// ParseQValue parses a qvalue per the RFC 2616 grammar: a decimal number
// with at most three digits after the point. Numeric values above 1 clamp to
// 1; anything non-numeric, or with more than three decimal digits, is an
// error. Clamping instead of rejecting overrange numbers matches how lenient
// clients are handled in the wild, but a syntactically broken qvalue must
// not silently become "acceptable".
func ParseQValue(s string) (QValue, error) {
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}
	if intPart == "" && frac == "" {
		return 0, fmt.Errorf("empty quality value")
	}
	if !allDigits(intPart) || !allDigits(frac) {
		return 0, fmt.Errorf("quality %q is not a decimal number", s)
	}
	if len(frac) > 3 {
		return 0, fmt.Errorf("quality %q has more than 3 decimal digits", s)
	}

	whole := 0
	for i := 0; i < len(intPart); i++ {
		whole = whole*10 + int(intPart[i]-'0')
		if whole > 1 {
			return QualityMax, nil
		}
	}

	millis := whole * 1000
	for i := 0; i < len(frac); i++ {
		millis += int(frac[i]-'0') * pow10[i]
	}
	if millis > int(QualityMax) {
		millis = int(QualityMax)
	}
	return QValue(millis), nil
}

var pow10 = [3]int{100, 10, 1}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// QValueFromFloat converts a decimal weight (e.g. from an RFC 8941
// structured field) to thousandths, rounding to nearest. Out-of-range
// inputs convert without clamping so that weight validation can still name
// the offending value.
func QValueFromFloat(f float64) QValue {
	m := math.Round(f * 1000)
	switch {
	case m > math.MaxInt32:
		return math.MaxInt32
	case m < math.MinInt32:
		return math.MinInt32
	}
	return QValue(m)
}

// String renders the qvalue the way it appears on the wire: "1", "0.5",
// "0.001". Trailing zeros in the fraction are dropped.
func (q QValue) String() string {
	v := int(q)
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	whole, frac := v/1000, v%1000
	if frac == 0 {
		return sign + strconv.Itoa(whole)
	}
	s := fmt.Sprintf("%d.%03d", whole, frac)
	return sign + strings.TrimRight(s, "0")
}
