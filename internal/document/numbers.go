package document

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a locale-formatted financial string into a signed
// float. nil and empty input return nil, as does anything that is not a
// valid numeric literal after cleanup. Callers must treat nil as "cannot
// validate", never as zero.
func ParseNumber(v *FlexString) *float64 {
	if v == nil || *v == "" {
		return nil
	}

	// Strip thousands separators and whitespace
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, string(*v))

	// Accountants write negatives in parentheses: (123.45) -> -123.45
	if len(cleaned) > 2 && cleaned[0] == '(' && cleaned[len(cleaned)-1] == ')' {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FormatNumber renders a float with thousands separators and no decimals,
// for human-readable report messages
func FormatNumber(f float64) string {
	n := int64(math.Round(f))
	negative := n < 0
	if negative {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
