package volby

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The feed emits integers as plain digit strings but floats with either a
// dot or a comma decimal separator depending on the upstream locale.
func normalizeDecimal(value string) string {
	return strings.ReplaceAll(value, ",", ".")
}

// parseOptionalFloat converts attribute text into an optional float.
// Empty text and unparsable text both yield nil; it never fails.
func parseOptionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(normalizeDecimal(value), 64)
	if err != nil {
		return nil
	}
	return floatPtr(f)
}

// parseOptionalInt converts attribute text into an optional integer.
// Empty text yields nil. Text that is not a plain integer is retried as a
// comma-normalized float and truncated; if that fails too the value is
// treated as missing data rather than an error.
func parseOptionalInt(value string) *int {
	n, ok := parseIntValue(value)
	if !ok {
		return nil
	}
	return n
}

// parseOptionalIntStrict is the hard-failure variant used by region-results
// extraction, where a malformed numeric must abort the extraction instead of
// silently skewing aggregate totals. attr names the source attribute for the
// error message.
func parseOptionalIntStrict(attr, value string) (*int, error) {
	n, ok := parseIntValue(value)
	if !ok {
		return nil, &NumericError{Attr: attr, Value: value}
	}
	return n, nil
}

func parseIntValue(value string) (*int, bool) {
	if value == "" {
		return nil, true
	}
	if n, err := strconv.Atoi(value); err == nil {
		return intPtr(n), true
	}
	f, err := strconv.ParseFloat(normalizeDecimal(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return intPtr(int(f)), true
}

// asciiFolder strips combining marks so that accented Czech letters
// collapse onto their ASCII base (ň -> n, í -> i).
var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeIdentifier converts human-readable region names into a
// predictable ASCII slug suitable for file names and lookups.
// "Hlavní město Praha" becomes "hlavni_mesto_praha".
func NormalizeIdentifier(input string) string {
	if folded, _, err := transform.String(asciiFolder, input); err == nil {
		input = folded
	}

	var b strings.Builder
	lastUnderscore := false

	for _, r := range strings.ToLower(input) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_' || unicode.IsSpace(r) || r == '-' || r == '/':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			// Skip other punctuation.
		}
	}

	out := b.String()
	out = strings.Trim(out, "_")
	out = strings.ReplaceAll(out, "__", "_")
	return out
}

func intPtr(v int) *int {
	p := new(int)
	*p = v
	return p
}

func floatPtr(v float64) *float64 {
	p := new(float64)
	*p = v
	return p
}
