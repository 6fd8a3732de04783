package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// null-like sentinels providers use for "no value". Compared after trimming
// and case-folding.
var nullSentinels = map[string]bool{
	"":     true,
	"-":    true,
	"--":   true,
	"—":    true,
	"n/a":  true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
}

// ParseNumber converts a raw provider value into a float. The second return
// is false when the value is absent, a null sentinel, or unparseable; a bad
// string is "field absent", never an error.
//
// String handling: every character that is not a digit, sign, comma or dot is
// stripped first (currency markers, percent signs, spaces). A comma is a
// decimal separator only when it is the last separator in the string and is
// followed by at most two digits; otherwise commas are thousands separators
// and are removed.
func ParseNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		return parseNumericString(v)
	default:
		return 0, false
	}
}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if nullSentinels[strings.ToLower(s)] {
		return 0, false
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case (r == '-' || r == '+') && i == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "+" {
		return 0, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	if lastComma >= 0 {
		digitsAfter := len(cleaned) - lastComma - 1
		if lastComma > lastDot && digitsAfter <= 2 {
			// Decimal comma: "12,5" or "1.234,56". Dots left of it are
			// thousands separators.
			cleaned = strings.ReplaceAll(cleaned[:lastComma], ".", "") + "." + cleaned[lastComma+1:]
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			// Thousands commas: "1,234" or "1,234.56".
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
