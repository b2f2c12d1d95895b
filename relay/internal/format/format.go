// Package format holds the cosmetic transforms applied while building
// destination aggregates. Every function is total: input that cannot be
// improved is returned in a reasonable form rather than rejected.
package format

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"time"
)

// Phone reduces a phone number to +<digits>. Ten-digit numbers get the
// NANP country code; eleven digits with a leading 1 keep it. Anything
// else is returned as bare digits, since guessing a country is worse
// than passing it through.
func Phone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case d == "":
		return ""
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	case strings.HasPrefix(strings.TrimSpace(s), "+"):
		return "+" + d
	default:
		return d
	}
}

// Name title-cases a personal name, keeping hyphenated and apostrophe
// segments capitalized ("mary-jane o'brien" -> "Mary-Jane O'Brien").
func Name(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '\'':
			b.WriteRune(r)
			startOfWord = true
		case startOfWord:
			b.WriteString(strings.ToUpper(string(r)))
			startOfWord = false
		default:
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return b.String()
}

// Timestamp layouts accepted from upstream systems, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders an upstream timestamp as RFC3339 UTC for display.
// Accepts epoch milliseconds (any numeric type) or the string layouts
// above. Unparseable input comes back unchanged as a string.
func Date(v interface{}) string {
	if n, ok := epochMillis(v); ok {
		return time.UnixMilli(n).UTC().Format(time.RFC3339)
	}

	s, ok := v.(string)
	if !ok {
		return stringify(v)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return s
}

func epochMillis(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup from CRM note bodies: tags dropped, entities
// decoded, whitespace collapsed.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
