// Package calc provides the numeric and text primitives shared by every stage of the
// report builder: lenient number decoding, guarded division, clamping and label
// normalization for fuzzy matching.
package calc

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// =============================================================================
// LENIENT INPUT TYPES
// Scenario files are hand-edited by country offices, so every numeric field may
// arrive as a number, a localized string ("1.250,50", "%12"), null or garbage.
// =============================================================================

// Num is a number that coerces anything non-numeric to 0.
type Num float64

// Float returns the value as float64.
func (n Num) Float() float64 { return float64(n) }

func (n *Num) UnmarshalJSON(b []byte) error {
	v, _ := decodeLenient(b)
	*n = Num(v)
	return nil
}

// OptNum is a number whose presence matters (e.g. an explicit beneficiary count).
// null, "" and non-numeric strings leave it unset.
type OptNum struct {
	Value float64
	Set   bool
}

// Some returns a set OptNum.
func Some(v float64) OptNum { return OptNum{Value: v, Set: true} }

// Ptr returns nil when unset.
func (o OptNum) Ptr() *float64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// Or returns the value, or def when unset.
func (o OptNum) Or(def float64) float64 {
	if !o.Set {
		return def
	}
	return o.Value
}

func (o *OptNum) UnmarshalJSON(b []byte) error {
	v, ok := decodeLenient(b)
	*o = OptNum{Value: v, Set: ok}
	return nil
}

func (o OptNum) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Text is a string that also accepts numbers and booleans ("from": 5).
type Text string

func (t Text) String() string { return string(t) }

func (t *Text) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*t = ""
		return nil
	}
	switch v := raw.(type) {
	case string:
		*t = Text(v)
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(v))
	default:
		*t = ""
	}
	return nil
}

// Flag is a tri-state boolean: unset, true or false.
type Flag struct {
	Value bool
	Set   bool
}

// IsFalse reports whether the flag was explicitly set to false.
func (f Flag) IsFalse() bool { return f.Set && !f.Value }

func (f *Flag) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		*f = Flag{}
		return nil
	}
	switch v := raw.(type) {
	case bool:
		*f = Flag{Value: v, Set: true}
	case float64:
		*f = Flag{Value: v != 0, Set: true}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "evet", "on":
			*f = Flag{Value: true, Set: true}
		case "false", "0", "no", "hayir", "hayır", "off":
			*f = Flag{Value: false, Set: true}
		default:
			*f = Flag{}
		}
	default:
		*f = Flag{}
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func decodeLenient(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, false
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, false
	}
	return ParseAny(raw)
}

// =============================================================================
// COERCION
// =============================================================================

// ToFloat coerces any JSON-compatible value to a finite float64, 0 otherwise.
func ToFloat(v interface{}) float64 {
	f, _ := ParseAny(v)
	return f
}

// ParseAny converts v to a finite float64 and reports whether v was numeric.
func ParseAny(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case Num:
		f = float64(x)
	case OptNum:
		if !x.Set {
			return 0, false
		}
		f = x.Value
	case string:
		return ParseNumber(x)
	default:
		return 0, false
	}
	if !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// ParseNumber parses a human-entered number. Both "1.250,50" and "1,250.50" are
// accepted; currency symbols, units, percent signs and spaces are ignored. A
// single separator followed by exactly three digits groups thousands, so
// "10.000" and "10,000" are both 10000, while "0.125" stays a fraction.
func ParseNumber(s string) (float64, bool) {
	runes := []rune(strings.TrimSpace(s))
	var sb strings.Builder
	for i, r := range runes {
		switch {
		case unicode.IsDigit(r), r == '.', r == ',', r == '-', r == '+':
			sb.WriteRune(r)
		case (r == 'e' || r == 'E') && isExponent(runes, i):
			sb.WriteRune(r)
		}
	}
	cleaned := sb.String()
	if cleaned == "" || strings.Trim(cleaned, "+-.,eE") == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") == 1 && !groupsThousands(cleaned, lastComma) {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	case lastDot >= 0 && groupsThousands(cleaned, lastDot):
		cleaned = strings.Replace(cleaned, ".", "", 1)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || !IsFinite(f) {
		return 0, false
	}
	return f, true
}

// isExponent reports whether the e at i sits between a digit and a (signed)
// digit, as in "1.5e3" or "2E-4".
func isExponent(runes []rune, i int) bool {
	if i == 0 || i+1 >= len(runes) || !unicode.IsDigit(runes[i-1]) {
		return false
	}
	next := i + 1
	if runes[next] == '+' || runes[next] == '-' {
		next++
	}
	return next < len(runes) && unicode.IsDigit(runes[next])
}

// groupsThousands reports whether the separator at sep is followed by exactly
// three digits and preceded by a non-zero integer part.
func groupsThousands(s string, sep int) bool {
	frac := s[sep+1:]
	if len(frac) != 3 || strings.Trim(frac, "0123456789") != "" {
		return false
	}
	return strings.Trim(s[:sep], "+-0") != ""
}

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
