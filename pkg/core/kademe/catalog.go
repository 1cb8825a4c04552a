// Package kademe normalizes the per-tier (kademe) configuration of a school:
// which education stages are offered and which grades each one spans.
package kademe

import (
	"strconv"
	"strings"

	"school_budget/pkg/core/calc"
)

// Grade ordering used for every range comparison.
var gradeOrder = [...]string{"KG", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

// Definition is one entry of the static tier catalog.
type Definition struct {
	Key         string
	Label       string
	DefaultFrom string
	DefaultTo   string
}

var catalog = [...]Definition{
	{Key: "okulOncesi", Label: "Okul Öncesi", DefaultFrom: "KG", DefaultTo: "KG"},
	{Key: "ilkokul", Label: "İlkokul", DefaultFrom: "1", DefaultTo: "4"},
	{Key: "ortaokul", Label: "Ortaokul", DefaultFrom: "5", DefaultTo: "8"},
	{Key: "lise", Label: "Lise", DefaultFrom: "9", DefaultTo: "12"},
}

// Catalog returns the tier definitions in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup returns the definition for a tier key, ignoring case, Turkish letters
// and punctuation ("İlkokul", "okul öncesi").
func Lookup(key string) (Definition, bool) {
	key = calc.NormalizeKey(key)
	for _, def := range catalog {
		if calc.NormalizeKey(def.Key) == key {
			return def, true
		}
	}
	return Definition{}, false
}

// TierOf maps a tuition variant key ("ilkokul-int", "lise_yerel") to its tier key.
func TierOf(variantKey string) (string, bool) {
	base := strings.TrimSpace(variantKey)
	if i := strings.IndexAny(base, "-_/ "); i >= 0 {
		base = base[:i]
	}
	def, ok := Lookup(base)
	if !ok {
		return "", false
	}
	return def.Key, true
}

// NormalizeGrade returns the canonical grade identifier ("KG", "1".."12").
func NormalizeGrade(raw string) (string, bool) {
	g := strings.ToUpper(strings.TrimSpace(raw))
	if g == "KG" {
		return g, true
	}
	n, err := strconv.Atoi(g)
	if err != nil || n < 1 || n > 12 {
		return "", false
	}
	return strconv.Itoa(n), true
}

// GradeIndex returns the position of a canonical grade in the ordering, or -1.
func GradeIndex(grade string) int {
	for i, g := range gradeOrder {
		if g == grade {
			return i
		}
	}
	return -1
}
