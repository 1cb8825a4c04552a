package calc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Turkish letters that do not decompose into ASCII + combining mark.
var localeReplacer = strings.NewReplacer(
	"ı", "i", "İ", "i", "I", "i",
	"ş", "s", "Ş", "s",
	"ğ", "g", "Ğ", "g",
	"ç", "c", "Ç", "c",
	"ö", "o", "Ö", "o",
	"ü", "u", "Ü", "u",
	"â", "a", "Â", "a",
	"î", "i", "Î", "i",
	"û", "u", "Û", "u",
	"ß", "ss", "æ", "ae", "ø", "o", "đ", "d", "ł", "l",
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	nonWord       = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	nonAlnum      = regexp.MustCompile(`[^A-Z0-9]+`)
)

// StripDiacritics removes combining marks after canonical decomposition.
// A new transformer is built per call; transform chains carry internal state.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeText prepares a free-text label for fuzzy comparison:
// "Öğrenci Servis Ücreti (Aylık)" -> "ogrenci servis ucreti".
func NormalizeText(s string) string {
	s = localeReplacer.Replace(s)
	s = StripDiacritics(s)
	s = strings.ToLower(s)
	s = parenthetical.ReplaceAllString(s, " ")
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey builds an exact-match key: "Kardeş İndirimi" -> "KARDESINDIRIMI".
func NormalizeKey(s string) string {
	s = localeReplacer.Replace(s)
	s = StripDiacritics(s)
	s = strings.ToUpper(s)
	return nonAlnum.ReplaceAllString(s, "")
}
