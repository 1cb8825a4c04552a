// Package discount plans beneficiary counts and costs for the catalogued
// scholarship and discount types.
package discount

import "school_budget/pkg/core/calc"

// Group separates scholarships from other discounts in expense aggregation.
type Group string

const (
	Scholarship Group = "scholarship"
	Discount    Group = "discount"
)

// Entry is one catalogued discount or scholarship type.
type Entry struct {
	Key   string
	Name  string
	Group Group
}

// Display order. Group is explicit per entry.
var catalog = [...]Entry{
	{Key: "MAGIS_BASARI", Name: "Magis Başarı Bursu", Group: Scholarship},
	{Key: "MAARIF_YETENEK", Name: "Maarif Yetenek Bursu", Group: Scholarship},
	{Key: "IHTIYAC", Name: "İhtiyaç Bursu", Group: Scholarship},
	{Key: "OKUL_BASARI", Name: "Okul Başarı Bursu", Group: Scholarship},
	{Key: "TAM_EGITIM", Name: "Tam Eğitim Bursu", Group: Scholarship},
	{Key: "BARINMA", Name: "Barınma Bursu", Group: Scholarship},
	{Key: "TURKCE_BASARI", Name: "Türkçe Başarı Bursu", Group: Scholarship},
	{Key: "VAKIF_CALISANI", Name: "Vakıf Çalışanı İndirimi", Group: Discount},
	{Key: "KARDES", Name: "Kardeş İndirimi", Group: Discount},
	{Key: "ERKEN_KAYIT", Name: "Erken Kayıt İndirimi", Group: Discount},
	{Key: "PESIN_ODEME", Name: "Peşin Ödeme İndirimi", Group: Discount},
	{Key: "KADEME_GECIS", Name: "Kademe Geçiş İndirimi", Group: Discount},
	{Key: "TEMSIL", Name: "Temsil İndirimi", Group: Discount},
	{Key: "KURUM", Name: "Kurum İndirimi", Group: Discount},
	{Key: "ISTISNAI", Name: "İstisnai İndirim", Group: Discount},
	{Key: "YEREL_MEVZUAT", Name: "Yerel Mevzuat İndirimi", Group: Discount},
}

// Catalog returns the 16 entries in display order.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup finds a catalog entry by normalized display name or key.
func Lookup(name string) (Entry, bool) {
	want := calc.NormalizeKey(name)
	if want == "" {
		return Entry{}, false
	}
	for _, e := range catalog {
		if calc.NormalizeKey(e.Name) == want || calc.NormalizeKey(e.Key) == want {
			return e, true
		}
	}
	return Entry{}, false
}
