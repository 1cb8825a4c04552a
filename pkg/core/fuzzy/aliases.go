// Package fuzzy recovers per-category quantities (meal, uniform, book, transport)
// from free-text fee and service rows. Labels are typed by different country
// offices in different conventions, so exact-key lookups would drop real data.
package fuzzy

// Category is one ancillary service category.
type Category string

const (
	Meal      Category = "meal"
	Uniform   Category = "uniform"
	Book      Category = "book"
	Transport Category = "transport"
)

// Categories returns the categories in resolution order.
func Categories() []Category {
	return []Category{Meal, Uniform, Book, Transport}
}

// Aliases returns the canonical alias list of a category. A fresh slice is
// returned on every call.
func Aliases(c Category) []string {
	switch c {
	case Meal:
		return []string{"yemek", "öğle yemeği", "yemek ücreti", "beslenme", "kantin", "meal", "meals", "lunch", "catering", "food"}
	case Uniform:
		return []string{"üniforma", "forma", "kıyafet", "okul kıyafeti", "uniform", "uniforms", "dress code"}
	case Book:
		return []string{"kitap", "ders kitabı", "kırtasiye", "yayın", "book", "books", "textbook", "stationery"}
	case Transport:
		return []string{"servis", "ulaşım", "okul servisi", "transport", "transportation", "bus", "shuttle"}
	}
	return nil
}
