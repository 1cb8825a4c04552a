package fuzzy

import (
	"strings"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/models"
)

// Accessor reads one value out of a free-form row.
type Accessor[T any] func(models.Row) (T, bool)

// Field names tried in order; the first defined value wins.
var (
	labelAccessors = []Accessor[string]{
		textField("name"), textField("label"), textField("title"),
		textField("category"), textField("kalem"), textField("ad"), textField("key"),
	}
	countAccessors = []Accessor[float64]{
		numField("studentCount"), numField("count"), numField("students"),
		numField("ogrenciSayisi"), numField("quantity"), numField("qty"), numField("adet"),
	}
	unitAccessors = []Accessor[float64]{
		numField("unitFee"), numField("unitCost"), numField("unitPrice"),
		numField("birimUcret"), numField("fee"), numField("price"),
	}
	amountAccessors = []Accessor[float64]{
		numField("amount"), numField("total"), numField("tutar"), numField("value"),
	}
)

func textField(key string) Accessor[string] {
	return func(row models.Row) (string, bool) {
		raw, ok := row[key]
		if !ok || raw == nil {
			return "", false
		}
		s, ok := raw.(string)
		if !ok {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}
}

func numField(key string) Accessor[float64] {
	return func(row models.Row) (float64, bool) {
		raw, ok := row[key]
		if !ok {
			return 0, false
		}
		return calc.ParseAny(raw)
	}
}

func first[T any](row models.Row, accessors []Accessor[T]) (T, bool) {
	bound := make([]func() (T, bool), len(accessors))
	for i, get := range accessors {
		get := get
		bound[i] = func() (T, bool) { return get(row) }
	}
	return calc.FirstDefined(bound...)
}

// LabelOf returns the row's label, or "".
func LabelOf(row models.Row) string {
	v, _ := first(row, labelAccessors)
	return v
}

// CountOf returns the row's declared quantity.
func CountOf(row models.Row) (float64, bool) {
	return first(row, countAccessors)
}

// UnitOf returns the row's per-student fee or cost.
func UnitOf(row models.Row) (float64, bool) {
	return first(row, unitAccessors)
}

// AmountOf returns the row's total: an explicit amount, else unit × count.
func AmountOf(row models.Row) float64 {
	if v, ok := first(row, amountAccessors); ok {
		return v
	}
	unit, okUnit := UnitOf(row)
	count, okCount := CountOf(row)
	if okUnit && okCount {
		return unit * count
	}
	if okUnit {
		return unit
	}
	return 0
}
