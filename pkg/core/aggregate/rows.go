// Package aggregate rolls tuition, fees, dormitory, other income and every cost
// category up into named, ratio-annotated revenue and expense rows.
package aggregate

import (
	"math"

	"school_budget/pkg/core/calc"
)

// AmountRow is one named line with its share of the group total.
type AmountRow struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Amount float64  `json:"amount"`
	Ratio  *float64 `json:"ratio"`
}

// Group is a set of rows and their total.
type Group struct {
	Rows  []AmountRow `json:"rows"`
	Total float64     `json:"total"`
}

// Amount returns a row's amount by key, 0 when absent.
func (g Group) Amount(key string) float64 {
	for _, r := range g.Rows {
		if r.Key == key {
			return r.Amount
		}
	}
	return 0
}

// Overrides are authoritative figures from an earlier "calculate" step for the
// same scenario. When present they win over local computation.
type Overrides struct {
	Revenues       map[string]float64 `json:"revenues,omitempty"`
	Expenses       map[string]float64 `json:"expenses,omitempty"`
	TotalRevenue   *float64           `json:"totalRevenue,omitempty"`
	TotalExpense   *float64           `json:"totalExpense,omitempty"`
	AverageTuition *float64           `json:"averageTuition,omitempty"`
	TotalStudents  *float64           `json:"totalStudents,omitempty"`
}

func (o *Overrides) revenue(key string) *float64 {
	if o == nil {
		return nil
	}
	return lookup(o.Revenues, key)
}

func (o *Overrides) expense(key string) *float64 {
	if o == nil {
		return nil
	}
	return lookup(o.Expenses, key)
}

func lookup(m map[string]float64, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	return &v
}

type rowDef struct {
	key   string
	label string
}

// buildGroup resolves each amount against its override, then annotates every
// row with amount / total. Ratios are nil when the total is zero or non-finite.
func buildGroup(defs []rowDef, computed map[string]float64, override func(string) *float64, totalOverride *float64) Group {
	g := Group{Rows: make([]AmountRow, 0, len(defs))}
	amounts := make([]float64, 0, len(defs))
	for _, d := range defs {
		amount := calc.Resolve(override(d.key), computed[d.key])
		if !calc.IsFinite(amount) {
			amount = 0
		}
		amounts = append(amounts, amount)
		g.Rows = append(g.Rows, AmountRow{Key: d.key, Label: d.label, Amount: amount})
	}
	g.Total = calc.Resolve(totalOverride, calc.Sum(amounts...))
	if math.IsNaN(g.Total) {
		g.Total = 0
	}
	for i := range g.Rows {
		g.Rows[i].Ratio = calc.SafeDiv(g.Rows[i].Amount, g.Total)
	}
	return g
}
