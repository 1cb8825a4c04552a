// Package performance compares the prior year's planned figures with what was
// actually realized.
package performance

import (
	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/currency"
	"school_budget/pkg/models"
)

// Metric keys, in display order.
const (
	MetricStudents  = "students"
	MetricIncome    = "income"
	MetricExpenses  = "expenses"
	MetricProfit    = "profit"
	MetricDiscounts = "discounts"
)

// Planned holds the prior-year report's figures, already in reporting currency.
type Planned struct {
	Students  *float64 `json:"students"`
	Income    *float64 `json:"income"`
	Expenses  *float64 `json:"expenses"`
	Profit    *float64 `json:"profit"`
	Discounts *float64 `json:"discounts"`
}

// Row is one planned-vs-actual line.
type Row struct {
	Metric   string   `json:"metric"`
	Label    string   `json:"label"`
	Planned  *float64 `json:"planned"`
	Actual   *float64 `json:"actual"`
	Variance *float64 `json:"variance"`
}

// Variance is (actual - planned) / planned. nil when either side is unknown or
// planned is zero.
func Variance(planned, actual *float64) *float64 {
	if planned == nil || actual == nil || *planned == 0 {
		return nil
	}
	return calc.SafeDiv(*actual-*planned, *planned)
}

// Profit derives income - expenses when both are known, else falls back to the
// stored figure. The two are never blended.
func Profit(income, expenses, stored *float64) *float64 {
	if income != nil && expenses != nil {
		p := *income - *expenses
		if calc.IsFinite(p) {
			return &p
		}
	}
	return stored
}

// Actuals converts realized figures through the performance currency path.
// Student counts are not monetary and are never converted.
func Actuals(p models.RealizedPerformance, conv currency.Converter) Planned {
	money := func(v calc.OptNum) *float64 {
		if !v.Set {
			return nil
		}
		return conv.ToReportingForPerformance(v.Value)
	}
	a := Planned{
		Students:  p.Students.Ptr(),
		Income:    money(p.Income),
		Expenses:  money(p.Expenses),
		Discounts: money(p.Discounts),
	}
	a.Profit = Profit(a.Income, a.Expenses, money(p.Profit))
	return a
}

// Analyze builds the variance rows. planned may be nil when there is no prior
// report; every variance is then nil.
func Analyze(planned *Planned, actual Planned) []Row {
	var p Planned
	if planned != nil {
		p = *planned
		p.Profit = Profit(p.Income, p.Expenses, p.Profit)
	}
	return []Row{
		row(MetricStudents, "Öğrenci Sayısı", p.Students, actual.Students),
		row(MetricIncome, "Gelirler", p.Income, actual.Income),
		row(MetricExpenses, "Giderler", p.Expenses, actual.Expenses),
		row(MetricProfit, "Kâr / Zarar", p.Profit, actual.Profit),
		row(MetricDiscounts, "Burs ve İndirimler", p.Discounts, actual.Discounts),
	}
}

func row(metric, label string, planned, actual *float64) Row {
	return Row{
		Metric:   metric,
		Label:    label,
		Planned:  finite(planned),
		Actual:   finite(actual),
		Variance: Variance(finite(planned), finite(actual)),
	}
}

func finite(p *float64) *float64 {
	if p == nil || !calc.IsFinite(*p) {
		return nil
	}
	v := *p
	return &v
}
