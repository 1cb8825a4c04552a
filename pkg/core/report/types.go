// Package report assembles every computed table into one ReportModel.
//
// Build is a pure function of its Input. Every slice and map in the result is
// allocated per call.
package report

import (
	"school_budget/pkg/core/aggregate"
	"school_budget/pkg/core/currency"
	"school_budget/pkg/core/discount"
	"school_budget/pkg/core/kademe"
	"school_budget/pkg/core/performance"
	"school_budget/pkg/core/tuition"
	"school_budget/pkg/models"
)

// Input is everything one build consumes.
type Input struct {
	Scenario *models.Scenario

	// Previous holds authoritative figures from an earlier calculation of the
	// same scenario. Optional.
	Previous *Overrides

	// PriorReport is the prior academic year's planned summary. Optional.
	PriorReport *PriorSummary

	// PriorCurrency describes how the prior year's amounts were entered.
	PriorCurrency *currency.Meta

	// CurrentCurrency overrides the currency fields of basicInfo. Optional.
	CurrentCurrency *currency.Meta

	// Meta entries are merged over the default formatting hints.
	Meta map[string]string
}

// Overrides are authoritative figures that win over local computation.
type Overrides = aggregate.Overrides

// PriorSummary is the planned baseline taken from the prior year's report.
type PriorSummary struct {
	AcademicYear string              `json:"academicYear"`
	Planned      performance.Planned `json:"planned"`
}

// Header identifies the school and period.
type Header struct {
	SchoolName        string `json:"schoolName"`
	Country           string `json:"country"`
	AcademicYear      string `json:"academicYear"`
	Principal         string `json:"principal"`
	HQRepresentative  string `json:"hqRepresentative"`
	ProgramType       string `json:"programType"`
	ReportingCurrency string `json:"reportingCurrency"`
	CurrencyLabel     string `json:"currencyLabel"`
}

// CompetitorRow is a benchmark school's fee per tier, in reporting currency.
type CompetitorRow struct {
	Name       string   `json:"name"`
	OkulOncesi *float64 `json:"okulOncesi"`
	Ilkokul    *float64 `json:"ilkokul"`
	Ortaokul   *float64 `json:"ortaokul"`
	Lise       *float64 `json:"lise"`
}

// Parameter units.
const (
	UnitPercent  = "percent"
	UnitCount    = "count"
	UnitCurrency = "currency"
	UnitFlag     = "flag"
)

// Parameter is one labeled summary metric.
type Parameter struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// GroupSummary totals one side of the discount catalog.
type GroupSummary struct {
	Cost         float64  `json:"cost"`
	Count        int      `json:"count"`
	WeightedRate *float64 `json:"weightedAvgRate"`
}

// Summary holds the scalar headline figures.
type Summary struct {
	TotalRevenue   float64  `json:"totalRevenue"`
	TotalExpense   float64  `json:"totalExpense"`
	Net            float64  `json:"net"`
	Margin         *float64 `json:"margin"`
	TotalStudents  int      `json:"totalStudents"`
	AverageTuition float64  `json:"averageTuition"`
	PerStudentCost *float64 `json:"perStudentCost"`
}

// ReportModel is the fully computed report.
type ReportModel struct {
	Header             Header            `json:"header"`
	Tiers              kademe.Configs    `json:"tiers"`
	Tuition            []tuition.Row     `json:"tuition"`
	Fees               tuition.Fees      `json:"fees"`
	Revenues           aggregate.Group   `json:"revenues"`
	Expenses           aggregate.Group   `json:"expenses"`
	Discounts          []discount.Row    `json:"discounts"`
	Scholarships       []discount.Row    `json:"scholarships"`
	DiscountSummary    GroupSummary      `json:"discountSummary"`
	ScholarshipSummary GroupSummary      `json:"scholarshipSummary"`
	Staff              aggregate.Staff   `json:"staff"`
	Competitors        []CompetitorRow   `json:"competitors"`
	Performance        []performance.Row `json:"performance"`
	Parameters         []Parameter       `json:"parameters"`
	Summary            Summary           `json:"summary"`
	Meta               map[string]string `json:"meta"`
}

// Parameter returns a parameter by key.
func (m *ReportModel) Parameter(key string) (Parameter, bool) {
	for _, p := range m.Parameters {
		if p.Key == key {
			return p, true
		}
	}
	return Parameter{}, false
}

// PriorSummaryOf extracts the planned baseline a later year compares against.
func PriorSummaryOf(m *ReportModel) *PriorSummary {
	if m == nil {
		return nil
	}
	students := float64(m.Summary.TotalStudents)
	income := m.Summary.TotalRevenue
	expenses := m.Summary.TotalExpense
	profit := m.Summary.Net
	discounts := m.Expenses.Amount(aggregate.ExpDiscounts) + m.Expenses.Amount(aggregate.ExpScholarships)
	return &PriorSummary{
		AcademicYear: m.Header.AcademicYear,
		Planned: performance.Planned{
			Students:  &students,
			Income:    &income,
			Expenses:  &expenses,
			Profit:    &profit,
			Discounts: &discounts,
		},
	}
}

// OverridesOf turns a previously built report into overrides for a rebuild of
// the same scenario.
func OverridesOf(m *ReportModel) *Overrides {
	if m == nil {
		return nil
	}
	o := &Overrides{
		Revenues: make(map[string]float64, len(m.Revenues.Rows)),
		Expenses: make(map[string]float64, len(m.Expenses.Rows)),
	}
	for _, r := range m.Revenues.Rows {
		o.Revenues[r.Key] = r.Amount
	}
	for _, r := range m.Expenses.Rows {
		o.Expenses[r.Key] = r.Amount
	}
	totalRevenue := m.Revenues.Total
	totalExpense := m.Expenses.Total
	avg := m.Summary.AverageTuition
	students := float64(m.Summary.TotalStudents)
	o.TotalRevenue = &totalRevenue
	o.TotalExpense = &totalExpense
	o.AverageTuition = &avg
	o.TotalStudents = &students
	return o
}
