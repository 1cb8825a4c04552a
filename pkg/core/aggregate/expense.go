package aggregate

import (
	"sort"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/discount"
	"school_budget/pkg/core/fuzzy"
	"school_budget/pkg/models"
)

// Expense row keys.
const (
	ExpHRLocal         = "hrLocal"
	ExpHRTurkish       = "hrTurkish"
	ExpHRInternational = "hrInternational"
	ExpOperating       = "operating"
	ExpServices        = "nonTuitionServices"
	ExpDormitory       = "dormitory"
	ExpDiscounts       = "discounts"
	ExpScholarships    = "scholarships"
	ExpBadDebt         = "badDebt"
)

var expenseRows = []rowDef{
	{ExpHRLocal, "Personel (Yerel)"},
	{ExpHRTurkish, "Personel (Türk)"},
	{ExpHRInternational, "Personel (Uluslararası)"},
	{ExpOperating, "İşletme Giderleri"},
	{ExpServices, "Eğitim Dışı Hizmetler"},
	{ExpDormitory, "Yurt Giderleri"},
	{ExpDiscounts, "İndirimler"},
	{ExpScholarships, "Burslar"},
	{ExpBadDebt, "Şüpheli Alacaklar"},
}

// ExpenseAmounts are the locally computed expense figures in reporting currency.
type ExpenseAmounts struct {
	HRLocal            float64
	HRTurkish          float64
	HRInternational    float64
	Operating          float64
	NonTuitionServices float64
	Dormitory          float64
	Discounts          float64
	Scholarships       float64
	BadDebt            float64
}

// HR returns the payroll total across localities.
func (a ExpenseAmounts) HR() float64 {
	return a.HRLocal + a.HRTurkish + a.HRInternational
}

// ExpenseInputs carries the figures computed upstream of aggregation.
type ExpenseInputs struct {
	Expenses     models.Expenses
	Staff        Staff
	Fees         fuzzy.Resolution
	Plan         discount.Plan
	GrossTuition float64
	Convert      func(float64) float64
}

// CollectExpenses computes every expense category.
func CollectExpenses(in ExpenseInputs) ExpenseAmounts {
	convert := in.Convert
	if convert == nil {
		convert = func(v float64) float64 { return v }
	}
	a := ExpenseAmounts{
		HRLocal:         in.Staff.Cost[LocalityLocal],
		HRTurkish:       in.Staff.Cost[LocalityTurkish],
		HRInternational: in.Staff.Cost[LocalityInternational],
		Discounts:       in.Plan.DiscountCost,
		Scholarships:    in.Plan.ScholarshipCost,
	}

	// 1. Operating items, minus payroll and bad-debt lines
	keys := make([]string, 0, len(in.Expenses.OperatingItems))
	for k := range in.Expenses.OperatingItems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var badDebtItems float64
	var hasBadDebtItem bool
	for _, k := range keys {
		v := nonNegConvert(in.Expenses.OperatingItems[k].Float(), convert)
		switch {
		case isBadDebtItem(k):
			badDebtItems += v
			hasBadDebtItem = true
		case isHRItem(k):
		default:
			a.Operating += v
		}
	}

	// 2. Bad debt: an explicit item wins, else the rate on net tuition
	if hasBadDebtItem {
		a.BadDebt = badDebtItems
	} else {
		a.BadDebt = BadDebt(in.GrossTuition, in.Plan.Total(), in.Expenses.BadDebtRate.Float())
	}

	// 3. Non-tuition services and dormitory
	for _, row := range in.Expenses.NonTuitionServices {
		a.NonTuitionServices += serviceCost(row, in.Fees, convert)
	}
	a.Dormitory = sumRows(in.Expenses.Dormitory, convert)
	return a
}

// BadDebt is ratePct percent of tuition net of discounts and scholarships.
func BadDebt(grossTuition, discountTotal, ratePct float64) float64 {
	base := calc.NonNeg(grossTuition - discountTotal)
	return base * calc.Clamp(ratePct, 0, 100) / 100
}

// serviceCost prices one service row. A row with a unit cost but no count of
// its own takes the enrollment of the fee category its label resolves to.
func serviceCost(row models.Row, res fuzzy.Resolution, convert func(float64) float64) float64 {
	if row == nil {
		return 0
	}
	unit, okUnit := fuzzy.UnitOf(row)
	_, okCount := fuzzy.CountOf(row)
	if !okUnit || okCount {
		return nonNegConvert(fuzzy.AmountOf(row), convert)
	}
	cat, score := fuzzy.Classify(fuzzy.LabelOf(row))
	if score == 0 {
		return 0
	}
	return nonNegConvert(unit, convert) * res.Count(cat)
}

// Expenses builds the expense group.
func Expenses(a ExpenseAmounts, o *Overrides) Group {
	computed := map[string]float64{
		ExpHRLocal:         a.HRLocal,
		ExpHRTurkish:       a.HRTurkish,
		ExpHRInternational: a.HRInternational,
		ExpOperating:       a.Operating,
		ExpServices:        a.NonTuitionServices,
		ExpDormitory:       a.Dormitory,
		ExpDiscounts:       a.Discounts,
		ExpScholarships:    a.Scholarships,
		ExpBadDebt:         a.BadDebt,
	}
	var total *float64
	if o != nil {
		total = o.TotalExpense
	}
	return buildGroup(expenseRows, computed, o.expense, total)
}

func sumRows(rows []models.Row, convert func(float64) float64) float64 {
	amounts := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		amounts = append(amounts, nonNegConvert(fuzzy.AmountOf(row), convert))
	}
	return calc.Sum(amounts...)
}

func nonNegConvert(v float64, convert func(float64) float64) float64 {
	if convert == nil {
		return calc.NonNeg(v)
	}
	return calc.NonNeg(convert(calc.NonNeg(v)))
}
