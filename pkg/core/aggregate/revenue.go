package aggregate

import (
	"school_budget/pkg/core/fuzzy"
	"school_budget/pkg/core/tuition"
	"school_budget/pkg/models"
)

// Revenue row keys.
const (
	RevTuition    = "tuition"
	RevUniform    = "uniform"
	RevBooks      = "books"
	RevMeals      = "meals"
	RevTransport  = "transport"
	RevDormitory  = "dormitory"
	RevOther      = "otherIncome"
	RevIncentives = "governmentIncentives"
)

var revenueRows = []rowDef{
	{RevTuition, "Eğitim Ücreti"},
	{RevUniform, "Üniforma"},
	{RevBooks, "Kitap / Kırtasiye"},
	{RevMeals, "Yemek"},
	{RevTransport, "Servis"},
	{RevDormitory, "Yurt"},
	{RevOther, "Diğer Gelirler"},
	{RevIncentives, "Devlet Teşvikleri"},
}

// RevenueAmounts are the locally computed revenue figures in reporting currency.
type RevenueAmounts struct {
	Tuition              float64
	Uniform              float64
	Books                float64
	Meals                float64
	Transport            float64
	Dormitory            float64
	OtherIncome          float64
	GovernmentIncentives float64
}

// CollectRevenue computes revenue figures from the scenario and the tuition table.
// Fee rows that match no category count as other income.
func CollectRevenue(income models.Income, table tuition.Table, res fuzzy.Resolution, convert func(float64) float64) RevenueAmounts {
	a := RevenueAmounts{
		Tuition:   table.GrossTuition,
		Uniform:   table.Fees.Uniform * res.Count(fuzzy.Uniform),
		Books:     table.Fees.Book * res.Count(fuzzy.Book),
		Meals:     table.Fees.Meal * res.Count(fuzzy.Meal),
		Transport: table.Fees.Transport * res.Count(fuzzy.Transport),
	}
	a.Dormitory = sumRows(income.Dormitory, convert)
	a.OtherIncome = sumRows(income.OtherIncome, convert)
	for i, row := range income.NonEducationFees {
		if row == nil || res.Selected(i) {
			continue
		}
		if _, score := fuzzy.Classify(fuzzy.LabelOf(row)); score == 0 {
			a.OtherIncome += nonNegConvert(fuzzy.AmountOf(row), convert)
		}
	}
	a.GovernmentIncentives = nonNegConvert(income.GovernmentIncentives.Float(), convert)
	return a
}

// Revenues builds the revenue group.
func Revenues(a RevenueAmounts, o *Overrides) Group {
	computed := map[string]float64{
		RevTuition:    a.Tuition,
		RevUniform:    a.Uniform,
		RevBooks:      a.Books,
		RevMeals:      a.Meals,
		RevTransport:  a.Transport,
		RevDormitory:  a.Dormitory,
		RevOther:      a.OtherIncome,
		RevIncentives: a.GovernmentIncentives,
	}
	var total *float64
	if o != nil {
		total = o.TotalRevenue
	}
	return buildGroup(revenueRows, computed, o.revenue, total)
}
