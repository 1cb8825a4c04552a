package report

import (
	"errors"
	"sort"
	"strings"

	"school_budget/pkg/core/aggregate"
	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/currency"
	"school_budget/pkg/core/discount"
	"school_budget/pkg/core/fuzzy"
	"school_budget/pkg/core/kademe"
	"school_budget/pkg/core/performance"
	"school_budget/pkg/core/tuition"
	"school_budget/pkg/models"
)

// ErrInvalidInput is returned when the input has the wrong shape entirely.
var ErrInvalidInput = errors.New("report: invalid input")

// Parameter keys.
const (
	ParamCapacityUtilization = "capacityUtilization"
	ParamHRHeadcount         = "hrHeadcount"
	ParamGrossIncome         = "grossIncome"
	ParamNetIncome           = "netIncome"
	ParamBadDebt             = "badDebt"
	ParamDiscountTotal       = "discountTotal"
	ParamPerStudentCost      = "perStudentCost"
	ParamCompetitorData      = "competitorData"
	paramInflationPrefix     = "inflation_"
)

// Build computes the report model in a single pass:
// tiers -> currency -> fee resolution -> tuition -> discounts -> aggregation
// -> variance -> assembly.
func Build(in Input) (*ReportModel, error) {
	s := in.Scenario
	if s == nil {
		return nil, ErrInvalidInput
	}
	info := s.BasicInfo

	// 1. Tier configuration
	tiers := kademe.Normalize(info.Kademeler)

	// 2. Currency
	current := MetaFrom(info)
	if in.CurrentCurrency != nil {
		current = *in.CurrentCurrency
	}
	conv := currency.NewConverter(current, in.PriorCurrency, info.Performance.FxUsdToLocal.Float())

	// 3. Ancillary fee rows
	res := fuzzy.ResolveAll(s.Income.NonEducationFees)
	fees := tuition.FeesFrom(res, conv.ToReporting)

	// 4. Tuition table
	grades := s.GradesPlannedByYear.Y1
	if len(grades) == 0 {
		grades = s.GradesCurrent
	}
	table := tuition.Build(tuition.Inputs{
		Rows:         s.Income.Tuition,
		Tiers:        tiers,
		ProgramType:  info.ProgramType.String(),
		FeeIncreases: info.FeeIncreases,
		Grades:       grades,
		Fees:         fees,
		Convert:      conv.ToReporting,
	})

	// 5. Discounts, against authoritative figures when available
	prev := in.Previous
	totalStudents := table.TotalStudents
	avgTuition := table.AverageTuition
	if prev != nil {
		totalStudents = calc.RoundCount(calc.Resolve(prev.TotalStudents, float64(totalStudents)))
		avgTuition = calc.NonNeg(calc.Resolve(prev.AverageTuition, avgTuition))
	}
	plan := discount.Allocate(s.Discounts, discount.Inputs{
		TotalStudents:  totalStudents,
		AverageTuition: avgTuition,
		Convert:        conv.ToReporting,
	})

	// 6. Aggregation
	staff := aggregate.CollectStaff(s.Staffing, tiers, conv.ToReporting)
	revenues := aggregate.Revenues(aggregate.CollectRevenue(s.Income, table, res, conv.ToReporting), prev)
	expenses := aggregate.Expenses(aggregate.CollectExpenses(aggregate.ExpenseInputs{
		Expenses:     s.Expenses,
		Staff:        staff,
		Fees:         res,
		Plan:         plan,
		GrossTuition: table.GrossTuition,
		Convert:      conv.ToReporting,
	}), prev)

	// 7. Planned vs. actual
	var planned *performance.Planned
	if in.PriorReport != nil {
		p := in.PriorReport.Planned
		planned = &p
	}
	variance := performance.Analyze(planned, performance.Actuals(info.Performance, conv))

	// 8. Assembly
	summary := Summary{
		TotalRevenue:   revenues.Total,
		TotalExpense:   expenses.Total,
		Net:            revenues.Total - expenses.Total,
		TotalStudents:  totalStudents,
		AverageTuition: avgTuition,
	}
	summary.Margin = calc.SafeDiv(summary.Net, summary.TotalRevenue)
	summary.PerStudentCost = calc.SafeDiv(summary.TotalExpense, float64(totalStudents))

	m := &ReportModel{
		Header:       headerFrom(info, conv.Current()),
		Tiers:        tiers,
		Tuition:      table.All(),
		Fees:         fees,
		Revenues:     revenues,
		Expenses:     expenses,
		Discounts:    plan.Discounts,
		Scholarships: plan.Scholarships,
		DiscountSummary: GroupSummary{
			Cost:         plan.DiscountCost,
			Count:        plan.DiscountCount,
			WeightedRate: plan.DiscountRate,
		},
		ScholarshipSummary: GroupSummary{
			Cost:         plan.ScholarshipCost,
			Count:        plan.ScholarshipCount,
			WeightedRate: plan.ScholarshipRate,
		},
		Staff:       staff,
		Competitors: competitorRows(info.Competitors, conv),
		Performance: variance,
		Summary:     summary,
		Meta:        metaFor(conv.Current(), info, in.Meta),
	}
	m.Parameters = parameters(s, tiers, m)
	return m, nil
}

// MetaFrom reads the currency fields of basicInfo.
func MetaFrom(info models.BasicInfo) currency.Meta {
	return currency.Meta{
		InputCurrency:     strings.TrimSpace(info.InputCurrency.String()),
		FxUsdToLocal:      info.FxUsdToLocal.Float(),
		ReportingCurrency: strings.TrimSpace(info.ReportingCurrency.String()),
		LocalCurrencyCode: strings.TrimSpace(info.LocalCurrencyCode.String()),
	}
}

func headerFrom(info models.BasicInfo, meta currency.Meta) Header {
	return Header{
		SchoolName:        strings.TrimSpace(info.SchoolName.String()),
		Country:           strings.TrimSpace(info.Country.String()),
		AcademicYear:      strings.TrimSpace(info.AcademicYear.String()),
		Principal:         strings.TrimSpace(info.Principal.String()),
		HQRepresentative:  strings.TrimSpace(info.HQRepresentative.String()),
		ProgramType:       strings.TrimSpace(info.ProgramType.String()),
		ReportingCurrency: meta.Reporting(),
		CurrencyLabel:     meta.Label(),
	}
}

func competitorRows(in []models.Competitor, conv currency.Converter) []CompetitorRow {
	rows := make([]CompetitorRow, 0, len(in))
	for _, c := range in {
		rows = append(rows, CompetitorRow{
			Name:       strings.TrimSpace(c.Name.String()),
			OkulOncesi: conv.ToReportingOpt(c.OkulOncesi),
			Ilkokul:    conv.ToReportingOpt(c.Ilkokul),
			Ortaokul:   conv.ToReportingOpt(c.Ortaokul),
			Lise:       conv.ToReportingOpt(c.Lise),
		})
	}
	return rows
}

func hasCompetitorData(rows []CompetitorRow) bool {
	for _, r := range rows {
		if r.OkulOncesi != nil || r.Ilkokul != nil || r.Ortaokul != nil || r.Lise != nil {
			return true
		}
	}
	return false
}

// Capacity is the planned year-1 capacity, else the current one, else the sum
// over enabled tiers.
func Capacity(c models.Capacity, tiers kademe.Configs) float64 {
	if v := c.PlannedYear1.Float(); calc.IsFinite(v) && v > 0 {
		return v
	}
	if v := c.Current.Float(); calc.IsFinite(v) && v > 0 {
		return v
	}
	keys := make([]string, 0, len(c.ByKademe))
	for k := range c.ByKademe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var total float64
	for _, k := range keys {
		if tier, ok := kademe.TierOf(k); ok && tiers.IsEnabled(tier) {
			total += calc.NonNeg(c.ByKademe[k].Float())
		}
	}
	return total
}

func parameters(s *models.Scenario, tiers kademe.Configs, m *ReportModel) []Parameter {
	var utilization *float64
	if u := calc.SafeDiv(float64(m.Summary.TotalStudents), Capacity(s.Capacity, tiers)); u != nil {
		utilization = calc.Ptr(*u * 100)
	}
	discounts := m.Expenses.Amount(aggregate.ExpDiscounts) + m.Expenses.Amount(aggregate.ExpScholarships)
	competitors := 0.0
	if hasCompetitorData(m.Competitors) {
		competitors = 1
	}

	params := []Parameter{
		{ParamCapacityUtilization, "Kapasite Kullanım Oranı", utilization, UnitPercent},
		{ParamHRHeadcount, "Toplam Personel Sayısı", calc.Ptr(m.Staff.TotalHeadcount), UnitCount},
		{ParamGrossIncome, "Brüt Gelir", calc.Ptr(m.Summary.TotalRevenue), UnitCurrency},
		{ParamNetIncome, "Net Gelir", calc.Ptr(m.Summary.TotalRevenue - discounts), UnitCurrency},
		{ParamBadDebt, "Şüpheli Alacak Tutarı", calc.Ptr(m.Expenses.Amount(aggregate.ExpBadDebt)), UnitCurrency},
		{ParamDiscountTotal, "Burs ve İndirim Toplamı", calc.Ptr(discounts), UnitCurrency},
		{ParamPerStudentCost, "Öğrenci Başı Maliyet", m.Summary.PerStudentCost, UnitCurrency},
		{ParamCompetitorData, "Rakip Okul Verisi", calc.Ptr(competitors), UnitFlag},
	}
	for _, p := range s.BasicInfo.Inflation {
		year := strings.TrimSpace(p.Year.String())
		if year == "" {
			continue
		}
		var rate *float64
		if v := p.Rate.Ptr(); v != nil && calc.IsFinite(*v) {
			rate = v
		}
		params = append(params, Parameter{
			Key:   paramInflationPrefix + year,
			Label: "Enflasyon " + year,
			Value: rate,
			Unit:  UnitPercent,
		})
	}
	return params
}

func metaFor(cur currency.Meta, info models.BasicInfo, extra map[string]string) map[string]string {
	meta := map[string]string{
		"currency":      cur.Reporting(),
		"currencyLabel": cur.Label(),
		"inputCurrency": strings.ToLower(cur.InputCurrency),
		"academicYear":  strings.TrimSpace(info.AcademicYear.String()),
		"numberFormat":  "#,##0.00",
		"percentFormat": "0.0%",
		"locale":        "tr-TR",
	}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}
