// Package tuition builds the per-tier tuition cost table: education fee plus the
// flat ancillary fees, with synthetic total and student-weighted average rows.
package tuition

import (
	"sort"
	"strings"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/fuzzy"
	"school_budget/pkg/core/kademe"
	"school_budget/pkg/models"
)

const (
	KeyTotal   = "total"
	KeyAverage = "average"
)

// Row is one line of the tuition table. Monetary fields are in reporting currency.
type Row struct {
	Key          string   `json:"key"`
	Tier         string   `json:"tier,omitempty"`
	Level        string   `json:"level"`
	EduFee       float64  `json:"eduFee"`
	UniformFee   float64  `json:"uniformFee"`
	BookFee      float64  `json:"bookFee"`
	TransportFee float64  `json:"transportFee"`
	MealFee      float64  `json:"mealFee"`
	RaisePct     *float64 `json:"raisePct"`
	Total        float64  `json:"total"`
	StudentCount int      `json:"studentCount"`
}

// Fees are the ancillary per-student fees, resolved once for the whole school.
type Fees struct {
	Uniform   float64 `json:"uniform"`
	Book      float64 `json:"book"`
	Transport float64 `json:"transport"`
	Meal      float64 `json:"meal"`
}

// Sum adds the four fees.
func (f Fees) Sum() float64 {
	return f.Uniform + f.Book + f.Transport + f.Meal
}

// FeesFrom reads the unit fee of each resolved category and converts it.
func FeesFrom(res fuzzy.Resolution, convert func(float64) float64) Fees {
	return Fees{
		Uniform:   calc.NonNeg(convert(res.Unit(fuzzy.Uniform))),
		Book:      calc.NonNeg(convert(res.Unit(fuzzy.Book))),
		Transport: calc.NonNeg(convert(res.Unit(fuzzy.Transport))),
		Meal:      calc.NonNeg(convert(res.Unit(fuzzy.Meal))),
	}
}

// Inputs collects what the table needs from the scenario.
type Inputs struct {
	Rows         []models.TuitionInput
	Tiers        kademe.Configs
	ProgramType  string
	FeeIncreases map[string]calc.Num
	Grades       []models.GradeRow
	Fees         Fees
	Convert      func(float64) float64
}

// Table is the computed tuition table.
type Table struct {
	Rows           []Row   `json:"rows"`
	Total          Row     `json:"total"`
	Average        Row     `json:"average"`
	Fees           Fees    `json:"fees"`
	TotalStudents  int     `json:"totalStudents"`
	GrossTuition   float64 `json:"grossTuition"`
	AverageTuition float64 `json:"averageTuition"`
}

// All returns the tier rows followed by the total and average rows.
func (t Table) All() []Row {
	out := make([]Row, 0, len(t.Rows)+2)
	out = append(out, t.Rows...)
	return append(out, t.Total, t.Average)
}

// Build computes the tuition table.
func Build(in Inputs) Table {
	convert := in.Convert
	if convert == nil {
		convert = func(v float64) float64 { return v }
	}

	// 1. Visible variants only
	type variant struct {
		input models.TuitionInput
		tier  string
	}
	var visible []variant
	perTier := map[string]int{}
	for _, r := range in.Rows {
		key := strings.TrimSpace(r.Key.String())
		tier, ok := kademe.TierOf(key)
		if !ok || !in.Tiers.IsEnabled(tier) || !Visible(key, in.ProgramType) {
			continue
		}
		visible = append(visible, variant{input: r, tier: tier})
		perTier[tier]++
	}

	// 2. One row per variant
	enrollment := EnrollmentByTier(in.Grades, in.Tiers)
	table := Table{Fees: in.Fees}
	for _, v := range visible {
		key := strings.TrimSpace(v.input.Key.String())
		raise := raiseFor(in.FeeIncreases, key, v.tier)
		edu := calc.NonNeg(convert(v.input.UnitFee.Float())) * (1 + raise/100)

		count := 0
		switch {
		case v.input.StudentCount.Set:
			count = calc.RoundCount(v.input.StudentCount.Value)
		case perTier[v.tier] == 1:
			count = enrollment[v.tier]
		}

		level := strings.TrimSpace(v.input.Label.String())
		if level == "" {
			def, _ := kademe.Lookup(v.tier)
			level = def.Label
		}

		table.Rows = append(table.Rows, Row{
			Key:          key,
			Tier:         v.tier,
			Level:        level,
			EduFee:       edu,
			UniformFee:   in.Fees.Uniform,
			BookFee:      in.Fees.Book,
			TransportFee: in.Fees.Transport,
			MealFee:      in.Fees.Meal,
			RaisePct:     calc.Ptr(raise),
			Total:        edu + in.Fees.Sum(),
			StudentCount: count,
		})
	}

	// 3. Synthetic rows
	table.Total = totalRow(table.Rows)
	table.Average = averageRow(table.Rows, in.Fees)
	table.TotalStudents = table.Total.StudentCount
	table.AverageTuition = table.Average.EduFee
	table.GrossTuition = column(table.Rows, func(r Row) float64 { return r.EduFee * float64(r.StudentCount) })
	return table
}

// Visible applies program-type rules: "local" hides international variants,
// "international" hides local ones, anything else shows both.
func Visible(variantKey, programType string) bool {
	intl := isInternational(variantKey)
	switch strings.ToLower(strings.TrimSpace(programType)) {
	case "local", "yerel":
		return !intl
	case "international", "uluslararasi", "uluslararası":
		return intl
	}
	return true
}

func isInternational(variantKey string) bool {
	k := strings.ToLower(variantKey)
	i := strings.IndexAny(k, "-_/ ")
	if i < 0 {
		return false
	}
	switch strings.TrimSpace(k[i+1:]) {
	case "int", "intl", "international", "uluslararasi":
		return true
	}
	return false
}

// raiseFor looks the increase up by variant key, then tier key. Missing or
// negative increases are 0.
func raiseFor(increases map[string]calc.Num, variantKey, tier string) float64 {
	keys := make([]string, 0, len(increases))
	for k := range increases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, want := range []string{variantKey, tier} {
		if v, ok := increases[want]; ok {
			return calc.NonNeg(v.Float())
		}
		for _, k := range keys {
			if strings.EqualFold(strings.TrimSpace(k), want) {
				return calc.NonNeg(increases[k].Float())
			}
		}
	}
	return 0
}

// EnrollmentByTier sums branchCount × studentsPerBranch over each enabled tier's grades.
func EnrollmentByTier(grades []models.GradeRow, tiers kademe.Configs) map[string]int {
	totals := map[string]float64{}
	for _, g := range grades {
		grade, ok := kademe.NormalizeGrade(g.Grade.String())
		if !ok {
			continue
		}
		tier, ok := tiers.TierForGrade(grade)
		if !ok {
			continue
		}
		totals[tier] += calc.NonNeg(g.BranchCount.Float()) * calc.NonNeg(g.StudentsPerBranch.Float())
	}
	out := make(map[string]int, len(totals))
	for k, v := range totals {
		out[k] = calc.RoundCount(v)
	}
	return out
}

func totalRow(rows []Row) Row {
	t := Row{
		Key:          KeyTotal,
		Level:        "Toplam",
		EduFee:       column(rows, func(r Row) float64 { return r.EduFee }),
		UniformFee:   column(rows, func(r Row) float64 { return r.UniformFee }),
		BookFee:      column(rows, func(r Row) float64 { return r.BookFee }),
		TransportFee: column(rows, func(r Row) float64 { return r.TransportFee }),
		MealFee:      column(rows, func(r Row) float64 { return r.MealFee }),
		Total:        column(rows, func(r Row) float64 { return r.Total }),
	}
	for _, r := range rows {
		t.StudentCount += r.StudentCount
	}
	return t
}

// column sums one money column.
func column(rows []Row, get func(Row) float64) float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = get(r)
	}
	return calc.Sum(values...)
}

func averageRow(rows []Row, fees Fees) Row {
	a := Row{
		Key:          KeyAverage,
		Level:        "Ortalama",
		UniformFee:   fees.Uniform,
		BookFee:      fees.Book,
		TransportFee: fees.Transport,
		MealFee:      fees.Meal,
	}
	var weighted, plain float64
	for _, r := range rows {
		weighted += r.EduFee * float64(r.StudentCount)
		plain += r.EduFee
		a.StudentCount += r.StudentCount
	}
	if avg := calc.SafeDiv(weighted, float64(a.StudentCount)); avg != nil {
		a.EduFee = *avg
	} else if avg := calc.SafeDiv(plain, float64(len(rows))); avg != nil {
		a.EduFee = *avg
	}
	a.Total = fees.Sum() + a.EduFee
	return a
}
