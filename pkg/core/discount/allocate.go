package discount

import (
	"strings"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/models"
)

// Discount modes.
const (
	ModePercent = "percent"
	ModeFixed   = "fixed"
)

// Row is the planned allocation of one catalog entry.
type Row struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Group        Group    `json:"group"`
	Mode         string   `json:"mode"`
	Value        float64  `json:"value"`
	PlannedCount int      `json:"plannedCount"`
	Cost         float64  `json:"cost"`
	CurrentCount int      `json:"currentCount"`
	Rate         *float64 `json:"rate"`
}

// Inputs are the school-level figures the allocation depends on.
type Inputs struct {
	TotalStudents  int
	AverageTuition float64
	Convert        func(float64) float64
}

// Plan is the allocation of the full catalog.
type Plan struct {
	Rows             []Row    `json:"rows"`
	Scholarships     []Row    `json:"scholarships"`
	Discounts        []Row    `json:"discounts"`
	ScholarshipCost  float64  `json:"scholarshipCost"`
	DiscountCost     float64  `json:"discountCost"`
	ScholarshipRate  *float64 `json:"scholarshipWeightedRate"`
	DiscountRate     *float64 `json:"discountWeightedRate"`
	ScholarshipCount int      `json:"scholarshipCount"`
	DiscountCount    int      `json:"discountCount"`
}

// Total returns the combined cost of both groups.
func (p Plan) Total() float64 {
	return p.ScholarshipCost + p.DiscountCost
}

// Allocate plans every catalog entry. Entries without an override get
// {mode: percent, value: 0, ratio: 0}.
func Allocate(overrides []models.DiscountInput, in Inputs) Plan {
	convert := in.Convert
	if convert == nil {
		convert = func(v float64) float64 { return v }
	}

	byKey := map[string]models.DiscountInput{}
	for _, o := range overrides {
		e, ok := Lookup(o.Name.String())
		if !ok {
			continue
		}
		if _, seen := byKey[e.Key]; !seen {
			byKey[e.Key] = o
		}
	}

	var plan Plan
	for _, e := range catalog {
		o, ok := byKey[e.Key]
		if !ok {
			o = models.DiscountInput{Mode: ModePercent}
		}
		row := allocateOne(e, o, in, convert)
		plan.Rows = append(plan.Rows, row)

		switch e.Group {
		case Scholarship:
			plan.Scholarships = append(plan.Scholarships, row)
			plan.ScholarshipCost += row.Cost
			plan.ScholarshipCount += row.PlannedCount
		default:
			plan.Discounts = append(plan.Discounts, row)
			plan.DiscountCost += row.Cost
			plan.DiscountCount += row.PlannedCount
		}
	}
	plan.ScholarshipRate = WeightedAverageRate(plan.Scholarships, in.AverageTuition)
	plan.DiscountRate = WeightedAverageRate(plan.Discounts, in.AverageTuition)
	return plan
}

func allocateOne(e Entry, o models.DiscountInput, in Inputs, convert func(float64) float64) Row {
	row := Row{
		Key:          e.Key,
		Name:         e.Name,
		Group:        e.Group,
		Mode:         NormalizeMode(o.Mode.String()),
		PlannedCount: PlannedCount(o, in.TotalStudents),
		CurrentCount: calc.RoundCount(o.CurrentCount.Or(0)),
	}
	avg := calc.NonNeg(in.AverageTuition)

	switch row.Mode {
	case ModeFixed:
		amount := calc.NonNeg(convert(o.Value.Float()))
		row.Value = amount
		row.Cost = float64(row.PlannedCount) * amount
		if avg > 0 {
			if r := calc.SafeDiv(amount, avg); r != nil {
				row.Rate = calc.Ptr(calc.Clamp01(*r))
			}
		}
	default:
		rate := calc.Clamp01(o.Value.Float())
		row.Value = rate
		row.Rate = calc.Ptr(rate)
		row.Cost = avg * float64(row.PlannedCount) * rate
	}
	return row
}

// NormalizeMode maps free-text modes to ModeFixed or ModePercent (the default).
func NormalizeMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "fixed", "amount", "sabit", "tutar":
		return ModeFixed
	}
	return ModePercent
}

// PlannedCount returns the beneficiary count, never above the paying population.
func PlannedCount(o models.DiscountInput, totalStudents int) int {
	if totalStudents <= 0 {
		return 0
	}
	var n int
	if o.StudentCount.Set {
		n = calc.RoundCount(o.StudentCount.Value)
	} else {
		n = calc.RoundCount(calc.Clamp01(o.Ratio.Float()) * float64(totalStudents))
	}
	if n > totalStudents {
		n = totalStudents
	}
	return n
}

// WeightedAverageRate is Σ(count × rate) / Σ(count) over rows with beneficiaries.
// Rows without a rate derive one from cost when the average tuition allows it,
// otherwise they are skipped. nil when no beneficiaries contribute.
func WeightedAverageRate(rows []Row, averageTuition float64) *float64 {
	var weighted, count float64
	for _, r := range rows {
		if r.PlannedCount <= 0 {
			continue
		}
		n := float64(r.PlannedCount)
		rate := r.Rate
		if rate == nil {
			if averageTuition <= 0 || !calc.IsFinite(averageTuition) {
				continue
			}
			rate = calc.SafeDiv(r.Cost, n*averageTuition)
			if rate == nil {
				continue
			}
		}
		weighted += n * *rate
		count += n
	}
	return calc.SafeDiv(weighted, count)
}
