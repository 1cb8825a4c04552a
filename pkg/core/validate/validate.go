// Package validate provides consistency checks over a built report.
// The checks never change the report; callers decide whether to warn or stop.
package validate

import (
	"fmt"
	"math"

	"school_budget/pkg/core/aggregate"
	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/report"
)

// =============================================================================
// YEAR-OVER-YEAR (YoY) CALCULATIONS
// =============================================================================

// CalculateYoY returns the percentage change (current - prior) / prior * 100,
// or nil when the prior value is zero.
func CalculateYoY(current, prior float64) *float64 {
	ratio := calc.SafeDiv(current-prior, prior)
	if ratio == nil {
		return nil
	}
	pct := *ratio * 100
	return &pct
}

// =============================================================================
// TOTAL RECONCILIATION
// =============================================================================

// TotalCheck compares a group's total against the sum of its rows. The two
// differ only when a total was overridden independently of its rows.
type TotalCheck struct {
	Item       string
	RowSum     float64
	Reported   float64
	Difference float64
	IsBalanced bool
	Tolerance  float64
}

// CheckGroupTotal validates sum(rows) = total within tolerance.
func CheckGroupTotal(item string, g aggregate.Group, tolerance float64) *TotalCheck {
	var sum float64
	for _, r := range g.Rows {
		sum += r.Amount
	}
	diff := g.Total - sum

	return &TotalCheck{
		Item:       item,
		RowSum:     sum,
		Reported:   g.Total,
		Difference: diff,
		IsBalanced: math.Abs(diff) <= tolerance,
		Tolerance:  tolerance,
	}
}

// NetCheck verifies Revenue - Expense = Net.
type NetCheck struct {
	Revenue    float64
	Expense    float64
	Computed   float64
	Reported   float64
	Difference float64
	IsBalanced bool
	Tolerance  float64
}

// CheckNetEquation validates Revenue - Expense = Net within tolerance.
func CheckNetEquation(revenue, expense, net, tolerance float64) *NetCheck {
	computed := revenue - expense
	diff := net - computed

	return &NetCheck{
		Revenue:    revenue,
		Expense:    expense,
		Computed:   computed,
		Reported:   net,
		Difference: diff,
		IsBalanced: math.Abs(diff) <= tolerance,
		Tolerance:  tolerance,
	}
}

// =============================================================================
// OUTLIER DETECTION
// =============================================================================

// OutlierCheck identifies suspicious year-over-year movements.
type OutlierCheck struct {
	Item       string
	Value      float64
	PriorValue float64
	ChangePct  *float64
	IsOutlier  bool
	Reason     string
	Threshold  float64
}

// CheckForOutlier flags a value that dropped to zero or moved more than
// thresholdPct percent against the prior year.
func CheckForOutlier(item string, current, prior, thresholdPct float64) *OutlierCheck {
	check := &OutlierCheck{
		Item:       item,
		Value:      current,
		PriorValue: prior,
		ChangePct:  CalculateYoY(current, prior),
		Threshold:  thresholdPct,
	}

	// Zero when prior was non-zero usually means a section was left empty
	if current == 0 && prior > 0 {
		check.IsOutlier = true
		check.Reason = "Value dropped to zero (section likely left empty)"
		return check
	}

	if check.ChangePct != nil && math.Abs(*check.ChangePct) > thresholdPct {
		check.IsOutlier = true
		check.Reason = fmt.Sprintf("Change of %.1f%% exceeds threshold of %.1f%%", *check.ChangePct, thresholdPct)
	}
	return check
}

// =============================================================================
// REPORT
// =============================================================================

// Options tune Report.
type Options struct {
	Tolerance        float64 // currency units
	OutlierThreshold float64 // percent
}

// DefaultOptions are used when Report receives a zero Options.
var DefaultOptions = Options{Tolerance: 0.01, OutlierThreshold: 50}

// Finding is one failed check.
type Finding struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// Report runs every check against m. prior may be nil.
func Report(m *report.ReportModel, prior *report.PriorSummary, opts Options) []Finding {
	if m == nil {
		return nil
	}
	if opts == (Options{}) {
		opts = DefaultOptions
	}
	var findings []Finding

	// 1. Totals
	for _, g := range []struct {
		item  string
		group aggregate.Group
	}{
		{"revenues", m.Revenues},
		{"expenses", m.Expenses},
	} {
		if c := CheckGroupTotal(g.item, g.group, opts.Tolerance); !c.IsBalanced {
			findings = append(findings, Finding{g.item, fmt.Sprintf("Total %.2f differs from row sum %.2f", c.Reported, c.RowSum)})
		}
	}
	s := m.Summary
	if c := CheckNetEquation(s.TotalRevenue, s.TotalExpense, s.Net, opts.Tolerance); !c.IsBalanced {
		findings = append(findings, Finding{"net", fmt.Sprintf("Net %.2f differs from revenue - expense %.2f", c.Reported, c.Computed)})
	}

	// 2. Plausibility
	if s.Net < 0 {
		findings = append(findings, Finding{"net", fmt.Sprintf("Planned deficit of %.2f", -s.Net)})
	}
	if p, ok := m.Parameter(report.ParamCapacityUtilization); ok && p.Value != nil && *p.Value > 100 {
		findings = append(findings, Finding{report.ParamCapacityUtilization, fmt.Sprintf("Enrollment exceeds capacity (%.1f%%)", *p.Value)})
	}

	// 3. Against the prior year's plan
	if prior != nil {
		for _, o := range []struct {
			item    string
			current float64
			prior   *float64
		}{
			{"students", float64(s.TotalStudents), prior.Planned.Students},
			{"income", s.TotalRevenue, prior.Planned.Income},
			{"expenses", s.TotalExpense, prior.Planned.Expenses},
		} {
			if o.prior == nil {
				continue
			}
			if c := CheckForOutlier(o.item, o.current, *o.prior, opts.OutlierThreshold); c.IsOutlier {
				findings = append(findings, Finding{o.item, c.Reason})
			}
		}
	}
	return findings
}
