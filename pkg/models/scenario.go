// Package models defines the scenario configuration consumed by the report builder.
// Field names follow the JSON documents produced by the planning UI.
package models

import "school_budget/pkg/core/calc"

// Scenario is one school's raw planning configuration for an academic year.
// Every nested section may be absent; consumers treat missing sections as empty.
type Scenario struct {
	BasicInfo           BasicInfo       `json:"basicInfo"`
	Capacity            Capacity        `json:"capacity"`
	GradesCurrent       []GradeRow      `json:"gradesCurrent"`
	GradesPlannedByYear GradesPlanned   `json:"gradesPlannedByYear"`
	Income              Income          `json:"income"`
	Expenses            Expenses        `json:"expenses"`
	Staffing            Staffing        `json:"staffing"`
	Discounts           []DiscountInput `json:"discounts"`
}

// BasicInfo holds identification, currency and historical figures.
type BasicInfo struct {
	SchoolName        calc.Text            `json:"schoolName"`
	Country           calc.Text            `json:"country"`
	AcademicYear      calc.Text            `json:"academicYear"`
	Principal         calc.Text            `json:"principal"`
	HQRepresentative  calc.Text            `json:"hqRepresentative"`
	ProgramType       calc.Text            `json:"programType"`
	InputCurrency     calc.Text            `json:"inputCurrency"`
	FxUsdToLocal      calc.Num             `json:"fxUsdToLocal"`
	ReportingCurrency calc.Text            `json:"reportingCurrency"`
	LocalCurrencyCode calc.Text            `json:"localCurrencyCode"`
	Kademeler         map[string]RawKademe `json:"kademeler"`
	FeeIncreases      map[string]calc.Num  `json:"feeIncreases"`
	Inflation         []InflationPoint     `json:"inflation"`
	Competitors       []Competitor         `json:"competitors"`
	Performance       RealizedPerformance  `json:"performance"`
}

// RawKademe is the user-entered state of one education tier.
type RawKademe struct {
	Enabled calc.Flag `json:"enabled"`
	From    calc.Text `json:"from"`
	To      calc.Text `json:"to"`
}

// InflationPoint is one historical inflation figure (percent).
type InflationPoint struct {
	Year calc.Text   `json:"year"`
	Rate calc.OptNum `json:"rate"`
}

// Competitor holds a benchmark school's annual fee per tier, in input currency.
type Competitor struct {
	Name       calc.Text   `json:"name"`
	OkulOncesi calc.OptNum `json:"okulOncesi"`
	Ilkokul    calc.OptNum `json:"ilkokul"`
	Ortaokul   calc.OptNum `json:"ortaokul"`
	Lise       calc.OptNum `json:"lise"`
}

// RealizedPerformance holds the actual figures of the previous academic year,
// entered in input currency together with the FX rate realized at the time.
type RealizedPerformance struct {
	Students     calc.OptNum `json:"students"`
	Income       calc.OptNum `json:"income"`
	Expenses     calc.OptNum `json:"expenses"`
	Profit       calc.OptNum `json:"profit"`
	Discounts    calc.OptNum `json:"discounts"`
	FxUsdToLocal calc.Num    `json:"fxUsdToLocal"`
}

// Capacity holds seat counts.
type Capacity struct {
	Current      calc.Num            `json:"current"`
	PlannedYear1 calc.Num            `json:"plannedYear1"`
	ByKademe     map[string]calc.Num `json:"byKademe"`
}

// GradeRow is one grade's branch (section) layout.
type GradeRow struct {
	Grade             calc.Text `json:"grade"`
	BranchCount       calc.Num  `json:"branchCount"`
	StudentsPerBranch calc.Num  `json:"studentsPerBranch"`
}

// GradesPlanned holds planned grade layouts per future year.
type GradesPlanned struct {
	Y1 []GradeRow `json:"y1"`
	Y2 []GradeRow `json:"y2"`
	Y3 []GradeRow `json:"y3"`
}

// Income groups every revenue-side input.
type Income struct {
	Tuition              []TuitionInput `json:"tuition"`
	NonEducationFees     []Row          `json:"nonEducationFees"`
	Dormitory            []Row          `json:"dormitory"`
	OtherIncome          []Row          `json:"otherIncome"`
	GovernmentIncentives calc.Num       `json:"governmentIncentives"`
}

// TuitionInput is one tier variant's annual education fee.
type TuitionInput struct {
	Key          calc.Text   `json:"key"`
	Label        calc.Text   `json:"label"`
	UnitFee      calc.Num    `json:"unitFee"`
	StudentCount calc.OptNum `json:"studentCount"`
}

// Expenses groups every cost-side input.
type Expenses struct {
	OperatingItems     map[string]calc.Num `json:"operatingItems"`
	BadDebtRate        calc.Num            `json:"badDebtRate"`
	NonTuitionServices []Row               `json:"nonTuitionServices"`
	Dormitory          []Row               `json:"dormitory"`
}

// Staffing lists staff roles.
type Staffing struct {
	Roles []StaffRole `json:"roles"`
}

// StaffRole is one role's headcount per tier and annual unit cost.
type StaffRole struct {
	Role              calc.Text           `json:"role"`
	Locality          calc.Text           `json:"locality"`
	UnitCost          calc.Num            `json:"unitCost"`
	HeadcountByKademe map[string]calc.Num `json:"headcountByKademe"`
	CurrentlyEmployed calc.Num            `json:"currentlyEmployed"`
}

// DiscountInput is a user override for one catalogued discount or scholarship.
type DiscountInput struct {
	Name         calc.Text   `json:"name"`
	Mode         calc.Text   `json:"mode"`
	Value        calc.Num    `json:"value"`
	Ratio        calc.Num    `json:"ratio"`
	StudentCount calc.OptNum `json:"studentCount"`
	CurrentCount calc.OptNum `json:"currentCount"`
}

// Row is a free-form row whose label and quantity may live under several
// field names depending on which office produced the file.
type Row map[string]interface{}
