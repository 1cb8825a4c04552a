package report

import (
	"fmt"
	"log"

	"school_budget/pkg/core/utils"
	"school_budget/pkg/models"
)

// DecodeScenario parses a scenario document (JSON, hand-edited JSON or Hjson).
// Only a top level that is not an object is an error; a malformed section is
// logged and decoded as far as possible, or left empty.
func DecodeScenario(data []byte) (*models.Scenario, error) {
	obj, err := utils.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var s models.Scenario
	sections := []struct {
		key    string
		target interface{}
	}{
		{"basicInfo", &s.BasicInfo},
		{"capacity", &s.Capacity},
		{"gradesCurrent", &s.GradesCurrent},
		{"gradesPlannedByYear", &s.GradesPlannedByYear},
		{"income", &s.Income},
		{"expenses", &s.Expenses},
		{"staffing", &s.Staffing},
		{"discounts", &s.Discounts},
	}
	for _, sec := range sections {
		raw, ok := obj[sec.key]
		if !ok {
			continue
		}
		if err := utils.DecodeSection(raw, sec.target); err != nil {
			log.Printf("[Decode] section %q is malformed, keeping what decoded: %v", sec.key, err)
		}
	}
	return &s, nil
}

// DecodeReport parses a previously built report, e.g. the prior year's.
func DecodeReport(data []byte) (*ReportModel, error) {
	var m ReportModel
	if _, err := utils.SmartParse(string(data), &m); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &m, nil
}

// DecodeOverrides parses authoritative figures from an earlier calculation.
// A full report document is accepted as well and reduced to its figures.
func DecodeOverrides(data []byte) (*Overrides, error) {
	obj, err := utils.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	if _, isReport := obj["summary"]; isReport {
		m, err := DecodeReport(data)
		if err != nil {
			return nil, err
		}
		return OverridesOf(m), nil
	}
	var o Overrides
	if _, err := utils.SmartParse(string(data), &o); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return &o, nil
}
