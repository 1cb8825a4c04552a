package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"school_budget/pkg/core/report"
	"school_budget/pkg/models"
)

// Schema assumption:
// CREATE TABLE IF NOT EXISTS scenarios (
//   school_id TEXT,
//   academic_year TEXT,
//   scenario_json JSONB,
//   updated_at TIMESTAMPTZ,
//   PRIMARY KEY (school_id, academic_year)
// );

// ScenarioRepo reads scenario documents saved by the entry forms.
type ScenarioRepo struct {
	db DBTX
}

// NewScenarioRepo creates a new repository instance.
func NewScenarioRepo(db DBTX) *ScenarioRepo {
	return &ScenarioRepo{db: db}
}

func scenarioQuery(schoolID, academicYear string) sq.SelectBuilder {
	return psql.Select("scenario_json").
		From("scenarios").
		Where(sq.Eq{"school_id": schoolID}).
		Where(sq.Eq{"academic_year": academicYear}).
		Limit(1)
}

// LoadRaw returns the stored document as is.
func (r *ScenarioRepo) LoadRaw(ctx context.Context, schoolID, academicYear string) ([]byte, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	return queryJSON(ctx, r.db, scenarioQuery(schoolID, academicYear))
}

// Load fetches and decodes a scenario.
func (r *ScenarioRepo) Load(ctx context.Context, schoolID, academicYear string) (*models.Scenario, error) {
	data, err := r.LoadRaw(ctx, schoolID, academicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s/%s: %w", schoolID, academicYear, err)
	}
	return report.DecodeScenario(data)
}

// PreviousAcademicYear steps an academic year back: "2025-2026" -> "2024-2025",
// "2025" -> "2024".
func PreviousAcademicYear(year string) (string, bool) {
	year = strings.TrimSpace(year)
	parts := strings.Split(year, "-")
	if len(parts) > 2 {
		return "", false
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return "", false
		}
		out = append(out, strconv.Itoa(n-1))
	}
	return strings.Join(out, "-"), true
}
