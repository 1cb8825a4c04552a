package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"school_budget/pkg/core/report"
)

// Schema assumption:
// CREATE TABLE IF NOT EXISTS reports (
//   id UUID PRIMARY KEY,
//   school_id TEXT,
//   academic_year TEXT,
//   report_json JSONB,
//   updated_at TIMESTAMPTZ
// );

var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("school-budget/reports"))

// ReportID is stable per school and academic year, so a rebuild overwrites.
func ReportID(schoolID, academicYear string) uuid.UUID {
	return uuid.NewSHA1(reportNamespace, []byte(schoolID+"|"+academicYear))
}

// ReportRepo persists built reports.
type ReportRepo struct {
	db  DBTX
	now func() time.Time
}

// NewReportRepo creates a new repository instance.
func NewReportRepo(db DBTX) *ReportRepo {
	return &ReportRepo{db: db, now: time.Now}
}

func saveReportStatement(id uuid.UUID, schoolID, academicYear string, data []byte, at time.Time) sq.InsertBuilder {
	return psql.Insert("reports").
		Columns("id", "school_id", "academic_year", "report_json", "updated_at").
		Values(id.String(), schoolID, academicYear, data, at).
		Suffix("ON CONFLICT (id) DO UPDATE SET report_json = EXCLUDED.report_json, updated_at = EXCLUDED.updated_at")
}

func reportQuery(id uuid.UUID) sq.SelectBuilder {
	return psql.Select("report_json").
		From("reports").
		Where(sq.Eq{"id": id.String()}).
		Limit(1)
}

// Save upserts the report and returns its ID.
func (r *ReportRepo) Save(ctx context.Context, schoolID, academicYear string, m *report.ReportModel) (uuid.UUID, error) {
	if r.db == nil {
		return uuid.Nil, fmt.Errorf("database pool not initialized")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := ReportID(schoolID, academicYear)
	query, args, err := saveReportStatement(id, schoolID, academicYear, data, r.now()).ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// Load fetches the report of one school and year.
func (r *ReportRepo) Load(ctx context.Context, schoolID, academicYear string) (*report.ReportModel, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	data, err := queryJSON(ctx, r.db, reportQuery(ReportID(schoolID, academicYear)))
	if err != nil {
		return nil, err
	}
	return report.DecodeReport(data)
}

// LoadPrior fetches the report of the academic year before the given one.
func (r *ReportRepo) LoadPrior(ctx context.Context, schoolID, academicYear string) (*report.ReportModel, error) {
	prev, ok := PreviousAcademicYear(academicYear)
	if !ok {
		return nil, fmt.Errorf("cannot derive prior year of %q: %w", academicYear, ErrNotFound)
	}
	return r.Load(ctx, schoolID, prev)
}
