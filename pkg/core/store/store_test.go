package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"school_budget/pkg/core/report"
)

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

type fakeDB struct {
	rows     map[string][]byte // keyed by first arg
	lastSQL  string
	lastArgs []any
	execErr  error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if f.rows == nil {
		f.rows = map[string][]byte{}
	}
	f.rows[args[0].(string)] = args[3].([]byte)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	data, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func TestScenarioQuery(t *testing.T) {
	query, args, err := scenarioQuery("tbilisi", "2025-2026").ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	want := "SELECT scenario_json FROM scenarios WHERE school_id = $1 AND academic_year = $2 LIMIT 1"
	if query != want {
		t.Errorf("Expected %q, got %q", want, query)
	}
	if len(args) != 2 || args[0] != "tbilisi" || args[1] != "2025-2026" {
		t.Errorf("Unexpected args %v", args)
	}
}

func TestSaveReportStatement(t *testing.T) {
	id := ReportID("tbilisi", "2025-2026")
	query, args, err := saveReportStatement(id, "tbilisi", "2025-2026", []byte(`{}`), time.Unix(0, 0)).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.HasPrefix(query, "INSERT INTO reports (id,school_id,academic_year,report_json,updated_at) VALUES ($1,$2,$3,$4,$5)") {
		t.Errorf("Unexpected insert: %q", query)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (id) DO UPDATE SET report_json = EXCLUDED.report_json, updated_at = EXCLUDED.updated_at") {
		t.Errorf("Missing upsert clause: %q", query)
	}
	if len(args) != 5 || args[0] != id.String() {
		t.Errorf("Unexpected args %v", args)
	}
}

func TestReportIDIsStable(t *testing.T) {
	a := ReportID("tbilisi", "2025-2026")
	if a != ReportID("tbilisi", "2025-2026") {
		t.Error("Expected the same ID for the same school and year")
	}
	if a == ReportID("tbilisi", "2024-2025") {
		t.Error("Expected different IDs for different years")
	}
}

func TestPreviousAcademicYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-2026", "2024-2025", true},
		{" 2025 ", "2024", true},
		{"", "", false},
		{"next year", "", false},
		{"2024-2025-2026", "", false},
	}
	for _, tt := range tests {
		got, ok := PreviousAcademicYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PreviousAcademicYear(%q) = %q, %v; expected %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScenarioRepoLoad(t *testing.T) {
	db := &fakeDB{rows: map[string][]byte{
		"tbilisi": []byte(`{"basicInfo": {"schoolName": "Maarif Tiflis"}}`),
	}}
	s, err := NewScenarioRepo(db).Load(context.Background(), "tbilisi", "2025-2026")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.BasicInfo.SchoolName.String() != "Maarif Tiflis" {
		t.Errorf("Expected school name, got %q", s.BasicInfo.SchoolName.String())
	}

	_, err = NewScenarioRepo(db).Load(context.Background(), "baku", "2025-2026")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReportRepoRoundTrip(t *testing.T) {
	db := &fakeDB{}
	repo := NewReportRepo(db)
	ctx := context.Background()

	m := &report.ReportModel{Header: report.Header{SchoolName: "Maarif Tiflis", AcademicYear: "2024-2025"}}
	id, err := repo.Save(ctx, "tbilisi", "2024-2025", m)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id != ReportID("tbilisi", "2024-2025") {
		t.Errorf("Unexpected ID %s", id)
	}

	prior, err := repo.LoadPrior(ctx, "tbilisi", "2025-2026")
	if err != nil {
		t.Fatalf("LoadPrior failed: %v", err)
	}
	if prior.Header.SchoolName != "Maarif Tiflis" {
		t.Errorf("Expected stored report, got %+v", prior.Header)
	}

	if _, err := repo.Load(ctx, "tbilisi", "2030-2031"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReportRepoSaveError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	if _, err := NewReportRepo(db).Save(context.Background(), "tbilisi", "2025-2026", &report.ReportModel{}); err == nil {
		t.Error("Expected error from failing Exec")
	}
}

func TestReportCacheFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	cache := NewReportCache(nil, dir)
	ctx := context.Background()

	if cache.Exists(ctx, "tbilisi", "2024-2025") {
		t.Fatal("Expected empty cache")
	}

	m := &report.ReportModel{
		Header:  report.Header{SchoolName: "Maarif Tiflis"},
		Summary: report.Summary{TotalRevenue: 425000, TotalStudents: 85},
	}
	if err := cache.Save(ctx, "tbilisi", "2024-2025", m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ReportID("tbilisi", "2024-2025").String()+".json")); err != nil {
		t.Errorf("Expected cache file: %v", err)
	}

	got, err := cache.GetPrior(ctx, "tbilisi", "2025-2026")
	if err != nil {
		t.Fatalf("GetPrior failed: %v", err)
	}
	if got.Summary.TotalRevenue != 425000 || got.Summary.TotalStudents != 85 {
		t.Errorf("Unexpected summary %+v", got.Summary)
	}
}

func TestReportCachePrefersDatabase(t *testing.T) {
	db := &fakeDB{}
	cache := NewReportCache(NewReportRepo(db), t.TempDir())
	ctx := context.Background()

	m := &report.ReportModel{Header: report.Header{SchoolName: "Maarif Tiflis"}}
	if err := cache.Save(ctx, "tbilisi", "2025-2026", m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(db.rows) != 1 {
		t.Errorf("Expected one database row, got %d", len(db.rows))
	}
	if !cache.Exists(ctx, "tbilisi", "2025-2026") {
		t.Error("Expected cached report")
	}
	if _, err := cache.Get(ctx, "baku", "2025-2026"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
