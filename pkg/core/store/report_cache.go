package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"school_budget/pkg/core/report"
)

// CacheEntry is the on-disk form of a cached report.
type CacheEntry struct {
	ID           string              `json:"id"`
	SchoolID     string              `json:"schoolId"`
	AcademicYear string              `json:"academicYear"`
	Report       *report.ReportModel `json:"report"`
	BuiltAt      time.Time           `json:"builtAt"`
}

// ReportCache keeps built reports in the database when one is configured and
// in a directory of JSON files otherwise (or in addition).
type ReportCache struct {
	repo    *ReportRepo
	fileDir string
}

// NewReportCache creates a cache. Either argument may be empty.
func NewReportCache(repo *ReportRepo, fileDir string) *ReportCache {
	if fileDir != "" {
		if err := os.MkdirAll(fileDir, 0755); err != nil {
			fmt.Printf("[WARNING] Failed to create cache dir %s: %v\n", fileDir, err)
		}
	}
	return &ReportCache{repo: repo, fileDir: fileDir}
}

// Get returns the cached report, or ErrNotFound.
func (c *ReportCache) Get(ctx context.Context, schoolID, academicYear string) (*report.ReportModel, error) {
	// 1. Database
	if c.repo != nil {
		m, err := c.repo.Load(ctx, schoolID, academicYear)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrNotFound) {
			fmt.Printf("[WARNING] Report cache DB lookup failed: %v\n", err)
		}
	}

	// 2. Files
	if c.fileDir != "" {
		entry, err := c.loadEntry(c.path(schoolID, academicYear))
		if err == nil && entry.Report != nil {
			return entry.Report, nil
		}
	}
	return nil, ErrNotFound
}

// GetPrior returns the cached report of the previous academic year.
func (c *ReportCache) GetPrior(ctx context.Context, schoolID, academicYear string) (*report.ReportModel, error) {
	prev, ok := PreviousAcademicYear(academicYear)
	if !ok {
		return nil, ErrNotFound
	}
	return c.Get(ctx, schoolID, prev)
}

// Save writes the report to every configured backend.
func (c *ReportCache) Save(ctx context.Context, schoolID, academicYear string, m *report.ReportModel) error {
	if c.repo != nil {
		if _, err := c.repo.Save(ctx, schoolID, academicYear, m); err != nil {
			return err
		}
	}

	if c.fileDir != "" {
		entry := CacheEntry{
			ID:           ReportID(schoolID, academicYear).String(),
			SchoolID:     schoolID,
			AcademicYear: academicYear,
			Report:       m,
			BuiltAt:      time.Now(),
		}
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal cache entry: %w", err)
		}
		if err := os.WriteFile(c.path(schoolID, academicYear), data, 0644); err != nil {
			return fmt.Errorf("failed to save to file cache: %w", err)
		}
	}
	return nil
}

// Exists reports whether a report is cached.
func (c *ReportCache) Exists(ctx context.Context, schoolID, academicYear string) bool {
	_, err := c.Get(ctx, schoolID, academicYear)
	return err == nil
}

func (c *ReportCache) path(schoolID, academicYear string) string {
	return filepath.Join(c.fileDir, ReportID(schoolID, academicYear).String()+".json")
}

func (c *ReportCache) loadEntry(path string) (*CacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
