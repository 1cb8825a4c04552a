// Command reportbuilder builds school budget reports from scenario documents,
// read from files or from Postgres, and writes them as JSON, Markdown or HTML.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"school_budget/pkg/core/currency"
	"school_budget/pkg/core/report"
	"school_budget/pkg/core/store"
	"school_budget/pkg/core/utils"
	"school_budget/pkg/core/validate"
	"school_budget/pkg/models"
)

type options struct {
	scenarios     []string
	prior         string
	priorScenario string
	previous      string
	outDir        string
	format        string
	configPath    string
	schoolID      string
	year          string
}

type job struct {
	name     string
	schoolID string
	year     string
	scenario *models.Scenario
}

type runner struct {
	cfg           Config
	cache         *store.ReportCache
	scenarios     *store.ScenarioRepo
	previous      *report.Overrides
	prior         *report.PriorSummary
	priorCurrency *currency.Meta
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var opts options
	var scenarioList string
	flag.StringVar(&scenarioList, "scenario", "", "comma-separated scenario files (.json or .hjson)")
	flag.StringVar(&opts.prior, "prior", "", "prior academic year's report (JSON)")
	flag.StringVar(&opts.priorScenario, "prior-scenario", "", "prior academic year's scenario, for its currency settings")
	flag.StringVar(&opts.previous, "previous", "", "overrides or an earlier report of the same scenario")
	flag.StringVar(&opts.outDir, "out", "", "output directory")
	flag.StringVar(&opts.format, "format", "", "json, md or html")
	flag.StringVar(&opts.configPath, "config", "", "config file")
	flag.StringVar(&opts.schoolID, "school", "", "school ID (database mode, or cache key)")
	flag.StringVar(&opts.year, "year", "", "academic year (database mode)")
	flag.Parse()

	for _, p := range strings.Split(scenarioList, ",") {
		if p = strings.TrimSpace(p); p != "" {
			opts.scenarios = append(opts.scenarios, p)
		}
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("REPORT_CONFIG")
	}
	if cfgPath == "" {
		cfgPath = "config/report.yaml"
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if err := run(context.Background(), cfg, opts); err != nil {
		log.Fatalf("[Report] %v", err)
	}
}

func run(ctx context.Context, cfg Config, opts options) error {
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.outDir != "" {
		cfg.OutDir = opts.outDir
	}
	if _, err := extensionFor(cfg.Format); err != nil {
		return err
	}

	r := &runner{cfg: cfg}
	var repo *store.ReportRepo
	if len(opts.scenarios) == 0 {
		if opts.schoolID == "" || opts.year == "" {
			return errors.New("either -scenario or both -school and -year are required")
		}
		if err := store.InitDB(ctx); err != nil {
			return fmt.Errorf("database unavailable: %w", err)
		}
		defer store.Close()
		db := store.GetPool()
		r.scenarios = store.NewScenarioRepo(db)
		repo = store.NewReportRepo(db)
	}
	r.cache = store.NewReportCache(repo, cfg.CacheDir)

	// 1. Inputs shared by every job
	if err := r.loadShared(opts); err != nil {
		return err
	}

	// 2. Scenarios
	jobs, err := r.loadJobs(ctx, opts)
	if err != nil {
		return err
	}

	// 3. Builds
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			return r.process(gctx, j)
		})
	}
	return g.Wait()
}

func (r *runner) loadShared(opts options) error {
	if opts.previous != "" {
		data, err := os.ReadFile(opts.previous)
		if err != nil {
			return fmt.Errorf("failed to read overrides: %w", err)
		}
		if r.previous, err = report.DecodeOverrides(data); err != nil {
			return err
		}
	}
	if opts.prior != "" {
		data, err := os.ReadFile(opts.prior)
		if err != nil {
			return fmt.Errorf("failed to read prior report: %w", err)
		}
		m, err := report.DecodeReport(data)
		if err != nil {
			return err
		}
		r.prior = report.PriorSummaryOf(m)
	}
	if opts.priorScenario != "" {
		s, err := readScenario(opts.priorScenario)
		if err != nil {
			return err
		}
		meta := report.MetaFrom(s.BasicInfo)
		r.priorCurrency = &meta
	}
	return nil
}

func (r *runner) loadJobs(ctx context.Context, opts options) ([]job, error) {
	if r.scenarios != nil {
		s, err := r.scenarios.Load(ctx, opts.schoolID, opts.year)
		if err != nil {
			return nil, err
		}
		if r.priorCurrency == nil {
			if prev, ok := store.PreviousAcademicYear(opts.year); ok {
				if ps, err := r.scenarios.Load(ctx, opts.schoolID, prev); err == nil {
					meta := report.MetaFrom(ps.BasicInfo)
					r.priorCurrency = &meta
				} else if !errors.Is(err, store.ErrNotFound) {
					log.Printf("[Report] prior scenario unavailable: %v", err)
				}
			}
		}
		return []job{{
			name:     opts.schoolID + "_" + opts.year,
			schoolID: opts.schoolID,
			year:     opts.year,
			scenario: s,
		}}, nil
	}

	// Jobs run concurrently, so two of them must never share an output file
	// or a cache entry.
	jobs := make([]job, 0, len(opts.scenarios))
	names := map[string]string{}
	cacheKeys := map[string]string{}
	for _, path := range opts.scenarios {
		s, err := readScenario(path)
		if err != nil {
			return nil, err
		}
		j := job{
			name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			schoolID: opts.schoolID,
			year:     strings.TrimSpace(s.BasicInfo.AcademicYear.String()),
			scenario: s,
		}
		if prev, dup := names[j.name]; dup {
			return nil, fmt.Errorf("%s and %s would both write %s output", prev, path, j.name)
		}
		names[j.name] = path
		if j.schoolID != "" && j.year != "" {
			key := j.schoolID + "|" + j.year
			if prev, dup := cacheKeys[key]; dup {
				return nil, fmt.Errorf("%s and %s are both %s %s", prev, path, j.schoolID, j.year)
			}
			cacheKeys[key] = path
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (r *runner) process(ctx context.Context, j job) error {
	in := report.Input{
		Scenario:      j.scenario,
		Previous:      r.previous,
		PriorReport:   r.prior,
		PriorCurrency: r.priorCurrency,
		Meta:          r.cfg.Meta,
	}
	cached := j.schoolID != "" && j.year != ""
	if in.PriorReport == nil && cached {
		if m, err := r.cache.GetPrior(ctx, j.schoolID, j.year); err == nil {
			in.PriorReport = report.PriorSummaryOf(m)
		}
	}
	if meta := report.MetaFrom(j.scenario.BasicInfo); meta.ReportingCurrency == "" && r.cfg.ReportingCurrency != "" {
		meta.ReportingCurrency = r.cfg.ReportingCurrency
		in.CurrentCurrency = &meta
	}

	m, err := report.Build(in)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	for _, f := range validate.Report(m, in.PriorReport, validate.Options{}) {
		log.Printf("[Validate] %s: %s: %s", j.name, f.Item, f.Reason)
	}
	if cached {
		if err := r.cache.Save(ctx, j.schoolID, j.year, m); err != nil {
			log.Printf("[Report] %s: cache save failed: %v", j.name, err)
		}
	}

	data, err := render(m, r.cfg.Format)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	ext, _ := extensionFor(r.cfg.Format)
	if err := os.MkdirAll(r.cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(r.cfg.OutDir, j.name+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[Report] %s -> %s (revenue %.2f, expense %.2f, %d students)",
		j.name, path, m.Summary.TotalRevenue, m.Summary.TotalExpense, m.Summary.TotalStudents)
	return nil
}

func readScenario(path string) (*models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".hjson") {
		converted, err := utils.ParseHJSON(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		data = []byte(converted)
	}
	s, err := report.DecodeScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func extensionFor(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return ".json", nil
	case "md", "markdown":
		return ".md", nil
	case "html":
		return ".html", nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func render(m *report.ReportModel, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return []byte(report.RenderMarkdown(m)), nil
	case "html":
		out, err := report.RenderHTML(m)
		return []byte(out), err
	}
	return json.MarshalIndent(m, "", "  ")
}
