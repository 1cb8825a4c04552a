package main

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"
)

// Config is read from config/report.yaml.
type Config struct {
	ReportingCurrency string            `yaml:"reporting_currency"`
	Format            string            `yaml:"format"`
	OutDir            string            `yaml:"out_dir"`
	Parallelism       int               `yaml:"parallelism"`
	CacheDir          string            `yaml:"cache_dir"`
	Meta              map[string]string `yaml:"meta"`
}

func defaultConfig() Config {
	return Config{
		ReportingCurrency: "USD",
		Format:            "json",
		OutDir:            "out",
		Parallelism:       runtime.NumCPU(),
	}
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("[WARNING] Config %s not found, using defaults\n", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.NumCPU()
	}
	return cfg, nil
}
