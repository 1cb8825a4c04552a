package kademe

import (
	"slices"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/models"
)

// Config is the repaired state of one tier.
type Config struct {
	Enabled bool   `json:"enabled"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Configs maps every catalog tier key to its repaired configuration.
type Configs map[string]Config

// Normalize repairs a possibly partial tier map against the catalog. The result
// always covers every catalog tier; malformed input degrades to defaults.
func Normalize(raw map[string]models.RawKademe) Configs {
	byKey := make(map[string]models.RawKademe, len(raw))
	for k, v := range raw {
		byKey[calc.NormalizeKey(k)] = v
	}

	out := make(Configs, len(catalog))
	for _, def := range catalog {
		entry, present := byKey[calc.NormalizeKey(def.Key)]
		cfg := Config{Enabled: true, From: def.DefaultFrom, To: def.DefaultTo}
		if !present {
			out[def.Key] = cfg
			continue
		}
		if entry.Enabled.IsFalse() {
			cfg.Enabled = false
		}

		from, okFrom := NormalizeGrade(entry.From.String())
		to, okTo := NormalizeGrade(entry.To.String())
		if okFrom && okTo {
			if GradeIndex(from) > GradeIndex(to) {
				from, to = to, from
			}
			cfg.From, cfg.To = from, to
		}
		out[def.Key] = cfg
	}
	return out
}

// IsEnabled reports whether the tier is enabled; unknown keys are not.
func (c Configs) IsEnabled(key string) bool {
	cfg, ok := c[key]
	return ok && cfg.Enabled
}

// Enabled returns the enabled tier keys in catalog order.
func (c Configs) Enabled() []string {
	var keys []string
	for _, def := range catalog {
		if c.IsEnabled(def.Key) {
			keys = append(keys, def.Key)
		}
	}
	return keys
}

// Grades lists the grades covered by a tier, in order.
func (c Configs) Grades(key string) []string {
	cfg, ok := c[key]
	if !ok {
		return nil
	}
	lo, hi := GradeIndex(cfg.From), GradeIndex(cfg.To)
	if lo < 0 || hi < 0 {
		return nil
	}
	return append([]string(nil), gradeOrder[lo:hi+1]...)
}

// TierForGrade returns the first enabled tier whose range contains grade.
func (c Configs) TierForGrade(grade string) (string, bool) {
	for _, key := range c.Enabled() {
		if slices.Contains(c.Grades(key), grade) {
			return key, true
		}
	}
	return "", false
}
