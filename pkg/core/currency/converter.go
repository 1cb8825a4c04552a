// Package currency converts scenario amounts into the reporting currency.
//
// Two independent paths exist. Planning figures use the scenario's own FX rate;
// realized (historical) figures use the prior scenario's stored rate or, failing
// that, the separately entered realized rate. The two rates are entered at
// different times by different people and are never mixed.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"

	"school_budget/pkg/core/calc"
)

const (
	// InputLocal marks amounts entered in the school's local currency.
	InputLocal = "local"
	// InputReporting marks amounts already entered in the reporting currency.
	InputReporting = "usd"

	DefaultReportingCurrency = "USD"
)

// Meta describes how one academic year's amounts were entered.
type Meta struct {
	InputCurrency     string  `json:"inputCurrency"`
	FxUsdToLocal      float64 `json:"fxUsdToLocal"`
	ReportingCurrency string  `json:"reportingCurrency,omitempty"`
	LocalCurrencyCode string  `json:"localCurrencyCode,omitempty"`
}

// NeedsConversion reports whether amounts must be divided by an FX rate.
func (m Meta) NeedsConversion() bool {
	return strings.EqualFold(strings.TrimSpace(m.InputCurrency), InputLocal)
}

// HasRate reports whether the FX rate is usable.
func (m Meta) HasRate() bool {
	return calc.IsFinite(m.FxUsdToLocal) && m.FxUsdToLocal > 0
}

// Reporting returns the reporting currency code, defaulting to USD.
func (m Meta) Reporting() string {
	if code := strings.TrimSpace(m.ReportingCurrency); code != "" {
		return strings.ToUpper(code)
	}
	return DefaultReportingCurrency
}

// Label describes the conversion for report headers, e.g. "TRY → USD @ 32.5".
func (m Meta) Label() string {
	if !m.NeedsConversion() {
		return m.Reporting()
	}
	local := strings.ToUpper(strings.TrimSpace(m.LocalCurrencyCode))
	if local == "" {
		local = "LOCAL"
	}
	if !m.HasRate() {
		return local + " → " + m.Reporting() + " @ ?"
	}
	return local + " → " + m.Reporting() + " @ " + decimal.NewFromFloat(m.FxUsdToLocal).String()
}

// Converter holds the rates for one build. It is a value type; each build
// constructs its own.
type Converter struct {
	current     Meta
	prior       *Meta
	realizedFx  float64
	performance Meta
}

// NewConverter builds a converter for the current scenario. prior may be nil;
// realizedFx is the historical rate typed in next to the realized actuals.
func NewConverter(current Meta, prior *Meta, realizedFx float64) Converter {
	c := Converter{current: current, prior: prior, realizedFx: realizedFx}

	// Realized figures are entered in the same currency mode as the prior year
	// when that is known, otherwise as the current scenario.
	perf := current
	if prior != nil && strings.TrimSpace(prior.InputCurrency) != "" {
		perf.InputCurrency = prior.InputCurrency
	}
	perf.FxUsdToLocal = 0
	switch {
	case prior != nil && prior.HasRate():
		perf.FxUsdToLocal = prior.FxUsdToLocal
	case calc.IsFinite(realizedFx) && realizedFx > 0:
		perf.FxUsdToLocal = realizedFx
	}
	c.performance = perf
	return c
}

// Current returns the planning-time currency metadata.
func (c Converter) Current() Meta { return c.current }

// Performance returns the metadata used for realized figures.
func (c Converter) Performance() Meta { return c.performance }

// ToReporting converts a planning amount. Amounts pass through unchanged when
// no conversion is needed or no positive rate exists; non-finite input is 0.
func (c Converter) ToReporting(value float64) float64 {
	if !calc.IsFinite(value) {
		return 0
	}
	if !c.current.NeedsConversion() || !c.current.HasRate() {
		return value
	}
	return divide(value, c.current.FxUsdToLocal)
}

// ToReportingForPerformance converts a realized amount. It returns nil, not 0,
// when conversion is required but no valid rate exists, so variance analysis
// can tell "zero" from "unknown".
func (c Converter) ToReportingForPerformance(value float64) *float64 {
	if !calc.IsFinite(value) {
		return nil
	}
	if !c.performance.NeedsConversion() {
		return calc.Ptr(value)
	}
	if !c.performance.HasRate() {
		return nil
	}
	return calc.Ptr(divide(value, c.performance.FxUsdToLocal))
}

// ToReportingOpt converts an optional planning amount, keeping absence.
func (c Converter) ToReportingOpt(v calc.OptNum) *float64 {
	if !v.Set {
		return nil
	}
	return calc.Ptr(c.ToReporting(v.Value))
}

func divide(value, rate float64) float64 {
	return decimal.NewFromFloat(value).Div(decimal.NewFromFloat(rate)).InexactFloat64()
}
