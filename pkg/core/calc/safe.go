package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

// SafeDiv returns a/b, or nil when the denominator is zero or non-finite or the
// result would not be finite. Report values are rendered directly to users, so
// NaN and Inf must never escape.
func SafeDiv(a, b float64) *float64 {
	if b == 0 || !IsFinite(b) || !IsFinite(a) {
		return nil
	}
	q := a / b
	if !IsFinite(q) {
		return nil
	}
	return &q
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// NonNeg floors v at 0; non-finite values become 0.
func NonNeg(v float64) float64 {
	if !IsFinite(v) || v < 0 {
		return 0
	}
	return v
}

// RoundCount rounds a head count half away from zero and floors it at 0.
func RoundCount(v float64) int {
	if !IsFinite(v) || v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// Resolve returns the override when present, otherwise the computed value.
func Resolve(override *float64, computed float64) float64 {
	if override != nil && IsFinite(*override) {
		return *override
	}
	return computed
}

// Ptr returns a pointer to a copy of f.
func Ptr(f float64) *float64 { return &f }

// Sum adds the finite values in decimal, so long money columns do not drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		if IsFinite(v) {
			total = total.Add(decimal.NewFromFloat(v))
		}
	}
	return total.InexactFloat64()
}

// FirstDefined tries each accessor in order and returns the first defined result.
func FirstDefined[T any](accessors ...func() (T, bool)) (T, bool) {
	for _, get := range accessors {
		if v, ok := get(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
