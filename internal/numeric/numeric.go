// Package numeric provides helpers for decimal conversions used across the calculator.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a decimal string into the numeric domain type.
// On failure, it returns (zero, false).
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Canonical renders d in its canonical string form, safe for round-tripping
// through the history file without binary floating-point loss.
func Canonical(d decimal.Decimal) string {
	return d.String()
}

// Quantize rounds d to at most scale fractional digits. Values already within
// the scale pass through untouched.
func Quantize(d decimal.Decimal, scale int) decimal.Decimal {
	if int(d.Exponent()) >= -scale {
		return d
	}
	return d.Round(int32(scale))
}
