// Package validate converts raw textual operands into the decimal domain.
package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coachpo/tally/errs"
	"github.com/coachpo/tally/internal/numeric"
)

// Validator enforces operand syntax and the configured magnitude bound.
type Validator struct {
	maxMagnitude decimal.Decimal
}

// New returns a validator rejecting operands whose absolute value exceeds maxMagnitude.
func New(maxMagnitude decimal.Decimal) Validator {
	return Validator{maxMagnitude: maxMagnitude}
}

// Operand converts raw operand text to its decimal value.
func (v Validator) Operand(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	d, ok := numeric.Parse(trimmed)
	if !ok {
		return decimal.Decimal{}, errs.Validation("validate/operand", "Invalid number format: "+trimmed)
	}
	if v.maxMagnitude.Sign() > 0 && d.Abs().GreaterThan(v.maxMagnitude) {
		return decimal.Decimal{}, errs.Validation("validate/operand", "Value exceeds maximum allowed: "+trimmed)
	}
	return d, nil
}
