// Package operation maps textual operation names to arithmetic variants.
package operation

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coachpo/tally/errs"
	"github.com/coachpo/tally/internal/numeric"
)

// Operation is one concrete arithmetic behaviour behind a common execute contract.
type Operation interface {
	// Name returns the display name recorded in history, e.g. "Addition".
	Name() string
	// Execute applies the operation to both operands.
	Execute(a, b decimal.Decimal) (decimal.Decimal, error)
}

// Catalog resolves command names to operation variants.
type Catalog struct {
	precision int
	variants  map[string]Operation
}

// NewCatalog builds the full operation set. Division-family results are
// rounded at the given decimal scale.
func NewCatalog(precision int) *Catalog {
	c := &Catalog{precision: precision}
	c.variants = map[string]Operation{
		"add":        addition{},
		"subtract":   subtraction{},
		"multiply":   multiplication{},
		"divide":     division{scale: precision},
		"power":      power{scale: precision},
		"root":       root{scale: precision},
		"modulus":    modulus{},
		"int_divide": integerDivision{},
		"percent":    percentage{scale: precision},
	}
	return c
}

// Resolve returns the operation registered under name.
func (c *Catalog) Resolve(name string) (Operation, error) {
	op, ok := c.variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errs.Operation("operation/resolve", "Unknown operation: "+strings.TrimSpace(name))
	}
	return op, nil
}

// Names lists the registered command names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.variants))
	for name := range c.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type addition struct{}

func (addition) Name() string { return "Addition" }
func (addition) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Add(b), nil
}

type subtraction struct{}

func (subtraction) Name() string { return "Subtraction" }
func (subtraction) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Sub(b), nil
}

type multiplication struct{}

func (multiplication) Name() string { return "Multiplication" }
func (multiplication) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	return a.Mul(b), nil
}

type division struct{ scale int }

func (division) Name() string { return "Division" }
func (d division) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, errs.Operation("operation/divide", "Division by zero is not allowed")
	}
	return a.DivRound(b, int32(d.scale)), nil
}

type power struct{ scale int }

func (power) Name() string { return "Power" }
func (p power) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.Sign() < 0 {
		return decimal.Decimal{}, errs.Operation("operation/power", "Negative exponents not supported")
	}
	if b.IsInteger() {
		return a.Pow(b), nil
	}
	value := math.Pow(a.InexactFloat64(), b.InexactFloat64())
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, errs.Operation("operation/power", "Result is undefined")
	}
	return numeric.Quantize(decimal.NewFromFloat(value), p.scale), nil
}

type root struct{ scale int }

func (root) Name() string { return "Root" }
func (r root) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, errs.Operation("operation/root", "Zero root is undefined")
	}
	if a.Sign() < 0 {
		return decimal.Decimal{}, errs.Operation("operation/root", "Cannot calculate root of negative number")
	}
	value := math.Pow(a.InexactFloat64(), 1/b.InexactFloat64())
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Decimal{}, errs.Operation("operation/root", "Result is undefined")
	}
	return numeric.Quantize(decimal.NewFromFloat(value), r.scale), nil
}

type modulus struct{}

func (modulus) Name() string { return "Modulus" }
func (modulus) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, errs.Operation("operation/modulus", "Division by zero is not allowed")
	}
	return a.Mod(b), nil
}

type integerDivision struct{}

func (integerDivision) Name() string { return "IntegerDivision" }
func (integerDivision) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, errs.Operation("operation/int_divide", "Division by zero is not allowed")
	}
	q, _ := a.QuoRem(b, 0)
	return q, nil
}

type percentage struct{ scale int }

func (percentage) Name() string { return "Percentage" }
func (p percentage) Execute(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, errs.Operation("operation/percent", "Division by zero is not allowed")
	}
	return a.Mul(decimal.NewFromInt(100)).DivRound(b, int32(p.scale)), nil
}
