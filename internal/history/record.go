// Package history stores committed calculation records and their snapshots.
package history

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one committed calculation. Immutable once created.
type Record struct {
	Operation string
	Operand1  decimal.Decimal
	Operand2  decimal.Decimal
	Result    decimal.Decimal
	Timestamp time.Time
}

// Summary renders the record in display form, e.g. "Addition(2, 3) = 5".
func (r Record) Summary() string {
	return fmt.Sprintf("%s(%s, %s) = %s", r.Operation, r.Operand1, r.Operand2, r.Result)
}
