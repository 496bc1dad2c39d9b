package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/coachpo/tally/errs"
	"github.com/coachpo/tally/internal/numeric"
)

var csvHeader = []string{"operation", "operand1", "operand2", "result", "timestamp"}

// WriteAll serializes records in chronological order. An empty sequence still
// produces the header row.
func WriteAll(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Operation,
			numeric.Canonical(r.Operand1),
			numeric.Canonical(r.Operand2),
			numeric.Canonical(r.Result),
			r.Timestamp.Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

// ReadAll parses an entire history document. Any malformed row fails the
// whole read; there is no partial result.
func ReadAll(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errs.Operation("history/load", "Malformed history data", errs.WithCause(err))
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if !isHeader(rows[0]) {
		return nil, errs.Operation("history/load", "Malformed history data: missing header row")
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, errs.Operation("history/load",
				fmt.Sprintf("Malformed history row %d", i+1), errs.WithCause(err))
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveFile overwrites the history file at path, creating parent directories
// as needed. Saving is idempotent.
func SaveFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	if err := WriteAll(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history file: %w", err)
	}
	return nil
}

// LoadFile reads the history file at path. A missing file is a clean
// "no history" condition and yields (nil, nil).
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}

func isHeader(row []string) bool {
	if len(row) != len(csvHeader) {
		return false
	}
	for i, col := range csvHeader {
		if row[i] != col {
			return false
		}
	}
	return true
}

func parseRow(row []string) (Record, error) {
	operand1, ok := numeric.Parse(row[1])
	if !ok {
		return Record{}, fmt.Errorf("parse operand1 %q", row[1])
	}
	operand2, ok := numeric.Parse(row[2])
	if !ok {
		return Record{}, fmt.Errorf("parse operand2 %q", row[2])
	}
	result, ok := numeric.Parse(row[3])
	if !ok {
		return Record{}, fmt.Errorf("parse result %q", row[3])
	}
	ts, err := time.Parse(time.RFC3339Nano, row[4])
	if err != nil {
		return Record{}, fmt.Errorf("parse timestamp: %w", err)
	}
	return Record{
		Operation: row[0],
		Operand1:  operand1,
		Operand2:  operand2,
		Result:    result,
		Timestamp: ts,
	}, nil
}
