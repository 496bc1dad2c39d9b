package engine

import (
	"github.com/coachpo/tally/internal/history"
	"github.com/coachpo/tally/internal/observability"
)

// Observer is notified synchronously after each committed calculation.
type Observer interface {
	OnNewRecord(record history.Record) error
}

// LoggingObserver writes a structured log line per committed record.
type LoggingObserver struct {
	logger observability.Logger
}

// NewLoggingObserver builds an observer logging through the provided logger.
func NewLoggingObserver(logger observability.Logger) *LoggingObserver {
	if logger == nil {
		logger = observability.Nop()
	}
	return &LoggingObserver{logger: logger}
}

// OnNewRecord implements Observer.
func (o *LoggingObserver) OnNewRecord(record history.Record) error {
	o.logger.Info("calculation recorded",
		observability.F("operation", record.Operation),
		observability.F("operand1", record.Operand1.String()),
		observability.F("operand2", record.Operand2.String()),
		observability.F("result", record.Result.String()),
		observability.F("timestamp", record.Timestamp),
	)
	return nil
}

// Saver persists history on demand. The engine satisfies it.
type Saver interface {
	SaveHistory() error
}

// AutoSaveObserver persists history after every committed calculation when
// enabled.
type AutoSaveObserver struct {
	saver   Saver
	enabled bool
}

// NewAutoSaveObserver builds an observer saving through the provided Saver.
func NewAutoSaveObserver(saver Saver, enabled bool) *AutoSaveObserver {
	return &AutoSaveObserver{saver: saver, enabled: enabled}
}

// OnNewRecord implements Observer.
func (o *AutoSaveObserver) OnNewRecord(history.Record) error {
	if !o.enabled || o.saver == nil {
		return nil
	}
	return o.saver.SaveHistory()
}
