// Package engine coordinates operation execution, bounded undo/redo history,
// and observer notification for a single calculator session.
package engine

import (
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coachpo/tally/config"
	"github.com/coachpo/tally/errs"
	"github.com/coachpo/tally/internal/history"
	"github.com/coachpo/tally/internal/observability"
	"github.com/coachpo/tally/internal/operation"
	"github.com/coachpo/tally/internal/validate"
)

// Engine owns the current operation selection, the history store, the
// undo/redo snapshot stacks, and the observer list. It is used by exactly one
// logical session at a time.
type Engine struct {
	cfg       config.Settings
	logger    observability.Logger
	session   string
	validator validate.Validator

	selection operation.Operation
	store     *history.Store
	undoStack []history.Snapshot
	redoStack []history.Snapshot
	observers []Observer
	now       func() time.Time
}

// New constructs an engine from validated settings. A nil logger is replaced
// with a no-op logger.
func New(cfg config.Settings, logger observability.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observability.Nop()
	}
	e := &Engine{
		cfg:       cfg,
		logger:    logger,
		session:   uuid.NewString(),
		validator: validate.New(cfg.MaxInputValue),
		store:     history.NewStore(cfg.MaxHistorySize),
		now:       time.Now,
	}
	e.logger.Info("calculator initialized",
		observability.F("session", e.session),
		observability.F("history_file", cfg.HistoryPath()),
		observability.F("max_history_size", cfg.MaxHistorySize),
	)
	return e, nil
}

// SetOperation replaces the current operation selection. Always succeeds.
func (e *Engine) SetOperation(op operation.Operation) {
	e.selection = op
}

// PerformOperation validates both operands, executes the selected operation,
// commits the resulting record, and notifies observers in registration order.
// On any failure before the commit the engine state is unchanged.
func (e *Engine) PerformOperation(aRaw, bRaw string) (decimal.Decimal, error) {
	if e.selection == nil {
		return decimal.Decimal{}, errs.Operation("engine/perform", "No operation set")
	}

	a, err := e.validator.Operand(aRaw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	b, err := e.validator.Operand(bRaw)
	if err != nil {
		return decimal.Decimal{}, err
	}

	result, err := e.selection.Execute(a, b)
	if err != nil {
		return decimal.Decimal{}, err
	}

	record := history.Record{
		Operation: e.selection.Name(),
		Operand1:  a,
		Operand2:  b,
		Result:    result,
		Timestamp: e.now(),
	}

	e.pushUndo(e.store.Snapshot())
	e.redoStack = nil
	e.store.Append(record)

	e.logger.Info("calculation performed",
		observability.F("session", e.session),
		observability.F("operation", record.Operation),
		observability.F("operand1", record.Operand1.String()),
		observability.F("operand2", record.Operand2.String()),
		observability.F("result", record.Result.String()),
	)

	// Commit-then-notify: a failing observer cannot roll back the record.
	// Notification stops at the first failure and the error propagates.
	for _, obs := range e.observers {
		if err := obs.OnNewRecord(record); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Undo restores the history to the most recent snapshot. It reports false
// when there is nothing to undo.
func (e *Engine) Undo() bool {
	if len(e.undoStack) == 0 {
		return false
	}
	snap := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.redoStack = append(e.redoStack, e.store.Snapshot())
	e.store.Restore(snap)
	return true
}

// Redo re-applies the most recently undone state. It reports false when
// there is nothing to redo.
func (e *Engine) Redo() bool {
	if len(e.redoStack) == 0 {
		return false
	}
	snap := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.undoStack = append(e.undoStack, e.store.Snapshot())
	e.store.Restore(snap)
	return true
}

// ClearHistory empties the history store and both snapshot stacks.
func (e *Engine) ClearHistory() {
	e.store.Clear()
	e.undoStack = nil
	e.redoStack = nil
	e.logger.Info("history cleared", observability.F("session", e.session))
}

// ShowHistory returns a lazy, restartable sequence of record summaries in
// chronological order.
func (e *Engine) ShowHistory() iter.Seq[string] {
	records := e.store.Records()
	return func(yield func(string) bool) {
		for _, r := range records {
			if !yield(r.Summary()) {
				return
			}
		}
	}
}

// History returns a copy of the committed records in chronological order.
func (e *Engine) History() []history.Record {
	return e.store.Records()
}

// SaveHistory overwrites the configured history file. Repeated saves are
// idempotent; an empty history still writes the header row.
func (e *Engine) SaveHistory() error {
	path := e.cfg.HistoryPath()
	if err := history.SaveFile(path, e.store.Records()); err != nil {
		return errs.Operation("history/save", "Failed to save history", errs.WithCause(err))
	}
	e.logger.Info("history saved",
		observability.F("session", e.session),
		observability.F("path", path),
		observability.F("records", e.store.Len()),
	)
	return nil
}

// LoadHistory replaces the in-memory history with the persisted file,
// discarding both snapshot stacks. A missing file establishes an empty
// baseline rather than an error.
func (e *Engine) LoadHistory() error {
	path := e.cfg.HistoryPath()
	records, err := history.LoadFile(path)
	if err != nil {
		if errs.IsOperation(err) {
			return err
		}
		return errs.Operation("history/load", "Failed to load history", errs.WithCause(err))
	}
	e.store.Restore(records)
	e.undoStack = nil
	e.redoStack = nil
	e.logger.Info("history loaded",
		observability.F("session", e.session),
		observability.F("path", path),
		observability.F("records", e.store.Len()),
	)
	return nil
}

// AddObserver registers an observer with set semantics; re-adding a member
// is a no-op. Observers are notified in registration order.
func (e *Engine) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	for _, existing := range e.observers {
		if existing == obs {
			return
		}
	}
	e.observers = append(e.observers, obs)
}

// RemoveObserver deregisters an observer. Removing a non-member is a no-op.
func (e *Engine) RemoveObserver(obs Observer) {
	for i, existing := range e.observers {
		if existing == obs {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

func (e *Engine) pushUndo(snap history.Snapshot) {
	e.undoStack = append(e.undoStack, snap)
	if max := e.cfg.MaxHistorySize; max > 0 && len(e.undoStack) > max {
		excess := len(e.undoStack) - max
		e.undoStack = e.undoStack[excess:]
	}
}
