package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coachpo/tally/config"
	"github.com/coachpo/tally/errs"
	"github.com/coachpo/tally/internal/history"
	"github.com/coachpo/tally/internal/operation"
)

type recorderObserver struct {
	records []history.Record
	fail    error
}

func (r *recorderObserver) OnNewRecord(rec history.Record) error {
	if r.fail != nil {
		return r.fail
	}
	r.records = append(r.records, rec)
	return nil
}

func newTestEngine(t *testing.T, opts ...config.Option) *Engine {
	t.Helper()
	cfg := config.Apply(config.Default(), append([]config.Option{config.WithBaseDir(t.TempDir())}, opts...)...)
	eng, err := New(cfg, nil)
	require.NoError(t, err)
	return eng
}

func selectOp(t *testing.T, eng *Engine, name string) {
	t.Helper()
	op, err := operation.NewCatalog(10).Resolve(name)
	require.NoError(t, err)
	eng.SetOperation(op)
}

func TestNewEngineStartsEmpty(t *testing.T) {
	eng := newTestEngine(t)
	require.Zero(t, len(eng.History()))
	require.Empty(t, eng.undoStack)
	require.Empty(t, eng.redoStack)
	require.Nil(t, eng.selection)
}

func TestPerformOperationAddition(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")

	result, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)
	require.True(t, result.Equal(decimal.NewFromInt(5)))

	records := eng.History()
	require.Len(t, records, 1)
	require.Equal(t, "Addition", records[0].Operation)
	require.Len(t, eng.undoStack, 1)
	require.Empty(t, eng.redoStack)
}

func TestPerformOperationWithoutSelection(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.PerformOperation("2", "3")
	require.Error(t, err)
	require.True(t, errs.IsOperation(err))
	require.EqualError(t, err, "No operation set")
	require.Zero(t, len(eng.History()))
	require.Empty(t, eng.undoStack)
}

func TestPerformOperationValidationFailureLeavesStateUnchanged(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")

	_, err := eng.PerformOperation("invalid", "3")
	require.Error(t, err)
	require.True(t, errs.IsValidation(err))
	require.Zero(t, len(eng.History()))
	require.Empty(t, eng.undoStack)
}

func TestPerformOperationDomainFailureLeavesStateUnchanged(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "divide")

	_, err := eng.PerformOperation("2", "0")
	require.Error(t, err)
	require.True(t, errs.IsOperation(err))
	require.Zero(t, len(eng.History()))
	require.Empty(t, eng.undoStack)
	require.Empty(t, eng.redoStack)
}

func TestUndoOnEmptyStack(t *testing.T) {
	eng := newTestEngine(t)
	require.False(t, eng.Undo())
	require.Zero(t, len(eng.History()))
}

func TestUndoThenRedoRoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)

	require.True(t, eng.Undo())
	require.Zero(t, len(eng.History()))

	require.True(t, eng.Redo())
	records := eng.History()
	require.Len(t, records, 1)
	require.Equal(t, "Addition", records[0].Operation)
	require.True(t, records[0].Result.Equal(decimal.NewFromInt(5)))
}

func TestRedoOnEmptyStack(t *testing.T) {
	eng := newTestEngine(t)
	require.False(t, eng.Redo())
}

func TestNewPerformInvalidatesRedo(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)
	require.True(t, eng.Undo())
	require.NotEmpty(t, eng.redoStack)

	_, err = eng.PerformOperation("1", "1")
	require.NoError(t, err)
	require.Empty(t, eng.redoStack)
	require.False(t, eng.Redo())
}

func TestUndoStackBounded(t *testing.T) {
	eng := newTestEngine(t, config.WithMaxHistorySize(3))
	selectOp(t, eng, "add")
	for range 5 {
		_, err := eng.PerformOperation("1", "1")
		require.NoError(t, err)
	}
	require.Len(t, eng.undoStack, 3)
	require.Equal(t, 3, len(eng.History()))
}

func TestClearHistoryEmptiesEverything(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)
	require.True(t, eng.Undo())
	require.True(t, eng.Redo())

	eng.ClearHistory()
	require.Zero(t, len(eng.History()))
	require.Empty(t, eng.undoStack)
	require.Empty(t, eng.redoStack)
}

func TestShowHistoryIsRestartable(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "2")
	require.NoError(t, err)
	selectOp(t, eng, "multiply")
	_, err = eng.PerformOperation("3", "3")
	require.NoError(t, err)

	seq := eng.ShowHistory()
	for range 2 {
		var lines []string
		for line := range seq {
			lines = append(lines, line)
		}
		require.Equal(t, []string{"Addition(2, 2) = 4", "Multiplication(3, 3) = 9"}, lines)
	}
}

func TestShowHistoryEmpty(t *testing.T) {
	eng := newTestEngine(t)
	count := 0
	for range eng.ShowHistory() {
		count++
	}
	require.Zero(t, count)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Apply(config.Default(), config.WithBaseDir(dir))

	eng, err := New(cfg, nil)
	require.NoError(t, err)
	selectOp(t, eng, "add")
	_, err = eng.PerformOperation("2", "3")
	require.NoError(t, err)
	require.NoError(t, eng.SaveHistory())

	fresh, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, fresh.LoadHistory())

	records := fresh.History()
	require.Len(t, records, 1)
	require.Equal(t, "Addition", records[0].Operation)
	require.True(t, records[0].Operand1.Equal(decimal.NewFromInt(2)))
	require.True(t, records[0].Operand2.Equal(decimal.NewFromInt(3)))
	require.True(t, records[0].Result.Equal(decimal.NewFromInt(5)))
	require.Empty(t, fresh.undoStack)
	require.Empty(t, fresh.redoStack)
}

func TestLoadHistoryMissingFileIsEmptyBaseline(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)

	require.NoError(t, eng.LoadHistory())
	require.Zero(t, len(eng.History()))
	require.Empty(t, eng.undoStack)
	require.Empty(t, eng.redoStack)
}

func TestSaveIsIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)

	require.NoError(t, eng.SaveHistory())
	require.NoError(t, eng.SaveHistory())

	fresh, err := New(eng.cfg, nil)
	require.NoError(t, err)
	require.NoError(t, fresh.LoadHistory())
	require.Equal(t, 1, len(fresh.History()))
}

func TestObserverReceivesCommittedRecordsInOrder(t *testing.T) {
	eng := newTestEngine(t)
	obs := &recorderObserver{}
	eng.AddObserver(obs)

	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)
	selectOp(t, eng, "subtract")
	_, err = eng.PerformOperation("5", "1")
	require.NoError(t, err)

	require.Len(t, obs.records, 2)
	require.Equal(t, "Addition", obs.records[0].Operation)
	require.Equal(t, "Subtraction", obs.records[1].Operation)
}

func TestRemovedObserverReceivesNothing(t *testing.T) {
	eng := newTestEngine(t)
	obs := &recorderObserver{}
	eng.AddObserver(obs)
	eng.RemoveObserver(obs)

	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)
	require.Empty(t, obs.records)
}

func TestRemoveNonMemberObserverIsNoop(t *testing.T) {
	eng := newTestEngine(t)
	require.NotPanics(t, func() { eng.RemoveObserver(&recorderObserver{}) })
}

func TestAddObserverHasSetSemantics(t *testing.T) {
	eng := newTestEngine(t)
	obs := &recorderObserver{}
	eng.AddObserver(obs)
	eng.AddObserver(obs)

	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.NoError(t, err)
	require.Len(t, obs.records, 1)
}

func TestFailingObserverStopsNotificationButKeepsRecord(t *testing.T) {
	eng := newTestEngine(t)
	boom := errors.New("observer exploded")
	first := &recorderObserver{fail: boom}
	second := &recorderObserver{}
	eng.AddObserver(first)
	eng.AddObserver(second)

	selectOp(t, eng, "add")
	_, err := eng.PerformOperation("2", "3")
	require.ErrorIs(t, err, boom)

	require.Equal(t, 1, len(eng.History()))
	require.Empty(t, second.records)
}
