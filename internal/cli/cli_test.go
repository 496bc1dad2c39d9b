package cli

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandRunsREPL(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	out, err := execute(t, "add\n2\n3\nexit\n")
	require.NoError(t, err)
	require.Contains(t, out, "Calculator started. Type 'help' for commands.")
	require.Contains(t, out, "\nResult: 5")
	require.Contains(t, out, "Goodbye!")
}

func TestEvalCommandPrintsResult(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	out, err := execute(t, "", "eval", "add", "2", "3")
	require.NoError(t, err)
	require.Equal(t, "5\n", out)
}

func TestEvalCommandRejectsUnknownOperation(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	_, err := execute(t, "", "eval", "cube", "2", "3")
	require.Error(t, err)
}

func TestEvalCommandSurfacesDomainError(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	_, err := execute(t, "", "eval", "divide", "2", "0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Division by zero is not allowed")
}

func TestEvalMatchesInteractiveResults(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	evalOut, err := execute(t, "", "eval", "divide", "1", "4")
	require.NoError(t, err)

	t.Setenv("TALLY_BASE_DIR", t.TempDir())
	replOut, err := execute(t, "divide\n1\n4\nexit\n")
	require.NoError(t, err)
	require.Contains(t, replOut, "Result: "+strings.TrimSpace(evalOut))
}

func TestHistoryCommandEmpty(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	require.Contains(t, out, "No calculations in history")
}

func TestHistoryCommandReadsSavedRecords(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	_, err := execute(t, "", "eval", "add", "2", "3")
	require.NoError(t, err)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	require.Contains(t, out, "1. Addition(2, 3) = 5")
}

func TestHistoryCommandJSONFormat(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	_, err := execute(t, "", "eval", "multiply", "6", "7")
	require.NoError(t, err)

	out, err := execute(t, "", "history", "--format", "json")
	require.NoError(t, err)

	var docs []recordDoc
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	require.Equal(t, "Multiplication", docs[0].Operation)
	require.Equal(t, "42", docs[0].Result)
	require.NotEmpty(t, docs[0].Timestamp)
}

func TestHistoryCommandRejectsBadFormat(t *testing.T) {
	t.Setenv("TALLY_BASE_DIR", t.TempDir())

	_, err := execute(t, "", "history", "--format", "xml")
	require.Error(t, err)
}
