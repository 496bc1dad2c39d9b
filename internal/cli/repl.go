package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/coachpo/tally/errs"
	"github.com/coachpo/tally/internal/engine"
	"github.com/coachpo/tally/internal/operation"
)

// REPL drives an interactive calculator session over the engine contract.
type REPL struct {
	eng     *engine.Engine
	catalog *operation.Catalog
}

// NewREPL wires a REPL over an engine and operation catalog.
func NewREPL(eng *engine.Engine, catalog *operation.Catalog) *REPL {
	return &REPL{eng: eng, catalog: catalog}
}

// Run processes commands line by line until exit or EOF. Earlier history is
// loaded on entry; history is saved on the way out.
func (r *REPL) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	if err := r.eng.LoadHistory(); err != nil {
		fmt.Fprintf(out, "Warning: Could not load history: %v\n", err)
	}
	fmt.Fprintln(out, "Calculator started. Type 'help' for commands.")

	for {
		fmt.Fprint(out, "\nEnter command: ")
		line, ok := readLine(scanner)
		if !ok {
			break
		}
		command := strings.ToLower(strings.TrimSpace(line))
		if command == "" {
			continue
		}
		if command == "exit" {
			break
		}
		r.dispatch(command, scanner, out)
	}

	if err := r.eng.SaveHistory(); err != nil {
		fmt.Fprintf(out, "Warning: Could not save history: %v\n", err)
	} else {
		fmt.Fprintln(out, "History saved successfully.")
	}
	fmt.Fprintln(out, "Goodbye!")
	return nil
}

func (r *REPL) dispatch(command string, scanner *bufio.Scanner, out io.Writer) {
	switch command {
	case "help":
		r.printHelp(out)
	case "history":
		r.printHistory(out)
	case "clear":
		r.eng.ClearHistory()
		fmt.Fprintln(out, "History cleared")
	case "undo":
		if r.eng.Undo() {
			fmt.Fprintln(out, "Operation undone")
		} else {
			fmt.Fprintln(out, "Nothing to undo")
		}
	case "redo":
		if r.eng.Redo() {
			fmt.Fprintln(out, "Operation redone")
		} else {
			fmt.Fprintln(out, "Nothing to redo")
		}
	case "save":
		if err := r.eng.SaveHistory(); err != nil {
			fmt.Fprintf(out, "Error saving history: %v\n", err)
		} else {
			fmt.Fprintln(out, "History saved successfully")
		}
	case "load":
		if err := r.eng.LoadHistory(); err != nil {
			fmt.Fprintf(out, "Error loading history: %v\n", err)
		} else {
			fmt.Fprintln(out, "History loaded successfully")
		}
	default:
		r.runOperation(command, scanner, out)
	}
}

func (r *REPL) runOperation(name string, scanner *bufio.Scanner, out io.Writer) {
	op, err := r.catalog.Resolve(name)
	if err != nil {
		fmt.Fprintf(out, "Unknown command: '%s'. Type 'help' for available commands.\n", name)
		return
	}

	fmt.Fprintln(out, "\nEnter numbers (or 'cancel' to abort):")
	first, ok := r.promptOperand(scanner, out, "First number: ")
	if !ok {
		fmt.Fprintln(out, "Operation cancelled")
		return
	}
	second, ok := r.promptOperand(scanner, out, "Second number: ")
	if !ok {
		fmt.Fprintln(out, "Operation cancelled")
		return
	}

	r.eng.SetOperation(op)
	result, err := r.eng.PerformOperation(first, second)
	switch {
	case err == nil:
		fmt.Fprintf(out, "\nResult: %s\n", result)
	case errs.IsValidation(err) || errs.IsOperation(err):
		fmt.Fprintf(out, "Error: %v\n", err)
	default:
		fmt.Fprintf(out, "Unexpected error: %v\n", err)
	}
}

func (r *REPL) promptOperand(scanner *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	fmt.Fprint(out, prompt)
	line, ok := readLine(scanner)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(line)
	if strings.EqualFold(trimmed, "cancel") {
		return "", false
	}
	return trimmed, true
}

func (r *REPL) printHistory(out io.Writer) {
	index := 0
	for line := range r.eng.ShowHistory() {
		if index == 0 {
			fmt.Fprintln(out, "\nCalculation History:")
		}
		index++
		fmt.Fprintf(out, "%d. %s\n", index, line)
	}
	if index == 0 {
		fmt.Fprintln(out, "No calculations in history")
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, "\nAvailable commands:")
	fmt.Fprintf(out, "  %s - perform calculations\n", strings.Join(r.catalog.Names(), ", "))
	fmt.Fprintln(out, "  history - show calculation history")
	fmt.Fprintln(out, "  clear - clear calculation history")
	fmt.Fprintln(out, "  undo - undo the last calculation")
	fmt.Fprintln(out, "  redo - redo the last undone calculation")
	fmt.Fprintln(out, "  save - save calculation history to file")
	fmt.Fprintln(out, "  load - load calculation history from file")
	fmt.Fprintln(out, "  exit - exit the calculator")
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return scanner.Text(), true
}
