package cli

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/coachpo/tally/config"
	"github.com/coachpo/tally/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Format string
}

// NewHistoryCommand creates the history inspection command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Print the saved calculation history",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSavedHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

// recordDoc is the JSON projection of a history record.
type recordDoc struct {
	Operation string `json:"operation"`
	Operand1  string `json:"operand1"`
	Operand2  string `json:"operand2"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

func printSavedHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
	}

	cfg, _, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}
	records, err := history.LoadFile(cfg.HistoryPath())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		docs := make([]recordDoc, 0, len(records))
		for _, r := range records {
			docs = append(docs, recordDoc{
				Operation: r.Operation,
				Operand1:  r.Operand1.String(),
				Operand2:  r.Operand2.String(),
				Result:    r.Result.String(),
				Timestamp: r.Timestamp.Format(time.RFC3339Nano),
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No calculations in history")
		return nil
	}
	for i, r := range records {
		fmt.Fprintf(out, "%d. %s\n", i+1, r.Summary())
	}
	return nil
}
