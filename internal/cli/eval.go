package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEvalCommand creates the one-shot eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <operation> <operand1> <operand2>",
		Short: "Evaluate a single operation and print the result",
		Long: `Evaluate a single operation without entering the interactive session.

The calculation is committed to history exactly as an interactive one would
be, including auto-save when enabled.

Example:
  tally eval add 2 3`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return evalOnce(rootOpts, cmd, args)
		},
	}
	return cmd
}

func evalOnce(opts *RootOptions, cmd *cobra.Command, args []string) error {
	sess, err := newSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.Close()

	op, err := sess.catalog.Resolve(args[0])
	if err != nil {
		return err
	}

	if err := sess.eng.LoadHistory(); err != nil {
		return err
	}
	sess.eng.SetOperation(op)
	result, err := sess.eng.PerformOperation(args[1], args[2])
	if err != nil {
		return err
	}
	if err := sess.eng.SaveHistory(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return nil
}
