// Package cli assembles the tally command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachpo/tally/config"
	"github.com/coachpo/tally/internal/engine"
	"github.com/coachpo/tally/internal/observability"
	"github.com/coachpo/tally/internal/operation"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the tally CLI. Running it with
// no subcommand starts the interactive session.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "tally - an interactive calculator with persistent history",
		Long:          "An interactive command-line calculator with persistent history, undo/redo, and pluggable arithmetic operations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr as well as the log file")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// session bundles everything a command needs to talk to the engine.
type session struct {
	cfg     config.Settings
	eng     *engine.Engine
	catalog *operation.Catalog
	closer  io.Closer
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func newSession(opts *RootOptions, errOut io.Writer) (*session, error) {
	cfg, fromFile, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger, closer, err := observability.NewFile(cfg.LogPath())
	if err != nil {
		// A read-only location must not keep the calculator from running.
		fmt.Fprintf(errOut, "Warning: Could not open log file: %v\n", err)
		logger, closer = observability.Nop(), nil
	}
	if opts.Verbose {
		logger = teeLogger{file: logger, console: observability.New(errOut)}
	}
	if fromFile {
		logger.Info("configuration loaded", observability.F("path", opts.ConfigPath))
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	eng.AddObserver(engine.NewLoggingObserver(logger))
	eng.AddObserver(engine.NewAutoSaveObserver(eng, cfg.AutoSave))

	return &session{
		cfg:     cfg,
		eng:     eng,
		catalog: operation.NewCatalog(cfg.Precision),
		closer:  closer,
	}, nil
}

func runREPL(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := newSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.Close()

	return NewREPL(sess.eng, sess.catalog).Run(cmd.InOrStdin(), cmd.OutOrStdout())
}

// teeLogger duplicates entries to the log file and the console.
type teeLogger struct {
	file    observability.Logger
	console observability.Logger
}

func (t teeLogger) Debug(msg string, fields ...observability.Field) {
	t.file.Debug(msg, fields...)
	t.console.Debug(msg, fields...)
}

func (t teeLogger) Info(msg string, fields ...observability.Field) {
	t.file.Info(msg, fields...)
	t.console.Info(msg, fields...)
}

func (t teeLogger) Error(msg string, fields ...observability.Field) {
	t.file.Error(msg, fields...)
	t.console.Error(msg, fields...)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
