// Package config centralises runtime configuration helpers for the tally calculator.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coachpo/tally/errs"
)

const (
	defaultMaxHistorySize = 1000
	defaultPrecision      = 10
	defaultMaxInputValue  = "1e999"

	historyDirName  = "history"
	historyFileName = "calculator_history.csv"
	logDirName      = "logs"
	logFileName     = "calculator.log"
)

// Settings contains the calculator configuration tree loaded from defaults and overrides.
type Settings struct {
	// BaseDir anchors the derived history and log paths.
	BaseDir string
	// HistoryFile overrides the derived history CSV path when set.
	HistoryFile string
	// LogFile overrides the derived log path when set.
	LogFile string
	// MaxHistorySize bounds the in-memory history and the undo/redo stacks.
	MaxHistorySize int
	// Precision is the decimal scale applied to division-family results.
	Precision int
	// MaxInputValue is the largest operand magnitude accepted by validation.
	MaxInputValue decimal.Decimal
	// AutoSave persists history after every committed calculation.
	AutoSave bool
}

// Default returns the default calculator configuration.
func Default() Settings {
	return Settings{
		BaseDir:        ".",
		HistoryFile:    "",
		LogFile:        "",
		MaxHistorySize: defaultMaxHistorySize,
		Precision:      defaultPrecision,
		MaxInputValue:  decimal.RequireFromString(defaultMaxInputValue),
		AutoSave:       true,
	}
}

// FromEnv loads configuration values from environment variables, overriding defaults.
func FromEnv() Settings {
	cfg := Default()

	if v := strings.TrimSpace(os.Getenv("TALLY_BASE_DIR")); v != "" {
		cfg.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TALLY_HISTORY_FILE")); v != "" {
		cfg.HistoryFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TALLY_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TALLY_MAX_HISTORY_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxHistorySize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TALLY_PRECISION")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Precision = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TALLY_MAX_INPUT_VALUE")); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.MaxInputValue = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("TALLY_AUTO_SAVE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoSave = b
		}
	}

	return cfg
}

// Option mutates Settings when applied via Apply.
type Option func(*Settings)

// Apply applies the provided Option set to a copy of the base Settings.
func Apply(base Settings, opts ...Option) Settings {
	cfg := base
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithBaseDir overrides the configuration base directory.
func WithBaseDir(dir string) Option {
	trimmed := strings.TrimSpace(dir)
	return func(s *Settings) {
		if trimmed != "" {
			s.BaseDir = trimmed
		}
	}
}

// WithMaxHistorySize overrides the history and undo/redo bound.
func WithMaxHistorySize(n int) Option {
	return func(s *Settings) {
		if n > 0 {
			s.MaxHistorySize = n
		}
	}
}

// WithPrecision overrides the result scale for division-family operations.
func WithPrecision(n int) Option {
	return func(s *Settings) {
		if n >= 0 {
			s.Precision = n
		}
	}
}

// WithAutoSave toggles persistence after each committed calculation.
func WithAutoSave(enabled bool) Option {
	return func(s *Settings) {
		s.AutoSave = enabled
	}
}

// HistoryPath resolves the history CSV location.
func (s Settings) HistoryPath() string {
	if strings.TrimSpace(s.HistoryFile) != "" {
		return s.HistoryFile
	}
	return filepath.Join(s.BaseDir, historyDirName, historyFileName)
}

// LogPath resolves the structured log location.
func (s Settings) LogPath() string {
	if strings.TrimSpace(s.LogFile) != "" {
		return s.LogFile
	}
	return filepath.Join(s.BaseDir, logDirName, logFileName)
}

// Validate performs semantic validation on the settings.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.BaseDir) == "" && strings.TrimSpace(s.HistoryFile) == "" {
		return errs.New("config", errs.CodeConfig, errs.WithMessage("base directory required"))
	}
	if s.MaxHistorySize <= 0 {
		return errs.New("config", errs.CodeConfig, errs.WithMessage("max history size must be positive"))
	}
	if s.Precision < 0 {
		return errs.New("config", errs.CodeConfig, errs.WithMessage("precision must not be negative"))
	}
	if s.MaxInputValue.Sign() <= 0 {
		return errs.New("config", errs.CodeConfig, errs.WithMessage("max input value must be positive"))
	}
	return nil
}
