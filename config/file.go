package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fileSettings mirrors the YAML document layout. Scalar fields stay pointers
// so absent keys fall through to the base settings.
type fileSettings struct {
	BaseDir        *string `yaml:"baseDir"`
	HistoryFile    *string `yaml:"historyFile"`
	LogFile        *string `yaml:"logFile"`
	MaxHistorySize *int    `yaml:"maxHistorySize"`
	Precision      *int    `yaml:"precision"`
	MaxInputValue  *string `yaml:"maxInputValue"`
	AutoSave       *bool   `yaml:"autoSave"`
}

// LoadFile loads a calculator configuration YAML document from disk and
// overlays it on the environment-derived settings.
func LoadFile(path string) (Settings, error) {
	base := FromEnv()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	var doc fileSettings
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg, err := doc.overlay(base)
	if err != nil {
		return Settings{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// LoadOrDefault resolves settings from an optional YAML file path. The second
// return value reports whether a file contributed to the result; a missing
// file is not an error.
func LoadOrDefault(path string) (Settings, bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("TALLY_CONFIG"))
	}
	if path == "" {
		cfg := FromEnv()
		return cfg, false, cfg.Validate()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := FromEnv()
		return cfg, false, cfg.Validate()
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Settings{}, false, err
	}
	return cfg, true, nil
}

func (f fileSettings) overlay(base Settings) (Settings, error) {
	cfg := base
	if f.BaseDir != nil {
		cfg.BaseDir = strings.TrimSpace(*f.BaseDir)
	}
	if f.HistoryFile != nil {
		cfg.HistoryFile = strings.TrimSpace(*f.HistoryFile)
	}
	if f.LogFile != nil {
		cfg.LogFile = strings.TrimSpace(*f.LogFile)
	}
	if f.MaxHistorySize != nil {
		cfg.MaxHistorySize = *f.MaxHistorySize
	}
	if f.Precision != nil {
		cfg.Precision = *f.Precision
	}
	if f.MaxInputValue != nil {
		d, err := decimal.NewFromString(strings.TrimSpace(*f.MaxInputValue))
		if err != nil {
			return Settings{}, fmt.Errorf("parse maxInputValue: %w", err)
		}
		cfg.MaxInputValue = d
	}
	if f.AutoSave != nil {
		cfg.AutoSave = *f.AutoSave
	}
	return cfg, nil
}
