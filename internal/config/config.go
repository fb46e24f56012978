// Package config provides Viper-based configuration loading for the memory game.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"memory/internal/game/memory"
)

// BoardConfig holds the board dimensions.
type BoardConfig struct {
	Rows    int `mapstructure:"rows"`
	Columns int `mapstructure:"columns"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// StorageConfig locates the session journal.
type StorageConfig struct {
	// Path is the SQLite DSN. ":memory:" keeps the journal inside the process.
	Path string `mapstructure:"path"`
}

// Config is the top-level application configuration.
type Config struct {
	Board   BoardConfig   `mapstructure:"board"`
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	if err := validateBoard(c.Board); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Path == "" {
		errs = append(errs, "storage.path must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBoard(b BoardConfig) error {
	var errs []string
	if b.Rows < 1 {
		errs = append(errs, fmt.Sprintf("board.rows must be >= 1, got %d", b.Rows))
	}
	if b.Columns < 1 {
		errs = append(errs, fmt.Sprintf("board.columns must be >= 1, got %d", b.Columns))
	}
	if b.Rows > memory.MaxSide {
		errs = append(errs, fmt.Sprintf("board.rows must be <= %d, got %d", memory.MaxSide, b.Rows))
	}
	if b.Columns > memory.MaxSide {
		errs = append(errs, fmt.Sprintf("board.columns must be <= %d, got %d", memory.MaxSide, b.Columns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	cells := b.Rows * b.Columns
	if cells%2 != 0 {
		errs = append(errs, fmt.Sprintf("board must have an even number of cells, got %d", cells))
	}
	if cells/2 > memory.MaxPairs {
		errs = append(errs, fmt.Sprintf("board must hold at most %d pairs, got %d", memory.MaxPairs, cells/2))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load applies defaults and MEMORY_-prefixed environment overrides, then
// validates the result.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEMORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("board.rows", memory.DefaultRows)
	v.SetDefault("board.columns", memory.DefaultColumns)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("storage.path", ":memory:")
}
