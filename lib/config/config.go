// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dbgpipe/lib/fifo"
)

const (
	// DefaultLogLevel is the log level without a config file or flag.
	DefaultLogLevel = "warn"

	// DefaultLineEditing is the line editing mode without a config
	// file or flag.
	DefaultLineEditing = "auto"
)

// Config is the complete dbgpipe configuration.
type Config struct {
	// Inbound is the pipe the debugger writes its output to.
	// Default: /tmp/debugger.lua.out
	Inbound string `yaml:"inbound"`

	// Outbound is the pipe the debugger reads its input from.
	// Default: /tmp/debugger.lua.in
	Outbound string `yaml:"outbound"`

	// FIFOMode is the permission mode for pipes dbgpipe creates.
	// Written in octal, e.g. "0600" or 0o600.
	// Default: 0600
	FIFOMode FileMode `yaml:"fifo_mode"`

	// LogLevel is the minimum level logged to stderr.
	// Values: debug, info, warn, error
	// Default: warn
	LogLevel string `yaml:"log_level"`

	// LineEditing selects interactive line editing.
	// Values: auto (when stdin is a terminal), on, off
	// Default: auto
	LineEditing string `yaml:"line_editing"`
}

// FileMode is an fs.FileMode that decodes from an octal YAML scalar.
type FileMode fs.FileMode

// UnmarshalYAML accepts "0600", "0o600", and "600" as octal.
func (m *FileMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: fifo_mode must be an octal number", node.Line)
	}
	value := strings.TrimPrefix(strings.TrimPrefix(node.Value, "0o"), "0O")
	parsed, err := strconv.ParseUint(value, 8, 32)
	if err != nil {
		return fmt.Errorf("line %d: fifo_mode %q is not an octal number", node.Line, node.Value)
	}
	*m = FileMode(parsed)
	return nil
}

// MarshalYAML writes the mode back in octal.
func (m FileMode) MarshalYAML() (any, error) {
	return fmt.Sprintf("%04o", uint32(m)), nil
}

// Perm returns the mode as permission bits.
func (m FileMode) Perm() fs.FileMode {
	return fs.FileMode(m).Perm()
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		Inbound:     fifo.DefaultInbound,
		Outbound:    fifo.DefaultOutbound,
		FIFOMode:    FileMode(fifo.DefaultMode),
		LogLevel:    DefaultLogLevel,
		LineEditing: DefaultLineEditing,
	}
}

// LoadFile loads configuration from a specific file path. Fields the
// file omits keep their [Default] values.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Inbound = expandVars(c.Inbound, vars)
	c.Outbound = expandVars(c.Outbound, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Inbound == "" {
		errs = append(errs, fmt.Errorf("inbound is required"))
	}
	if c.Outbound == "" {
		errs = append(errs, fmt.Errorf("outbound is required"))
	}
	if c.Inbound != "" && c.Inbound == c.Outbound {
		errs = append(errs, fmt.Errorf("inbound and outbound must be different pipes (both %s)", c.Inbound))
	}

	if c.FIFOMode.Perm() != fs.FileMode(c.FIFOMode) {
		errs = append(errs, fmt.Errorf("fifo_mode %04o has bits outside the permission mask", uint32(c.FIFOMode)))
	}
	if c.FIFOMode.Perm()&0o600 != 0o600 {
		errs = append(errs, fmt.Errorf("fifo_mode %04o must grant the owner read and write", uint32(c.FIFOMode)))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	switch c.LineEditing {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Errorf("invalid line_editing: %s (expected auto, on, or off)", c.LineEditing))
	}

	return errors.Join(errs...)
}
