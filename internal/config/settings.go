/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package config holds process settings and the loaders that turn a configuration source into stacks.
package config

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-shellwords"
)

// DefaultLinter is the local template linter used by check when STACKPILOT_LINTER is unset
const DefaultLinter = "cfn-lint"

// ErrConfigurationMissing is returned when neither STACKPILOT_CONFIG nor --config names a source
var ErrConfigurationMissing = errors.New("no configuration source: set STACKPILOT_CONFIG or pass --config")

// Flags carries the persistent command line flags
type Flags struct {
	Config   string
	Profile  string
	Verbose  bool
	NoColour bool
}

// environment is the subset of the process environment the tool reads
type environment struct {
	Config  string `env:"STACKPILOT_CONFIG"`
	Log     string `env:"STACKPILOT_LOG" envDefault:"info"`
	Linter  string `env:"STACKPILOT_LINTER"`
	NoColor string `env:"NO_COLOR"`
}

// Settings is built once at process start and handed to every component that needs it
type Settings struct {
	ConfigEnv  string
	ConfigFlag string
	Profile    string
	LogLevel   string
	Verbose    bool
	Colour     bool
	Linter     string
}

// LoadSettings merges the process environment with the parsed flags
func LoadSettings(flags Flags) (*Settings, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return &Settings{
		ConfigEnv:  e.Config,
		ConfigFlag: flags.Config,
		Profile:    flags.Profile,
		LogLevel:   e.Log,
		Verbose:    flags.Verbose || e.Log == "debug",
		Colour:     !flags.NoColour && e.NoColor == "",
		Linter:     e.Linter,
	}, nil
}

// Source returns the configuration source. The environment takes precedence over the flag.
func (s *Settings) Source() (string, error) {
	switch {
	case s.ConfigEnv != "":
		return s.ConfigEnv, nil
	case s.ConfigFlag != "":
		return s.ConfigFlag, nil
	default:
		return "", ErrConfigurationMissing
	}
}

// LinterCommand returns the argv of the local linter, or nil when none is available
func (s *Settings) LinterCommand() ([]string, error) {
	if s.Linter != "" {
		args, err := shellwords.Parse(s.Linter)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STACKPILOT_LINTER: %w", err)
		}
		return args, nil
	}

	if path, err := exec.LookPath(DefaultLinter); err == nil {
		return []string{path}, nil
	}
	return nil, nil
}
