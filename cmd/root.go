/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package cmd wires the stackpilot command line onto the internal packages.
package cmd

import (
	"log/slog"

	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/ui"
	"github.com/spf13/cobra"
)

var (
	flags config.Flags

	// Built once per invocation in setup
	settings *config.Settings
	logger   = logging.Discard()
	styles   = ui.NewStyles(false)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stackpilot",
	Short: "Deploy declaratively defined AWS CloudFormation stacks",
	Long: `Stackpilot creates, updates, deletes and reports on CloudFormation stacks
declared in a YAML file or a Starlark script.

• Stacks are applied in dependency order and deleted in reverse
• Templates over 51,200 bytes are staged through S3
• Progress is followed through the stack event log until the operation settles
• Lifecycle hooks run shell commands around every operation

The configuration source is read from STACKPILOT_CONFIG, or from --config
when the variable is unset.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// RootCommand returns the root command with every subcommand attached
func RootCommand() *cobra.Command {
	return rootCmd
}

// setup builds the process settings, logger and styles shared by every command
func setup(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(flags)
	if err != nil {
		return err
	}
	settings = s
	logger = logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(s.LogLevel), s.Colour)
	styles = ui.NewStyles(s.Colour)
	logger.Debug("settings loaded", slog.Bool("verbose", s.Verbose), slog.String("profile", s.Profile))
	return nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.Config, "config", "c", "", "configuration file or Starlark script (STACKPILOT_CONFIG takes precedence)")
	pf.StringVarP(&flags.Profile, "profile", "p", "", "AWS shared configuration profile")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "log every stack event instead of showing a spinner")
	pf.BoolVar(&flags.NoColour, "no-colour", false, "disable coloured output")
}
