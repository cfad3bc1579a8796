/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package ui holds the terminal styles shared by every command's output.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss/v2"
)

// Styles contains the styles used to render command output
type Styles struct {
	StackName lipgloss.Style
	Hook      lipgloss.Style

	// Stack status styles
	InProgress lipgloss.Style
	Complete   lipgloss.Style
	Failed     lipgloss.Style

	// Semantic styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Subtle  lipgloss.Style
	Bold    lipgloss.Style

	// Message panel shown beneath the interactive progress line
	Panel lipgloss.Style

	// Whether colours are enabled
	UseColour bool
}

// NewStyles builds the style set. Colours follow fang's scheme for the terminal background.
func NewStyles(useColour bool) *Styles {
	s := &Styles{UseColour: useColour}

	if !useColour {
		plain := lipgloss.NewStyle()
		s.StackName = plain
		s.Hook = plain
		s.InProgress = plain
		s.Complete = plain
		s.Failed = plain
		s.Success = plain
		s.Warning = plain
		s.Error = plain
		s.Subtle = plain
		s.Bold = plain.Bold(true)
		s.Panel = plain.PaddingLeft(2)
		return s
	}

	hasDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	scheme := fang.DefaultColorScheme(lipgloss.LightDark(hasDark))

	s.StackName = lipgloss.NewStyle().
		Bold(true).
		Foreground(scheme.Title)

	s.Hook = lipgloss.NewStyle().
		Foreground(scheme.Argument)

	s.InProgress = lipgloss.NewStyle().
		Foreground(scheme.Command)

	s.Complete = lipgloss.NewStyle().
		Foreground(scheme.Flag)

	s.Failed = lipgloss.NewStyle().
		Foreground(scheme.ErrorDetails).
		Bold(true)

	s.Success = lipgloss.NewStyle().
		Foreground(scheme.Flag)

	s.Warning = lipgloss.NewStyle().
		Foreground(scheme.Command).
		Bold(true)

	s.Error = lipgloss.NewStyle().
		Foreground(scheme.ErrorDetails).
		Bold(true)

	s.Subtle = lipgloss.NewStyle().
		Foreground(scheme.Comment)

	s.Bold = lipgloss.NewStyle().Bold(true)

	s.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(scheme.DimmedArgument).
		PaddingLeft(1)

	return s
}

// Prefix renders the "[stack]" prefix used on every output line
func (s *Styles) Prefix(stack string) string {
	return s.StackName.Render(fmt.Sprintf("[%s]", stack))
}

// HookPrefix renders the "[stack] [hook]" prefix used for hook output
func (s *Styles) HookPrefix(stack, hook string) string {
	return s.Prefix(stack) + " " + s.Hook.Render(fmt.Sprintf("[%s]", hook))
}
