/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/ui"
)

// Renderer presents the progress of one watch at a time
type Renderer interface {
	Begin(stack string)
	Status(stack string, status *aws.StackStatus)
	Event(stack string, event aws.StackEvent)
	Message(stack, message string)
	End(stack string, result *Result)
}

// NewRenderer returns the verbose renderer when verbose is set and the interactive one otherwise
func NewRenderer(verbose bool, out io.Writer, styles *ui.Styles, logger *slog.Logger) Renderer {
	if verbose {
		return NewVerboseRenderer(out, styles, logger)
	}
	return NewInteractiveRenderer(out, styles, logger)
}

// StatusText returns the lower-case status shown to the user
func StatusText(result *Result) string {
	switch {
	case result.State == StateNotFound:
		return "does not exist"
	case result.Status != nil && result.Status.Raw != "":
		return strings.ToLower(result.Status.Raw)
	default:
		return result.State.String()
	}
}

// Summary renders the final status line followed by any collected messages
func Summary(styles *ui.Styles, stack string, result *Result) string {
	var style = styles.InProgress
	switch result.State {
	case StateTerminalSuccess, StateNotFound:
		style = styles.Complete
	case StateTerminalFailure, StateAborted:
		style = styles.Failed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styles.Prefix(stack), style.Render(StatusText(result)))
	if len(result.Messages) > 0 {
		b.WriteString(styles.Panel.Render(strings.Join(result.Messages, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

// VerboseRenderer logs every status transition and every new event
type VerboseRenderer struct {
	out        io.Writer
	styles     *ui.Styles
	logger     *slog.Logger
	lastStatus string
}

// NewVerboseRenderer creates a renderer logging through logger
func NewVerboseRenderer(out io.Writer, styles *ui.Styles, logger *slog.Logger) *VerboseRenderer {
	return &VerboseRenderer{out: out, styles: styles, logger: logger}
}

func (r *VerboseRenderer) Begin(stack string) {
	r.lastStatus = ""
	r.logger.Info("watching stack", "stack", stack)
}

func (r *VerboseRenderer) Status(stack string, status *aws.StackStatus) {
	if status.Raw == r.lastStatus {
		return
	}
	r.lastStatus = status.Raw
	r.logger.Info("stack status", "stack", stack, "status", status.Raw)
}

func (r *VerboseRenderer) Event(stack string, event aws.StackEvent) {
	attrs := []any{
		"stack", stack,
		"resource", event.LogicalResourceID,
		"type", event.ResourceType,
		"status", event.Status,
	}
	if event.Reason != "" {
		attrs = append(attrs, "reason", event.Reason)
	}
	if event.Failed {
		r.logger.Warn("stack event", attrs...)
		return
	}
	r.logger.Info("stack event", attrs...)
}

// Message is a no-op; messages are printed with the summary
func (r *VerboseRenderer) Message(string, string) {}

func (r *VerboseRenderer) End(stack string, result *Result) {
	_, _ = io.WriteString(r.out, Summary(r.styles, stack, result))
}
