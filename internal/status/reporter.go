/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package status reports the current state of stacks without changing them.
package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/hooks"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/orien/stackpilot/internal/ui"
)

// Reporter defines the interface for reporting stack status
type Reporter interface {
	// Report prints the status of the named stack, or of every stack when name is empty
	Report(ctx context.Context, stacks []*model.Stack, name string) error
}

// StatusReporter implements Reporter with one status query per stack
type StatusReporter struct {
	clientFactory aws.ClientFactory
	hooks         hooks.Runner
	out           io.Writer
	styles        *ui.Styles
	logger        *slog.Logger
}

// NewStatusReporter creates a new reporter writing to out
func NewStatusReporter(clientFactory aws.ClientFactory, hookRunner hooks.Runner, out io.Writer, styles *ui.Styles, logger *slog.Logger) *StatusReporter {
	return &StatusReporter{
		clientFactory: clientFactory,
		hooks:         hookRunner,
		out:           out,
		styles:        styles,
		logger:        logger,
	}
}

// Report walks the stacks in declared order. The first stack that does not exist ends the
// run successfully.
func (r *StatusReporter) Report(ctx context.Context, stacks []*model.Stack, name string) error {
	selected, err := resolve.Select(stacks, name)
	if err != nil {
		return err
	}

	for _, stack := range selected {
		exists, err := r.reportStack(ctx, stack)
		if err != nil {
			return err
		}
		if !exists {
			r.logger.Debug("stopping status report at missing stack", "stack", stack.Name)
			return nil
		}
	}
	return nil
}

func (r *StatusReporter) reportStack(ctx context.Context, stack *model.Stack) (bool, error) {
	if err := r.hooks.Run(ctx, stack, model.EventStatus, model.PhasePre); err != nil {
		return false, err
	}

	cfn, err := r.clientFactory.CloudFormation(ctx, stack.EffectiveRegion())
	if err != nil {
		return false, fmt.Errorf("failed to get CloudFormation operations for region %s: %w", stack.EffectiveRegion(), err)
	}

	status, err := cfn.GetStackStatus(ctx, stack.Name)
	if err != nil {
		return false, err
	}

	if status.State == aws.StateNotFound {
		fmt.Fprintf(r.out, "%s %s\n", r.styles.Prefix(stack.Name), r.styles.Subtle.Render("does not exist"))
		return false, nil
	}

	fmt.Fprintln(r.out, FormatStatus(r.styles, status))
	return true, r.hooks.Run(ctx, stack, model.EventStatus, model.PhasePost)
}

// FormatStatus renders "[name] status", followed by the reason when one is given
func FormatStatus(styles *ui.Styles, status *aws.StackStatus) string {
	style := styles.InProgress
	switch status.State {
	case aws.StateComplete:
		style = styles.Complete
	case aws.StateFailed:
		style = styles.Failed
	}

	line := styles.Prefix(status.Name) + " " + style.Render(strings.ToLower(status.Raw))
	if status.Reason != "" {
		line += " " + styles.Subtle.Render("("+status.Reason+")")
	}
	return line
}
