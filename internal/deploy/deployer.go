/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package deploy creates and updates stacks in dependency order.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/hooks"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/progress"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/orien/stackpilot/internal/stage"
	"github.com/orien/stackpilot/internal/ui"
)

// Deployer defines the interface for stack deployment operations
type Deployer interface {
	// Deploy applies the named stack, or every stack when name is empty
	Deploy(ctx context.Context, stacks []*model.Stack, name string) error
}

// StackDeployer implements Deployer against CloudFormation
type StackDeployer struct {
	submitter *Submitter
	stager    *stage.Stager
	processor resolve.TemplateProcessor
	hooks     hooks.Runner
	watcher   progress.Watcher
	out       io.Writer
	styles    *ui.Styles
	logger    *slog.Logger
	newToken  func() string
}

// NewStackDeployer creates a new StackDeployer
func NewStackDeployer(
	clientFactory aws.ClientFactory,
	processor resolve.TemplateProcessor,
	hookRunner hooks.Runner,
	watcher progress.Watcher,
	out io.Writer,
	styles *ui.Styles,
	logger *slog.Logger,
) *StackDeployer {
	return &StackDeployer{
		submitter: NewSubmitter(clientFactory),
		stager:    stage.NewStager(clientFactory),
		processor: processor,
		hooks:     hookRunner,
		watcher:   watcher,
		out:       out,
		styles:    styles,
		logger:    logger,
		newToken:  aws.NewRequestToken,
	}
}

// Deploy plans the selected stacks and applies them one at a time. The first failure
// abandons the rest of the plan.
func (d *StackDeployer) Deploy(ctx context.Context, stacks []*model.Stack, name string) error {
	if err := resolve.ValidateDependencies(stacks); err != nil {
		return err
	}

	selected, err := resolve.Select(stacks, name)
	if err != nil {
		return err
	}

	plan, err := resolve.Plan(selected, resolve.DirectionApply)
	if err != nil {
		return err
	}
	d.logger.Debug("apply plan", "stacks", model.StackNames(plan))

	for _, stack := range plan {
		if err := d.DeployStack(ctx, stack); err != nil {
			return err
		}
	}
	return nil
}

// DeployStack creates or updates a single stack and waits for the outcome
func (d *StackDeployer) DeployStack(ctx context.Context, stack *model.Stack) error {
	body, err := resolve.Render(d.processor, stack)
	if err != nil {
		return err
	}

	// Fail before any remote call when an oversized template has nowhere to go
	if err := stage.CheckTarget(stack, body); err != nil {
		return err
	}

	exists, err := d.submitter.Exists(ctx, stack)
	if err != nil {
		return err
	}
	event := model.EventCreate
	if exists {
		event = model.EventUpdate
	}
	d.logger.Debug("deploying stack", "stack", stack.Name, "event", event.String(), "region", stack.EffectiveRegion())

	if err := d.hooks.Run(ctx, stack, event, model.PhasePre); err != nil {
		return err
	}

	template, err := d.stager.Prepare(ctx, stack, body)
	if err != nil {
		return err
	}

	token := d.newToken()
	err = d.submitter.Submit(ctx, stack, event, template, token)
	switch {
	case errors.Is(err, ErrNoChanges):
		fmt.Fprintf(d.out, "%s %s\n", d.styles.Prefix(stack.Name), d.styles.Subtle.Render("no changes"))
	case err != nil:
		return err
	default:
		if _, err := d.watcher.Watch(ctx, stack, event, token); err != nil {
			return err
		}
	}

	return d.hooks.Run(ctx, stack, event, model.PhasePost)
}
