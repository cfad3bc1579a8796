/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package delete removes stacks in reverse dependency order.
package delete

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/hooks"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/progress"
	"github.com/orien/stackpilot/internal/resolve"
)

// Deleter defines the interface for stack deletion operations
type Deleter interface {
	// Delete removes the named stack, or every stack when name is empty
	Delete(ctx context.Context, stacks []*model.Stack, name string) error
}

// StackDeleter implements Deleter using AWS CloudFormation
type StackDeleter struct {
	clientFactory aws.ClientFactory
	hooks         hooks.Runner
	watcher       progress.Watcher
	logger        *slog.Logger
	newToken      func() string
}

// NewStackDeleter creates a new StackDeleter
func NewStackDeleter(clientFactory aws.ClientFactory, hookRunner hooks.Runner, watcher progress.Watcher, logger *slog.Logger) *StackDeleter {
	return &StackDeleter{
		clientFactory: clientFactory,
		hooks:         hookRunner,
		watcher:       watcher,
		logger:        logger,
		newToken:      aws.NewRequestToken,
	}
}

// Delete plans the selected stacks in delete order, dependents first, and removes them one at a time
func (d *StackDeleter) Delete(ctx context.Context, stacks []*model.Stack, name string) error {
	if err := resolve.ValidateDependencies(stacks); err != nil {
		return err
	}

	selected, err := resolve.Select(stacks, name)
	if err != nil {
		return err
	}

	plan, err := resolve.Plan(selected, resolve.DirectionDelete)
	if err != nil {
		return err
	}
	d.logger.Debug("delete plan", "stacks", model.StackNames(plan))

	for _, stack := range plan {
		if err := d.DeleteStack(ctx, stack); err != nil {
			return err
		}
	}
	return nil
}

// DeleteStack deletes one stack and waits until it is gone. A stack that is already gone is success.
func (d *StackDeleter) DeleteStack(ctx context.Context, stack *model.Stack) error {
	if err := d.hooks.Run(ctx, stack, model.EventDelete, model.PhasePre); err != nil {
		return err
	}

	cfn, err := d.clientFactory.CloudFormation(ctx, stack.EffectiveRegion())
	if err != nil {
		return fmt.Errorf("failed to get CloudFormation operations for region %s: %w", stack.EffectiveRegion(), err)
	}

	d.logger.Debug("deleting stack", "stack", stack.Name, "region", stack.EffectiveRegion())
	token := d.newToken()
	if err := cfn.DeleteStack(ctx, stack.Name, token); err != nil {
		return err
	}

	if _, err := d.watcher.Watch(ctx, stack, model.EventDelete, token); err != nil {
		return err
	}

	return d.hooks.Run(ctx, stack, model.EventDelete, model.PhasePost)
}
