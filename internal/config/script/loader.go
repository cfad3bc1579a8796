/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package script loads stacks from a Starlark configuration script.
//
// Scripts declare stacks with the stacks module and may read the environment, local files,
// shell command output and HTTP endpoints through the os and http modules:
//
//	vpc = stacks.new(name = "vpc", template = os.open("vpc.yaml"), region = os.env("AWS_REGION"))
//	stacks.add(vpc)
package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orien/stackpilot/internal/config/source"
	"github.com/orien/stackpilot/internal/model"
	"go.starlark.net/starlark"
)

const (
	localContext   = "stackpilot.context"
	localCollector = "stackpilot.collector"
)

// Loader evaluates a Starlark script and collects the stacks it adds
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Starlark configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

type evalResult struct {
	stacks []*model.Stack
	err    error
}

// Load evaluates the script at location on a worker goroutine.
// Cancelling ctx cancels the Starlark thread and returns immediately.
func (l *Loader) Load(ctx context.Context, location string) ([]*model.Stack, error) {
	src, err := source.Read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read config script '%s': %w", location, err)
	}

	thread := &starlark.Thread{
		Name: location,
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug(msg, "source", location)
		},
	}
	collector := &collector{}
	thread.SetLocal(localContext, ctx)
	thread.SetLocal(localCollector, collector)

	done := make(chan evalResult, 1)
	go func() {
		_, err := starlark.ExecFile(thread, location, src, predeclared())
		if err != nil {
			done <- evalResult{err: fmt.Errorf("failed to evaluate config script '%s': %w", location, err)}
			return
		}
		done <- evalResult{stacks: collector.stacks}
	}()

	var result evalResult
	select {
	case result = <-done:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	case <-ctx.Done():
		thread.Cancel(ctx.Err().Error())
		return nil, ctx.Err()
	}
	if result.err != nil {
		return nil, result.err
	}

	if err := model.ValidateStacks(result.stacks); err != nil {
		return nil, fmt.Errorf("invalid configuration '%s': %w", location, err)
	}

	l.logger.Debug("loaded configuration", "source", location, "stacks", len(result.stacks))
	return result.stacks, nil
}

// collector accumulates stacks passed to stacks.add in call order
type collector struct {
	stacks []*model.Stack
}

func threadContext(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local(localContext).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func threadCollector(thread *starlark.Thread) (*collector, error) {
	c, ok := thread.Local(localCollector).(*collector)
	if !ok {
		return nil, fmt.Errorf("stacks.add called outside of a configuration script")
	}
	return c, nil
}
