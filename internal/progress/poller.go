/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package progress watches a submitted stack operation until CloudFormation reports an outcome.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
)

// Poll intervals
const (
	StatusInterval = 2 * time.Second
	LogInterval    = 4 * time.Second
)

// State is the outcome of watching a stack
type State int

const (
	StatePolling State = iota
	StateTerminalSuccess
	StateTerminalFailure
	StateNotFound
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateTerminalSuccess:
		return "succeeded"
	case StateTerminalFailure:
		return "failed"
	case StateNotFound:
		return "not found"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result is what a watch observed
type Result struct {
	State    State
	Status   *aws.StackStatus
	Messages []string
}

// WaitFunc blocks for d or until ctx is done
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the WaitFunc used outside tests
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Watcher follows a stack operation to its end
type Watcher interface {
	Watch(ctx context.Context, stack *model.Stack, event model.Event, token string) (*Result, error)
}

// Poller implements Watcher by polling stack status and the stack event log
type Poller struct {
	clientFactory aws.ClientFactory
	renderer      Renderer
	logger        *slog.Logger
	wait          WaitFunc
}

// NewPoller creates a poller reporting to renderer
func NewPoller(clientFactory aws.ClientFactory, renderer Renderer, logger *slog.Logger) *Poller {
	return &Poller{
		clientFactory: clientFactory,
		renderer:      renderer,
		logger:        logger,
		wait:          Sleep,
	}
}

// WithWait replaces the wait between polls
func (p *Poller) WithWait(wait WaitFunc) *Poller {
	p.wait = wait
	return p
}

// Watch polls until the stack reaches a terminal state. Failed events raised by the operation
// submitted with token are collected once each. A stack that disappears is success for a delete and an abort otherwise.
// A terminal failure returns the result together with an *OperationFailedError. Custom resource
// log failures are returned as *CustomResourceError values while the state stays as observed.
func (p *Poller) Watch(ctx context.Context, stack *model.Stack, event model.Event, token string) (*Result, error) {
	cfn, err := p.clientFactory.CloudFormation(ctx, stack.EffectiveRegion())
	if err != nil {
		return nil, fmt.Errorf("failed to get CloudFormation client: %w", err)
	}

	result := &Result{State: StatePolling}
	p.renderer.Begin(stack.Name)
	defer func() { p.renderer.End(stack.Name, result) }()

	err = p.poll(ctx, cfn, stack, event, token, result)
	if err != nil {
		return result, err
	}

	// log collection never changes the observed state but its failures fail the operation
	var logErr error
	if result.State == StateTerminalSuccess || result.State == StateTerminalFailure {
		var blocks []string
		blocks, logErr = p.customResourceLogs(ctx, cfn, stack)
		for _, block := range blocks {
			result.Messages = append(result.Messages, block)
			p.renderer.Message(stack.Name, block)
		}
	}

	if result.State == StateTerminalFailure {
		return result, errors.Join(&OperationFailedError{
			Stack:  stack.Name,
			Status: result.Status.Raw,
			Reason: result.Status.Reason,
		}, logErr)
	}
	return result, logErr
}

func (p *Poller) poll(ctx context.Context, cfn aws.CloudFormationOperations, stack *model.Stack, event model.Event, token string, result *Result) error {
	seenEvents := NewEventMemory()
	messages := NewEventMemory()

	for {
		status, err := cfn.GetStackStatus(ctx, stack.Name)
		if err != nil {
			result.State = StateAborted
			return &PollAbortedError{Stack: stack.Name, Err: err}
		}
		result.Status = status

		if status.State == aws.StateNotFound {
			if event == model.EventDelete {
				result.State = StateNotFound
				return nil
			}
			result.State = StateAborted
			return &PollAbortedError{Stack: stack.Name, Err: errStackVanished}
		}
		p.renderer.Status(stack.Name, status)

		events, err := cfn.DescribeStackEvents(ctx, stack.Name, token)
		if err != nil {
			result.State = StateAborted
			return &PollAbortedError{Stack: stack.Name, Err: err}
		}
		for _, e := range events {
			if !seenEvents.Add(e.EventID) {
				continue
			}
			p.renderer.Event(stack.Name, e)
			if !e.Failed {
				continue
			}
			message := FailureMessage(e)
			if messages.Add(message) {
				result.Messages = append(result.Messages, message)
				p.renderer.Message(stack.Name, message)
			}
		}

		switch status.State {
		case aws.StateComplete:
			result.State = StateTerminalSuccess
			return nil
		case aws.StateFailed:
			result.State = StateTerminalFailure
			return nil
		}

		p.logger.Debug("stack operation in progress", "stack", stack.Name, "status", status.Raw)
		if err := p.wait(ctx, StatusInterval); err != nil {
			result.State = StateAborted
			return &PollAbortedError{Stack: stack.Name, Err: err}
		}
	}
}

// FailureMessage formats a failed event as "logicalId / resourceType / status / reason"
func FailureMessage(e aws.StackEvent) string {
	reason := e.Reason
	if reason == "" {
		reason = "executing"
	}
	return strings.Join([]string{e.LogicalResourceID, e.ResourceType, e.Status, reason}, " / ")
}
