/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
)

// invocationEndMarker appears in a Lambda log stream once an invocation has finished
const invocationEndMarker = "END RequestId"

// NoLogsFound is reported for a custom resource whose function has no log stream
const NoLogsFound = "no logs found"

// LogGroup returns the Lambda log group for a function
func LogGroup(physicalID string) string {
	return "/aws/lambda/" + physicalID
}

// customResourceLogs collects one text block per custom resource. A failure is reported
// in place of its block and returned, joined with the others, once every resource was tried.
func (p *Poller) customResourceLogs(ctx context.Context, cfn aws.CloudFormationOperations, stack *model.Stack) ([]string, error) {
	var blocks []string
	var errs []error
	for _, resource := range stack.CustomResources {
		block, err := p.customResourceLog(ctx, cfn, stack, resource)
		if err != nil {
			p.logger.Warn("failed to fetch custom resource logs", "stack", stack.Name, "resource", resource, "error", err)
			blocks = append(blocks, err.Error())
			errs = append(errs, err)
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks, errors.Join(errs...)
}

func (p *Poller) customResourceLog(ctx context.Context, cfn aws.CloudFormationOperations, stack *model.Stack, resource string) (string, error) {
	physicalID, err := cfn.GetPhysicalResourceID(ctx, stack.Name, resource)
	if err != nil {
		return "", &CustomResourceError{Stack: stack.Name, Resource: resource, Err: err}
	}

	logs, err := p.clientFactory.Logs(ctx, stack.EffectiveRegion())
	if err != nil {
		return "", &CustomResourceError{Stack: stack.Name, Resource: resource, Err: err}
	}

	group := LogGroup(physicalID)
	stream, found, err := logs.LatestStream(ctx, group)
	if err != nil {
		return "", &CustomResourceError{Stack: stack.Name, Resource: resource, Err: err}
	}
	header := fmt.Sprintf("%s (%s) logs:", resource, group)
	if !found {
		return header + "\n" + NoLogsFound, nil
	}

	for {
		messages, err := logs.GetLogEvents(ctx, group, stream)
		if err != nil {
			return "", &CustomResourceError{Stack: stack.Name, Resource: resource, Err: err}
		}
		text := strings.TrimRight(strings.Join(messages, ""), "\n")
		if strings.Contains(text, invocationEndMarker) {
			return header + "\n" + text, nil
		}

		p.logger.Debug("waiting for custom resource invocation to finish", "stack", stack.Name, "resource", resource)
		if err := p.wait(ctx, LogInterval); err != nil {
			return "", &CustomResourceError{Stack: stack.Name, Resource: resource, Err: err}
		}
	}
}
