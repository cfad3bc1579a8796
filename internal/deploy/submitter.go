/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
)

// ErrNoChanges is returned by Submit when an update would not change the stack
var ErrNoChanges = errors.New("no changes to deploy")

// Submitter sends create and update requests for stacks
type Submitter struct {
	clientFactory aws.ClientFactory
}

// NewSubmitter creates a submitter using clientFactory for region-specific clients
func NewSubmitter(clientFactory aws.ClientFactory) *Submitter {
	return &Submitter{clientFactory: clientFactory}
}

// Exists reports whether the stack is already deployed. Only a not-found answer means false;
// any other failure is returned.
func (s *Submitter) Exists(ctx context.Context, stack *model.Stack) (bool, error) {
	cfn, err := s.clientFactory.CloudFormation(ctx, stack.EffectiveRegion())
	if err != nil {
		return false, fmt.Errorf("failed to get CloudFormation client: %w", err)
	}

	exists, err := cfn.StackExists(ctx, stack.Name)
	if err != nil {
		return false, fmt.Errorf("[%s] failed to check whether stack exists: %w", stack.Name, err)
	}
	return exists, nil
}

// Submit sends a create or update request tagged with token. Acceptance carries no further
// information; the outcome is observed by polling.
func (s *Submitter) Submit(ctx context.Context, stack *model.Stack, event model.Event, template aws.TemplateSource, token string) error {
	cfn, err := s.clientFactory.CloudFormation(ctx, stack.EffectiveRegion())
	if err != nil {
		return fmt.Errorf("failed to get CloudFormation client: %w", err)
	}

	input := aws.StackInput{
		StackName:    stack.Name,
		Template:     template,
		Parameters:   toAWSParameters(stack.Parameters),
		Capabilities: append([]string{}, stack.Capabilities...),
		Token:        token,
	}

	switch event {
	case model.EventCreate:
		return cfn.CreateStack(ctx, input)
	case model.EventUpdate:
		err := cfn.UpdateStack(ctx, input)
		if errors.Is(err, aws.ErrNoUpdates) {
			return ErrNoChanges
		}
		return err
	default:
		return fmt.Errorf("cannot submit %s for stack %s", event, stack.Name)
	}
}

func toAWSParameters(parameters []model.Parameter) []aws.Parameter {
	result := make([]aws.Parameter, len(parameters))
	for i, p := range parameters {
		result[i] = aws.Parameter{Key: p.Key, Value: p.Value}
	}
	return result
}
