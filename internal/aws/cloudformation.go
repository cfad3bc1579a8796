/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// DefaultCloudFormationOperations provides CloudFormation-specific operations
type DefaultCloudFormationOperations struct {
	client CloudFormationClient
}

// NewCloudFormationOperationsWithClient creates operations with a custom client (for testing)
func NewCloudFormationOperationsWithClient(client CloudFormationClient) *DefaultCloudFormationOperations {
	return &DefaultCloudFormationOperations{
		client: client,
	}
}

// StackExists reports whether the stack has at least one record. A not-found answer is not an error.
func (cf *DefaultCloudFormationOperations) StackExists(ctx context.Context, stackName string) (bool, error) {
	result, err := cf.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if IsStackNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if stack %s exists: %w", stackName, err)
	}

	return len(result.Stacks) > 0, nil
}

// CreateStack submits a create request. Rejections are returned as *RemoteRejectedError.
func (cf *DefaultCloudFormationOperations) CreateStack(ctx context.Context, input StackInput) error {
	params := &cloudformation.CreateStackInput{
		StackName:    aws.String(input.StackName),
		Parameters:   toSDKParameters(input.Parameters),
		Capabilities: toSDKCapabilities(input.Capabilities),
	}
	if input.Token != "" {
		params.ClientRequestToken = aws.String(input.Token)
	}
	params.TemplateBody, params.TemplateURL = templateFields(input.Template)

	if _, err := cf.client.CreateStack(ctx, params); err != nil {
		return newRemoteRejectedError("create", input.StackName, err)
	}
	return nil
}

// UpdateStack submits an update request. An update that changes nothing returns ErrNoUpdates.
func (cf *DefaultCloudFormationOperations) UpdateStack(ctx context.Context, input StackInput) error {
	params := &cloudformation.UpdateStackInput{
		StackName:    aws.String(input.StackName),
		Parameters:   toSDKParameters(input.Parameters),
		Capabilities: toSDKCapabilities(input.Capabilities),
	}
	if input.Token != "" {
		params.ClientRequestToken = aws.String(input.Token)
	}
	params.TemplateBody, params.TemplateURL = templateFields(input.Template)

	if _, err := cf.client.UpdateStack(ctx, params); err != nil {
		if IsNoUpdates(err) {
			return ErrNoUpdates
		}
		return newRemoteRejectedError("update", input.StackName, err)
	}
	return nil
}

// DeleteStack submits a delete request tagged with token
func (cf *DefaultCloudFormationOperations) DeleteStack(ctx context.Context, stackName, token string) error {
	params := &cloudformation.DeleteStackInput{
		StackName: aws.String(stackName),
	}
	if token != "" {
		params.ClientRequestToken = aws.String(token)
	}
	if _, err := cf.client.DeleteStack(ctx, params); err != nil {
		return newRemoteRejectedError("delete", stackName, err)
	}
	return nil
}

// GetStackStatus returns the classified status of a stack. A missing stack is StateNotFound, not an error.
func (cf *DefaultCloudFormationOperations) GetStackStatus(ctx context.Context, stackName string) (*StackStatus, error) {
	result, err := cf.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if IsStackNotFound(err) {
			return &StackStatus{Name: stackName, State: StateNotFound}, nil
		}
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}

	if len(result.Stacks) == 0 {
		return &StackStatus{Name: stackName, State: StateNotFound}, nil
	}

	stack := result.Stacks[0]
	raw := string(stack.StackStatus)
	return &StackStatus{
		Name:   stackName,
		Raw:    raw,
		Reason: aws.ToString(stack.StackStatusReason),
		State:  ClassifyStackStatus(raw),
	}, nil
}

// DescribeStackEvents returns the events raised by the operation submitted with token, oldest first
func (cf *DefaultCloudFormationOperations) DescribeStackEvents(ctx context.Context, stackName, token string) ([]StackEvent, error) {
	var events []StackEvent
	paginator := cloudformation.NewDescribeStackEventsPaginator(cf.client, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	})

	// events arrive newest first and operations on a stack never overlap, so paging
	// stops at the first event raised by an earlier operation
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe events for stack %s: %w", stackName, err)
		}

		older := false
		for _, e := range page.StackEvents {
			if aws.ToString(e.ClientRequestToken) != token {
				older = true
				break
			}
			status := string(e.ResourceStatus)
			events = append(events, StackEvent{
				EventID:           aws.ToString(e.EventId),
				LogicalResourceID: aws.ToString(e.LogicalResourceId),
				ResourceType:      aws.ToString(e.ResourceType),
				Status:            status,
				Reason:            aws.ToString(e.ResourceStatusReason),
				Timestamp:         aws.ToTime(e.Timestamp),
				Failed:            IsFailedResourceStatus(status),
			})
		}
		if older {
			break
		}
	}

	slices.Reverse(events)
	return events, nil
}

// GetPhysicalResourceID returns the physical id of a stack resource
func (cf *DefaultCloudFormationOperations) GetPhysicalResourceID(ctx context.Context, stackName, logicalID string) (string, error) {
	result, err := cf.client.DescribeStackResource(ctx, &cloudformation.DescribeStackResourceInput{
		StackName:         aws.String(stackName),
		LogicalResourceId: aws.String(logicalID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe resource %s of stack %s: %w", logicalID, stackName, err)
	}
	if result.StackResourceDetail == nil || aws.ToString(result.StackResourceDetail.PhysicalResourceId) == "" {
		return "", fmt.Errorf("resource %s of stack %s has no physical id", logicalID, stackName)
	}
	return aws.ToString(result.StackResourceDetail.PhysicalResourceId), nil
}

// ValidateTemplate asks CloudFormation to validate a template
func (cf *DefaultCloudFormationOperations) ValidateTemplate(ctx context.Context, template TemplateSource) error {
	params := &cloudformation.ValidateTemplateInput{}
	params.TemplateBody, params.TemplateURL = templateFields(template)

	if _, err := cf.client.ValidateTemplate(ctx, params); err != nil {
		return fmt.Errorf("CloudFormation rejected the template: %w", err)
	}
	return nil
}

func templateFields(template TemplateSource) (body, url *string) {
	if template.URL != "" {
		return nil, aws.String(template.URL)
	}
	return aws.String(template.Body), nil
}

func toSDKParameters(parameters []Parameter) []types.Parameter {
	params := make([]types.Parameter, len(parameters))
	for i, p := range parameters {
		params[i] = types.Parameter{
			ParameterKey:   aws.String(p.Key),
			ParameterValue: aws.String(p.Value),
		}
	}
	return params
}

func toSDKCapabilities(capabilities []string) []types.Capability {
	caps := make([]types.Capability, len(capabilities))
	for i, c := range capabilities {
		caps[i] = types.Capability(c)
	}
	return caps
}
