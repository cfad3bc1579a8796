/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"

	"github.com/google/uuid"
)

// Ensure that the default implementations satisfy the operation interfaces
var (
	_ CloudFormationOperations = (*DefaultCloudFormationOperations)(nil)
	_ StorageOperations        = (*DefaultStorageOperations)(nil)
	_ LogOperations            = (*DefaultLogOperations)(nil)
	_ ClientFactory            = (*DefaultClientFactory)(nil)
)

// CloudFormationOperations defines the stack operations used by the orchestrators
type CloudFormationOperations interface {
	StackExists(ctx context.Context, stackName string) (bool, error)
	CreateStack(ctx context.Context, input StackInput) error
	UpdateStack(ctx context.Context, input StackInput) error
	DeleteStack(ctx context.Context, stackName, token string) error
	GetStackStatus(ctx context.Context, stackName string) (*StackStatus, error)
	DescribeStackEvents(ctx context.Context, stackName, token string) ([]StackEvent, error)
	GetPhysicalResourceID(ctx context.Context, stackName, logicalID string) (string, error)
	ValidateTemplate(ctx context.Context, template TemplateSource) error
}

// StorageOperations uploads staged templates
type StorageOperations interface {
	// PutObject stores body under bucket/key and returns the object's URL
	PutObject(ctx context.Context, bucket, key, body string) (string, error)
}

// LogOperations reads CloudWatch log streams
type LogOperations interface {
	// LatestStream returns the most recently written stream of group; ok is false when there is none
	LatestStream(ctx context.Context, group string) (stream string, ok bool, err error)
	GetLogEvents(ctx context.Context, group, stream string) ([]string, error)
}

// TemplateSource is a template passed either inline or as a staged object URL
type TemplateSource struct {
	Body string
	URL  string
}

// Parameter represents a CloudFormation stack parameter
type Parameter struct {
	Key   string
	Value string
}

// StackInput contains everything needed to create or update a stack
type StackInput struct {
	StackName    string
	Template     TemplateSource
	Parameters   []Parameter
	Capabilities []string
	// Token is the client request token stamped on every event the operation raises
	Token string
}

// NewRequestToken returns a client request token unique to one stack operation
func NewRequestToken() string {
	return "stackpilot-" + uuid.NewString()
}
