/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package stage decides whether a rendered template travels inline or through S3.
package stage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
)

// InlineTemplateLimit is the largest template body CloudFormation accepts inline
const InlineTemplateLimit = 51200

// KeyPrefix prefixes every staged object key
const KeyPrefix = "stackpilot-"

// MissingStagingTargetError reports an oversized template on a stack without a bucket
type MissingStagingTargetError struct {
	Stack string
	Size  int
}

func (e *MissingStagingTargetError) Error() string {
	return fmt.Sprintf("[%s] template is %d bytes, over the %d byte inline limit, and no bucket is configured to stage it",
		e.Stack, e.Size, InlineTemplateLimit)
}

// UploadError reports a failed template upload
type UploadError struct {
	Stack  string
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("[%s] failed to stage template in bucket %s: %v", e.Stack, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NeedsStaging reports whether body is too large to send inline
func NeedsStaging(body string) bool {
	return len(body) > InlineTemplateLimit
}

// Key returns the deterministic object key for a template body
func Key(body string) string {
	sum := md5.Sum([]byte(body))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// CheckTarget fails when body must be staged but stack has nowhere to stage it.
// It makes no remote calls.
func CheckTarget(stack *model.Stack, body string) error {
	if NeedsStaging(body) && stack.Bucket == "" {
		return &MissingStagingTargetError{Stack: stack.Name, Size: len(body)}
	}
	return nil
}

// Stager prepares template sources for submission
type Stager struct {
	clientFactory aws.ClientFactory
}

// NewStager creates a stager uploading through clientFactory's storage operations
func NewStager(clientFactory aws.ClientFactory) *Stager {
	return &Stager{clientFactory: clientFactory}
}

// Prepare returns an inline source for small bodies and uploads larger ones to the stack's bucket
func (s *Stager) Prepare(ctx context.Context, stack *model.Stack, body string) (aws.TemplateSource, error) {
	if err := CheckTarget(stack, body); err != nil {
		return aws.TemplateSource{}, err
	}
	if !NeedsStaging(body) {
		return aws.TemplateSource{Body: body}, nil
	}

	region := stack.EffectiveRegion()
	key := Key(body)

	storage, err := s.clientFactory.Storage(ctx, region)
	if err != nil {
		return aws.TemplateSource{}, fmt.Errorf("failed to get storage client for region %s: %w", region, err)
	}

	url, err := storage.PutObject(ctx, stack.Bucket, key, body)
	if err != nil {
		return aws.TemplateSource{}, &UploadError{Stack: stack.Name, Bucket: stack.Bucket, Key: key, Err: err}
	}
	return aws.TemplateSource{URL: url}, nil
}
