/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultStorageOperations uploads objects to S3 in a single region
type DefaultStorageOperations struct {
	client S3Client
	region string
}

// NewStorageOperationsWithClient creates storage operations bound to region
func NewStorageOperationsWithClient(client S3Client, region string) *DefaultStorageOperations {
	return &DefaultStorageOperations{client: client, region: region}
}

// PutObject uploads body and returns its virtual-hosted-style URL
func (s *DefaultStorageOperations) PutObject(ctx context.Context, bucket, key, body string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}
	return ObjectURL(bucket, s.region, key), nil
}

// ObjectURL returns the HTTPS URL CloudFormation uses to read a staged template
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
