/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// DefaultLogOperations reads CloudWatch Logs
type DefaultLogOperations struct {
	client CloudWatchLogsClient
}

// NewLogOperationsWithClient creates log operations with a custom client (for testing)
func NewLogOperationsWithClient(client CloudWatchLogsClient) *DefaultLogOperations {
	return &DefaultLogOperations{client: client}
}

// LatestStream returns the stream with the most recent event. A missing group has no streams.
func (l *DefaultLogOperations) LatestStream(ctx context.Context, group string) (string, bool, error) {
	result, err := l.client.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(group),
		OrderBy:      types.OrderByLastEventTime,
		Descending:   aws.Bool(true),
		Limit:        aws.Int32(1),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to describe log streams of %s: %w", group, err)
	}

	if len(result.LogStreams) == 0 {
		return "", false, nil
	}
	return aws.ToString(result.LogStreams[0].LogStreamName), true, nil
}

// GetLogEvents returns the messages of a stream, oldest first
func (l *DefaultLogOperations) GetLogEvents(ctx context.Context, group, stream string) ([]string, error) {
	result, err := l.client.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
		StartFromHead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get log events of %s/%s: %w", group, stream, err)
	}

	messages := make([]string, 0, len(result.Events))
	for _, e := range result.Events {
		messages = append(messages, aws.ToString(e.Message))
	}
	return messages, nil
}
