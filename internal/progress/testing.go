/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"context"
	"time"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockWatcher is a mock implementation of Watcher for testing
type MockWatcher struct {
	mock.Mock
}

func (m *MockWatcher) Watch(ctx context.Context, stack *model.Stack, event model.Event, token string) (*Result, error) {
	args := m.Called(ctx, stack, event, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

// RecordingRenderer keeps everything it is told, for assertions in tests
type RecordingRenderer struct {
	Begun    []string
	Statuses []string
	Events   []string
	Messages []string
	Results  []*Result
}

func (r *RecordingRenderer) Begin(stack string) {
	r.Begun = append(r.Begun, stack)
}

func (r *RecordingRenderer) Status(_ string, status *aws.StackStatus) {
	r.Statuses = append(r.Statuses, status.Raw)
}

func (r *RecordingRenderer) Event(_ string, event aws.StackEvent) {
	r.Events = append(r.Events, event.EventID)
}

func (r *RecordingRenderer) Message(_ string, message string) {
	r.Messages = append(r.Messages, message)
}

func (r *RecordingRenderer) End(_ string, result *Result) {
	r.Results = append(r.Results, result)
}

// NoWait is a WaitFunc that returns immediately unless ctx is done
func NoWait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
