/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockReporter is a mock implementation of Reporter for testing
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Report(ctx context.Context, stacks []*model.Stack, name string) error {
	args := m.Called(ctx, stacks, name)
	return args.Error(0)
}
