/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package hooks

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockRunner is a mock implementation of Runner for testing
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, stack *model.Stack, event model.Event, phase model.Phase) error {
	args := m.Called(ctx, stack, event, phase)
	return args.Error(0)
}
