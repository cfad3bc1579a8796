/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockValidator is a mock implementation of Validator for testing
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, stacks []*model.Stack, name string) error {
	args := m.Called(ctx, stacks, name)
	return args.Error(0)
}
