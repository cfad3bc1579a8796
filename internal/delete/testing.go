/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package delete

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockDeleter implements Deleter for testing
type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) Delete(ctx context.Context, stacks []*model.Stack, name string) error {
	args := m.Called(ctx, stacks, name)
	return args.Error(0)
}
