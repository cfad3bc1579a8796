/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockDeployer is a mock implementation of Deployer for testing
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, stacks []*model.Stack, name string) error {
	args := m.Called(ctx, stacks, name)
	return args.Error(0)
}
