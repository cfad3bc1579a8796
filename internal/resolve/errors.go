/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStackNotFound is returned when a named stack is not in the loaded configuration
var ErrStackNotFound = errors.New("stack not found in configuration")

// CyclicDependencyError reports stacks whose dependencies form a cycle
type CyclicDependencyError struct {
	Stacks []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected between stacks: %s", strings.Join(e.Stacks, ", "))
}

// UnknownDependencyError reports a depends_on entry naming a stack that is not defined
type UnknownDependencyError struct {
	Stack      string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("stack %s depends on %s, which is not defined", e.Stack, e.Dependency)
}

// RenderError reports a template that could not be rendered with the stack's values
type RenderError struct {
	Stack string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("[%s] failed to render template: %v", e.Stack, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
