/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"errors"
	"fmt"
)

// errStackVanished is the cause of an abort when a stack disappears during create or update
var errStackVanished = errors.New("stack does not exist")

// PollAbortedError reports that watching stopped before the stack reached a terminal state
type PollAbortedError struct {
	Stack string
	Err   error
}

func (e *PollAbortedError) Error() string {
	return fmt.Sprintf("[%s] stopped watching stack: %v", e.Stack, e.Err)
}

func (e *PollAbortedError) Unwrap() error {
	return e.Err
}

// OperationFailedError reports that a stack operation ended in a failed state
type OperationFailedError struct {
	Stack  string
	Status string
	Reason string
}

func (e *OperationFailedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("[%s] stack operation failed with status %s: %s", e.Stack, e.Status, e.Reason)
	}
	return fmt.Sprintf("[%s] stack operation failed with status %s", e.Stack, e.Status)
}

// CustomResourceError reports a failure to collect a custom resource's logs
type CustomResourceError struct {
	Stack    string
	Resource string
	Err      error
}

func (e *CustomResourceError) Error() string {
	return fmt.Sprintf("[%s] failed to fetch logs for custom resource %s: %v", e.Stack, e.Resource, e.Err)
}

func (e *CustomResourceError) Unwrap() error {
	return e.Err
}
