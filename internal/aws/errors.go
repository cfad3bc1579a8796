/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrNoUpdates is returned by UpdateStack when the submitted stack matches the deployed one
var ErrNoUpdates = errors.New("no updates are to be performed")

// RemoteRejectedError is a synchronous rejection of a request by AWS
type RemoteRejectedError struct {
	Operation string
	Stack     string
	Code      string
	Message   string
	Err       error
}

func (e *RemoteRejectedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s rejected: %s: %s", e.Stack, e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s rejected: %s", e.Stack, e.Operation, e.Message)
}

func (e *RemoteRejectedError) Unwrap() error {
	return e.Err
}

func newRemoteRejectedError(operation, stack string, err error) *RemoteRejectedError {
	rejected := &RemoteRejectedError{Operation: operation, Stack: stack, Message: err.Error(), Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		rejected.Code = apiErr.ErrorCode()
		rejected.Message = apiErr.ErrorMessage()
	}
	return rejected
}

// IsStackNotFound reports whether err is CloudFormation's answer for a stack that does not exist
func IsStackNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return strings.Contains(err.Error(), "does not exist")
}

// IsNoUpdates reports whether err is CloudFormation's rejection of an update that changes nothing
func IsNoUpdates(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoUpdates) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "No updates are to be performed")
	}
	return false
}
