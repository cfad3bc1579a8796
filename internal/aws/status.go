/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"strings"
	"time"
)

// StackState is the classification of a raw stack status
type StackState int

const (
	StateInProgress StackState = iota
	StateComplete
	StateFailed
	StateNotFound
)

// String returns a lower-case name for the state
func (s StackState) String() string {
	switch s {
	case StateInProgress:
		return "in progress"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	case StateNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// StackStatus is the classified status of a stack
type StackStatus struct {
	Name   string
	Raw    string
	Reason string
	State  StackState
}

// StackEvent is a single entry from a stack's event history
type StackEvent struct {
	EventID           string
	LogicalResourceID string
	ResourceType      string
	Status            string
	Reason            string
	Timestamp         time.Time
	Failed            bool
}

// ClassifyStackStatus maps a raw CloudFormation stack status onto a StackState.
// Any failed status is a failure, a completed rollback is a failure, and every
// *_IN_PROGRESS status (cleanup included) is still in progress.
func ClassifyStackStatus(raw string) StackState {
	switch {
	case raw == "":
		return StateNotFound
	case strings.Contains(raw, "FAILED"):
		return StateFailed
	case strings.HasSuffix(raw, "_IN_PROGRESS"):
		return StateInProgress
	case strings.Contains(raw, "ROLLBACK") && strings.HasSuffix(raw, "_COMPLETE"):
		return StateFailed
	case strings.HasSuffix(raw, "_COMPLETE"):
		return StateComplete
	default:
		return StateFailed
	}
}

// IsFailedResourceStatus reports whether an event's resource status is a failure
func IsFailedResourceStatus(status string) bool {
	return strings.HasSuffix(status, "_FAILED")
}
