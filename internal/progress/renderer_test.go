/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"bytes"
	"testing"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/ui"
	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	styles := ui.NewStyles(false)

	tests := []struct {
		name     string
		result   *Result
		expected string
	}{
		{
			name:     "complete",
			result:   &Result{State: StateTerminalSuccess, Status: &aws.StackStatus{Raw: "UPDATE_COMPLETE"}},
			expected: "[app] update_complete\n",
		},
		{
			name:     "deleted",
			result:   &Result{State: StateNotFound, Status: &aws.StackStatus{State: aws.StateNotFound}},
			expected: "[app] does not exist\n",
		},
		{
			name:     "aborted without status",
			result:   &Result{State: StateAborted},
			expected: "[app] aborted\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Summary(styles, "app", tt.result))
		})
	}
}

func TestSummary_IncludesMessages(t *testing.T) {
	result := &Result{
		State:    StateTerminalFailure,
		Status:   &aws.StackStatus{Raw: "ROLLBACK_COMPLETE"},
		Messages: []string{"Bucket / AWS::S3::Bucket / CREATE_FAILED / exists"},
	}

	summary := Summary(ui.NewStyles(false), "app", result)

	assert.Contains(t, summary, "[app] rollback_complete\n")
	assert.Contains(t, summary, "Bucket / AWS::S3::Bucket / CREATE_FAILED / exists")
}

func TestVerboseRenderer(t *testing.T) {
	var out, log bytes.Buffer
	renderer := NewVerboseRenderer(&out, ui.NewStyles(false), logging.NewLogger(&log, 0, false))

	renderer.Begin("app")
	renderer.Status("app", &aws.StackStatus{Raw: "CREATE_IN_PROGRESS"})
	renderer.Status("app", &aws.StackStatus{Raw: "CREATE_IN_PROGRESS"})
	renderer.Event("app", aws.StackEvent{LogicalResourceID: "Bucket", ResourceType: "AWS::S3::Bucket", Status: "CREATE_IN_PROGRESS"})
	renderer.Status("app", &aws.StackStatus{Raw: "CREATE_COMPLETE"})
	renderer.End("app", &Result{State: StateTerminalSuccess, Status: &aws.StackStatus{Raw: "CREATE_COMPLETE"}})

	logged := log.String()
	assert.Equal(t, 2, bytes.Count(log.Bytes(), []byte("stack status")), "repeated statuses are logged once")
	assert.Contains(t, logged, "resource=Bucket")
	assert.Contains(t, logged, "status=CREATE_COMPLETE")
	assert.Equal(t, "[app] create_complete\n", out.String())
}

func TestInteractiveRenderer_PrintsSummaryOnEnd(t *testing.T) {
	var out bytes.Buffer
	renderer := NewInteractiveRenderer(&out, ui.NewStyles(false), logging.Discard())

	renderer.Begin("app")
	renderer.Status("app", &aws.StackStatus{Raw: "CREATE_IN_PROGRESS"})
	renderer.Message("app", "Bucket / AWS::S3::Bucket / CREATE_FAILED / exists")
	renderer.End("app", &Result{
		State:    StateTerminalFailure,
		Status:   &aws.StackStatus{Raw: "ROLLBACK_COMPLETE"},
		Messages: []string{"Bucket / AWS::S3::Bucket / CREATE_FAILED / exists"},
	})

	assert.Contains(t, out.String(), "rollback_complete")
	assert.Contains(t, out.String(), "CREATE_FAILED / exists")
}

func TestNewRenderer(t *testing.T) {
	styles := ui.NewStyles(false)
	assert.IsType(t, &VerboseRenderer{}, NewRenderer(true, &bytes.Buffer{}, styles, logging.Discard()))
	assert.IsType(t, &InteractiveRenderer{}, NewRenderer(false, &bytes.Buffer{}, styles, logging.Discard()))
}
