/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"errors"
	"testing"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCfnTemplateProcessor_Process_Substitution(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]any
		contains []string
	}{
		{
			name:     "plain values",
			template: `{"Resources": {"Queue": {"Type": "AWS::SQS::Queue", "Properties": {"QueueName": "{{ .name }}"}}}}`,
			values:   map[string]any{"name": "orders"},
			contains: []string{`"QueueName": "orders"`},
		},
		{
			name: "sprig string functions",
			template: `Environment: {{ .env | upper }}
Version: {{ .version | quote }}`,
			values:   map[string]any{"env": "production", "version": "1.2.3"},
			contains: []string{"Environment: PRODUCTION", `Version: "1.2.3"`},
		},
		{
			name: "conditionals and loops over loaded values",
			template: `Resources:
{{- if .monitoring }}
  Alarm:
    Type: AWS::CloudWatch::Alarm
{{- end }}
{{- range .buckets }}
  {{ . | title }}Bucket:
    Type: AWS::S3::Bucket
{{- end }}`,
			values:   map[string]any{"monitoring": true, "buckets": []any{"logs", "assets"}},
			contains: []string{"Alarm:", "LogsBucket:", "AssetsBucket:"},
		},
		{
			name: "multi-line values with indentation",
			template: `UserData:
  Fn::Base64: |
{{- .script | nindent 4 }}`,
			values:   map[string]any{"script": "#!/bin/bash\nyum update -y"},
			contains: []string{"    #!/bin/bash", "    yum update -y"},
		},
		{
			name:     "defaults for absent keys",
			template: `Environment: {{ .Environment | default "development" }}`,
			values:   map[string]any{},
			contains: []string{"Environment: development"},
		},
	}

	processor := NewCfnTemplateProcessor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := processor.Process(tt.template, tt.values)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
		})
	}
}

func TestCfnTemplateProcessor_Process_NilValuesLeaveBodyUntouched(t *testing.T) {
	body := `{"Outputs": {"Raw": {"Value": "{{ not a template }}"}}}`

	result, err := NewCfnTemplateProcessor().Process(body, nil)

	require.NoError(t, err)
	assert.Equal(t, body, result)
}

func TestCfnTemplateProcessor_Process_ErrorCases(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		values      map[string]any
		expectedErr string
	}{
		{
			name:        "invalid template syntax",
			template:    `Invalid template: {{ .MissingClosingBrace`,
			values:      map[string]any{},
			expectedErr: "failed to parse template",
		},
		{
			name:        "unknown function",
			template:    `Value: {{ .value | nonExistentFunction }}`,
			values:      map[string]any{"value": "test"},
			expectedErr: "failed to parse template",
		},
		{
			name:        "execution failure",
			template:    `Value: {{ .value.nested }}`,
			values:      map[string]any{"value": "scalar"},
			expectedErr: "failed to execute template",
		},
	}

	processor := NewCfnTemplateProcessor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := processor.Process(tt.template, tt.values)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
			assert.Empty(t, result)
		})
	}
}

func TestRender_WrapsFailuresWithStackName(t *testing.T) {
	stack := model.NewTestStack("app")
	stack.Template = "{{ .broken"
	stack.Values = map[string]any{}

	_, err := Render(NewCfnTemplateProcessor(), stack)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "app", renderErr.Stack)
	assert.Contains(t, err.Error(), "[app] failed to render template")
}

func TestRender_UsesProcessor(t *testing.T) {
	stack := model.NewTestStack("app")
	stack.Values = map[string]any{"k": "v"}

	processor := &MockTemplateProcessor{}
	processor.On("Process", stack.Template, stack.Values).Return("rendered", nil).Once()

	body, err := Render(processor, stack)
	require.NoError(t, err)
	assert.Equal(t, "rendered", body)

	failing := &MockTemplateProcessor{}
	failing.On("Process", mock.Anything, mock.Anything).Return("", errors.New("boom"))
	_, err = Render(failing, stack)
	assert.ErrorContains(t, err, "boom")

	processor.AssertExpectations(t)
}
