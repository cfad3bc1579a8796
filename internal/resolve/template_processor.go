/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/orien/stackpilot/internal/model"
)

// TemplateProcessor defines the interface for substituting values into CloudFormation templates
type TemplateProcessor interface {
	Process(templateContent string, values map[string]any) (string, error)
}

// CfnTemplateProcessor implements TemplateProcessor using Go's text/template with Sprig functions
type CfnTemplateProcessor struct{}

// NewCfnTemplateProcessor creates a new CloudFormation template processor
func NewCfnTemplateProcessor() *CfnTemplateProcessor {
	return &CfnTemplateProcessor{}
}

// Process executes templateContent with values. A nil values map returns the content untouched.
func (tp *CfnTemplateProcessor) Process(templateContent string, values map[string]any) (string, error) {
	if values == nil {
		return templateContent, nil
	}

	tmpl, err := template.New("cloudformation").
		Funcs(sprig.TxtFuncMap()).
		Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Render produces the final template body for a stack
func Render(processor TemplateProcessor, stack *model.Stack) (string, error) {
	body, err := processor.Process(stack.Template, stack.Values)
	if err != nil {
		return "", &RenderError{Stack: stack.Name, Err: err}
	}
	return body, nil
}
