/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orien/stackpilot/internal/config/source"
	"github.com/orien/stackpilot/internal/model"
	"gopkg.in/yaml.v3"
)

// Loader reads stacks from a YAML document
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a YAML configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the document at location and returns its stacks in declared order
func (l *Loader) Load(ctx context.Context, location string) ([]*model.Stack, error) {
	data, err := source.Read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", location, err)
	}

	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", location, err)
	}

	stacks := make([]*model.Stack, 0, len(raw.Stacks))
	for i, rawStack := range raw.Stacks {
		if rawStack == nil {
			return nil, fmt.Errorf("stack #%d in '%s' is empty", i+1, location)
		}
		stack, err := l.resolveStack(ctx, location, &raw, rawStack)
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, stack)
	}

	if err := model.ValidateStacks(stacks); err != nil {
		return nil, fmt.Errorf("invalid configuration '%s': %w", location, err)
	}

	l.logger.Debug("loaded configuration", "source", location, "stacks", len(stacks))
	return stacks, nil
}

// resolveStack turns a raw stack into a model stack, reading its template relative to the config file
func (l *Loader) resolveStack(ctx context.Context, location string, raw *Config, rawStack *Stack) (*model.Stack, error) {
	body := rawStack.TemplateBody
	switch {
	case rawStack.Template != "" && body != "":
		return nil, fmt.Errorf("stack '%s' sets both template and template_body", rawStack.Name)
	case rawStack.Template != "":
		templatePath := source.Join(location, rawStack.Template)
		data, err := source.Read(ctx, templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template for stack '%s': %w", rawStack.Name, err)
		}
		body = string(data)
	case body == "":
		return nil, fmt.Errorf("stack '%s' has no template", rawStack.Name)
	}

	stack := &model.Stack{
		Name:            rawStack.Name,
		Template:        body,
		Values:          rawStack.Values,
		Region:          firstNonEmpty(rawStack.Region, raw.Region),
		Bucket:          firstNonEmpty(rawStack.Bucket, raw.Bucket),
		Parameters:      make([]model.Parameter, 0, len(rawStack.Parameters)),
		Capabilities:    copyStringSlice(rawStack.Capabilities),
		CustomResources: copyStringSlice(rawStack.CustomResources),
		DependsOn:       copyStringSlice(rawStack.DependsOn),
		Hooks: model.Hooks{
			OnCreate: convertHooks(rawStack.Hooks.OnCreate),
			OnUpdate: convertHooks(rawStack.Hooks.OnUpdate),
			OnDelete: convertHooks(rawStack.Hooks.OnDelete),
			OnStatus: convertHooks(rawStack.Hooks.OnStatus),
		},
	}
	for _, p := range rawStack.Parameters {
		stack.Parameters = append(stack.Parameters, model.Parameter{Key: p.Key, Value: p.Value})
	}

	return stack, nil
}

func convertHooks(raw []Hook) []model.Hook {
	if len(raw) == 0 {
		return nil
	}
	hooks := make([]model.Hook, len(raw))
	for i, h := range raw {
		hooks[i] = model.Hook{Name: h.Name, Run: h.Run, OnComplete: h.OnComplete}
	}
	return hooks
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func copyStringSlice(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}
