/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file contains the YAML configuration loader.
// These types represent the raw YAML structure before it is turned into model stacks.
package file

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config represents the raw YAML configuration file structure
type Config struct {
	Region string   `yaml:"region"`
	Bucket string   `yaml:"bucket"`
	Stacks []*Stack `yaml:"stacks"`
}

// Stack represents a stack as it appears in YAML
type Stack struct {
	Name            string         `yaml:"name"`
	Template        string         `yaml:"template"`
	TemplateBody    string         `yaml:"template_body"`
	Region          string         `yaml:"region"`
	Bucket          string         `yaml:"bucket"`
	Values          map[string]any `yaml:"values"`
	Parameters      Parameters     `yaml:"parameters"`
	Capabilities    []string       `yaml:"capabilities"`
	CustomResources []string       `yaml:"custom_resources"`
	DependsOn       []string       `yaml:"depends_on"`
	Hooks           Hooks          `yaml:"hooks"`
}

// Hooks represents the lifecycle hooks block of a stack
type Hooks struct {
	OnCreate []Hook `yaml:"on_create"`
	OnUpdate []Hook `yaml:"on_update"`
	OnDelete []Hook `yaml:"on_delete"`
	OnStatus []Hook `yaml:"on_status"`
}

// Hook represents a single hook entry
type Hook struct {
	Name       string `yaml:"name"`
	Run        string `yaml:"run"`
	OnComplete bool   `yaml:"on_complete"`
}

// Parameter is a key/value pair kept in declared order
type Parameter struct {
	Key   string
	Value string
}

// Parameters is an ordered parameter mapping
type Parameters []Parameter

// UnmarshalYAML keeps the mapping order and rejects repeated keys
func (p *Parameters) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", node.Line)
	}

	seen := make(map[string]struct{}, len(node.Content)/2)
	params := make(Parameters, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if _, dup := seen[keyNode.Value]; dup {
			return fmt.Errorf("line %d: parameter %s is defined more than once", keyNode.Line, keyNode.Value)
		}
		seen[keyNode.Value] = struct{}{}

		if valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: parameter %s must be a scalar value", valueNode.Line, keyNode.Value)
		}
		params = append(params, Parameter{Key: keyNode.Value, Value: valueNode.Value})
	}

	*p = params
	return nil
}
