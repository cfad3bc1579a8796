/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// NewTestStack creates a Stack for testing purposes
func NewTestStack(name string, dependsOn ...string) *Stack {
	return &Stack{
		Name:         name,
		Template:     `{"AWSTemplateFormatVersion": "2010-09-09"}`,
		Region:       "us-east-1",
		Parameters:   []Parameter{},
		Capabilities: []string{},
		DependsOn:    dependsOn,
	}
}

// NewTestStacks creates one test stack per name with no dependencies
func NewTestStacks(names ...string) []*Stack {
	stacks := make([]*Stack, 0, len(names))
	for _, name := range names {
		stacks = append(stacks, NewTestStack(name))
	}
	return stacks
}
