/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package model holds the in-memory representation of stacks and their lifecycle hooks.
// Values are built once by a configuration loader and never mutated afterwards.
package model

import "fmt"

// DefaultRegion is used for stacks that do not declare a region
const DefaultRegion = "eu-west-1"

// Stack is the unit of deployment
type Stack struct {
	Name            string
	Template        string
	Values          map[string]any
	Region          string
	Bucket          string
	Parameters      []Parameter
	Capabilities    []string
	CustomResources []string
	DependsOn       []string
	Hooks           Hooks
}

// Parameter is a single template parameter. Parameters keep their declared order.
type Parameter struct {
	Key   string
	Value string
}

// EffectiveRegion returns the declared region or DefaultRegion
func (s *Stack) EffectiveRegion() string {
	if s.Region == "" {
		return DefaultRegion
	}
	return s.Region
}

// IsDependencyOf reports whether other lists s in its depends_on
func (s *Stack) IsDependencyOf(other *Stack) bool {
	for _, dep := range other.DependsOn {
		if dep == s.Name {
			return true
		}
	}
	return false
}

// ParameterMap returns the parameters keyed by name
func (s *Stack) ParameterMap() map[string]string {
	result := make(map[string]string, len(s.Parameters))
	for _, p := range s.Parameters {
		result[p.Key] = p.Value
	}
	return result
}

// StackNames returns the names of the given stacks in order
func StackNames(stacks []*Stack) []string {
	names := make([]string, 0, len(stacks))
	for _, s := range stacks {
		names = append(names, s.Name)
	}
	return names
}

// ValidateStacks checks the invariants every loaded configuration must hold:
// names are non-empty and unique, and parameter keys are unique per stack.
func ValidateStacks(stacks []*Stack) error {
	seen := make(map[string]struct{}, len(stacks))
	for i, stack := range stacks {
		if stack == nil || stack.Name == "" {
			return fmt.Errorf("stack #%d has no name", i+1)
		}
		if _, dup := seen[stack.Name]; dup {
			return fmt.Errorf("stack %s is defined more than once", stack.Name)
		}
		seen[stack.Name] = struct{}{}

		keys := make(map[string]struct{}, len(stack.Parameters))
		for _, p := range stack.Parameters {
			if _, dup := keys[p.Key]; dup {
				return fmt.Errorf("stack %s declares parameter %s more than once", stack.Name, p.Key)
			}
			keys[p.Key] = struct{}{}
		}

		for _, hook := range stack.Hooks.all() {
			if hook.Run == "" {
				return fmt.Errorf("stack %s has hook %q with no command", stack.Name, hook.Name)
			}
		}
	}
	return nil
}
