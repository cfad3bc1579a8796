/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package resolve selects and orders stacks for an invocation and renders their templates.
package resolve

import (
	"fmt"
	"slices"

	"github.com/orien/stackpilot/internal/model"
)

// Direction selects the order a plan is traversed in
type Direction int

const (
	// DirectionApply places every stack after all stacks it depends on
	DirectionApply Direction = iota
	// DirectionDelete is the exact reverse of DirectionApply
	DirectionDelete
)

// Select returns the named stack, or every stack in declared order when name is empty
func Select(stacks []*model.Stack, name string) ([]*model.Stack, error) {
	if name == "" {
		return stacks, nil
	}
	for _, stack := range stacks {
		if stack.Name == name {
			return []*model.Stack{stack}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrStackNotFound, name)
}

// ValidateDependencies checks that every depends_on entry names a loaded stack
func ValidateDependencies(stacks []*model.Stack) error {
	names := make(map[string]struct{}, len(stacks))
	for _, stack := range stacks {
		names[stack.Name] = struct{}{}
	}
	for _, stack := range stacks {
		for _, dep := range stack.DependsOn {
			if _, ok := names[dep]; !ok {
				return &UnknownDependencyError{Stack: stack.Name, Dependency: dep}
			}
		}
	}
	return nil
}

// Plan orders stacks for traversal. Only dependencies between members of stacks are considered.
// Among stacks that are ready at the same time the one declared first goes first.
func Plan(stacks []*model.Stack, direction Direction) ([]*model.Stack, error) {
	index := make(map[string]int, len(stacks))
	for i, stack := range stacks {
		index[stack.Name] = i
	}

	// dependents[i] lists the stacks that depend on stacks[i]
	dependents := make([][]int, len(stacks))
	inDegree := make([]int, len(stacks))
	for i, stack := range stacks {
		for _, dep := range stack.DependsOn {
			j, ok := index[dep]
			if !ok {
				continue
			}
			if j == i {
				return nil, &CyclicDependencyError{Stacks: []string{stack.Name}}
			}
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	// Kahn's algorithm; ready holds indices in ascending (declared) order
	var ready []int
	for i, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*model.Stack, 0, len(stacks))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, stacks[current])

		for _, next := range dependents[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				pos, _ := slices.BinarySearch(ready, next)
				ready = slices.Insert(ready, pos, next)
			}
		}
	}

	if len(order) != len(stacks) {
		var cyclic []string
		for i, degree := range inDegree {
			if degree > 0 {
				cyclic = append(cyclic, stacks[i].Name)
			}
		}
		return nil, &CyclicDependencyError{Stacks: cyclic}
	}

	if direction == DirectionDelete {
		slices.Reverse(order)
	}
	return order, nil
}
