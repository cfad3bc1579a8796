/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// Event identifies the lifecycle operation a hook is bound to
type Event int

const (
	EventCreate Event = iota
	EventUpdate
	EventDelete
	EventStatus
)

// String returns the lower-case operation name
func (e Event) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventUpdate:
		return "update"
	case EventDelete:
		return "delete"
	case EventStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Phase says whether a hook runs before the operation or after it reached a terminal state
type Phase int

const (
	PhasePre Phase = iota
	PhasePost
)

// String returns "pre" or "post"
func (p Phase) String() string {
	if p == PhasePost {
		return "post"
	}
	return "pre"
}

// Hook is a shell command bound to a lifecycle event
type Hook struct {
	Name       string
	Run        string
	OnComplete bool
}

// Phase returns the phase the hook runs in
func (h Hook) Phase() Phase {
	if h.OnComplete {
		return PhasePost
	}
	return PhasePre
}

// Hooks groups hooks by lifecycle event, each list in declared order
type Hooks struct {
	OnCreate []Hook
	OnUpdate []Hook
	OnDelete []Hook
	OnStatus []Hook
}

// For returns the hooks registered for an event
func (h Hooks) For(event Event) []Hook {
	switch event {
	case EventCreate:
		return h.OnCreate
	case EventUpdate:
		return h.OnUpdate
	case EventDelete:
		return h.OnDelete
	case EventStatus:
		return h.OnStatus
	default:
		return nil
	}
}

// Select returns the hooks for an event that run in the given phase, preserving declared order
func (h Hooks) Select(event Event, phase Phase) []Hook {
	var selected []Hook
	for _, hook := range h.For(event) {
		if hook.Phase() == phase {
			selected = append(selected, hook)
		}
	}
	return selected
}

func (h Hooks) all() []Hook {
	all := make([]Hook, 0, len(h.OnCreate)+len(h.OnUpdate)+len(h.OnDelete)+len(h.OnStatus))
	all = append(all, h.OnCreate...)
	all = append(all, h.OnUpdate...)
	all = append(all, h.OnDelete...)
	return append(all, h.OnStatus...)
}
