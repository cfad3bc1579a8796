/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

// EventMemory is an insertion-ordered set of strings. One instance belongs to one watch.
type EventMemory struct {
	seen  map[string]struct{}
	items []string
}

// NewEventMemory creates an empty memory
func NewEventMemory() *EventMemory {
	return &EventMemory{seen: make(map[string]struct{})}
}

// Add records item and reports whether it was new
func (m *EventMemory) Add(item string) bool {
	if _, ok := m.seen[item]; ok {
		return false
	}
	m.seen[item] = struct{}{}
	m.items = append(m.items, item)
	return true
}

// Contains reports whether item was recorded
func (m *EventMemory) Contains(item string) bool {
	_, ok := m.seen[item]
	return ok
}

// Items returns the recorded items in insertion order
func (m *EventMemory) Items() []string {
	return append([]string(nil), m.items...)
}

// Len returns the number of recorded items
func (m *EventMemory) Len() int {
	return len(m.items)
}
