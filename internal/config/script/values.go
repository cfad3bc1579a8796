/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package script

import (
	"fmt"

	"github.com/orien/stackpilot/internal/model"
	"go.starlark.net/starlark"
)

// stackValue is the Starlark value returned by stacks.new
type stackValue struct {
	stack *model.Stack
}

var (
	_ starlark.Value    = (*stackValue)(nil)
	_ starlark.HasAttrs = (*stackValue)(nil)
	_ starlark.Value    = hookValue{}
)

func (s *stackValue) String() string        { return fmt.Sprintf("stack(%q)", s.stack.Name) }
func (s *stackValue) Type() string          { return "stack" }
func (s *stackValue) Freeze()               {}
func (s *stackValue) Truth() starlark.Bool  { return starlark.True }
func (s *stackValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: stack") }

// Attr exposes the scalar fields of a stack so scripts can reference them
func (s *stackValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(s.stack.Name), nil
	case "region":
		return starlark.String(s.stack.Region), nil
	case "bucket":
		return starlark.String(s.stack.Bucket), nil
	case "template":
		return starlark.String(s.stack.Template), nil
	default:
		return nil, nil
	}
}

func (s *stackValue) AttrNames() []string {
	return []string{"bucket", "name", "region", "template"}
}

// hookValue is the Starlark value returned by stacks.hook
type hookValue struct {
	hook model.Hook
}

func (h hookValue) String() string        { return fmt.Sprintf("hook(%q)", h.hook.Name) }
func (h hookValue) Type() string          { return "hook" }
func (h hookValue) Freeze()               {}
func (h hookValue) Truth() starlark.Bool  { return starlark.True }
func (h hookValue) Hash() (uint32, error) { return starlark.String(h.hook.Name).Hash() }

// toGo converts a Starlark value into plain Go data for template rendering
func toGo(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", v)
		}
		return int(i), nil
	case starlark.Float:
		return float64(v), nil
	case starlark.String:
		return string(v), nil
	case *starlark.Dict:
		m := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings, got %s", item[0].Type())
			}
			value, err := toGo(item[1])
			if err != nil {
				return nil, err
			}
			m[key] = value
		}
		return m, nil
	case starlark.Indexable:
		items := make([]any, v.Len())
		for i := range items {
			value, err := toGo(v.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = value
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type())
	}
}

// scalarString renders a scalar parameter value the way CloudFormation expects it
func scalarString(v starlark.Value) (string, error) {
	switch v := v.(type) {
	case starlark.String:
		return string(v), nil
	case starlark.Int, starlark.Float:
		return v.String(), nil
	case starlark.Bool:
		if v {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("value must be a string, number or bool, got %s", v.Type())
	}
}

func toParameters(d *starlark.Dict) ([]model.Parameter, error) {
	if d == nil {
		return nil, nil
	}
	params := make([]model.Parameter, 0, d.Len())
	for _, item := range d.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			return nil, fmt.Errorf("keys must be strings, got %s", item[0].Type())
		}
		value, err := scalarString(item[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		params = append(params, model.Parameter{Key: key, Value: value})
	}
	return params, nil
}

func toStringMap(d *starlark.Dict) (map[string]string, error) {
	if d == nil {
		return nil, nil
	}
	params, err := toParameters(d)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Key] = p.Value
	}
	return m, nil
}

// toStrings accepts strings and, for depends_on, stack values standing in for their names
func toStrings(l *starlark.List) ([]string, error) {
	if l == nil {
		return nil, nil
	}
	out := make([]string, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		switch v := l.Index(i).(type) {
		case starlark.String:
			out = append(out, string(v))
		case *stackValue:
			out = append(out, v.stack.Name)
		default:
			return nil, fmt.Errorf("item %d must be a string, got %s", i, v.Type())
		}
	}
	return out, nil
}

func toHooks(d *starlark.Dict) (model.Hooks, error) {
	var hooks model.Hooks
	if d == nil {
		return hooks, nil
	}
	for _, item := range d.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			return hooks, fmt.Errorf("keys must be strings, got %s", item[0].Type())
		}
		list, ok := item[1].(*starlark.List)
		if !ok {
			return hooks, fmt.Errorf("%s must be a list of hooks, got %s", key, item[1].Type())
		}
		converted := make([]model.Hook, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			h, ok := list.Index(i).(hookValue)
			if !ok {
				return hooks, fmt.Errorf("%s item %d must be a hook, got %s", key, i, list.Index(i).Type())
			}
			converted = append(converted, h.hook)
		}

		switch key {
		case "on_create":
			hooks.OnCreate = converted
		case "on_update":
			hooks.OnUpdate = converted
		case "on_delete":
			hooks.OnDelete = converted
		case "on_status":
			hooks.OnStatus = converted
		default:
			return hooks, fmt.Errorf("unknown hook event %q", key)
		}
	}
	return hooks, nil
}
