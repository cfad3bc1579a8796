/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package script

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/orien/stackpilot/internal/config/source"
	"github.com/orien/stackpilot/internal/model"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"stacks": &starlarkstruct.Module{
			Name: "stacks",
			Members: starlark.StringDict{
				"new":  starlark.NewBuiltin("stacks.new", stacksNew),
				"add":  starlark.NewBuiltin("stacks.add", stacksAdd),
				"hook": starlark.NewBuiltin("stacks.hook", stacksHook),
			},
		},
		"os": &starlarkstruct.Module{
			Name: "os",
			Members: starlark.StringDict{
				"env":  starlark.NewBuiltin("os.env", osEnv),
				"open": starlark.NewBuiltin("os.open", osOpen),
				"cmd":  starlark.NewBuiltin("os.cmd", osCmd),
			},
		},
		"http": &starlarkstruct.Module{
			Name: "http",
			Members: starlark.StringDict{
				"get":  starlark.NewBuiltin("http.get", httpGet),
				"post": starlark.NewBuiltin("http.post", httpPost),
			},
		},
	}
}

func stacksNew(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name, template, region, bucket          string
		values                                  starlark.Value = starlark.None
		parameters, hooks                       *starlark.Dict
		capabilities, customResources, depends *starlark.List
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"template", &template,
		"region?", &region,
		"bucket?", &bucket,
		"values?", &values,
		"parameters?", &parameters,
		"capabilities?", &capabilities,
		"custom_resources?", &customResources,
		"depends_on?", &depends,
		"hooks?", &hooks,
	); err != nil {
		return nil, err
	}

	stack := &model.Stack{
		Name:     name,
		Template: template,
		Region:   region,
		Bucket:   bucket,
	}

	var err error
	if values != starlark.None {
		converted, err := toGo(values)
		if err != nil {
			return nil, fmt.Errorf("%s: values: %w", b.Name(), err)
		}
		m, ok := converted.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: values must be a dict, got %s", b.Name(), values.Type())
		}
		stack.Values = m
	}
	if stack.Parameters, err = toParameters(parameters); err != nil {
		return nil, fmt.Errorf("%s: parameters: %w", b.Name(), err)
	}
	if stack.Capabilities, err = toStrings(capabilities); err != nil {
		return nil, fmt.Errorf("%s: capabilities: %w", b.Name(), err)
	}
	if stack.CustomResources, err = toStrings(customResources); err != nil {
		return nil, fmt.Errorf("%s: custom_resources: %w", b.Name(), err)
	}
	if stack.DependsOn, err = toStrings(depends); err != nil {
		return nil, fmt.Errorf("%s: depends_on: %w", b.Name(), err)
	}
	if stack.Hooks, err = toHooks(hooks); err != nil {
		return nil, fmt.Errorf("%s: hooks: %w", b.Name(), err)
	}

	return &stackValue{stack: stack}, nil
}

func stacksAdd(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v *stackValue
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	c, err := threadCollector(thread)
	if err != nil {
		return nil, err
	}
	c.stacks = append(c.stacks, v.stack)
	return starlark.None, nil
}

func stacksHook(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name, run  string
		onComplete bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "run", &run, "on_complete?", &onComplete); err != nil {
		return nil, err
	}
	return hookValue{hook: model.Hook{Name: name, Run: run, OnComplete: onComplete}}, nil
}

func osEnv(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name     string
		fallback starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &fallback); err != nil {
		return nil, err
	}
	if value, ok := os.LookupEnv(name); ok {
		return starlark.String(value), nil
	}
	if fallback != starlark.None {
		return fallback, nil
	}
	return nil, fmt.Errorf("%s: environment variable %s is not set", b.Name(), name)
}

func osOpen(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &path); err != nil {
		return nil, err
	}
	data, err := source.Read(threadContext(thread), source.Join(thread.Name, path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.String(data), nil
}

func osCmd(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var command string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "cmd", &command); err != nil {
		return nil, err
	}
	out, err := exec.CommandContext(threadContext(thread), "sh", "-c", command).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: command [%s] failed: %w: %s", b.Name(), command, err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("%s: command [%s] failed: %w", b.Name(), command, err)
	}
	return starlark.String(out), nil
}

func httpGet(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		url     string
		headers *starlark.Dict
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "url", &url, "headers?", &headers); err != nil {
		return nil, err
	}
	h, err := toStringMap(headers)
	if err != nil {
		return nil, fmt.Errorf("%s: headers: %w", b.Name(), err)
	}
	data, err := source.Get(threadContext(thread), url, h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.String(data), nil
}

func httpPost(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		url, body string
		headers   *starlark.Dict
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "url", &url, "body?", &body, "headers?", &headers); err != nil {
		return nil, err
	}
	h, err := toStringMap(headers)
	if err != nil {
		return nil, fmt.Errorf("%s: headers: %w", b.Name(), err)
	}
	data, err := source.Post(threadContext(thread), url, body, h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.String(data), nil
}
