/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/orien/stackpilot/internal/config/file"
	"github.com/orien/stackpilot/internal/config/script"
	"github.com/orien/stackpilot/internal/model"
)

// Loader turns a configuration source into the stacks it declares, in declared order
type Loader interface {
	Load(ctx context.Context, source string) ([]*model.Stack, error)
}

var (
	_ Loader = (*file.Loader)(nil)
	_ Loader = (*script.Loader)(nil)
)

// IsScript reports whether source names a Starlark configuration script
func IsScript(source string) bool {
	return strings.HasSuffix(source, ".star") || strings.HasSuffix(source, ".star.py")
}

// NewLoader picks the loader for source: Starlark for .star scripts, YAML otherwise
func NewLoader(source string, logger *slog.Logger) Loader {
	if IsScript(source) {
		return script.NewLoader(logger)
	}
	return file.NewLoader(logger)
}
