/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/progress"
)

var (
	// loader and clientFactory can be injected for testing
	loader        config.Loader
	clientFactory aws.ClientFactory
)

// SetLoader allows injection of a configuration loader (for testing)
func SetLoader(l config.Loader) {
	loader = l
}

// SetClientFactory allows injection of an AWS client factory (for testing)
func SetClientFactory(f aws.ClientFactory) {
	clientFactory = f
}

// loadStacks reads the configuration source named by the settings
func loadStacks(ctx context.Context) ([]*model.Stack, error) {
	source, err := settings.Source()
	if err != nil {
		return nil, err
	}

	l := loader
	if l == nil {
		l = config.NewLoader(source, logger)
	}

	stacks, err := l.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration %s: %w", source, err)
	}
	logger.Debug("configuration loaded", "source", source, "stacks", len(stacks))
	return stacks, nil
}

// getClientFactory returns the client factory, creating one for the selected profile if none is set
func getClientFactory(ctx context.Context) (aws.ClientFactory, error) {
	if clientFactory != nil {
		return clientFactory, nil
	}

	f, err := aws.NewClientFactory(ctx, settings.Profile)
	if err != nil {
		return nil, err
	}
	clientFactory = f
	return clientFactory, nil
}

// newWatcher builds the poller with the renderer selected by the settings
func newWatcher(factory aws.ClientFactory, out io.Writer) progress.Watcher {
	renderer := progress.NewRenderer(settings.Verbose, out, styles, logger)
	return progress.NewPoller(factory, renderer, logger)
}

// stackArg returns the optional stack name argument
func stackArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
