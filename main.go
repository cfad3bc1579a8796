/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/orien/stackpilot/cmd"
	"github.com/orien/stackpilot/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, cmd.RootCommand(), fang.WithVersion(version.Short()), fang.WithCommit(version.GitCommit)); err != nil {
		stop()
		os.Exit(1)
	}
}
