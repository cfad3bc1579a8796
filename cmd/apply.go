/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"io"

	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/hooks"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	// deployer can be injected for testing
	deployer deploy.Deployer
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:     "apply [stack]",
	Aliases: []string{"a"},
	Short:   "Create or update stacks",
	Long: `Create or update stacks in dependency order.

Each stack is created when it does not exist yet and updated otherwise. The
command follows the stack event log until CloudFormation reports a terminal
state, printing any resource failures along the way. An update with nothing
to change is reported and skipped.

If no stack name is provided, every stack in the configuration is applied.
A named stack is applied on its own, without its dependencies.

Examples:
  stackpilot apply            # Apply every stack
  stackpilot apply vpc        # Apply a single stack
  stackpilot a app -v         # Apply with a timestamped event log`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stacks, err := loadStacks(ctx)
		if err != nil {
			return err
		}

		d, err := getDeployer(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return d.Deploy(ctx, stacks, stackArg(args))
	},
}

// getDeployer returns the deployer instance, creating a default one if none is set
func getDeployer(ctx context.Context, out io.Writer) (deploy.Deployer, error) {
	if deployer != nil {
		return deployer, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	return deploy.NewStackDeployer(
		factory,
		resolve.NewCfnTemplateProcessor(),
		hooks.NewShellRunner(out, styles, logger),
		newWatcher(factory, out),
		out,
		styles,
		logger,
	), nil
}

// SetDeployer allows injection of a deployer (for testing)
func SetDeployer(d deploy.Deployer) {
	deployer = d
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
