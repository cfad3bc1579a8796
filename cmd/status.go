/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"io"

	"github.com/orien/stackpilot/internal/hooks"
	"github.com/orien/stackpilot/internal/status"
	"github.com/spf13/cobra"
)

var (
	// reporter can be injected for testing
	reporter status.Reporter
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [stack]",
	Short: "Show the current status of stacks",
	Long: `Show the current CloudFormation status of stacks in declared order.

Reporting stops, successfully, at the first stack that does not exist.

Examples:
  stackpilot status           # Status of every stack
  stackpilot status app       # Status of a single stack`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stacks, err := loadStacks(ctx)
		if err != nil {
			return err
		}

		r, err := getReporter(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return r.Report(ctx, stacks, stackArg(args))
	},
}

// getReporter returns the reporter instance, creating a default one if none is set
func getReporter(ctx context.Context, out io.Writer) (status.Reporter, error) {
	if reporter != nil {
		return reporter, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	return status.NewStatusReporter(factory, hooks.NewShellRunner(out, styles, logger), out, styles, logger), nil
}

// SetReporter allows injection of a reporter (for testing)
func SetReporter(r status.Reporter) {
	reporter = r
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
