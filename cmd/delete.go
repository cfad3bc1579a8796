/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"io"

	"github.com/orien/stackpilot/internal/delete"
	"github.com/orien/stackpilot/internal/hooks"
	"github.com/spf13/cobra"
)

var (
	// deleter can be injected for testing
	deleter delete.Deleter
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete [stack]",
	Aliases: []string{"d"},
	Short:   "Delete stacks",
	Long: `Delete stacks in reverse dependency order.

Dependents are removed before the stacks they depend on. A stack that does
not exist counts as deleted, so an interrupted run can simply be repeated.

Examples:
  stackpilot delete           # Delete every stack
  stackpilot delete app       # Delete a single stack`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stacks, err := loadStacks(ctx)
		if err != nil {
			return err
		}

		d, err := getDeleter(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return d.Delete(ctx, stacks, stackArg(args))
	},
}

// getDeleter returns the deleter instance, creating a default one if none is set
func getDeleter(ctx context.Context, out io.Writer) (delete.Deleter, error) {
	if deleter != nil {
		return deleter, nil
	}

	factory, err := getClientFactory(ctx)
	if err != nil {
		return nil, err
	}
	return delete.NewStackDeleter(factory, hooks.NewShellRunner(out, styles, logger), newWatcher(factory, out), logger), nil
}

// SetDeleter allows injection of a deleter (for testing)
func SetDeleter(d delete.Deleter) {
	deleter = d
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
