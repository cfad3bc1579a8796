/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"io"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/orien/stackpilot/internal/validate"
	"github.com/spf13/cobra"
)

var (
	// validator can be injected for testing
	validator validate.Validator
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [stack]",
	Short: "Validate rendered templates",
	Long: `Render templates and validate them.

Templates are checked with the linter named by STACKPILOT_LINTER, or with
cfn-lint when it is on PATH. Without a local linter the template is sent to
the CloudFormation ValidateTemplate API instead.

Examples:
  stackpilot check            # Check every stack
  stackpilot check vpc        # Check a single stack
  STACKPILOT_LINTER="cfn-lint --format parseable" stackpilot check`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stacks, err := loadStacks(ctx)
		if err != nil {
			return err
		}

		v, err := getValidator(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return v.Validate(ctx, stacks, stackArg(args))
	},
}

// getValidator returns the validator instance, creating a default one if none is set
func getValidator(ctx context.Context, out io.Writer) (validate.Validator, error) {
	if validator != nil {
		return validator, nil
	}

	linter, err := settings.LinterCommand()
	if err != nil {
		return nil, err
	}

	// the AWS configuration is only needed for remote validation
	var factory aws.ClientFactory
	if len(linter) == 0 {
		if factory, err = getClientFactory(ctx); err != nil {
			return nil, err
		}
	}
	return validate.NewTemplateValidator(factory, resolve.NewCfnTemplateProcessor(), linter, out, styles, logger), nil
}

// SetValidator allows injection of a validator (for testing)
func SetValidator(v validate.Validator) {
	validator = v
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
