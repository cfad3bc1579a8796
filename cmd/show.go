/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/spf13/cobra"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <stack>",
	Short: "Print a stack's rendered template",
	Long: `Render a stack's template with its values and print the result.

Nothing is sent to AWS. Output is syntax highlighted unless colour is
disabled with --no-colour or NO_COLOR.

Examples:
  stackpilot show vpc
  stackpilot show app --no-colour > app.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stacks, err := loadStacks(cmd.Context())
		if err != nil {
			return err
		}

		selected, err := resolve.Select(stacks, args[0])
		if err != nil {
			return err
		}

		body, err := resolve.Render(resolve.NewCfnTemplateProcessor(), selected[0])
		if err != nil {
			return err
		}
		return printTemplate(cmd.OutOrStdout(), body, styles.UseColour)
	},
}

// printTemplate writes body to out, highlighted as JSON or YAML when colour is on
func printTemplate(out io.Writer, body string, colour bool) error {
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if !colour {
		_, err := io.WriteString(out, body)
		return err
	}

	lexer := "yaml"
	if strings.HasPrefix(strings.TrimSpace(body), "{") {
		lexer = "json"
	}
	if err := quick.Highlight(out, body, lexer, highlightFormatter, highlightStyle); err != nil {
		return fmt.Errorf("failed to highlight template: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
