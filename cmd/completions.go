/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionsCmd represents the completions command
var completionsCmd = &cobra.Command{
	Use:   "completions <bash|zsh|fish|powershell>",
	Short: "Generate a shell completion script",
	Long: `Write a completion script for the given shell to standard output.

Examples:
  stackpilot completions bash > /etc/bash_completion.d/stackpilot
  stackpilot completions zsh > "${fpath[1]}/_stackpilot"
  stackpilot completions fish > ~/.config/fish/completions/stackpilot.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// completion scripts need no settings
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		root := cmd.Root()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionsCmd)
}
