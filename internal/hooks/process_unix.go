/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

// killProcessGroupOnCancel runs the hook in its own process group and kills the whole
// group on cancellation, so pipelines started by the shell stop with it.
func killProcessGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
