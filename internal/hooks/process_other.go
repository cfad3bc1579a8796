/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

//go:build !unix

package hooks

import "os/exec"

// killProcessGroupOnCancel keeps the default behaviour of killing only the shell
func killProcessGroupOnCancel(*exec.Cmd) {}
