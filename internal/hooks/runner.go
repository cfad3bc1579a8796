/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package hooks runs the shell commands stacks bind to their lifecycle events.
package hooks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/ui"
	"golang.org/x/sync/errgroup"
)

// Environment variables passed to every hook
const (
	EnvStack  = "STACKPILOT_STACK"
	EnvRegion = "STACKPILOT_REGION"
	EnvEvent  = "STACKPILOT_EVENT"
	EnvPhase  = "STACKPILOT_PHASE"
)

// waitDelay bounds how long Wait waits for output after the hook is killed
const waitDelay = 5 * time.Second

// HookFailedError reports a hook that exited non-zero or could not be started
type HookFailedError struct {
	Stack    string
	Hook     string
	ExitCode int
	Err      error
}

func (e *HookFailedError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("[%s] hook %s failed with exit code %d", e.Stack, e.Hook, e.ExitCode)
	}
	return fmt.Sprintf("[%s] hook %s failed: %v", e.Stack, e.Hook, e.Err)
}

func (e *HookFailedError) Unwrap() error {
	return e.Err
}

// Runner runs the hooks of a stack for one event and phase
type Runner interface {
	Run(ctx context.Context, stack *model.Stack, event model.Event, phase model.Phase) error
}

// ShellRunner runs hooks with sh -c, streaming their output line by line
type ShellRunner struct {
	out    io.Writer
	styles *ui.Styles
	logger *slog.Logger
	shell  string

	mu sync.Mutex
}

// NewShellRunner creates a runner writing prefixed hook output to out
func NewShellRunner(out io.Writer, styles *ui.Styles, logger *slog.Logger) *ShellRunner {
	return &ShellRunner{
		out:    out,
		styles: styles,
		logger: logger,
		shell:  "sh",
	}
}

// Run executes the matching hooks sequentially in declared order, stopping at the first failure
func (r *ShellRunner) Run(ctx context.Context, stack *model.Stack, event model.Event, phase model.Phase) error {
	for _, hook := range stack.Hooks.Select(event, phase) {
		if err := r.runHook(ctx, stack, hook, event, phase); err != nil {
			return err
		}
	}
	return nil
}

func (r *ShellRunner) runHook(ctx context.Context, stack *model.Stack, hook model.Hook, event model.Event, phase model.Phase) error {
	r.logger.Debug("running hook", "stack", stack.Name, "hook", hook.Name, "event", event.String(), "phase", phase.String())

	cmd := exec.CommandContext(ctx, r.shell, "-c", hook.Run)
	cmd.Env = append(os.Environ(),
		EnvStack+"="+stack.Name,
		EnvRegion+"="+stack.EffectiveRegion(),
		EnvEvent+"="+event.String(),
		EnvPhase+"="+phase.String(),
	)
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &HookFailedError{Stack: stack.Name, Hook: hook.Name, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &HookFailedError{Stack: stack.Name, Hook: hook.Name, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &HookFailedError{Stack: stack.Name, Hook: hook.Name, Err: err}
	}

	prefix := r.styles.HookPrefix(stack.Name, hook.Name)
	var g errgroup.Group
	g.Go(func() error { return r.stream(prefix, stdout) })
	g.Go(func() error { return r.stream(prefix, stderr) })

	// pipes must be drained before Wait closes them
	streamErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		failed := &HookFailedError{Stack: stack.Name, Hook: hook.Name, Err: waitErr}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			failed.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			failed.Err = ctxErr
			failed.ExitCode = 0
		}
		return failed
	}
	if streamErr != nil {
		return &HookFailedError{Stack: stack.Name, Hook: hook.Name, Err: streamErr}
	}

	r.logger.Debug("hook finished", "stack", stack.Name, "hook", hook.Name)
	return nil
}

// stream copies pipe to out one prefixed line at a time. Lines have no length limit and the
// pipe is always read to EOF so the hook never blocks on a full pipe.
func (r *ShellRunner) stream(prefix string, pipe io.Reader) error {
	reader := bufio.NewReader(pipe)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			r.mu.Lock()
			_, err := fmt.Fprintf(r.out, "%s %s\n", prefix, strings.TrimSuffix(line, "\n"))
			r.mu.Unlock()
			if err != nil {
				_, _ = io.Copy(io.Discard, reader)
				return err
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			_, _ = io.Copy(io.Discard, reader)
			return readErr
		}
	}
}
