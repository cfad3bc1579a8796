/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
// Package validate checks rendered templates with a local linter or with CloudFormation.
package validate

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/orien/stackpilot/internal/stage"
	"github.com/orien/stackpilot/internal/ui"
)

// ErrValidationFailed is returned when at least one template fails validation
var ErrValidationFailed = errors.New("template validation failed")

// Validator orchestrates template validation
type Validator interface {
	// Validate checks the named stack, or every stack when name is empty
	Validate(ctx context.Context, stacks []*model.Stack, name string) error
}

// TemplateValidator implements the Validator interface
type TemplateValidator struct {
	clientFactory aws.ClientFactory
	processor     resolve.TemplateProcessor
	stager        *stage.Stager
	linter        []string
	out           io.Writer
	styles        *ui.Styles
	logger        *slog.Logger
}

// NewTemplateValidator creates a new validator. With an empty linter command templates are
// sent to CloudFormation instead.
func NewTemplateValidator(
	clientFactory aws.ClientFactory,
	processor resolve.TemplateProcessor,
	linter []string,
	out io.Writer,
	styles *ui.Styles,
	logger *slog.Logger,
) *TemplateValidator {
	return &TemplateValidator{
		clientFactory: clientFactory,
		processor:     processor,
		stager:        stage.NewStager(clientFactory),
		linter:        linter,
		out:           out,
		styles:        styles,
		logger:        logger,
	}
}

// ValidationResult contains the outcome of a single stack validation
type ValidationResult struct {
	StackName string
	Valid     bool
	Error     string
}

// Validate checks every selected stack and prints a summary when more than one was checked
func (v *TemplateValidator) Validate(ctx context.Context, stacks []*model.Stack, name string) error {
	selected, err := resolve.Select(stacks, name)
	if err != nil {
		return err
	}

	results := make([]ValidationResult, 0, len(selected))
	var firstErr error

	for _, stack := range selected {
		if err := v.ValidateStack(ctx, stack); err != nil {
			// interruption is not a validation outcome
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(v.out, "%s %s %v\n", v.styles.Prefix(stack.Name), v.styles.Error.Render("✗"), err)
			results = append(results, ValidationResult{StackName: stack.Name, Error: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(v.out, "%s %s\n", v.styles.Prefix(stack.Name), v.styles.Success.Render("✓ template is valid"))
		results = append(results, ValidationResult{StackName: stack.Name, Valid: true})
	}

	if len(results) > 1 {
		v.printSummary(results)
	}

	switch {
	case firstErr == nil:
		return nil
	case len(results) == 1:
		return firstErr
	default:
		return ErrValidationFailed
	}
}

// ValidateStack renders one stack's template and validates it
func (v *TemplateValidator) ValidateStack(ctx context.Context, stack *model.Stack) error {
	body, err := resolve.Render(v.processor, stack)
	if err != nil {
		return err
	}

	if len(v.linter) > 0 {
		return v.lint(ctx, stack, body)
	}
	return v.validateRemotely(ctx, stack, body)
}

// lint runs the linter against the template written to a temporary file
func (v *TemplateValidator) lint(ctx context.Context, stack *model.Stack, body string) error {
	file, err := os.CreateTemp("", "stackpilot-*"+templateExtension(body))
	if err != nil {
		return fmt.Errorf("failed to create temporary template file: %w", err)
	}
	defer func() { _ = os.Remove(file.Name()) }()

	if _, err := file.WriteString(body); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write temporary template file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write temporary template file: %w", err)
	}

	args := append(append([]string{}, v.linter[1:]...), file.Name())
	v.logger.Debug("running linter", "stack", stack.Name, "command", v.linter[0], "args", args)

	cmd := exec.CommandContext(ctx, v.linter[0], args...)
	output, runErr := cmd.CombinedOutput()
	v.printLinterOutput(stack.Name, output)

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Errorf("%w: linter exited with code %d", ErrValidationFailed, exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run linter %s: %w", v.linter[0], runErr)
	}
	return nil
}

// validateRemotely asks CloudFormation to validate the template, staging it first when oversized
func (v *TemplateValidator) validateRemotely(ctx context.Context, stack *model.Stack, body string) error {
	template, err := v.stager.Prepare(ctx, stack, body)
	if err != nil {
		return err
	}

	cfn, err := v.clientFactory.CloudFormation(ctx, stack.EffectiveRegion())
	if err != nil {
		return fmt.Errorf("failed to get CloudFormation operations: %w", err)
	}

	if err := cfn.ValidateTemplate(ctx, template); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return nil
}

func (v *TemplateValidator) printLinterOutput(stack string, output []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fmt.Fprintf(v.out, "%s %s\n", v.styles.Prefix(stack), scanner.Text())
	}
}

// printSummary prints validation results summary
func (v *TemplateValidator) printSummary(results []ValidationResult) {
	rule := strings.Repeat("━", 40)
	fmt.Fprintf(v.out, "\n%s\n%s\n%s\n", rule, v.styles.Bold.Render("Validation Summary"), rule)

	validCount := 0
	for _, result := range results {
		if result.Valid {
			validCount++
			fmt.Fprintf(v.out, "%s %s\n", v.styles.Success.Render("✓"), result.StackName)
		} else {
			fmt.Fprintf(v.out, "%s %s\n", v.styles.Error.Render("✗"), result.StackName)
			fmt.Fprintf(v.out, "  Error: %s\n", result.Error)
		}
	}
	invalidCount := len(results) - validCount

	fmt.Fprintln(v.out, rule)
	fmt.Fprintf(v.out, "Total:   %d\n", len(results))
	fmt.Fprintf(v.out, "Valid:   %d\n", validCount)
	fmt.Fprintf(v.out, "Invalid: %d\n", invalidCount)
}

// templateExtension guesses the file extension linters use to pick a parser
func templateExtension(body string) string {
	if strings.HasPrefix(strings.TrimSpace(body), "{") {
		return ".json"
	}
	return ".yaml"
}
