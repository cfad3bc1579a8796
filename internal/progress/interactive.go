/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/ui"
)

type statusMsg string

type messageMsg string

type doneMsg struct {
	result *Result
}

// progressModel is a spinner line above a panel of collected messages
type progressModel struct {
	styles   *ui.Styles
	stack    string
	spinner  spinner.Model
	status   string
	messages []string
	result   *Result
}

func newProgressModel(stack string, styles *ui.Styles) progressModel {
	return progressModel{
		styles:  styles,
		stack:   stack,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		status:  "waiting",
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case messageMsg:
		m.messages = append(m.messages, string(msg))
		return m, nil
	case doneMsg:
		m.result = msg.result
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.result != nil {
		return Summary(m.styles, m.stack, m.result)
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.styles.Prefix(m.stack))
	b.WriteString(" ")
	b.WriteString(m.styles.InProgress.Render(m.status))
	b.WriteString("\n")
	if len(m.messages) > 0 {
		b.WriteString(m.styles.Panel.Render(strings.Join(m.messages, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

// InteractiveRenderer shows a spinner with the current status and a message panel
type InteractiveRenderer struct {
	out     io.Writer
	styles  *ui.Styles
	logger  *slog.Logger
	program *tea.Program
	done    chan struct{}
}

// NewInteractiveRenderer creates a renderer drawing to out
func NewInteractiveRenderer(out io.Writer, styles *ui.Styles, logger *slog.Logger) *InteractiveRenderer {
	return &InteractiveRenderer{out: out, styles: styles, logger: logger}
}

func (r *InteractiveRenderer) Begin(stack string) {
	r.program = tea.NewProgram(newProgressModel(stack, r.styles),
		tea.WithInput(nil),
		tea.WithOutput(r.out),
		tea.WithoutSignalHandler(),
	)
	r.done = make(chan struct{})

	program, done, logger := r.program, r.done, r.logger
	go func() {
		defer close(done)
		if _, err := program.Run(); err != nil {
			logger.Debug("progress display stopped", "stack", stack, "error", err)
		}
	}()
}

func (r *InteractiveRenderer) Status(_ string, status *aws.StackStatus) {
	if r.program != nil {
		r.program.Send(statusMsg(strings.ToLower(status.Raw)))
	}
}

// Event is a no-op; only failures reach the panel, through Message
func (r *InteractiveRenderer) Event(string, aws.StackEvent) {}

func (r *InteractiveRenderer) Message(_ string, message string) {
	if r.program != nil {
		r.program.Send(messageMsg(message))
	}
}

func (r *InteractiveRenderer) End(_ string, result *Result) {
	if r.program == nil {
		return
	}
	r.program.Send(doneMsg{result: result})
	<-r.done
	r.program = nil
}
