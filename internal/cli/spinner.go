// Package cli holds small terminal helpers shared by the commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

type doneMsg struct{}

type waitModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newWaitModel(label string) waitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return waitModel{spinner: s, label: label}
}

func (m waitModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// ctrl+c only hides the spinner; the work itself is bounded by its context.
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
}

// WithSpinner runs fn while a spinner labelled label is shown on stderr.
// Without a terminal it prints label once and runs fn directly.
func WithSpinner[T any](label string, fn func() (T, error)) (T, error) {
	if !IsTerminal(os.Stderr) {
		fmt.Fprintln(os.Stderr, label)
		return fn()
	}

	var (
		result T
		err    error
	)
	finished := make(chan struct{})
	p := tea.NewProgram(newWaitModel(label), tea.WithOutput(os.Stderr))
	go func() {
		result, err = fn()
		close(finished)
		p.Send(doneMsg{})
	}()

	if _, runErr := p.Run(); runErr != nil {
		fmt.Fprintln(os.Stderr, label)
	}
	<-finished
	return result, err
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
