// Package tui is the full-screen terminal version of the converter page.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/earlysvahn/unitsense/internal/convert"
	"github.com/earlysvahn/unitsense/internal/relay"
	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/widget"
)

type Config struct {
	Actions   *widget.Actions
	History   *session.History
	SessionID string
}

type field int

const (
	fieldCategory field = iota
	fieldFrom
	fieldTo
	fieldValue
	fieldPrompt
	fieldHistory
	fieldCount
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type answerMsg struct {
	reply relay.Reply
	err   error
}

type model struct {
	cfg     Config
	focus   field
	catIdx  int
	fromIdx int
	toIdx   int
	value   textinput.Model
	prompt  textinput.Model
	spinner spinner.Model

	result         string
	convertWarning string
	answer         string
	askWarning     string
	asking         bool

	selected int
	expanded map[int]bool
}

func Run(cfg Config) error {
	_, err := tea.NewProgram(newModel(cfg), tea.WithAltScreen()).Run()
	return err
}

func newModel(cfg Config) model {
	value := textinput.New()
	value.Placeholder = "0.00"
	value.CharLimit = 32

	prompt := textinput.New()
	prompt.Placeholder = "Enter your question"

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = focusStyle

	m := model{
		cfg:      cfg,
		value:    value,
		prompt:   prompt,
		spinner:  s,
		expanded: make(map[int]bool),
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) category() convert.Category {
	return convert.Categories()[m.catIdx]
}

func (m model) units() []string {
	return convert.Units(m.category())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case answerMsg:
		m.asking = false
		if errors.Is(msg.err, widget.ErrEmptyPrompt) {
			m.askWarning = widget.EmptyPromptWarning
			return m, nil
		}
		m.answer = msg.reply.Text
		m.askWarning = ""
		m.selected = 0
		// Display positions shift by one on every new entry.
		m.expanded = make(map[int]bool)
		return m, nil

	case spinner.TickMsg:
		if !m.asking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		if msg.Type == tea.KeyDown && m.focus == fieldHistory {
			if n := m.cfg.History.Len(); m.selected < n-1 {
				m.selected++
			}
			return m, nil
		}
		return m.setFocus((m.focus + 1) % fieldCount), nil
	case tea.KeyShiftTab, tea.KeyUp:
		if msg.Type == tea.KeyUp && m.focus == fieldHistory && m.selected > 0 {
			m.selected--
			return m, nil
		}
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount), nil
	case tea.KeyLeft, tea.KeyRight:
		if m.cycleSelector(msg.Type == tea.KeyRight) {
			return m, nil
		}
	case tea.KeyEnter:
		switch m.focus {
		case fieldPrompt:
			return m.ask()
		case fieldHistory:
			return m, nil
		default:
			return m.convert(), nil
		}
	case tea.KeySpace:
		if m.focus == fieldHistory {
			m.expanded[m.selected] = !m.expanded[m.selected]
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldValue:
		m.value, cmd = m.value.Update(msg)
	case fieldPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

func (m model) setFocus(f field) model {
	m.focus = f
	m.value.Blur()
	m.prompt.Blur()
	switch f {
	case fieldValue:
		m.value.Focus()
	case fieldPrompt:
		m.prompt.Focus()
	}
	return m
}

// cycleSelector moves the focused selector and reports whether one was focused.
func (m *model) cycleSelector(forward bool) bool {
	step := func(i, n int) int {
		if forward {
			return (i + 1) % n
		}
		return (i + n - 1) % n
	}
	switch m.focus {
	case fieldCategory:
		m.catIdx = step(m.catIdx, len(convert.Categories()))
		m.fromIdx, m.toIdx = 0, 0
		m.result, m.convertWarning = "", ""
	case fieldFrom:
		m.fromIdx = step(m.fromIdx, len(m.units()))
	case fieldTo:
		m.toIdx = step(m.toIdx, len(m.units()))
	default:
		return false
	}
	return true
}

func (m model) convert() model {
	m.result, m.convertWarning = "", ""
	raw := strings.TrimSpace(m.value.Value())
	if raw == "" {
		raw = "0"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.convertWarning = "Please enter a number."
		return m
	}
	units := m.units()
	res, err := m.cfg.Actions.Convert(convert.Request{
		Value:    v,
		From:     units[m.fromIdx],
		To:       units[m.toIdx],
		Category: m.category(),
	})
	if err != nil {
		m.convertWarning = err.Error()
		return m
	}
	m.result = res.Message
	return m
}

func (m model) ask() (tea.Model, tea.Cmd) {
	if m.asking {
		return m, nil
	}
	prompt := m.prompt.Value()
	if prompt == "" {
		m.askWarning = widget.EmptyPromptWarning
		return m, nil
	}
	m.asking = true
	m.askWarning = ""
	actions, hist, id := m.cfg.Actions, m.cfg.History, m.cfg.SessionID
	call := func() tea.Msg {
		reply, err := actions.Ask(context.Background(), hist, id, prompt)
		return answerMsg{reply: reply, err: err}
	}
	return m, tea.Batch(call, m.spinner.Tick)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("UnitSense AI") + "\n\n")

	units := m.units()
	b.WriteString(m.selectorLine(fieldCategory, "Category", string(m.category())))
	b.WriteString(m.selectorLine(fieldFrom, "From", units[m.fromIdx]))
	b.WriteString(m.selectorLine(fieldTo, "To", units[m.toIdx]))
	b.WriteString(m.label(fieldValue, "Value") + " " + m.value.View() + "\n")
	if m.result != "" {
		b.WriteString(successStyle.Render(m.result) + "\n")
	}
	if m.convertWarning != "" {
		b.WriteString(warningStyle.Render(m.convertWarning) + "\n")
	}

	b.WriteString("\n" + m.label(fieldPrompt, "Ask AI") + " " + m.prompt.View() + "\n")
	switch {
	case m.asking:
		b.WriteString(m.spinner.View() + " asking...\n")
	case m.askWarning != "":
		b.WriteString(warningStyle.Render(m.askWarning) + "\n")
	case m.answer != "":
		b.WriteString(m.answer + "\n")
	}

	items := m.cfg.History.Display()
	if len(items) > 0 {
		b.WriteString("\n" + m.label(fieldHistory, "Search History") + "\n")
		for i, it := range items {
			marker := "▸"
			if m.expanded[i] {
				marker = "▾"
			}
			line := fmt.Sprintf("%s %s", marker, it.Title())
			if m.focus == fieldHistory && i == m.selected {
				line = focusStyle.Render(line)
			}
			b.WriteString(line + "\n")
			if m.expanded[i] {
				b.WriteString(dimStyle.Render("    "+it.Answer) + "\n")
			}
		}
	}

	b.WriteString("\n" + dimStyle.Render("tab: next field  ←/→: change  enter: convert/ask  space: expand  esc: quit") + "\n")
	return b.String()
}

func (m model) label(f field, name string) string {
	if m.focus == f {
		return focusStyle.Render("> " + name + ":")
	}
	return labelStyle.Render("  " + name + ":")
}

func (m model) selectorLine(f field, name, current string) string {
	return fmt.Sprintf("%s ‹ %s ›\n", m.label(f, name), current)
}
