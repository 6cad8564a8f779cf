// Package ui hosts the interactive terminal surfaces. The REPL shows
// the inferred type of the expression being typed, live, plus any
// diagnostics, without evaluating anything.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sift/internal/diag"
	"sift/internal/driver"
	"sift/internal/types"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

type historyEntry struct {
	input string
	label string
}

type replModel struct {
	input   textinput.Model
	opts    driver.Options
	history []historyEntry
	typed   string
	diags   []string
	width   int
}

// NewREPL returns a Bubble Tea model for the type-exploration prompt.
func NewREPL(opts driver.Options) tea.Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("sift> ")
	ti.Placeholder = "expression"
	ti.Focus()
	return &replModel{input: ti, opts: opts, width: 80}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.commit()
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

// refresh re-analyzes the in-progress line on every keystroke. Queries
// are cheap enough that no debounce is needed at typing speed.
func (m *replModel) refresh() {
	src := m.input.Value()
	if strings.TrimSpace(src) == "" {
		m.typed = ""
		m.diags = nil
		return
	}
	result := driver.Analyze(src, m.opts)
	m.typed = types.Details(result.RootType())
	m.diags = m.diags[:0]
	for _, d := range result.Bag.Items() {
		line := fmt.Sprintf("%s: %s", strings.ToLower(d.Severity.String()), d.Message)
		if d.Severity >= diag.SevError {
			line = errorStyle.Render(line)
		} else {
			line = warningStyle.Render(line)
		}
		m.diags = append(m.diags, line)
	}
}

func (m *replModel) commit() {
	src := strings.TrimSpace(m.input.Value())
	if src == "" {
		return
	}
	label := m.typed
	if label == "" {
		result := driver.Analyze(src, m.opts)
		label = types.Details(result.RootType())
	}
	m.history = append(m.history, historyEntry{input: src, label: label})
	m.input.Reset()
	m.typed = ""
	m.diags = nil
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(faintStyle.Render("sift type explorer; esc or ctrl+c to quit"))
	b.WriteString("\n\n")
	for _, entry := range m.history {
		b.WriteString(promptStyle.Render("sift> "))
		b.WriteString(entry.input)
		b.WriteString("\n  ")
		b.WriteString(typeStyle.Render(entry.label))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.typed != "" {
		b.WriteString("  ")
		b.WriteString(typeStyle.Render(m.typed))
		b.WriteString("\n")
	}
	for _, line := range m.diags {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
