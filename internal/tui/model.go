// Package tui is the interactive chat surface for the concierge.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TurnHandler is the TUI-facing subset of the pipeline.
type TurnHandler interface {
	HandleTurn(ctx context.Context, text string) string
}

type entry struct {
	speaker string
	text    string
}

type answerMsg struct {
	text string
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	pipeline    TurnHandler
	personaName string
	input       textinput.Model
	viewport    viewport.Model
	transcript  []entry
	status      string
	waiting     bool
	ready       bool
}

// New creates a new chat model instance.
func New(pipeline TurnHandler, personaName, greeting string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask me anything, or just say hi"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		pipeline:    pipeline,
		personaName: personaName,
		input:       ti,
		viewport:    vp,
		status:      "Ready.",
	}
	if greeting != "" {
		m.transcript = append(m.transcript, entry{speaker: personaName, text: greeting})
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case answerMsg:
		m.transcript = append(m.transcript, entry{speaker: m.personaName, text: msg.text})
		m.waiting = false
		m.status = "Ready."
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.transcript = append(m.transcript, entry{speaker: "You", text: q})
			m.input.SetValue("")
			m.waiting = true
			m.status = "Thinking..."
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			pipeline := m.pipeline
			return m, func() tea.Msg {
				return answerMsg{text: pipeline.HandleTurn(context.Background(), q)}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.personaName + " - Personal Wine Concierge")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "Say hello to get started."
	}
	lines := make([]string, 0, len(m.transcript))
	for _, e := range m.transcript {
		name := speakerStyle.Render(e.speaker + ":")
		lines = append(lines, name+" "+e.text)
	}
	return strings.Join(lines, "\n\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	speakerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
