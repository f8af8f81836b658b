// Package chat is the interactive terminal UI: a conversation view for
// asking questions about analysis results, plus a confidence dashboard.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth     = 80
	defaultHeight    = 24
	inputHeight      = 3
	completeTimeout  = 2 * time.Minute
	transcriptIndent = "  "
)

// Completer answers one system+user exchange. Satisfied by llm.Client.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// turn is one exchange in the transcript.
type turn struct {
	role string
	text string
}

// Model is the BubbleTea chat model: a viewport transcript over a
// textarea prompt.
type Model struct {
	completer Completer
	system    string

	viewport viewport.Model
	input    textarea.Model
	turns    []turn
	waiting  bool
	err      error
	quitting bool
	ready    bool
}

type replyMsg string
type chatErrMsg error

// NewModel creates a chat model. The system prompt carries the analysis
// context the conversation is about.
func NewModel(completer Completer, system string) Model {
	input := textarea.New()
	input.Placeholder = "Ask about the detected patterns..."
	input.SetHeight(inputHeight)
	input.ShowLineNumbers = false
	input.Focus()

	vp := viewport.New(defaultWidth, defaultHeight-inputHeight-4)

	return Model{
		completer: completer,
		system:    system,
		viewport:  vp,
		input:     input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// send dispatches the user prompt to the completer.
func (m Model) send(prompt string) tea.Cmd {
	completer, system := m.completer, m.system
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), completeTimeout)
		defer cancel()

		reply, err := completer.Complete(ctx, system, prompt)
		if err != nil {
			return chatErrMsg(err)
		}
		return replyMsg(reply)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - inputHeight - 6
		m.input.SetWidth(msg.Width - 4)
		m.ready = true
		m.viewport.SetContent(m.transcript())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" || m.waiting {
				return m, nil
			}
			m.turns = append(m.turns, turn{role: "user", text: prompt})
			m.input.Reset()
			m.waiting = true
			m.err = nil
			m.refreshTranscript()
			return m, m.send(prompt)
		}

	case replyMsg:
		m.turns = append(m.turns, turn{role: "assistant", text: string(msg)})
		m.waiting = false
		m.refreshTranscript()
		return m, nil

	case chatErrMsg:
		m.err = error(msg)
		m.waiting = false
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m Model) transcript() string {
	if len(m.turns) == 0 {
		return dimStyle.Render("No messages yet. Type a question and press enter.")
	}

	var b strings.Builder
	for _, t := range m.turns {
		if t.role == "user" {
			b.WriteString(userStyle.Render("you") + "\n")
		} else {
			b.WriteString(sectionStyle.Render("edgarsift") + "\n")
		}
		for _, line := range strings.Split(t.text, "\n") {
			b.WriteString(transcriptIndent + assistantStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(" edgarsift chat ") + "\n\n")
	b.WriteString(m.viewport.View() + "\n\n")

	if m.waiting {
		b.WriteString(dimStyle.Render("thinking...") + "\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(footerKeyStyle.Render("[enter]") + footerStyle.Render(" send  ") +
		footerKeyStyle.Render("[esc]") + footerStyle.Render(" quit"))

	return containerStyle.Render(b.String())
}
