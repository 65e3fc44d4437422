package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mayan-kumar1/pdfchat/internal/chat"
)

// TranscriptModel renders the conversation in a scrollable viewport.
type TranscriptModel struct {
	viewport viewport.Model
	theme    Theme
	empty    string
}

func NewTranscriptModel() TranscriptModel {
	vp := viewport.New(0, 0)
	return TranscriptModel{
		viewport: vp,
		theme:    DefaultTheme(),
		empty:    "Upload a PDF to start. Press ctrl+u and enter a file path.",
	}
}

func (m TranscriptModel) Update(msg tea.Msg) (TranscriptModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m TranscriptModel) View() string {
	return m.viewport.View()
}

func (m *TranscriptModel) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}

// SetMessages rebuilds the viewport content and scrolls to the bottom.
func (m *TranscriptModel) SetMessages(messages []chat.Message) {
	if len(messages) == 0 {
		m.viewport.SetContent(m.theme.Hint.Render(m.empty))
		return
	}

	var lines []string
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			lines = append(lines, m.theme.UserMessage.Render("You: "+msg.Content))
		case chat.RoleAssistant:
			lines = append(lines, m.theme.AssistantMessage.Render("Assistant: "+msg.Content))
		case chat.RoleSystem:
			lines = append(lines, m.theme.SystemMessage.Render(msg.Content))
		}
		lines = append(lines, "")
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}
