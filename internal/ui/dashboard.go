package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayan-kumar1/pdfchat/internal/document"
)

const sidebarWidth = 28

// dashboardModel is the chat page: sidebar with the active document,
// the transcript, and an input line that doubles as the upload prompt.
type dashboardModel struct {
	transcript TranscriptModel
	input      textinput.Model
	uploadMode bool
	theme      Theme
	width      int
	height     int
}

func newDashboardModel() dashboardModel {
	input := textinput.New()
	input.Placeholder = "Ask a question about this document..."
	input.CharLimit = 2000
	input.Focus()

	return dashboardModel{
		transcript: NewTranscriptModel(),
		input:      input,
		theme:      DefaultTheme(),
	}
}

func (d *dashboardModel) setSize(width, height int) {
	d.width = width
	d.height = height
	d.transcript.SetSize(width-sidebarWidth-4, height-5)
	d.input.Width = width - sidebarWidth - 10
}

func (d *dashboardModel) enterUploadMode() {
	d.uploadMode = true
	d.input.SetValue("")
	d.input.Placeholder = "Path to a PDF file..."
}

func (d *dashboardModel) leaveUploadMode() {
	d.uploadMode = false
	d.input.SetValue("")
	d.input.Placeholder = "Ask a question about this document..."
}

func (d dashboardModel) view(username string, doc *document.Document, busy bool) string {
	sidebar := d.sidebarView(username, doc)

	status := ""
	if busy {
		status = d.theme.Hint.Render("Working...")
	}
	main := lipgloss.JoinVertical(
		lipgloss.Left,
		d.transcript.View(),
		status,
		d.theme.InputBorder.Render(d.input.View()),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (d dashboardModel) sidebarView(username string, doc *document.Document) string {
	var b strings.Builder
	b.WriteString(d.theme.Title.Render("PDF Chat"))
	b.WriteString("\n\n")

	b.WriteString(d.theme.Label.Render("ACTIVE DOCUMENT"))
	b.WriteString("\n")
	switch {
	case doc == nil:
		b.WriteString(d.theme.Hint.Render("No document selected"))
	case doc.Status == document.StatusUploading:
		b.WriteString(d.theme.SidebarItem.Render(fmt.Sprintf("%s (uploading)", doc.Name)))
	default:
		b.WriteString(d.theme.SidebarItem.Render(doc.Name))
	}
	b.WriteString("\n\n")

	b.WriteString(d.theme.Label.Render("USER"))
	b.WriteString("\n")
	b.WriteString(d.theme.SidebarItem.Render(username))
	b.WriteString("\n\n")

	hint := "ctrl+u upload · ctrl+o sign out · ctrl+c quit"
	if d.uploadMode {
		hint = "enter upload · esc cancel"
	}
	b.WriteString(d.theme.Hint.Render(hint))

	return d.theme.Sidebar.Width(sidebarWidth).Height(d.height - 2).Render(b.String())
}
