package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayan-kumar1/pdfchat/internal/api"
	"github.com/mayan-kumar1/pdfchat/internal/chat"
	"github.com/mayan-kumar1/pdfchat/internal/document"
	"github.com/mayan-kumar1/pdfchat/internal/history"
	"github.com/mayan-kumar1/pdfchat/internal/nav"
	"github.com/mayan-kumar1/pdfchat/internal/session"
)

type (
	sessionLoadedMsg struct{}
	loginDoneMsg     struct{ err error }
	signupDoneMsg    struct{ err error }
	uploadDoneMsg    struct{ err error }
	queryDoneMsg     struct{}
)

// Model is the page switch. Which page is visible is owned by the nav
// controller; the model only renders it and feeds user input into the
// session, document and chat components.
type Model struct {
	sessions  *session.Manager
	nav       *nav.Controller
	documents *document.Session
	pipeline  *chat.Pipeline
	archive   *history.Store

	width  int
	height int
	spin   spinner.Model
	login  form
	signup form
	dash   dashboardModel
	theme  Theme
}

func NewModel(sessions *session.Manager, navc *nav.Controller, documents *document.Session, pipeline *chat.Pipeline, archive *history.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		sessions:  sessions,
		nav:       navc,
		documents: documents,
		pipeline:  pipeline,
		archive:   archive,
		spin:      sp,
		login:     newLoginForm(),
		signup:    newSignupForm(),
		dash:      newDashboardModel(),
		theme:     DefaultTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	rehydrate := func() tea.Msg {
		m.sessions.Rehydrate()
		return sessionLoadedMsg{}
	}
	return tea.Batch(m.spin.Tick, textinput.Blink, rehydrate)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dash.setSize(msg.Width, msg.Height)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case sessionLoadedMsg:
		// Page already forced by the nav observer if a session came back.

	case loginDoneMsg:
		m.login.submitting = false
		if msg.err != nil {
			m.login.errText = formError(msg.err)
		} else {
			m.login = m.login.reset()
		}

	case signupDoneMsg:
		m.signup.submitting = false
		if msg.err != nil {
			m.signup.errText = formError(msg.err)
		} else {
			m.signup = m.signup.reset()
		}

	case uploadDoneMsg, queryDoneMsg:
		// Transcript sync below picks up the settled state.

	case tea.KeyMsg:
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}
		m = model
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.nav.Current() == nav.PageDashboard {
		m.dash.transcript.SetMessages(m.pipeline.Messages())
	}
	return m, tea.Batch(cmds...)
}

// handleKey routes a key to the visible page. handled=true means the
// key produced a terminal action (quit) and no further processing runs.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.archiveConversation()
		return m, tea.Quit, true
	}

	switch m.nav.Current() {
	case nav.PageLanding:
		switch msg.String() {
		case "l":
			m.nav.Navigate(nav.PageLogin)
		case "s":
			m.nav.Navigate(nav.PageSignup)
		case "q":
			return m, tea.Quit, true
		}
		return m, nil, false

	case nav.PageLogin:
		return m.handleLoginKey(msg)

	case nav.PageSignup:
		return m.handleSignupKey(msg)

	case nav.PageDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil, false
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if m.login.submitting {
		return m, nil, false
	}
	switch msg.String() {
	case "esc":
		m.login = m.login.reset()
		m.nav.Navigate(nav.PageLanding)
		return m, nil, false
	case "tab", "down":
		var cmd tea.Cmd
		m.login, cmd = m.login.cycle(1)
		return m, cmd, false
	case "shift+tab", "up":
		var cmd tea.Cmd
		m.login, cmd = m.login.cycle(-1)
		return m, cmd, false
	case "enter":
		if !m.login.filled() {
			return m, nil, false
		}
		vals := m.login.values()
		m.login.submitting = true
		m.login.errText = ""
		return m, m.loginCmd(vals[0], vals[1]), false
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd, false
}

func (m Model) handleSignupKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if m.signup.submitting {
		return m, nil, false
	}
	switch msg.String() {
	case "esc":
		m.signup = m.signup.reset()
		m.nav.Navigate(nav.PageLanding)
		return m, nil, false
	case "tab", "down":
		var cmd tea.Cmd
		m.signup, cmd = m.signup.cycle(1)
		return m, cmd, false
	case "shift+tab", "up":
		var cmd tea.Cmd
		m.signup, cmd = m.signup.cycle(-1)
		return m, cmd, false
	case "enter":
		if !m.signup.filled() {
			return m, nil, false
		}
		vals := m.signup.values()
		m.signup.submitting = true
		m.signup.errText = ""
		return m, m.signupCmd(vals[0], vals[1], vals[2]), false
	}
	var cmd tea.Cmd
	m.signup, cmd = m.signup.update(msg)
	return m, cmd, false
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+o":
		m.archiveConversation()
		m.pipeline.Clear()
		m.documents.Clear()
		m.dash.leaveUploadMode()
		m.sessions.Logout()
		return m, nil, false
	case "ctrl+u":
		m.dash.enterUploadMode()
		return m, nil, false
	case "esc":
		if m.dash.uploadMode {
			m.dash.leaveUploadMode()
		}
		return m, nil, false
	case "enter":
		if m.dash.uploadMode {
			path := strings.TrimSpace(m.dash.input.Value())
			if path == "" || m.documents.Busy() {
				return m, nil, false
			}
			m.dash.leaveUploadMode()
			return m, m.uploadCmd(path), false
		}
		question := m.dash.input.Value()
		if strings.TrimSpace(question) == "" || m.pipeline.Pending() {
			return m, nil, false
		}
		if _, ready := m.documents.ActiveDocument(); !ready {
			return m, nil, false
		}
		m.dash.input.SetValue("")
		return m, m.queryCmd(question), false
	}
	var cmd tea.Cmd
	m.dash.input, cmd = m.dash.input.Update(msg)
	return m, cmd, false
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: m.sessions.Login(context.Background(), username, password)}
	}
}

func (m Model) signupCmd(username, email, password string) tea.Cmd {
	return func() tea.Msg {
		return signupDoneMsg{err: m.sessions.Signup(context.Background(), username, email, password)}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			slog.Warn("open file for upload", "path", path, "error", err)
			m.pipeline.Reset(fmt.Sprintf("Failed to upload %q. Please try again.", name))
			return uploadDoneMsg{err: err}
		}
		defer f.Close()
		return uploadDoneMsg{err: m.documents.Upload(context.Background(), name, f)}
	}
}

func (m Model) queryCmd(question string) tea.Cmd {
	return func() tea.Msg {
		if err := m.pipeline.Send(context.Background(), question); err != nil {
			slog.Warn("send dropped", "error", err)
		}
		return queryDoneMsg{}
	}
}

// archiveConversation saves the current transcript before it is lost
// to a quit or sign-out.
func (m Model) archiveConversation() {
	doc := m.documents.Current()
	if doc == nil {
		return
	}
	if err := m.archive.Archive(doc.Name, m.pipeline.Messages()); err != nil {
		slog.Warn("archive conversation", "document", doc.Name, "error", err)
	}
}

func formError(err error) string {
	if errors.Is(err, api.ErrInvalidCredentials) {
		return "Invalid username or password."
	}
	var se *api.SignupError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

func (m Model) View() string {
	if m.sessions.Loading() {
		return m.center(m.spin.View() + " Loading...")
	}

	switch m.nav.Current() {
	case nav.PageLogin:
		return m.center(m.login.view(m.theme,
			"Welcome Back", "Sign in to your account",
			"enter submit · tab next field · esc back"))
	case nav.PageSignup:
		return m.center(m.signup.view(m.theme,
			"Create Account", "Start chatting with your PDFs",
			"enter submit · tab next field · esc back"))
	case nav.PageDashboard:
		username := ""
		if s := m.sessions.Current(); s != nil {
			username = s.Username
		}
		busy := m.documents.Busy() || m.pipeline.Pending()
		return m.dash.view(username, m.documents.Current(), busy)
	}
	return m.center(m.landingView())
}

func (m Model) landingView() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("PDF Chat"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Subtitle.Render("Chat with your documents."))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Upload a PDF and ask questions instantly."))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Hint.Render("[l] log in · [s] sign up · [q] quit"))
	return b.String()
}

func (m Model) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
