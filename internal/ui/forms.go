package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is the shared shape of the login and signup pages: a focused
// column of text inputs with an inline error line.
type form struct {
	inputs     []textinput.Model
	focus      int
	errText    string
	submitting bool
}

func newLoginForm() form {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return form{inputs: []textinput.Model{username, password}}
}

func newSignupForm() form {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return form{inputs: []textinput.Model{username, email, password}}
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) cycle(delta int) (form, tea.Cmd) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f, f.inputs[f.focus].Focus()
}

func (f form) values() []string {
	vals := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		vals[i] = in.Value()
	}
	return vals
}

func (f form) filled() bool {
	for _, in := range f.inputs {
		if strings.TrimSpace(in.Value()) == "" {
			return false
		}
	}
	return true
}

func (f form) reset() form {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
	f.errText = ""
	f.submitting = false
	return f
}

func (f form) view(theme Theme, title, subtitle, footer string) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(subtitle))
	b.WriteString("\n\n")
	if f.errText != "" {
		b.WriteString(theme.ErrorMessage.Render(f.errText))
		b.WriteString("\n\n")
	}
	for _, in := range f.inputs {
		b.WriteString(theme.InputBorder.Render(in.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.submitting {
		b.WriteString(theme.Hint.Render("Submitting..."))
	} else {
		b.WriteString(theme.Hint.Render(footer))
	}
	return b.String()
}
