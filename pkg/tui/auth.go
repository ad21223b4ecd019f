package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/tui/theme"
)

// authForm is the login and register prompt shown while logged out.
type authForm struct {
	register bool
	focus    int
	username textinput.Model
	email    textinput.Model
	password textinput.Model
}

func newAuthForm() authForm {
	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = 32
		return ti
	}
	f := authForm{
		username: mk("username"),
		email:    mk("email"),
		password: mk("password"),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	return f
}

func (f *authForm) fields() []*textinput.Model {
	if f.register {
		return []*textinput.Model{&f.username, &f.email, &f.password}
	}
	return []*textinput.Model{&f.email, &f.password}
}

func (f *authForm) reset() {
	f.username.SetValue("")
	f.password.SetValue("")
	f.focus = 0
	f.refocus()
}

func (f *authForm) blur() {
	for _, in := range []*textinput.Model{&f.username, &f.email, &f.password} {
		in.Blur()
	}
}

func (f *authForm) refocus() tea.Cmd {
	f.blur()
	fields := f.fields()
	f.focus = (f.focus + len(fields)) % len(fields)
	return fields[f.focus].Focus()
}

func (m *Model) updateAuth(msg tea.KeyMsg) tea.Cmd {
	f := &m.auth
	switch msg.String() {
	case "tab", "down":
		f.focus++
		return f.refocus()
	case "shift+tab", "up":
		f.focus--
		return f.refocus()
	case "ctrl+r":
		f.register = !f.register
		f.focus = 0
		return f.refocus()
	case "esc":
		m.status = ""
		return nil
	case "enter":
		fields := f.fields()
		if f.focus < len(fields)-1 {
			f.focus++
			return f.refocus()
		}
		username := strings.TrimSpace(f.username.Value())
		email := strings.TrimSpace(f.email.Value())
		password := f.password.Value()
		if f.register {
			m.status = "creating your account…"
			return m.run("register", func(ctx context.Context) error {
				return m.ctl.Register(ctx, username, email, password)
			})
		}
		m.status = "logging in…"
		return m.run("login", func(ctx context.Context) error {
			return m.ctl.Login(ctx, email, password)
		})
	}

	var cmd tea.Cmd
	in := f.fields()[f.focus]
	*in, cmd = in.Update(msg)
	return cmd
}

func (f *authForm) view(t theme.Theme, v app.View) string {
	title := "Log in"
	toggle := "ctrl+r to create an account"
	if f.register {
		title = "Create an account"
		toggle = "ctrl+r to log in instead"
	}
	rows := []string{t.Modal.Title.Render(title), ""}
	for _, in := range f.fields() {
		rows = append(rows, in.View())
	}
	if v.Session.Failed() {
		rows = append(rows, "", t.Footer.Message.Render(v.Session.Message))
	}
	rows = append(rows, "", t.Footer.Help.Render("tab next field · enter submit · "+toggle))
	return t.Modal.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
