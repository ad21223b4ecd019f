// Package tui is the interactive terminal surface of boost: the entry list,
// inline add and edit, delete confirmation, and a sky above the list where
// past entries float by.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/boost/pkg/ambient"
	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/timeutil"
	"tableflip.dev/boost/pkg/tui/theme"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirm
	modeAuth
)

// RemindersMsg carries a snapshot of the active reminders. Engine names the
// engine run that produced it and Seq orders snapshots within that run, so a
// late delivery never overwrites a newer one or revives a stopped engine.
type RemindersMsg struct {
	Engine uint64
	Seq    uint64
	Items  []ambient.Reminder
}

// SessionMsg reports that the persisted session changed outside the UI.
type SessionMsg struct{}

type resultMsg struct {
	op  string
	err error
}

// Options configure the model.
type Options struct {
	// Ambient configures the engine started while a user is logged in.
	// Viewport and OnChange are set by the model.
	Ambient ambient.Options
	Now     func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	ctl   *app.Controller
	ctx   context.Context
	opts  Options
	theme theme.Theme
	keys  keyMap
	help  help.Model

	mode   mode
	input  textinput.Model
	auth   authForm
	cursor int
	status string

	width, height int
	reminders     []ambient.Reminder
	engine        uint64
	applied       uint64

	// Read from ambient timer goroutines.
	vpMu sync.Mutex
	vp   ambient.Size

	sendMu sync.Mutex
	send   func(tea.Msg)
}

// New returns a model over ctl. Call Attach with the program before running
// it so reminder updates reach the UI.
func New(ctx context.Context, ctl *app.Controller, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Ambient.Box == (ambient.Size{}) {
		opts.Ambient.Box = ambient.DefaultBox
	}
	ti := textinput.New()
	ti.CharLimit = 280
	ti.Prompt = ""

	m := &Model{
		ctl:   ctl,
		ctx:   ctx,
		opts:  opts,
		theme: theme.Default(),
		keys:  defaultKeys(),
		help:  help.New(),
		input: ti,
		auth:  newAuthForm(),
	}
	if !ctl.Session.Authenticated() {
		m.enterAuth()
	}
	return m
}

// Attach routes reminder updates through p.
func (m *Model) Attach(p *tea.Program) {
	m.sendMu.Lock()
	m.send = p.Send
	m.sendMu.Unlock()
}

// Viewport is the area reminders are placed in.
func (m *Model) Viewport() ambient.Size {
	m.vpMu.Lock()
	defer m.vpMu.Unlock()
	return m.vp
}

func (m *Model) Init() tea.Cmd {
	if m.mode == modeAuth {
		return textinput.Blink
	}
	m.startAmbient()
	return m.run("refresh", m.ctl.Refresh)
}

func (m *Model) startAmbient() {
	m.resetReminders()
	engine := m.engine
	// The engine serializes OnChange calls.
	var seq uint64

	opts := m.opts.Ambient
	opts.Viewport = m.Viewport
	opts.OnChange = func(items []ambient.Reminder) {
		seq++
		msg := RemindersMsg{Engine: engine, Seq: seq, Items: items}
		m.sendMu.Lock()
		send := m.send
		m.sendMu.Unlock()
		if send != nil {
			// The engine may report from inside an Update call; never block
			// the event loop on itself.
			go send(msg)
		}
	}
	m.ctl.StartAmbient(opts)
}

func (m *Model) stopAmbient() {
	m.ctl.StopAmbient()
	m.resetReminders()
}

// resetReminders clears the sky and starts a new engine run; snapshots from
// earlier runs are dropped on arrival.
func (m *Model) resetReminders() {
	m.engine++
	m.applied = 0
	m.reminders = nil
}

func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.layout()
		return m, nil

	case RemindersMsg:
		if msg.Engine == m.engine && msg.Seq > m.applied {
			m.applied = msg.Seq
			m.reminders = msg.Items
		}
		return m, nil

	case SessionMsg:
		return m, m.sessionChanged()

	case resultMsg:
		return m, m.result(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAuth:
			return m, m.updateAuth(msg)
		case modeAdd, modeEdit:
			return m, m.updateInput(msg)
		case modeConfirm:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) sessionChanged() tea.Cmd {
	authed := m.ctl.Session.Authenticated()
	switch {
	case !authed && m.mode != modeAuth:
		m.stopAmbient()
		m.enterAuth()
		m.status = "signed out"
		return textinput.Blink
	case authed && m.mode == modeAuth:
		m.leaveAuth()
		m.startAmbient()
		return m.run("refresh", m.ctl.Refresh)
	}
	return nil
}

func (m *Model) result(msg resultMsg) tea.Cmd {
	if msg.err != nil {
		m.status = failure.Message(msg.err)
		if msg.op == "logout" {
			m.stopAmbient()
			m.enterAuth()
		}
		return nil
	}
	switch msg.op {
	case "login", "register":
		m.leaveAuth()
		m.startAmbient()
		m.status = "welcome, " + m.ctl.View().Session.Username()
	case "logout":
		m.stopAmbient()
		m.enterAuth()
		m.status = "signed out"
	case "add":
		m.cursor = 0
		m.status = "saved"
	case "edit":
		m.status = "updated"
	case "delete":
		m.status = "deleted"
	case "refresh":
		m.status = ""
	}
	m.clampCursor()
	return nil
}

func (m *Model) selected() (string, bool) {
	all := m.ctl.Entries.Entries()
	if m.cursor < 0 || m.cursor >= len(all) {
		return "", false
	}
	return all[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := m.ctl.Entries.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Placeholder = "What went well?"
		m.input.SetValue(m.ctl.View().UI.Draft)
		return m.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		id, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.ctl.BeginEdit(id); err != nil {
			m.status = failure.Message(err)
			return nil
		}
		m.mode = modeEdit
		m.input.Placeholder = ""
		m.input.SetValue(m.ctl.View().UI.Editing.Draft)
		m.input.CursorEnd()
		return m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.ctl.RequestDelete(id); err != nil {
			m.status = failure.Message(err)
			return nil
		}
		m.mode = modeConfirm
	case key.Matches(msg, m.keys.Refresh):
		m.status = "refreshing…"
		return m.run("refresh", m.ctl.Refresh)
	case key.Matches(msg, m.keys.Logout):
		m.stopAmbient()
		return m.run("logout", m.ctl.Logout)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			m.ctl.CancelEdit()
		}
		m.mode = modeList
		m.input.Blur()
		return nil
	case "enter":
		if m.mode == modeAdd {
			if strings.TrimSpace(m.input.Value()) == "" {
				m.status = "write something positive first"
				return nil
			}
			m.mode = modeList
			m.input.Blur()
			m.input.SetValue("")
			m.status = "saving…"
			return m.run("add", m.ctl.Add)
		}
		if strings.TrimSpace(m.input.Value()) == "" {
			m.status = "an entry cannot be empty"
			return nil
		}
		m.mode = modeList
		m.input.Blur()
		m.status = "saving…"
		return m.run("edit", m.ctl.SaveEdit)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeAdd {
		m.ctl.SetDraft(m.input.Value())
	} else {
		m.ctl.SetEditDraft(m.input.Value())
	}
	return cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeList
		m.status = "deleting…"
		return m.run("delete", m.ctl.ConfirmDelete)
	case "n", "N", "esc", "q":
		m.ctl.CancelDelete()
		m.mode = modeList
	}
	return nil
}

func (m *Model) enterAuth() {
	m.mode = modeAuth
	m.input.Blur()
	m.auth.reset()
	m.ctl.OpenAuth()
}

func (m *Model) leaveAuth() {
	m.mode = modeList
	m.auth.blur()
	m.ctl.CloseAuth()
}

// layout recomputes the sky so the ambient engine places reminders inside it.
func (m *Model) layout() {
	_, sky, _ := m.regions()
	m.vpMu.Lock()
	m.vp = ambient.Size{W: m.width, H: sky}
	m.vpMu.Unlock()
}

// regions splits the screen height into sky, list and footer rows.
func (m *Model) regions() (header, sky, list int) {
	header = 1
	footer := 1 + lipgloss.Height(m.help.View(m.keys))
	body := max(m.height-header-footer, 0)
	if body >= m.opts.Ambient.Box.H+4 {
		sky = body * 2 / 5
	}
	return header, sky, body - sky
}

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}
	v := m.ctl.View()

	parts := []string{m.viewHeader(v)}
	_, skyRows, listRows := m.regions()
	if m.mode == modeAuth {
		parts = append(parts, lipgloss.Place(m.width, skyRows+listRows, lipgloss.Center, lipgloss.Center, m.auth.view(m.theme, v)))
	} else {
		if skyRows > 0 {
			c := newCanvas(m.width, skyRows)
			for _, r := range m.reminders {
				c.stamp(r, m.opts.Ambient.Box)
			}
			parts = append(parts, c.render(m.theme.Reminder.Pending, m.theme.Reminder.Visible))
		}
		parts = append(parts, m.viewList(v, listRows))
	}
	parts = append(parts, m.viewInput(v), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) viewHeader(v app.View) string {
	t := m.theme.Header
	line := t.Title.Render("boost") + t.User.Render(" · "+v.Session.Username())
	if n := len(v.Entries); n > 0 {
		line += t.User.Render(fmt.Sprintf(" · %d entries", n))
	}
	switch {
	case v.Status.Loading() || v.Session.Loading():
		line += "  " + t.Busy.Render("…")
	case v.Status.Failed():
		line += "  " + t.Error.Render(v.Status.Message)
	}
	return truncate.String(line, uint(m.width))
}

func (m *Model) viewList(v app.View, rows int) string {
	if rows <= 0 {
		return ""
	}
	t := m.theme.List
	lines := make([]string, 0, rows)
	if len(v.Entries) == 0 {
		lines = append(lines, t.Empty.Render("  nothing here yet, press a to add your first boost"))
	}
	start := max(m.cursor-rows+1, 0)
	now := m.opts.Now()
	for i := start; i < len(v.Entries) && len(lines) < rows; i++ {
		e := v.Entries[i]
		when := timeutil.Ago(e.Created.Time, now)
		text := truncate.StringWithTail(e.Content, uint(max(m.width-14, 1)), "…")
		style, marker := t.Item, "  "
		if i == m.cursor {
			style, marker = t.Selected, "› "
		}
		lines = append(lines, style.Render(marker)+t.When.Render(fmt.Sprintf("%-9s", when))+" "+style.Render(text))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewInput(v app.View) string {
	t := m.theme.Footer
	switch m.mode {
	case modeAdd:
		return t.Prompt.Render("+ ") + m.input.View()
	case modeEdit:
		return t.Prompt.Render("✎ ") + m.input.View()
	case modeConfirm:
		if d := v.UI.PendingDelete; d != nil {
			content := truncate.StringWithTail(d.Content, uint(max(m.width-30, 1)), "…")
			return t.Message.Render(fmt.Sprintf("Delete %q? ", content)) + t.Help.Render("y/n")
		}
	}
	if v.UI.FormMessage != "" {
		return t.Message.Render(v.UI.FormMessage)
	}
	return t.Status.Render(m.status)
}
