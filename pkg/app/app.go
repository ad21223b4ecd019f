package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/ambient"
	"tableflip.dev/boost/pkg/api"
	"tableflip.dev/boost/pkg/entries"
	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/logging"
	"tableflip.dev/boost/pkg/session"
	"tableflip.dev/boost/pkg/status"
	"tableflip.dev/boost/pkg/store"
)

const msgEmptyDraft = "write something positive first"

// Editing is the inline edit in progress.
type Editing struct {
	EntryID string
	Draft   string
}

// PendingDelete is the entry awaiting delete confirmation.
type PendingDelete struct {
	EntryID string
	Content string
}

// UI is the transient interaction state. It is never persisted.
type UI struct {
	Draft         string
	Editing       *Editing
	PendingDelete *PendingDelete
	AuthOpen      bool
	FormMessage   string
}

// View is an immutable snapshot for presenters.
type View struct {
	Session   session.State
	Entries   []entry.Entry
	Status    status.State
	UI        UI
	Reminders []ambient.Reminder
}

// Controller translates user intents into store operations and keeps the
// state of prompts and drafts. It issues no network calls of its own.
type Controller struct {
	Session     *session.Store
	Entries     *entries.Store
	Persistence store.Persistence

	log *zap.Logger

	mu      sync.Mutex
	ui      UI
	ambient *ambient.Handle
}

// New returns a Controller over existing stores.
func New(sess *session.Store, ents *entries.Store, log *zap.Logger) *Controller {
	return &Controller{
		Session: sess,
		Entries: ents,
		log:     logging.OrNop(log).Named("app"),
	}
}

// Options configure Open.
type Options struct {
	// Persistence overrides the diskv store built from the config.
	Persistence store.Persistence
	// Client overrides the API client built from the config.
	Client interface {
		api.AuthGateway
		api.EntryGateway
	}
	Logger *zap.Logger
}

// Open wires the stores from config and restores the persisted session.
func Open(cfg store.Config, opts Options) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("app: no config")
	}
	log := logging.OrNop(opts.Logger)

	p := opts.Persistence
	if p == nil {
		var err error
		if p, err = store.Load(cfg); err != nil {
			return nil, err
		}
	}
	client := opts.Client
	if client == nil {
		client = api.New(cfg.APIBase(), api.WithLogger(log))
	}

	var sess *session.Store
	ents := entries.New(client, entries.CredentialFunc(func() (string, bool) {
		return sess.Credential()
	}), log)
	sess = session.New(client, p, ents, log)
	if err := sess.Restore(); err != nil {
		return nil, err
	}

	c := New(sess, ents, log)
	c.Persistence = p
	return c, nil
}

// View returns a snapshot of everything a presenter draws.
func (c *Controller) View() View {
	c.mu.Lock()
	ui := c.ui
	if ui.Editing != nil {
		e := *ui.Editing
		ui.Editing = &e
	}
	if ui.PendingDelete != nil {
		d := *ui.PendingDelete
		ui.PendingDelete = &d
	}
	h := c.ambient
	c.mu.Unlock()

	v := View{
		Session: c.Session.State(),
		Entries: c.Entries.Entries(),
		Status:  c.Entries.State(),
		UI:      ui,
	}
	if h != nil {
		v.Reminders = h.Active()
	}
	return v
}

func (c *Controller) update(fn func(ui *UI)) {
	c.mu.Lock()
	fn(&c.ui)
	c.mu.Unlock()
}

// SetDraft replaces the text of the new-entry input.
func (c *Controller) SetDraft(text string) {
	c.update(func(ui *UI) {
		ui.Draft = text
		ui.FormMessage = ""
	})
}

// Add submits the draft as a new entry. A blank draft only sets a form
// message. The draft is cleared before the request is sent.
func (c *Controller) Add(ctx context.Context) error {
	var content string
	c.update(func(ui *UI) {
		content = strings.TrimSpace(ui.Draft)
		if content == "" {
			ui.FormMessage = msgEmptyDraft
			return
		}
		ui.Draft = ""
		ui.FormMessage = ""
	})
	if content == "" {
		return failure.Validation(msgEmptyDraft)
	}
	return c.Entries.Create(ctx, content)
}

// BeginEdit enters edit mode for the entry with the given id, seeded with its
// current content.
func (c *Controller) BeginEdit(id string) error {
	e, ok := c.Entries.Get(id)
	if !ok {
		return failure.Validation("no entry with id %q", id)
	}
	c.update(func(ui *UI) {
		ui.Editing = &Editing{EntryID: e.ID, Draft: e.Content}
	})
	return nil
}

// SetEditDraft replaces the text of the inline edit.
func (c *Controller) SetEditDraft(text string) {
	c.update(func(ui *UI) {
		if ui.Editing != nil {
			ui.Editing.Draft = text
		}
	})
}

// SaveEdit sends the edit for the entry being edited. A blank draft is
// ignored and edit mode stays open; otherwise edit mode closes whatever the
// outcome.
func (c *Controller) SaveEdit(ctx context.Context) error {
	var id, content string
	c.update(func(ui *UI) {
		if ui.Editing == nil {
			return
		}
		content = strings.TrimSpace(ui.Editing.Draft)
		if content == "" {
			return
		}
		id = ui.Editing.EntryID
		ui.Editing = nil
	})
	if id == "" {
		return nil
	}
	return c.Entries.Update(ctx, id, content)
}

// CancelEdit leaves edit mode without changes.
func (c *Controller) CancelEdit() {
	c.update(func(ui *UI) { ui.Editing = nil })
}

// RequestDelete opens the confirmation prompt for an entry.
func (c *Controller) RequestDelete(id string) error {
	e, ok := c.Entries.Get(id)
	if !ok {
		return failure.Validation("no entry with id %q", id)
	}
	c.update(func(ui *UI) {
		ui.PendingDelete = &PendingDelete{EntryID: e.ID, Content: e.Content}
	})
	return nil
}

// ConfirmDelete closes the prompt and deletes the entry it named.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	var id string
	c.update(func(ui *UI) {
		if ui.PendingDelete != nil {
			id = ui.PendingDelete.EntryID
			ui.PendingDelete = nil
		}
	})
	if id == "" {
		return nil
	}
	return c.Entries.Delete(ctx, id)
}

// CancelDelete closes the prompt without side effects.
func (c *Controller) CancelDelete() {
	c.update(func(ui *UI) { ui.PendingDelete = nil })
}

func (c *Controller) OpenAuth() {
	c.update(func(ui *UI) { ui.AuthOpen = true })
}

func (c *Controller) CloseAuth() {
	c.update(func(ui *UI) { ui.AuthOpen = false })
}

// Login authenticates and, on success, closes the auth prompt and loads the
// entries.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.Session.Login(ctx, email, password); err != nil {
		return err
	}
	c.afterAuth(ctx)
	return nil
}

// Register creates an account and behaves like Login on success.
func (c *Controller) Register(ctx context.Context, username, email, password string) error {
	if err := c.Session.Register(ctx, username, email, password); err != nil {
		return err
	}
	c.afterAuth(ctx)
	return nil
}

func (c *Controller) afterAuth(ctx context.Context) {
	c.CloseAuth()
	if err := c.Entries.FetchAll(ctx); err != nil {
		c.log.Warn("initial fetch failed", zap.Error(err))
	}
}

// Logout closes the auth prompt, stops the ambient engine and ends the
// session. Local state is cleared even when the request fails.
func (c *Controller) Logout(ctx context.Context) error {
	c.CloseAuth()
	c.StopAmbient()
	return c.Session.Logout(ctx)
}

// Refresh reloads the entries from the server.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Entries.FetchAll(ctx)
}

// StartAmbient starts the ambient engine over the entry store, replacing any
// engine already running. Logout stops it.
func (c *Controller) StartAmbient(opts ambient.Options) *ambient.Handle {
	if opts.Logger == nil {
		opts.Logger = c.log
	}
	h := ambient.Start(c.Entries, opts)

	c.mu.Lock()
	prev := c.ambient
	c.ambient = h
	c.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
	return h
}

// StopAmbient cancels the running ambient engine, if any.
func (c *Controller) StopAmbient() {
	c.mu.Lock()
	h := c.ambient
	c.ambient = nil
	c.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// Follow reloads the session whenever its durable record changes, so a login
// or logout in another process reaches this one. onChange runs after each
// reload. Follow returns once the watch is established.
func (c *Controller) Follow(ctx context.Context, onChange func()) error {
	if c.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	events, err := c.Persistence.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			if ev.Type == store.EventRecordChanged && ev.Key != session.RecordKey {
				continue
			}
			if err := c.Session.Reload(); err != nil {
				c.log.Warn("session reload failed", zap.Error(err))
				continue
			}
			if !c.Session.Authenticated() {
				c.StopAmbient()
			}
			if onChange != nil {
				onChange()
			}
		}
	}()
	return nil
}
