package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableflip.dev/boost/pkg/ambient"
	"tableflip.dev/boost/pkg/api"
	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/status"
	"tableflip.dev/boost/pkg/store"
)

// memoryAPI is an in-process stand-in for the remote API.
type memoryAPI struct {
	mu      sync.Mutex
	counter int
	list    []entry.Entry
	calls   map[string]int
	fail    map[string]error
}

func newMemoryAPI(list ...entry.Entry) *memoryAPI {
	return &memoryAPI{list: list, calls: map[string]int{}, fail: map[string]error{}}
}

func (m *memoryAPI) hit(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.fail[op]
}

func (m *memoryAPI) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *memoryAPI) Login(_ context.Context, email, _ string) (api.AuthResult, error) {
	if err := m.hit("login"); err != nil {
		return api.AuthResult{}, err
	}
	return api.AuthResult{Token: "tok1", User: &api.User{Username: "alice", Email: email}}, nil
}

func (m *memoryAPI) Register(_ context.Context, username, email, _ string) (api.AuthResult, error) {
	if err := m.hit("register"); err != nil {
		return api.AuthResult{}, err
	}
	return api.AuthResult{Token: "tok1", User: &api.User{Username: username, Email: email}}, nil
}

func (m *memoryAPI) Logout(context.Context, string) error {
	return m.hit("logout")
}

func (m *memoryAPI) Profile(context.Context, string) (api.User, error) {
	return api.User{Username: "alice"}, m.hit("profile")
}

func (m *memoryAPI) Stats(context.Context, string) (api.Stats, error) {
	m.mu.Lock()
	n := len(m.list)
	m.mu.Unlock()
	return api.Stats{TotalEntries: n}, m.hit("stats")
}

func (m *memoryAPI) List(context.Context, string) ([]entry.Entry, error) {
	if err := m.hit("list"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entry.Entry(nil), m.list...), nil
}

func (m *memoryAPI) Create(_ context.Context, _, content string) (entry.Entry, error) {
	if err := m.hit("create"); err != nil {
		return entry.Entry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	e := entry.Entry{ID: fmt.Sprintf("n%d", m.counter), Content: content}
	m.list = append([]entry.Entry{e}, m.list...)
	return e, nil
}

func (m *memoryAPI) Update(_ context.Context, _, id, content string) (entry.Entry, error) {
	if err := m.hit("update"); err != nil {
		return entry.Entry{}, err
	}
	return entry.Entry{ID: id, Content: content}, nil
}

func (m *memoryAPI) Delete(_ context.Context, _, id string) (string, error) {
	if err := m.hit("delete"); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := entry.IndexOf(m.list, id); i >= 0 {
		m.list = append(m.list[:i], m.list[i+1:]...)
	}
	return "Entry deleted", nil
}

func open(t *testing.T, remote *memoryAPI) *Controller {
	t.Helper()
	c, err := Open(store.StaticConfig{}, Options{Persistence: store.Memory(), Client: remote})
	require.NoError(t, err)
	return c
}

func loggedIn(t *testing.T, remote *memoryAPI) *Controller {
	t.Helper()
	c := open(t, remote)
	require.NoError(t, c.Login(context.Background(), "a@b.com", "x"))
	return c
}

func TestLoginLoadsEntriesAndClosesPrompt(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1", Content: "A"})
	c := open(t, remote)
	c.OpenAuth()

	require.NoError(t, c.Login(context.Background(), "a@b.com", "x"))
	v := c.View()
	require.False(t, v.UI.AuthOpen)
	require.True(t, v.Session.Authenticated)
	require.Len(t, v.Entries, 1)
}

func TestLoginFailureKeepsPromptOpen(t *testing.T) {
	remote := newMemoryAPI()
	remote.fail["login"] = failure.Auth("Invalid credentials", 401)
	c := open(t, remote)
	c.OpenAuth()

	require.ErrorIs(t, c.Login(context.Background(), "a@b.com", "bad"), failure.ErrAuth)
	v := c.View()
	require.True(t, v.UI.AuthOpen)
	require.Equal(t, "Invalid credentials", v.Session.Message)
	require.Zero(t, remote.count("list"))
}

func TestAddClearsDraftAndCreates(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1", Content: "A"})
	c := loggedIn(t, remote)

	c.SetDraft("  Helped a colleague  ")
	require.NoError(t, c.Add(context.Background()))
	v := c.View()
	require.Empty(t, v.UI.Draft)
	require.Equal(t, "Helped a colleague", v.Entries[0].Content)
}

func TestAddBlankDraftDoesNotDispatch(t *testing.T) {
	remote := newMemoryAPI()
	c := loggedIn(t, remote)

	c.SetDraft("   ")
	require.ErrorIs(t, c.Add(context.Background()), failure.ErrValidation)
	require.Zero(t, remote.count("create"))
	require.Equal(t, msgEmptyDraft, c.View().UI.FormMessage)
}

func TestAddFailureStillClearsDraft(t *testing.T) {
	remote := newMemoryAPI()
	c := loggedIn(t, remote)
	remote.fail["create"] = failure.Network("Failed to create entry", 500, nil)

	c.SetDraft("hello")
	require.Error(t, c.Add(context.Background()))
	v := c.View()
	require.Empty(t, v.UI.Draft)
	require.Equal(t, status.Error, v.Status.Status)
	require.Empty(t, v.Entries)
}

func TestEditFlow(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1", Content: "A"})
	c := loggedIn(t, remote)

	require.ErrorIs(t, c.BeginEdit("missing"), failure.ErrValidation)
	require.NoError(t, c.BeginEdit("e1"))
	require.Equal(t, &Editing{EntryID: "e1", Draft: "A"}, c.View().UI.Editing)

	c.SetEditDraft("  ")
	require.NoError(t, c.SaveEdit(context.Background()))
	require.NotNil(t, c.View().UI.Editing)
	require.Zero(t, remote.count("update"))

	c.SetEditDraft("A2")
	require.NoError(t, c.SaveEdit(context.Background()))
	v := c.View()
	require.Nil(t, v.UI.Editing)
	require.Equal(t, "A2", v.Entries[0].Content)
}

func TestSaveEditExitsEvenOnFailure(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1", Content: "A"})
	c := loggedIn(t, remote)
	remote.fail["update"] = failure.Network("Failed to update entry", 500, nil)

	require.NoError(t, c.BeginEdit("e1"))
	c.SetEditDraft("A2")
	require.Error(t, c.SaveEdit(context.Background()))
	v := c.View()
	require.Nil(t, v.UI.Editing)
	require.Equal(t, "A", v.Entries[0].Content)
}

func TestCancelEdit(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1", Content: "A"})
	c := loggedIn(t, remote)

	require.NoError(t, c.BeginEdit("e1"))
	c.SetEditDraft("changed")
	c.CancelEdit()
	require.Nil(t, c.View().UI.Editing)
	require.Zero(t, remote.count("update"))
}

func TestDeleteConfirmAndCancel(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e2", Content: "B"}, entry.Entry{ID: "e1", Content: "A"})
	c := loggedIn(t, remote)

	require.NoError(t, c.RequestDelete("e1"))
	require.Equal(t, &PendingDelete{EntryID: "e1", Content: "A"}, c.View().UI.PendingDelete)
	c.CancelDelete()
	require.Nil(t, c.View().UI.PendingDelete)
	require.Zero(t, remote.count("delete"))
	require.Len(t, c.View().Entries, 2)

	require.NoError(t, c.RequestDelete("e1"))
	require.NoError(t, c.ConfirmDelete(context.Background()))
	v := c.View()
	require.Nil(t, v.UI.PendingDelete)
	require.Equal(t, 1, remote.count("delete"))
	require.Len(t, v.Entries, 1)
	require.Equal(t, "e2", v.Entries[0].ID)

	require.NoError(t, c.ConfirmDelete(context.Background()))
	require.Equal(t, 1, remote.count("delete"))
}

func TestLogoutClearsEverythingAndStopsAmbient(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1", Content: "A"})
	remote.fail["logout"] = failure.Network("unable to reach the server", 0, nil)
	c := loggedIn(t, remote)
	h := c.StartAmbient(ambient.Options{Interval: time.Hour})
	require.True(t, h.Running())

	require.Error(t, c.Logout(context.Background()))
	v := c.View()
	require.False(t, v.Session.Authenticated)
	require.Empty(t, v.Entries)
	require.Empty(t, v.Reminders)
	require.False(t, h.Running())
}

func TestEntryOpsWithoutSession(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1"})
	c := open(t, remote)

	require.ErrorIs(t, c.Refresh(context.Background()), failure.ErrAuth)
	require.Zero(t, remote.count("list"))
	require.Equal(t, status.Error, c.View().Status.Status)
}

func TestSessionSurvivesReopen(t *testing.T) {
	remote := newMemoryAPI()
	p := store.Memory()
	c, err := Open(store.StaticConfig{}, Options{Persistence: p, Client: remote})
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), "a@b.com", "x"))

	again, err := Open(store.StaticConfig{}, Options{Persistence: p, Client: remote})
	require.NoError(t, err)
	require.True(t, again.View().Session.Authenticated)
	require.Equal(t, "alice", again.View().Session.Username())
}

func TestFollowPicksUpLogoutElsewhere(t *testing.T) {
	remote := newMemoryAPI(entry.Entry{ID: "e1"})
	p := store.Memory()
	c, err := Open(store.StaticConfig{}, Options{Persistence: p, Client: remote})
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), "a@b.com", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 16)
	require.NoError(t, c.Follow(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	other, err := Open(store.StaticConfig{}, Options{Persistence: p, Client: remote})
	require.NoError(t, err)
	require.NoError(t, other.Logout(context.Background()))

	require.Eventually(t, func() bool {
		return !c.View().Session.Authenticated
	}, time.Second, 10*time.Millisecond)
	require.Empty(t, c.View().Entries)
}

func TestFollowPicksUpLogoutFromAnotherProcess(t *testing.T) {
	dir := t.TempDir()
	remote := newMemoryAPI(entry.Entry{ID: "e1"})
	disk := func() store.Persistence {
		p, err := store.Load(store.StaticConfig{Path: dir})
		require.NoError(t, err)
		return p
	}

	c, err := Open(store.StaticConfig{}, Options{Persistence: disk(), Client: remote})
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), "a@b.com", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Follow(ctx, func() {}))

	other, err := Open(store.StaticConfig{}, Options{Persistence: disk(), Client: remote})
	require.NoError(t, err)
	require.True(t, other.View().Session.Authenticated)
	require.NoError(t, other.Logout(context.Background()))

	require.Eventually(t, func() bool {
		return !c.View().Session.Authenticated
	}, 3*time.Second, 20*time.Millisecond)
	require.Empty(t, c.View().Entries)
}
