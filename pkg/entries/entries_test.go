package entries

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/status"
)

type creds string

func (c creds) Credential() (string, bool) { return string(c), c != "" }

type fakeGateway struct {
	mu     sync.Mutex
	calls  int
	tokens []string

	list    []entry.Entry
	err     error
	next    int
	release map[string]chan struct{}
}

func (f *fakeGateway) record(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tokens = append(f.tokens, token)
	return f.err
}

func (f *fakeGateway) wait(content string) {
	f.mu.Lock()
	ch := f.release[content]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (f *fakeGateway) List(_ context.Context, token string) ([]entry.Entry, error) {
	if err := f.record(token); err != nil {
		return nil, err
	}
	return append([]entry.Entry(nil), f.list...), nil
}

func (f *fakeGateway) Create(_ context.Context, token, content string) (entry.Entry, error) {
	f.wait(content)
	if err := f.record(token); err != nil {
		return entry.Entry{}, err
	}
	f.mu.Lock()
	f.next++
	id := fmt.Sprintf("n%d", f.next)
	f.mu.Unlock()
	return entry.Entry{ID: id, Content: content}, nil
}

func (f *fakeGateway) Update(_ context.Context, token, id, content string) (entry.Entry, error) {
	if err := f.record(token); err != nil {
		return entry.Entry{}, err
	}
	return entry.Entry{ID: id, Content: content}, nil
}

func (f *fakeGateway) Delete(_ context.Context, token, id string) (string, error) {
	if err := f.record(token); err != nil {
		return "", err
	}
	return "Entry deleted", nil
}

func seeded(t *testing.T, list ...entry.Entry) (*Store, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{list: list}
	s := New(gw, creds("tok1"), nil)
	require.NoError(t, s.FetchAll(context.Background()))
	return s, gw
}

func ids(list []entry.Entry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestFetchAllKeepsServerOrderAndDropsDuplicates(t *testing.T) {
	s, gw := seeded(t,
		entry.Entry{ID: "e2", Content: "B"},
		entry.Entry{ID: "e1", Content: "A"},
		entry.Entry{ID: "e2", Content: "B again"},
	)
	require.Equal(t, []string{"e2", "e1"}, ids(s.Entries()))
	require.Equal(t, "B", s.Entries()[0].Content)
	require.Equal(t, []string{"tok1"}, gw.tokens)
	require.Equal(t, status.Idle, s.State().Status)
}

func TestFetchAllWithoutCredential(t *testing.T) {
	gw := &fakeGateway{}
	s := New(gw, creds(""), nil)

	err := s.FetchAll(context.Background())
	require.ErrorIs(t, err, failure.ErrAuth)
	require.Zero(t, gw.calls)
	require.Equal(t, status.Error, s.State().Status)
	require.Empty(t, s.Entries())
}

func TestFetchAllFailureKeepsCollection(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e1", Content: "A"})
	gw.err = failure.Network("Failed to fetch entries", 500, nil)

	require.Error(t, s.FetchAll(context.Background()))
	require.Equal(t, []string{"e1"}, ids(s.Entries()))
	st := s.State()
	require.Equal(t, status.Error, st.Status)
	require.Equal(t, "Failed to fetch entries", st.Message)

	gw.err = nil
	require.NoError(t, s.FetchAll(context.Background()))
	require.Equal(t, status.Idle, s.State().Status)
	require.Empty(t, s.State().Message)
}

func TestCreatePrependsServerEntry(t *testing.T) {
	s, _ := seeded(t, entry.Entry{ID: "e1", Content: "A"})

	require.NoError(t, s.Create(context.Background(), "  Shipped the release  "))
	got := s.Entries()
	require.Equal(t, []string{"n1", "e1"}, ids(got))
	require.Equal(t, "Shipped the release", got[0].Content)
}

func TestCreateRejectsBlank(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e1"})
	before := gw.calls

	err := s.Create(context.Background(), "   ")
	require.ErrorIs(t, err, failure.ErrValidation)
	require.Equal(t, before, gw.calls)
	require.Len(t, s.Entries(), 1)
	require.Equal(t, status.Idle, s.State().Status)
}

func TestCreateFailureLeavesCollection(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e1"})
	gw.err = failure.Network("Failed to create entry", 500, nil)

	require.Error(t, s.Create(context.Background(), "hello"))
	require.Equal(t, []string{"e1"}, ids(s.Entries()))
	require.Equal(t, "Failed to create entry", s.State().Message)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	s, _ := seeded(t,
		entry.Entry{ID: "e3", Content: "C"},
		entry.Entry{ID: "e2", Content: "B"},
		entry.Entry{ID: "e1", Content: "A"},
	)

	require.NoError(t, s.Update(context.Background(), "e2", "B2"))
	got := s.Entries()
	require.Equal(t, []string{"e3", "e2", "e1"}, ids(got))
	require.Equal(t, "B2", got[1].Content)
}

func TestUpdateValidation(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e1", Content: "A"})
	before := gw.calls

	require.ErrorIs(t, s.Update(context.Background(), "e1", " "), failure.ErrValidation)
	require.ErrorIs(t, s.Update(context.Background(), "missing", "x"), failure.ErrValidation)
	require.Equal(t, before, gw.calls)
	require.Equal(t, "A", s.Entries()[0].Content)
}

func TestUpdateFailureIsNotOptimistic(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e1", Content: "A"})
	gw.err = failure.Network("Failed to update entry", 500, nil)

	require.Error(t, s.Update(context.Background(), "e1", "A2"))
	require.Equal(t, "A", s.Entries()[0].Content)
	require.Equal(t, status.Error, s.State().Status)
}

func TestDelete(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e2"}, entry.Entry{ID: "e1"})

	gw.err = failure.Network("Failed to delete entry", 500, nil)
	require.Error(t, s.Delete(context.Background(), "e1"))
	require.Equal(t, []string{"e2", "e1"}, ids(s.Entries()))

	gw.err = nil
	require.NoError(t, s.Delete(context.Background(), "e1"))
	require.Equal(t, []string{"e2"}, ids(s.Entries()))
}

func TestResetClearsEverything(t *testing.T) {
	s, gw := seeded(t, entry.Entry{ID: "e1"})
	gw.err = failure.Network("boom", 500, nil)
	require.Error(t, s.FetchAll(context.Background()))

	s.Reset()
	require.Empty(t, s.Entries())
	require.NotNil(t, s.Entries())
	require.Equal(t, status.Ok(), s.State())
}

func TestConcurrentCreatesBothLand(t *testing.T) {
	gw := &fakeGateway{release: map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}}
	s := New(gw, creds("tok1"), nil)

	var wg sync.WaitGroup
	for _, content := range []string{"first", "second"} {
		wg.Add(1)
		go func(c string) {
			defer wg.Done()
			if err := s.Create(context.Background(), c); err != nil {
				t.Error(err)
			}
		}(content)
	}
	// Resolve out of request order.
	close(gw.release["second"])
	time.Sleep(10 * time.Millisecond)
	close(gw.release["first"])
	wg.Wait()

	got := s.Entries()
	require.Len(t, got, 2)
	contents := []string{got[0].Content, got[1].Content}
	require.ElementsMatch(t, []string{"first", "second"}, contents)
	require.Equal(t, "first", got[0].Content)
}

func TestObserveReportsSize(t *testing.T) {
	gw := &fakeGateway{list: []entry.Entry{{ID: "e1"}, {ID: "e2"}}}
	s := New(gw, creds("tok1"), nil)

	var sizes []int
	cancel := s.Observe(func(n int) { sizes = append(sizes, n) })

	require.NoError(t, s.FetchAll(context.Background()))
	require.NoError(t, s.Delete(context.Background(), "e1"))
	s.Reset()
	cancel()
	cancel()
	require.NoError(t, s.FetchAll(context.Background()))

	require.Equal(t, []int{2, 1, 0}, sizes)
}
