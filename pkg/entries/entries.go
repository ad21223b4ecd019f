// Package entries holds the authenticated user's journal entries and keeps
// them in step with the remote API.
package entries

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/api"
	"tableflip.dev/boost/pkg/entry"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/logging"
	"tableflip.dev/boost/pkg/status"
)

const msgUnexpected = "an unexpected error occurred"

// CredentialSource yields the bearer token of the current session.
type CredentialSource interface {
	Credential() (string, bool)
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func() (string, bool)

func (f CredentialFunc) Credential() (string, bool) {
	return f()
}

// Store is the client-side copy of the user's entries. The collection is only
// changed by server responses; there is no optimistic mutation.
//
// Operations may run concurrently. Each resolves against the collection by id
// so unrelated entries are never clobbered, but two overlapping FetchAll
// calls apply in completion order.
type Store struct {
	mu      sync.Mutex
	list    []entry.Entry
	state   status.State
	nextObs int
	obs     map[int]func(int)

	gateway api.EntryGateway
	creds   CredentialSource
	log     *zap.Logger
}

func New(gateway api.EntryGateway, creds CredentialSource, log *zap.Logger) *Store {
	return &Store{
		list:    []entry.Entry{},
		state:   status.Ok(),
		obs:     make(map[int]func(int)),
		gateway: gateway,
		creds:   creds,
		log:     logging.OrNop(log).Named("entries"),
	}
}

// Entries returns a copy of the collection, newest first as the server
// ordered it.
func (s *Store) Entries() []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entry.Entry(nil), s.list...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (entry.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := entry.IndexOf(s.list, id); i >= 0 {
		return s.list[i], true
	}
	return entry.Entry{}, false
}

// State returns the status of the most recent request.
func (s *Store) State() status.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Observe registers fn to be called with the collection size after every
// change to the collection. The returned func unregisters it.
func (s *Store) Observe(fn func(size int)) (cancel func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.obs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.obs, id)
			s.mu.Unlock()
		})
	}
}

// mutate applies fn to the collection and notifies observers outside the lock.
func (s *Store) mutate(fn func(list []entry.Entry) []entry.Entry) {
	s.mu.Lock()
	s.list = fn(s.list)
	s.state = status.Ok()
	size := len(s.list)
	observers := make([]func(int), 0, len(s.obs))
	for _, o := range s.obs {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(size)
	}
}

func (s *Store) setState(st status.State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) *failure.Error {
	fe := failure.From(err, msgUnexpected)
	s.setState(status.Failure(fe.Error()))
	s.log.Warn(op+" failed", zap.String("kind", fe.Kind.String()), zap.String("message", fe.Message))
	return fe
}

func (s *Store) credential(op string) (string, error) {
	token, ok := "", false
	if s.creds != nil {
		token, ok = s.creds.Credential()
	}
	if !ok {
		return "", s.fail(op, failure.ErrNoCredential)
	}
	return token, nil
}

// FetchAll replaces the collection with the server's list.
func (s *Store) FetchAll(ctx context.Context) error {
	token, err := s.credential("fetch")
	if err != nil {
		return err
	}
	s.setState(status.Busy())
	list, err := s.gateway.List(ctx, token)
	if err != nil {
		return s.fail("fetch", err)
	}
	list = entry.Dedupe(list)
	s.mutate(func([]entry.Entry) []entry.Entry { return list })
	s.log.Debug("fetched entries", zap.Int("count", len(list)))
	return nil
}

// Create saves a new entry and places the server's copy first.
func (s *Store) Create(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return failure.Validation("entry content cannot be empty")
	}
	token, err := s.credential("create")
	if err != nil {
		return err
	}
	s.setState(status.Busy())
	created, err := s.gateway.Create(ctx, token, content)
	if err != nil {
		return s.fail("create", err)
	}
	s.mutate(func(list []entry.Entry) []entry.Entry {
		out := make([]entry.Entry, 0, len(list)+1)
		out = append(out, created)
		for _, e := range list {
			if e.ID != created.ID {
				out = append(out, e)
			}
		}
		return out
	})
	s.log.Info("created entry", zap.String("id", created.ID))
	return nil
}

// Update replaces the content of an existing entry with the server's copy.
func (s *Store) Update(ctx context.Context, id, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return failure.Validation("entry content cannot be empty")
	}
	if _, ok := s.Get(id); !ok {
		return failure.Validation("no entry with id %q", id)
	}
	token, err := s.credential("update")
	if err != nil {
		return err
	}
	s.setState(status.Busy())
	updated, err := s.gateway.Update(ctx, token, id, content)
	if err != nil {
		return s.fail("update", err)
	}
	s.mutate(func(list []entry.Entry) []entry.Entry {
		if i := entry.IndexOf(list, id); i >= 0 {
			out := append([]entry.Entry(nil), list...)
			out[i] = updated
			return out
		}
		return list
	})
	s.log.Info("updated entry", zap.String("id", id))
	return nil
}

// Delete removes an entry on the server and then locally.
func (s *Store) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return failure.Validation("entry id is required")
	}
	token, err := s.credential("delete")
	if err != nil {
		return err
	}
	s.setState(status.Busy())
	if _, err := s.gateway.Delete(ctx, token, id); err != nil {
		return s.fail("delete", err)
	}
	s.mutate(func(list []entry.Entry) []entry.Entry {
		out := make([]entry.Entry, 0, len(list))
		for _, e := range list {
			if e.ID != id {
				out = append(out, e)
			}
		}
		return out
	})
	s.log.Info("deleted entry", zap.String("id", id))
	return nil
}

// Reset empties the collection and clears any error. The session store calls
// it on logout.
func (s *Store) Reset() {
	s.mutate(func([]entry.Entry) []entry.Entry { return []entry.Entry{} })
}
