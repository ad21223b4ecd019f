// Package session owns the authentication state of the boost client: who is
// logged in and which bearer credential authorizes entry calls.
//
// Every transition ends with an explicit commit that writes the state to the
// durable record, so a restart restores the last session without a network
// round trip.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/api"
	"tableflip.dev/boost/pkg/failure"
	"tableflip.dev/boost/pkg/logging"
	"tableflip.dev/boost/pkg/status"
	"tableflip.dev/boost/pkg/store"
)

// RecordKey is the persistence key of the session record.
const RecordKey = "session-auth"

const msgUnexpected = "an unexpected error occurred"

// Identity is the logged in user.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Stats summarises the account.
type Stats struct {
	TotalEntries int `json:"totalEntries"`
}

// State is the session as persisted. Identity and Credential are set iff
// Authenticated. The embedded request state is persisted too but is not
// trusted when the record is read back.
type State struct {
	Authenticated bool      `json:"isAuthenticated"`
	Identity      *Identity `json:"identity,omitempty"`
	Credential    string    `json:"credential,omitempty"`
	status.State
	Stats Stats `json:"stats"`
}

// Username returns the display name, "guest" when logged out.
func (s State) Username() string {
	if !s.Authenticated || s.Identity == nil || s.Identity.Username == "" {
		return "guest"
	}
	return s.Identity.Username
}

func (s State) clone() State {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

func (s *State) clear() {
	s.Authenticated = false
	s.Identity = nil
	s.Credential = ""
	s.Stats = Stats{}
}

// Resetter is implemented by the entry store; it is reset when a session
// ends.
type Resetter interface {
	Reset()
}

// Store holds the session state. It is safe for concurrent use; network calls
// are issued without holding the lock.
type Store struct {
	mu    sync.RWMutex
	state State

	gateway api.AuthGateway
	persist store.Persistence
	entries Resetter
	log     *zap.Logger
	now     func() time.Time
}

// New returns a logged out Store. Call Restore to load the persisted session.
func New(gateway api.AuthGateway, persist store.Persistence, entries Resetter, log *zap.Logger) *Store {
	return &Store{
		state:   State{State: status.Ok()},
		gateway: gateway,
		persist: persist,
		entries: entries,
		log:     logging.OrNop(log).Named("session"),
		now:     time.Now,
	}
}

// State returns a copy of the current session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Authenticated reports whether a user is logged in.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Credential returns the bearer token, false when logged out.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.Authenticated || s.state.Credential == "" {
		return "", false
	}
	return s.state.Credential, true
}

// transition applies fn and commits the result in one critical section.
func (s *Store) transition(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.commitLocked()
}

func (s *Store) commitLocked() {
	if s.persist == nil {
		return
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		s.log.Error("encode session", zap.Error(err))
		return
	}
	if err := s.persist.Write(RecordKey, data); err != nil {
		s.log.Error("persist session", zap.Error(err))
	}
}

func (s *Store) fail(err error) *failure.Error {
	fe := failure.From(err, msgUnexpected)
	s.transition(func(st *State) {
		st.State = status.Failure(fe.Error())
	})
	return fe
}

// Login authenticates with an email address and password.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failure.Validation("email and password are required")
	}

	s.transition(func(st *State) { st.State = status.Busy() })
	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		fe := s.fail(err)
		s.log.Warn("login failed", zap.String("kind", fe.Kind.String()), zap.String("message", fe.Message))
		return fe
	}
	s.transition(func(st *State) { authenticate(st, res, email) })
	s.log.Info("logged in", zap.String("email", email))
	return nil
}

// Register creates an account and logs it in.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return failure.Validation("username, email and password are required")
	}

	s.transition(func(st *State) { st.State = status.Busy() })
	res, err := s.gateway.Register(ctx, username, email, password)
	if err != nil {
		fe := s.fail(err)
		s.log.Warn("register failed", zap.String("kind", fe.Kind.String()), zap.String("message", fe.Message))
		return fe
	}
	s.transition(func(st *State) { authenticate(st, res, email) })
	s.log.Info("registered", zap.String("username", username))
	return nil
}

func authenticate(st *State, res api.AuthResult, email string) {
	st.Authenticated = true
	st.Credential = res.Token
	st.Identity = &Identity{Email: email}
	if res.User != nil {
		st.Identity.Username = res.User.Username
		if res.User.Email != "" {
			st.Identity.Email = res.User.Email
		}
	}
	st.Stats = Stats{}
	st.State = status.Ok()
}

// Logout ends the session. The local session is cleared and the entry store
// reset even when the server call fails; the failure is still reported.
func (s *Store) Logout(ctx context.Context) error {
	token, ok := s.Credential()
	s.transition(func(st *State) { st.State = status.Busy() })

	var err error
	if ok {
		err = s.gateway.Logout(ctx, token)
	}

	var fe *failure.Error
	if err != nil {
		fe = failure.From(err, msgUnexpected)
		s.log.Warn("logout request failed", zap.String("message", fe.Message))
	}
	s.transition(func(st *State) {
		st.clear()
		if fe != nil {
			st.State = status.Failure(fe.Error())
		} else {
			st.State = status.Ok()
		}
	})
	if s.entries != nil {
		s.entries.Reset()
	}
	s.log.Info("logged out")
	if fe != nil {
		return fe
	}
	return nil
}

// RefreshProfile reloads the identity from the server.
func (s *Store) RefreshProfile(ctx context.Context) error {
	token, ok := s.Credential()
	if !ok {
		return failure.ErrNoCredential
	}
	s.transition(func(st *State) { st.State = status.Busy() })
	user, err := s.gateway.Profile(ctx, token)
	if err != nil {
		return s.fail(err)
	}
	s.transition(func(st *State) {
		st.State = status.Ok()
		if !st.Authenticated {
			return
		}
		st.Identity = &Identity{Username: user.Username, Email: user.Email}
	})
	return nil
}

// RefreshStats loads the account statistics. Failures are reported but do
// not change the session.
func (s *Store) RefreshStats(ctx context.Context) (Stats, error) {
	token, ok := s.Credential()
	if !ok {
		return Stats{}, failure.ErrNoCredential
	}
	res, err := s.gateway.Stats(ctx, token)
	if err != nil {
		fe := failure.From(err, msgUnexpected)
		s.log.Warn("stats failed", zap.String("message", fe.Message))
		return Stats{}, fe
	}
	stats := Stats{TotalEntries: res.TotalEntries}
	s.transition(func(st *State) {
		if st.Authenticated {
			st.Stats = stats
		}
	})
	return stats, nil
}

// Restore loads the persisted session. Request status is reset, a record
// that claims authentication without a credential (or the reverse) is
// treated as logged out, and an expired JWT credential is dropped.
func (s *Store) Restore() error {
	st, err := s.read()
	if err != nil {
		return err
	}
	changed := s.normalize(&st)
	st.State = status.Ok()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	if changed {
		s.commitLocked()
	}
	s.log.Debug("session restored", zap.Bool("authenticated", st.Authenticated))
	return nil
}

// Reload adopts the authentication fields of the persisted record, which
// another process may have changed, and keeps the in-memory request status.
// When the session ended elsewhere the entry store is reset.
func (s *Store) Reload() error {
	st, err := s.read()
	if err != nil {
		return err
	}
	s.normalize(&st)

	s.mu.Lock()
	was := s.state.Authenticated
	s.state.Authenticated = st.Authenticated
	s.state.Identity = st.Identity
	s.state.Credential = st.Credential
	if !st.Authenticated {
		s.state.Stats = Stats{}
	}
	s.mu.Unlock()

	if was && !st.Authenticated && s.entries != nil {
		s.entries.Reset()
		s.log.Info("session ended elsewhere")
	}
	return nil
}

func (s *Store) read() (State, error) {
	st := State{State: status.Ok()}
	if s.persist == nil {
		return st, nil
	}
	data, err := s.persist.Read(RecordKey)
	if errors.Is(err, store.ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warn("discarding unreadable session record", zap.Error(err))
		return State{State: status.Ok()}, nil
	}
	return st, nil
}

// normalize enforces the session invariants and reports whether st changed.
func (s *Store) normalize(st *State) bool {
	switch {
	case st.Authenticated && st.Credential == "":
		st.clear()
		return true
	case !st.Authenticated && (st.Credential != "" || st.Identity != nil):
		st.clear()
		return true
	case st.Authenticated && expired(st.Credential, s.now()):
		st.clear()
		s.log.Info("stored credential expired")
		return true
	case st.Authenticated && st.Identity == nil:
		st.Identity = &Identity{}
		return true
	}
	return false
}

// expired reports whether token is a JWT whose exp lies in the past. Tokens
// that are not JWTs, or carry no exp, never expire client-side.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
