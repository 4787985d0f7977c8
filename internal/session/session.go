// Package session owns authentication state and the persisted token slot.
//
// A Manager moves through Uninitialized -> Loading -> Authenticated or
// Anonymous. It is the only writer of its token store. Front-ends build one
// explicitly and pass it to whatever needs the current user.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/tokenstore"
	"github.com/rs/zerolog"
)

var (
	// ErrSessionRejected means the Auth Service refused the token.
	ErrSessionRejected = errors.New("session rejected")

	// ErrInvalidTransition means the operation is not allowed in the
	// current status.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrSuperseded means a logout happened while a login was in flight.
	ErrSuperseded = errors.New("login superseded by logout")
)

// Status is the session lifecycle position.
type Status int

const (
	Uninitialized Status = iota
	Loading
	Authenticated
	Anonymous
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of the session. User is non-nil exactly when Status is
// Authenticated.
type State struct {
	Token  string
	User   *authapi.Profile
	Status Status
}

// ProfileFetcher resolves a token to its owner.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*authapi.Profile, error)
}

// Credentials exchanges account credentials with the Auth Service.
type Credentials interface {
	Register(ctx context.Context, username, email, password string) (json.RawMessage, error)
	Login(ctx context.Context, email, password string) (*authapi.LoginResult, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager is safe for concurrent use.
type Manager struct {
	store    tokenstore.Store
	profiles ProfileFetcher
	log      zerolog.Logger

	mu    sync.Mutex
	state State
	gen   uint64 // bumped by every Logout; stale fetches compare against it
}

// New returns an Uninitialized manager.
func New(store tokenstore.Store, profiles ProfileFetcher, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		profiles: profiles,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With().Str("component", "session").Logger()
	return m
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the status is Authenticated.
func (m *Manager) IsAuthenticated() bool {
	return m.State().Status == Authenticated
}

// Initialize restores the session from the token store. A missing token
// resolves to Anonymous without a network call. A token the service rejects,
// or any failure to reach it, clears the slot and resolves to Anonymous; such
// failures are logged, not returned. The only error is ErrInvalidTransition
// when the manager was already initialized.
func (m *Manager) Initialize(ctx context.Context) (State, error) {
	m.mu.Lock()
	if m.state.Status != Uninitialized {
		st := m.state
		m.mu.Unlock()
		return st, fmt.Errorf("%w: initialize while %s", ErrInvalidTransition, st.Status)
	}
	m.setLocked(State{Status: Loading})

	token, err := m.store.Load()
	if err != nil {
		m.log.Debug().Err(err).Msg("token store unreadable")
		token = ""
	}
	if token == "" {
		m.setLocked(State{Status: Anonymous})
		st := m.state
		m.mu.Unlock()
		return st, nil
	}
	m.state.Token = token
	gen := m.gen
	m.mu.Unlock()

	profile, err := m.profiles.Me(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return m.state, nil
	}
	if err != nil {
		m.log.Debug().Err(err).Msg("stored token rejected")
		m.logoutLocked()
		return m.state, nil
	}
	m.setLocked(State{Token: token, User: profile, Status: Authenticated})
	return m.state, nil
}

// Login adopts token: it is persisted at once, then the profile is fetched.
// Valid only from Anonymous. On a fetch failure the session is logged out and
// the returned error wraps both ErrSessionRejected and the service error.
func (m *Manager) Login(ctx context.Context, token string) (*authapi.Profile, error) {
	m.mu.Lock()
	if m.state.Status != Anonymous {
		st := m.state.Status
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: login while %s", ErrInvalidTransition, st)
	}
	if token == "" {
		m.logoutLocked()
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: empty token", ErrSessionRejected)
	}
	if err := m.store.Save(token); err != nil {
		m.log.Warn().Err(err).Msg("persisting token")
	}
	m.setLocked(State{Token: token, Status: Loading})
	gen := m.gen
	m.mu.Unlock()

	profile, err := m.profiles.Me(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		m.logoutLocked()
		return nil, fmt.Errorf("%w: %w", ErrSessionRejected, err)
	}
	m.setLocked(State{Token: token, User: profile, Status: Authenticated})
	return profile, nil
}

// Logout clears the token slot and resolves to Anonymous. It always
// succeeds; a store failure is logged.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked()
}

// SignIn exchanges email and password for a token and logs in with it.
func (m *Manager) SignIn(ctx context.Context, creds Credentials, email, password string) (*authapi.Profile, error) {
	res, err := creds.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.Login(ctx, res.AccessToken)
}

// SignUp registers an account, then signs in with the same credentials.
func (m *Manager) SignUp(ctx context.Context, creds Credentials, username, email, password string) (*authapi.Profile, error) {
	if _, err := creds.Register(ctx, username, email, password); err != nil {
		return nil, err
	}
	return m.SignIn(ctx, creds, email, password)
}

func (m *Manager) logoutLocked() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("clearing token")
	}
	m.gen++
	m.setLocked(State{Status: Anonymous})
}

func (m *Manager) setLocked(next State) {
	if next.Status != m.state.Status {
		ev := m.log.Debug().Stringer("from", m.state.Status).Stringer("to", next.Status)
		if next.User != nil {
			ev = ev.Str("user", next.User.Username)
		}
		ev.Msg("session transition")
	}
	m.state = next
}
