// Package session owns the signed-in user's state for one visitor. Other
// components read it through an injected *Manager and subscribe to changes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/lumenforge/website/internal/backend"
	"github.com/lumenforge/website/internal/logger"
)

// User is the cached copy of the signed-in identity and its profile.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// DisplayName returns the user's full name, or the email when the profile
// has no name.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// State is a snapshot of the session. A zero State means signed out.
type State struct {
	Token string
	User  *User
}

// SignedIn reports whether the state holds a user.
func (s State) SignedIn() bool { return s.User != nil }

// Manager is the single owner of session state.
type Manager struct {
	auth     backend.Auth
	profiles backend.ProfileReader
	log      *slog.Logger

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewManager creates a signed-out Manager.
func NewManager(auth backend.Auth, profiles backend.ProfileReader, log *slog.Logger) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		auth:     auth,
		profiles: profiles,
		log:      log.With(logger.Scope("session")),
		subs:     make(map[int]func(State)),
	}
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Restore adopts a previously issued access token. An empty token is a
// no-op. A token the backend rejects clears the state and is not an error.
func (m *Manager) Restore(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sess, err := m.auth.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidSession) {
			m.log.Debug("discarding stale session", logger.Error(err))
			m.set(State{})
			return nil
		}
		return err
	}
	m.set(State{Token: token, User: m.loadUser(ctx, sess.User)})
	return nil
}

// SignIn authenticates with the backend and refreshes the cached profile.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	m.set(State{Token: sess.AccessToken, User: m.loadUser(ctx, sess.User)})
	return nil
}

// SignOut revokes the current session. The local state is cleared even when
// the backend call fails.
func (m *Manager) SignOut(ctx context.Context) error {
	token := m.Current().Token
	if token == "" {
		return nil
	}
	err := m.auth.SignOut(ctx, token)
	m.set(State{})
	return err
}

// Refresh re-reads the session and profile for the current token.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.Restore(ctx, m.Current().Token)
}

// loadUser merges the profile into u. A missing profile is logged and leaves
// the names empty.
func (m *Manager) loadUser(ctx context.Context, u backend.User) *User {
	user := &User{ID: u.ID, Email: u.Email}
	if m.profiles == nil {
		return user
	}
	p, err := m.profiles.ProfileByID(ctx, u.ID)
	if err != nil {
		m.log.Warn("loading profile", slog.String("user_id", u.ID), logger.Error(err))
		return user
	}
	user.FirstName = p.FirstName
	user.LastName = p.LastName
	if p.Email != "" {
		user.Email = p.Email
	}
	return user
}

func (m *Manager) set(s State) {
	m.mu.Lock()
	m.state = s
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}
