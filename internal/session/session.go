// ABOUTME: Session lifecycle manager for the LeishVet CLI
// ABOUTME: Owns auth state, restores tokens from storage and resolves identity

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leishvet/leishvet-cli/internal/client"
)

// State represents the session lifecycle state
type State int

const (
	StateUnauthenticated State = iota
	StateRestoring
	StateAuthenticated
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// IdentityFetcher fetches the user record behind a bearer token
type IdentityFetcher interface {
	CurrentUser(ctx context.Context, token string) (*client.User, error)
}

// Manager owns the authentication state of one CLI invocation. The identity
// fetch triggered by Login/Restore is fire-and-forget; results arriving after
// a later Logout or Login are discarded via the epoch counter.
//
// A failed identity fetch does not force a logout: the session stays
// authenticated with an unresolved identity, and role-dependent checks
// (IsAdmin) treat the unknown identity as non-privileged.
type Manager struct {
	store   *Store
	fetcher IdentityFetcher

	mu        sync.Mutex
	state     State
	token     string
	user      *client.User
	epoch     uint64
	fetchDone chan struct{}
}

// NewManager creates a session manager in the Restoring state
func NewManager(store *Store, fetcher IdentityFetcher) *Manager {
	return &Manager{
		store:   store,
		fetcher: fetcher,
		state:   StateRestoring,
	}
}

// Restore attempts to rebuild the session from stored credentials.
// With no stored token the session becomes Unauthenticated; with one it is
// optimistically Authenticated and the identity fetch runs in the background.
func (m *Manager) Restore(ctx context.Context) {
	token, ok := m.store.Load()

	m.mu.Lock()
	if !ok {
		m.state = StateUnauthenticated
		m.token = ""
		m.user = nil
		m.mu.Unlock()
		return
	}
	m.state = StateAuthenticated
	m.token = token
	m.user = nil
	m.mu.Unlock()

	m.fetchIdentity(ctx, token)
}

// Login stores the token and transitions to Authenticated. The token goes to
// the persistent tier when rememberMe is set, otherwise to the ephemeral tier.
func (m *Manager) Login(ctx context.Context, token string, rememberMe bool) error {
	if err := m.store.Save(token, rememberMe); err != nil {
		return err
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.token = token
	m.user = nil
	m.mu.Unlock()

	m.fetchIdentity(ctx, token)
	return nil
}

// Logout clears the session and both storage tiers
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.token = ""
	m.user = nil
	m.epoch++ // invalidate any in-flight identity fetch
	m.mu.Unlock()

	return m.store.Clear()
}

// fetchIdentity resolves the user record behind the token in the background.
// The caller proceeds immediately; WaitIdentity blocks until resolution.
func (m *Manager) fetchIdentity(ctx context.Context, token string) {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	done := make(chan struct{})
	m.fetchDone = done
	m.mu.Unlock()

	go func() {
		defer close(done)

		user, err := m.fetcher.CurrentUser(ctx, token)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.epoch != epoch {
			// Session changed while the fetch was in flight; drop the result
			return
		}
		if err != nil {
			slog.Warn("identity fetch failed, session continues with unresolved identity", "error", err)
			return
		}
		m.user = user
	}()
}

// WaitIdentity blocks until the pending identity fetch resolves or the
// context is done. Returns immediately when no fetch is in flight.
func (m *Manager) WaitIdentity(ctx context.Context) error {
	m.mu.Lock()
	done := m.fetchDone
	m.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the current bearer token, empty when unauthenticated
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// IsAuthenticated reports whether a token is present
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// CurrentUser returns the resolved user record, nil while unresolved
func (m *Manager) CurrentUser() *client.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAdmin reports whether the resolved identity carries the admin role.
// An unresolved identity is never admin.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.user.Role != nil && m.user.Role.Name == "admin"
}
