package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mayan-kumar1/pdfchat/internal/api"
)

// Manager owns the session lifecycle. There is at most one current
// session; its absence is the sole authority for "logged out".
// Observers fire on every change, including rehydration at startup.
type Manager struct {
	mu        sync.Mutex
	api       *api.Client
	store     Store
	current   *Session
	loading   bool
	observers []func(*Session)
}

func NewManager(client *api.Client, store Store) *Manager {
	return &Manager{
		api:     client,
		store:   store,
		loading: true,
	}
}

// Rehydrate loads the persisted session once at startup. Sessions whose
// bearer token carries an already-expired JWT exp claim are discarded.
func (m *Manager) Rehydrate() {
	sess, err := m.store.Load()
	if err != nil {
		slog.Warn("session load failed", "error", err)
		sess = nil
	}
	if sess != nil && tokenExpired(sess.Token) {
		slog.Info("persisted session expired, discarding", "username", sess.Username)
		if err := m.store.Clear(); err != nil {
			slog.Warn("clear expired session", "error", err)
		}
		sess = nil
	}

	m.mu.Lock()
	m.current = sess
	m.loading = false
	m.mu.Unlock()

	if sess != nil {
		m.notify(sess)
	}
}

// tokenExpired inspects the token without verifying it. Opaque tokens
// and JWTs without an exp claim count as not expired.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// TokenExpiry returns the exp claim of a JWT bearer token, or zero time
// when the token is opaque or carries none.
func TokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Login exchanges credentials for a token and makes the resulting
// session current, overwriting any prior one.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	sess := &Session{Token: token, Username: username}
	if err := m.store.Save(sess); err != nil {
		// The session still works for this run; only persistence is lost.
		slog.Warn("persist session", "error", err)
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	slog.Info("logged in", "username", username)
	m.notify(sess)
	return nil
}

// Signup registers the account and then logs in with the same
// credentials; signup itself never establishes a session.
func (m *Manager) Signup(ctx context.Context, username, email, password string) error {
	if err := m.api.Signup(ctx, username, email, password); err != nil {
		return err
	}
	if err := m.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login after signup: %w", err)
	}
	return nil
}

// Logout drops the current session and the persisted record. Purely
// client-side; the server is not told.
func (m *Manager) Logout() {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		slog.Warn("clear session", "error", err)
	}
	if had {
		slog.Info("logged out")
		m.notify(nil)
	}
}

// Current returns the session or nil when logged out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Loading reports whether the startup rehydration has not yet resolved.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Token returns the current bearer token, if any.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", false
	}
	return m.current.Token, true
}

// Subscribe registers an observer called on every session change with
// the new session (nil on logout).
func (m *Manager) Subscribe(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) notify(s *Session) {
	m.mu.Lock()
	obs := make([]func(*Session), len(m.observers))
	copy(obs, m.observers)
	m.mu.Unlock()

	for _, fn := range obs {
		fn(s)
	}
}
