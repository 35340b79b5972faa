// Package session tracks the signed-in user for the lifetime of the client.
// Mutation flows ask it for the current identity; sign-out tears the shared
// store down with it.
package session

import (
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	llerrors "github.com/learnloop/learnloop/pkg/errors"
	"github.com/learnloop/learnloop/pkg/logging"
	"github.com/learnloop/learnloop/pkg/store"
)

// Identity is the opaque current-user value mutations stamp as author.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Claims is the subset of access-token claims the client reads. The backend
// owns signature verification; the client only decodes.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager holds the session state. The zero value is unusable; use NewManager.
type Manager struct {
	mu       sync.RWMutex
	identity *Identity
	token    string
	store    *store.Store
	logger   *logging.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger attaches a structured logger for session events.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager binds a session manager to the store it resets on sign-out.
func NewManager(st *store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  st,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SignIn decodes the access token's claims and records the identity. The
// subject claim is the user id and must be present.
func (m *Manager) SignIn(accessToken string) (Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return Identity{}, llerrors.Wrap(err, llerrors.ErrCodeSessionToken, "decode access token").
			WithUserMessage("Sign-in failed, please try again")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, llerrors.New(llerrors.ErrCodeSessionToken, "access token has no subject").
			WithUserMessage("Sign-in failed, please try again")
	}

	id := Identity{
		UserID: claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
	}

	m.mu.Lock()
	m.identity = &id
	m.token = accessToken
	m.mu.Unlock()

	m.logger.SetUserID(id.UserID)
	m.logger.Info(logging.CategorySession, "sign_in", "user signed in", map[string]any{
		"user_id": id.UserID,
	})
	return id, nil
}

// Current returns the signed-in identity, if any.
func (m *Manager) Current() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return Identity{}, false
	}
	return *m.identity, true
}

// Require returns the identity or an AuthRequired error for mutation flows.
func (m *Manager) Require() (Identity, error) {
	id, ok := m.Current()
	if !ok {
		return Identity{}, llerrors.New(llerrors.ErrCodeAuthRequired, "no signed-in user").
			WithUserMessage("Please sign in first")
	}
	return id, nil
}

// AccessToken returns the raw bearer token for gateway calls; empty when
// signed out.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// SignOut clears the identity and resets the bound store. The store outlives
// the session object; its collections and selection slots all go back to
// empty defaults.
func (m *Manager) SignOut() {
	m.mu.Lock()
	hadUser := m.identity != nil
	m.identity = nil
	m.token = ""
	m.mu.Unlock()

	if m.store != nil {
		m.store.Reset()
	}
	if hadUser {
		m.logger.Info(logging.CategorySession, "sign_out", "user signed out", nil)
	}
}
