// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session holds the editor's authentication against the remote API.
// The API token is kept server side in a durable TokenStore; the browser only
// carries a random session id in a secure cookie.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"revista/internal/api"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "rv_session"

	// DefaultTTL is how long a session lives, both in the browser and
	// server side.
	DefaultTTL = 24 * time.Hour

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

var (
	// ErrInvalidCredentials is returned when the API rejects a login.
	ErrInvalidCredentials = errors.New("Credenciales incorrectas")

	// ErrConnection is returned when the API could not be reached.
	ErrConnection = errors.New("Error de conexión")

	// ErrExpired is returned by Restore when the stored session outlived
	// DefaultTTL.
	ErrExpired = errors.New("session expired")
)

// now is replaced in tests.
var now = time.Now

// Authenticator exchanges credentials for an API token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Data is the persisted session state.
type Data struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Data) expired() bool {
	return now().Sub(d.CreatedAt) > DefaultTTL
}

// TokenStore persists the session across restarts.
type TokenStore interface {
	// Load returns the stored session, or nil when there is none.
	Load() (*Data, error)
	Save(data *Data) error
	Clear() error
}

// Session is the single editor session of this process.
type Session struct {
	auth   Authenticator
	store  TokenStore
	secure bool

	mu   sync.RWMutex
	data *Data
}

// New creates a session that authenticates through auth and persists to
// store. secure marks the cookie as TLS-only.
func New(auth Authenticator, store TokenStore, secure bool) *Session {
	return &Session{auth: auth, store: store, secure: secure}
}

// Restore reloads a previously persisted session. An expired session is
// cleared from the store and ErrExpired is returned.
func (s *Session) Restore() error {
	data, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("session restore: %w", err)
	}
	if data != nil && data.expired() {
		if err := s.store.Clear(); err != nil {
			return fmt.Errorf("session restore: %w", err)
		}
		return ErrExpired
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the API token, or "" when logged out or expired.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil || s.data.expired() {
		return ""
	}
	return s.data.Token
}

// Current returns a copy of the session data, or nil when logged out or
// expired.
func (s *Session) Current() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil || s.data.expired() {
		return nil
	}
	d := *s.data
	return &d
}

// Login authenticates against the API and persists the resulting token
// under a fresh session id. A rejected login returns ErrInvalidCredentials;
// an unreachable API returns an error wrapping ErrConnection.
func (s *Session) Login(ctx context.Context, username, password string) (*Data, error) {
	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}
	data := &Data{
		Token:     token,
		ID:        id,
		Username:  username,
		CreatedAt: now().UTC(),
	}
	if err := s.store.Save(data); err != nil {
		return nil, fmt.Errorf("session save: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	d := *data
	return &d, nil
}

// Logout forgets the token locally and in the store.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// Valid reports whether id matches the live session. A session past
// DefaultTTL is dropped on first sight.
func (s *Session) Valid(id string) bool {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()
	if data == nil || id == "" {
		return false
	}
	if data.expired() {
		s.expire(data)
		return false
	}
	return subtle.ConstantTimeCompare([]byte(id), []byte(data.ID)) == 1
}

// expire forgets data if it is still the live session.
func (s *Session) expire(data *Data) {
	s.mu.Lock()
	if s.data != data {
		s.mu.Unlock()
		return
	}
	s.data = nil
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		slog.Warn("clear expired session failed", "error", err)
	}
}

// FromRequest reports whether r carries the live session cookie.
func (s *Session) FromRequest(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return s.Valid(cookie.Value)
}

// SetCookie writes the session cookie for data.
func (s *Session) SetCookie(w http.ResponseWriter, data *Data) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    data.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(DefaultTTL.Seconds()),
	})
}

// ClearCookie expires the session cookie immediately.
func (s *Session) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MemoryStore is a TokenStore that lives only as long as the process.
type MemoryStore struct {
	mu   sync.Mutex
	data *Data
}

func (m *MemoryStore) Load() (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	d := *m.data
	return &d, nil
}

func (m *MemoryStore) Save(data *Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := *data
	m.data = &d
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
