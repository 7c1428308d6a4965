// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxLoginBody bounds the login body read to find the username.
const maxLoginBody = 1 << 16

// LoginThrottle limits password guessing against the editor login. It
// counts rejected attempts per client address and username over a sliding
// window. Once a pair reaches the limit it is refused until its oldest
// failure leaves the window; a successful login forgets the pair.
type LoginThrottle struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewLoginThrottle allows limit rejected logins per window for each
// address and username. It starts a background goroutine that drops
// stale entries; Stop ends it.
func NewLoginThrottle(limit int, window time.Duration) *LoginThrottle {
	lt := &LoginThrottle{
		failures: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				lt.cleanup()
			case <-lt.stopCh:
				return
			}
		}
	}()

	return lt
}

// Stop terminates the background cleanup goroutine.
func (lt *LoginThrottle) Stop() {
	close(lt.stopCh)
}

// Middleware wraps the login handler. A 401 from next counts as a failed
// attempt; a 2xx clears the pair's failures.
func (lt *LoginThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLoginBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Solicitud inválida")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		key := loginKey(clientIP(r), body)

		if wait := lt.retryAfter(key); wait > 0 {
			secs := int((wait + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "Demasiados intentos de inicio de sesión. Inténtalo más tarde.")
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		switch {
		case rw.statusCode == http.StatusUnauthorized:
			lt.fail(key)
		case rw.statusCode >= 200 && rw.statusCode < 300:
			lt.reset(key)
		}
	})
}

// retryAfter reports how long key stays locked out, or 0 when it may try.
func (lt *LoginThrottle) retryAfter(key string) time.Duration {
	now := lt.now()
	lt.mu.Lock()
	defer lt.mu.Unlock()

	recent := lt.prune(key, now)
	if len(recent) < lt.limit {
		return 0
	}
	return recent[len(recent)-lt.limit].Add(lt.window).Sub(now)
}

func (lt *LoginThrottle) fail(key string) {
	now := lt.now()
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.failures[key] = append(lt.prune(key, now), now)
}

func (lt *LoginThrottle) reset(key string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	delete(lt.failures, key)
}

// prune drops failures of key older than the window. Caller holds mu.
func (lt *LoginThrottle) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-lt.window)
	kept := lt.failures[key][:0]
	for _, ts := range lt.failures[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(lt.failures, key)
		return nil
	}
	lt.failures[key] = kept
	return kept
}

// cleanup removes pairs with no failure inside the window.
func (lt *LoginThrottle) cleanup() {
	now := lt.now()
	lt.mu.Lock()
	defer lt.mu.Unlock()
	for key := range lt.failures {
		lt.prune(key, now)
	}
}

// loginKey pairs the client address with the username being tried, folded
// the way editors type it. A body without a username keys on the address.
func loginKey(ip string, body []byte) string {
	var creds struct {
		Username string `json:"username"`
	}
	json.Unmarshal(body, &creds)
	return ip + "|" + strings.ToLower(strings.TrimSpace(creds.Username))
}

// clientIP extracts the client's IP address, preferring the proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
