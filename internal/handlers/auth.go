// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"revista/internal/session"
)

// Auth groups the editor session handlers.
type Auth struct {
	sess *session.Session
}

// NewAuth creates a new Auth handler group.
func NewAuth(sess *session.Session) *Auth {
	return &Auth{sess: sess}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionView is what the admin client learns about the session. The API
// token never leaves the server.
type sessionView struct {
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username,omitempty"`
	Since         time.Time `json:"since,omitzero"`
}

// Login exchanges credentials for an API token and starts the editor
// session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "Usuario y contraseña son requeridos.")
		return
	}

	data, err := a.sess.Login(r.Context(), creds.Username, creds.Password)
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		slog.Warn("login rejected", "username", creds.Username)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, session.ErrConnection):
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusBadGateway, session.ErrConnection.Error())
		return
	case err != nil:
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	slog.Info("editor logged in", "username", data.Username)
	a.sess.SetCookie(w, data)
	writeJSON(w, http.StatusOK, sessionView{Authenticated: true, Username: data.Username, Since: data.CreatedAt})
}

// Logout ends the editor session. Logging out twice is not an error.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sess.Logout(); err != nil {
		slog.Error("logout failed", "error", err)
	}
	a.sess.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Session reports whether the request carries the live editor session.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	if !a.sess.FromRequest(r) {
		writeJSON(w, http.StatusOK, sessionView{})
		return
	}
	data := a.sess.Current()
	if data == nil {
		writeJSON(w, http.StatusOK, sessionView{})
		return
	}
	writeJSON(w, http.StatusOK, sessionView{Authenticated: true, Username: data.Username, Since: data.CreatedAt})
}
