// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: an in-memory fake of the REST API and content fixtures.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"revista/internal/api"
	"revista/internal/models"
	"revista/internal/store"
)

// fakeAPI is an in-memory stand-in for the REST API.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int
	calls    []string
	fail     map[string]int
	articles map[string][]map[string]any
}

func newFakeAPI(t *testing.T) (*fakeAPI, *api.Client) {
	t.Helper()
	f := &fakeAPI{fail: map[string]int{}, articles: map[string][]map[string]any{}}
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return f, api.New(srv.URL, 2*time.Second, nil)
}

func (f *fakeAPI) failOn(call string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[call] = status
}

func (f *fakeAPI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) id() string {
	f.nextID++
	return fmt.Sprintf("srv-%d", f.nextID)
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secreto" {
			reply(w, http.StatusUnauthorized, map[string]any{"error": "Credenciales inválidas"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"token": "tok-" + creds["username"]})
	})
	mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []any{
			map[string]any{"id": "p9", "title": "Desde el servidor", "category": "Arte", "published_at": "2026-04-01T10:00:00Z"},
		})
	})
	mux.HandleFunc("GET /magazines", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []any{map[string]any{"id": 1, "name": "Cine", "slug": "cine"}})
	})
	mux.HandleFunc("GET /authors", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []any{map[string]any{"id": "a1", "name": "Ana", "avatar_url": "https://img.test/ana.png"}})
	})
	for _, collection := range []string{"articles", "magazines", "categories", "authors"} {
		mux.HandleFunc("POST /"+collection, f.create)
		mux.HandleFunc("PUT /"+collection+"/{id}", f.update)
		mux.HandleFunc("DELETE /"+collection+"/{id}", f.remove)
	}
	mux.HandleFunc("GET /magazines/{id}/articles", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		list := append([]map[string]any{}, f.articles[r.PathValue("id")]...)
		f.mu.Unlock()
		reply(w, http.StatusOK, list)
	})
	mux.HandleFunc("POST /magazines/{id}/articles", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(r)
		f.mu.Lock()
		body["id"] = f.id()
		f.articles[r.PathValue("id")] = append(f.articles[r.PathValue("id")], body)
		f.mu.Unlock()
		reply(w, http.StatusCreated, body)
	})
	mux.HandleFunc("PUT /magazines/{id}/articles/{aid}", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(r)
		body["id"] = r.PathValue("aid")
		f.mu.Lock()
		list := f.articles[r.PathValue("id")]
		for i := range list {
			if list[i]["id"] == r.PathValue("aid") {
				list[i] = body
			}
		}
		f.mu.Unlock()
		reply(w, http.StatusOK, body)
	})
	mux.HandleFunc("DELETE /magazines/{id}/articles/{aid}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		var kept []map[string]any
		for _, a := range f.articles[r.PathValue("id")] {
			if a["id"] != r.PathValue("aid") {
				kept = append(kept, a)
			}
		}
		f.articles[r.PathValue("id")] = kept
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls = append(f.calls, call)
		status := f.fail[call]
		f.mu.Unlock()
		if status != 0 {
			reply(w, status, map[string]any{"error": "rechazado por el servidor"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	f.mu.Lock()
	body["id"] = f.id()
	f.mu.Unlock()
	reply(w, http.StatusCreated, body)
}

func (f *fakeAPI) update(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	body["id"] = r.PathValue("id")
	reply(w, http.StatusOK, body)
}

func (f *fakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request) map[string]any {
	body := map[string]any{}
	json.NewDecoder(r.Body).Decode(&body)
	return body
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// --- Fixtures ---

func day(d int) time.Time {
	return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC)
}

func fixturePosts() []models.Post {
	when := day(28)
	return []models.Post{
		{ID: "p1", Slug: "cine-de-autor", Title: "Cine de autor", Category: "Cine", Subcategory: "Reseña",
			Author: "Ana", Content: "Una *reseña* del ciclo.", PublishedAt: day(10), Type: models.PostTypePublication, ViewCount: 50},
		{ID: "p2", Slug: "poesia-nueva", Title: "Poesía nueva", Category: "Literatura",
			Excerpt: "Versos recientes", PublishedAt: day(9), Type: models.PostTypePublication, ViewCount: 80},
		{ID: "a1", Slug: "taller", Title: "Taller de escritura", Category: "Literatura", Subcategory: "Club de lectura",
			PublishedAt: day(8), Type: models.PostTypeActivity, IsActivity: true, ScheduledAt: &when, Location: "Biblioteca"},
	}
}

func fixtureMagazines() []models.Magazine {
	release := day(20)
	return []models.Magazine{
		{ID: "m1", Title: "Edición de marzo", Description: "Cine y literatura", PDFSource: "https://files.test/m1.pdf",
			HasPDF: true, CreatedAt: day(2), ReleaseDate: &release},
		{ID: "m2", Title: "Edición sin archivo", CreatedAt: day(5)},
	}
}

// newTestStore returns a store seeded with the fixtures and writing to the
// fake API.
func newTestStore(t *testing.T) (*store.ContentStore, *fakeAPI, *api.Client) {
	t.Helper()
	f, client := newFakeAPI(t)
	return store.NewContentStore(client, fixturePosts(), fixtureMagazines()), f, client
}

// --- Request helpers ---

// withParams sets chi URL parameters on r, as the router would.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeResponse decodes the recorder body into v and fails on bad JSON.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeResponse(t, rec, &body)
	return body["error"]
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, strings.TrimSpace(rec.Body.String()))
	}
}
