// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"revista/internal/api"
	"revista/internal/cache"
	"revista/internal/content"
	"revista/internal/markdown"
	"revista/internal/models"
	"revista/internal/preview"
	"revista/internal/store"
)

const (
	defaultTrending = 4
	defaultRelated  = 3
	maxListLimit    = 50
)

// Public groups the read-only JSON endpoints of the site. Views are served
// from the Valkey view cache when present and stored there on miss.
type Public struct {
	store  *store.ContentStore
	remote *api.Client
	prober *preview.Prober
	views  *cache.ViewCache
}

// NewPublic creates the public handler group. views may be nil.
func NewPublic(s *store.ContentStore, remote *api.Client, prober *preview.Prober, views *cache.ViewCache) *Public {
	return &Public{store: s, remote: remote, prober: prober, views: views}
}

// serve answers from the view cache or builds, caches and sends the view.
// build runs only on a miss and reports false when the resource does not
// exist. Keys carry the snapshot version the view was built against, so a
// view filled after a store change is never read back.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, scope, notFound string, build func() (any, bool)) {
	ctx := r.Context()
	key := cache.Key(scope, p.store.Snapshot().Version, r.URL.RequestURI())
	if body, ok := p.views.Get(ctx, key); ok {
		writeBody(w, http.StatusOK, body)
		return
	}

	v, ok := build()
	if !ok {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	body, err := encode(v)
	if err != nil {
		slog.Error("encode view failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	p.views.Set(ctx, key, body)
	writeBody(w, http.StatusOK, body)
}

func found[T any](fn func() T) func() (any, bool) {
	return func() (any, bool) { return fn(), true }
}

// Health reports liveness and the size of both collections.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	snap := p.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"posts":     len(snap.Posts),
		"magazines": len(snap.Magazines),
	})
}

// SyncStatus reports the remote sync state of both collections.
func (p *Public) SyncStatus(w http.ResponseWriter, r *http.Request) {
	snap := p.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]store.SyncStatus{
		"posts":     snap.PostSync,
		"magazines": snap.MagazineSync,
	})
}

func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	if n := intQuery(r, "limit", 0, maxListLimit); n > 0 {
		p.serve(w, r, string(store.CollectionPosts), "", found(func() []models.Post { return p.store.Latest(n) }))
		return
	}
	p.serve(w, r, string(store.CollectionPosts), "", found(p.store.Posts))
}

func (p *Public) Publications(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, string(store.CollectionPosts), "", found(p.store.Publications))
}

func (p *Public) Activities(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, string(store.CollectionPosts), "", found(p.store.Activities))
}

func (p *Public) UpcomingActivities(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, string(store.CollectionPosts), "", found(p.store.UpcomingActivities))
}

func (p *Public) Trending(w http.ResponseWriter, r *http.Request) {
	n := intQuery(r, "limit", defaultTrending, maxListLimit)
	p.serve(w, r, string(store.CollectionPosts), "", found(func() []models.Post { return p.store.Trending(n) }))
}

// postView is the article page payload.
type postView struct {
	Post          *models.Post  `json:"post"`
	ContentHTML   string        `json:"contentHtml"`
	CategoryLabel string        `json:"categoryLabel"`
	Related       []models.Post `json:"related"`
}

// Post returns one post with its category label and related reading.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p.serve(w, r, string(store.CollectionPosts), "Publicación no encontrada", func() (any, bool) {
		post := p.store.PostByID(id)
		if post == nil {
			return nil, false
		}
		body, err := markdown.ToHTML(post.Content)
		if err != nil {
			slog.Warn("render post body failed", "id", post.ID, "error", err)
		}
		return &postView{
			Post:        post,
			ContentHTML: body,
			CategoryLabel: content.FormatCategoryLabel(post, content.LabelOptions{
				IncludeActivityPrefix: true,
				Fallback:              content.DefaultLabelFallback,
			}),
			Related: p.store.RecentPublications(post.ID, defaultRelated),
		}, true
	})
}

func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, string(store.CollectionPosts), "", found(p.store.Categories))
}

// categoryView is the category page payload.
type categoryView struct {
	Category *models.Category `json:"category"`
	Posts    []models.Post    `json:"posts"`
}

// Category returns one indexed category and the posts filed under it.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p.serve(w, r, string(store.CollectionPosts), "Categoría no encontrada", func() (any, bool) {
		cat := p.store.CategoryBySlug(slug)
		if cat == nil {
			return nil, false
		}
		return &categoryView{Category: cat, Posts: p.store.PostsByCategorySlug(slug)}, true
	})
}

// Magazines lists magazines newest first, or by edition date with
// ?order=edition.
func (p *Public) Magazines(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("order") == "edition" {
		p.serve(w, r, string(store.CollectionMagazines), "", found(p.store.Editions))
		return
	}
	p.serve(w, r, string(store.CollectionMagazines), "", found(p.store.Magazines))
}

// magazineView is the magazine page payload.
type magazineView struct {
	Magazine *models.Magazine `json:"magazine"`
	Readable bool             `json:"readable"`
}

func (p *Public) Magazine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p.serve(w, r, string(store.CollectionMagazines), "Revista no encontrada", func() (any, bool) {
		m := p.store.MagazineByID(id)
		if m == nil {
			return nil, false
		}
		return &magazineView{Magazine: m, Readable: m.Readable()}, true
	})
}

// MagazineArticles lists the downloadable articles of a magazine, read
// from the API.
func (p *Public) MagazineArticles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if p.store.MagazineByID(id) == nil {
		writeError(w, http.StatusNotFound, "Revista no encontrada")
		return
	}

	ctx := r.Context()
	key := cache.Key(string(store.CollectionMagazines), p.store.Snapshot().Version, r.URL.RequestURI())
	if body, ok := p.views.Get(ctx, key); ok {
		writeBody(w, http.StatusOK, body)
		return
	}
	articles, err := p.remote.ListMagazineArticles(ctx, id)
	if err != nil {
		slog.Error("list magazine articles failed", "magazine", id, "error", err)
		writeError(w, http.StatusBadGateway, "No se pudieron cargar los artículos de la revista.")
		return
	}
	body, err := encode(articles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	p.views.Set(ctx, key, body)
	writeBody(w, http.StatusOK, body)
}

// MagazinePreview checks whether the magazine's reader can be loaded.
func (p *Public) MagazinePreview(w http.ResponseWriter, r *http.Request) {
	m := p.store.MagazineByID(chi.URLParam(r, "id"))
	if m == nil {
		writeError(w, http.StatusNotFound, "Revista no encontrada")
		return
	}
	res, err := p.prober.Check(r.Context(), m)
	if err != nil {
		// the client went away; there is nobody to answer
		if r.Context().Err() == nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Search matches ?q= against publications, activities and magazines.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	p.serve(w, r, cache.ScopeSearch, "", found(func() *store.SearchResults { return p.store.Search(q) }))
}
