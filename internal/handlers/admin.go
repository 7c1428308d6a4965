// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of revista.
// Handlers are grouped by concern (public, admin, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"revista/internal/api"
	"revista/internal/cache"
	"revista/internal/content"
	"revista/internal/middleware"
	"revista/internal/models"
	"revista/internal/storage"
	"revista/internal/store"
	"revista/internal/syncer"
)

// Admin groups the editor handlers. Posts and magazines go through the
// content store; categories, authors and magazine articles go straight to
// the API.
type Admin struct {
	store  *store.ContentStore
	remote *api.Client
	sync   *syncer.Controller
	images ImageStore
	views  *cache.ViewCache
}

// ImageStore keeps inline post images out of the API payload.
type ImageStore interface {
	StoreImage(ctx context.Context, dataURL string) (string, error)
	RemoveImage(ctx context.Context, url string) error
}

// NewAdmin creates a new Admin handler group. images and views may be nil.
func NewAdmin(s *store.ContentStore, remote *api.Client, ctrl *syncer.Controller, images ImageStore, views *cache.ViewCache) *Admin {
	return &Admin{store: s, remote: remote, sync: ctrl, images: images, views: views}
}

func editor(r *http.Request) string {
	if data := middleware.SessionFromCtx(r.Context()); data != nil {
		return data.Username
	}
	return ""
}

// --- Dashboard ---

type dashboard struct {
	Posts        int                         `json:"posts"`
	Publications int                         `json:"publications"`
	Activities   int                         `json:"activities"`
	Magazines    int                         `json:"magazines"`
	Categories   []models.CategoryRecord     `json:"categories"`
	Authors      []models.Author             `json:"authors"`
	Sync         map[string]store.SyncStatus `json:"sync"`
}

// Dashboard summarizes the collections and loads the admin-managed
// categories and authors in parallel.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap := a.store.Snapshot()
	d := dashboard{
		Posts:        len(snap.Posts),
		Publications: len(snap.Publications),
		Activities:   len(snap.Activities),
		Magazines:    len(snap.Magazines),
		Sync: map[string]store.SyncStatus{
			string(store.CollectionPosts):     snap.PostSync,
			string(store.CollectionMagazines): snap.MagazineSync,
		},
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		d.Categories, err = a.remote.ListCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Authors, err = a.remote.ListAuthors(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("dashboard load failed", "error", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Sync refreshes both collections from the API and reports the result.
func (a *Admin) Sync(w http.ResponseWriter, r *http.Request) {
	err := a.sync.RefreshAll(r.Context())
	if err != nil && !errors.Is(err, syncer.ErrSuperseded) {
		slog.Error("manual sync failed", "editor", editor(r), "error", err)
		writeError(w, http.StatusBadGateway, syncMessage(a.store))
		return
	}
	snap := a.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]store.SyncStatus{
		string(store.CollectionPosts):     snap.PostSync,
		string(store.CollectionMagazines): snap.MagazineSync,
	})
}

// syncMessage returns the first recorded sync error.
func syncMessage(s *store.ContentStore) string {
	if msg := s.SyncStatus(store.CollectionPosts).Error; msg != "" {
		return msg
	}
	if msg := s.SyncStatus(store.CollectionMagazines).Error; msg != "" {
		return msg
	}
	return syncer.PostsRefreshError
}

// --- Posts ---

func (a *Admin) PostList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Posts())
}

func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeRaw(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if msg := validatePost(raw, content.CreatePost(raw)); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	uploaded, ok := a.storeInlineImage(w, r, raw)
	if !ok {
		return
	}

	post, err := a.store.AddPost(r.Context(), raw)
	if err != nil {
		a.discardImages(r.Context(), uploaded)
		writeFailure(w, err)
		return
	}
	slog.Info("post created", "id", post.ID, "editor", editor(r))
	writeJSON(w, http.StatusCreated, post)
}

func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	raw, err := decodeRaw(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if msg := validatePost(raw, content.CreatePost(raw)); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	uploaded, ok := a.storeInlineImage(w, r, raw)
	if !ok {
		return
	}

	old := a.store.PostByID(id)
	post, err := a.store.UpdatePost(r.Context(), id, raw)
	if err != nil {
		a.discardImages(r.Context(), uploaded)
		writeFailure(w, err)
		return
	}
	if old != nil && old.Image != post.Image {
		a.removeImage(r.Context(), old.Image)
	}
	slog.Info("post updated", "id", post.ID, "editor", editor(r))
	writeJSON(w, http.StatusOK, post)
}

func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	old := a.store.PostByID(id)
	if err := a.store.DeletePost(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	if old != nil {
		a.removeImage(r.Context(), old.Image)
	}
	slog.Info("post deleted", "id", id, "editor", editor(r))
	w.WriteHeader(http.StatusNoContent)
}

// storeInlineImage replaces an inline data: image in raw with the URL it
// was stored under and returns the URLs it uploaded. It answers the
// request itself and returns false when the image cannot be stored.
func (a *Admin) storeInlineImage(w http.ResponseWriter, r *http.Request, raw content.Raw) ([]string, bool) {
	if a.images == nil {
		return nil, true
	}
	var uploaded []string
	stored := map[string]string{}
	for _, k := range content.PostAliases["image"] {
		v, ok := raw[k].(string)
		if !ok || !strings.HasPrefix(v, "data:image/") {
			continue
		}
		url, done := stored[v]
		if !done {
			var err error
			url, err = a.images.StoreImage(r.Context(), v)
			if err != nil {
				a.discardImages(r.Context(), uploaded)
				if errors.Is(err, storage.ErrBadDataURL) {
					writeError(w, http.StatusUnprocessableEntity, "La imagen no es válida.")
					return nil, false
				}
				slog.Error("store post image failed", "error", err)
				writeError(w, http.StatusBadGateway, "No se pudo guardar la imagen.")
				return nil, false
			}
			stored[v] = url
			uploaded = append(uploaded, url)
		}
		raw[k] = url
	}
	return uploaded, true
}

// discardImages removes images uploaded for a write the API then
// rejected. It outlives a cancelled request so the objects still go.
func (a *Admin) discardImages(ctx context.Context, urls []string) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		a.removeImage(ctx, url)
	}
}

// removeImage drops a stored post image. Failures only leave an orphan
// object behind, so they are logged and otherwise ignored.
func (a *Admin) removeImage(ctx context.Context, url string) {
	if a.images == nil || url == "" {
		return
	}
	if err := a.images.RemoveImage(ctx, url); err != nil {
		slog.Warn("remove post image failed", "url", url, "error", err)
	}
}

// --- Magazines ---

// savedMagazine pairs a saved magazine with its reconciled articles.
type savedMagazine struct {
	Magazine *models.Magazine         `json:"magazine"`
	Articles []models.MagazineArticle `json:"articles,omitempty"`
}

func (a *Admin) MagazineList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Magazines())
}

func (a *Admin) MagazineCreate(w http.ResponseWriter, r *http.Request) {
	a.saveMagazine(w, r, "")
}

func (a *Admin) MagazineUpdate(w http.ResponseWriter, r *http.Request) {
	a.saveMagazine(w, r, chi.URLParam(r, "id"))
}

// saveMagazine creates (id == "") or updates a magazine. When the body
// carries an "articles" list the magazine's articles are reconciled to it.
func (a *Admin) saveMagazine(w http.ResponseWriter, r *http.Request, id string) {
	raw, err := decodeRaw(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	articles, withArticles, err := articlesOf(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if msg := validateMagazine(raw); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	for i := range articles {
		if msg := validateMagazineArticle(&articles[i]); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}

	ctx := r.Context()
	var m *models.Magazine
	status := http.StatusOK
	if id == "" {
		m, err = a.store.AddMagazine(ctx, raw)
		status = http.StatusCreated
	} else {
		m, err = a.store.UpdateMagazine(ctx, id, raw)
	}
	if err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("magazine saved", "id", m.ID, "editor", editor(r))

	out := savedMagazine{Magazine: m}
	if withArticles {
		out.Articles, err = a.reconcileArticles(ctx, m.ID, articles)
		a.views.Invalidate(ctx, string(store.CollectionMagazines))
		if err != nil {
			slog.Error("magazine articles save failed", "magazine", m.ID, "error", err)
			writeFailure(w, err)
			return
		}
	}
	writeJSON(w, status, out)
}

func (a *Admin) MagazineDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.store.DeleteMagazine(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("magazine deleted", "id", id, "editor", editor(r))
	w.WriteHeader(http.StatusNoContent)
}

// articlesOf extracts the optional "articles" list of a magazine body.
func articlesOf(raw content.Raw) ([]models.MagazineArticle, bool, error) {
	v, ok := raw["articles"]
	if !ok || v == nil {
		return nil, false, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false, fmt.Errorf("articles: want list, got %T", v)
	}
	out := make([]models.MagazineArticle, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("articles[%d]: want object, got %T", i, item)
		}
		out = append(out, *content.NormalizeMagazineArticle(content.Raw(obj)))
	}
	return out, true, nil
}

// reconcileArticles makes the API's article list for magazineID match
// want: unknown ids are created, known ids updated and missing ones
// deleted. It returns the saved articles in the order of want.
func (a *Admin) reconcileArticles(ctx context.Context, magazineID string, want []models.MagazineArticle) ([]models.MagazineArticle, error) {
	existing, err := a.remote.ListMagazineArticles(ctx, magazineID)
	if err != nil {
		return nil, fmt.Errorf("list magazine articles: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.ID] = true
	}

	kept := make(map[string]bool, len(want))
	saved := make([]models.MagazineArticle, 0, len(want))
	for i := range want {
		art := want[i]
		art.MagazineID = magazineID
		var got *models.MagazineArticle
		if art.ID != "" && known[art.ID] {
			kept[art.ID] = true
			got, err = a.remote.UpdateMagazineArticle(ctx, magazineID, art.ID, &art)
		} else {
			got, err = a.remote.CreateMagazineArticle(ctx, magazineID, &art)
		}
		if err != nil {
			return saved, fmt.Errorf("save magazine article %q: %w", art.Title, err)
		}
		if got == nil || got.ID == "" {
			got = &art
		}
		saved = append(saved, *inMagazine(got, magazineID))
	}

	for _, e := range existing {
		if kept[e.ID] {
			continue
		}
		if err := a.remote.DeleteMagazineArticle(ctx, magazineID, e.ID); err != nil {
			return saved, fmt.Errorf("delete magazine article %s: %w", e.ID, err)
		}
	}
	return saved, nil
}
