// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"revista/internal/models"
	"revista/internal/slug"
	"revista/internal/store"
)

// --- Categories ---

func (a *Admin) CategoryList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.remote.ListCategories(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// categoryInput reads and validates a category body. The slug defaults to
// one generated from the name.
func categoryInput(w http.ResponseWriter, r *http.Request) (*models.CategoryRecord, bool) {
	var rec models.CategoryRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return nil, false
	}
	if msg := validateName(rec.Name, "El nombre de la categoría es requerido."); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return nil, false
	}
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Slug = slug.Generate(rec.Slug)
	if rec.Slug == "" {
		rec.Slug = slug.Generate(rec.Name)
	}
	return &rec, true
}

func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	rec, ok := categoryInput(w, r)
	if !ok {
		return
	}
	saved, err := a.remote.CreateCategory(r.Context(), rec)
	if err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("category created", "slug", rec.Slug, "editor", editor(r))
	writeJSON(w, http.StatusCreated, orRecord(saved, rec))
}

func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := categoryInput(w, r)
	if !ok {
		return
	}
	rec.ID = id
	saved, err := a.remote.UpdateCategory(r.Context(), id, rec)
	if err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("category updated", "id", id, "editor", editor(r))
	writeJSON(w, http.StatusOK, orRecord(saved, rec))
}

func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.remote.DeleteCategory(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("category deleted", "id", id, "editor", editor(r))
	w.WriteHeader(http.StatusNoContent)
}

// --- Authors ---

func (a *Admin) AuthorList(w http.ResponseWriter, r *http.Request) {
	authors, err := a.remote.ListAuthors(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authors)
}

func authorInput(w http.ResponseWriter, r *http.Request) (*models.Author, bool) {
	var author models.Author
	if err := decodeJSON(w, r, &author); err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return nil, false
	}
	if msg := validateName(author.Name, "El nombre del autor es requerido."); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return nil, false
	}
	author.Name = strings.TrimSpace(author.Name)
	author.Avatar = strings.TrimSpace(author.Avatar)
	if author.Avatar != "" && !isHTTPURL(author.Avatar) {
		writeError(w, http.StatusUnprocessableEntity, "La URL del avatar debe ser válida (https://...)")
		return nil, false
	}
	return &author, true
}

func (a *Admin) AuthorCreate(w http.ResponseWriter, r *http.Request) {
	author, ok := authorInput(w, r)
	if !ok {
		return
	}
	saved, err := a.remote.CreateAuthor(r.Context(), author)
	if err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("author created", "name", author.Name, "editor", editor(r))
	writeJSON(w, http.StatusCreated, orRecord(saved, author))
}

func (a *Admin) AuthorUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	author, ok := authorInput(w, r)
	if !ok {
		return
	}
	author.ID = id
	saved, err := a.remote.UpdateAuthor(r.Context(), id, author)
	if err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("author updated", "id", id, "editor", editor(r))
	writeJSON(w, http.StatusOK, orRecord(saved, author))
}

func (a *Admin) AuthorDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.remote.DeleteAuthor(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	slog.Info("author deleted", "id", id, "editor", editor(r))
	w.WriteHeader(http.StatusNoContent)
}

// --- Magazine articles ---

func (a *Admin) MagazineArticleList(w http.ResponseWriter, r *http.Request) {
	articles, err := a.remote.ListMagazineArticles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func articleInput(w http.ResponseWriter, r *http.Request) (*models.MagazineArticle, bool) {
	raw, err := decodeRaw(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return nil, false
	}
	art, _, err := articlesOf(map[string]any{"articles": []any{map[string]any(raw)}})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Solicitud inválida")
		return nil, false
	}
	if msg := validateMagazineArticle(&art[0]); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return nil, false
	}
	return &art[0], true
}

func (a *Admin) MagazineArticleCreate(w http.ResponseWriter, r *http.Request) {
	magazineID := chi.URLParam(r, "id")
	art, ok := articleInput(w, r)
	if !ok {
		return
	}
	art.MagazineID = magazineID
	saved, err := a.remote.CreateMagazineArticle(r.Context(), magazineID, art)
	if err != nil {
		writeFailure(w, err)
		return
	}
	a.views.Invalidate(r.Context(), string(store.CollectionMagazines))
	writeJSON(w, http.StatusCreated, inMagazine(orRecord(saved, art), magazineID))
}

func (a *Admin) MagazineArticleUpdate(w http.ResponseWriter, r *http.Request) {
	magazineID, articleID := chi.URLParam(r, "id"), chi.URLParam(r, "articleID")
	art, ok := articleInput(w, r)
	if !ok {
		return
	}
	art.ID, art.MagazineID = articleID, magazineID
	saved, err := a.remote.UpdateMagazineArticle(r.Context(), magazineID, articleID, art)
	if err != nil {
		writeFailure(w, err)
		return
	}
	a.views.Invalidate(r.Context(), string(store.CollectionMagazines))
	writeJSON(w, http.StatusOK, inMagazine(orRecord(saved, art), magazineID))
}

func (a *Admin) MagazineArticleDelete(w http.ResponseWriter, r *http.Request) {
	magazineID, articleID := chi.URLParam(r, "id"), chi.URLParam(r, "articleID")
	if err := a.remote.DeleteMagazineArticle(r.Context(), magazineID, articleID); err != nil {
		writeFailure(w, err)
		return
	}
	a.views.Invalidate(r.Context(), string(store.CollectionMagazines))
	w.WriteHeader(http.StatusNoContent)
}

// orRecord returns the API's echo of a record, or what was sent when the
// API answered with an empty body.
func orRecord[T any](saved, sent *T) *T {
	if saved == nil {
		return sent
	}
	return saved
}

// inMagazine fills the magazine id the API leaves out of article echoes.
func inMagazine(a *models.MagazineArticle, magazineID string) *models.MagazineArticle {
	if a.MagazineID == "" {
		a.MagazineID = magazineID
	}
	return a
}
