// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"revista/internal/models"
	"revista/internal/storage"
	"revista/internal/store"
	"revista/internal/syncer"
)

func newTestAdmin(t *testing.T) (*Admin, *store.ContentStore, *fakeAPI) {
	t.Helper()
	s, f, client := newTestStore(t)
	return NewAdmin(s, client, syncer.New(s, client), nil, nil), s, f
}

func TestPostCreate(t *testing.T) {
	a, s, f := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{
		"title":    "Nueva nota",
		"category": "Arte",
		"excerpt":  "Breve",
	}))
	assertStatus(t, rec, http.StatusCreated)

	var post models.Post
	decodeResponse(t, rec, &post)
	if post.ID != "srv-1" || post.Slug != "nueva-nota" {
		t.Errorf("post = %+v", post)
	}
	if s.PostByID("srv-1") == nil {
		t.Error("created post missing from store")
	}
	if !slices.Contains(f.called(), "POST /articles") {
		t.Errorf("calls = %v", f.called())
	}
}

func TestPostCreate_Validation(t *testing.T) {
	a, s, f := newTestAdmin(t)
	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing title", map[string]any{"category": "Arte"}, "El título es requerido."},
		{"activity without place", map[string]any{"title": "Taller", "type": "activity", "scheduledAt": "2026-05-01T18:00:00Z"},
			"Los campos de actividad (fecha y lugar) son requeridos."},
		{"bad image", map[string]any{"title": "Nota", "image": "ftp://x"}, "La URL de la imagen debe ser válida (https://...)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", tt.body))
			assertStatus(t, rec, http.StatusUnprocessableEntity)
			if got := errorOf(t, rec); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
	if len(f.called()) != 0 {
		t.Errorf("invalid input reached the API: %v", f.called())
	}
	if len(s.Posts()) != 3 {
		t.Errorf("store changed: %d posts", len(s.Posts()))
	}
}

func TestPostCreate_MalformedBody(t *testing.T) {
	a, _, _ := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", "{not json"))
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestPostCreate_APIErrorKeepsStatus(t *testing.T) {
	a, s, f := newTestAdmin(t)
	f.failOn("POST /articles", http.StatusConflict)

	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{"title": "Nota"}))
	assertStatus(t, rec, http.StatusConflict)
	if got := errorOf(t, rec); got != "rechazado por el servidor" {
		t.Errorf("error = %q", got)
	}
	if len(s.Posts()) != 3 {
		t.Error("failed create changed the store")
	}
}

func TestPostUpdateAndDelete(t *testing.T) {
	a, s, _ := newTestAdmin(t)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/posts/p1", map[string]any{"title": "Cine renovado", "category": "Cine"})
	a.PostUpdate(rec, withParams(req, "id", "p1"))
	assertStatus(t, rec, http.StatusOK)
	if p := s.PostByID("p1"); p == nil || p.Title != "Cine renovado" {
		t.Errorf("updated post = %+v", p)
	}

	rec = httptest.NewRecorder()
	a.PostDelete(rec, withParams(httptest.NewRequest(http.MethodDelete, "/admin/posts/p1", nil), "id", "p1"))
	assertStatus(t, rec, http.StatusNoContent)
	if s.PostByID("p1") != nil {
		t.Error("deleted post still in store")
	}
}

func TestPostDelete_APIFailureKeepsPost(t *testing.T) {
	a, s, f := newTestAdmin(t)
	f.failOn("DELETE /articles/p1", http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	a.PostDelete(rec, withParams(httptest.NewRequest(http.MethodDelete, "/admin/posts/p1", nil), "id", "p1"))
	assertStatus(t, rec, http.StatusInternalServerError)
	if s.PostByID("p1") == nil {
		t.Error("post removed although the API refused")
	}
}

func TestAdmin_ReadOnlyStore(t *testing.T) {
	_, client := newFakeAPI(t)
	s := store.NewContentStore(nil, fixturePosts(), nil)
	a := NewAdmin(s, client, syncer.New(s, client), nil, nil)

	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{"title": "Nota"}))
	assertStatus(t, rec, http.StatusServiceUnavailable)
}

func TestMagazineCreate_WithArticles(t *testing.T) {
	a, s, f := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.MagazineCreate(rec, jsonRequest(http.MethodPost, "/admin/magazines", map[string]any{
		"title":  "Edición de abril",
		"pdfUrl": "https://files.test/abril.pdf",
		"articles": []any{
			map[string]any{"title": "Editorial", "pdfUrl": "https://files.test/editorial.pdf", "pageNumber": 2},
		},
	}))
	assertStatus(t, rec, http.StatusCreated)

	var out savedMagazine
	decodeResponse(t, rec, &out)
	if out.Magazine == nil || out.Magazine.ID != "srv-1" {
		t.Fatalf("magazine = %+v", out.Magazine)
	}
	if out.Magazine.FileName != "abril.pdf" {
		t.Errorf("fileName = %q", out.Magazine.FileName)
	}
	if len(out.Articles) != 1 || out.Articles[0].ID == "" {
		t.Errorf("articles = %+v", out.Articles)
	}
	if s.MagazineByID("srv-1") == nil {
		t.Error("magazine missing from store")
	}
	if len(f.articles["srv-1"]) != 1 {
		t.Errorf("API articles = %v", f.articles["srv-1"])
	}
}

func TestMagazineUpdate_ReconcilesArticles(t *testing.T) {
	a, _, f := newTestAdmin(t)
	f.articles["m1"] = []map[string]any{
		{"id": "x1", "title": "Viejo", "pdf_url": "https://files.test/x1.pdf"},
		{"id": "x2", "title": "Retirado", "pdf_url": "https://files.test/x2.pdf"},
	}

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/magazines/m1", map[string]any{
		"title":  "Edición de marzo",
		"pdfUrl": "https://files.test/m1.pdf",
		"articles": []any{
			map[string]any{"id": "x1", "title": "Renovado", "pdfUrl": "https://files.test/x1.pdf"},
			map[string]any{"title": "Nuevo", "pdfUrl": "https://files.test/nuevo.pdf"},
		},
	})
	a.MagazineUpdate(rec, withParams(req, "id", "m1"))
	assertStatus(t, rec, http.StatusOK)

	var titles []string
	for _, art := range f.articles["m1"] {
		titles = append(titles, art["title"].(string))
	}
	slices.Sort(titles)
	if !slices.Equal(titles, []string{"Nuevo", "Renovado"}) {
		t.Errorf("API articles = %v", titles)
	}
	if !slices.Contains(f.called(), "DELETE /magazines/m1/articles/x2") {
		t.Errorf("removed article not deleted: %v", f.called())
	}
}

func TestMagazineUpdate_WithoutArticlesLeavesThem(t *testing.T) {
	a, _, f := newTestAdmin(t)
	f.articles["m1"] = []map[string]any{{"id": "x1", "title": "Queda", "pdf_url": "https://files.test/x1.pdf"}}

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/magazines/m1", map[string]any{
		"title": "Edición de marzo", "viewerUrl": "https://issuu.test/m1",
	})
	a.MagazineUpdate(rec, withParams(req, "id", "m1"))
	assertStatus(t, rec, http.StatusOK)
	if len(f.articles["m1"]) != 1 {
		t.Errorf("articles touched: %v", f.articles["m1"])
	}
}

func TestMagazineSave_Validation(t *testing.T) {
	a, _, f := newTestAdmin(t)
	tests := []struct {
		name string
		body any
		code int
		want string
	}{
		{"missing title", map[string]any{"pdfUrl": "https://files.test/a.pdf"}, http.StatusUnprocessableEntity,
			"Define un título para la revista."},
		{"no source", map[string]any{"title": "Sin archivo"}, http.StatusUnprocessableEntity,
			"Agrega un PDF con enlace público o pega el enlace del visor externo (Issuu, Calameo, etc.)."},
		{"bad article", map[string]any{"title": "Con artículo", "pdfUrl": "https://files.test/a.pdf",
			"articles": []any{map[string]any{"title": "Sin PDF"}}}, http.StatusUnprocessableEntity,
			"La URL del PDF del artículo debe ser válida (https://...)"},
		{"articles not a list", map[string]any{"title": "Raro", "pdfUrl": "https://files.test/a.pdf", "articles": "x"},
			http.StatusBadRequest, "Solicitud inválida"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.MagazineCreate(rec, jsonRequest(http.MethodPost, "/admin/magazines", tt.body))
			assertStatus(t, rec, tt.code)
			if got := errorOf(t, rec); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
	if len(f.called()) != 0 {
		t.Errorf("invalid input reached the API: %v", f.called())
	}
}

func TestMagazineDelete(t *testing.T) {
	a, s, _ := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.MagazineDelete(rec, withParams(httptest.NewRequest(http.MethodDelete, "/admin/magazines/m2", nil), "id", "m2"))
	assertStatus(t, rec, http.StatusNoContent)
	if s.MagazineByID("m2") != nil {
		t.Error("deleted magazine still in store")
	}
}

func TestDashboard(t *testing.T) {
	a, _, _ := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assertStatus(t, rec, http.StatusOK)

	var d dashboard
	decodeResponse(t, rec, &d)
	if d.Posts != 3 || d.Publications != 2 || d.Activities != 1 || d.Magazines != 2 {
		t.Errorf("counts = %+v", d)
	}
	if len(d.Categories) != 1 || d.Categories[0].ID != "1" {
		t.Errorf("categories = %+v", d.Categories)
	}
	if len(d.Authors) != 1 || d.Authors[0].Avatar != "https://img.test/ana.png" {
		t.Errorf("authors = %+v", d.Authors)
	}
}

func TestDashboard_APIError(t *testing.T) {
	a, _, f := newTestAdmin(t)
	f.failOn("GET /authors", http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	a.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assertStatus(t, rec, http.StatusInternalServerError)
}

func TestSync(t *testing.T) {
	a, s, _ := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.Sync(rec, httptest.NewRequest(http.MethodPost, "/admin/sync", nil))
	assertStatus(t, rec, http.StatusOK)

	posts := s.Posts()
	if len(posts) != 1 || posts[0].ID != "p9" {
		t.Errorf("posts after sync = %+v", posts)
	}
	if len(s.Magazines()) != 0 {
		t.Errorf("magazines after sync = %d", len(s.Magazines()))
	}
}

func TestSync_Failure(t *testing.T) {
	a, s, f := newTestAdmin(t)
	f.failOn("GET /articles", http.StatusInternalServerError)

	rec := httptest.NewRecorder()
	a.Sync(rec, httptest.NewRequest(http.MethodPost, "/admin/sync", nil))
	assertStatus(t, rec, http.StatusBadGateway)
	if got := errorOf(t, rec); got != syncer.PostsRefreshError {
		t.Errorf("error = %q", got)
	}
	if len(s.Posts()) != 3 {
		t.Error("failed sync dropped the posts")
	}
}

func TestCategoryCreate(t *testing.T) {
	a, _, _ := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.CategoryCreate(rec, jsonRequest(http.MethodPost, "/admin/categories", map[string]any{"name": " Teatro Clásico "}))
	assertStatus(t, rec, http.StatusCreated)

	var cat models.CategoryRecord
	decodeResponse(t, rec, &cat)
	if cat.ID == "" || cat.Name != "Teatro Clásico" || cat.Slug != "teatro-clasico" {
		t.Errorf("category = %+v", cat)
	}

	rec = httptest.NewRecorder()
	a.CategoryCreate(rec, jsonRequest(http.MethodPost, "/admin/categories", map[string]any{"name": ""}))
	assertStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	a, _, f := newTestAdmin(t)
	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/categories/1", map[string]any{"name": "Cine", "slug": "Cine Club"})
	a.CategoryUpdate(rec, withParams(req, "id", "1"))
	assertStatus(t, rec, http.StatusOK)

	var cat models.CategoryRecord
	decodeResponse(t, rec, &cat)
	if cat.ID != "1" || cat.Slug != "cine-club" {
		t.Errorf("category = %+v", cat)
	}

	rec = httptest.NewRecorder()
	a.CategoryDelete(rec, withParams(httptest.NewRequest(http.MethodDelete, "/admin/categories/1", nil), "id", "1"))
	assertStatus(t, rec, http.StatusNoContent)
	if !slices.Contains(f.called(), "DELETE /categories/1") {
		t.Errorf("calls = %v", f.called())
	}
}

func TestAuthorCreate(t *testing.T) {
	a, _, _ := newTestAdmin(t)
	rec := httptest.NewRecorder()
	a.AuthorCreate(rec, jsonRequest(http.MethodPost, "/admin/authors", map[string]any{"name": "Luis", "avatar": "nota-url"}))
	assertStatus(t, rec, http.StatusUnprocessableEntity)

	rec = httptest.NewRecorder()
	a.AuthorCreate(rec, jsonRequest(http.MethodPost, "/admin/authors", map[string]any{"name": "Luis", "bio": "Crítico"}))
	assertStatus(t, rec, http.StatusCreated)
	var author models.Author
	decodeResponse(t, rec, &author)
	if author.ID == "" || author.Bio != "Crítico" {
		t.Errorf("author = %+v", author)
	}
}

func TestAuthorList_APIError(t *testing.T) {
	a, _, f := newTestAdmin(t)
	f.failOn("GET /authors", http.StatusServiceUnavailable)

	rec := httptest.NewRecorder()
	a.AuthorList(rec, httptest.NewRequest(http.MethodGet, "/admin/authors", nil))
	assertStatus(t, rec, http.StatusServiceUnavailable)
}

func TestMagazineArticleCRUD(t *testing.T) {
	a, _, f := newTestAdmin(t)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPost, "/admin/magazines/m1/articles", map[string]any{"title": "Sin PDF"})
	a.MagazineArticleCreate(rec, withParams(req, "id", "m1"))
	assertStatus(t, rec, http.StatusUnprocessableEntity)

	rec = httptest.NewRecorder()
	req = jsonRequest(http.MethodPost, "/admin/magazines/m1/articles", map[string]any{
		"title": "Crónica", "author": "Ana", "pdfUrl": "https://files.test/cronica.pdf",
	})
	a.MagazineArticleCreate(rec, withParams(req, "id", "m1"))
	assertStatus(t, rec, http.StatusCreated)
	var art models.MagazineArticle
	decodeResponse(t, rec, &art)
	if art.ID == "" || art.MagazineID != "m1" {
		t.Fatalf("article = %+v", art)
	}

	rec = httptest.NewRecorder()
	req = jsonRequest(http.MethodPut, "/admin/magazines/m1/articles/"+art.ID, map[string]any{
		"title": "Crónica breve", "pdfUrl": "https://files.test/cronica.pdf",
	})
	a.MagazineArticleUpdate(rec, withParams(req, "id", "m1", "articleID", art.ID))
	assertStatus(t, rec, http.StatusOK)

	rec = httptest.NewRecorder()
	a.MagazineArticleList(rec, withParams(httptest.NewRequest(http.MethodGet, "/admin/magazines/m1/articles", nil), "id", "m1"))
	assertStatus(t, rec, http.StatusOK)
	var list []models.MagazineArticle
	decodeResponse(t, rec, &list)
	if len(list) != 1 || list[0].Title != "Crónica breve" {
		t.Errorf("list = %+v", list)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/admin/magazines/m1/articles/"+art.ID, nil)
	a.MagazineArticleDelete(rec, withParams(req, "id", "m1", "articleID", art.ID))
	assertStatus(t, rec, http.StatusNoContent)
	if len(f.articles["m1"]) != 0 {
		t.Errorf("article not deleted: %v", f.articles["m1"])
	}
}

// fakeImages stands in for object storage.
type fakeImages struct {
	stored  []string
	removed []string
	err     error
}

func (f *fakeImages) StoreImage(_ context.Context, dataURL string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		return "", storage.ErrBadDataURL
	}
	url := fmt.Sprintf("https://media.test/posts/%d.png", len(f.stored)+1)
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeImages) RemoveImage(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func newImageAdmin(t *testing.T) (*Admin, *store.ContentStore, *fakeImages) {
	t.Helper()
	s, _, client := newTestStore(t)
	images := &fakeImages{}
	return NewAdmin(s, client, syncer.New(s, client), images, nil), s, images
}

func TestPostCreate_StoresInlineImage(t *testing.T) {
	a, s, images := newImageAdmin(t)
	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{
		"title": "Con foto",
		"image": "data:image/png;base64,iVBORw0KGgo=",
	}))
	assertStatus(t, rec, http.StatusCreated)

	var post models.Post
	decodeResponse(t, rec, &post)
	if post.Image != "https://media.test/posts/1.png" {
		t.Errorf("image = %q", post.Image)
	}
	if got := s.PostByID(post.ID); got == nil || got.Image != post.Image {
		t.Errorf("stored post = %+v", got)
	}
	if len(images.stored) != 1 {
		t.Errorf("stored %d images", len(images.stored))
	}
}

func TestPostCreate_InlineImageErrors(t *testing.T) {
	a, _, images := newImageAdmin(t)

	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{
		"title": "Con foto", "image": "data:image/bmp;base64,Qk0=",
	}))
	assertStatus(t, rec, http.StatusUnprocessableEntity)

	images.err = errors.New("bucket down")
	rec = httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{
		"title": "Con foto", "image": "data:image/png;base64,iVBORw0KGgo=",
	}))
	assertStatus(t, rec, http.StatusBadGateway)
}

func TestPostWrite_RejectedByAPIDiscardsUploadedImage(t *testing.T) {
	s, f, client := newTestStore(t)
	images := &fakeImages{}
	a := NewAdmin(s, client, syncer.New(s, client), images, nil)

	f.failOn("POST /articles", http.StatusInternalServerError)
	rec := httptest.NewRecorder()
	a.PostCreate(rec, jsonRequest(http.MethodPost, "/admin/posts", map[string]any{
		"title": "Con foto", "image": "data:image/png;base64,iVBORw0KGgo=",
	}))
	if rec.Code < 400 {
		t.Fatalf("status = %d, want an error", rec.Code)
	}
	if !slices.Equal(images.removed, images.stored) || len(images.stored) != 1 {
		t.Errorf("stored = %v, removed = %v", images.stored, images.removed)
	}

	f.failOn("PUT /articles/p1", http.StatusInternalServerError)
	rec = httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/posts/p1", map[string]any{
		"title": "Otra foto", "category": "Cine", "image": "data:image/png;base64,iVBORw0KGgo=",
	})
	a.PostUpdate(rec, withParams(req, "id", "p1"))
	if rec.Code < 400 {
		t.Fatalf("status = %d, want an error", rec.Code)
	}
	want := []string{"https://media.test/posts/1.png", "https://media.test/posts/2.png"}
	if !slices.Equal(images.removed, want) {
		t.Errorf("removed = %v, want %v", images.removed, want)
	}
	if got := s.PostByID("p1"); got == nil || got.Image == "https://media.test/posts/2.png" {
		t.Errorf("post p1 = %+v", got)
	}
}

func TestPostUpdateAndDelete_RemoveOldImage(t *testing.T) {
	a, s, images := newImageAdmin(t)
	s.DispatchPosts(store.PostAction{Type: store.ActionAdd, Post: &models.Post{
		ID: "p5", Slug: "foto", Title: "Foto", Category: "Arte", Image: "https://media.test/posts/old.png",
		PublishedAt: day(12), Type: models.PostTypePublication,
	}})

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPut, "/admin/posts/p5", map[string]any{
		"title": "Foto", "category": "Arte", "image": "data:image/png;base64,iVBORw0KGgo=",
	})
	a.PostUpdate(rec, withParams(req, "id", "p5"))
	assertStatus(t, rec, http.StatusOK)
	if !slices.Equal(images.removed, []string{"https://media.test/posts/old.png"}) {
		t.Errorf("removed = %v", images.removed)
	}

	rec = httptest.NewRecorder()
	a.PostDelete(rec, withParams(httptest.NewRequest(http.MethodDelete, "/admin/posts/p5", nil), "id", "p5"))
	assertStatus(t, rec, http.StatusNoContent)
	if len(images.removed) != 2 || images.removed[1] != "https://media.test/posts/1.png" {
		t.Errorf("removed = %v", images.removed)
	}
}
