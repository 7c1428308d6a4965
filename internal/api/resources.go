// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"revista/internal/content"
	"revista/internal/models"
)

// echo returns nil for an empty response body so callers can tell "no
// echo" apart from an empty record.
func echo(raw content.Raw) content.Raw {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// --- Articles ---

func (c *Client) ListArticles(ctx context.Context) ([]content.Raw, error) {
	return c.list(ctx, "/articles")
}

func (c *Client) CreateArticle(ctx context.Context, payload content.Raw) (content.Raw, error) {
	return c.record(ctx, http.MethodPost, "/articles", payload)
}

func (c *Client) UpdateArticle(ctx context.Context, id string, payload content.Raw) (content.Raw, error) {
	return c.record(ctx, http.MethodPut, "/articles/"+url.PathEscape(id), payload)
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/articles/"+url.PathEscape(id), nil, nil)
}

// --- Magazines ---

func (c *Client) ListMagazines(ctx context.Context) ([]content.Raw, error) {
	return c.list(ctx, "/magazines")
}

func (c *Client) CreateMagazine(ctx context.Context, payload content.Raw) (content.Raw, error) {
	return c.record(ctx, http.MethodPost, "/magazines", payload)
}

func (c *Client) UpdateMagazine(ctx context.Context, id string, payload content.Raw) (content.Raw, error) {
	return c.record(ctx, http.MethodPut, "/magazines/"+url.PathEscape(id), payload)
}

func (c *Client) DeleteMagazine(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/magazines/"+url.PathEscape(id), nil, nil)
}

// --- Magazine articles ---

func magazineArticlesPath(magazineID string) string {
	return "/magazines/" + url.PathEscape(magazineID) + "/articles"
}

// ListMagazineArticles returns the articles of one edition.
func (c *Client) ListMagazineArticles(ctx context.Context, magazineID string) ([]models.MagazineArticle, error) {
	raws, err := c.list(ctx, magazineArticlesPath(magazineID))
	if err != nil {
		return nil, err
	}
	out := make([]models.MagazineArticle, 0, len(raws))
	for _, r := range raws {
		if a := content.NormalizeMagazineArticle(r); a != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (c *Client) CreateMagazineArticle(ctx context.Context, magazineID string, a *models.MagazineArticle) (*models.MagazineArticle, error) {
	raw, err := c.record(ctx, http.MethodPost, magazineArticlesPath(magazineID), content.MagazineArticlePayload(a))
	if err != nil {
		return nil, err
	}
	return content.NormalizeMagazineArticle(echo(raw)), nil
}

func (c *Client) UpdateMagazineArticle(ctx context.Context, magazineID, articleID string, a *models.MagazineArticle) (*models.MagazineArticle, error) {
	path := magazineArticlesPath(magazineID) + "/" + url.PathEscape(articleID)
	raw, err := c.record(ctx, http.MethodPut, path, content.MagazineArticlePayload(a))
	if err != nil {
		return nil, err
	}
	return content.NormalizeMagazineArticle(echo(raw)), nil
}

func (c *Client) DeleteMagazineArticle(ctx context.Context, magazineID, articleID string) error {
	path := magazineArticlesPath(magazineID) + "/" + url.PathEscape(articleID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// --- Categories ---

func (c *Client) ListCategories(ctx context.Context) ([]models.CategoryRecord, error) {
	raws, err := c.list(ctx, "/categories")
	if err != nil {
		return nil, err
	}
	out := make([]models.CategoryRecord, 0, len(raws))
	for _, r := range raws {
		if rec := content.NormalizeCategoryRecord(r); rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, rec *models.CategoryRecord) (*models.CategoryRecord, error) {
	raw, err := c.record(ctx, http.MethodPost, "/categories", content.Raw{"name": rec.Name, "slug": rec.Slug})
	if err != nil {
		return nil, err
	}
	return content.NormalizeCategoryRecord(echo(raw)), nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, rec *models.CategoryRecord) (*models.CategoryRecord, error) {
	raw, err := c.record(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), content.Raw{"name": rec.Name, "slug": rec.Slug})
	if err != nil {
		return nil, err
	}
	return content.NormalizeCategoryRecord(echo(raw)), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
}

// --- Authors ---

func (c *Client) ListAuthors(ctx context.Context) ([]models.Author, error) {
	raws, err := c.list(ctx, "/authors")
	if err != nil {
		return nil, err
	}
	out := make([]models.Author, 0, len(raws))
	for _, r := range raws {
		if a := content.NormalizeAuthor(r); a != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func authorPayload(a *models.Author) content.Raw {
	return content.Raw{"name": a.Name, "bio": a.Bio, "avatar": a.Avatar}
}

func (c *Client) CreateAuthor(ctx context.Context, a *models.Author) (*models.Author, error) {
	raw, err := c.record(ctx, http.MethodPost, "/authors", authorPayload(a))
	if err != nil {
		return nil, err
	}
	return content.NormalizeAuthor(echo(raw)), nil
}

func (c *Client) UpdateAuthor(ctx context.Context, id string, a *models.Author) (*models.Author, error) {
	raw, err := c.record(ctx, http.MethodPut, "/authors/"+url.PathEscape(id), authorPayload(a))
	if err != nil {
		return nil, err
	}
	return content.NormalizeAuthor(echo(raw)), nil
}

func (c *Client) DeleteAuthor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/authors/"+url.PathEscape(id), nil, nil)
}

// --- Authentication ---

// ErrNoToken is returned when a successful login response carries no token.
var ErrNoToken = errors.New("api login: response has no token")

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	creds := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", creds, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrNoToken
	}
	return out.Token, nil
}
