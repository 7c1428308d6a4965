// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"revista/internal/models"
	"revista/internal/slug"
)

// MagazineArticleAliases lists the raw keys accepted for magazine articles.
var MagazineArticleAliases = map[string][]string{
	"id":         {"id"},
	"magazineId": {"magazine_id", "magazineId"},
	"title":      {"title"},
	"author":     {"author"},
	"pdfUrl":     {"pdf_url", "pdfUrl"},
	"pageNumber": {"page_number", "pageNumber"},
}

// AuthorAliases lists the raw keys accepted for authors.
var AuthorAliases = map[string][]string{
	"id":     {"id"},
	"name":   {"name"},
	"bio":    {"bio"},
	"avatar": {"avatar_url", "avatarUrl", "avatar"},
}

// NormalizeMagazineArticle converts a raw magazine article. It returns nil
// for nil input.
func NormalizeMagazineArticle(raw Raw) *models.MagazineArticle {
	if raw == nil {
		return nil
	}
	a := &models.MagazineArticle{
		ID:         raw.text(MagazineArticleAliases["id"]),
		MagazineID: raw.text(MagazineArticleAliases["magazineId"]),
		Title:      raw.text(MagazineArticleAliases["title"]),
		Author:     raw.text(MagazineArticleAliases["author"]),
		PDFURL:     raw.text(MagazineArticleAliases["pdfUrl"]),
	}
	if v, ok := raw.lookup(MagazineArticleAliases["pageNumber"]); ok {
		if n := toCount(v); n > 0 {
			a.PageNumber = &n
		}
	}
	return a
}

// NormalizeAuthor converts a raw author. It returns nil for nil input.
func NormalizeAuthor(raw Raw) *models.Author {
	if raw == nil {
		return nil
	}
	return &models.Author{
		ID:     raw.text(AuthorAliases["id"]),
		Name:   raw.text(AuthorAliases["name"]),
		Bio:    raw.text(AuthorAliases["bio"]),
		Avatar: raw.text(AuthorAliases["avatar"]),
	}
}

// NormalizeCategoryRecord converts a raw persisted category. A missing slug
// is derived from the name.
func NormalizeCategoryRecord(raw Raw) *models.CategoryRecord {
	if raw == nil {
		return nil
	}
	c := &models.CategoryRecord{
		ID:   raw.text([]string{"id"}),
		Name: raw.text([]string{"name"}),
		Slug: raw.text([]string{"slug"}),
	}
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	return c
}

// MagazineArticlePayload is the request body for magazine article writes.
func MagazineArticlePayload(a *models.MagazineArticle) Raw {
	r := Raw{
		"title":      a.Title,
		"author":     a.Author,
		"pdfUrl":     a.PDFURL,
		"pageNumber": nil,
	}
	if a.PageNumber != nil {
		r["pageNumber"] = *a.PageNumber
	}
	return r
}
