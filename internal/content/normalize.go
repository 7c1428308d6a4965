// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content turns raw post and magazine records into the canonical
// models.Post and models.Magazine shapes. The remote API changed its field
// naming over time; this package is the only place that knows about it.
package content

import (
	"time"

	"github.com/google/uuid"

	"revista/internal/models"
	"revista/internal/slug"
)

const (
	// DefaultPostTitle is used when a post arrives without a title.
	DefaultPostTitle = "Sin título"

	// DefaultCategory is assigned to publications without a category.
	DefaultCategory = "General"

	// DefaultMagazineTitle is used when a magazine arrives without a title.
	DefaultMagazineTitle = "Edición sin título"

	// DefaultMagazineCover is shown for editions without a cover image.
	DefaultMagazineCover = "https://placehold.co/900x600?text=Revista"
)

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// NormalizePost converts a raw post record into the canonical shape.
// It returns nil only when raw is nil; every other input degrades to
// defaults instead of failing.
func NormalizePost(raw Raw) *models.Post {
	if raw == nil {
		return nil
	}

	p := &models.Post{
		ID:          raw.text(PostAliases["id"]),
		Title:       raw.text(PostAliases["title"]),
		Category:    raw.text(PostAliases["category"]),
		Subcategory: raw.text(PostAliases["subcategory"]),
		Author:      raw.text(PostAliases["author"]),
		Image:       raw.text(PostAliases["image"]),
		Type:        models.PostTypePublication,
	}

	if v, ok := raw.lookup(PostAliases["excerpt"]); ok {
		p.Excerpt = toString(v)
	}
	if v, ok := raw.lookup(PostAliases["content"]); ok {
		p.Content = toString(v)
	}

	if raw.text(PostAliases["type"]) == string(models.PostTypeActivity) {
		p.Type = models.PostTypeActivity
	}
	p.IsActivity = p.Type == models.PostTypeActivity || raw.anyFlag(PostAliases["isActivity"], true)

	if p.Title == "" {
		p.Title = DefaultPostTitle
	}
	if p.Category == "" && !p.IsActivity {
		p.Category = DefaultCategory
	}

	p.PublishedAt = now()
	if v, ok := raw.lookup(PostAliases["publishedAt"]); ok {
		if t, ok := toTime(v); ok {
			p.PublishedAt = t
		}
	}

	if v, ok := raw.lookup(PostAliases["viewCount"]); ok {
		p.ViewCount = toCount(v)
	}

	if p.IsActivity {
		if v, ok := raw.lookup(PostAliases["scheduledAt"]); ok {
			if t, ok := toTime(v); ok {
				p.ScheduledAt = &t
			}
		}
		p.Price = raw.text(PostAliases["price"])
		p.Location = raw.text(PostAliases["location"])
	}

	p.Slug = raw.text(PostAliases["slug"])
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.ID)
	}
	if p.Slug == "" {
		p.Slug = "post-" + uuid.NewString()
	}

	return p
}

// NormalizeMagazine converts a raw magazine record into the canonical shape.
// A missing id is replaced by a generated one. It returns nil only when raw
// is nil.
func NormalizeMagazine(raw Raw) *models.Magazine {
	if raw == nil {
		return nil
	}

	m := &models.Magazine{
		ID:          raw.text(MagazineAliases["id"]),
		Title:       raw.text(MagazineAliases["title"]),
		Description: raw.text(MagazineAliases["description"]),
		PDFSource:   raw.text(MagazineAliases["pdfSource"]),
		ViewerURL:   raw.text(MagazineAliases["viewerUrl"]),
		CoverImage:  raw.text(MagazineAliases["coverImage"]),
		FileName:    raw.text(MagazineAliases["fileName"]),
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Title == "" {
		m.Title = DefaultMagazineTitle
	}
	if m.CoverImage == "" {
		m.CoverImage = DefaultMagazineCover
	}

	m.CreatedAt = now()
	if v, ok := raw.lookup(MagazineAliases["createdAt"]); ok {
		if t, ok := toTime(v); ok {
			m.CreatedAt = t
		}
	}
	if v, ok := raw.lookup(MagazineAliases["releaseDate"]); ok {
		if t, ok := toTime(v); ok {
			m.ReleaseDate = &t
		}
	}

	m.HasPDF = m.PDFSource != ""
	m.HasViewer = m.ViewerURL != ""
	m.IsPDFPersisted = m.HasPDF && !raw.anyFlag(MagazineAliases["isPdfPersisted"], false)

	return m
}

// CreatePost builds a post from admin form input. It assigns an id when
// none is given and then goes through NormalizePost, so locally built and
// server-returned posts share one canonical shape.
func CreatePost(payload Raw) *models.Post {
	base := withID(payload, PostAliases["id"])
	return NormalizePost(base)
}

// NormalizeMagazineInput is the magazine counterpart of CreatePost.
func NormalizeMagazineInput(payload Raw) *models.Magazine {
	base := withID(payload, MagazineAliases["id"])
	return NormalizeMagazine(base)
}

// NormalizePosts maps raws through NormalizePost and drops nil records.
func NormalizePosts(raws []Raw) []models.Post {
	posts := make([]models.Post, 0, len(raws))
	for _, r := range raws {
		if p := NormalizePost(r); p != nil {
			posts = append(posts, *p)
		}
	}
	return posts
}

// NormalizeMagazines maps raws through NormalizeMagazine and drops nil records.
func NormalizeMagazines(raws []Raw) []models.Magazine {
	mags := make([]models.Magazine, 0, len(raws))
	for _, r := range raws {
		if m := NormalizeMagazine(r); m != nil {
			mags = append(mags, *m)
		}
	}
	return mags
}

func withID(payload Raw, idKeys []string) Raw {
	var base Raw
	if payload == nil {
		base = Raw{}
	} else {
		base = payload.clone()
	}
	if base.text(idKeys) == "" {
		base["id"] = uuid.NewString()
	}
	return base
}
