// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "revista/internal/models"

// PostRaw re-emits a canonical post under its canonical field names.
// Normalizing the result yields the same post.
func PostRaw(p *models.Post) Raw {
	return Raw{
		"id":          p.ID,
		"slug":        p.Slug,
		"title":       p.Title,
		"category":    p.Category,
		"subcategory": p.Subcategory,
		"author":      p.Author,
		"excerpt":     p.Excerpt,
		"content":     p.Content,
		"image":       p.Image,
		"publishedAt": formatTime(p.PublishedAt),
		"type":        string(p.Type),
		"isActivity":  p.IsActivity,
		"scheduledAt": formatOptionalTime(p.ScheduledAt),
		"price":       p.Price,
		"location":    p.Location,
		"viewCount":   p.ViewCount,
	}
}

// MagazineRaw re-emits a canonical magazine under its canonical field names.
func MagazineRaw(m *models.Magazine) Raw {
	return Raw{
		"id":             m.ID,
		"title":          m.Title,
		"description":    m.Description,
		"pdfSource":      m.PDFSource,
		"viewerUrl":      m.ViewerURL,
		"coverImage":     m.CoverImage,
		"createdAt":      formatTime(m.CreatedAt),
		"releaseDate":    formatOptionalTime(m.ReleaseDate),
		"fileName":       m.FileName,
		"hasPdf":         m.HasPDF,
		"hasViewer":      m.HasViewer,
		"isPdfPersisted": m.IsPDFPersisted,
	}
}

// ArticlePayload is the request body the API expects when an article is
// created or updated.
func ArticlePayload(p *models.Post) Raw {
	return Raw{
		"title":       p.Title,
		"category":    p.Category,
		"subcategory": p.Subcategory,
		"author":      p.Author,
		"excerpt":     p.Excerpt,
		"content":     p.Content,
		"imageUrl":    p.Image,
		"publishedAt": formatTime(p.PublishedAt),
		"type":        string(p.Type),
		"isActivity":  p.IsActivity,
		"scheduledAt": formatOptionalTime(p.ScheduledAt),
		"location":    p.Location,
		"price":       p.Price,
	}
}

// MagazinePayload is the request body the API expects when a magazine is
// created or updated.
func MagazinePayload(m *models.Magazine) Raw {
	return Raw{
		"title":       m.Title,
		"description": m.Description,
		"pdfUrl":      m.PDFSource,
		"viewerUrl":   m.ViewerURL,
		"coverUrl":    m.CoverImage,
		"releaseDate": formatOptionalTime(m.ReleaseDate),
		"fileName":    m.FileName,
	}
}
