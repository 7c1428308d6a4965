// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "strings"

// Raw is an undecoded record as it arrives from the API, the admin forms,
// or the bundled fallback dataset.
type Raw map[string]any

// PostAliases maps every canonical post field to the raw keys accepted for
// it, in precedence order. The first key holding a non-empty value wins.
//
// Server-origin fields (dates, counters, flags, stored URLs) check the
// snake_case form first.
var PostAliases = map[string][]string{
	"id":          {"id"},
	"slug":        {"slug"},
	"title":       {"title"},
	"category":    {"category"},
	"subcategory": {"subcategory"},
	"author":      {"author"},
	"excerpt":     {"excerpt"},
	"content":     {"content"},
	"image":       {"image_url", "imageUrl", "image"},
	"publishedAt": {"published_at", "publishedAt"},
	"type":        {"type"},
	"isActivity":  {"is_activity", "isActivity", "has_activity", "hasActivity"},
	"scheduledAt": {"scheduled_at", "scheduledAt"},
	"price":       {"price"},
	"location":    {"location"},
	"viewCount":   {"view_count", "viewCount"},
}

// MagazineAliases is the magazine counterpart of PostAliases. Fields that
// only ever originate in this service (pdfSource, viewerUrl, coverImage,
// fileName) check the camelCase form first; server-origin dates and flags
// check snake_case first.
var MagazineAliases = map[string][]string{
	"id":             {"id"},
	"title":          {"title"},
	"description":    {"description"},
	"pdfSource":      {"pdfSource", "pdf_source", "pdf_url", "pdfUrl"},
	"viewerUrl":      {"viewerUrl", "viewer_url"},
	"coverImage":     {"coverImage", "cover_image", "cover_url", "coverUrl"},
	"createdAt":      {"created_at", "createdAt"},
	"releaseDate":    {"release_date", "releaseDate"},
	"fileName":       {"fileName", "file_name"},
	"isPdfPersisted": {"is_pdf_persisted", "isPdfPersisted"},
}

// lookup returns the first non-empty value among keys. Blank strings and
// nil count as empty; zero numbers and false do not.
func (r Raw) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// text returns the first non-empty value among keys as a trimmed string.
func (r Raw) text(keys []string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

// anyFlag reports whether any of keys holds a value coercing to want.
func (r Raw) anyFlag(keys []string, want bool) bool {
	for _, k := range keys {
		if b, ok := toBool(r[k]); ok && b == want {
			return true
		}
	}
	return false
}

func (r Raw) clone() Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
