package handlers

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"revista/internal/content"
	"revista/internal/models"
)

// Validation limits for content fields.
const (
	maxTitleLen   = 300
	maxExcerptLen = 1_000
	maxBodyLen    = 100_000
	maxNameLen    = 200
)

// text reads the first non-blank string under keys.
func text(raw content.Raw, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// isHTTPURL reports whether s is an absolute http(s) URL.
func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validatePost checks a post form and returns the first error found.
// prepared is the input already run through the normalizer.
func validatePost(raw content.Raw, prepared *models.Post) string {
	title := text(raw, "title")
	if title == "" {
		return "El título es requerido."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "El título es demasiado largo (máximo 300 caracteres)."
	}
	if utf8.RuneCountInString(prepared.Excerpt) > maxExcerptLen {
		return "El extracto es demasiado largo (máximo 1,000 caracteres)."
	}
	if utf8.RuneCountInString(prepared.Content) > maxBodyLen {
		return "El contenido es demasiado largo (máximo 100,000 caracteres)."
	}
	if prepared.IsActivity && (prepared.ScheduledAt == nil || prepared.Location == "") {
		return "Los campos de actividad (fecha y lugar) son requeridos."
	}
	if img := prepared.Image; img != "" && !isHTTPURL(img) && !strings.HasPrefix(img, "data:image/") {
		return "La URL de la imagen debe ser válida (https://...)"
	}
	return ""
}

// validateMagazine checks a magazine form and returns the first error
// found. On success it fills fileName from the PDF URL when missing.
func validateMagazine(raw content.Raw) string {
	if text(raw, "title") == "" {
		return "Define un título para la revista."
	}
	pdfURL := text(raw, "pdfUrl", "pdfSource", "pdf_url")
	viewerURL := text(raw, "viewerUrl", "viewer_url")
	if pdfURL == "" && viewerURL == "" {
		return "Agrega un PDF con enlace público o pega el enlace del visor externo (Issuu, Calameo, etc.)."
	}
	if pdfURL != "" && !isHTTPURL(pdfURL) {
		return "La URL del PDF debe ser válida (https://...)"
	}
	if viewerURL != "" && !isHTTPURL(viewerURL) {
		return "La URL del visor debe ser válida (https://...)"
	}
	if cover := text(raw, "coverUrl", "coverImage", "cover_url"); cover != "" && !isHTTPURL(cover) {
		return "La URL de la portada debe ser válida (https://...)"
	}
	if text(raw, "fileName", "file_name") == "" && pdfURL != "" {
		raw["fileName"] = fileNameOf(pdfURL)
	}
	return ""
}

// fileNameOf returns the last path segment of a URL.
func fileNameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	return path.Base(u.Path)
}

// validateMagazineArticle checks one article of a magazine.
func validateMagazineArticle(a *models.MagazineArticle) string {
	if strings.TrimSpace(a.Title) == "" {
		return "El título del artículo es requerido"
	}
	if !isHTTPURL(a.PDFURL) {
		return "La URL del PDF del artículo debe ser válida (https://...)"
	}
	return ""
}

// validateName checks a required, bounded name field.
func validateName(name, emptyMsg string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return emptyMsg
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "El nombre es demasiado largo (máximo 200 caracteres)."
	}
	return ""
}
