// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Magazine is a digital edition, backed by a direct PDF, an external viewer
// link, or both.
type Magazine struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PDFSource      string     `json:"pdfSource"`
	ViewerURL      string     `json:"viewerUrl"`
	CoverImage     string     `json:"coverImage"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReleaseDate    *time.Time `json:"releaseDate"`
	FileName       string     `json:"fileName"`
	HasPDF         bool       `json:"hasPdf"`
	HasViewer      bool       `json:"hasViewer"`
	IsPDFPersisted bool       `json:"isPdfPersisted"`
}

// Readable reports whether the edition can be opened at all.
func (m *Magazine) Readable() bool {
	return m.HasPDF || m.HasViewer
}

// EditionDate is the date editions are ordered by on the magazine page:
// the release date when known, otherwise the creation time.
func (m *Magazine) EditionDate() time.Time {
	if m.ReleaseDate != nil {
		return *m.ReleaseDate
	}
	return m.CreatedAt
}

// MagazineArticle is an individually downloadable article inside an edition.
type MagazineArticle struct {
	ID         string `json:"id"`
	MagazineID string `json:"magazineId,omitempty"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	PDFURL     string `json:"pdfUrl"`
	PageNumber *int   `json:"pageNumber"`
}
