// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview checks whether a magazine's PDF or viewer can be loaded
// before the reader is sent to it.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"revista/internal/models"
)

// LoadTimeout bounds how long a preview may take to answer.
const LoadTimeout = 10 * time.Second

// Messages shown to the reader.
const (
	NoPDFMessage   = "Esta edición no tiene un PDF disponible en este dispositivo. Carga un enlace público desde el panel editorial."
	GenericMessage = "No pudimos cargar la vista previa de la revista. Intenta abrirla en una pestaña nueva o vuelve a intentarlo más tarde."
)

// Status is the outcome of a probe.
type Status string

const (
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Source kinds.
const (
	KindPDF    = "pdf"
	KindViewer = "viewer"
)

// Result describes what the reader will get.
type Result struct {
	Status  Status `json:"status"`
	Kind    string `json:"kind,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Prober issues the probe requests.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// NewProber creates a prober with the standard load timeout.
func NewProber() *Prober {
	return &Prober{client: &http.Client{}, timeout: LoadTimeout}
}

// Source picks the URL a magazine is read from: the PDF first, then the
// viewer. ok is false when the magazine has neither.
func Source(m *models.Magazine) (url, kind string, ok bool) {
	switch {
	case m == nil:
		return "", "", false
	case m.PDFSource != "":
		return m.PDFSource, KindPDF, true
	case m.ViewerURL != "":
		return m.ViewerURL, KindViewer, true
	}
	return "", "", false
}

// Check probes the magazine's source. Timeouts and bad answers produce a
// StatusFailed result, not an error; only cancellation of ctx by the
// caller is returned as an error.
func (p *Prober) Check(ctx context.Context, m *models.Magazine) (*Result, error) {
	url, kind, ok := Source(m)
	if !ok {
		return &Result{Status: StatusUnavailable, Message: NoPDFMessage}, nil
	}

	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.probe(pctx, url)
	if err == nil {
		return &Result{Status: StatusReady, Kind: kind, URL: url}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return &Result{Status: StatusFailed, Kind: kind, URL: url, Message: GenericMessage}, nil
}

var errBadStatus = errors.New("preview: unexpected status")

// probe asks for the resource head first and falls back to a one-byte
// ranged GET for servers that reject HEAD.
func (p *Prober) probe(ctx context.Context, url string) error {
	status, err := p.request(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = p.request(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %d", errBadStatus, status)
	}
	return nil
}

func (p *Prober) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("preview request: %w", err)
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("preview %s: %w", method, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return resp.StatusCode, nil
}
