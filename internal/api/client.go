// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api is the HTTP client for the remote content API, the server of
// record for articles, magazines, magazine articles, categories, and
// authors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"revista/internal/content"
)

// DefaultTimeout bounds a single API round trip.
const DefaultTimeout = 15 * time.Second

// Error is returned for any non-2xx response. Message carries the server's
// own explanation when it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// TokenSource returns the current bearer token, or "" when there is none.
type TokenSource func() string

// Client talks JSON to the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// New creates a client for the API at baseURL. A trailing slash on baseURL
// is ignored. token may be nil.
func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one request. payload, when non-nil, is sent as JSON; out,
// when non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api read body %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp, respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("api decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the server's explanation from a failed response:
// the "error" field of a JSON body, or the raw text body, or a generic
// "Error <status>".
func errorMessage(resp *http.Response, body []byte) string {
	text := strings.TrimSpace(string(body))
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var parsed struct {
			Error any `json:"error"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil {
			if msg, ok := parsed.Error.(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
		var str string
		if err := json.Unmarshal(body, &str); err == nil && str != "" {
			return str
		}
		return fmt.Sprintf("Error %d", resp.StatusCode)
	}
	if text != "" {
		return text
	}
	return fmt.Sprintf("Error %d", resp.StatusCode)
}

// list decodes a JSON array of objects. A response that is not an array
// yields an empty list.
func (c *Client) list(ctx context.Context, path string) ([]content.Raw, error) {
	var decoded any
	if err := c.do(ctx, http.MethodGet, path, nil, &decoded); err != nil {
		return nil, err
	}
	items, ok := decoded.([]any)
	if !ok {
		return []content.Raw{}, nil
	}
	out := make([]content.Raw, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, content.Raw(m))
		}
	}
	return out, nil
}

// record sends payload and decodes a single object response.
func (c *Client) record(ctx context.Context, method, path string, payload any) (content.Raw, error) {
	var decoded map[string]any
	if err := c.do(ctx, method, path, payload, &decoded); err != nil {
		return nil, err
	}
	if decoded == nil {
		return content.Raw{}, nil
	}
	return content.Raw(decoded), nil
}
