// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source implements the provider listing and detail-fetch clients
// the harvester drives. Each provider hides its own pagination style
// (cursor, page number, opaque token) behind the Source interface.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/metaharvest/internal/httputil"
	"github.com/pdiddy/metaharvest/pkg/types"
)

// Source is the capability a harvest needs from a provider: a finite
// listing and an idempotent detail fetch. List is restartable from the top
// only; it calls yield once per listing entry, page by page, and stops on
// the first error yield returns.
type Source interface {
	List(ctx context.Context, yield func(types.ListResult) error) error
	FetchDetail(ctx context.Context, id string) (json.RawMessage, error)
}

// TransportError reports a failed provider interaction. A transport error
// is fatal to the current harvest: no record set is marked complete.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider request %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("provider request %s: HTTP %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// client wraps an http.Client with the JSON request plumbing every
// provider shares: auth header, retry on 429/502, status check, decode.
type client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	authToken string
}

// getJSON performs a GET against path (plus query parameters) and decodes
// the JSON response into out.
func (c *client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{URL: u, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{URL: u, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
