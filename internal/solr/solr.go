// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package solr is a minimal client for the Solr JSON update API, covering
// the three operations the loader needs: add, commit, delete-by-query.
package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each update call. Commits on a large index can be
// slow, so this is deliberately generous.
const DefaultTimeout = 120 * time.Second

// Client talks to one Solr core or collection.
type Client struct {
	http    *http.Client
	baseURL string
}

// New returns a client for the core at baseURL
// (e.g. "http://solr:8983/solr/datasets"). A zero timeout falls back to
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Add stages a document. Staged documents are not visible to searches
// until Commit.
func (c *Client) Add(ctx context.Context, doc any) error {
	return c.update(ctx, map[string]any{"add": map[string]any{"doc": doc}})
}

// Commit makes all staged updates visible atomically.
func (c *Client) Commit(ctx context.Context) error {
	return c.update(ctx, map[string]any{"commit": map[string]any{}})
}

// DeleteByQuery stages deletion of every document matching the query.
func (c *Client) DeleteByQuery(ctx context.Context, query string) error {
	return c.update(ctx, map[string]any{"delete": map[string]any{"query": query}})
}

func (c *Client) update(ctx context.Context, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/update", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("update failed: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
