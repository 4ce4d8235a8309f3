// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/metaharvest/pkg/types"
)

const dataciteBaseURL = "https://api.datacite.org"

const datacitePageSize = 1000

// DataCite lists DOIs of type dataset filtered by creator affiliation.
// Pagination is cursor-based: each page's links.next carries the cursor
// for the following page.
type DataCite struct {
	client      client
	affiliation string
	clientID    string
}

// NewDataCite returns a DataCite source for the given affiliation.
// clientID optionally restricts the listing to a single DataCite client
// (e.g. a repository like "sul.openneuro"); empty means all clients.
func NewDataCite(hc *http.Client, cfg types.HarvestConfig, baseURL, affiliation, clientID string) *DataCite {
	if baseURL == "" {
		baseURL = dataciteBaseURL
	}
	return &DataCite{
		client:      client{http: hc, baseURL: baseURL, userAgent: cfg.UserAgent},
		affiliation: affiliation,
		clientID:    clientID,
	}
}

type dataciteList struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Updated string `json:"updated"`
		} `json:"attributes"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// List pages through /dois until links.next is absent.
func (d *DataCite) List(ctx context.Context, yield func(types.ListResult) error) error {
	cursor := "1"
	for {
		params := url.Values{}
		params.Set("page[size]", fmt.Sprint(datacitePageSize))
		params.Set("page[cursor]", cursor)
		params.Set("resource-type-id", "dataset")
		params.Set("query", fmt.Sprintf("creators.affiliation.name:%q", d.affiliation))
		if d.clientID != "" {
			params.Set("client-id", d.clientID)
		}

		var page dataciteList
		if err := d.client.getJSON(ctx, "/dois", params, &page); err != nil {
			return err
		}
		for _, item := range page.Data {
			if err := yield(types.ListResult{ID: item.ID, ModifiedToken: item.Attributes.Updated}); err != nil {
				return err
			}
		}

		cursor = nextCursor(page.Links.Next, "page[cursor]")
		if cursor == "" {
			return nil
		}
	}
}

// FetchDetail retrieves the full DOI payload.
func (d *DataCite) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := d.client.getJSON(ctx, "/dois/"+id, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// nextCursor pulls the named query parameter out of a next-page link.
// Returns "" when the link is absent or unparseable.
func nextCursor(link, param string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Query().Get(param)
}
