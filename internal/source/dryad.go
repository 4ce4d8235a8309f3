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

const dryadBaseURL = "https://datadryad.org"

const dryadPageSize = 100

// Dryad lists datasets by affiliation ROR. Pagination is page-numbered;
// the presence of a _links.next href signals another page.
type Dryad struct {
	client      client
	affiliation string
}

// NewDryad returns a Dryad source. affiliation is a ROR URL
// (e.g. "https://ror.org/00f54p054").
func NewDryad(hc *http.Client, cfg types.HarvestConfig, baseURL, affiliation string) *Dryad {
	if baseURL == "" {
		baseURL = dryadBaseURL
	}
	return &Dryad{
		client:      client{http: hc, baseURL: baseURL, userAgent: cfg.UserAgent},
		affiliation: affiliation,
	}
}

type dryadList struct {
	Embedded struct {
		Datasets []struct {
			Identifier    string `json:"identifier"`
			VersionNumber int    `json:"versionNumber"`
		} `json:"stash:datasets"`
	} `json:"_embedded"`
	Links struct {
		Next struct {
			Href string `json:"href"`
		} `json:"next"`
	} `json:"_links"`
}

func (d *Dryad) List(ctx context.Context, yield func(types.ListResult) error) error {
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("affiliation", d.affiliation)
		params.Set("per_page", fmt.Sprint(dryadPageSize))
		params.Set("page", fmt.Sprint(page))

		var resp dryadList
		if err := d.client.getJSON(ctx, "/api/v2/search", params, &resp); err != nil {
			return err
		}
		for _, item := range resp.Embedded.Datasets {
			res := types.ListResult{
				ID:            item.Identifier,
				ModifiedToken: fmt.Sprint(item.VersionNumber),
			}
			if err := yield(res); err != nil {
				return err
			}
		}
		if resp.Links.Next.Href == "" {
			return nil
		}
	}
}

// FetchDetail retrieves a dataset by its DOI-form identifier.
func (d *Dryad) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := d.client.getJSON(ctx, "/api/v2/datasets/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
