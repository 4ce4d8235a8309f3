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

const zenodoBaseURL = "https://zenodo.org"

const zenodoPageSize = 250

// Zenodo lists dataset records by creator affiliation. Pagination is
// page-numbered with a links.next signal; the modified token is the
// record's revision number.
type Zenodo struct {
	client      client
	affiliation string
}

// NewZenodo returns a Zenodo source for the given affiliation name.
func NewZenodo(hc *http.Client, cfg types.HarvestConfig, baseURL, affiliation, apiToken string) *Zenodo {
	if baseURL == "" {
		baseURL = zenodoBaseURL
	}
	return &Zenodo{
		client:      client{http: hc, baseURL: baseURL, userAgent: cfg.UserAgent, authToken: apiToken},
		affiliation: affiliation,
	}
}

type zenodoList struct {
	Hits struct {
		Hits []struct {
			ID       json.Number `json:"id"`
			Revision int         `json:"revision"`
		} `json:"hits"`
	} `json:"hits"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

func (z *Zenodo) List(ctx context.Context, yield func(types.ListResult) error) error {
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("size", fmt.Sprint(zenodoPageSize))
		params.Set("page", fmt.Sprint(page))
		params.Set("q", fmt.Sprintf("creators.affiliation:%q", z.affiliation))
		params.Set("type", "dataset")

		var resp zenodoList
		if err := z.client.getJSON(ctx, "/api/records", params, &resp); err != nil {
			return err
		}
		for _, item := range resp.Hits.Hits {
			res := types.ListResult{
				ID:            item.ID.String(),
				ModifiedToken: fmt.Sprint(item.Revision),
			}
			if err := yield(res); err != nil {
				return err
			}
		}
		if resp.Links.Next == "" {
			return nil
		}
	}
}

// FetchDetail retrieves a record by its Zenodo id.
func (z *Zenodo) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := z.client.getJSON(ctx, "/api/records/"+id, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
