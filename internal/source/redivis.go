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

const redivisBaseURL = "https://redivis.com"

const redivisPageSize = 100

// Redivis lists an organization's datasets. Pagination uses an opaque
// token: each page's nextPageToken feeds the next request, empty means
// done. All calls carry a bearer token.
type Redivis struct {
	client       client
	organization string
}

// NewRedivis returns a Redivis source for the given organization slug.
func NewRedivis(hc *http.Client, cfg types.HarvestConfig, baseURL, organization, apiToken string) *Redivis {
	if baseURL == "" {
		baseURL = redivisBaseURL
	}
	return &Redivis{
		client:       client{http: hc, baseURL: baseURL, userAgent: cfg.UserAgent, authToken: apiToken},
		organization: organization,
	}
}

type redivisList struct {
	Results []struct {
		QualifiedReference string `json:"qualifiedReference"`
		UpdatedAt          int64  `json:"updatedAt"`
	} `json:"results"`
	NextPageToken string `json:"nextPageToken"`
}

func (r *Redivis) List(ctx context.Context, yield func(types.ListResult) error) error {
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("maxResults", fmt.Sprint(redivisPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp redivisList
		path := fmt.Sprintf("/api/v1/organizations/%s/datasets", r.organization)
		if err := r.client.getJSON(ctx, path, params, &resp); err != nil {
			return err
		}
		for _, item := range resp.Results {
			res := types.ListResult{
				ID:            item.QualifiedReference,
				ModifiedToken: fmt.Sprint(item.UpdatedAt),
			}
			if err := yield(res); err != nil {
				return err
			}
		}
		if resp.NextPageToken == "" {
			return nil
		}
		pageToken = resp.NextPageToken
	}
}

// FetchDetail retrieves a dataset by qualified reference.
func (r *Redivis) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := r.client.getJSON(ctx, "/api/v1/datasets/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
