// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// SDR lists repository objects released to the discovery target and
// fetches their structured descriptions from the repository API. The
// release list is a single unpaginated response; the modified token is the
// object's last-updated timestamp.
type SDR struct {
	releases client
	objects  client
	target   string
}

// NewSDR returns an SDR source. releaseURL serves the released-items list,
// objectURL the per-object metadata (with bearer auth), and target names
// the release channel to read.
func NewSDR(hc *http.Client, cfg types.HarvestConfig, releaseURL, objectURL, target, apiToken string) *SDR {
	return &SDR{
		releases: client{http: hc, baseURL: releaseURL, userAgent: cfg.UserAgent},
		objects:  client{http: hc, baseURL: objectURL, userAgent: cfg.UserAgent, authToken: apiToken},
		target:   target,
	}
}

type sdrRelease struct {
	Druid     string `json:"druid"`
	UpdatedAt string `json:"updated_at"`
}

func (s *SDR) List(ctx context.Context, yield func(types.ListResult) error) error {
	var releases []sdrRelease
	if err := s.releases.getJSON(ctx, "/released/"+s.target, nil, &releases); err != nil {
		return err
	}
	for _, item := range releases {
		res := types.ListResult{ID: item.Druid, ModifiedToken: item.UpdatedAt}
		if err := yield(res); err != nil {
			return err
		}
	}
	return nil
}

// FetchDetail retrieves the object description by druid.
func (s *SDR) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.objects.getJSON(ctx, "/v1/objects/druid:"+id, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
