// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest drives a provider source to completion and persists the
// result as an immutable record set.
package harvest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/metaharvest/internal/source"
	"github.com/pdiddy/metaharvest/internal/store"
	"github.com/pdiddy/metaharvest/pkg/types"
)

// Request describes one harvest invocation.
type Request struct {
	Source   source.Source
	Profile  Profile
	Provider types.Provider

	// Extractor and ListArgs together identify the harvest configuration.
	// The selector keys "latest completed set" lookups on this pair, so
	// ListArgs must serialize the same way for the same configuration
	// across runs.
	Extractor string
	ListArgs  string

	// ExtraIDs are pinned dataset ids resolved ahead of the listing and
	// deduplicated against it by id.
	ExtraIDs []string
}

// Result summarizes a completed harvest.
type Result struct {
	Set     *types.RecordSet
	Reused  int
	Created int
}

// Harvester resolves provider listings into stored dataset records.
type Harvester struct {
	store *store.Store
	delay time.Duration
	out   io.Writer
}

// New returns a Harvester. delay is the pause before each detail fetch;
// it is applied only when a fetch actually happens, so rerunning an
// unchanged harvest is fast.
func New(st *store.Store, delay time.Duration, out io.Writer) *Harvester {
	return &Harvester{store: st, delay: delay, out: out}
}

// Harvest drains the source listing, resolves every entry to a stored
// record, and marks the record set complete. Any listing or fetch error
// aborts the harvest; the partial set stays in the store but is never
// marked complete, so it can never be selected as authoritative.
func (h *Harvester) Harvest(ctx context.Context, req Request) (Result, error) {
	set, err := h.store.CreateRecordSet(ctx, req.Provider, req.Extractor, req.ListArgs)
	if err != nil {
		return Result{}, err
	}
	result := Result{Set: set}

	seen := make(map[string]bool)
	resolve := func(res types.ListResult) error {
		if seen[res.ID] {
			return nil
		}
		seen[res.ID] = true
		rec, reused, err := h.resolveRecord(ctx, req, res)
		if err != nil {
			return err
		}
		if reused {
			result.Reused++
		} else {
			result.Created++
		}
		return h.store.AddMember(ctx, set.ID, rec.ID)
	}

	// Pinned ids go first so they win the id-level dedup against the
	// listing. Their payload is fetched up front because the modified
	// token can only be derived from it.
	for _, id := range req.ExtraIDs {
		res, err := h.pinnedResult(ctx, req, id)
		if err != nil {
			return result, err
		}
		if err := resolve(res); err != nil {
			return result, err
		}
	}

	if err := req.Source.List(ctx, resolve); err != nil {
		return result, err
	}

	if err := h.store.MarkComplete(ctx, set.ID); err != nil {
		return result, err
	}
	set.Complete = true

	fmt.Fprintf(h.out, "%s: %d datasets (%d new, %d unchanged)\n",
		req.Provider, result.Reused+result.Created, result.Created, result.Reused)
	return result, nil
}

// resolveRecord reuses the stored record matching the listing entry's
// (provider, id, modified token), or fetches the payload and stores a new
// one. reused reports which path was taken.
func (h *Harvester) resolveRecord(ctx context.Context, req Request, res types.ListResult) (rec *types.DatasetRecord, reused bool, err error) {
	rec, err = h.store.FindRecord(ctx, req.Provider, res.ID, res.ModifiedToken)
	if err != nil {
		return nil, false, err
	}
	if rec != nil {
		return rec, true, nil
	}

	raw := res.Source
	if raw == nil {
		if err := h.throttle(ctx); err != nil {
			return nil, false, err
		}
		raw, err = req.Source.FetchDetail(ctx, res.ID)
		if err != nil {
			return nil, false, err
		}
	}

	rec = &types.DatasetRecord{
		Provider:      req.Provider,
		DatasetID:     res.ID,
		ModifiedToken: res.ModifiedToken,
		DOI:           req.Profile.DOI(raw),
		Source:        raw,
	}
	if err := h.store.CreateRecord(ctx, rec); err != nil {
		return nil, false, err
	}
	return rec, false, nil
}

// pinnedResult fetches a pinned dataset's payload and synthesizes the
// listing entry the provider would have returned for it.
func (h *Harvester) pinnedResult(ctx context.Context, req Request, id string) (types.ListResult, error) {
	if err := h.throttle(ctx); err != nil {
		return types.ListResult{}, err
	}
	raw, err := req.Source.FetchDetail(ctx, id)
	if err != nil {
		return types.ListResult{}, fmt.Errorf("fetching pinned dataset %s: %w", id, err)
	}
	return types.ListResult{
		ID:            id,
		ModifiedToken: req.Profile.ModifiedToken(raw),
		Source:        raw,
	}, nil
}

// throttle sleeps the configured inter-fetch delay, honoring cancellation.
func (h *Harvester) throttle(ctx context.Context) error {
	if h.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(h.delay):
		return nil
	}
}
