// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks the authoritative record sets and clusters their
// records by cross-provider dataset identity.
package selector

import (
	"context"

	"github.com/pdiddy/metaharvest/internal/store"
	"github.com/pdiddy/metaharvest/pkg/types"
)

// Selector answers "what does each provider configuration currently
// believe the world looks like" over the record store.
type Selector struct {
	store *store.Store
}

// New returns a Selector over st.
func New(st *store.Store) *Selector {
	return &Selector{store: st}
}

// LatestCompleted returns the newest complete record set for one harvest
// configuration, or nil when none has completed yet.
func (s *Selector) LatestCompleted(ctx context.Context, extractor, listArgs string) (*types.RecordSet, error) {
	return s.store.LatestCompleted(ctx, extractor, listArgs)
}

// CurrentSets returns the latest completed record set for every harvest
// configuration ever observed. Configurations that have never completed
// are skipped. Historical configurations each stay current independently,
// so two affiliations queried against the same provider both contribute.
func (s *Selector) CurrentSets(ctx context.Context) ([]types.RecordSet, error) {
	configs, err := s.store.Configurations(ctx)
	if err != nil {
		return nil, err
	}
	var sets []types.RecordSet
	for _, cfg := range configs {
		set, err := s.store.LatestCompleted(ctx, cfg.Extractor, cfg.ListArgs)
		if err != nil {
			return nil, err
		}
		if set != nil {
			sets = append(sets, *set)
		}
	}
	return sets, nil
}

// GroupByCanonicalIdentity flattens the records referenced by sets and
// buckets them by canonical identity: DOI when present, otherwise
// "{provider}-{dataset_id}". A bucket holding records from more than one
// provider is what triggers cross-provider merging downstream.
func (s *Selector) GroupByCanonicalIdentity(ctx context.Context, sets []types.RecordSet) (map[string][]types.DatasetRecord, error) {
	setIDs := make([]int64, 0, len(sets))
	for _, set := range sets {
		setIDs = append(setIDs, set.ID)
	}
	records, err := s.store.RecordsForSets(ctx, setIDs)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]types.DatasetRecord)
	for _, rec := range records {
		key := rec.ExternalDatasetID()
		groups[key] = append(groups[key], rec)
	}
	return groups, nil
}
