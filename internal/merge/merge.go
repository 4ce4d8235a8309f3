// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines the per-provider records of one canonical dataset
// identity into a single metadata document.
package merge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/metaharvest/internal/normalize"
	"github.com/pdiddy/metaharvest/pkg/types"
)

// mergeableFields maps a mergeable field name to its fill function. A fill
// copies the field from a lower-priority document only when the base has no
// value, so the most authoritative provider always wins.
var mergeableFields = map[string]func(dst, src *types.Metadata){
	"variables": func(dst, src *types.Metadata) {
		if len(dst.Variables) == 0 {
			dst.Variables = src.Variables
		}
	},
	"subjects": func(dst, src *types.Metadata) {
		if len(dst.Subjects) == 0 {
			dst.Subjects = src.Subjects
		}
	},
}

// Policy controls how records for one identity are combined.
type Policy struct {
	// Preference orders providers from most to least authoritative. The
	// highest-ranked record that normalizes successfully becomes the base
	// document. Providers not listed sort last.
	Preference []types.Provider
	// MergeFields names the fields filled into the base from
	// lower-priority providers when the base leaves them empty.
	MergeFields []string
	// Ignore lists dataset ids per provider whose mapping failures are
	// expected and suppressed.
	Ignore map[types.Provider][]string
}

// Result is the merged outcome for one canonical identity.
type Result struct {
	Metadata *types.Metadata
	// BaseRecord is the record the base document came from.
	BaseRecord types.DatasetRecord
	// ProviderIDs maps each contributing provider to its native dataset
	// id, for traceability in the index.
	ProviderIDs map[types.Provider]string
	// Drift lists ignore-listed records that mapped successfully. A drift
	// entry means the ignore entry is stale, not that anything failed.
	Drift []types.DatasetRecord
}

// Merge normalizes the given records in preference order and combines them.
// A mapping failure for a non-ignored record aborts the merge with a
// *normalize.MappingError in the chain. When every record is ignored or
// the input is empty, Merge returns (nil, nil) and the identity produces no
// document.
func (p Policy) Merge(records []types.DatasetRecord) (*Result, error) {
	ordered := make([]types.DatasetRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return p.rank(ordered[i].Provider) < p.rank(ordered[j].Provider)
	})

	result := &Result{ProviderIDs: make(map[types.Provider]string, len(ordered))}
	var docs []*types.Metadata
	for _, rec := range ordered {
		result.ProviderIDs[rec.Provider] = rec.DatasetID

		meta, err := normalize.Normalize(rec.Provider, rec.Source)
		if err != nil {
			var merr *normalize.MappingError
			if errors.As(err, &merr) && p.ignored(rec) {
				continue
			}
			return nil, fmt.Errorf("record %d (%s %s): %w", rec.ID, rec.Provider, rec.DatasetID, err)
		}
		if p.ignored(rec) {
			result.Drift = append(result.Drift, rec)
		}
		if len(docs) == 0 {
			result.Metadata = meta
			result.BaseRecord = rec
		}
		docs = append(docs, meta)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	for _, doc := range docs[1:] {
		for _, field := range p.MergeFields {
			fill, ok := mergeableFields[field]
			if !ok {
				continue
			}
			fill(result.Metadata, doc)
		}
	}
	return result, nil
}

func (p Policy) rank(provider types.Provider) int {
	for i, candidate := range p.Preference {
		if candidate == provider {
			return i
		}
	}
	return len(p.Preference)
}

func (p Policy) ignored(rec types.DatasetRecord) bool {
	for _, id := range p.Ignore[rec.Provider] {
		if id == rec.DatasetID {
			return true
		}
	}
	return false
}
