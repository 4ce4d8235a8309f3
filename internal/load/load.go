// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package load runs the transform-and-load phase: merge each canonical
// identity's records, build its document, push the batch to the search
// engine, and reconcile away documents from earlier generations.
package load

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/pdiddy/metaharvest/internal/index"
	"github.com/pdiddy/metaharvest/internal/merge"
	"github.com/pdiddy/metaharvest/internal/selector"
)

// Indexer is the slice of the search engine the loader writes to.
type Indexer interface {
	Add(ctx context.Context, doc any) error
	Commit(ctx context.Context) error
	DeleteByQuery(ctx context.Context, query string) error
}

// ReconciliationError is a search engine write, commit, or delete failure.
// It is fatal to the run; the previously committed generation stays
// untouched.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// Options control one load run.
type Options struct {
	// LoadID tags every document of this run. Empty means a fresh UUID.
	LoadID string
	// FailFast aborts the run on the first non-ignored mapping error.
	// When false, failing identities are reported and skipped.
	FailFast bool
	// DryRun transforms without writing to the search engine.
	DryRun bool
}

// Stats summarizes a load run.
type Stats struct {
	LoadID  string
	Indexed int
	Skipped int
	Failed  int
	Drift   int
}

// Loader wires the pipeline stages together.
type Loader struct {
	selector *selector.Selector
	policy   merge.Policy
	builder  index.Builder
	indexer  Indexer
	out      io.Writer
}

// New returns a Loader writing progress to out.
func New(sel *selector.Selector, policy merge.Policy, builder index.Builder, indexer Indexer, out io.Writer) *Loader {
	return &Loader{selector: sel, policy: policy, builder: builder, indexer: indexer, out: out}
}

// Run transforms the current record sets and loads the result.
//
// Documents are added under one load id, then made visible by a single
// commit, then every document not tagged with that load id is deleted.
// Datasets present in an earlier generation but absent from this one
// disappear without the index ever being offline or partially visible. A
// run that fails before the commit leaves the previous generation intact.
func (l *Loader) Run(ctx context.Context, opts Options) (Stats, error) {
	stats := Stats{LoadID: opts.LoadID}
	if stats.LoadID == "" {
		stats.LoadID = uuid.NewString()
	}

	sets, err := l.selector.CurrentSets(ctx)
	if err != nil {
		return stats, fmt.Errorf("selecting record sets: %w", err)
	}
	groups, err := l.selector.GroupByCanonicalIdentity(ctx, sets)
	if err != nil {
		return stats, fmt.Errorf("grouping records: %w", err)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		result, err := l.policy.Merge(groups[id])
		if err != nil {
			if opts.FailFast {
				return stats, fmt.Errorf("dataset %s: %w", id, err)
			}
			stats.Failed++
			fmt.Fprintf(l.out, "error: dataset %s: %v\n", id, err)
			continue
		}
		if result == nil {
			stats.Skipped++
			continue
		}
		for _, rec := range result.Drift {
			stats.Drift++
			fmt.Fprintf(l.out, "warning: dataset %s (%s) is ignored but mapping succeeded\n",
				rec.DatasetID, rec.Provider)
		}

		doc := l.builder.BuildDocument(result.Metadata, index.Input{
			ID:          id,
			DOI:         result.BaseRecord.DOI,
			LoadID:      stats.LoadID,
			ProviderIDs: result.ProviderIDs,
		})
		if !opts.DryRun {
			if err := l.indexer.Add(ctx, doc); err != nil {
				return stats, &ReconciliationError{Op: "adding document " + id, Err: err}
			}
		}
		stats.Indexed++
	}

	if opts.DryRun {
		fmt.Fprintf(l.out, "dry run: %d documents built, %d skipped\n", stats.Indexed, stats.Skipped)
		return stats, nil
	}

	if err := l.indexer.Commit(ctx); err != nil {
		return stats, &ReconciliationError{Op: "committing load " + stats.LoadID, Err: err}
	}
	// Everything not written by this run belongs to an older generation.
	query := fmt.Sprintf("-load_id_ssi:%q", stats.LoadID)
	if err := l.indexer.DeleteByQuery(ctx, query); err != nil {
		return stats, &ReconciliationError{Op: "reconciling load " + stats.LoadID, Err: err}
	}

	fmt.Fprintf(l.out, "loaded %d documents (load %s), %d skipped, %d failed\n",
		stats.Indexed, stats.LoadID, stats.Skipped, stats.Failed)
	return stats, nil
}
