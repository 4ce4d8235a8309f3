// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pdiddy/metaharvest/internal/store"
	"github.com/pdiddy/metaharvest/pkg/types"
)

func setup(t *testing.T) (*store.Store, *Selector) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, New(st)
}

func addRecord(t *testing.T, st *store.Store, setID int64, provider types.Provider, datasetID, doi string) types.DatasetRecord {
	t.Helper()
	ctx := context.Background()
	rec := &types.DatasetRecord{
		Provider:  provider,
		DatasetID: datasetID,
		DOI:       doi,
		Source:    json.RawMessage(`{}`),
	}
	if err := st.CreateRecord(ctx, rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if err := st.AddMember(ctx, setID, rec.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	return *rec
}

func completedSet(t *testing.T, st *store.Store, provider types.Provider, extractor, listArgs string) *types.RecordSet {
	t.Helper()
	ctx := context.Background()
	set, err := st.CreateRecordSet(ctx, provider, extractor, listArgs)
	if err != nil {
		t.Fatalf("CreateRecordSet: %v", err)
	}
	if err := st.MarkComplete(ctx, set.ID); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	set.Complete = true
	return set
}

func TestCurrentSets_OnePerConfiguration(t *testing.T) {
	st, sel := setup(t)
	ctx := context.Background()

	// Two configurations of the same extractor, plus a newer run of the first.
	completedSet(t, st, types.ProviderDataCite, "datacite", `{"affiliation":"Stanford University"}`)
	completedSet(t, st, types.ProviderDataCite, "datacite", `{"affiliation":"Carnegie Institution"}`)
	time.Sleep(2 * time.Millisecond)
	newest := completedSet(t, st, types.ProviderDataCite, "datacite", `{"affiliation":"Stanford University"}`)

	// An incomplete newer run must not be selected.
	if _, err := st.CreateRecordSet(ctx, types.ProviderDataCite, "datacite", `{"affiliation":"Stanford University"}`); err != nil {
		t.Fatal(err)
	}

	sets, err := sel.CurrentSets(ctx)
	if err != nil {
		t.Fatalf("CurrentSets: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("CurrentSets returned %d sets, want 2 (one per configuration)", len(sets))
	}
	found := false
	for _, set := range sets {
		if set.ListArgs == `{"affiliation":"Stanford University"}` {
			found = true
			if set.ID != newest.ID {
				t.Errorf("selected set %d, want newest completed %d", set.ID, newest.ID)
			}
		}
	}
	if !found {
		t.Error("Stanford configuration missing from CurrentSets")
	}
}

func TestGroupByCanonicalIdentity(t *testing.T) {
	st, sel := setup(t)
	ctx := context.Background()

	dcSet := completedSet(t, st, types.ProviderDataCite, "datacite", `{}`)
	rdSet := completedSet(t, st, types.ProviderRedivis, "redivis", `{}`)

	// Same DOI from two providers clusters together.
	addRecord(t, st, dcSet.ID, types.ProviderDataCite, "10.1/abc", "10.1/abc")
	addRecord(t, st, rdSet.ID, types.ProviderRedivis, "xyz", "10.1/abc")
	// No DOI falls back to provider-local identity.
	addRecord(t, st, rdSet.ID, types.ProviderRedivis, "solo", "")

	groups, err := sel.GroupByCanonicalIdentity(ctx, []types.RecordSet{*dcSet, *rdSet})
	if err != nil {
		t.Fatalf("GroupByCanonicalIdentity: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("groups = %v, want 2 buckets", keys(groups))
	}
	if len(groups["10.1/abc"]) != 2 {
		t.Errorf("DOI bucket has %d records, want 2", len(groups["10.1/abc"]))
	}
	if len(groups["redivis-solo"]) != 1 {
		t.Errorf("provider-local bucket missing: %v", keys(groups))
	}
}

func keys(m map[string][]types.DatasetRecord) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
