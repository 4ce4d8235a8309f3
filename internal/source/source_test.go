// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/metaharvest/pkg/types"
)

func testHarvestConfig() types.HarvestConfig {
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "metaharvest/test"},
	}
}

func collect(t *testing.T, s Source) []types.ListResult {
	t.Helper()
	var results []types.ListResult
	err := s.List(context.Background(), func(res types.ListResult) error {
		results = append(results, res)
		return nil
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return results
}

func TestDataCite_ListFollowsCursor(t *testing.T) {
	var gotCursors []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dois" {
			http.NotFound(w, r)
			return
		}
		cursor := r.URL.Query().Get("page[cursor]")
		gotCursors = append(gotCursors, cursor)
		if cursor == "1" {
			fmt.Fprintf(w, `{
				"data": [{"id": "10.1/aaa", "attributes": {"updated": "2025-01-01"}}],
				"links": {"next": "%s/dois?page[cursor]=abc123&page[size]=1000"}
			}`, r.Host)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": "10.1/bbb", "attributes": {"updated": "2025-02-02"}}], "links": {}}`)
	}))
	defer ts.Close()

	dc := NewDataCite(ts.Client(), testHarvestConfig(), ts.URL, "Stanford University", "")
	results := collect(t, dc)

	if len(results) != 2 {
		t.Fatalf("List returned %d results, want 2", len(results))
	}
	if results[0].ID != "10.1/aaa" || results[0].ModifiedToken != "2025-01-01" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].ID != "10.1/bbb" {
		t.Errorf("second result = %+v", results[1])
	}
	if len(gotCursors) != 2 || gotCursors[1] != "abc123" {
		t.Errorf("cursors = %v, want [1 abc123]", gotCursors)
	}
}

func TestDataCite_ListErrorIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	dc := NewDataCite(ts.Client(), testHarvestConfig(), ts.URL, "Stanford University", "")
	err := dc.List(context.Background(), func(types.ListResult) error { return nil })
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("List error = %v, want TransportError", err)
	}
	if te.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", te.Status)
	}
}

func TestDryad_ListPagesUntilNoNextLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{
				"_embedded": {"stash:datasets": [{"identifier": "doi:10.5061/dryad.1", "versionNumber": 3}]},
				"_links": {"next": {"href": "/api/v2/search?page=2"}}
			}`)
		default:
			fmt.Fprint(w, `{"_embedded": {"stash:datasets": [{"identifier": "doi:10.5061/dryad.2", "versionNumber": 1}]}, "_links": {}}`)
		}
	}))
	defer ts.Close()

	dr := NewDryad(ts.Client(), testHarvestConfig(), ts.URL, "https://ror.org/00f54p054")
	results := collect(t, dr)

	if len(results) != 2 {
		t.Fatalf("List returned %d results, want 2", len(results))
	}
	if results[0].ID != "doi:10.5061/dryad.1" || results[0].ModifiedToken != "3" {
		t.Errorf("first result = %+v", results[0])
	}
}

func TestRedivis_ListFollowsPageTokenAndSendsAuth(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"results": [{"qualifiedReference": "org.ds1:0001", "updatedAt": 1700000000}], "nextPageToken": "tok2"}`)
			return
		}
		fmt.Fprint(w, `{"results": [{"qualifiedReference": "org.ds2:0002", "updatedAt": 1700000001}]}`)
	}))
	defer ts.Close()

	rd := NewRedivis(ts.Client(), testHarvestConfig(), ts.URL, "stanfordphs", "sekrit")
	results := collect(t, rd)

	if len(results) != 2 {
		t.Fatalf("List returned %d results, want 2", len(results))
	}
	if gotAuth != "Bearer sekrit" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if results[1].ID != "org.ds2:0002" {
		t.Errorf("second result = %+v", results[1])
	}
}

func TestZenodo_List(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/records" {
			fmt.Fprint(w, `{"hits": {"hits": [{"id": 123, "revision": 4}]}, "links": {}}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	z := NewZenodo(ts.Client(), testHarvestConfig(), ts.URL, "Stanford University", "")
	results := collect(t, z)

	if len(results) != 1 {
		t.Fatalf("List returned %d results, want 1", len(results))
	}
	if results[0].ID != "123" || results[0].ModifiedToken != "4" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestSDR_ListAndFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/released/Datasets":
			fmt.Fprint(w, `[{"druid": "bb111cc2222", "updated_at": "2025-03-01T00:00:00Z"}]`)
		case "/v1/objects/druid:bb111cc2222":
			fmt.Fprint(w, `{"externalIdentifier": "druid:bb111cc2222"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	s := NewSDR(ts.Client(), testHarvestConfig(), ts.URL, ts.URL, "Datasets", "tok")
	results := collect(t, s)
	if len(results) != 1 || results[0].ID != "bb111cc2222" {
		t.Fatalf("List = %+v, want one druid", results)
	}

	raw, err := s.FetchDetail(context.Background(), "bb111cc2222")
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("FetchDetail payload: %v", err)
	}
	if obj["externalIdentifier"] != "druid:bb111cc2222" {
		t.Errorf("payload = %v", obj)
	}
}

func TestLocal_ListHashesAndCarriesSource(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("survey.yml", "titles:\n  - title: A Survey\nprovider: Local\n")
	writeFile("notes.txt", "not a dataset\n")

	l := &Local{Path: dir}
	results := collect(t, l)

	if len(results) != 1 {
		t.Fatalf("List returned %d results, want 1", len(results))
	}
	if results[0].ID != "survey" {
		t.Errorf("id = %q, want survey", results[0].ID)
	}
	if results[0].ModifiedToken == "" {
		t.Error("modified token not set")
	}
	if results[0].Source == nil {
		t.Fatal("source payload not carried")
	}

	// Editing the file changes the token.
	writeFile("survey.yml", "titles:\n  - title: A Survey, Revised\nprovider: Local\n")
	again := collect(t, l)
	if again[0].ModifiedToken == results[0].ModifiedToken {
		t.Error("modified token unchanged after edit")
	}
}

func TestLocal_ValidateFailureAbortsList(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("provider: Local\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	wantErr := errors.New("missing titles")
	l := &Local{
		Path:     dir,
		Validate: func(json.RawMessage) error { return wantErr },
	}
	err := l.List(context.Background(), func(types.ListResult) error { return nil })
	if !errors.Is(err, wantErr) {
		t.Fatalf("List error = %v, want validation failure", err)
	}
}
