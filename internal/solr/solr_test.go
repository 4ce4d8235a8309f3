// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type update struct {
	path string
	body map[string]any
}

func testServer(t *testing.T, status int) (*Client, *[]update) {
	t.Helper()
	var updates []update
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		json.Unmarshal(raw, &body)
		updates = append(updates, update{path: r.URL.Path, body: body})
		w.WriteHeader(status)
		w.Write([]byte(`{"responseHeader":{"status":0}}`))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/solr/datasets", 0), &updates
}

func TestClient_Add(t *testing.T) {
	client, updates := testServer(t, http.StatusOK)

	err := client.Add(context.Background(), map[string]any{"id": "10.1/abc", "load_id_ssi": "L1"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(*updates) != 1 {
		t.Fatalf("got %d updates", len(*updates))
	}
	got := (*updates)[0]
	if got.path != "/solr/datasets/update" {
		t.Errorf("path = %q", got.path)
	}
	add, ok := got.body["add"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v", got.body)
	}
	doc := add["doc"].(map[string]any)
	if doc["id"] != "10.1/abc" {
		t.Errorf("doc = %v", doc)
	}
}

func TestClient_CommitAndDelete(t *testing.T) {
	client, updates := testServer(t, http.StatusOK)
	ctx := context.Background()

	if err := client.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := client.DeleteByQuery(ctx, `-load_id_ssi:"L2"`); err != nil {
		t.Fatalf("DeleteByQuery: %v", err)
	}
	if len(*updates) != 2 {
		t.Fatalf("got %d updates", len(*updates))
	}
	if _, ok := (*updates)[0].body["commit"]; !ok {
		t.Errorf("first update = %v, want commit", (*updates)[0].body)
	}
	del := (*updates)[1].body["delete"].(map[string]any)
	if del["query"] != `-load_id_ssi:"L2"` {
		t.Errorf("delete = %v", del)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	client, _ := testServer(t, http.StatusBadRequest)
	if err := client.Commit(context.Background()); err == nil {
		t.Fatal("Commit succeeded against a 400 response")
	}
}
