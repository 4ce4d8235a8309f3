// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"

	"github.com/pdiddy/metaharvest/pkg/types"
)

const redivisPayloadJSON = `{
  "qualifiedReference": "stanford.county_health:v1_0",
  "name": "County Health Indicators",
  "description": "Annual county-level health indicators.",
  "methodologyMarkdown": "Aggregated from state reports.",
  "doi": "10.57761/abcd-1234",
  "url": "https://redivis.com/datasets/abcd",
  "createdAt": 1672531200000,
  "updatedAt": 1704067200000,
  "publicAccessLevel": "overview",
  "totalNumBytes": 52428800,
  "tags": [{"name": "public health"}],
  "tables": [
    {"name": "indicators", "variables": [{"name": "county_fips"}, {"name": "uninsured_pct"}]},
    {"name": "notes", "variables": [{"name": ""}]}
  ]
}`

func TestNormalize_Redivis(t *testing.T) {
	meta, err := Normalize(types.ProviderRedivis, json.RawMessage(redivisPayloadJSON))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if meta.Provider != "Redivis" {
		t.Errorf("Provider = %q", meta.Provider)
	}
	if meta.Titles[0].Title != "County Health Indicators" {
		t.Errorf("Titles = %+v", meta.Titles)
	}
	if meta.Access != "Public" {
		t.Errorf("Access = %q", meta.Access)
	}
	if meta.PublicationYear != "2023" {
		t.Errorf("PublicationYear = %q", meta.PublicationYear)
	}

	if len(meta.Identifiers) != 2 {
		t.Fatalf("Identifiers = %+v", meta.Identifiers)
	}
	if meta.Identifiers[0].IdentifierType != "RedivisReference" {
		t.Errorf("provider identifier = %+v", meta.Identifiers[0])
	}
	if len(meta.Descriptions) != 2 || meta.Descriptions[1].DescriptionType != "Methods" {
		t.Errorf("Descriptions = %+v", meta.Descriptions)
	}
	if len(meta.Dates) != 2 || meta.Dates[0].Date != "2023-01-01" {
		t.Errorf("Dates = %+v", meta.Dates)
	}
	want := []string{"county_fips", "uninsured_pct"}
	if len(meta.Variables) != len(want) || meta.Variables[0] != want[0] || meta.Variables[1] != want[1] {
		t.Errorf("Variables = %v, want %v", meta.Variables, want)
	}
}

func TestNormalize_RedivisHiddenDataset(t *testing.T) {
	raw := json.RawMessage(`{"name": "Internal", "publicAccessLevel": "none"}`)
	meta, err := Normalize(types.ProviderRedivis, raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if meta.Access != "Restricted" {
		t.Errorf("Access = %q, want Restricted", meta.Access)
	}
}
