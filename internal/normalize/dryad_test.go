// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"

	"github.com/pdiddy/metaharvest/pkg/types"
)

const dryadPayloadJSON = `{
  "identifier": "10.5061/dryad.8515",
  "title": "Data from: Chickadee call variation",
  "authors": [
    {"firstName": "Ada", "lastName": "Lee", "affiliation": "Stanford University", "affiliationROR": "https://ror.org/00f54p054", "orcid": "0000-0002-1111-2222"},
    {"firstName": "Ben", "lastName": "Kim"}
  ],
  "abstract": "Call recordings from 2019-2021.",
  "methods": "Field recorders at 44.1 kHz.",
  "usageNotes": "WAV files are uncompressed.",
  "keywords": ["bioacoustics", "chickadee"],
  "publicationDate": "2022-03-15",
  "lastModificationDate": "2023-01-10",
  "versionNumber": 3,
  "visibility": "public",
  "sharingLink": "https://datadryad.org/stash/dataset/doi:10.5061/dryad.8515",
  "storageSize": 2048,
  "relatedPublicationISSN": "1234-5678",
  "license": "https://creativecommons.org/publicdomain/zero/1.0/",
  "locations": [{"place": "Jasper Ridge"}],
  "funders": [
    {"organization": "NSF", "identifier": "https://ror.org/021nxhr62", "identifierType": "ror", "awardNumber": "DEB-1845", "extra": null},
    {"organization": ""}
  ]
}`

func TestNormalize_Dryad(t *testing.T) {
	meta, err := Normalize(types.ProviderDryad, json.RawMessage(dryadPayloadJSON))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if meta.Provider != "Dryad" {
		t.Errorf("Provider = %q", meta.Provider)
	}
	if meta.Titles[0].Title != "Data from: Chickadee call variation" {
		t.Errorf("Titles = %+v", meta.Titles)
	}
	if meta.PublicationYear != "2022" {
		t.Errorf("PublicationYear = %q", meta.PublicationYear)
	}
	if meta.Version != "3" {
		t.Errorf("Version = %q", meta.Version)
	}
	if meta.Access != "Public" {
		t.Errorf("Access = %q", meta.Access)
	}

	if len(meta.Creators) != 2 {
		t.Fatalf("Creators = %+v", meta.Creators)
	}
	ada := meta.Creators[0]
	if ada.Name != "Ada Lee" || ada.NameType != "Personal" {
		t.Errorf("creator = %+v", ada)
	}
	if len(ada.NameIdentifiers) != 1 || ada.NameIdentifiers[0].NameIdentifierScheme != "ORCID" {
		t.Errorf("NameIdentifiers = %+v", ada.NameIdentifiers)
	}
	if len(ada.Affiliation) != 1 || ada.Affiliation[0].AffiliationIdentifierScheme != "ROR" {
		t.Errorf("Affiliation = %+v", ada.Affiliation)
	}
	if len(meta.Creators[1].NameIdentifiers) != 0 || len(meta.Creators[1].Affiliation) != 0 {
		t.Errorf("creator without orcid/affiliation = %+v", meta.Creators[1])
	}

	if len(meta.Identifiers) != 1 || meta.Identifiers[0].IdentifierType != "DOI" {
		t.Errorf("Identifiers = %+v", meta.Identifiers)
	}
	if len(meta.Descriptions) != 3 || meta.Descriptions[2].DescriptionType != "Other" {
		t.Errorf("Descriptions = %+v", meta.Descriptions)
	}
	if len(meta.Dates) != 2 || meta.Dates[0].DateType != "Issued" || meta.Dates[1].DateType != "Updated" {
		t.Errorf("Dates = %+v", meta.Dates)
	}
	if len(meta.Sizes) != 1 || meta.Sizes[0] != "2048 KB" {
		t.Errorf("Sizes = %v", meta.Sizes)
	}
	if len(meta.FundingReferences) != 1 {
		t.Fatalf("funder without organization not dropped: %+v", meta.FundingReferences)
	}
	if meta.FundingReferences[0].FunderIdentifierType != "ROR" {
		t.Errorf("FunderIdentifierType = %q", meta.FundingReferences[0].FunderIdentifierType)
	}
	if len(meta.RelatedIdentifiers) != 1 || meta.RelatedIdentifiers[0].RelatedIdentifierType != "ISSN" {
		t.Errorf("RelatedIdentifiers = %+v", meta.RelatedIdentifiers)
	}
	if len(meta.RightsList) != 1 || meta.RightsList[0].RightsURI == "" {
		t.Errorf("RightsList = %+v", meta.RightsList)
	}
}
