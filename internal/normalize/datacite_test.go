// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"testing"

	"github.com/pdiddy/metaharvest/pkg/types"
)

const datacitePayloadJSON = `{
  "data": {
    "id": "10.25740/hx123bc4567",
    "attributes": {
      "doi": "10.25740/hx123bc4567",
      "url": "https://purl.stanford.edu/hx123bc4567",
      "publicationYear": 2023,
      "language": "en",
      "version": "2",
      "titles": [
        {"title": "Global Flight Tracks"},
        {"title": "GFT", "titleType": "AlternativeTitle"}
      ],
      "publisher": {"name": "Stanford Digital Repository", "publisherIdentifier": "https://ror.org/00f54p054", "publisherIdentifierScheme": "ROR"},
      "creators": [
        {
          "name": "Doe, Jane",
          "nameType": "Personal",
          "givenName": "Jane",
          "familyName": "Doe",
          "nameIdentifiers": [
            {"nameIdentifier": "https://orcid.org/0000-0001-2345-6789", "nameIdentifierScheme": "ORCID"},
            {"nameIdentifier": "junk", "nameIdentifierScheme": "Other"}
          ],
          "affiliation": [
            {"name": "Stanford University", "affiliationIdentifier": "https://ror.org/00f54p054", "schemeUri": "https://ror.org"}
          ]
        },
        {"givenName": "Sam", "familyName": "Roe", "nameType": "Personal"}
      ],
      "contributors": [],
      "subjects": [{"subject": "aviation", "subjectScheme": "keyword"}],
      "descriptions": [
        {"description": "Tracks of commercial flights.", "descriptionType": "Abstract"},
        {"description": "", "descriptionType": "Other"}
      ],
      "dates": [
        {"date": "2019-06-01 to 2023-06-01", "dateType": "Coverage"},
        {"date": "2023-03-04T10:20:30", "dateType": "Issued"}
      ],
      "identifiers": [
        {"identifier": "flight-tracks-01", "identifierType": "Local"},
        {"identifier": "x", "identifierType": "other"}
      ],
      "relatedIdentifiers": [
        {"relatedIdentifier": "10.1000/related", "relationType": "IsSupplementTo", "relatedIdentifierType": "DOI"}
      ],
      "sizes": ["1.2 GB"],
      "formats": ["text/csv"],
      "rightsList": [{"rights": "CC BY 4.0", "rightsUri": "https://creativecommons.org/licenses/by/4.0/"}],
      "fundingReferences": [{"funderName": "NSF", "awardNumber": "1234"}],
      "geoLocations": [{"geoLocationPlace": "Pacific Ocean"}, {}]
    }
  }
}`

func TestNormalize_DataCite(t *testing.T) {
	meta, err := Normalize(types.ProviderDataCite, json.RawMessage(datacitePayloadJSON))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if meta.Provider != "DataCite" {
		t.Errorf("Provider = %q", meta.Provider)
	}
	if meta.Access != "Public" {
		t.Errorf("Access = %q", meta.Access)
	}
	if meta.PublicationYear != "2023" {
		t.Errorf("PublicationYear = %q", meta.PublicationYear)
	}
	if len(meta.Titles) != 2 || meta.Titles[1].TitleType != "AlternativeTitle" {
		t.Errorf("Titles = %+v", meta.Titles)
	}
	if meta.Publisher == nil || meta.Publisher.Name != "Stanford Digital Repository" {
		t.Errorf("Publisher = %+v", meta.Publisher)
	}

	if len(meta.Creators) != 2 {
		t.Fatalf("Creators = %+v", meta.Creators)
	}
	jane := meta.Creators[0]
	// The "Other" name identifier is untrusted and dropped.
	if len(jane.NameIdentifiers) != 1 || jane.NameIdentifiers[0].NameIdentifierScheme != "ORCID" {
		t.Errorf("NameIdentifiers = %+v", jane.NameIdentifiers)
	}
	// schemeUri stands in for the missing scheme and is canonicalized.
	if len(jane.Affiliation) != 1 || jane.Affiliation[0].AffiliationIdentifierScheme != "ROR" {
		t.Errorf("Affiliation = %+v", jane.Affiliation)
	}
	if meta.Creators[1].Name != "Roe, Sam" {
		t.Errorf("fallback name = %q, want \"Roe, Sam\"", meta.Creators[1].Name)
	}

	// DOI first, then extra identifiers minus the "other"-typed one.
	if len(meta.Identifiers) != 2 || meta.Identifiers[0].IdentifierType != "DOI" {
		t.Errorf("Identifiers = %+v", meta.Identifiers)
	}
	if len(meta.Descriptions) != 1 {
		t.Errorf("blank description not dropped: %+v", meta.Descriptions)
	}
	if meta.Dates[0].Date != "2019-06-01/2023-06-01" {
		t.Errorf("range separator not normalized: %q", meta.Dates[0].Date)
	}
	if meta.Dates[1].Date != "2023-03-04T10:20:30Z" {
		t.Errorf("zone designator not appended: %q", meta.Dates[1].Date)
	}
	if len(meta.GeoLocations) != 1 {
		t.Errorf("GeoLocations = %+v", meta.GeoLocations)
	}
}
