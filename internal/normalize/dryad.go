// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// dryadFunderTypeMap translates Dryad funder identifier types to their
// canonical spellings.
var dryadFunderTypeMap = map[string]string{
	"ror":                "ROR",
	"crossref_funder_id": "Crossref Funder ID",
}

type dryadPayload struct {
	Title      string `json:"title"`
	Identifier string `json:"identifier"`
	Authors    []struct {
		FirstName      string `json:"firstName"`
		LastName       string `json:"lastName"`
		Affiliation    string `json:"affiliation"`
		AffiliationROR string `json:"affiliationROR"`
		ORCID          string `json:"orcid"`
	} `json:"authors"`
	Abstract             string   `json:"abstract"`
	Methods              string   `json:"methods"`
	UsageNotes           string   `json:"usageNotes"`
	Keywords             []string `json:"keywords"`
	PublicationDate      string   `json:"publicationDate"`
	LastModificationDate string   `json:"lastModificationDate"`
	VersionNumber        int      `json:"versionNumber"`
	Visibility           string   `json:"visibility"`
	SharingLink          string   `json:"sharingLink"`
	StorageSize          int64    `json:"storageSize"`
	RelatedPublicationISSN string `json:"relatedPublicationISSN"`
	License              string   `json:"license"`
	Locations            []struct {
		Place string `json:"place"`
	} `json:"locations"`
	Funders []struct {
		Organization   string `json:"organization"`
		Identifier     string `json:"identifier"`
		IdentifierType string `json:"identifierType"`
		AwardNumber    string `json:"awardNumber"`
	} `json:"funders"`
}

func mapDryad(raw json.RawMessage) (*types.Metadata, error) {
	var payload dryadPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	meta := &types.Metadata{
		Titles:   []types.Title{{Title: payload.Title}},
		URL:      payload.SharingLink,
		Access:   "Restricted",
		Provider: types.ProviderDryad.DisplayName(),
	}
	if payload.Visibility == "public" {
		meta.Access = "Public"
	}
	if payload.VersionNumber > 0 {
		meta.Version = strconv.Itoa(payload.VersionNumber)
	}
	if len(payload.PublicationDate) >= 4 {
		meta.PublicationYear = payload.PublicationDate[:4]
	}

	for _, a := range payload.Authors {
		person := types.PersonOrOrg{
			Name:     a.FirstName + " " + a.LastName,
			NameType: "Personal",
		}
		if a.ORCID != "" {
			person.NameIdentifiers = []types.NameIdentifier{
				{NameIdentifier: a.ORCID, NameIdentifierScheme: "ORCID"},
			}
		}
		if a.Affiliation != "" {
			aff := types.Affiliation{Name: a.Affiliation}
			if a.AffiliationROR != "" {
				aff.AffiliationIdentifier = a.AffiliationROR
				aff.AffiliationIdentifierScheme = "ROR"
			}
			person.Affiliation = []types.Affiliation{aff}
		}
		meta.Creators = append(meta.Creators, person)
	}

	if payload.Identifier != "" {
		meta.Identifiers = []types.Identifier{
			{Identifier: payload.Identifier, IdentifierType: "DOI"},
		}
	}

	descriptions := []struct{ text, kind string }{
		{payload.Abstract, "Abstract"},
		{payload.Methods, "Methods"},
		{payload.UsageNotes, "Other"},
	}
	for _, d := range descriptions {
		if d.text == "" {
			continue
		}
		meta.Descriptions = append(meta.Descriptions, types.Description{
			Description:     d.text,
			DescriptionType: d.kind,
		})
	}

	dates := []struct{ value, kind string }{
		{payload.PublicationDate, "Issued"},
		{payload.LastModificationDate, "Updated"},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		meta.Dates = append(meta.Dates, types.Date{Date: d.value, DateType: d.kind})
	}

	for _, loc := range payload.Locations {
		if loc.Place == "" {
			continue
		}
		meta.GeoLocations = append(meta.GeoLocations, types.GeoLocation{GeoLocationPlace: loc.Place})
	}
	for _, kw := range payload.Keywords {
		meta.Subjects = append(meta.Subjects, types.Subject{Subject: kw})
	}
	if payload.StorageSize > 0 {
		meta.Sizes = []string{fmt.Sprintf("%d KB", payload.StorageSize)}
	}
	for _, f := range payload.Funders {
		if f.Organization == "" {
			continue
		}
		ref := types.FundingReference{
			FunderName:  f.Organization,
			AwardNumber: f.AwardNumber,
		}
		if f.Identifier != "" {
			ref.FunderIdentifier = f.Identifier
			ref.FunderIdentifierType = f.IdentifierType
			if mapped, ok := dryadFunderTypeMap[f.IdentifierType]; ok {
				ref.FunderIdentifierType = mapped
			}
		}
		meta.FundingReferences = append(meta.FundingReferences, ref)
	}
	if payload.License != "" {
		meta.RightsList = []types.Rights{{RightsURI: payload.License}}
	}
	if payload.RelatedPublicationISSN != "" {
		meta.RelatedIdentifiers = []types.RelatedIdentifier{
			{RelatedIdentifier: payload.RelatedPublicationISSN, RelatedIdentifierType: "ISSN"},
		}
	}
	return meta, nil
}
