// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// zenodoRelatedTypeMap translates Zenodo related identifier schemes to
// their canonical spellings.
var zenodoRelatedTypeMap = map[string]string{
	"arxiv": "arXiv",
	"doi":   "DOI",
	"ean8":  "EAN8",
	"issn":  "ISSN",
	"lsid":  "LSID",
	"pmid":  "PMID",
	"url":   "URL",
}

type zenodoPayload struct {
	ID     json.Number `json:"id"`
	DOI    string      `json:"doi"`
	DOIURL string      `json:"doi_url"`
	Files  []struct {
		Size int64 `json:"size"`
	} `json:"files"`
	Metadata struct {
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		PublicationDate string   `json:"publication_date"`
		Keywords        []string `json:"keywords"`
		Version         string   `json:"version"`
		AccessRight     string   `json:"access_right"`
		Creators        []struct {
			Name        string `json:"name"`
			Affiliation string `json:"affiliation"`
			ORCID       string `json:"orcid"`
		} `json:"creators"`
		RelatedIdentifiers []struct {
			Identifier string `json:"identifier"`
			Relation   string `json:"relation"`
			Scheme     string `json:"scheme"`
		} `json:"related_identifiers"`
		License struct {
			ID string `json:"id"`
		} `json:"license"`
		Grants []struct {
			Code   string `json:"code"`
			Title  string `json:"title"`
			Funder struct {
				Name string `json:"name"`
				DOI  string `json:"doi"`
			} `json:"funder"`
		} `json:"grants"`
	} `json:"metadata"`
}

func mapZenodo(raw json.RawMessage) (*types.Metadata, error) {
	var payload zenodoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	md := payload.Metadata

	meta := &types.Metadata{
		Titles:   []types.Title{{Title: md.Title}},
		Version:  md.Version,
		URL:      payload.DOIURL,
		Access:   "Restricted",
		Provider: types.ProviderZenodo.DisplayName(),
	}
	if md.AccessRight == "open" {
		meta.Access = "Public"
	}

	meta.Identifiers = []types.Identifier{
		{Identifier: payload.ID.String(), IdentifierType: "ZenodoId"},
	}
	if payload.DOI != "" {
		meta.Identifiers = append(meta.Identifiers, types.Identifier{
			Identifier:     payload.DOI,
			IdentifierType: "DOI",
		})
	}

	if md.Description != "" {
		meta.Descriptions = []types.Description{
			{Description: md.Description, DescriptionType: "Abstract"},
		}
	}
	for _, c := range md.Creators {
		person := types.PersonOrOrg{Name: c.Name, NameType: "Personal"}
		if c.Affiliation != "" {
			person.Affiliation = []types.Affiliation{{Name: c.Affiliation}}
		}
		if c.ORCID != "" {
			person.NameIdentifiers = []types.NameIdentifier{
				{NameIdentifier: c.ORCID, NameIdentifierScheme: "ORCID"},
			}
		}
		meta.Creators = append(meta.Creators, person)
	}
	if len(md.PublicationDate) >= 4 {
		meta.PublicationYear = md.PublicationDate[:4]
	}
	if md.PublicationDate != "" {
		meta.Dates = []types.Date{{Date: md.PublicationDate, DateType: "Issued"}}
	}
	for _, kw := range md.Keywords {
		meta.Subjects = append(meta.Subjects, types.Subject{Subject: kw})
	}
	for _, rel := range md.RelatedIdentifiers {
		if rel.Identifier == "" || otherScheme(rel.Scheme) {
			continue
		}
		relType := zenodoRelatedTypeMap[rel.Scheme]
		if relType == "" {
			relType = rel.Scheme
		}
		meta.RelatedIdentifiers = append(meta.RelatedIdentifiers, types.RelatedIdentifier{
			RelatedIdentifier:     rel.Identifier,
			RelationType:          capitalizeRelation(rel.Relation),
			RelatedIdentifierType: relType,
		})
	}
	if len(payload.Files) > 0 {
		var total int64
		for _, f := range payload.Files {
			total += f.Size
		}
		meta.Sizes = []string{fmt.Sprintf("%d bytes", total)}
	}
	if md.License.ID != "" {
		// Zenodo maintains its own rights vocabulary.
		meta.RightsList = []types.Rights{
			{RightsIdentifier: md.License.ID, RightsIdentifierScheme: "zenodo"},
		}
	}
	for _, g := range md.Grants {
		ref := types.FundingReference{
			AwardNumber: g.Code,
			AwardTitle:  g.Title,
			FunderName:  g.Funder.Name,
		}
		if g.Funder.DOI != "" {
			ref.FunderIdentifier = g.Funder.DOI
			ref.FunderIdentifierType = "DOI"
		}
		meta.FundingReferences = append(meta.FundingReferences, ref)
	}
	return meta, nil
}

// capitalizeRelation uppercases the first letter of a relation type. Zenodo
// capitalizes relation types inconsistently.
func capitalizeRelation(relation string) string {
	if relation == "" {
		return ""
	}
	return strings.ToUpper(relation[:1]) + relation[1:]
}
