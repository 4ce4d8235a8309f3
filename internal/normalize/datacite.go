// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// rorSchemeMap cleans up incorrect affiliation identifier schemes found in
// upstream DataCite metadata.
var rorSchemeMap = map[string]string{
	"https://ror.org": "ROR",
}

type datacitePayload struct {
	Data struct {
		Attributes dataciteAttrs `json:"attributes"`
	} `json:"data"`
}

type dataciteAttrs struct {
	DOI             string         `json:"doi"`
	Creators        []datacitePerson `json:"creators"`
	Contributors    []datacitePerson `json:"contributors"`
	Titles          []struct {
		Title     string `json:"title"`
		TitleType string `json:"titleType"`
	} `json:"titles"`
	Publisher struct {
		Name                      string `json:"name"`
		PublisherIdentifier       string `json:"publisherIdentifier"`
		PublisherIdentifierScheme string `json:"publisherIdentifierScheme"`
	} `json:"publisher"`
	PublicationYear json.Number `json:"publicationYear"`
	Subjects        []struct {
		Subject       string `json:"subject"`
		SubjectScheme string `json:"subjectScheme"`
		ValueURI      string `json:"valueUri"`
	} `json:"subjects"`
	Descriptions []struct {
		Description     string `json:"description"`
		DescriptionType string `json:"descriptionType"`
	} `json:"descriptions"`
	Dates []struct {
		Date     string `json:"date"`
		DateType string `json:"dateType"`
	} `json:"dates"`
	Language    string `json:"language"`
	Version     string `json:"version"`
	Identifiers []struct {
		Identifier     string `json:"identifier"`
		IdentifierType string `json:"identifierType"`
	} `json:"identifiers"`
	RelatedIdentifiers []struct {
		RelatedIdentifier     string `json:"relatedIdentifier"`
		RelationType          string `json:"relationType"`
		ResourceTypeGeneral   string `json:"resourceTypeGeneral"`
		RelatedIdentifierType string `json:"relatedIdentifierType"`
	} `json:"relatedIdentifiers"`
	Sizes      []string `json:"sizes"`
	Formats    []string `json:"formats"`
	RightsList []struct {
		Rights                 string `json:"rights"`
		RightsURI              string `json:"rightsUri"`
		RightsIdentifier       string `json:"rightsIdentifier"`
		RightsIdentifierScheme string `json:"rightsIdentifierScheme"`
	} `json:"rightsList"`
	FundingReferences []struct {
		FunderName           string `json:"funderName"`
		FunderIdentifier     string `json:"funderIdentifier"`
		FunderIdentifierType string `json:"funderIdentifierType"`
		AwardNumber          string `json:"awardNumber"`
		AwardURI             string `json:"awardUri"`
		AwardTitle           string `json:"awardTitle"`
	} `json:"fundingReferences"`
	GeoLocations []struct {
		GeoLocationPlace string `json:"geoLocationPlace"`
	} `json:"geoLocations"`
	URL string `json:"url"`
}

type datacitePerson struct {
	Name            string `json:"name"`
	NameType        string `json:"nameType"`
	ContributorType string `json:"contributorType"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	NameIdentifiers []struct {
		NameIdentifier       string `json:"nameIdentifier"`
		NameIdentifierScheme string `json:"nameIdentifierScheme"`
	} `json:"nameIdentifiers"`
	Affiliation []struct {
		Name                        string `json:"name"`
		AffiliationIdentifier       string `json:"affiliationIdentifier"`
		AffiliationIdentifierScheme string `json:"affiliationIdentifierScheme"`
		SchemeURI                   string `json:"schemeUri"`
	} `json:"affiliation"`
}

func mapDataCite(raw json.RawMessage) (*types.Metadata, error) {
	var payload datacitePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	attrs := payload.Data.Attributes

	meta := &types.Metadata{
		Creators:     datacitePeople(attrs.Creators),
		Contributors: datacitePeople(attrs.Contributors),
		Language:     attrs.Language,
		Version:      attrs.Version,
		Sizes:        attrs.Sizes,
		Formats:      attrs.Formats,
		URL:          attrs.URL,
		Access:       "Public",
		Provider:     types.ProviderDataCite.DisplayName(),
	}

	for _, t := range attrs.Titles {
		meta.Titles = append(meta.Titles, types.Title{Title: t.Title, TitleType: t.TitleType})
	}
	if attrs.Publisher.Name != "" {
		meta.Publisher = &types.Publisher{
			Name:                      attrs.Publisher.Name,
			PublisherIdentifier:       attrs.Publisher.PublisherIdentifier,
			PublisherIdentifierScheme: attrs.Publisher.PublisherIdentifierScheme,
		}
	}
	meta.PublicationYear = attrs.PublicationYear.String()
	if meta.PublicationYear == "" || meta.PublicationYear == "0" {
		meta.PublicationYear = ""
	}
	for _, s := range attrs.Subjects {
		meta.Subjects = append(meta.Subjects, types.Subject{
			Subject:       s.Subject,
			SubjectScheme: s.SubjectScheme,
			ValueURI:      s.ValueURI,
		})
	}
	for _, d := range attrs.Descriptions {
		if d.Description == "" {
			continue
		}
		meta.Descriptions = append(meta.Descriptions, types.Description{
			Description:     d.Description,
			DescriptionType: d.DescriptionType,
		})
	}
	for _, d := range attrs.Dates {
		meta.Dates = append(meta.Dates, types.Date{
			Date:     cleanupDate(d.Date),
			DateType: d.DateType,
		})
	}
	meta.Identifiers = append(meta.Identifiers, types.Identifier{
		Identifier:     attrs.DOI,
		IdentifierType: "DOI",
	})
	for _, id := range attrs.Identifiers {
		if id.Identifier == "" || otherScheme(id.IdentifierType) {
			continue
		}
		meta.Identifiers = append(meta.Identifiers, types.Identifier{
			Identifier:     id.Identifier,
			IdentifierType: id.IdentifierType,
		})
	}
	for _, rel := range attrs.RelatedIdentifiers {
		if rel.RelatedIdentifier == "" || otherScheme(rel.RelatedIdentifierType) {
			continue
		}
		meta.RelatedIdentifiers = append(meta.RelatedIdentifiers, types.RelatedIdentifier{
			RelatedIdentifier:     rel.RelatedIdentifier,
			RelationType:          rel.RelationType,
			ResourceTypeGeneral:   rel.ResourceTypeGeneral,
			RelatedIdentifierType: rel.RelatedIdentifierType,
		})
	}
	for _, r := range attrs.RightsList {
		meta.RightsList = append(meta.RightsList, types.Rights{
			Rights:                 r.Rights,
			RightsURI:              r.RightsURI,
			RightsIdentifier:       r.RightsIdentifier,
			RightsIdentifierScheme: r.RightsIdentifierScheme,
		})
	}
	for _, f := range attrs.FundingReferences {
		meta.FundingReferences = append(meta.FundingReferences, types.FundingReference{
			FunderName:           f.FunderName,
			FunderIdentifier:     f.FunderIdentifier,
			FunderIdentifierType: f.FunderIdentifierType,
			AwardNumber:          f.AwardNumber,
			AwardURI:             f.AwardURI,
			AwardTitle:           f.AwardTitle,
		})
	}
	for _, g := range attrs.GeoLocations {
		if g.GeoLocationPlace == "" {
			continue
		}
		meta.GeoLocations = append(meta.GeoLocations, types.GeoLocation{GeoLocationPlace: g.GeoLocationPlace})
	}
	return meta, nil
}

func datacitePeople(people []datacitePerson) []types.PersonOrOrg {
	var out []types.PersonOrOrg
	for _, p := range people {
		name := personName(p.Name, p.GivenName, p.FamilyName)
		if name == "" {
			continue
		}
		person := types.PersonOrOrg{
			Name:            name,
			NameType:        p.NameType,
			ContributorType: p.ContributorType,
			GivenName:       p.GivenName,
			FamilyName:      p.FamilyName,
		}
		for _, id := range p.NameIdentifiers {
			if otherScheme(id.NameIdentifierScheme) {
				continue
			}
			person.NameIdentifiers = append(person.NameIdentifiers, types.NameIdentifier{
				NameIdentifier:       id.NameIdentifier,
				NameIdentifierScheme: id.NameIdentifierScheme,
			})
		}
		for _, aff := range p.Affiliation {
			if otherScheme(aff.AffiliationIdentifierScheme) {
				continue
			}
			scheme := aff.AffiliationIdentifierScheme
			if scheme == "" {
				scheme = aff.SchemeURI
			}
			if mapped, ok := rorSchemeMap[scheme]; ok {
				scheme = mapped
			}
			person.Affiliation = append(person.Affiliation, types.Affiliation{
				Name:                        aff.Name,
				AffiliationIdentifier:       aff.AffiliationIdentifier,
				AffiliationIdentifierScheme: scheme,
			})
		}
		out = append(out, person)
	}
	return out
}

var bareTimestampRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)

// cleanupDate repairs date values seen in the wild: surrounding whitespace,
// " to " as a range separator, and timestamps missing a zone designator.
func cleanupDate(date string) string {
	date = strings.TrimSpace(date)
	date = strings.Replace(date, " to ", "/", 1)
	if bareTimestampRE.MatchString(date) {
		date += "Z"
	}
	return date
}
