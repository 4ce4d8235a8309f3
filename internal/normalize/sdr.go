// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// Repository contributors are filtered by role value rather than relator
// code because some records claim a code vocabulary they do not follow.
var sdrCreatorRoles = map[string]bool{
	"author":               true,
	"authoring entity":     true,
	"primary investigator": true,
}

// sdrDateTypeMap translates repository event date types to canonical date
// types. Unlisted types map to "Other" with the original type preserved in
// the date information.
var sdrDateTypeMap = map[string]string{
	"copyright":    "Copyrighted",
	"collection":   "Collected",
	"coverage":     "Coverage",
	"creation":     "Created",
	"production":   "Created",
	"generation":   "Created",
	"submission":   "Submitted",
	"publication":  "Issued",
	"release":      "Issued",
	"distribution": "Issued",
	"modification": "Updated",
	"validity":     "Valid",
	"withdrawal":   "Withdrawn",
}

// sdrRelatorMap translates marcrelator codes to canonical contributor
// types. "aut" is absent: authors are creators, not contributors.
var sdrRelatorMap = map[string]string{
	"mdc": "ContactPerson",
	"prc": "ContactPerson",
	"col": "DataCollector",
	"cur": "DataCurator",
	"dtm": "DataManager",
	"dst": "Distributor",
	"edt": "Editor",
	"his": "HostingInstitution",
	"pro": "Producer",
	"pdr": "ProjectLeader",
	"res": "Researcher",
	"cph": "RightsHolder",
	"spn": "Sponsor",
	"trl": "Translator",
}

// sdrRelationMap translates repository related-resource types to canonical
// relation types.
var sdrRelationMap = map[string]string{
	"derived from":         "IsDerivedFrom",
	"has other format":     "IsVariantFormOf",
	"preceded by":          "IsNewVersionOf",
	"has original version": "IsNewVersionOf",
	"succeeded by":         "IsPreviousVersionOf",
	"has version":          "IsVersionOf",
	"has part":             "HasPart",
	"is identical to":      "IsIdenticalTo",
	"in series":            "IsPartOf",
	"referenced by":        "IsReferencedBy",
	"references":           "References",
	"reviewed by":          "IsReviewedBy",
	"source of":            "IsSourceOf",
	"supplemented by":      "IsSupplementedBy",
	"supplement to":        "IsSupplementTo",
}

// sdrNoteTypeMap translates repository note types to canonical description
// types. Notes with unlisted types are not descriptions.
var sdrNoteTypeMap = map[string]string{
	"abstract":          "Abstract",
	"numbering":         "SeriesInformation",
	"table of contents": "TableOfContents",
	"technical note":    "TechnicalInfo",
}

type sdrValue struct {
	Value           string     `json:"value"`
	Type            string     `json:"type"`
	URI             string     `json:"uri"`
	Code            string     `json:"code"`
	StructuredValue []sdrValue `json:"structuredValue"`
	Source          struct {
		Code string `json:"code"`
		URI  string `json:"uri"`
	} `json:"source"`
}

type sdrContributor struct {
	Name       []sdrValue `json:"name"`
	Type       string     `json:"type"`
	Role       []sdrValue `json:"role"`
	Identifier []sdrValue `json:"identifier"`
	Note       []struct {
		Type       string     `json:"type"`
		Value      string     `json:"value"`
		Identifier []sdrValue `json:"identifier"`
	} `json:"note"`
}

type sdrPayload struct {
	ExternalIdentifier string    `json:"externalIdentifier"`
	Created            time.Time `json:"created"`
	Identification     struct {
		DOI string `json:"doi"`
	} `json:"identification"`
	Access struct {
		Download                    string `json:"download"`
		License                     string `json:"license"`
		UseAndReproductionStatement string `json:"useAndReproductionStatement"`
	} `json:"access"`
	Description struct {
		Title       []sdrValue       `json:"title"`
		Contributor []sdrContributor `json:"contributor"`
		Event       []struct {
			Date []struct {
				Value           string     `json:"value"`
				Type            string     `json:"type"`
				StructuredValue []sdrValue `json:"structuredValue"`
				Note            []sdrValue `json:"note"`
			} `json:"date"`
			Contributor []sdrContributor `json:"contributor"`
		} `json:"event"`
		Language        []sdrValue `json:"language"`
		Subject         []sdrValue `json:"subject"`
		Note            []sdrValue `json:"note"`
		Form            []sdrValue `json:"form"`
		Identifier      []sdrValue `json:"identifier"`
		Purl            string     `json:"purl"`
		RelatedResource []struct {
			Type       string     `json:"type"`
			Identifier []sdrValue `json:"identifier"`
		} `json:"relatedResource"`
	} `json:"description"`
	Structural struct {
		Contains []struct {
			Structural struct {
				Contains []struct {
					Size        int64  `json:"size"`
					HasMimeType string `json:"hasMimeType"`
				} `json:"contains"`
			} `json:"structural"`
		} `json:"contains"`
	} `json:"structural"`
}

func mapSDR(raw json.RawMessage) (*types.Metadata, error) {
	var payload sdrPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	desc := payload.Description

	meta := &types.Metadata{
		URL:      desc.Purl,
		Access:   "Restricted",
		Provider: types.ProviderSDR.DisplayName(),
	}
	if payload.Access.Download == "world" {
		meta.Access = "Public"
	}

	if title := sdrTitle(desc.Title); title != "" {
		meta.Titles = []types.Title{{Title: title}}
	}

	// The druid is always present; the DOI may live in either of two
	// places and is URL-form in the second.
	meta.Identifiers = []types.Identifier{
		{Identifier: payload.ExternalIdentifier, IdentifierType: "DRUID"},
	}
	if doi := payload.Identification.DOI; doi != "" {
		meta.Identifiers = append(meta.Identifiers, types.Identifier{Identifier: doi, IdentifierType: "DOI"})
	} else {
		for _, id := range desc.Identifier {
			if id.Type == "DOI" && id.Value != "" {
				meta.Identifiers = append(meta.Identifiers, types.Identifier{
					Identifier:     idFromURL(id.Value),
					IdentifierType: "DOI",
				})
				break
			}
		}
	}

	for _, c := range desc.Contributor {
		person, ok := sdrPerson(c)
		if !ok {
			continue
		}
		if sdrHasCreatorRole(c) {
			person.ContributorType = ""
			meta.Creators = append(meta.Creators, person)
		} else {
			meta.Contributors = append(meta.Contributors, person)
		}
	}

	for _, event := range desc.Event {
		for _, c := range event.Contributor {
			if !sdrHasRole(c, "publisher") || len(c.Name) == 0 || c.Name[0].Value == "" {
				continue
			}
			if meta.Publisher == nil {
				meta.Publisher = &types.Publisher{Name: c.Name[0].Value}
			}
		}
		for _, d := range event.Date {
			date := sdrDate(d.Value, d.Type, d.StructuredValue, d.Note)
			if date != nil {
				meta.Dates = append(meta.Dates, *date)
			}
		}
	}

	meta.PublicationYear = sdrPublicationYear(meta.Dates, payload.Created)

	for _, lang := range desc.Language {
		if lang.Code != "" {
			meta.Language = lang.Code
			break
		}
	}
	for _, s := range desc.Subject {
		if s.Type == "topic" && s.Value != "" {
			meta.Subjects = append(meta.Subjects, types.Subject{Subject: s.Value})
		}
	}
	for _, note := range desc.Note {
		if note.Value == "" {
			continue
		}
		if note.Type == "version" && meta.Version == "" {
			meta.Version = note.Value
			continue
		}
		if kind, ok := sdrNoteTypeMap[note.Type]; ok {
			meta.Descriptions = append(meta.Descriptions, types.Description{
				Description:     note.Value,
				DescriptionType: kind,
			})
		}
	}
	for _, rel := range desc.RelatedResource {
		if len(rel.Identifier) == 0 || rel.Identifier[0].Value == "" {
			continue
		}
		meta.RelatedIdentifiers = append(meta.RelatedIdentifiers, types.RelatedIdentifier{
			RelatedIdentifier:     idFromURL(rel.Identifier[0].Value),
			RelationType:          sdrRelationMap[rel.Type],
			RelatedIdentifierType: rel.Identifier[0].Type,
		})
	}

	meta.Sizes = sdrSizes(payload)
	meta.Formats = sdrFormats(payload)
	if payload.Access.UseAndReproductionStatement != "" || payload.Access.License != "" {
		meta.RightsList = []types.Rights{{
			Rights:    payload.Access.UseAndReproductionStatement,
			RightsURI: payload.Access.License,
		}}
	}
	for _, c := range desc.Contributor {
		if !sdrHasRole(c, "funder") || len(c.Name) == 0 || c.Name[0].Value == "" {
			continue
		}
		ref := types.FundingReference{FunderName: c.Name[0].Value}
		if len(c.Identifier) > 0 {
			ref.FunderIdentifier = c.Identifier[0].Value
		}
		meta.FundingReferences = append(meta.FundingReferences, ref)
	}
	return meta, nil
}

// sdrTitle flattens the first title element: a plain value when present,
// else its structured parts joined in order.
func sdrTitle(titles []sdrValue) string {
	if len(titles) == 0 {
		return ""
	}
	if titles[0].Value != "" {
		return titles[0].Value
	}
	var parts []string
	for _, sv := range titles[0].StructuredValue {
		if sv.Value != "" {
			parts = append(parts, sv.Value)
		}
	}
	return strings.Join(parts, ": ")
}

func sdrHasCreatorRole(c sdrContributor) bool {
	for _, role := range c.Role {
		if sdrCreatorRoles[strings.ToLower(role.Value)] {
			return true
		}
	}
	return false
}

func sdrHasRole(c sdrContributor, role string) bool {
	for _, r := range c.Role {
		if strings.EqualFold(r.Value, role) {
			return true
		}
	}
	return false
}

func sdrPerson(c sdrContributor) (types.PersonOrOrg, bool) {
	if len(c.Name) == 0 {
		return types.PersonOrOrg{}, false
	}
	name := c.Name[0]

	nameType := "Organizational"
	if c.Type == "person" {
		nameType = "Personal"
	}
	person := types.PersonOrOrg{Name: name.Value, NameType: nameType}

	if nameType == "Personal" && len(c.Role) > 0 {
		person.ContributorType = sdrContributorType(c.Role[0])
	}

	// Given and family names sometimes arrive as structured parts, with
	// no flat name at all.
	for _, sv := range name.StructuredValue {
		switch sv.Type {
		case "forename":
			person.GivenName = sv.Value
		case "surname":
			person.FamilyName = sv.Value
		}
	}
	if person.Name == "" {
		person.Name = personName("", person.GivenName, person.FamilyName)
		if person.Name == "" && person.FamilyName != "" {
			person.Name = person.FamilyName
		}
		if person.Name == "" {
			return types.PersonOrOrg{}, false
		}
	}

	for _, id := range c.Identifier {
		nameIdentifier := id.URI
		if nameIdentifier == "" && id.Value != "" {
			nameIdentifier = strings.TrimSuffix(id.Source.URI, "/") + "/" + id.Value
			nameIdentifier = strings.TrimPrefix(nameIdentifier, "/")
		}
		if nameIdentifier == "" {
			continue
		}
		schemeURI := id.Source.URI
		if schemeURI == "" && id.Type == "ORCID" {
			schemeURI = "https://orcid.org/"
		}
		person.NameIdentifiers = append(person.NameIdentifiers, types.NameIdentifier{
			NameIdentifier:       nameIdentifier,
			NameIdentifierScheme: id.Type,
			SchemeURI:            schemeURI,
		})
	}

	for _, note := range c.Note {
		if note.Type != "affiliation" || note.Value == "" {
			continue
		}
		aff := types.Affiliation{Name: note.Value}
		if len(note.Identifier) > 0 {
			aff.AffiliationIdentifier = note.Identifier[0].URI
			aff.AffiliationIdentifierScheme = note.Identifier[0].Type
			aff.SchemeURI = note.Identifier[0].Source.URI
		}
		person.Affiliation = append(person.Affiliation, aff)
	}
	return person, true
}

func sdrContributorType(role sdrValue) string {
	if role.Code == "" || role.Source.Code != "marcrelator" {
		return ""
	}
	if role.Code == "aut" {
		return ""
	}
	if t, ok := sdrRelatorMap[role.Code]; ok {
		return t
	}
	return "Other"
}

func sdrDate(value, dateType string, structured, notes []sdrValue) *types.Date {
	if value == "" && len(structured) > 0 {
		value = structured[0].Value
	}
	if value == "" {
		return nil
	}
	var info []string
	for _, n := range notes {
		if n.Value != "" {
			info = append(info, n.Value)
		}
	}
	mapped, ok := sdrDateTypeMap[dateType]
	if !ok {
		// Keep the unrecognized type visible instead of dropping it.
		if dateType != "" {
			info = append([]string{dateType}, info...)
		}
		mapped = "Other"
	}
	return &types.Date{
		Date:            value,
		DateType:        mapped,
		DateInformation: strings.Join(info, "; "),
	}
}

var yearRE = regexp.MustCompile(`\b\d{4}\b`)

// sdrPublicationYear picks the earliest issued year, else the earliest
// created year, else the year the record itself was deposited.
func sdrPublicationYear(dates []types.Date, deposited time.Time) string {
	for _, dateType := range []string{"Issued", "Created"} {
		var years []string
		for _, d := range dates {
			if d.DateType != dateType {
				continue
			}
			if y := yearRE.FindString(d.Date); y != "" {
				years = append(years, y)
			}
		}
		if len(years) > 0 {
			sort.Strings(years)
			return years[0]
		}
	}
	if deposited.IsZero() {
		return ""
	}
	return deposited.UTC().Format("2006")
}

func sdrSizes(payload sdrPayload) []string {
	var sizes []string
	for _, f := range payload.Description.Form {
		if f.Type == "extent" && f.Value != "" {
			sizes = append(sizes, f.Value)
		}
	}
	if len(sizes) > 0 {
		return sizes
	}
	var total int64
	for _, fs := range payload.Structural.Contains {
		for _, file := range fs.Structural.Contains {
			total += file.Size
		}
	}
	if total == 0 {
		return nil
	}
	return []string{humanSize(total)}
}

func sdrFormats(payload sdrPayload) []string {
	seen := map[string]bool{}
	var formats []string
	for _, fs := range payload.Structural.Contains {
		for _, file := range fs.Structural.Contains {
			if file.HasMimeType == "" || seen[file.HasMimeType] {
				continue
			}
			seen[file.HasMimeType] = true
			formats = append(formats, file.HasMimeType)
		}
	}
	return formats
}

// idFromURL strips the resolver prefix from a URL-form identifier,
// returning just the path-encoded id. Non-URL identifiers pass through.
func idFromURL(id string) string {
	u, err := url.Parse(id)
	if err != nil || u.Host == "" {
		return id
	}
	return strings.TrimPrefix(u.Path, "/")
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d bytes", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
