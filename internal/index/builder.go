// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// DefaultTextLimit caps text field values. Solr rejects text fields over
// 32,766 characters and encoding can expand the length, so the cap sits
// slightly under.
const DefaultTextLimit = 32_000

// Builder derives Solr documents from canonical metadata.
type Builder struct {
	// TextLimit overrides DefaultTextLimit when positive.
	TextLimit int
}

// Input carries everything about one canonical identity the document needs
// besides the metadata itself.
type Input struct {
	// ID is the canonical dataset identity.
	ID string
	// DOI is the DOI stored on the base record, empty when none.
	DOI string
	// LoadID tags the document with the current load generation.
	LoadID string
	// ProviderIDs maps contributing providers to their native dataset ids.
	ProviderIDs map[types.Provider]string
}

// BuildDocument maps canonical metadata to a Solr document. The derivation
// is deterministic: the same metadata and input always produce the same
// document.
func (b Builder) BuildDocument(meta *types.Metadata, in Input) Document {
	doc := Document{
		ID:       in.ID,
		LoadID:   in.LoadID,
		DOI:      in.DOI,
		Access:   meta.Access,
		Provider: meta.Provider,
		Language: meta.Language,
		Sizes:    meta.Sizes,
		Formats:  meta.Formats,
		Version:  meta.Version,
		URL:      meta.URL,
	}

	b.buildTitles(&doc, meta)
	doc.ProviderIdentifier = providerIdentifier(meta)
	doc.Descriptions = b.descriptionsByType(meta, "", "Abstract")
	doc.Methods = b.descriptionsByType(meta, "Methods")
	doc.OtherDescriptions = b.descriptionsByType(meta, "Other", "SeriesInformation", "TableOfContents", "TechnicalInfo")

	doc.Creators = names(meta.Creators)
	doc.CreatorIDs = nameIdentifiers(meta.Creators)
	doc.Contributors = names(meta.Contributors)
	doc.ContributorIDs = nameIdentifiers(meta.Contributors)
	doc.AffiliationNames = affiliationNames(meta)

	for _, f := range meta.FundingReferences {
		if f.FunderName != "" {
			doc.Funders = append(doc.Funders, f.FunderName)
		}
		if f.FunderIdentifier != "" {
			doc.FunderIDs = append(doc.FunderIDs, f.FunderIdentifier)
		}
	}
	if meta.Publisher != nil {
		doc.Publisher = meta.Publisher.Name
		doc.PublisherID = meta.Publisher.PublisherIdentifier
	}
	if year, err := strconv.Atoi(meta.PublicationYear); err == nil {
		doc.PublicationYear = year
	}
	for _, s := range meta.Subjects {
		doc.Subjects = append(doc.Subjects, s.Subject)
	}
	for _, rel := range meta.RelatedIdentifiers {
		doc.RelatedIDs = append(doc.RelatedIDs, rel.RelatedIdentifier)
	}
	doc.RightsURIs = rightsURIs(meta.RightsList)
	for _, v := range meta.Variables {
		doc.Variables = append(doc.Variables, b.truncate(v))
	}
	for _, d := range meta.Dates {
		if d.DateType != "Coverage" {
			continue
		}
		doc.Temporal = append(doc.Temporal, coverageYears(d.Date)...)
	}

	doc.CreatorsStruct = structJSON(meta.Creators)
	doc.ContributorsStruct = structJSON(meta.Contributors)
	doc.DatesStruct = structJSON(meta.Dates)
	doc.RightsListStruct = structJSON(meta.RightsList)
	doc.FundingStruct = structJSON(meta.FundingReferences)
	doc.RelatedIDsStruct = structJSON(meta.RelatedIdentifiers)
	if len(in.ProviderIDs) > 0 {
		raw, err := json.Marshal(in.ProviderIDs)
		if err == nil {
			doc.ProviderIDsStruct = string(raw)
		}
	}
	return doc
}

// buildTitles populates the typed title fields and the primary title, which
// falls back through the typed variants when no plain title exists. The
// primary title additionally carries the dataset version.
func (b Builder) buildTitles(doc *Document, meta *types.Metadata) {
	byType := map[string][]string{}
	for _, t := range meta.Titles {
		if t.Title == "" {
			continue
		}
		byType[t.TitleType] = append(byType[t.TitleType], b.truncate(t.Title))
	}
	doc.Subtitle = byType["Subtitle"]
	doc.AlternativeTitle = byType["AlternativeTitle"]
	doc.TranslatedTitle = byType["TranslatedTitle"]
	doc.OtherTitle = byType["Other"]

	primary := byType[""]
	for _, fallback := range []string{"Subtitle", "AlternativeTitle", "TranslatedTitle", "Other"} {
		if len(primary) > 0 {
			break
		}
		primary = byType[fallback]
	}
	suffix := versionSuffix(meta.Version)
	for _, title := range primary {
		if suffix != "" {
			title = title + " " + suffix
		}
		doc.Title = append(doc.Title, title)
	}
}

// versionSuffix normalizes a version value to the "V<n>" form shown next
// to the title.
func versionSuffix(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimPrefix(version, "v")
	version = strings.TrimPrefix(version, "V")
	return "V" + version
}

// providerIdentifier picks the identifier the provider itself uses for the
// dataset, looked up by the identifier type conventionally assigned to
// that provider.
func providerIdentifier(meta *types.Metadata) string {
	want := providerIdentifierType(meta.Provider)
	for _, id := range meta.Identifiers {
		if id.IdentifierType == want {
			return id.Identifier
		}
	}
	return ""
}

func providerIdentifierType(provider string) string {
	switch provider {
	case "DataCite", "Dryad":
		return "DOI"
	case "Zenodo":
		return "ZenodoId"
	case "SDR":
		return "DRUID"
	default:
		return provider + "Reference"
	}
}

func (b Builder) descriptionsByType(meta *types.Metadata, descriptionTypes ...string) []string {
	var out []string
	for _, d := range meta.Descriptions {
		for _, dt := range descriptionTypes {
			if d.DescriptionType == dt {
				out = append(out, b.truncate(d.Description))
				break
			}
		}
	}
	return out
}

func names(people []types.PersonOrOrg) []string {
	var out []string
	for _, p := range people {
		if p.Name != "" {
			out = append(out, p.Name)
		}
	}
	return out
}

func nameIdentifiers(people []types.PersonOrOrg) []string {
	var out []string
	for _, p := range people {
		for _, id := range p.NameIdentifiers {
			if id.NameIdentifier != "" {
				out = append(out, id.NameIdentifier)
			}
		}
	}
	return out
}

// affiliationNames unions affiliation names across creators and
// contributors, preserving first-seen order.
func affiliationNames(meta *types.Metadata) []string {
	seen := map[string]bool{}
	var out []string
	for _, people := range [][]types.PersonOrOrg{meta.Creators, meta.Contributors} {
		for _, p := range people {
			for _, aff := range p.Affiliation {
				if aff.Name == "" || seen[aff.Name] {
					continue
				}
				seen[aff.Name] = true
				out = append(out, aff.Name)
			}
		}
	}
	return out
}

func rightsURIs(rights []types.Rights) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rights {
		if r.RightsURI == "" || seen[r.RightsURI] {
			continue
		}
		seen[r.RightsURI] = true
		out = append(out, r.RightsURI)
	}
	return out
}

// structJSON serializes a substructure slice verbatim for the side-car
// fields. Empty slices serialize to nothing rather than "[]" or "null".
func structJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := string(raw)
	if s == "null" || s == "[]" {
		return ""
	}
	return s
}

func (b Builder) truncate(s string) string {
	limit := b.TextLimit
	if limit <= 0 {
		limit = DefaultTextLimit
	}
	if len(s) <= limit {
		return s
	}
	// Cut on a rune boundary so truncation never splits a character.
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
