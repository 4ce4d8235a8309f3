// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// Metadata is the canonical, provider-agnostic dataset metadata shape.
// Every provider mapper produces one of these; the schema in
// internal/normalize enforces its invariants (at least one title, creators
// with names, 4-digit publication year) before it reaches the merge and
// index stages. Metadata is transient: it is rebuilt from stored source
// payloads on every load run and never persisted.
type Metadata struct {
	Titles             []Title             `json:"titles"`
	Creators           []PersonOrOrg       `json:"creators,omitempty"`
	Contributors       []PersonOrOrg       `json:"contributors,omitempty"`
	Publisher          *Publisher          `json:"publisher,omitempty"`
	PublicationYear    string              `json:"publication_year,omitempty"`
	Subjects           []Subject           `json:"subjects,omitempty"`
	Descriptions       []Description       `json:"descriptions,omitempty"`
	Dates              []Date              `json:"dates,omitempty"`
	Language           string              `json:"language,omitempty"`
	Version            string              `json:"version,omitempty"`
	Identifiers        []Identifier        `json:"identifiers,omitempty"`
	RelatedIdentifiers []RelatedIdentifier `json:"related_identifiers,omitempty"`
	Sizes              []string            `json:"sizes,omitempty"`
	Formats            []string            `json:"formats,omitempty"`
	RightsList         []Rights            `json:"rights_list,omitempty"`
	FundingReferences  []FundingReference  `json:"funding_references,omitempty"`
	GeoLocations       []GeoLocation       `json:"geo_locations,omitempty"`
	Variables          []string            `json:"variables,omitempty"`
	URL                string              `json:"url,omitempty"`
	Access             string              `json:"access,omitempty"`
	Provider           string              `json:"provider,omitempty"`
}

// Title is a dataset title. TitleType is empty for the main title, or one
// of "Subtitle", "AlternativeTitle", "TranslatedTitle", "Other".
type Title struct {
	Title     string `json:"title"`
	TitleType string `json:"title_type,omitempty"`
}

// PersonOrOrg is a creator or contributor.
type PersonOrOrg struct {
	Name            string           `json:"name"`
	NameType        string           `json:"name_type,omitempty"`
	ContributorType string           `json:"contributor_type,omitempty"`
	GivenName       string           `json:"given_name,omitempty"`
	FamilyName      string           `json:"family_name,omitempty"`
	NameIdentifiers []NameIdentifier `json:"name_identifiers,omitempty"`
	Affiliation     []Affiliation    `json:"affiliation,omitempty"`
}

// NameIdentifier is a scheme-qualified identifier for a person or
// organization (e.g. an ORCID).
type NameIdentifier struct {
	NameIdentifier       string `json:"name_identifier"`
	NameIdentifierScheme string `json:"name_identifier_scheme,omitempty"`
	SchemeURI            string `json:"scheme_uri,omitempty"`
}

// Affiliation is an organization a creator or contributor belongs to.
type Affiliation struct {
	Name                        string `json:"name"`
	AffiliationIdentifier       string `json:"affiliation_identifier,omitempty"`
	AffiliationIdentifierScheme string `json:"affiliation_identifier_scheme,omitempty"`
	SchemeURI                   string `json:"scheme_uri,omitempty"`
}

// Publisher is the publishing organization.
type Publisher struct {
	Name                      string `json:"name"`
	PublisherIdentifier       string `json:"publisher_identifier,omitempty"`
	PublisherIdentifierScheme string `json:"publisher_identifier_scheme,omitempty"`
}

// Subject is a keyword or controlled subject term.
type Subject struct {
	Subject       string `json:"subject"`
	SubjectScheme string `json:"subject_scheme,omitempty"`
	ValueURI      string `json:"value_uri,omitempty"`
}

// Description is a typed free-text description. DescriptionType is one of
// "Abstract", "Methods", "SeriesInformation", "TableOfContents",
// "TechnicalInfo", "Other", or empty.
type Description struct {
	Description     string `json:"description"`
	DescriptionType string `json:"description_type,omitempty"`
}

// Date is a typed date value. A Date whose value contains "/" denotes an
// inclusive range. DateType is one of "Issued", "Created", "Updated",
// "Coverage", and friends.
type Date struct {
	Date            string `json:"date"`
	DateType        string `json:"date_type,omitempty"`
	DateInformation string `json:"date_information,omitempty"`
}

// Identifier is a typed dataset identifier (DOI, provider reference, ...).
type Identifier struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifier_type,omitempty"`
}

// RelatedIdentifier points at a related resource.
type RelatedIdentifier struct {
	RelatedIdentifier     string `json:"related_identifier"`
	RelationType          string `json:"relation_type,omitempty"`
	ResourceTypeGeneral   string `json:"resource_type_general,omitempty"`
	RelatedIdentifierType string `json:"related_identifier_type,omitempty"`
}

// Rights is a license or rights statement.
type Rights struct {
	Rights                 string `json:"rights,omitempty"`
	RightsURI              string `json:"rights_uri,omitempty"`
	RightsIdentifier       string `json:"rights_identifier,omitempty"`
	RightsIdentifierScheme string `json:"rights_identifier_scheme,omitempty"`
}

// FundingReference records a funder and optionally an award.
type FundingReference struct {
	FunderName           string `json:"funder_name,omitempty"`
	FunderIdentifier     string `json:"funder_identifier,omitempty"`
	FunderIdentifierType string `json:"funder_identifier_type,omitempty"`
	AwardNumber          string `json:"award_number,omitempty"`
	AwardURI             string `json:"award_uri,omitempty"`
	AwardTitle           string `json:"award_title,omitempty"`
}

// GeoLocation is a named place the dataset covers.
type GeoLocation struct {
	GeoLocationPlace string `json:"geo_location_place"`
}

// JSON returns the canonical JSON serialization of the metadata.
func (m *Metadata) JSON() ([]byte, error) {
	return json.Marshal(m)
}
