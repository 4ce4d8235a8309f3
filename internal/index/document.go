// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds search engine documents from canonical metadata.
package index

// Document is one Solr document. Field names follow the dynamic-field
// suffix conventions of the search schema: _ssi/_ss stored strings,
// _ssim/_sim multivalued facets, _tsim multivalued searchable text,
// _isi/_isim integers. The *_struct_ss fields carry substructures as
// opaque JSON for later re-rendering.
type Document struct {
	ID                    string   `json:"id"`
	LoadID                string   `json:"load_id_ssi"`
	Access                string   `json:"access_ssi,omitempty"`
	Provider              string   `json:"provider_ssi,omitempty"`
	DOI                   string   `json:"doi_ssi,omitempty"`
	ProviderIdentifier    string   `json:"provider_identifier_ssi,omitempty"`
	Title                 []string `json:"title_tsim,omitempty"`
	Subtitle              []string `json:"subtitle_tsim,omitempty"`
	AlternativeTitle      []string `json:"alternative_title_tsim,omitempty"`
	TranslatedTitle       []string `json:"translate_title_tsim,omitempty"`
	OtherTitle            []string `json:"other_title_tsim,omitempty"`
	Descriptions          []string `json:"descriptions_tsim,omitempty"`
	Methods               []string `json:"methods_tsim,omitempty"`
	OtherDescriptions     []string `json:"other_descriptions_tsim,omitempty"`
	Creators              []string `json:"creators_ssim,omitempty"`
	CreatorIDs            []string `json:"creators_ids_sim,omitempty"`
	Contributors          []string `json:"contributors_ssim,omitempty"`
	ContributorIDs        []string `json:"contributors_ids_sim,omitempty"`
	Funders               []string `json:"funders_ssim,omitempty"`
	FunderIDs             []string `json:"funders_ids_sim,omitempty"`
	Publisher             string   `json:"publisher_ssi,omitempty"`
	PublisherID           string   `json:"publisher_id_sim,omitempty"`
	PublicationYear       int      `json:"publication_year_isi,omitempty"`
	Subjects              []string `json:"subjects_ssim,omitempty"`
	Language              string   `json:"language_ssi,omitempty"`
	Sizes                 []string `json:"sizes_ssm,omitempty"`
	Formats               []string `json:"formats_ssim,omitempty"`
	Version               string   `json:"version_ss,omitempty"`
	URL                   string   `json:"url_ss,omitempty"`
	RelatedIDs            []string `json:"related_ids_sim,omitempty"`
	RightsURIs            []string `json:"rights_uris_sim,omitempty"`
	AffiliationNames      []string `json:"affiliation_names_sim,omitempty"`
	Variables             []string `json:"variables_tsim,omitempty"`
	Temporal              []int    `json:"temporal_isim,omitempty"`
	CreatorsStruct        string   `json:"creators_struct_ss,omitempty"`
	ContributorsStruct    string   `json:"contributors_struct_ss,omitempty"`
	DatesStruct           string   `json:"dates_struct_ss,omitempty"`
	RightsListStruct      string   `json:"rights_list_struct_ss,omitempty"`
	FundingStruct         string   `json:"funding_references_struct_ss,omitempty"`
	RelatedIDsStruct      string   `json:"related_identifiers_struct_ss,omitempty"`
	ProviderIDsStruct     string   `json:"provider_identifiers_struct_ss,omitempty"`
}
