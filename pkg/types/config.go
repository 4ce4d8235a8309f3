package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "metaharvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HarvestConfig holds settings shared by all provider harvests.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// ExtractDelay is the pause between consecutive detail fetches against
	// a provider API. Providers throttle or ban bursty clients, so this is
	// a correctness setting, not a tuning knob (default 1s).
	ExtractDelay time.Duration `json:"extract_delay" yaml:"extract_delay"`
}

// ProviderConfig holds per-provider harvest settings.
type ProviderConfig struct {
	// Enabled controls whether "metaharvest harvest" includes this provider.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// BaseURL overrides the provider API endpoint (used in tests and for
	// self-hosted instances). Empty means the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Affiliation is the institution filter for listing requests, in
	// whatever form the provider expects (a name for DataCite and Zenodo,
	// a ROR URL for Dryad).
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// Organization is the provider-local organization slug (Redivis).
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// ClientID restricts listings to a single repository account (DataCite).
	ClientID string `json:"client_id,omitempty" yaml:"client_id,omitempty"`

	// ReleaseURL is the released-items list endpoint (sdr). BaseURL serves
	// the per-object metadata for this provider.
	ReleaseURL string `json:"release_url,omitempty" yaml:"release_url,omitempty"`

	// Target is the release channel whose listing is harvested (sdr).
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Path is the directory of dataset YAML files (local provider).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ExtractDelay overrides HarvestConfig.ExtractDelay for this provider.
	// Dryad in particular wants a slower cadence than the rest.
	ExtractDelay time.Duration `json:"extract_delay,omitempty" yaml:"extract_delay,omitempty"`

	// ExtraDatasetIDs pins dataset ids that are always harvested even when
	// the listing does not return them.
	ExtraDatasetIDs []string `json:"extra_dataset_ids,omitempty" yaml:"extra_dataset_ids,omitempty"`

	// Ignore lists dataset ids whose mapping errors are suppressed during
	// a load run. The dataset is skipped, not indexed.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// CheckinURL, when set, is pinged with an HTTP GET after a successful
	// harvest of this provider (uptime-monitor style dead-man switch).
	CheckinURL string `json:"checkin_url,omitempty" yaml:"checkin_url,omitempty"`
}

// SearchIndexConfig holds settings for the Solr connection.
type SearchIndexConfig struct {
	// URL is the Solr core URL (e.g. "http://localhost:8983/solr/datasets").
	URL string `json:"url" yaml:"url"`

	// Timeout is the request timeout for update and commit calls. Commits
	// can be slow on large cores, so this defaults higher than harvest
	// timeouts (120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// LoadConfig holds settings for the transform-and-load stage.
type LoadConfig struct {
	// PreferenceOrder ranks providers from most to least authoritative.
	// The highest-ranked successfully mapped record becomes the base
	// document for a dataset.
	PreferenceOrder []Provider `json:"preference_order" yaml:"preference_order"`

	// MergeFields names the canonical metadata fields that may be filled in
	// from lower-preference providers when the base record lacks them.
	MergeFields []string `json:"merge_fields" yaml:"merge_fields"`

	// TextLimit caps the length of free-text index fields, in characters.
	// Solr rejects text field values over 32,766 bytes; encoding can expand
	// lengths, so the default stays below that (32,000).
	TextLimit int `json:"text_limit" yaml:"text_limit"`

	// CheckinURL, when set, is pinged after a successful load run.
	CheckinURL string `json:"checkin_url,omitempty" yaml:"checkin_url,omitempty"`
}

// Config groups all pipeline configuration.
type Config struct {
	// DatabasePath is the SQLite record store location (default "metaharvest.db").
	DatabasePath string `json:"database_path" yaml:"database_path"`

	Harvest   HarvestConfig               `json:"harvest" yaml:"harvest"`
	Providers map[Provider]ProviderConfig `json:"providers" yaml:"providers"`
	Index     SearchIndexConfig           `json:"index" yaml:"index"`
	Load      LoadConfig                  `json:"load" yaml:"load"`
}

// DefaultPreferenceOrder is used when LoadConfig.PreferenceOrder is unset.
var DefaultPreferenceOrder = []Provider{
	ProviderSDR, ProviderDataCite, ProviderLocal,
	ProviderDryad, ProviderRedivis, ProviderZenodo,
}

// DefaultMergeFields is used when LoadConfig.MergeFields is unset.
var DefaultMergeFields = []string{"variables"}
