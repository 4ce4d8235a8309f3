// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// Provider identifies a metadata provider kind. Mapper dispatch and
// harvest configuration both key off this value.
type Provider string

const (
	ProviderSDR      Provider = "sdr"
	ProviderDataCite Provider = "datacite"
	ProviderDryad    Provider = "dryad"
	ProviderRedivis  Provider = "redivis"
	ProviderZenodo   Provider = "zenodo"
	ProviderLocal    Provider = "local"
)

// DisplayName returns the provider name as it appears in canonical
// metadata and index documents (e.g. "DataCite", "SDR").
func (p Provider) DisplayName() string {
	switch p {
	case ProviderSDR:
		return "SDR"
	case ProviderDataCite:
		return "DataCite"
	case ProviderDryad:
		return "Dryad"
	case ProviderRedivis:
		return "Redivis"
	case ProviderZenodo:
		return "Zenodo"
	case ProviderLocal:
		return "Local"
	}
	return string(p)
}

// ListResult is one entry of a provider listing. ModifiedToken is an
// opaque change signal (version, timestamp, revision); the only thing the
// pipeline does with it is compare it for equality. Source is set when the
// listing response already carried the full payload, saving a detail fetch.
type ListResult struct {
	ID            string
	ModifiedToken string
	Source        json.RawMessage
}

// DatasetRecord is one provider's metadata for one dataset at one observed
// revision. Records are content-addressed and never mutated: a changed
// dataset yields a new row and the old rows remain for provenance.
type DatasetRecord struct {
	ID            int64
	Provider      Provider
	DatasetID     string
	ModifiedToken string
	DOI           string
	Source        json.RawMessage
	SourceHash    string
	CreatedAt     time.Time
}

// ExternalDatasetID returns the cross-provider identity for the dataset:
// the DOI when present, otherwise "{provider}-{dataset_id}". Records from
// different providers that share a DOI describe the same dataset.
func (r DatasetRecord) ExternalDatasetID() string {
	if r.DOI != "" {
		return r.DOI
	}
	return fmt.Sprintf("%s-%s", r.Provider, r.DatasetID)
}

// RecordSet is an immutable snapshot of everything a provider listed during
// one harvest invocation. Complete flips true only after every listing
// entry has been resolved to a stored record; incomplete sets are never
// treated as authoritative.
type RecordSet struct {
	ID        int64
	Provider  Provider
	Extractor string
	ListArgs  string
	Complete  bool
	CreatedAt time.Time
}

// SourceHash returns the MD5 hex digest of the canonical serialization of
// raw. The payload is round-tripped through a map so that key order is
// deterministic: two payloads with identical structure hash identically
// regardless of how the provider ordered its JSON keys.
func SourceHash(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("parsing source payload: %w", err)
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonicalizing source payload: %w", err)
	}
	return fmt.Sprintf("%x", md5.Sum(canonical)), nil
}
