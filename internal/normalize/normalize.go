// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps raw provider payloads into the canonical metadata
// shape and validates the result against the metadata schema. Each provider
// mapper is a pure function from payload to metadata; no mapper performs
// I/O.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// MappingError reports that a payload could not be normalized, either
// because the payload was malformed or because the mapped metadata failed
// schema validation. Violations holds the individual schema violations when
// validation was the cause.
type MappingError struct {
	Provider   types.Provider
	Violations []string
	Err        error
}

func (e *MappingError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("mapping %s metadata: %s", e.Provider, strings.Join(e.Violations, ", "))
	}
	return fmt.Sprintf("mapping %s metadata: %v", e.Provider, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// Normalize maps a raw provider payload to canonical metadata and validates
// it. Any failure is returned as a *MappingError.
func Normalize(provider types.Provider, raw json.RawMessage) (*types.Metadata, error) {
	var (
		meta *types.Metadata
		err  error
	)
	switch provider {
	case types.ProviderDataCite:
		meta, err = mapDataCite(raw)
	case types.ProviderDryad:
		meta, err = mapDryad(raw)
	case types.ProviderRedivis:
		meta, err = mapRedivis(raw)
	case types.ProviderZenodo:
		meta, err = mapZenodo(raw)
	case types.ProviderSDR:
		meta, err = mapSDR(raw)
	case types.ProviderLocal:
		meta, err = mapLocal(raw)
	default:
		return nil, &MappingError{Provider: provider, Err: fmt.Errorf("no mapper for provider %q", provider)}
	}
	if err != nil {
		var merr *MappingError
		if errors.As(err, &merr) {
			return nil, merr
		}
		return nil, &MappingError{Provider: provider, Err: err}
	}

	if violations := Validate(meta); len(violations) > 0 {
		return nil, &MappingError{Provider: provider, Violations: violations}
	}
	return meta, nil
}

// otherScheme reports whether an identifier scheme is the literal "other",
// which upstream catalogs use for identifiers of unknown provenance. Such
// identifiers are dropped rather than propagated.
func otherScheme(scheme string) bool {
	return strings.EqualFold(scheme, "other")
}

// personName returns name when present, else "Family, Given" when both
// parts are known.
func personName(name, given, family string) string {
	if name != "" {
		return name
	}
	if given == "" || family == "" {
		return ""
	}
	return family + ", " + given
}
