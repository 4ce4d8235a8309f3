// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// mapLocal handles locally curated records, which are authored directly in
// the canonical shape. The raw document is validated before decoding so
// that stray properties are rejected rather than silently dropped.
func mapLocal(raw json.RawMessage) (*types.Metadata, error) {
	if violations := validateRaw(raw); len(violations) > 0 {
		return nil, &MappingError{Provider: types.ProviderLocal, Violations: violations}
	}
	var meta types.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if meta.Provider == "" {
		meta.Provider = types.ProviderLocal.DisplayName()
	}
	return &meta, nil
}
