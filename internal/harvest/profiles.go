// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// Profile supplies the provider-specific pieces of a harvest: where the
// DOI lives in a detail payload, and how to derive a modified token from a
// payload fetched for a pinned id.
type Profile struct {
	DOI           func(raw json.RawMessage) string
	ModifiedToken func(raw json.RawMessage) string
}

// ProfileFor returns the harvest profile for a provider.
func ProfileFor(provider types.Provider) (Profile, error) {
	switch provider {
	case types.ProviderDataCite:
		return dataCiteProfile, nil
	case types.ProviderDryad:
		return dryadProfile, nil
	case types.ProviderRedivis:
		return redivisProfile, nil
	case types.ProviderZenodo:
		return zenodoProfile, nil
	case types.ProviderSDR:
		return sdrProfile, nil
	case types.ProviderLocal:
		return localProfile, nil
	}
	return Profile{}, fmt.Errorf("unsupported provider: %s", provider)
}

var dataCiteProfile = Profile{
	DOI: func(raw json.RawMessage) string {
		var v struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		json.Unmarshal(raw, &v)
		return v.Data.ID
	},
	ModifiedToken: func(raw json.RawMessage) string {
		var v struct {
			Data struct {
				Attributes struct {
					Updated string `json:"updated"`
				} `json:"attributes"`
			} `json:"data"`
		}
		json.Unmarshal(raw, &v)
		return v.Data.Attributes.Updated
	},
}

var dryadProfile = Profile{
	DOI: func(raw json.RawMessage) string {
		var v struct {
			Identifier string `json:"identifier"`
		}
		json.Unmarshal(raw, &v)
		return strings.TrimPrefix(v.Identifier, "doi:")
	},
	ModifiedToken: func(raw json.RawMessage) string {
		var v struct {
			VersionNumber int `json:"versionNumber"`
		}
		json.Unmarshal(raw, &v)
		return fmt.Sprint(v.VersionNumber)
	},
}

var redivisProfile = Profile{
	DOI: func(raw json.RawMessage) string {
		var v struct {
			DOI string `json:"doi"`
		}
		json.Unmarshal(raw, &v)
		return v.DOI
	},
	ModifiedToken: func(raw json.RawMessage) string {
		var v struct {
			UpdatedAt int64 `json:"updatedAt"`
		}
		json.Unmarshal(raw, &v)
		return fmt.Sprint(v.UpdatedAt)
	},
}

var zenodoProfile = Profile{
	DOI: func(raw json.RawMessage) string {
		var v struct {
			DOI string `json:"doi"`
		}
		json.Unmarshal(raw, &v)
		return v.DOI
	},
	ModifiedToken: func(raw json.RawMessage) string {
		var v struct {
			Revision int `json:"revision"`
		}
		json.Unmarshal(raw, &v)
		return fmt.Sprint(v.Revision)
	},
}

// The repository stores a DOI in one of two places: bare under
// identification, or URL-form among the description identifiers.
var sdrProfile = Profile{
	DOI: func(raw json.RawMessage) string {
		var v struct {
			Identification struct {
				DOI string `json:"doi"`
			} `json:"identification"`
			Description struct {
				Identifier []struct {
					Type  string `json:"type"`
					Value string `json:"value"`
				} `json:"identifier"`
			} `json:"description"`
		}
		json.Unmarshal(raw, &v)
		if v.Identification.DOI != "" {
			return v.Identification.DOI
		}
		for _, id := range v.Description.Identifier {
			if id.Type == "DOI" {
				return doiFromURL(id.Value)
			}
		}
		return ""
	},
	ModifiedToken: func(raw json.RawMessage) string {
		var v struct {
			Modified string `json:"modified"`
		}
		json.Unmarshal(raw, &v)
		return v.Modified
	},
}

var localProfile = Profile{
	DOI: func(raw json.RawMessage) string {
		var v struct {
			Identifiers []struct {
				Identifier     string `json:"identifier"`
				IdentifierType string `json:"identifier_type"`
			} `json:"identifiers"`
		}
		json.Unmarshal(raw, &v)
		for _, id := range v.Identifiers {
			if id.IdentifierType == "DOI" {
				return id.Identifier
			}
		}
		return ""
	},
	ModifiedToken: func(raw json.RawMessage) string {
		token, err := types.SourceHash(raw)
		if err != nil {
			return ""
		}
		return token
	},
}

// doiFromURL strips the resolver prefix from a URL-form DOI.
func doiFromURL(value string) string {
	u, err := url.Parse(value)
	if err != nil || u.Path == "" {
		return value
	}
	return strings.TrimPrefix(u.Path, "/")
}
