// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/metaharvest/pkg/types"
)

type redivisPayload struct {
	QualifiedReference string `json:"qualifiedReference"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Methodology        string `json:"methodologyMarkdown"`
	DOI                string `json:"doi"`
	URL                string `json:"url"`
	CreatedAt          int64  `json:"createdAt"`
	UpdatedAt          int64  `json:"updatedAt"`
	PublicAccessLevel  string `json:"publicAccessLevel"`
	TotalNumBytes      int64  `json:"totalNumBytes"`
	Tags               []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Tables []struct {
		Name      string `json:"name"`
		Variables []struct {
			Name string `json:"name"`
		} `json:"variables"`
	} `json:"tables"`
}

func mapRedivis(raw json.RawMessage) (*types.Metadata, error) {
	var payload redivisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	meta := &types.Metadata{
		Titles:   []types.Title{{Title: payload.Name}},
		URL:      payload.URL,
		Access:   "Restricted",
		Provider: types.ProviderRedivis.DisplayName(),
	}
	// Anything short of a fully hidden dataset exposes at least its
	// metadata and table schemas publicly.
	if payload.PublicAccessLevel != "" && payload.PublicAccessLevel != "none" {
		meta.Access = "Public"
	}

	if payload.QualifiedReference != "" {
		meta.Identifiers = append(meta.Identifiers, types.Identifier{
			Identifier:     payload.QualifiedReference,
			IdentifierType: "RedivisReference",
		})
	}
	if payload.DOI != "" {
		meta.Identifiers = append(meta.Identifiers, types.Identifier{
			Identifier:     payload.DOI,
			IdentifierType: "DOI",
		})
	}
	if payload.Description != "" {
		meta.Descriptions = append(meta.Descriptions, types.Description{
			Description:     payload.Description,
			DescriptionType: "Abstract",
		})
	}
	if payload.Methodology != "" {
		meta.Descriptions = append(meta.Descriptions, types.Description{
			Description:     payload.Methodology,
			DescriptionType: "Methods",
		})
	}
	if payload.CreatedAt > 0 {
		created := time.UnixMilli(payload.CreatedAt).UTC()
		meta.PublicationYear = created.Format("2006")
		meta.Dates = append(meta.Dates, types.Date{
			Date:     created.Format(time.DateOnly),
			DateType: "Issued",
		})
	}
	if payload.UpdatedAt > 0 {
		meta.Dates = append(meta.Dates, types.Date{
			Date:     time.UnixMilli(payload.UpdatedAt).UTC().Format(time.DateOnly),
			DateType: "Updated",
		})
	}
	for _, tag := range payload.Tags {
		meta.Subjects = append(meta.Subjects, types.Subject{Subject: tag.Name})
	}
	if payload.TotalNumBytes > 0 {
		meta.Sizes = []string{fmt.Sprintf("%d bytes", payload.TotalNumBytes)}
	}
	// Table columns become the dataset's variable list, the one field other
	// providers fill from Redivis during merging.
	for _, table := range payload.Tables {
		for _, v := range table.Variables {
			if v.Name == "" {
				continue
			}
			meta.Variables = append(meta.Variables, v.Name)
		}
	}
	return meta, nil
}
