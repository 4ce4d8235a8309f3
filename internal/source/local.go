// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// Local reads dataset metadata from a directory of YAML files. The file
// basename is the dataset id and the modified token is the content hash of
// the canonical JSON, so editing a file yields a new record revision.
// Files are already in the canonical metadata shape; Validate rejects
// malformed files at list time so a typo fails the harvest, not the load.
type Local struct {
	Path     string
	Validate func(raw json.RawMessage) error
}

func (l *Local) List(ctx context.Context, yield func(types.ListResult) error) error {
	entries, err := os.ReadDir(l.Path)
	if err != nil {
		return fmt.Errorf("reading local dataset directory %s: %w", l.Path, err)
	}

	// Deterministic order regardless of filesystem.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml")) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := l.readFile(filepath.Join(l.Path, name))
		if err != nil {
			return err
		}
		if l.Validate != nil {
			if err := l.Validate(raw); err != nil {
				return fmt.Errorf("local dataset %s: %w", name, err)
			}
		}
		token, err := types.SourceHash(raw)
		if err != nil {
			return fmt.Errorf("local dataset %s: %w", name, err)
		}
		id := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		res := types.ListResult{ID: id, ModifiedToken: token, Source: raw}
		if err := yield(res); err != nil {
			return err
		}
	}
	return nil
}

// FetchDetail re-reads a single dataset file by id.
func (l *Local) FetchDetail(ctx context.Context, id string) (json.RawMessage, error) {
	for _, ext := range []string{".yml", ".yaml"} {
		path := filepath.Join(l.Path, id+ext)
		if _, err := os.Stat(path); err == nil {
			return l.readFile(path)
		}
	}
	return nil, fmt.Errorf("local dataset %s not found in %s", id, l.Path)
}

// readFile loads a YAML dataset file and converts it to JSON.
func (l *Local) readFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converting %s to JSON: %w", path, err)
	}
	return raw, nil
}
