// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the metaharvest CLI.
// Each pipeline stage is a subcommand: harvest pulls dataset metadata from
// the configured providers into the record store, load transforms the
// stored records and publishes them to the search index, and sets inspects
// the record store.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metaharvest/internal/secrets"
	"github.com/pdiddy/metaharvest/internal/solr"
	"github.com/pdiddy/metaharvest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secret returns the token loaded for key, or "" when no file provided it.
func secret(key string) string {
	return loadedSecrets[key]
}

// rootCmd is the base command for the metaharvest CLI.
var rootCmd = &cobra.Command{
	Use:   "metaharvest",
	Short: "Harvest, merge, and index dataset metadata",
	Long: `metaharvest aggregates dataset metadata from institutional repositories
and registries (SDR, DataCite, Dryad, Redivis, Zenodo, plus local YAML
files), reconciles records that describe the same dataset, and publishes
merged documents to a Solr index.

Harvesting and loading are separate stages: harvest persists immutable
provider snapshots in a SQLite record store, load transforms the latest
complete snapshots and replaces the index generation atomically.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./metaharvest.yaml or ~/.config/metaharvest/config.yaml)")
	rootCmd.PersistentFlags().String("database", "", "SQLite record store path (default: metaharvest.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("metaharvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "metaharvest"))
		}
	}

	viper.SetEnvPrefix("METAHARVEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the resolved config file into a Config and fills in
// defaults. A handful of settings can also come from the environment
// (METAHARVEST_DATABASE_PATH, METAHARVEST_INDEX_URL) or flags.
func loadConfig() (*types.Config, error) {
	cfg := &types.Config{}
	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := viper.GetString("database_path"); v != "" {
		cfg.DatabasePath = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("database"); v != "" {
		cfg.DatabasePath = v
	}
	if v := viper.GetString("index.url"); v != "" {
		cfg.Index.URL = v
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "metaharvest.db"
	}
	if cfg.Harvest.Timeout == 0 {
		cfg.Harvest.Timeout = 60 * time.Second
	}
	if cfg.Harvest.UserAgent == "" {
		cfg.Harvest.UserAgent = "metaharvest/" + version
	}
	if cfg.Harvest.ExtractDelay == 0 {
		cfg.Harvest.ExtractDelay = time.Second
	}
	if cfg.Index.URL == "" {
		cfg.Index.URL = "http://localhost:8983/solr/datasets"
	}
	if cfg.Index.Timeout == 0 {
		cfg.Index.Timeout = solr.DefaultTimeout
	}
	if cfg.Load.PreferenceOrder == nil {
		cfg.Load.PreferenceOrder = types.DefaultPreferenceOrder
	}
	if cfg.Load.MergeFields == nil {
		cfg.Load.MergeFields = types.DefaultMergeFields
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
