// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metaharvest/internal/index"
	"github.com/pdiddy/metaharvest/internal/load"
	"github.com/pdiddy/metaharvest/internal/merge"
	"github.com/pdiddy/metaharvest/internal/selector"
	"github.com/pdiddy/metaharvest/internal/solr"
	"github.com/pdiddy/metaharvest/internal/store"
	"github.com/pdiddy/metaharvest/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Transform stored records and publish them to the search index",
	Long: `Load takes the latest complete snapshot of every harvest configuration,
groups records that describe the same dataset, merges each group by
provider preference, and indexes the resulting documents under a fresh
load id. After the commit, documents from earlier loads are deleted, so
datasets a provider retracted disappear from the index.

With --dry-run the documents are built and counted but nothing is sent
to the index.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().Bool("fail-fast", true, "abort on the first mapping error instead of skipping the dataset")
	loadCmd.Flags().Bool("dry-run", false, "build documents without touching the index")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	failFast, _ := cmd.Flags().GetBool("fail-fast")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	policy := merge.Policy{
		Preference:  cfg.Load.PreferenceOrder,
		MergeFields: cfg.Load.MergeFields,
		Ignore:      ignoreLists(cfg),
	}
	builder := index.Builder{TextLimit: cfg.Load.TextLimit}
	client := solr.New(cfg.Index.URL, cfg.Index.Timeout)

	loader := load.New(selector.New(st), policy, builder, client, os.Stdout)

	ctx := context.Background()
	stats, err := loader.Run(ctx, load.Options{FailFast: failFast, DryRun: dryRun})
	if err != nil {
		return err
	}
	if !dryRun {
		checkin(ctx, cfg.Index.Timeout, cfg.Load.CheckinURL)
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d dataset(s) failed mapping", stats.Failed)
	}
	return nil
}

// ignoreLists collects the per-provider ignore lists into the shape the
// merge policy wants.
func ignoreLists(cfg *types.Config) map[types.Provider][]string {
	ignore := make(map[types.Provider][]string)
	for provider, pcfg := range cfg.Providers {
		if len(pcfg.Ignore) > 0 {
			ignore[provider] = pcfg.Ignore
		}
	}
	return ignore
}
