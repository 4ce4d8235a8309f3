// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metaharvest/internal/harvest"
	"github.com/pdiddy/metaharvest/internal/normalize"
	"github.com/pdiddy/metaharvest/internal/source"
	"github.com/pdiddy/metaharvest/internal/store"
	"github.com/pdiddy/metaharvest/pkg/types"
)

const (
	sdrReleaseURL = "https://purl-fetcher.stanford.edu"
	sdrObjectURL  = "https://sdr-api.stanford.edu"
	sdrTarget     = "Dataworks"
)

// harvestOrder fixes the order providers run in when none are named.
var harvestOrder = []types.Provider{
	types.ProviderSDR, types.ProviderDataCite, types.ProviderDryad,
	types.ProviderRedivis, types.ProviderZenodo, types.ProviderLocal,
}

var harvestCmd = &cobra.Command{
	Use:   "harvest [provider...]",
	Short: "Pull dataset metadata from the configured providers",
	Long: `Harvest drains each provider's dataset listing, fetches the metadata of
datasets not already stored at the same revision, and records the result
as a complete snapshot. A failed harvest leaves an incomplete snapshot
behind; the load stage ignores it and keeps using the previous one.

With no arguments every enabled provider is harvested. Naming providers
restricts the run (e.g. "metaharvest harvest dryad zenodo").`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().Duration("delay", 0, "pause between detail fetches (default from config, 1s)")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	delayFlag, _ := cmd.Flags().GetDuration("delay")

	providers, err := selectProviders(cfg, args)
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		return fmt.Errorf("no providers enabled; check the providers section of the config")
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	failed := 0
	for _, provider := range providers {
		pcfg := cfg.Providers[provider]
		if err := harvestProvider(ctx, st, cfg, provider, pcfg, delayFlag); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error: harvesting %s: %v\n", provider, err)
			continue
		}
		checkin(ctx, cfg.Harvest.Timeout, pcfg.CheckinURL)
	}
	if failed > 0 {
		return fmt.Errorf("%d provider harvest(s) failed", failed)
	}
	return nil
}

// selectProviders resolves the provider list for a run: the named ones, or
// every enabled one in the fixed harvest order.
func selectProviders(cfg *types.Config, args []string) ([]types.Provider, error) {
	if len(args) > 0 {
		providers := make([]types.Provider, 0, len(args))
		for _, arg := range args {
			provider := types.Provider(arg)
			if _, err := harvest.ProfileFor(provider); err != nil {
				return nil, err
			}
			providers = append(providers, provider)
		}
		return providers, nil
	}

	var providers []types.Provider
	for _, provider := range harvestOrder {
		if cfg.Providers[provider].Enabled {
			providers = append(providers, provider)
		}
	}
	return providers, nil
}

func harvestProvider(ctx context.Context, st *store.Store, cfg *types.Config,
	provider types.Provider, pcfg types.ProviderConfig, delayFlag time.Duration) error {
	src, err := buildSource(provider, cfg.Harvest, pcfg)
	if err != nil {
		return err
	}
	profile, err := harvest.ProfileFor(provider)
	if err != nil {
		return err
	}
	listArgs, err := listArgsFor(pcfg)
	if err != nil {
		return err
	}

	delay := cfg.Harvest.ExtractDelay
	if pcfg.ExtractDelay != 0 {
		delay = pcfg.ExtractDelay
	}
	if delayFlag != 0 {
		delay = delayFlag
	}

	h := harvest.New(st, delay, os.Stdout)
	_, err = h.Harvest(ctx, harvest.Request{
		Source:    src,
		Profile:   profile,
		Provider:  provider,
		Extractor: string(provider),
		ListArgs:  listArgs,
		ExtraIDs:  pcfg.ExtraDatasetIDs,
	})
	return err
}

// listArgsFor serializes the listing-relevant provider settings. The
// selector keys "latest complete snapshot" lookups on this string, so only
// settings that change what a listing returns belong here.
func listArgsFor(pcfg types.ProviderConfig) (string, error) {
	args := struct {
		Affiliation  string `json:"affiliation,omitempty"`
		Organization string `json:"organization,omitempty"`
		ClientID     string `json:"client_id,omitempty"`
		Target       string `json:"target,omitempty"`
		Path         string `json:"path,omitempty"`
	}{
		Affiliation:  pcfg.Affiliation,
		Organization: pcfg.Organization,
		ClientID:     pcfg.ClientID,
		Target:       pcfg.Target,
		Path:         pcfg.Path,
	}
	out, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func buildSource(provider types.Provider, hcfg types.HarvestConfig, pcfg types.ProviderConfig) (source.Source, error) {
	hc := &http.Client{Timeout: hcfg.Timeout}

	switch provider {
	case types.ProviderDataCite:
		return source.NewDataCite(hc, hcfg, pcfg.BaseURL, pcfg.Affiliation, pcfg.ClientID), nil
	case types.ProviderDryad:
		return source.NewDryad(hc, hcfg, pcfg.BaseURL, pcfg.Affiliation), nil
	case types.ProviderRedivis:
		if pcfg.Organization == "" {
			return nil, fmt.Errorf("redivis: organization is required")
		}
		return source.NewRedivis(hc, hcfg, pcfg.BaseURL, pcfg.Organization, secret("redivis-api-token")), nil
	case types.ProviderZenodo:
		return source.NewZenodo(hc, hcfg, pcfg.BaseURL, pcfg.Affiliation, secret("zenodo-api-token")), nil
	case types.ProviderSDR:
		releaseURL := pcfg.ReleaseURL
		if releaseURL == "" {
			releaseURL = sdrReleaseURL
		}
		objectURL := pcfg.BaseURL
		if objectURL == "" {
			objectURL = sdrObjectURL
		}
		target := pcfg.Target
		if target == "" {
			target = sdrTarget
		}
		return source.NewSDR(hc, hcfg, releaseURL, objectURL, target, secret("sdr-token")), nil
	case types.ProviderLocal:
		if pcfg.Path == "" {
			return nil, fmt.Errorf("local: path is required")
		}
		return &source.Local{Path: pcfg.Path, Validate: normalize.ValidateJSON}, nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", provider)
}

// checkin pings a monitoring URL after a successful stage. Failures are
// reported but never fail the run; the monitor notices the silence.
func checkin(ctx context.Context, timeout time.Duration, url string) {
	if url == "" {
		return
	}
	hc := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: check-in %s: %v\n", url, err)
		return
	}
	resp, err := hc.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: check-in %s: %v\n", url, err)
		return
	}
	resp.Body.Close()
}
