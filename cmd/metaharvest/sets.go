// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/metaharvest/internal/store"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List harvested record sets",
	Long: `Sets lists every record set in the store, newest first, with its
provider, listing arguments, record count, and completeness. Incomplete
sets are leftovers of failed harvests; the load stage never reads them.`,
	RunE: runSets,
}

func init() {
	rootCmd.AddCommand(setsCmd)
}

func runSets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	sets, err := st.ListSets(context.Background())
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("No record sets. Run \"metaharvest harvest\" first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tRECORDS\tCOMPLETE\tCREATED\tLIST ARGS")
	for _, set := range sets {
		complete := "no"
		if set.Complete {
			complete = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			set.ID, set.Provider, set.RecordCount, complete,
			set.CreatedAt.Format("2006-01-02 15:04"), set.ListArgs)
	}
	return w.Flush()
}
