// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagedump/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the page text cache",
	Long: `Cache manages the SQLite database that --cache uses to remember the
extracted pages of files it has already read. Entries are keyed by the
SHA-256 of the file contents and the extraction backend.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many documents and pages are cached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(dumpConfig().Cache)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Cache:     %s\n", store.Path())
		fmt.Fprintf(w, "Documents: %d\n", st.Documents)
		fmt.Fprintf(w, "Pages:     %d\n", st.Pages)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.NewStore(dumpConfig().Cache)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d document(s) from %s\n", n, store.Path())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
