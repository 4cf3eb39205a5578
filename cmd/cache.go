package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/db"
)

var (
	cacheEnabled    bool
	cacheTTLHours   int
	cacheMaxResults int
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.ClearExpiredCache()
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Removed %d expired entries.\n", removed)
		return nil
	},
}

var cacheConfigCmd = &cobra.Command{
	Use:   "config <extension>",
	Short: "Configure an extension's caching behavior",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetSyncSettings(args[0], cacheEnabled, cacheMaxResults, cacheTTLHours); err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		fmt.Printf("Cache settings updated for %s\n", args[0])
		return nil
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status <extension>",
	Short: "Show an extension's cache settings and staleness",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()

		settings, err := store.SyncSettings(args[0])
		if errors.Is(err, db.ErrNotFound) {
			fmt.Printf("%s has never synced.\n", args[0])
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		fmt.Printf("Cache enabled: %v\n", settings.Enabled)
		fmt.Printf("TTL:           %dh\n", settings.TTLHours)
		fmt.Printf("Max results:   %d\n", settings.MaxResults)
		if settings.LastSync.IsZero() {
			fmt.Println("Last sync:     never")
		} else {
			fmt.Printf("Last sync:     %s\n", settings.LastSync.Format("2006-01-02 15:04"))
		}
		if store.NeedsResync(args[0]) {
			fmt.Println("Stale: a resync is due.")
		}
		return nil
	},
}

func init() {
	cacheConfigCmd.Flags().BoolVar(&cacheEnabled, "enabled", true, "Cache search results")
	cacheConfigCmd.Flags().IntVar(&cacheTTLHours, "ttl", db.DefaultTTLHours, "Cache TTL in hours")
	cacheConfigCmd.Flags().IntVar(&cacheMaxResults, "max-results", 100, "Result cap per query")

	cacheCmd.AddCommand(cacheClearCmd, cacheConfigCmd, cacheStatusCmd)
	rootCmd.AddCommand(cacheCmd)
}
