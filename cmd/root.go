package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/knowdock/internal/config"
	"github.com/user/knowdock/internal/db"
	"github.com/user/knowdock/internal/extensions"
	"github.com/user/knowdock/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "knowdock",
	Short: "Personal knowledge aggregation TUI",
	Long:  "A TUI app to search arXiv, Wikipedia, Open Library, Crossref and DOAJ, with bookmarks, a reading library, offline downloads, projects, tags and annotations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, registry, err := openEnv()
		if err != nil {
			return err
		}
		defer store.Close()
		return tui.Run(cfg, store, registry)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openEnv loads the config, opens the store and builds the extension
// registry with every extension the config enables.
func openEnv() (*config.Config, *db.Store, *extensions.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := db.NewStore(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	registry := extensions.NewRegistry(store)
	enabled := cfg.EnabledExtensions()
	for _, ext := range []extensions.Extension{
		extensions.NewArxiv(),
		extensions.NewWikipedia(),
		extensions.NewOpenLibrary(),
		extensions.NewCrossref(),
		extensions.NewDOAJ(),
	} {
		if !enabled[ext.Info().Name] {
			continue
		}
		if err := registry.Register(ext); err != nil {
			store.Close()
			return nil, nil, nil, fmt.Errorf("failed to register extension %s: %w", ext.Info().Name, err)
		}
	}

	return cfg, store, registry, nil
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.knowdock)")
}
