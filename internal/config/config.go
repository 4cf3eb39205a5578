package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir      string           `mapstructure:"data_dir"`
	DownloadsDir string           `mapstructure:"downloads_dir"`
	Cache        CacheConfig      `mapstructure:"cache"`
	Extensions   ExtensionsConfig `mapstructure:"extensions"`
}

type CacheConfig struct {
	TTLHours   int `mapstructure:"ttl_hours"`
	MaxResults int `mapstructure:"max_results"`
}

type ExtensionsConfig struct {
	Arxiv       bool `mapstructure:"arxiv"`
	Wikipedia   bool `mapstructure:"wikipedia"`
	OpenLibrary bool `mapstructure:"openlibrary"`
	Crossref    bool `mapstructure:"crossref"`
	DOAJ        bool `mapstructure:"doaj"`
}

func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".knowdock")

	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("downloads_dir", filepath.Join(defaultDataDir, "downloads"))
	viper.SetDefault("cache.ttl_hours", 24)
	viper.SetDefault("cache.max_results", 100)
	viper.SetDefault("extensions.arxiv", true)
	viper.SetDefault("extensions.wikipedia", true)
	viper.SetDefault("extensions.openlibrary", true)
	viper.SetDefault("extensions.crossref", true)
	viper.SetDefault("extensions.doaj", true)

	// Environment variable overrides
	viper.SetEnvPrefix("KNOWDOCK")
	viper.AutomaticEnv()
	viper.BindEnv("data_dir", "KNOWDOCK_DATA_DIR")
	viper.BindEnv("downloads_dir", "KNOWDOCK_DOWNLOADS_DIR")
	viper.BindEnv("cache.ttl_hours", "KNOWDOCK_CACHE_TTL_HOURS")
	viper.BindEnv("cache.max_results", "KNOWDOCK_CACHE_MAX_RESULTS")

	// Config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultDataDir)

	// Read config file if exists (ignore error if not found)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "knowdock.db")
}

// EnabledExtensions maps extension names to their config switch. A name
// missing here is considered enabled; the store's per-extension flag still
// applies on top.
func (c *Config) EnabledExtensions() map[string]bool {
	return map[string]bool{
		"arxiv":       c.Extensions.Arxiv,
		"wikipedia":   c.Extensions.Wikipedia,
		"openlibrary": c.Extensions.OpenLibrary,
		"crossref":    c.Extensions.Crossref,
		"doaj":        c.Extensions.DOAJ,
	}
}
