// Package config loads the service configuration from a YAML file, with
// sensible defaults when the file or individual keys are absent. Secrets
// (DATABASE_URL) stay in the environment, loaded via godotenv by the
// binaries.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the full service configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Provider struct {
		// Kind selects the fetcher: "api" or "scrape".
		Kind          string `yaml:"kind"`
		APIBaseURL    string `yaml:"api_base_url"`
		ScrapeBaseURL string `yaml:"scrape_base_url"`
		CacheDir      string `yaml:"cache_dir"`
	} `yaml:"provider"`

	Pipeline struct {
		BatchLimit int  `yaml:"batch_limit"`
		Persist    bool `yaml:"persist"`
	} `yaml:"pipeline"`

	// IndustryTable is the path of the HJSON multiples resource; empty means
	// compiled-in defaults.
	IndustryTable string `yaml:"industry_table"`

	// Weights overrides the consensus weight table per method identifier.
	Weights map[string]float64 `yaml:"weights"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Provider.Kind = "api"
	cfg.Provider.APIBaseURL = "https://api.stockdata.local/v1"
	cfg.Provider.ScrapeBaseURL = "https://ratios.stockdata.local"
	cfg.Pipeline.BatchLimit = 4
	return cfg
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Pipeline.BatchLimit <= 0 {
		cfg.Pipeline.BatchLimit = 4
	}
	return cfg, nil
}
