// Package config loads tool configuration by layering defaults, an optional
// YAML file, and environment variables.
//
// Precedence (low to high):
//  1. defaults (Default())
//  2. YAML file named by MCELO_CONFIG, if set
//  3. MCELO_* environment variables (MCELO_DATA_DIR, MCELO_TEAM, ...)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "MCELO_"

// Config holds all tool settings. Delay bounds are in milliseconds so they
// round-trip cleanly through env vars and YAML.
type Config struct {
	// DataDir is where the registry, event files, and ratings live.
	DataDir string `koanf:"data_dir"`

	// BaseURL is the pairing site root.
	BaseURL string `koanf:"base_url"`

	// Team is the default team filter applied when scraping.
	Team string `koanf:"team"`

	// FetchTimeoutMS bounds a single page request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// PageDelayMinMS and PageDelayMaxMS bound the polite delay after each
	// page fetch.
	PageDelayMinMS int `koanf:"page_delay_min_ms"`
	PageDelayMaxMS int `koanf:"page_delay_max_ms"`

	// RoundDelayMinMS and RoundDelayMaxMS bound the extra delay between
	// rounds.
	RoundDelayMinMS int `koanf:"round_delay_min_ms"`
	RoundDelayMaxMS int `koanf:"round_delay_max_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:         "data",
		BaseURL:         "https://www.bestcoastpairings.com",
		Team:            "MORALE CHECK",
		FetchTimeoutMS:  30_000,
		PageDelayMinMS:  2_000,
		PageDelayMaxMS:  4_000,
		RoundDelayMinMS: 3_000,
		RoundDelayMaxMS: 5_000,
	}
}

// Load builds a Config by layering defaults, the optional file, and env
// vars, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// MCELO_DATA_DIR -> data_dir, keeping underscores to match koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.PageDelayMaxMS < c.PageDelayMinMS {
		return errors.New("page_delay_max_ms must be >= page_delay_min_ms")
	}
	if c.RoundDelayMaxMS < c.RoundDelayMinMS {
		return errors.New("round_delay_max_ms must be >= round_delay_min_ms")
	}
	return nil
}

// FetchTimeout returns the page request timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// PageDelay returns the per-page delay bounds.
func (c *Config) PageDelay() (min, max time.Duration) {
	return time.Duration(c.PageDelayMinMS) * time.Millisecond,
		time.Duration(c.PageDelayMaxMS) * time.Millisecond
}

// RoundDelay returns the between-rounds delay bounds.
func (c *Config) RoundDelay() (min, max time.Duration) {
	return time.Duration(c.RoundDelayMinMS) * time.Millisecond,
		time.Duration(c.RoundDelayMaxMS) * time.Millisecond
}
