// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lazlop/find-my-uri/internal/embed"
	"github.com/lazlop/find-my-uri/internal/index"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// Config is the top-level configuration.
type Config struct {
	Sources   []string        `mapstructure:"sources"`
	Index     IndexConfig     `mapstructure:"index"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Verbose   bool            `mapstructure:"verbose"`
}

// IndexConfig selects the persistence backend and where its artifacts live.
type IndexConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// EmbeddingConfig selects the embedding provider and model.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix FINDMYURI_). A .env file in the
// working directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Same convention as the reference deployments: credentials usually live
	// in a local .env file rather than the config file proper.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults. Every key gets one, empty or not: viper only surfaces
	// AutomaticEnv values through Unmarshal for keys it already knows about.
	v.SetDefault("sources", []string{"ontologies"})
	v.SetDefault("index.backend", index.BackendSQLite)
	v.SetDefault("index.path", ".findmyuri")
	v.SetDefault("embedding.provider", embed.ProviderOpenAI)
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.dimensions", 0)
	v.SetDefault("verbose", false)

	// Environment
	v.SetEnvPrefix("FINDMYURI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmuerr.Errorf(fmuerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmuerr.Errorf(fmuerr.CodeConfigLoadReadFailure, "unmarshalling config: %w", err)
	}

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = keyFromEnv(cfg.Embedding.Provider)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns a slice of
// all validation errors found, collecting all issues rather than stopping at
// the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateSources()...)
	errs = append(errs, c.validateIndex()...)
	errs = append(errs, c.validateEmbedding()...)

	return errs
}

func (c *Config) validateSources() []error {
	var errs []error

	if len(c.Sources) == 0 {
		errs = append(errs, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue,
			"config: sources must list at least one ontology directory"))
	}
	for i, dir := range c.Sources {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue,
				"config: sources[%d] must not be empty", i))
		}
	}

	return errs
}

func (c *Config) validateIndex() []error {
	var errs []error

	validBackends := map[string]bool{index.BackendSQLite: true, index.BackendFlat: true}
	if !validBackends[c.Index.Backend] {
		errs = append(errs, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue,
			"config: index.backend must be one of [%s, %s], got %q",
			index.BackendSQLite, index.BackendFlat, c.Index.Backend,
		))
	}

	if c.Index.Path == "" {
		errs = append(errs, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue,
			"config: index.path must not be empty"))
	}

	return errs
}

func (c *Config) validateEmbedding() []error {
	var errs []error

	validProviders := map[string]bool{
		embed.ProviderOpenAI: true,
		embed.ProviderOllama: true,
		embed.ProviderGemini: true,
	}
	if !validProviders[c.Embedding.Provider] {
		errs = append(errs, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue,
			"config: embedding.provider must be one of [%s, %s, %s], got %q",
			embed.ProviderOpenAI, embed.ProviderOllama, embed.ProviderGemini,
			c.Embedding.Provider,
		))
	}

	if c.Embedding.Dimensions < 0 {
		errs = append(errs, fmuerr.Errorf(fmuerr.CodeConfigValidateInvalidValue,
			"config: embedding.dimensions must not be negative, got %d",
			c.Embedding.Dimensions,
		))
	}

	return errs
}

// EmbedConfig translates the embedding section into the client configuration.
func (c *Config) EmbedConfig() embed.Config {
	return embed.Config{
		Provider:   c.Embedding.Provider,
		Model:      c.Embedding.Model,
		APIKey:     c.Embedding.APIKey,
		BaseURL:    c.Embedding.BaseURL,
		Dimensions: c.Embedding.Dimensions,
	}
}

// IndexBuildConfig translates the index section into the backend configuration.
func (c *Config) IndexBuildConfig() index.Config {
	return index.Config{
		Backend: c.Index.Backend,
		Path:    c.Index.Path,
	}
}

// keyFromEnv falls back to the provider's conventional API key variable.
func keyFromEnv(provider string) string {
	switch provider {
	case embed.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case embed.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}
