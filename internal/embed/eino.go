// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package embed

import (
	"context"
	"os"

	geminiembed "github.com/cloudwego/eino-ext/components/embedding/gemini"
	ollamaembed "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// Client adapts an Eino embedding component to the Embedder capability.
type Client struct {
	inner embedding.Embedder
	model string
	dims  int
}

var _ Embedder = (*Client)(nil)

// New constructs the embedder selected by cfg. The model's dimensionality
// comes from the registry; unregistered models need cfg.Dimensions set.
func New(ctx context.Context, cfg Config) (*Client, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}
	if model == "" {
		return nil, fmuerr.Errorf(fmuerr.CodeEmbedProviderUnsupported,
			"unsupported embedding provider: %q (supported: openai, ollama, gemini)", cfg.Provider)
	}

	dims := cfg.Dimensions
	if m := Lookup(model); m != nil {
		dims = m.Dimensions
	}
	if dims <= 0 {
		return nil, fmuerr.New(fmuerr.CodeEmbedModelUnsupported,
			"unknown embedding model needs explicit dimensions", fmuerr.FieldModel(model))
	}

	inner, err := newEinoEmbedder(ctx, cfg, model)
	if err != nil {
		return nil, err
	}

	return &Client{inner: inner, model: model, dims: dims}, nil
}

func newEinoEmbedder(ctx context.Context, cfg Config, model string) (embedding.Embedder, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmuerr.New(fmuerr.CodeEmbedProviderUnsupported, "openai embedding requires an api key")
		}
		e, err := openaiembed.NewEmbedder(ctx, &openaiembed.EmbeddingConfig{
			Model:  model,
			APIKey: cfg.APIKey,
		})
		return e, fmuerr.Wrap(err, fmuerr.CodeEmbedRequestFailure, "creating openai embedder", fmuerr.FieldModel(model))

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		e, err := ollamaembed.NewEmbedder(ctx, &ollamaembed.EmbeddingConfig{
			BaseURL: baseURL,
			Model:   model,
		})
		return e, fmuerr.Wrap(err, fmuerr.CodeEmbedRequestFailure, "creating ollama embedder", fmuerr.FieldModel(model))

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmuerr.New(fmuerr.CodeEmbedProviderUnsupported, "gemini embedding requires an api key")
		}
		// The gemini component reads credentials from the environment.
		_ = os.Setenv("GOOGLE_API_KEY", cfg.APIKey)
		_ = os.Setenv("GEMINI_API_KEY", cfg.APIKey)
		e, err := geminiembed.NewEmbedder(ctx, &geminiembed.EmbeddingConfig{
			Model: model,
		})
		return e, fmuerr.Wrap(err, fmuerr.CodeEmbedRequestFailure, "creating gemini embedder", fmuerr.FieldModel(model))

	default:
		return nil, fmuerr.Errorf(fmuerr.CodeEmbedProviderUnsupported,
			"unsupported embedding provider: %q (supported: openai, ollama, gemini)", cfg.Provider)
	}
}

// Embed embeds texts in one provider call and converts Eino's float64
// vectors to float32.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vecs64, err := c.inner.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmuerr.Wrap(err, fmuerr.CodeEmbedRequestFailure, "embedding texts", fmuerr.FieldModel(c.model))
	}
	if len(vecs64) != len(texts) {
		return nil, fmuerr.Errorf(fmuerr.CodeEmbedRequestFailure,
			"embedding model returned %d vectors for %d texts", len(vecs64), len(texts))
	}

	vecs := make([][]float32, len(vecs64))
	for i, v64 := range vecs64 {
		v := make([]float32, len(v64))
		for j, f := range v64 {
			v[j] = float32(f)
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Dimensions() int {
	return c.dims
}
