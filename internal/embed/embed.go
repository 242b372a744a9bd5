// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

// Package embed turns text into fixed-length vectors through an external
// embedding model. Providers are wired through CloudWeGo Eino components.
package embed

import "context"

// Embedder is the narrow capability the ingestion pipeline and query engine
// depend on. One store only ever holds vectors from one embedder.
type Embedder interface {
	// Embed returns one vector per input text, all of Dimensions() length.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the embedding model identifier baked into the store.
	Model() string

	// Dimensions returns the vector length this model produces.
	Dimensions() int
}

// Config selects and parameterizes the embedding provider.
type Config struct {
	Provider string // "openai", "ollama", or "gemini"
	Model    string // model identifier, e.g. "all-minilm"
	APIKey   string // required for openai and gemini
	BaseURL  string // ollama endpoint, defaults to DefaultOllamaURL
	// Dimensions overrides the registry lookup for models the registry does
	// not know. Ignored when the model is registered.
	Dimensions int
}

// Supported provider identifiers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// DefaultOllamaURL is the local Ollama endpoint used when none is configured.
const DefaultOllamaURL = "http://localhost:11434"
