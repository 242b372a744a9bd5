// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package embed

// Model describes one known embedding model.
type Model struct {
	ID         string // canonical model identifier
	Provider   string // provider identifier, see Provider* constants
	Dimensions int    // output vector length
	IsDefault  bool   // default model for its provider
}

// Registry is the single source of truth for embedding models this tool
// knows about. Models outside the registry still work when the configuration
// supplies their dimensionality explicitly.
var Registry = []Model{
	{ID: "text-embedding-3-small", Provider: ProviderOpenAI, Dimensions: 1536, IsDefault: true},
	{ID: "text-embedding-3-large", Provider: ProviderOpenAI, Dimensions: 3072},

	{ID: "text-embedding-004", Provider: ProviderGemini, Dimensions: 768, IsDefault: true},

	{ID: "all-minilm", Provider: ProviderOllama, Dimensions: 384, IsDefault: true},
	{ID: "nomic-embed-text", Provider: ProviderOllama, Dimensions: 768},
	{ID: "mxbai-embed-large", Provider: ProviderOllama, Dimensions: 1024},
}

var registryIndex map[string]*Model

func init() {
	registryIndex = make(map[string]*Model, len(Registry))
	for i := range Registry {
		registryIndex[Registry[i].ID] = &Registry[i]
	}
}

// Lookup returns the registered model for id, or nil.
func Lookup(id string) *Model {
	return registryIndex[id]
}

// DefaultModel returns the default model identifier for a provider, or empty
// when the provider has none.
func DefaultModel(provider string) string {
	for _, m := range Registry {
		if m.Provider == provider && m.IsDefault {
			return m.ID
		}
	}
	return ""
}
