// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package embed_test

import (
	"context"
	"testing"

	"github.com/lazlop/find-my-uri/internal/embed"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	m := embed.Lookup("all-minilm")
	require.NotNil(t, m)
	assert.Equal(t, embed.ProviderOllama, m.Provider)
	assert.Equal(t, 384, m.Dimensions)

	assert.Nil(t, embed.Lookup("no-such-model"))
}

func TestDefaultModelPerProvider(t *testing.T) {
	assert.Equal(t, "text-embedding-3-small", embed.DefaultModel(embed.ProviderOpenAI))
	assert.Equal(t, "all-minilm", embed.DefaultModel(embed.ProviderOllama))
	assert.Equal(t, "text-embedding-004", embed.DefaultModel(embed.ProviderGemini))
	assert.Equal(t, "", embed.DefaultModel("mystery"))
}

func TestNewRejectsUnsupportedProvider(t *testing.T) {
	_, err := embed.New(context.Background(), embed.Config{Provider: "mystery"})
	require.Error(t, err)
	assert.True(t, fmuerr.HasCode(err, fmuerr.CodeEmbedProviderUnsupported))
}

func TestNewRejectsUnknownModelWithoutDimensions(t *testing.T) {
	_, err := embed.New(context.Background(), embed.Config{
		Provider: embed.ProviderOllama,
		Model:    "private-finetune",
	})
	require.Error(t, err)
	assert.True(t, fmuerr.HasCode(err, fmuerr.CodeEmbedModelUnsupported))
}

func TestNewRejectsOpenAIWithoutKey(t *testing.T) {
	_, err := embed.New(context.Background(), embed.Config{
		Provider: embed.ProviderOpenAI,
		Model:    "text-embedding-3-small",
	})
	require.Error(t, err)
	assert.True(t, fmuerr.HasCode(err, fmuerr.CodeEmbedProviderUnsupported))
}

func TestNewUnknownModelWithExplicitDimensions(t *testing.T) {
	c, err := embed.New(context.Background(), embed.Config{
		Provider:   embed.ProviderOllama,
		Model:      "private-finetune",
		Dimensions: 512,
	})
	require.NoError(t, err)
	assert.Equal(t, "private-finetune", c.Model())
	assert.Equal(t, 512, c.Dimensions())
}
