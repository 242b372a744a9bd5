// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package finder_test

import (
	"context"
	"testing"

	"github.com/lazlop/find-my-uri/internal/finder"
	"github.com/lazlop/find-my-uri/internal/index"
	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors per query text so that searches are
// fully deterministic without a model server.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := s.vectors[text]
		if !ok {
			return nil, fmuerr.New(fmuerr.CodeEmbedRequestFailure, "no stub vector for text")
		}
		out[i] = v
		s.calls++
	}
	return out, nil
}

func (s *stubEmbedder) Model() string   { return "all-minilm" }
func (s *stubEmbedder) Dimensions() int { return 3 }

func newFinderFixture(t *testing.T) (*finder.Finder, *stubEmbedder) {
	t.Helper()
	ctx := context.Background()

	idx := index.NewFlat(t.TempDir(), "all-minilm", 3)
	entities := []ontology.Entity{
		ontology.NewEntity("http://data.ashrae.org/standard223#Pump", "Pump"),
		ontology.NewEntity("http://data.ashrae.org/standard223#Valve", "Valve"),
		ontology.NewEntity("http://qudt.org/vocab/unit/DEG_C", "degree Celsius"),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	_, err := idx.Add(ctx, entities, vectors)
	require.NoError(t, err)

	emb := &stubEmbedder{vectors: map[string][]float32{
		"water pump":  {0.9, 0.4, 0},
		"temperature": {0, 0.1, 0.95},
	}}
	return finder.New(idx, emb, ontology.DefaultTable(), nil), emb
}

func TestFindRanksByScore(t *testing.T) {
	f, _ := newFinderFixture(t)

	results, err := f.Find(context.Background(), "water pump", "", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Pump", results[0].LocalName)
	assert.Equal(t, "S223", results[0].Abbrev)
	assert.Equal(t, "Valve", results[1].LocalName)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestFindNamespaceFilterByAbbreviation(t *testing.T) {
	f, _ := newFinderFixture(t)

	// Nearest overall is the unit, but the filter keeps only s223 entities.
	results, err := f.Find(context.Background(), "temperature", "S223", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, ontology.S223Namespace, r.Namespace)
		assert.Equal(t, "S223", r.Abbrev)
	}
}

func TestFindNamespaceFilterByFullURI(t *testing.T) {
	f, _ := newFinderFixture(t)

	results, err := f.Find(context.Background(), "temperature", ontology.UnitNamespace, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "DEG_C", results[0].LocalName)
	assert.Equal(t, "UNIT", results[0].Abbrev)
}

func TestFindUnknownNamespace(t *testing.T) {
	f, emb := newFinderFixture(t)

	_, err := f.Find(context.Background(), "water pump", "BRICK", 5)
	require.Error(t, err)
	assert.True(t, fmuerr.IsUnknownNamespace(err))
	assert.Equal(t, 0, emb.calls, "rejected before embedding")
}

func TestFindEmptyNamespaceMatch(t *testing.T) {
	f, _ := newFinderFixture(t)

	_, err := f.Find(context.Background(), "water pump", "WATR", 5)
	require.Error(t, err)
	assert.True(t, fmuerr.IsEmptyNamespaceMatch(err))
}

func TestFindEmptyQuery(t *testing.T) {
	f, _ := newFinderFixture(t)

	_, err := f.Find(context.Background(), "   ", "", 5)
	require.Error(t, err)
	assert.True(t, fmuerr.HasCode(err, fmuerr.CodeCLIInputInvalid))
}

func TestFindDefaultLimit(t *testing.T) {
	ctx := context.Background()

	// More entities than the default so the cap is observable.
	idx := index.NewFlat(t.TempDir(), "all-minilm", 3)
	entities := []ontology.Entity{
		ontology.NewEntity("http://data.ashrae.org/standard223#Pump", "Pump"),
		ontology.NewEntity("http://data.ashrae.org/standard223#Valve", "Valve"),
		ontology.NewEntity("http://data.ashrae.org/standard223#Fan", "Fan"),
		ontology.NewEntity("http://qudt.org/vocab/unit/DEG_C", "degree Celsius"),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.5, 0.5, 0},
		{0, 0, 1},
	}
	_, err := idx.Add(ctx, entities, vectors)
	require.NoError(t, err)

	emb := &stubEmbedder{vectors: map[string][]float32{
		"water pump": {0.9, 0.4, 0},
	}}
	f := finder.New(idx, emb, ontology.DefaultTable(), nil)

	results, err := f.Find(ctx, "water pump", "", 0)
	require.NoError(t, err)
	assert.Len(t, results, finder.DefaultLimit)
	assert.Equal(t, 3, finder.DefaultLimit)
}

func TestFindIsDeterministic(t *testing.T) {
	f, _ := newFinderFixture(t)
	ctx := context.Background()

	first, err := f.Find(ctx, "water pump", "", 3)
	require.NoError(t, err)
	second, err := f.Find(ctx, "water pump", "", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
