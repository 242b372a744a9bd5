// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

// Package index stores (entity, vector) pairs and answers nearest-neighbor
// queries over them. Two interchangeable backends exist: a sqlite-vec
// collection that handles storage and KNN search itself, and a flat
// in-memory matrix scored exhaustively and persisted as two aligned
// JSON artifacts.
package index

import (
	"context"
	"math"
	"sort"

	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// Backend identifiers accepted in configuration.
const (
	BackendSQLite = "sqlite"
	BackendFlat   = "flat"
)

// Match is one scored search result.
type Match struct {
	Entity ontology.Entity
	// Score is the cosine similarity between the query vector and the
	// entity's vector, in [-1, 1].
	Score float64
}

// Index is the vector store capability. Ingestion appends through Add and
// persists through Save; query serving only calls Search and Count. An index
// never updates or deletes records: removal means rebuilding from source.
type Index interface {
	// Add appends records with their vectors, index-for-index, and returns
	// how many were actually added after deduplication by URI.
	Add(ctx context.Context, entities []ontology.Entity, vectors [][]float32) (int, error)

	// Search returns the top k matches for query, ranked by descending
	// similarity with ties broken by insertion order. namespace is either
	// empty or an already-resolved full namespace URI; a namespace matching
	// zero stored records is an error, not an empty list.
	Search(ctx context.Context, query []float32, namespace string, k int) ([]Match, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Save flushes the index to disk. A no-op for backends that persist on
	// Add.
	Save(ctx context.Context) error

	Close() error
}

// Config selects and locates the index backend.
type Config struct {
	Backend string // BackendSQLite or BackendFlat
	Path    string // directory holding the persisted index
}

// Create opens an index for building. The flat backend starts empty (a build
// is a full rebuild); the sqlite backend opens or creates its collection and
// appends incrementally.
func Create(cfg Config, model string, dims int) (Index, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return openSQLite(cfg.Path, model, dims, true)
	case BackendFlat:
		return NewFlat(cfg.Path, model, dims), nil
	default:
		return nil, fmuerr.Errorf(fmuerr.CodeIndexBackendUnsupported, "unsupported index backend: %q", cfg.Backend)
	}
}

// Open opens an index for query serving. Missing artifacts are fatal here:
// a finder cannot be constructed without a persisted index.
func Open(cfg Config, model string, dims int) (Index, error) {
	switch cfg.Backend {
	case BackendSQLite:
		return openSQLite(cfg.Path, model, dims, false)
	case BackendFlat:
		return LoadFlat(cfg.Path, model, dims)
	default:
		return nil, fmuerr.Errorf(fmuerr.CodeIndexBackendUnsupported, "unsupported index backend: %q", cfg.Backend)
	}
}

// scored pairs a candidate with its similarity and original insertion
// ordinal for deterministic tie-breaks.
type scored struct {
	entity  ontology.Entity
	score   float64
	ordinal int
}

// rank returns the top k of candidates by descending score; equal scores
// keep insertion order (lower ordinal wins). k exceeding the candidate count
// returns everything.
func rank(candidates []scored, k int) []Match {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].ordinal < candidates[j].ordinal
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	matches := make([]Match, 0, k)
	for _, c := range candidates[:k] {
		matches = append(matches, Match{Entity: c.entity, Score: c.score})
	}
	return matches
}

// cosine computes cosine similarity between two equal-length vectors,
// accumulating in float64 for stability.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// validateBatch checks the alignment and dimensionality of an Add batch.
func validateBatch(entities []ontology.Entity, vectors [][]float32, dims int) error {
	if len(entities) != len(vectors) {
		return fmuerr.Errorf(fmuerr.CodeIndexAddInvalidInput,
			"%d records but %d vectors", len(entities), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != dims {
			return fmuerr.New(fmuerr.CodeIndexAddInvalidInput,
				"vector dimensionality mismatch",
				fmuerr.FieldURI(entities[i].URI),
				fmuerr.Field("want", dims),
				fmuerr.Field("got", len(v)))
		}
	}
	return nil
}
