// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

// Package finder answers free-text queries against a built entity index.
package finder

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lazlop/find-my-uri/internal/embed"
	"github.com/lazlop/find-my-uri/internal/index"
	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// DefaultLimit is the number of results returned when the caller does not ask
// for a specific count.
const DefaultLimit = 3

// Result is one ranked answer. Abbrev is the short display form of the
// entity's namespace and Score is cosine similarity in [-1, 1], higher is
// closer.
type Result struct {
	ontology.Entity
	Abbrev string
	Score  float64
}

// Finder embeds query text and searches the index for the nearest entities.
type Finder struct {
	idx   index.Index
	emb   embed.Embedder
	table ontology.Table
	log   *slog.Logger
}

// New wires a Finder over an opened index and embedding client. The embedder
// must be the same model the index was built with; the index backends enforce
// that at open time.
func New(idx index.Index, emb embed.Embedder, table ontology.Table, log *slog.Logger) *Finder {
	if log == nil {
		log = slog.Default()
	}
	return &Finder{idx: idx, emb: emb, table: table, log: log}
}

// Find returns the limit entities nearest to query, best first. When
// namespace is non-empty it must be a known abbreviation or full namespace
// URI; results are then restricted to that namespace before ranking.
func (f *Finder) Find(ctx context.Context, query, namespace string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmuerr.New(fmuerr.CodeCLIInputInvalid, "query must not be empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var ns string
	if namespace != "" {
		if !f.table.Known(namespace) {
			return nil, fmuerr.New(fmuerr.CodeNamespaceResolveUnknown,
				"unknown namespace", fmuerr.FieldNamespace(namespace))
		}
		ns = f.table.Resolve(namespace)
	}

	vectors, err := f.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmuerr.Errorf(fmuerr.CodeEmbedRequestFailure,
			"expected one query vector, got %d", len(vectors))
	}

	matches, err := f.idx.Search(ctx, vectors[0], ns, limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Entity: m.Entity,
			Abbrev: f.table.Abbreviate(m.Entity.Namespace),
			Score:  m.Score,
		}
	}
	f.log.Debug("query answered",
		"query", query, "namespace", ns, "results", len(results))
	return results, nil
}
