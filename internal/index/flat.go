// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// The flat backend persists two aligned artifacts under its directory: the
// ordered entity records (with the model header) and the vector matrix,
// index-for-index. Both must be present and consistent to load.
const (
	entitiesFile   = "entities.json"
	embeddingsFile = "embeddings.json"
)

// entitiesArtifact is the on-disk shape of the record artifact. Model and
// dimensions identify the embedding space; loading against a different
// configuration fails rather than silently producing meaningless scores.
type entitiesArtifact struct {
	Model      string            `json:"model"`
	Dimensions int               `json:"dimensions"`
	Entities   []ontology.Entity `json:"entities"`
}

// Flat is the in-memory backend: aligned record and vector slices scored by
// exhaustive cosine comparison. Loading reads the whole store into memory;
// there is no partial or lazy loading.
type Flat struct {
	path  string
	model string
	dims  int

	entities []ontology.Entity
	vectors  [][]float32
	seen     map[string]bool
}

var _ Index = (*Flat)(nil)

// NewFlat returns an empty flat index rooted at dir. Building with the flat
// backend is always a full rebuild; nothing is read from disk here.
func NewFlat(dir, model string, dims int) *Flat {
	return &Flat{
		path:  dir,
		model: model,
		dims:  dims,
		seen:  make(map[string]bool),
	}
}

// LoadFlat reads both artifacts from dir and verifies they belong together
// and to the configured embedding model.
func LoadFlat(dir, model string, dims int) (*Flat, error) {
	var art entitiesArtifact
	if err := readJSON(filepath.Join(dir, entitiesFile), &art); err != nil {
		return nil, err
	}

	var vectors [][]float32
	if err := readJSON(filepath.Join(dir, embeddingsFile), &vectors); err != nil {
		return nil, err
	}

	if len(art.Entities) != len(vectors) {
		return nil, fmuerr.Errorf(fmuerr.CodeIndexLoadMisaligned,
			"%d records but %d vectors on disk", len(art.Entities), len(vectors))
	}
	if art.Model != model {
		return nil, fmuerr.New(fmuerr.CodeIndexLoadModelMismatch,
			"index was built with a different embedding model",
			fmuerr.Field("index_model", art.Model),
			fmuerr.Field("configured_model", model))
	}
	if art.Dimensions != dims {
		return nil, fmuerr.New(fmuerr.CodeIndexLoadDimensionMismatch,
			"index vector dimensionality does not match the configured model",
			fmuerr.Field("index_dims", art.Dimensions),
			fmuerr.Field("configured_dims", dims))
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmuerr.New(fmuerr.CodeIndexLoadDimensionMismatch,
				"stored vector has wrong dimensionality",
				fmuerr.FieldURI(art.Entities[i].URI),
				fmuerr.Field("got", len(v)))
		}
	}

	f := NewFlat(dir, model, dims)
	f.entities = art.Entities
	f.vectors = vectors
	for _, e := range art.Entities {
		f.seen[e.URI] = true
	}
	return f, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexLoadMissing, "reading index artifact", fmuerr.FieldPath(path))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexLoadMisaligned, "decoding index artifact", fmuerr.FieldPath(path))
	}
	return nil
}

// Add appends records, deduplicating by URI within the build (first
// occurrence wins). The flat backend does not consult previous runs: callers
// choosing it accept that a rebuild replaces everything.
func (f *Flat) Add(_ context.Context, entities []ontology.Entity, vectors [][]float32) (int, error) {
	if err := validateBatch(entities, vectors, f.dims); err != nil {
		return 0, err
	}

	added := 0
	for i, e := range entities {
		if f.seen[e.URI] {
			continue
		}
		f.seen[e.URI] = true
		f.entities = append(f.entities, e)
		f.vectors = append(f.vectors, vectors[i])
		added++
	}
	return added, nil
}

// Search scores query against every stored vector, or only those in
// namespace when a filter is given.
func (f *Flat) Search(_ context.Context, query []float32, namespace string, k int) ([]Match, error) {
	if len(query) != f.dims {
		return nil, fmuerr.Errorf(fmuerr.CodeIndexSearchFailure,
			"query vector has %d dimensions, index has %d", len(query), f.dims)
	}

	candidates := make([]scored, 0, len(f.entities))
	for i, e := range f.entities {
		if namespace != "" && e.Namespace != namespace {
			continue
		}
		candidates = append(candidates, scored{
			entity:  e,
			score:   cosine(query, f.vectors[i]),
			ordinal: i,
		})
	}

	if namespace != "" && len(candidates) == 0 {
		return nil, fmuerr.New(fmuerr.CodeNamespaceFilterEmptyMatch,
			"no indexed entities in namespace", fmuerr.FieldNamespace(namespace))
	}

	return rank(candidates, k), nil
}

func (f *Flat) Count(_ context.Context) (int, error) {
	return len(f.entities), nil
}

// Save writes both artifacts, replacing whatever was on disk.
func (f *Flat) Save(_ context.Context) error {
	if err := os.MkdirAll(f.path, 0o755); err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "creating index directory", fmuerr.FieldPath(f.path))
	}

	art := entitiesArtifact{
		Model:      f.model,
		Dimensions: f.dims,
		Entities:   f.entities,
	}
	if art.Entities == nil {
		art.Entities = []ontology.Entity{}
	}
	if err := writeJSON(filepath.Join(f.path, entitiesFile), art); err != nil {
		return err
	}

	vectors := f.vectors
	if vectors == nil {
		vectors = [][]float32{}
	}
	return writeJSON(filepath.Join(f.path, embeddingsFile), vectors)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "encoding index artifact", fmuerr.FieldPath(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeIndexDatabaseFailure, "writing index artifact", fmuerr.FieldPath(path))
	}
	return nil
}

func (f *Flat) Close() error {
	return nil
}
