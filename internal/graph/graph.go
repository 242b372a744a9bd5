// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

// Package graph loads Turtle ontology sources into an in-memory triple view
// and extracts canonical entity records from them with one fixed query.
package graph

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"

	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// sourcePattern matches the graph-description files discovered under source
// directories.
const sourcePattern = "*.ttl"

// label is one rdfs:label statement about a subject.
type label struct {
	value string
	lang  string
}

// Graph is a loaded collection of triples, indexed for the extraction query:
// rdf:type assertions by type URI and rdfs:label statements by subject.
// It is write-only during loading and read-only during extraction.
type Graph struct {
	typesOf  map[string][]string // type URI -> subject URIs, insertion order
	typeSeen map[string]bool     // "type|subject" pairs already recorded
	labels   map[string][]label  // subject URI -> labels, insertion order
	triples  int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		typesOf:  make(map[string][]string),
		typeSeen: make(map[string]bool),
		labels:   make(map[string][]label),
	}
}

// Len returns the number of triples loaded.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return g.triples
}

// LoadFile parses one Turtle file into the graph. A file that fails to parse
// contributes nothing: triples are only ingested after the whole file decodes.
func (g *Graph) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeSourceParseFailure, "opening source file", fmuerr.FieldPath(path))

	}
	defer f.Close()

	triples, err := rdf.NewTripleDecoder(f, rdf.Turtle).DecodeAll()
	if err != nil {
		return fmuerr.Wrap(err, fmuerr.CodeSourceParseFailure, "parsing turtle", fmuerr.FieldPath(path))
	}

	for _, tr := range triples {
		g.add(tr)
	}
	return nil
}

// LoadDir recursively discovers and loads all *.ttl files under dir.
// Malformed files are logged and skipped; the count of successfully loaded
// files is returned. A missing or unreadable directory is an error.
func (g *Graph) LoadDir(dir string) (int, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return 0, fmuerr.New(fmuerr.CodeSourceDirMissing, "source directory does not exist", fmuerr.FieldPath(dir))
	}

	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(sourcePattern, d.Name()); !ok {
			return nil
		}

		if err := g.LoadFile(path); err != nil {
			slog.Warn("skipping malformed source file", "path", path, "error", err)
			return nil
		}
		slog.Debug("loaded source file", "path", path)
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmuerr.Wrap(err, fmuerr.CodeSourceParseFailure, "walking source directory", fmuerr.FieldPath(dir))
	}

	return loaded, nil
}

// add ingests a single triple, keeping only the statements the extraction
// query looks at.
func (g *Graph) add(tr rdf.Triple) {
	g.triples++

	if tr.Subj.Type() != rdf.TermIRI {
		return
	}
	subj := tr.Subj.String()

	switch tr.Pred.String() {
	case rdfTypeIRI:
		if tr.Obj.Type() != rdf.TermIRI {
			return
		}
		obj := tr.Obj.String()
		key := obj + "|" + subj
		if g.typeSeen[key] {
			return
		}
		g.typeSeen[key] = true
		g.typesOf[obj] = append(g.typesOf[obj], subj)

	case rdfsLabelIRI:
		if tr.Obj.Type() != rdf.TermLiteral {
			return
		}
		lit, ok := tr.Obj.(rdf.Literal)
		if !ok {
			return
		}
		g.labels[subj] = append(g.labels[subj], label{
			value: lit.String(),
			lang:  strings.ToLower(lit.Lang()),
		})
	}
}

// typed returns the subjects carrying an rdf:type assertion for typeURI, in
// insertion order.
func (g *Graph) typed(typeURI string) []string {
	return g.typesOf[typeURI]
}

// firstLabel returns the first label of subj, optionally restricted to a
// language tag. The second return is false when no label qualifies.
func (g *Graph) firstLabel(subj, lang string) (string, bool) {
	for _, l := range g.labels[subj] {
		if lang != "" && l.lang != lang {
			continue
		}
		return l.value, true
	}
	return "", false
}
