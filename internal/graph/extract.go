// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package graph

import (
	"log/slog"
	"sort"

	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

// Type and predicate URIs the extraction query matches on.
const (
	rdfTypeIRI   = ontology.RDFNamespace + "type"
	rdfsLabelIRI = ontology.RDFSNamespace + "label"

	s223ClassIRI = ontology.S223Namespace + "Class"
	watrClassIRI = ontology.WATRNamespace + "Class"

	qudtUnitIRI         = ontology.QUDTSchemaNamespace + "Unit"
	qudtQuantityKindIRI = ontology.QUDTSchemaNamespace + "QuantityKind"
)

// Extract runs the fixed entity query against the graph: the union of
// s223:Class and watr:Class subjects, plus qudt:Unit and
// qudt:QuantityKind subjects with an English rdfs:label. Records are ordered
// by URI and deduplicated (first occurrence wins); that ordering becomes the
// tie-break order for ranking.
//
// A failing query never propagates: it is logged and an empty record list is
// returned, so the ingestion pipeline can report zero entities instead of
// crashing.
func (g *Graph) Extract() []ontology.Entity {
	entities, err := g.extract()
	if err != nil {
		slog.Error("entity extraction query failed", "error", err)
		return nil
	}

	slog.Info("extracted entities from graph", "count", len(entities))
	return entities
}

func (g *Graph) extract() ([]ontology.Entity, error) {
	if g == nil || g.typesOf == nil {
		return nil, fmuerr.New(fmuerr.CodeGraphExtractFailure, "no graph loaded")
	}

	// uri -> label, first qualifying row wins. Branch order matters: class
	// branches are considered before unit and quantity-kind branches.
	labels := make(map[string]string)
	var uris []string

	keep := func(uri, lbl string) {
		if _, ok := labels[uri]; ok {
			return
		}
		labels[uri] = lbl
		uris = append(uris, uri)
	}

	// Class subjects keep their first label in any language; a class without
	// a label still produces a record and NewEntity falls back to the local
	// name derived from the URI.
	for _, classType := range []string{s223ClassIRI, watrClassIRI} {
		for _, uri := range g.typed(classType) {
			lbl, _ := g.firstLabel(uri, "")
			keep(uri, lbl)
		}
	}

	for _, unitType := range []string{qudtUnitIRI, qudtQuantityKindIRI} {
		for _, uri := range g.typed(unitType) {
			if lbl, ok := g.firstLabel(uri, "en"); ok {
				keep(uri, lbl)
			}
		}
	}

	sort.Strings(uris)

	entities := make([]ontology.Entity, 0, len(uris))
	for _, uri := range uris {
		entities = append(entities, ontology.NewEntity(uri, labels[uri]))
	}
	return entities, nil
}
