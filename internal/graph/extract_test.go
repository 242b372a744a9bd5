// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package graph_test

import (
	"sort"
	"testing"

	"github.com/lazlop/find-my-uri/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedTTL = `
@prefix s223: <http://data.ashrae.org/standard223#> .
@prefix watr: <urn:nawi-water-ontology#> .
@prefix qudt: <http://qudt.org/schema/qudt/> .
@prefix unit: <http://qudt.org/vocab/unit/> .
@prefix qk: <http://qudt.org/vocab/quantitykind/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

s223:Pump a s223:Class ;
    rdfs:label "Pump" .

s223:Unlabeled a s223:Class .

watr:Clarifier a watr:Class ;
    rdfs:label "Clarifier" .

unit:DEG_C a qudt:Unit ;
    rdfs:label "degree Celsius"@en ;
    rdfs:label "Grad Celsius"@de .

unit:GermanOnly a qudt:Unit ;
    rdfs:label "nur Deutsch"@de .

qk:VolumeFlowRate a qudt:QuantityKind ;
    rdfs:label "Volume flow rate"@en .

s223:NotAnEntity rdfs:label "typed as nothing" .
`

func loadMixed(t *testing.T) *graph.Graph {
	t.Helper()
	dir := t.TempDir()
	path := writeTTL(t, dir, "mixed.ttl", mixedTTL)
	g := graph.New()
	require.NoError(t, g.LoadFile(path))
	return g
}

func TestExtractSelectsUnionOfEntityClasses(t *testing.T) {
	entities := loadMixed(t).Extract()

	var uris []string
	for _, e := range entities {
		uris = append(uris, e.URI)
	}

	assert.ElementsMatch(t, []string{
		"http://data.ashrae.org/standard223#Pump",
		"http://data.ashrae.org/standard223#Unlabeled",
		"urn:nawi-water-ontology#Clarifier",
		"http://qudt.org/vocab/unit/DEG_C",
		"http://qudt.org/vocab/quantitykind/VolumeFlowRate",
	}, uris)
}

func TestExtractOrderedByURI(t *testing.T) {
	entities := loadMixed(t).Extract()
	require.NotEmpty(t, entities)

	uris := make([]string, len(entities))
	for i, e := range entities {
		uris[i] = e.URI
	}
	assert.True(t, sort.StringsAreSorted(uris), "records must be ordered by URI: %v", uris)
}

func TestExtractEnglishLabelFilterForUnits(t *testing.T) {
	entities := loadMixed(t).Extract()

	byURI := make(map[string]string)
	for _, e := range entities {
		byURI[e.URI] = e.Label
	}

	assert.Equal(t, "degree Celsius", byURI["http://qudt.org/vocab/unit/DEG_C"])
	assert.NotContains(t, byURI, "http://qudt.org/vocab/unit/GermanOnly",
		"units without an English label are excluded")
}

func TestExtractLabelFallbackToLocalName(t *testing.T) {
	entities := loadMixed(t).Extract()

	byURI := make(map[string]string)
	for _, e := range entities {
		byURI[e.URI] = e.Label
	}

	assert.Equal(t, "Unlabeled", byURI["http://data.ashrae.org/standard223#Unlabeled"])
}

func TestExtractNoDuplicateURIs(t *testing.T) {
	dir := t.TempDir()
	// Same entity declared in two files; the record set still holds it once.
	writeTTL(t, dir, "a.ttl", equipmentTTL)
	writeTTL(t, dir, "b.ttl", equipmentTTL)

	g := graph.New()
	_, err := g.LoadDir(dir)
	require.NoError(t, err)

	entities := g.Extract()
	seen := make(map[string]bool)
	for _, e := range entities {
		assert.False(t, seen[e.URI], "duplicate uri %s", e.URI)
		seen[e.URI] = true
	}
	assert.Len(t, entities, 2)
}

func TestExtractEmptyGraph(t *testing.T) {
	assert.Empty(t, graph.New().Extract())
}
