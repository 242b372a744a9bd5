// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package ontology_test

import (
	"testing"

	"github.com/lazlop/find-my-uri/internal/ontology"
	"github.com/stretchr/testify/assert"
)

func TestTableResolve(t *testing.T) {
	table := ontology.DefaultTable()

	assert.Equal(t, ontology.S223Namespace, table.Resolve("S223"))
	assert.Equal(t, ontology.UnitNamespace, table.Resolve("UNIT"))
	assert.Equal(t, ontology.QKNamespace, table.Resolve("QK"))

	// Full URIs and unrecognized values pass through unchanged.
	assert.Equal(t, ontology.S223Namespace, table.Resolve(ontology.S223Namespace))
	assert.Equal(t, "ZZZ", table.Resolve("ZZZ"))
}

func TestTableAbbreviate(t *testing.T) {
	table := ontology.DefaultTable()

	assert.Equal(t, "WATR", table.Abbreviate(ontology.WATRNamespace))
	assert.Equal(t, "RDFS", table.Abbreviate(ontology.RDFSNamespace))
	assert.Equal(t, "http://nowhere/", table.Abbreviate("http://nowhere/"))
}

func TestTableResolveAbbreviateRoundTrip(t *testing.T) {
	table := ontology.DefaultTable()

	for _, ab := range []string{"RDF", "RDFS", "OWL", "S223", "WATR", "UNIT", "QK"} {
		assert.Equal(t, ab, table.Abbreviate(table.Resolve(ab)))
	}
}

func TestTableKnown(t *testing.T) {
	table := ontology.DefaultTable()

	assert.True(t, table.Known("S223"))
	assert.True(t, table.Known(ontology.S223Namespace))
	assert.False(t, table.Known("ZZZ"))
	assert.False(t, table.Known(""))
}

func TestCustomTable(t *testing.T) {
	table := ontology.NewTable(map[string]string{
		"http://example.org/vocab#": "EX",
	})

	assert.Equal(t, "http://example.org/vocab#", table.Resolve("EX"))
	assert.Equal(t, "EX", table.Abbreviate("http://example.org/vocab#"))
	assert.False(t, table.Known("S223"))
}
