// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package ontology

// Well-known namespace URIs for the vocabularies this tool indexes.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	S223Namespace = "http://data.ashrae.org/standard223#"
	WATRNamespace = "urn:nawi-water-ontology#"
	UnitNamespace = "http://qudt.org/vocab/unit/"
	QKNamespace   = "http://qudt.org/vocab/quantitykind/"

	// QUDTSchemaNamespace holds the class terms (qudt:Unit, qudt:QuantityKind)
	// that type the instances living under UnitNamespace and QKNamespace.
	QUDTSchemaNamespace = "http://qudt.org/schema/qudt/"
)

// Table is an immutable bidirectional mapping between full namespace URIs and
// short display abbreviations. A Table is fixed for the process lifetime;
// construct one at wiring time and pass it down.
type Table struct {
	toAbbrev    map[string]string
	toNamespace map[string]string
}

// NewTable builds a Table from a namespace-URI-to-abbreviation mapping.
// The inverse mapping is derived; duplicate abbreviations keep the last entry.
func NewTable(abbrevs map[string]string) Table {
	t := Table{
		toAbbrev:    make(map[string]string, len(abbrevs)),
		toNamespace: make(map[string]string, len(abbrevs)),
	}
	for ns, ab := range abbrevs {
		t.toAbbrev[ns] = ab
		t.toNamespace[ab] = ns
	}
	return t
}

// DefaultTable returns the table of namespaces this tool ships with.
func DefaultTable() Table {
	return NewTable(map[string]string{
		RDFNamespace:  "RDF",
		RDFSNamespace: "RDFS",
		OWLNamespace:  "OWL",
		S223Namespace: "S223",
		WATRNamespace: "WATR",
		UnitNamespace: "UNIT",
		QKNamespace:   "QK",
	})
}

// Resolve maps a known abbreviation to its full namespace URI. Any other
// input, including a full namespace URI, is returned unchanged; callers
// decide whether an unrecognized value is an error.
func (t Table) Resolve(in string) string {
	if ns, ok := t.toNamespace[in]; ok {
		return ns
	}
	return in
}

// Abbreviate returns the display abbreviation for a full namespace URI, or
// the URI itself when it has no known abbreviation.
func (t Table) Abbreviate(ns string) string {
	if ab, ok := t.toAbbrev[ns]; ok {
		return ab
	}
	return ns
}

// Known reports whether in is a recognized abbreviation or a recognized full
// namespace URI.
func (t Table) Known(in string) bool {
	if _, ok := t.toNamespace[in]; ok {
		return true
	}
	_, ok := t.toAbbrev[in]
	return ok
}
