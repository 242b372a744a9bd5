// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

// Package ontology defines the canonical entity record extracted from graph
// sources and the namespace table used to resolve and display namespaces.
package ontology

import "strings"

// Entity is the unit of indexing: one URI-identified term from the loaded
// ontology with its display label and derived name components.
type Entity struct {
	URI       string `json:"uri"`
	Label     string `json:"label"`
	LocalName string `json:"local_name"`
	Namespace string `json:"namespace"`
}

// NewEntity builds a canonical record for uri. LocalName and Namespace are
// always derived from the URI; an empty label falls back to the local name.
func NewEntity(uri, label string) Entity {
	local := LocalName(uri)
	if label == "" {
		label = local
	}
	return Entity{
		URI:       uri,
		Label:     label,
		LocalName: local,
		Namespace: Namespace(uri),
	}
}

// Document returns the searchable text for an entity, combining the local
// name and label. This is the string that gets embedded.
func (e Entity) Document() string {
	return e.LocalName + ": " + e.Label
}

// LocalName extracts the fragment or last path segment from a URI: the
// substring after the final '#' if present, else after the final '/', else
// the URI itself.
func LocalName(uri string) string {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// Namespace extracts the complementary prefix of LocalName: everything up to
// and including the final '#' if present, else up to and including the final
// '/', else the URI itself.
func Namespace(uri string) string {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[:i+1]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[:i+1]
	}
	return uri
}
