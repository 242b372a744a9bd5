// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazlop/find-my-uri/internal/finder"
	"github.com/lazlop/find-my-uri/internal/ontology"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

func TestRootCommand_Help(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "findmyuri")
	assert.Contains(t, buf.String(), "build")
	assert.Contains(t, buf.String(), "find")
	assert.Contains(t, buf.String(), "shell")
	assert.Contains(t, buf.String(), "version")
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "findmyuri")
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--config")
	assert.Contains(t, buf.String(), "--verbose")
}

func TestFindCommand_RequiresQuery(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"find"})

	err := root.Execute()
	assert.Error(t, err)
}

func TestFindCommand_MissingConfigFile(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"find", "pump", "--config", "/nonexistent/path.yaml"})

	err := root.Execute()
	assert.Error(t, err)
}

func TestParseShellQuery(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		query     string
		namespace string
		limit     int
		wantErr   bool
	}{
		{name: "plain phrase", line: "water pump", query: "water pump"},
		{name: "count flag", line: "water pump -n 3", query: "water pump", limit: 3},
		{name: "namespace flag", line: "pump -ns S223", query: "pump", namespace: "S223"},
		{name: "flags before phrase", line: "-n 10 -ns UNIT degree celsius", query: "degree celsius", namespace: "UNIT", limit: 10},
		{name: "flag between words", line: "degree -n 2 celsius", query: "degree celsius", limit: 2},
		{name: "count missing value", line: "pump -n", wantErr: true},
		{name: "count not a number", line: "pump -n three", wantErr: true},
		{name: "count not positive", line: "pump -n 0", wantErr: true},
		{name: "namespace missing value", line: "pump -ns", wantErr: true},
		{name: "only flags", line: "-n 3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, namespace, limit, err := parseShellQuery(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, fmuerr.HasCode(err, fmuerr.CodeCLIInputInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.namespace, namespace)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestPrintResults(t *testing.T) {
	buf := new(bytes.Buffer)
	printResults(buf, []finder.Result{
		{
			Entity: ontology.NewEntity("http://data.ashrae.org/standard223#Pump", "Water Pump"),
			Abbrev: "S223",
			Score:  0.8731,
		},
	})

	out := buf.String()
	assert.Contains(t, out, " 1. Pump  [S223]  0.873")
	assert.Contains(t, out, "http://data.ashrae.org/standard223#Pump")
	assert.Contains(t, out, "Water Pump")
}

func TestPrintResults_Empty(t *testing.T) {
	buf := new(bytes.Buffer)
	printResults(buf, nil)
	assert.Equal(t, "No matches.\n", buf.String())
}
