// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazlop/find-my-uri/internal/finder"
)

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <query>...",
		Short: "Search the index for entities matching a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFind,
	}

	cmd.Flags().IntP("number", "n", finder.DefaultLimit, "number of results to return")
	cmd.Flags().String("namespace", "", "restrict results to a namespace abbreviation (e.g. S223) or full URI")

	return cmd
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("number")
	namespace, _ := cmd.Flags().GetString("namespace")
	query := strings.Join(args, " ")

	ctx := cmd.Context()
	f, closeIdx, err := openFinder(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeIdx()

	results, err := f.Find(ctx, query, namespace, limit)
	if err != nil {
		return err
	}

	printResults(cmd.OutOrStdout(), results)
	return nil
}

// printResults writes one ranked block per result: local name, namespace
// abbreviation and score on the first line, the full URI beneath, and the
// label when it adds anything over the local name.
func printResults(w io.Writer, results []finder.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %s  [%s]  %.3f\n", i+1, r.LocalName, r.Abbrev, r.Score)
		fmt.Fprintf(w, "    %s\n", r.URI)
		if r.Label != "" && r.Label != r.LocalName {
			fmt.Fprintf(w, "    %s\n", r.Label)
		}
	}
}
