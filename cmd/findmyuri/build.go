// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lazlop/find-my-uri/internal/embed"
	"github.com/lazlop/find-my-uri/internal/index"
	"github.com/lazlop/find-my-uri/internal/ingest"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [dirs...]",
		Short: "Build the entity index from ontology sources",
		Long:  "Load every *.ttl file under the given source directories (or the configured ones), extract entity records, embed them, and persist the index.",
		RunE:  runBuild,
	}

	cmd.Flags().String("backend", "", "index backend: sqlite or flat (overrides config)")
	cmd.Flags().String("path", "", "index directory (overrides config)")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		cfg.Sources = args
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Index.Backend = backend
	}
	if path, _ := cmd.Flags().GetString("path"); path != "" {
		cfg.Index.Path = path
	}

	ctx := cmd.Context()

	emb, err := embed.New(ctx, cfg.EmbedConfig())
	if err != nil {
		return err
	}

	idx, err := index.Create(cfg.IndexBuildConfig(), emb.Model(), emb.Dimensions())
	if err != nil {
		return err
	}
	defer idx.Close()

	res, err := ingest.New(idx, emb, slog.Default()).Build(ctx, cfg.Sources)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"Indexed %d entities (%d extracted from %d files) into %s index at %s\n",
		res.Added, res.Extracted, res.FilesLoaded, cfg.Index.Backend, cfg.Index.Path)
	return err
}
