// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazlop/find-my-uri/internal/config"
	"github.com/lazlop/find-my-uri/internal/embed"
	"github.com/lazlop/find-my-uri/internal/finder"
	"github.com/lazlop/find-my-uri/internal/index"
	"github.com/lazlop/find-my-uri/internal/ontology"
)

// NewRootCmd creates the root findmyuri command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "findmyuri",
		Short:         "Find ontology URIs by meaning",
		Long:          "findmyuri indexes Turtle ontology sources and answers free-text queries with the closest entity URIs, ranked by embedding similarity.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newBuildCmd(),
		newFindCmd(),
		newShellCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads configuration with the precedence flag > env > file >
// defaults and installs the process-wide logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	setupLogging(cfg.Verbose)

	return cfg, nil
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openFinder opens the persisted index for query serving. The index must have
// been built first; a missing one fails here rather than at first query.
func openFinder(ctx context.Context, cfg *config.Config) (*finder.Finder, func() error, error) {
	emb, err := embed.New(ctx, cfg.EmbedConfig())
	if err != nil {
		return nil, nil, err
	}

	idx, err := index.Open(cfg.IndexBuildConfig(), emb.Model(), emb.Dimensions())
	if err != nil {
		return nil, nil, err
	}

	f := finder.New(idx, emb, ontology.DefaultTable(), slog.Default())
	return f, idx.Close, nil
}
