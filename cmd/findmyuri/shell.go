// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazlop/find-my-uri/internal/config"
	"github.com/lazlop/find-my-uri/internal/embed"
	"github.com/lazlop/find-my-uri/internal/index"
	"github.com/lazlop/find-my-uri/internal/ingest"
	fmuerr "github.com/lazlop/find-my-uri/pkg/errors"
)

const shellHelp = `Commands:
  <phrase> [-n COUNT] [-ns NAMESPACE]   search for the phrase
  build                                 rebuild the index from the sources
  help                                  show this help
  quit | exit | q                       leave the shell

Namespaces: RDF, RDFS, OWL, S223, WATR, UNIT, QK, or a full namespace URI.`

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive query shell",
		Long:  "Start a read-eval-print loop that answers one query per line against the opened index.",
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	f, closeIdx, err := openFinder(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeIdx() }()

	fmt.Fprintln(out, `Type a phrase to search, "help" for commands, "quit" to leave.`)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "help":
			fmt.Fprintln(out, shellHelp)
			continue
		case "quit", "exit", "q":
			return nil
		case "build":
			// Rebuilding takes the serving index over, so release it first
			// and reopen once the new artifacts are in place.
			if err := closeIdx(); err != nil {
				return err
			}
			if err := rebuild(cmd, cfg); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if f, closeIdx, err = openFinder(ctx, cfg); err != nil {
				return err
			}
			continue
		}

		query, namespace, limit, err := parseShellQuery(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		results, err := f.Find(ctx, query, namespace, limit)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printResults(out, results)
	}
}

func rebuild(cmd *cobra.Command, cfg *config.Config) error {
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
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d entities from %d files.\n", res.Added, res.FilesLoaded)
	return err
}

// parseShellQuery splits one shell line into the query phrase and the
// optional -n COUNT and -ns NAMESPACE arguments, which may appear anywhere in
// the line.
func parseShellQuery(line string) (query, namespace string, limit int, err error) {
	tokens := strings.Fields(line)
	words := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "-n":
			if i+1 >= len(tokens) {
				return "", "", 0, fmuerr.New(fmuerr.CodeCLIInputInvalid, "-n requires a count")
			}
			i++
			limit, err = strconv.Atoi(tokens[i])
			if err != nil || limit <= 0 {
				return "", "", 0, fmuerr.Errorf(fmuerr.CodeCLIInputInvalid, "-n requires a positive count, got %q", tokens[i])
			}
		case "-ns":
			if i+1 >= len(tokens) {
				return "", "", 0, fmuerr.New(fmuerr.CodeCLIInputInvalid, "-ns requires a namespace")
			}
			i++
			namespace = tokens[i]
		default:
			words = append(words, tokens[i])
		}
	}

	query = strings.Join(words, " ")
	if query == "" {
		return "", "", 0, fmuerr.New(fmuerr.CodeCLIInputInvalid, "query must not be empty")
	}
	return query, namespace, limit, nil
}
