package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-wikigenre/internal/genre"
	"github.com/justestif/go-wikigenre/internal/tagger"
)

type resolver interface {
	Resolve(ctx context.Context, artist, album string) ([]string, error)
}

func runQuery(cmd *cobra.Command, cc *commandContext, query string) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	cache, err := cc.newCache(cmd.Context())
	if err != nil {
		return err
	}
	return printQueries(cmd.Context(), cmd.OutOrStdout(), cache, tagger.ParseQuery(query), cfg.Concurrency)
}

func runStdin(cmd *cobra.Command, cc *commandContext) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	keys, err := readTrackLines(cmd.InOrStdin())
	if err != nil {
		return err
	}
	cache, err := cc.newCache(cmd.Context())
	if err != nil {
		return err
	}
	return printTrackGenres(cmd.Context(), cmd.OutOrStdout(), cache, keys, cfg.Concurrency)
}

// printQueries resolves every item concurrently and prints
// "<item>: G1; G2" lines in input order.
func printQueries(ctx context.Context, w io.Writer, r resolver, queries []tagger.Query, jobs int) error {
	keys := make([]genre.Key, len(queries))
	for i, q := range queries {
		keys[i] = q.Key
	}
	genres, err := resolveAll(ctx, r, keys, jobs)
	if err != nil {
		return err
	}
	for i, q := range queries {
		fmt.Fprintf(w, "%s: %s\n", q.Item, strings.Join(genres[i], "; "))
	}
	return nil
}

// printTrackGenres prints one "G1; G2" line per key, in input order.
func printTrackGenres(ctx context.Context, w io.Writer, r resolver, keys []genre.Key, jobs int) error {
	genres, err := resolveAll(ctx, r, keys, jobs)
	if err != nil {
		return err
	}
	for _, g := range genres {
		fmt.Fprintln(w, strings.Join(g, "; "))
	}
	return nil
}

// readTrackLines returns the keys of lines that look like
// "Artist - [Album CD1 #01] Title"; other lines are ignored.
func readTrackLines(r io.Reader) ([]genre.Key, error) {
	var keys []genre.Key
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if key, ok := tagger.ParseTrackLine(scanner.Text()); ok {
			keys = append(keys, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return keys, nil
}

func resolveAll(ctx context.Context, r resolver, keys []genre.Key, jobs int) ([][]string, error) {
	out := make([][]string, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, key := range keys {
		g.Go(func() error {
			genres, err := r.Resolve(ctx, key.Artist, key.Album)
			if err != nil {
				return err
			}
			out[i] = genre.TitleCaseAll(genres)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
