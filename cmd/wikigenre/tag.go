package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/justestif/go-wikigenre/internal/db"
	"github.com/justestif/go-wikigenre/internal/genre"
	"github.com/justestif/go-wikigenre/internal/seen"
	"github.com/justestif/go-wikigenre/internal/tagger"
)

func runTag(cmd *cobra.Command, cc *commandContext, pattern string, force bool) error {
	ctx := cmd.Context()
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cc.ensureLogger()
	if err != nil {
		return err
	}

	files, err := tagger.ExpandGlob(afero.NewOsFs(), pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("no files matched", "path", pattern)
		return nil
	}

	cache, err := cc.newCache(ctx)
	if err != nil {
		return err
	}

	opts := []tagger.Option{
		tagger.WithConcurrency(cfg.Concurrency),
		tagger.WithForce(force),
		tagger.WithLogger(logger),
	}

	database, err := cc.openDatabase(ctx)
	if err != nil {
		return err
	}
	var run *db.Run
	if database != nil {
		defer database.Close()
		run = &db.Run{Source: cfg.Source, Pattern: pattern, Force: force}
		if err := database.Runs().Create(ctx, run); err != nil {
			return err
		}
		opts = append(opts, tagger.WithSeenSet(database.ProcessedTracks(run.ID)))
	} else if cfg.SeenFile != "" {
		set, err := seen.OpenFileSet(cfg.SeenFile)
		if err != nil {
			return err
		}
		defer set.Close()
		opts = append(opts, tagger.WithSeenSet(set))
	}

	logger.Info("tagging", "files", len(files), "source", cfg.Source, "force", force)
	results, tagErr := tagger.NewService(cache, opts...).TagFiles(ctx, files)
	summary := tagger.Summarize(results)

	if run != nil {
		counts := db.RunCounts{
			Tagged:   summary.Tagged,
			Skipped:  summary.Skipped,
			NoGenres: summary.NoGenres,
			Failed:   summary.Failed,
		}
		if err := database.Runs().Finish(context.WithoutCancel(ctx), run.ID, counts); err != nil {
			logger.Error("recording run failed", "run", run.ID, "error", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, cache.Stats()))
	return tagErr
}

func renderSummary(s tagger.Summary, stats genre.Stats) string {
	tw := newTable("Outcome", "Tracks")
	tw.AppendRow(row("Tagged", strconv.Itoa(s.Tagged)))
	tw.AppendRow(row("Skipped", strconv.Itoa(s.Skipped)))
	tw.AppendRow(row("No genres", strconv.Itoa(s.NoGenres)))
	tw.AppendRow(row("Failed", strconv.Itoa(s.Failed)))
	tw.AppendRow(row("Total", strconv.Itoa(s.Total())))
	tw.AppendRow(row("Album lookups", strconv.Itoa(stats.Keys)))
	alignRight(tw, 2)
	return tw.Render()
}
