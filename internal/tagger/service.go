// Package tagger writes resolved genres into audio files.
package tagger

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/justestif/go-wikigenre/internal/genre"
	"github.com/justestif/go-wikigenre/internal/seen"
	"github.com/justestif/go-wikigenre/internal/tagstore"
)

// Outcome is what happened to one track.
type Outcome string

const (
	// OutcomeTagged means genres were written.
	OutcomeTagged Outcome = "tagged"
	// OutcomeSkipped means the track already had a genre or was seen before.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoGenres means resolution found nothing.
	OutcomeNoGenres Outcome = "no_genres"
	// OutcomeFailed means the track could not be read or written.
	OutcomeFailed Outcome = "failed"
)

// DefaultConcurrency is the number of tracks processed at once.
const DefaultConcurrency = 8

// Result holds the outcome for one track.
type Result struct {
	Path    string
	Outcome Outcome
	// Reason is a short explanation for skipped and failed tracks.
	Reason string
	Artist string
	Album  string
	Genres []string
	Err    error // Non-nil if Outcome is OutcomeFailed
}

// GenreResolver resolves an artist/album pair to genre labels.
type GenreResolver interface {
	Resolve(ctx context.Context, artist, album string) ([]string, error)
}

// StoreOpener returns the tag store for a file.
type StoreOpener func(path string) (tagstore.Store, error)

// Service tags audio files with genres.
type Service struct {
	resolver    GenreResolver
	open        StoreOpener
	seen        seen.Set
	force       bool
	concurrency int
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency sets the number of tracks processed concurrently.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithForce rewrites genres even when a track already has them.
func WithForce(force bool) Option {
	return func(s *Service) {
		s.force = force
	}
}

// WithSeenSet skips tracks tagged in earlier runs and records new ones.
func WithSeenSet(set seen.Set) Option {
	return func(s *Service) {
		s.seen = set
	}
}

// WithStoreOpener replaces the extension-based tag store lookup.
func WithStoreOpener(open StoreOpener) Option {
	return func(s *Service) {
		if open != nil {
			s.open = open
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new tagging service.
func NewService(resolver GenreResolver, opts ...Option) *Service {
	s := &Service{
		resolver:    resolver,
		open:        tagstore.ForPath,
		concurrency: DefaultConcurrency,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TagFiles tags every path concurrently. Results are returned in the same
// order as paths. Per-track failures are reported in Result and never stop
// the batch; the error is only the context's.
func (s *Service) TagFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = s.TagFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

// TagFile tags a single track.
func (s *Service) TagFile(ctx context.Context, path string) Result {
	path = filepath.Clean(path)
	res := Result{Path: path}
	logger := s.logger.With("path", path)

	if err := ctx.Err(); err != nil {
		return s.fail(logger, res, genre.Reason(err), err)
	}

	if s.seen != nil && !s.force {
		done, err := s.seen.Has(ctx, path)
		if err != nil {
			logger.Warn("seen lookup failed", "error", err)
		} else if done {
			logger.Debug("skipping", "reason", "seen")
			res.Outcome, res.Reason = OutcomeSkipped, "seen"
			return res
		}
	}

	store, err := s.open(path)
	if err != nil {
		reason := "open_failed"
		if errors.Is(err, tagstore.ErrUnsupportedFormat) {
			reason = "unsupported_format"
		}
		return s.fail(logger, res, reason, err)
	}

	if _, present, err := store.ReadField(path, tagstore.FieldGenre); err != nil {
		return s.fail(logger, res, "read_failed", err)
	} else if present && !s.force {
		logger.Info("skipping", "reason", "has_genre")
		res.Outcome, res.Reason = OutcomeSkipped, "has_genre"
		s.markSeen(ctx, logger, path)
		return res
	}

	if res.Artist, err = tagstore.First(store, path, tagstore.FieldArtist); err != nil {
		return s.fail(logger, res, "read_failed", err)
	}
	if res.Album, err = tagstore.First(store, path, tagstore.FieldAlbum); err != nil {
		return s.fail(logger, res, "read_failed", err)
	}

	genres, err := s.resolver.Resolve(ctx, res.Artist, res.Album)
	if err != nil {
		return s.fail(logger, res, genre.Reason(err), err)
	}
	if len(genres) == 0 {
		logger.Warn("no genres found", "artist", res.Artist, "album", res.Album)
		res.Outcome = OutcomeNoGenres
		return res
	}

	res.Genres = genre.TitleCaseAll(genres)
	if err := store.WriteFields(path, map[string][]string{tagstore.FieldGenre: res.Genres}); err != nil {
		return s.fail(logger, res, "write_failed", err)
	}

	logger.Info("tagged", "artist", res.Artist, "album", res.Album, "genres", res.Genres)
	res.Outcome = OutcomeTagged
	s.markSeen(ctx, logger, path)
	return res
}

func (s *Service) fail(logger *slog.Logger, res Result, reason string, err error) Result {
	logger.Error("tagging failed", "reason", reason, "error", err)
	res.Outcome, res.Reason, res.Err = OutcomeFailed, reason, err
	return res
}

func (s *Service) markSeen(ctx context.Context, logger *slog.Logger, path string) {
	if s.seen == nil {
		return
	}
	if err := s.seen.Add(ctx, path); err != nil {
		logger.Warn("recording seen track failed", "error", err)
	}
}

// Summary counts results by outcome.
type Summary struct {
	Tagged   int
	Skipped  int
	NoGenres int
	Failed   int
}

// Total returns the number of tracks summarized.
func (s Summary) Total() int {
	return s.Tagged + s.Skipped + s.NoGenres + s.Failed
}

// Summarize counts results by outcome.
func Summarize(results []Result) Summary {
	var sum Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeTagged:
			sum.Tagged++
		case OutcomeSkipped:
			sum.Skipped++
		case OutcomeNoGenres:
			sum.NoGenres++
		case OutcomeFailed:
			sum.Failed++
		}
	}
	return sum
}
