// Package genre resolves album genres from an external lookup service.
//
// A lookup for one (artist, album) pair walks a fixed list of search query
// variants and stops at the first one that yields genres. Resolutions are
// shared through a Cache so that every distinct pair is looked up once per
// process, no matter how many tracks ask for it concurrently.
package genre

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Sentinel errors returned by sources.
var (
	// ErrNotFound is returned by a Source when the search yields no article.
	ErrNotFound = errors.New("no matching article")

	// ErrNoGenres is returned by a Source when the best match carries no
	// genre labels.
	ErrNoGenres = errors.New("no genres in matching article")

	// ErrBadResponse is returned by a Source when the service answers with
	// something it cannot use (unexpected status, malformed body).
	ErrBadResponse = errors.New("unexpected response")
)

// Key identifies one resolution. Fields are compared by exact value; empty
// fields are meaningful.
type Key struct {
	Artist string
	Album  string
}

// Source performs a single lookup against an external service.
// Implementations return ErrNotFound when the query matches nothing.
type Source interface {
	// Name is a short identifier used in logs, e.g. "wikipedia".
	Name() string

	// Lookup returns the genre labels for the best match of query.
	Lookup(ctx context.Context, query string) ([]string, error)
}

// Fetcher turns one query into zero or more genres. It never fails: a
// failed lookup yields an empty list so that the next query variant can
// still be tried.
type Fetcher interface {
	Fetch(ctx context.Context, query string) []string
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, query string) []string

// Fetch calls f(ctx, query).
func (f FetcherFunc) Fetch(ctx context.Context, query string) []string {
	return f(ctx, query)
}

// sourceFetcher wraps a Source with a per-call timeout and logs failures.
type sourceFetcher struct {
	source  Source
	timeout time.Duration
	logger  *slog.Logger
}

// NewFetcher returns a Fetcher backed by source. Every lookup is bounded by
// timeout (no bound when timeout <= 0). Lookup errors are logged and reported
// as an empty result.
func NewFetcher(source Source, timeout time.Duration, logger *slog.Logger) Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &sourceFetcher{
		source:  source,
		timeout: timeout,
		logger:  logger.With("source", source.Name()),
	}
}

// Fetch implements Fetcher.
func (f *sourceFetcher) Fetch(ctx context.Context, query string) []string {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	genres, err := f.source.Lookup(ctx, query)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoGenres):
		f.logger.Info("lookup found nothing", "query", query, "reason", Reason(err))
		return nil
	case err != nil:
		f.logger.Error("lookup failed", "query", query, "reason", Reason(err), "error", err)
		return nil
	case len(genres) == 0:
		f.logger.Info("lookup found nothing", "query", query, "reason", Reason(ErrNoGenres))
		return nil
	}
	return genres
}

// Reason maps a lookup error to a short machine-parsable label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoGenres):
		return "no_genres"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	default:
		return "request_failed"
	}
}
