package genre

import (
	"context"
	"log/slog"
)

// Resolver looks up genres for an (artist, album) pair by trying each query
// variant in order and returning the first non-empty result.
type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewResolver creates a Resolver that queries fetcher.
func NewResolver(fetcher Fetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Resolve returns the genres of the first variant that yields any, or an
// empty list when every variant comes back empty. Later variants are never
// queried once one succeeds.
func (r *Resolver) Resolve(ctx context.Context, artist, album string) []string {
	for query := range Variants(artist, album) {
		if ctx.Err() != nil {
			return nil
		}
		if genres := r.fetcher.Fetch(ctx, query); len(genres) > 0 {
			r.logger.Debug("genres resolved",
				"artist", artist,
				"album", album,
				"query", query,
				"genres", genres,
			)
			return genres
		}
	}
	return nil
}
