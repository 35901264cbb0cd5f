package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	spotifyapi "github.com/zmb3/spotify/v2"

	"github.com/justestif/go-wikigenre/internal/auth"
	"github.com/justestif/go-wikigenre/internal/config"
	"github.com/justestif/go-wikigenre/internal/db"
	"github.com/justestif/go-wikigenre/internal/genre"
	"github.com/justestif/go-wikigenre/internal/lastfm"
	"github.com/justestif/go-wikigenre/internal/logging"
	"github.com/justestif/go-wikigenre/internal/spotify"
	"github.com/justestif/go-wikigenre/internal/wikipedia"
)

const spotifyHTTPTimeout = 30 * time.Second

// globalFlags are the persistent flags that override config file values.
type globalFlags struct {
	config   string
	source   string
	jobs     int
	timeout  int
	logLevel string
	seenFile string
}

type commandContext struct {
	flags globalFlags
	// flagSet reports which flags the user actually set.
	flagSet func(name string) bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger    *slog.Logger
	logCloser io.Closer

	// source replaces the configured genre source; used by tests.
	source genre.Source
}

func newCommandContext() *commandContext {
	return &commandContext{flagSet: func(string) bool { return false }}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config), c.flagOverrides)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) flagOverrides(cfg *config.Config) {
	if c.flagSet("source") {
		cfg.Source = c.flags.source
	}
	if c.flagSet("jobs") {
		cfg.Concurrency = c.flags.jobs
	}
	if c.flagSet("timeout") {
		cfg.FetchTimeout = c.flags.timeout
	}
	if c.flagSet("log-level") {
		cfg.Logging.Level = c.flags.logLevel
	}
	if c.flagSet("seen-file") {
		cfg.SeenFile = c.flags.seenFile
	}
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	c.logger, c.logCloser = logger, closer
	return logger, nil
}

func (c *commandContext) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
	}
}

// newCache builds the per-process resolution chain for the configured source.
func (c *commandContext) newCache(ctx context.Context) (*genre.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	source := c.source
	if source == nil {
		if source, err = c.newSource(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	fetcher := genre.NewFetcher(source, cfg.FetchTimeoutDuration(), logger)
	resolver := genre.NewResolver(fetcher, logger)
	return genre.NewCache(resolver.Resolve, logger), nil
}

func (c *commandContext) newSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (genre.Source, error) {
	switch cfg.Source {
	case config.SourceWikipedia:
		return wikipedia.NewClient(wikipedia.Config{
			Locale:    cfg.Wikipedia.Locale,
			BaseURL:   cfg.Wikipedia.BaseURL,
			UserAgent: cfg.Wikipedia.UserAgent,
		}), nil
	case config.SourceLastFM:
		return lastfm.NewClient(&lastfm.Config{
			APIKey:  cfg.LastFM.APIKey,
			BaseURL: cfg.LastFM.BaseURL,
		}), nil
	case config.SourceSpotify:
		authenticator, err := c.newAuthenticator(cfg, logger)
		if err != nil {
			return nil, err
		}
		httpClient, err := authenticator.HTTPClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("spotify auth: %w", err)
		}
		httpClient.Timeout = spotifyHTTPTimeout
		return spotify.New(spotifyapi.New(httpClient)), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func (c *commandContext) newAuthenticator(cfg *config.Config, logger *slog.Logger) (*auth.Authenticator, error) {
	cache, err := tokenCache(cfg)
	if err != nil {
		return nil, err
	}
	return auth.New(auth.Credentials{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
	}, cache, logger)
}

func tokenCache(cfg *config.Config) (*auth.TokenCache, error) {
	if cfg.Spotify.TokenCache != "" {
		return auth.NewTokenCache(afero.NewOsFs(), cfg.Spotify.TokenCache), nil
	}
	cache, err := auth.DefaultTokenCache()
	if err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}
	return cache, nil
}

// openDatabase connects to the configured database, or returns nil when
// none is configured.
func (c *commandContext) openDatabase(ctx context.Context) (*db.DB, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, nil
	}
	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
