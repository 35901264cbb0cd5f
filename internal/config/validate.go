package config

import (
	"errors"
	"fmt"

	"github.com/justestif/go-wikigenre/internal/auth"
	"github.com/justestif/go-wikigenre/internal/lastfm"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch_timeout must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	switch c.Source {
	case SourceWikipedia:
		return nil
	case SourceLastFM:
		if c.LastFM.APIKey == "" {
			return fmt.Errorf("lastfm.api_key: %w", lastfm.ErrMissingAPIKey)
		}
		return nil
	case SourceSpotify:
		if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
			return fmt.Errorf("spotify.client_id/client_secret: %w", auth.ErrMissingCredentials)
		}
		return nil
	default:
		return fmt.Errorf("source %q must be one of %s, %s, %s", c.Source, SourceWikipedia, SourceLastFM, SourceSpotify)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
