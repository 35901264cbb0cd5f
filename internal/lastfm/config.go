// Package lastfm provides a Last.fm genre source based on album tags.
package lastfm

import (
	"errors"
	"time"
)

// ErrMissingAPIKey is returned when no Last.fm API key is configured.
var ErrMissingAPIKey = errors.New("missing Last.fm API key (set LASTFM_API_KEY)")

// Config holds Last.fm API configuration.
type Config struct {
	APIKey string
	// BaseURL overrides the public API endpoint.
	BaseURL string
	Timeout time.Duration
}

// Validate reports whether the configuration can be used to build a client.
func (c *Config) Validate() error {
	if c == nil || c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
