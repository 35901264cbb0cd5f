package config

import (
	"fmt"
	"os"
	"strings"
)

// applyEnv fills credentials the file left empty from the environment.
func (c *Config) applyEnv() {
	fill := func(dst *string, key string) {
		if strings.TrimSpace(*dst) != "" {
			return
		}
		if value, ok := os.LookupEnv(key); ok {
			*dst = value
		}
	}
	fill(&c.LastFM.APIKey, "LASTFM_API_KEY")
	fill(&c.Spotify.ClientID, "SPOTIFY_ID")
	fill(&c.Spotify.ClientSecret, "SPOTIFY_SECRET")
	fill(&c.Database.URL, "WIKIGENRE_DATABASE_URL")
}

func (c *Config) normalize() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source == "" {
		c.Source = defaultSource
	}

	c.Wikipedia.Locale = strings.ToLower(strings.TrimSpace(c.Wikipedia.Locale))
	if c.Wikipedia.Locale == "" {
		c.Wikipedia.Locale = defaultLocale
	}
	c.Wikipedia.BaseURL = strings.TrimSpace(c.Wikipedia.BaseURL)
	c.LastFM.APIKey = strings.TrimSpace(c.LastFM.APIKey)
	c.LastFM.BaseURL = strings.TrimSpace(c.LastFM.BaseURL)
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	c.Database.URL = strings.TrimSpace(c.Database.URL)
	c.Serve.Addr = strings.TrimSpace(c.Serve.Addr)
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaultServeAddr
	}

	var err error
	if c.SeenFile, err = expandPath(strings.TrimSpace(c.SeenFile)); err != nil {
		return fmt.Errorf("seen_file: %w", err)
	}
	if c.Spotify.TokenCache, err = expandPath(strings.TrimSpace(c.Spotify.TokenCache)); err != nil {
		return fmt.Errorf("spotify.token_cache: %w", err)
	}

	c.normalizeLogging()
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
