// Package config loads, normalizes, and validates wikigenre configuration.
//
// Values come from defaults, an optional TOML file, environment fallbacks
// for credentials (LASTFM_API_KEY, SPOTIFY_ID, SPOTIFY_SECRET,
// WIKIGENRE_DATABASE_URL) and finally command-line overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Wikipedia contains configuration for the Wikipedia genre source.
type Wikipedia struct {
	Locale    string `toml:"locale"`
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// LastFM contains configuration for the Last.fm genre source.
type LastFM struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Spotify contains configuration for the Spotify genre source.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	// TokenCache is where the app token is kept between runs; "" uses the
	// user cache directory.
	TokenCache string `toml:"token_cache"`
}

// Database contains PostgreSQL configuration. An empty URL disables run
// history and the database seen set.
type Database struct {
	URL string `toml:"url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Serve contains configuration for the HTTP lookup server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Config encapsulates all configuration values for wikigenre.
type Config struct {
	// Source selects the genre source: wikipedia, lastfm or spotify.
	Source string `toml:"source"`
	// Concurrency is the number of tracks tagged at once.
	Concurrency int `toml:"concurrency"`
	// FetchTimeout bounds each source lookup, in seconds.
	FetchTimeout int `toml:"fetch_timeout"`
	// SeenFile enables the file-backed seen set when set.
	SeenFile string `toml:"seen_file"`

	Wikipedia Wikipedia `toml:"wikipedia"`
	LastFM    LastFM    `toml:"lastfm"`
	Spotify   Spotify   `toml:"spotify"`
	Database  Database  `toml:"database"`
	Logging   Logging   `toml:"logging"`
	Serve     Serve     `toml:"serve"`
}

// Override adjusts a loaded config before it is normalized and validated.
type Override func(*Config)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates and parses a configuration file, applies environment
// fallbacks and overrides, then normalizes and validates the result. A
// missing file is not an error; the second and third results report the
// resolved path and whether it existed.
func Load(path string, overrides ...Override) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	for _, o := range overrides {
		o(&cfg)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// FetchTimeoutDuration returns FetchTimeout as a duration.
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
