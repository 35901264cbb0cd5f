package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/oauth2"
)

const (
	cacheDirName  = "wikigenre"
	tokenFileName = "spotify-token.json"
)

// cachedToken ties an app token to the client that was issued it, so
// switching SPOTIFY_ID never reuses another application's token.
type cachedToken struct {
	ClientID string        `json:"client_id"`
	Token    *oauth2.Token `json:"token"`
}

// TokenCache keeps one app token on disk between runs.
type TokenCache struct {
	fs   afero.Fs
	path string
}

// DefaultTokenCache stores the token under the user cache directory,
// e.g. ~/.cache/wikigenre/spotify-token.json.
func DefaultTokenCache() (*TokenCache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("getting user cache dir: %w", err)
	}
	return NewTokenCache(afero.NewOsFs(), filepath.Join(dir, cacheDirName, tokenFileName)), nil
}

func NewTokenCache(fs afero.Fs, path string) *TokenCache {
	return &TokenCache{fs: fs, path: path}
}

func (c *TokenCache) Path() string { return c.path }

// Load returns the token cached for clientID. A missing file or a token
// issued to a different client yields (nil, nil).
func (c *TokenCache) Load(clientID string) (*oauth2.Token, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var entry cachedToken
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	if entry.ClientID != clientID || entry.Token == nil {
		return nil, nil
	}
	return entry.Token, nil
}

// Save replaces the cached token. The file is private to the user.
func (c *TokenCache) Save(clientID string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("cannot save nil token")
	}

	data, err := json.Marshal(cachedToken{ClientID: clientID, Token: token})
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := afero.WriteFile(c.fs, c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Delete removes the cached token; a missing file is not an error.
func (c *TokenCache) Delete() error {
	if err := c.fs.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
