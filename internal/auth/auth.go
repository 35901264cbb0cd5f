// Package auth provides Spotify app authentication (client credentials)
// with token caching between runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredentials is returned when the Spotify client ID or secret is not set.
var ErrMissingCredentials = errors.New("missing Spotify credentials (set SPOTIFY_ID and SPOTIFY_SECRET)")

// Credentials identify a registered Spotify application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	// TokenURL overrides the Spotify accounts token endpoint.
	TokenURL string
}

// Authenticator obtains app access tokens for the Spotify Web API.
type Authenticator struct {
	config clientcredentials.Config
	cache  *TokenCache
	logger *slog.Logger
}

// New creates an Authenticator. cache may be nil to disable token caching.
// Returns ErrMissingCredentials if the client ID or secret is empty.
func New(creds Credentials, cache *TokenCache, logger *slog.Logger) (*Authenticator, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Authenticator{
		config: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
		},
		cache:  cache,
		logger: logger,
	}, nil
}

// HTTPClient returns an HTTP client that authorizes requests with an app
// token. A still-valid cached token is reused; otherwise a new token is
// requested and cached.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	src := &cachingSource{
		base:     a.config.TokenSource(ctx),
		clientID: a.config.ClientID,
		cache:    a.cache,
		logger:   a.logger,
		last:     token.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, src)), nil
}

func (a *Authenticator) token(ctx context.Context) (*oauth2.Token, error) {
	if a.cache != nil {
		cached, err := a.cache.Load(a.config.ClientID)
		if err != nil {
			a.logger.Warn("ignoring unreadable token cache", "path", a.cache.Path(), "error", err)
		} else if cached.Valid() {
			return cached, nil
		}
	}

	token, err := a.config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting app token: %w", err)
	}

	if a.cache != nil {
		if err := a.cache.Save(a.config.ClientID, token); err != nil {
			// Auth succeeded; the next run just asks again.
			a.logger.Warn("failed to cache token", "path", a.cache.Path(), "error", err)
		}
	}
	return token, nil
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Delete()
}

// cachingSource saves every newly issued token to the cache.
type cachingSource struct {
	base     oauth2.TokenSource
	clientID string
	cache    *TokenCache
	logger   *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *cachingSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil && token.AccessToken != s.last {
		if err := s.cache.Save(s.clientID, token); err != nil {
			s.logger.Warn("failed to cache token", "path", s.cache.Path(), "error", err)
		}
		s.last = token.AccessToken
	}
	return token, nil
}
