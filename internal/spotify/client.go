// Package spotify provides a Spotify genre source on top of the Web API.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-wikigenre/internal/genre"
)

// Client wraps the Spotify API client with genre lookups. It implements
// genre.Source.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// Name implements genre.Source.
func (c *Client) Name() string {
	return "spotify"
}

// Lookup implements genre.Source. Spotify rarely tags albums with genres,
// so the first artist's genres are used when the album has none.
func (c *Client) Lookup(ctx context.Context, query string) ([]string, error) {
	album, err := c.searchAlbum(ctx, query)
	if err != nil {
		return nil, err
	}

	full, err := c.api.GetAlbum(ctx, album.ID)
	if err != nil {
		return nil, fmt.Errorf("getting album %s: %w", album.ID, err)
	}
	if len(full.Genres) > 0 {
		return full.Genres, nil
	}

	if len(album.Artists) == 0 {
		return nil, nil
	}
	artist, err := c.api.GetArtist(ctx, album.Artists[0].ID)
	if err != nil {
		return nil, fmt.Errorf("getting artist %s: %w", album.Artists[0].ID, err)
	}
	return artist.Genres, nil
}

func (c *Client) searchAlbum(ctx context.Context, query string) (spotify.SimpleAlbum, error) {
	result, err := c.api.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(1))
	if err != nil {
		return spotify.SimpleAlbum{}, fmt.Errorf("searching albums: %w", err)
	}
	if result.Albums == nil || len(result.Albums.Albums) == 0 {
		return spotify.SimpleAlbum{}, genre.ErrNotFound
	}
	return result.Albums.Albums[0], nil
}
