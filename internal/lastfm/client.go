package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/justestif/go-wikigenre/internal/genre"
)

const (
	baseURL   = "http://ws.audioscrobbler.com/2.0/"
	userAgent = "go-wikigenre/1.0"

	// maxTags caps the genres taken from album.getTopTags; the tail of
	// the list is mostly personal labels ("seen live", "albums i own").
	maxTags = 5
)

// Last.fm API error codes.
const (
	errCodeInvalidParams = 6
	errCodeInvalidAPIKey = 10
	errCodeRateLimited   = 29
)

// Sentinel errors.
var (
	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the API key is invalid.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// Client is a Last.fm API client. It implements genre.Source.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Last.fm API client from the provided configuration.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := cfg.BaseURL
	if base == "" {
		base = baseURL
	}
	return &Client{
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: base,
	}
}

// Name implements genre.Source.
func (c *Client) Name() string {
	return "lastfm"
}

// Lookup implements genre.Source. The query is matched against album
// titles and the top tags of the best match are returned.
func (c *Client) Lookup(ctx context.Context, query string) ([]string, error) {
	match, err := c.SearchAlbum(ctx, query)
	if err != nil {
		return nil, err
	}

	tags, err := c.GetAlbumTags(ctx, match.Artist, match.Name)
	if err != nil {
		return nil, err
	}

	genres := make([]string, 0, min(len(tags), maxTags))
	for _, tag := range tags {
		if len(genres) == maxTags {
			break
		}
		if name := strings.TrimSpace(tag.Name); name != "" {
			genres = append(genres, name)
		}
	}
	return genres, nil
}

// SearchAlbum returns the best album match for query. It returns
// genre.ErrNotFound when nothing matches.
func (c *Client) SearchAlbum(ctx context.Context, query string) (Album, error) {
	params := url.Values{
		"method": {"album.search"},
		"album":  {query},
		"limit":  {"1"},
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return Album{}, fmt.Errorf("searching albums: %w", err)
	}

	var resp albumSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Album{}, fmt.Errorf("parsing album search response: %w: %v", genre.ErrBadResponse, err)
	}

	for _, album := range resp.Results.AlbumMatches.Album {
		if album.Name != "" && album.Artist != "" {
			return album, nil
		}
	}
	return Album{}, genre.ErrNotFound
}

// GetAlbumTags fetches the top tags of an album, most popular first.
// Returns an empty slice (not nil) if the album has no tags.
func (c *Client) GetAlbumTags(ctx context.Context, artist, album string) ([]Tag, error) {
	params := url.Values{
		"method":      {"album.getTopTags"},
		"artist":      {artist},
		"album":       {album},
		"autocorrect": {"1"},
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching album tags: %w", err)
	}

	var resp albumTagsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing album tags response: %w: %v", genre.ErrBadResponse, err)
	}

	tags := resp.TopTags.Tag
	if tags == nil {
		tags = []Tag{}
	}
	return tags, nil
}

// doRequest performs a single HTTP GET request against the API.
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// Last.fm reports most failures in the body, sometimes with a 200.
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case errCodeRateLimited:
			return nil, ErrRateLimited
		case errCodeInvalidAPIKey:
			return nil, ErrInvalidAPIKey
		case errCodeInvalidParams:
			// Unknown album or artist.
			return nil, genre.ErrNotFound
		default:
			return nil, fmt.Errorf("API error %d: %w: %s", apiErr.Error, genre.ErrBadResponse, apiErr.Message)
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", genre.ErrBadResponse, resp.StatusCode)
	}

	return body, nil
}
