// Package wikipedia looks up album genres on Wikipedia.
//
// A lookup searches the MediaWiki API for the query, fetches the article of
// the first hit and reads the genre links out of the article's infobox.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/justestif/go-wikigenre/internal/genre"
)

const (
	defaultLocale = "en"
	userAgent     = "go-wikigenre/1.0 (https://github.com/justestif/go-wikigenre)"

	// searchLimit is the number of hits requested; only the first is used
	// but a few more make the API's ranking match the website's.
	searchLimit = 5

	// maxArticleBytes bounds how much of an article page is read.
	maxArticleBytes = 8 << 20
)

// Config holds Wikipedia client configuration.
type Config struct {
	// Locale selects the language edition, e.g. "en" or "de".
	Locale string
	// BaseURL overrides https://{locale}.wikipedia.org.
	BaseURL string
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Client is a Wikipedia search and article client. It implements genre.Source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new Wikipedia client from the provided configuration.
func NewClient(cfg Config) *Client {
	locale := cfg.Locale
	if locale == "" {
		locale = defaultLocale
	}
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.wikipedia.org", locale)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = userAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(base, "/"),
		userAgent:  ua,
	}
}

// Name implements genre.Source.
func (c *Client) Name() string {
	return "wikipedia"
}

// Lookup implements genre.Source: search, take the first hit, fetch its
// article and extract the genres.
func (c *Client) Lookup(ctx context.Context, query string) ([]string, error) {
	slugs, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(slugs) == 0 {
		return nil, genre.ErrNotFound
	}

	markup, err := c.Article(ctx, slugs[0])
	if err != nil {
		return nil, err
	}

	genres := ExtractGenres(markup)
	if len(genres) == 0 {
		return nil, fmt.Errorf("%w: %s", genre.ErrNoGenres, slugs[0])
	}
	return genres, nil
}

// Search returns article slugs matching text, best match first. An empty
// slice means there were no results.
func (c *Client) Search(ctx context.Context, text string) ([]string, error) {
	params := url.Values{
		"action":        {"query"},
		"list":          {"search"},
		"srsearch":      {text},
		"srlimit":       {fmt.Sprint(searchLimit)},
		"srprop":        {""},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	body, err := c.get(ctx, c.baseURL+"/w/api.php?"+params.Encode(), 1<<20)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", text, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w: %v", genre.ErrBadResponse, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("search API error %s: %w: %s", resp.Error.Code, genre.ErrBadResponse, resp.Error.Info)
	}

	slugs := make([]string, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		if hit.Title == "" {
			continue
		}
		slugs = append(slugs, Slug(hit.Title))
	}
	return slugs, nil
}

// Article returns the HTML of the article identified by slug.
func (c *Client) Article(ctx context.Context, slug string) ([]byte, error) {
	body, err := c.get(ctx, c.baseURL+"/wiki/"+url.PathEscape(slug), maxArticleBytes)
	if err != nil {
		return nil, fmt.Errorf("fetching article %q: %w", slug, err)
	}
	return body, nil
}

// Slug converts an article title to its URL form.
func Slug(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// get performs a single HTTP GET request and returns at most limit bytes
// of the body.
func (c *Client) get(ctx context.Context, reqURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", genre.ErrBadResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
