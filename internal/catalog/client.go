// Package catalog forwards browsing and search requests to TMDB and returns
// the provider's JSON unchanged.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "pt-BR"
	DefaultRegion   = "BR"
	DefaultTimeout  = 10 * time.Second

	// maxResponseBytes caps how much of a provider response is buffered.
	maxResponseBytes = 8 << 20
)

var (
	ErrUpstreamUnavailable = errors.New("movie catalog is unavailable")
	ErrNotFound            = errors.New("movie not found")
	ErrQueryRequired       = errors.New("query parameter is required")
	ErrInvalidWindow       = errors.New("time window must be day or week")
	ErrInvalidMovieID      = errors.New("invalid movie id")
)

// Options configures a Client.
type Options struct {
	APIKey   string
	BaseURL  string
	Language string
	Region   string
	Timeout  time.Duration
}

// Client talks to the TMDB v3 API.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	region   string
	http     *http.Client
}

// NewClient creates a Client, filling unset options with TMDB defaults.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:   opts.APIKey,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		language: opts.Language,
		region:   opts.Region,
		http:     &http.Client{Timeout: opts.Timeout},
	}
}

// Search looks movies up by title. An empty page asks for the first one.
func (c *Client) Search(ctx context.Context, query, page string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}
	params := url.Values{}
	params.Set("query", query)
	if page != "" {
		params.Set("page", page)
	}
	return c.get(ctx, "/search/movie", params)
}

// Popular returns the first page of popular movies.
func (c *Client) Popular(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/movie/popular", firstPage())
}

// NowPlaying returns the first page of movies in theaters.
func (c *Client) NowPlaying(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/movie/now_playing", firstPage())
}

// TopRated returns the first page of the best rated movies.
func (c *Client) TopRated(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/movie/top_rated", firstPage())
}

// Upcoming returns the first page of upcoming releases.
func (c *Client) Upcoming(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/movie/upcoming", firstPage())
}

// Trending returns trending movies for the "day" or "week" window.
func (c *Client) Trending(ctx context.Context, window string) (json.RawMessage, error) {
	if window != "day" && window != "week" {
		return nil, ErrInvalidWindow
	}
	return c.get(ctx, "/trending/movie/"+window, nil)
}

// Discover filters the catalog. A "query" parameter switches to title search;
// every other parameter is forwarded as is.
func (c *Client) Discover(ctx context.Context, filters url.Values) (json.RawMessage, error) {
	params := url.Values{}
	for k, v := range filters {
		params[k] = append([]string(nil), v...)
	}

	if query := params.Get("query"); query != "" {
		return c.get(ctx, "/search/movie", params)
	}
	params.Del("query")
	params.Set("watch_region", c.region)
	params.Set("certification_country", c.region)
	return c.get(ctx, "/discover/movie", params)
}

// Genres returns the official movie genre list.
func (c *Client) Genres(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/genre/movie/list", nil)
}

// Languages returns the languages known to the provider.
func (c *Client) Languages(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "/configuration/languages", url.Values{})
}

// WatchProviders returns streaming providers for the configured region.
func (c *Client) WatchProviders(ctx context.Context) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("watch_region", c.region)
	return c.get(ctx, "/watch/providers/movie", params)
}

// Movie returns full details of one movie, including credits, watch
// providers and release dates.
func (c *Client) Movie(ctx context.Context, id string) (json.RawMessage, error) {
	movieID, err := parseMovieID(id)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,watch/providers,release_dates")
	return c.get(ctx, "/movie/"+movieID, params)
}

// Trailer returns the best trailer of a movie, or JSON null if it has none.
func (c *Client) Trailer(ctx context.Context, id string) (json.RawMessage, error) {
	movieID, err := parseMovieID(id)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, "/movie/"+movieID+"/videos", nil)
	if err != nil {
		return nil, err
	}
	return SelectTrailer(body)
}

// get issues a localized GET to path.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("language", c.language)
	return c.do(ctx, path, q)
}

// do issues a GET to path with params and the API key. Any transport error,
// timeout or non-2xx status other than 404 is reported as ErrUpstreamUnavailable.
func (c *Client) do(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("building catalog url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %s", ErrUpstreamUnavailable, redact(err.Error(), c.apiKey))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrUpstreamUnavailable, path)
	}

	return json.RawMessage(body), nil
}

func firstPage() url.Values {
	return url.Values{"page": []string{"1"}}
}

func parseMovieID(id string) (string, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return "", ErrInvalidMovieID
	}
	return strconv.FormatInt(n, 10), nil
}

// redact keeps the API key out of logged transport errors, which embed the URL.
func redact(msg, secret string) string {
	if secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, secret, "REDACTED")
}
