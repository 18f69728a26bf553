package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound indicates the provider has no match for the lookup.
var ErrNotFound = errors.New("trakt: not found")

// LookupArgs identifies the media object to resolve. Identifier fields
// take precedence over title search in the order Trakt ID, IMDB ID, TVDB
// ID, TMDB ID, slug, title+year.
type LookupArgs struct {
	Title    string
	Year     int
	TraktID  int64
	Slug     string
	IMDBID   string
	TVDBID   int64
	TMDBID   int64
}

// Lookuper defines the lookup operations the metadata plugin needs.
type Lookuper interface {
	LookupShow(ctx context.Context, args LookupArgs) (*Show, error)
	LookupMovie(ctx context.Context, args LookupArgs) (*Movie, error)
	SeasonDetails(ctx context.Context, showID int64, season int) (*Season, error)
	EpisodeDetails(ctx context.Context, showID int64, season, number int) (*Episode, error)
	UserRating(ctx context.Context, username, mediaType string, traktID int64) (int, error)
}

// Client provides access to the Trakt API.
type Client struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
}

var _ Lookuper = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Trakt client.
func New(clientID, baseURL string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("trakt client id required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("trakt base url required")
	}
	client := &Client{
		clientID:   clientID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// LookupShow resolves a show by identifier or title search.
func (c *Client) LookupShow(ctx context.Context, args LookupArgs) (*Show, error) {
	if id := directIDPath(args); id != "" {
		var show Show
		if err := c.get(ctx, "/shows/"+id, url.Values{"extended": {"full"}}, &show); err != nil {
			return nil, err
		}
		return &show, nil
	}
	if args.IMDBID != "" || args.TVDBID != 0 || args.TMDBID != 0 {
		return c.showByExternalID(ctx, args)
	}
	return c.searchShow(ctx, args)
}

// LookupMovie resolves a movie by identifier or title search.
func (c *Client) LookupMovie(ctx context.Context, args LookupArgs) (*Movie, error) {
	if id := directIDPath(args); id != "" {
		var movie Movie
		if err := c.get(ctx, "/movies/"+id, url.Values{"extended": {"full"}}, &movie); err != nil {
			return nil, err
		}
		return &movie, nil
	}
	query := url.Values{"extended": {"full"}}
	query.Set("query", args.Title)
	if args.Year > 0 {
		query.Set("years", strconv.Itoa(args.Year))
	}
	var results []struct {
		Movie *Movie `json:"movie"`
	}
	if err := c.get(ctx, "/search/movie", query, &results); err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.Movie != nil {
			return result.Movie, nil
		}
	}
	return nil, fmt.Errorf("%w: movie %q", ErrNotFound, args.Title)
}

// SeasonDetails fetches one season of a show.
func (c *Client) SeasonDetails(ctx context.Context, showID int64, season int) (*Season, error) {
	path := fmt.Sprintf("/shows/%d/seasons/%d/info", showID, season)
	var payload Season
	if err := c.get(ctx, path, url.Values{"extended": {"full"}}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// EpisodeDetails fetches one episode of a show.
func (c *Client) EpisodeDetails(ctx context.Context, showID int64, season, number int) (*Episode, error) {
	path := fmt.Sprintf("/shows/%d/seasons/%d/episodes/%d", showID, season, number)
	var payload Episode
	if err := c.get(ctx, path, url.Values{"extended": {"full"}}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UserRating returns the rating the named user gave one media object.
// mediaType is "shows" or "movies". Only public ratings are visible;
// ErrNotFound covers both an unrated object and a private profile.
func (c *Client) UserRating(ctx context.Context, username, mediaType string, traktID int64) (int, error) {
	path := fmt.Sprintf("/users/%s/ratings/%s", url.PathEscape(username), mediaType)
	var results []struct {
		Rating int    `json:"rating"`
		Show   *Show  `json:"show"`
		Movie  *Movie `json:"movie"`
	}
	if err := c.get(ctx, path, nil, &results); err != nil {
		return 0, err
	}
	for _, result := range results {
		switch {
		case result.Show != nil && result.Show.IDs.Trakt == traktID:
			return result.Rating, nil
		case result.Movie != nil && result.Movie.IDs.Trakt == traktID:
			return result.Rating, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s rating by %s for trakt id %d", ErrNotFound, mediaType, username, traktID)
}

func (c *Client) showByExternalID(ctx context.Context, args LookupArgs) (*Show, error) {
	idType, id := "imdb", args.IMDBID
	switch {
	case args.IMDBID != "":
	case args.TVDBID != 0:
		idType, id = "tvdb", strconv.FormatInt(args.TVDBID, 10)
	case args.TMDBID != 0:
		idType, id = "tmdb", strconv.FormatInt(args.TMDBID, 10)
	}
	query := url.Values{"type": {"show"}, "extended": {"full"}}
	var results []struct {
		Show *Show `json:"show"`
	}
	if err := c.get(ctx, "/search/"+idType+"/"+url.PathEscape(id), query, &results); err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.Show != nil {
			return result.Show, nil
		}
	}
	return nil, fmt.Errorf("%w: show %s=%s", ErrNotFound, idType, id)
}

func (c *Client) searchShow(ctx context.Context, args LookupArgs) (*Show, error) {
	if strings.TrimSpace(args.Title) == "" {
		return nil, fmt.Errorf("%w: no identifiers or title", ErrNotFound)
	}
	query := url.Values{"extended": {"full"}}
	query.Set("query", args.Title)
	if args.Year > 0 {
		query.Set("years", strconv.Itoa(args.Year))
	}
	var results []struct {
		Show *Show `json:"show"`
	}
	if err := c.get(ctx, "/search/show", query, &results); err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.Show != nil {
			return result.Show, nil
		}
	}
	return nil, fmt.Errorf("%w: show %q", ErrNotFound, args.Title)
}

func directIDPath(args LookupArgs) string {
	if args.TraktID != 0 {
		return strconv.FormatInt(args.TraktID, 10)
	}
	if args.Slug != "" {
		return url.PathEscape(args.Slug)
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trakt request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("trakt request %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode trakt response: %w", err)
	}
	return nil
}
