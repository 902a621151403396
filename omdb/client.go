// Package omdb is the movie.Provider backed by the OMDb HTTP API.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviefav/errs"
	"moviefav/movie"
	"moviefav/pkg/logger"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	ServiceName    = "OMDB"
	DefaultBaseURL = "http://www.omdbapi.com/"
)

type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger

	// Consecutive failures before the breaker opens, and how long it stays open.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
	breaker *gobreaker.CircuitBreaker[movie.ProviderResult]
}

type searchResponse struct {
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

func New(opts Options) *Client {
	c := &Client{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.logger == nil {
		c.logger = logger.NOOPLogger
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.apiKey == "" {
		c.logger.Warn("OMDB_API_KEY not configured. Movie search will not work.")
	}

	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := opts.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	c.breaker = gobreaker.NewCircuitBreaker[movie.ProviderResult](gobreaker.Settings{
		Name:        ServiceName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warnw("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return c
}

// SearchByTitle fetches one page of OMDb search results. A "no results"
// answer from OMDb is not an error: it yields an empty result with
// TotalResults "0".
func (c *Client) SearchByTitle(ctx context.Context, title string, page int) (movie.ProviderResult, error) {
	res, err := c.breaker.Execute(func() (movie.ProviderResult, error) {
		return c.search(ctx, title, page)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return movie.ProviderResult{}, unavailable(err)
		}
		return movie.ProviderResult{}, err
	}
	return res, nil
}

// State reports the circuit breaker state ("closed", "half-open", "open").
func (c *Client) State() string {
	return c.breaker.State().String()
}

func (c *Client) search(ctx context.Context, title string, page int) (movie.ProviderResult, error) {
	endpoint, err := c.searchURL(title, page)
	if err != nil {
		return movie.ProviderResult{}, unavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return movie.ProviderResult{}, unavailable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorw("OMDB API error", "error", err)
		return movie.ProviderResult{}, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("request failed with status code %d", resp.StatusCode)
		c.logger.Errorw("OMDB API error", "error", err)
		return movie.ProviderResult{}, unavailable(err)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Errorw("OMDB API error", "error", err)
		return movie.ProviderResult{}, unavailable(err)
	}

	if body.Response == "False" || body.Error != "" {
		c.logger.Debugw("OMDB API returned no results", "title", title, "reason", body.Error)
		return movie.ProviderResult{Movies: []movie.Movie{}, TotalResults: "0"}, nil
	}

	movies := make([]movie.Movie, len(body.Search))
	for i, item := range body.Search {
		movies[i] = movie.Movie{
			Title:  item.Title,
			ImdbID: item.ImdbID,
			Year:   item.Year,
			Poster: item.Poster,
		}
	}

	total := body.TotalResults
	if total == "" {
		total = "0"
	}
	return movie.ProviderResult{Movies: movies, TotalResults: total}, nil
}

func (c *Client) searchURL(title string, page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("s", strings.TrimSpace(title))
	q.Set("page", strconv.Itoa(max(1, page)))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func unavailable(err error) *errs.Error {
	return errs.Errorf(errs.EUNAVAILABLE, "External service '%s' is unavailable: %s", ServiceName, err.Error())
}
