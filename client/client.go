// Package client calls the movies HTTP API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviefav/movie"

	json "github.com/goccy/go-json"
)

const (
	DefaultBaseURL = "http://localhost:3001/movies"

	fallbackMessage = "An unexpected error occurred"
)

// APIError is returned for client-side validation failures and non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

var (
	ErrQueryRequired = &APIError{StatusCode: http.StatusBadRequest, Message: "Search query is required"}
	ErrIDRequired    = &APIError{StatusCode: http.StatusBadRequest, Message: "Movie ID is required"}
	ErrTitleRequired = &APIError{StatusCode: http.StatusBadRequest, Message: "Movie title is required"}
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client

	// Retries for failed reads; writes are never retried.
	Retries int
}

type Client struct {
	baseURL string
	http    *http.Client
	retries int
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    opts.HTTPClient,
		retries: max(0, opts.Retries),
	}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (movie.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return movie.SearchResult{}, ErrQueryRequired
	}

	v := url.Values{}
	v.Set("q", query)
	v.Set("page", strconv.Itoa(max(1, page)))

	var out envelope[movie.SearchResult]
	err := c.get(ctx, "/search?"+v.Encode(), &out)
	return out.Data, err
}

func (c *Client) GetFavorites(ctx context.Context, page int) (movie.FavoritesPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(1, page)))

	var out envelope[movie.FavoritesPage]
	err := c.get(ctx, "/favorites/list?"+v.Encode(), &out)
	return out.Data, err
}

// AddToFavorites stores m and returns the server's confirmation message.
func (c *Client) AddToFavorites(ctx context.Context, m movie.Movie) (string, error) {
	if strings.TrimSpace(m.ImdbID) == "" {
		return "", ErrIDRequired
	}
	if strings.TrimSpace(m.Title) == "" {
		return "", ErrTitleRequired
	}

	body, err := json.Marshal(movie.Favorite{
		Title:  m.Title,
		ImdbID: m.ImdbID,
		Year:   m.Year,
		Poster: m.Poster,
	})
	if err != nil {
		return "", err
	}

	var out envelope[struct {
		Message string `json:"message"`
	}]
	err = c.do(ctx, http.MethodPost, "/favorites", body, &out)
	return out.Data.Message, err
}

func (c *Client) RemoveFromFavorites(ctx context.Context, imdbID string) (string, error) {
	if strings.TrimSpace(imdbID) == "" {
		return "", ErrIDRequired
	}

	var out envelope[struct {
		Message string `json:"message"`
	}]
	err := c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(imdbID), nil, &out)
	return out.Data.Message, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		err = c.do(ctx, http.MethodGet, path, nil, out)
		if !retryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallbackMessage}

	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Message) == 0 {
		if text := http.StatusText(resp.StatusCode); text != "" {
			apiErr.Message = text
		}
		return apiErr
	}

	// message is either a string or a list of strings
	var msg string
	if err := json.Unmarshal(body.Message, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}
	var msgs []string
	if err := json.Unmarshal(body.Message, &msgs); err == nil {
		apiErr.Message = strings.Join(msgs, ", ")
	}
	return apiErr
}

// retryable reports whether a read may be attempted again: transport errors
// and 5xx responses.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
