package omdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"moviefav/errs"
	"moviefav/movie"
	"moviefav/omdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matrixPage = `{
  "Search": [
    {"Title": "The Matrix", "Year": "1999", "imdbID": "tt0133093", "Type": "movie", "Poster": "https://example.com/matrix.jpg"},
    {"Title": "The Matrix Reloaded", "Year": "2003", "imdbID": "tt0234215", "Type": "movie", "Poster": "N/A"}
  ],
  "totalResults": "128",
  "Response": "True"
}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchByTitle(t *testing.T) {
	t.Run("should map search results", func(t *testing.T) {
		var gotQuery atomic.Value
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery.Store(r.URL.Query())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(matrixPage))
		})
		c := omdb.New(omdb.Options{APIKey: "key123", BaseURL: srv.URL + "/"})

		res, err := c.SearchByTitle(context.Background(), "  the matrix ", 2)

		require.NoError(t, err)
		assert.Equal(t, "128", res.TotalResults)
		assert.Equal(t, []movie.Movie{
			{Title: "The Matrix", ImdbID: "tt0133093", Year: "1999", Poster: "https://example.com/matrix.jpg"},
			{Title: "The Matrix Reloaded", ImdbID: "tt0234215", Year: "2003", Poster: "N/A"},
		}, res.Movies)

		q := gotQuery.Load().(url.Values)
		assert.Equal(t, []string{"key123"}, q["apikey"])
		assert.Equal(t, []string{"the matrix"}, q["s"])
		assert.Equal(t, []string{"2"}, q["page"])
	})

	t.Run("should clamp page to 1", func(t *testing.T) {
		var page atomic.Value
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			page.Store(r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(matrixPage))
		})
		c := omdb.New(omdb.Options{APIKey: "k", BaseURL: srv.URL})

		_, err := c.SearchByTitle(context.Background(), "matrix", 0)

		require.NoError(t, err)
		assert.Equal(t, "1", page.Load())
	})

	t.Run("should return empty result when OMDb finds nothing", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		})
		c := omdb.New(omdb.Options{APIKey: "k", BaseURL: srv.URL})

		res, err := c.SearchByTitle(context.Background(), "zzzzzz", 1)

		require.NoError(t, err)
		assert.Empty(t, res.Movies)
		assert.NotNil(t, res.Movies)
		assert.Equal(t, "0", res.TotalResults)
	})

	t.Run("should default missing totalResults to zero", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Response":"True","Search":[]}`))
		})
		c := omdb.New(omdb.Options{APIKey: "k", BaseURL: srv.URL})

		res, err := c.SearchByTitle(context.Background(), "matrix", 1)

		require.NoError(t, err)
		assert.Equal(t, "0", res.TotalResults)
	})

	t.Run("should map upstream failure to unavailable", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		c := omdb.New(omdb.Options{APIKey: "k", BaseURL: srv.URL})

		_, err := c.SearchByTitle(context.Background(), "matrix", 1)

		require.Error(t, err)
		assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
		assert.Equal(t, "External service 'OMDB' is unavailable: request failed with status code 500", errs.ErrorMessage(err))
	})

	t.Run("should map malformed body to unavailable", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		})
		c := omdb.New(omdb.Options{APIKey: "k", BaseURL: srv.URL})

		_, err := c.SearchByTitle(context.Background(), "matrix", 1)

		assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	})

	t.Run("should map transport errors to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()
		c := omdb.New(omdb.Options{APIKey: "k", BaseURL: base, Timeout: time.Second})

		_, err := c.SearchByTitle(context.Background(), "matrix", 1)

		assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	})
}

func TestCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c := omdb.New(omdb.Options{
		APIKey:           "k",
		BaseURL:          srv.URL,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	})

	for i := 0; i < 2; i++ {
		_, err := c.SearchByTitle(context.Background(), "matrix", 1)
		assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	}
	assert.Equal(t, "open", c.State())

	_, err := c.SearchByTitle(context.Background(), "matrix", 1)

	assert.Equal(t, errs.EUNAVAILABLE, errs.ErrorCode(err))
	assert.Contains(t, errs.ErrorMessage(err), "circuit breaker is open")
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach upstream")
}
