package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"moviefav/httpserver"
	"moviefav/movie"
	"moviefav/pkg/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Port = 8080
	cfg.AllowOrigins = "*"
	return cfg
}

func newTestServer(t testing.TB, options ...httpserver.Options) *httpserver.Server {
	t.Helper()
	opts := append([]httpserver.Options{httpserver.WithConfig(testConfig())}, options...)
	server, err := httpserver.New(opts...)
	require.NoError(t, err)
	return server
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) Search(ctx context.Context, query string, page int) (movie.SearchResult, error) {
	args := m.Called(ctx, query, page)
	return args.Get(0).(movie.SearchResult), args.Error(1)
}

func (m *MockMovieService) AddFavorite(ctx context.Context, f movie.Favorite) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}

func (m *MockMovieService) RemoveFavorite(ctx context.Context, imdbID string) (string, error) {
	args := m.Called(ctx, imdbID)
	return args.String(0), args.Error(1)
}

func (m *MockMovieService) ListFavorites(ctx context.Context, page, pageSize int) (movie.FavoritesPage, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).(movie.FavoritesPage), args.Error(1)
}

func decodeData(t testing.TB, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NoError(t, json.Unmarshal(body.Data, out))
}

func decodeError(t testing.TB, rec *httptest.ResponseRecorder) httpserver.ErrorResponse {
	t.Helper()
	var body httpserver.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
