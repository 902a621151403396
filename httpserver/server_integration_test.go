package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"moviefav/filestore"
	"moviefav/httpserver"
	"moviefav/movie"
	"moviefav/omdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const omdbBatman = `{
	"Search": [
		{"Title":"Batman Begins","Year":"2005","imdbID":"tt0372784","Type":"movie","Poster":"begins.jpg"},
		{"Title":"The Batman","Year":"2022","imdbID":"tt1877830","Type":"movie","Poster":"batman.jpg"}
	],
	"totalResults":"2",
	"Response":"True"
}`

// newIntegrationServer wires the real usecase to a file store in a temp dir
// and a fake OMDb endpoint.
func newIntegrationServer(t *testing.T) (*httpserver.Server, *filestore.Store) {
	t.Helper()

	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("s") != "batman" {
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			return
		}
		_, _ = w.Write([]byte(omdbBatman))
	}))
	t.Cleanup(fake.Close)

	store, err := filestore.Open(filestore.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	provider := omdb.New(omdb.Options{APIKey: "test", BaseURL: fake.URL})
	uc := movie.NewUsecase(provider, store)

	return newTestServer(t, httpserver.WithMovieService(uc)), store
}

func TestFavoritesFlow(t *testing.T) {
	server, store := newIntegrationServer(t)

	// search before anything is favorited
	rec := makeRequest(server, http.MethodGet, "/movies/search?q=batman", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var search movie.SearchResult
	decodeData(t, rec, &search)
	assert.Equal(t, 2, search.Count)
	assert.Equal(t, "2", search.TotalResults)
	assert.False(t, search.Movies[0].IsFavorite)

	// add with a numeric year
	rec = sendJSON(server, http.MethodPost, "/movies/favorites",
		`{"title":"Batman Begins","imdbID":"tt0372784","year":2005,"poster":"begins.jpg"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// a second add with different casing conflicts
	rec = sendJSON(server, http.MethodPost, "/movies/favorites",
		`{"title":"Batman Begins","imdbID":"TT0372784","year":"2005","poster":"begins.jpg"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// search now flags the favorite
	rec = makeRequest(server, http.MethodGet, "/movies/search?q=batman", nil)
	decodeData(t, rec, &search)
	assert.True(t, search.Movies[0].IsFavorite)
	assert.False(t, search.Movies[1].IsFavorite)

	// list
	rec = makeRequest(server, http.MethodGet, "/movies/favorites/list?page=1&pageSize=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page movie.FavoritesPage
	decodeData(t, rec, &page)
	assert.Equal(t, movie.FavoritesPage{
		Favorites:    []movie.Favorite{{Title: "Batman Begins", ImdbID: "tt0372784", Year: "2005", Poster: "begins.jpg"}},
		Count:        1,
		TotalResults: "1",
		CurrentPage:  1,
		TotalPages:   1,
	}, page)

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), `"imdbID": "tt0372784"`)
	assert.Contains(t, string(content), `"year": "2005"`)

	// page beyond the end
	rec = makeRequest(server, http.MethodGet, "/movies/favorites/list?page=5", nil)
	decodeData(t, rec, &page)
	assert.Empty(t, page.Favorites)
	assert.Equal(t, "1", page.TotalResults)
	assert.Equal(t, 5, page.CurrentPage)

	// huge page numbers must not overflow the window arithmetic
	rec = makeRequest(server, http.MethodGet, "/movies/favorites/list?page=100000000000000000&pageSize=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = movie.FavoritesPage{}
	decodeData(t, rec, &page)
	assert.Empty(t, page.Favorites)
	assert.Equal(t, "1", page.TotalResults)
	assert.Equal(t, 100000000000000000, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)

	// remove, then remove again
	rec = makeRequest(server, http.MethodDelete, "/movies/favorites/tt0372784", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = makeRequest(server, http.MethodDelete, "/movies/favorites/tt0372784", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchWithoutResults(t *testing.T) {
	server, _ := newIntegrationServer(t)

	rec := makeRequest(server, http.MethodGet, "/movies/search?q=zzzz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var search movie.SearchResult
	decodeData(t, rec, &search)
	assert.Empty(t, search.Movies)
	assert.Equal(t, 0, search.Count)
	assert.Equal(t, "0", search.TotalResults)
}
