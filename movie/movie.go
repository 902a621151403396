package movie

import (
	"strings"

	"moviefav/errs"
)

var ErrInvalidQuery = errs.Errorf(errs.EINVALID, "Search query must be a non-empty string")

// Movie is a single hit returned by the external movie provider.
type Movie struct {
	Title  string `json:"title"`
	ImdbID string `json:"imdbID"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

// MovieWithStatus is a search hit annotated with whether it is a favorite.
type MovieWithStatus struct {
	Movie
	IsFavorite bool `json:"isFavorite"`
}

type SearchResult struct {
	Movies       []MovieWithStatus `json:"movies"`
	Count        int               `json:"count"`
	TotalResults string            `json:"totalResults"`
}

// ProviderResult is what a Provider returns for one search page.
type ProviderResult struct {
	Movies       []Movie
	TotalResults string
}

// SameID reports whether two IMDb identifiers refer to the same movie.
func SameID(a, b string) bool {
	return strings.EqualFold(a, b)
}
