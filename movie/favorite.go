package movie

import (
	"strings"

	"moviefav/errs"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrInvalidTitle  = errs.Errorf(errs.EINVALID, "title should not be empty")
	ErrInvalidImdbID = errs.Errorf(errs.EINVALID, "imdbID should not be empty")
	ErrInvalidYear   = errs.Errorf(errs.EINVALID, "year should not be empty")
)

type Favorite struct {
	Title  string `json:"title"`
	ImdbID string `json:"imdbID"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
}

func (f Favorite) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrInvalidTitle
	}

	if strings.TrimSpace(f.ImdbID) == "" {
		return ErrInvalidImdbID
	}

	if strings.TrimSpace(f.Year) == "" {
		return ErrInvalidYear
	}

	return nil
}

// Page is one slice of the stored favorites together with the total count.
type Page struct {
	Items []Favorite
	Total int
}

type FavoritesPage struct {
	Favorites    []Favorite `json:"favorites"`
	Count        int        `json:"count"`
	TotalResults string     `json:"totalResults"`
	CurrentPage  int        `json:"currentPage"`
	TotalPages   int        `json:"totalPages"`
}

func ErrAlreadyExists(imdbID string) error {
	return errs.Errorf(errs.ECONFLICT, "Movie with imdbID '%s' already exists in favorites", imdbID)
}

func ErrNotFound(imdbID string) error {
	return errs.Errorf(errs.ENOTFOUND, "Movie with imdbID '%s' not found", imdbID)
}

// Window normalizes a page request and returns the slice bounds for a list
// of n items. Page and size are clamped to at least 1. Pages past the end
// yield start == end == n for any page value.
func Window(page, size, n int) (start, end int) {
	page = max(1, page)
	size = max(1, size)

	if n <= 0 || page-1 >= (n-1)/size+1 {
		return n, n
	}
	start = (page - 1) * size
	end = start + min(size, n-start)
	return start, end
}

// TotalPages returns ceil(total/size), with size clamped to at least 1.
func TotalPages(total, size int) int {
	size = max(1, size)
	return (total + size - 1) / size
}
