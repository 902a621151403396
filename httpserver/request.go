package httpserver

import (
	"bytes"
	"strconv"
	"strings"

	"moviefav/movie"

	json "github.com/goccy/go-json"
)

type SearchMoviesQuery struct {
	Q    string `json:"q" validate:"required"`
	Page int    `json:"page" validate:"min=1"`
}

type PaginationQuery struct {
	Page     int `json:"page" validate:"min=1"`
	PageSize int `json:"pageSize" validate:"min=1,max=100"`
}

// Year accepts both "1999" and 1999 in request bodies.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*y = Year(n.String())
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*y = Year(s)
	return nil
}

type AddFavoriteRequest struct {
	Title  string `json:"title" validate:"required,notblank"`
	ImdbID string `json:"imdbID" validate:"required,notblank"`
	Year   Year   `json:"year" validate:"required,notblank"`
	Poster string `json:"poster"`
}

func (r AddFavoriteRequest) ToFavorite() movie.Favorite {
	return movie.Favorite{
		Title:  r.Title,
		ImdbID: r.ImdbID,
		Year:   string(r.Year),
		Poster: r.Poster,
	}
}

// queryInt parses a query value, falling back to def when it is absent or
// not an integer.
func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}
