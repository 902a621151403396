package main

import (
	"fmt"
	"strconv"
	"strings"

	"moviefav/movie"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// omdbPageSize is the fixed number of hits OMDb returns per page.
const omdbPageSize = 10

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderSearch(res movie.SearchResult) string {
	t := newTable("", "IMDB ID", "TITLE", "YEAR")
	for _, m := range res.Movies {
		star := ""
		if m.IsFavorite {
			star = "★"
		}
		t.Row(star, m.ImdbID, m.Title, m.Year)
	}
	return t.Render()
}

func renderFavorites(res movie.FavoritesPage) string {
	t := newTable("IMDB ID", "TITLE", "YEAR", "POSTER")
	for _, f := range res.Favorites {
		t.Row(f.ImdbID, f.Title, f.Year, f.Poster)
	}
	return t.Render()
}

// searchFooter derives the page count from OMDb's totalResults string.
func searchFooter(res movie.SearchResult, page int) string {
	total, err := strconv.Atoi(res.TotalResults)
	if err != nil {
		total = res.Count
	}
	return fmt.Sprintf("%s results\n%s", res.TotalResults, pageFooter(max(1, page), movie.TotalPages(total, omdbPageSize)))
}

// pageFooter renders "Page X of Y" with hints for the neighbouring pages.
func pageFooter(current, totalPages int) string {
	if totalPages < 1 {
		totalPages = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Page %d of %d", current, totalPages)

	var hints []string
	if current > 1 {
		hints = append(hints, fmt.Sprintf("prev: --page %d", current-1))
	}
	if current < totalPages {
		hints = append(hints, fmt.Sprintf("next: --page %d", current+1))
	}
	if len(hints) > 0 {
		b.WriteString("  (" + strings.Join(hints, ", ") + ")")
	}
	return b.String()
}
