package movie

import (
	"context"
	"strconv"
	"strings"
)

const (
	MessageAdded   = "Movie added to favorites"
	MessageRemoved = "Movie removed from favorites"
)

type Service interface {
	Search(ctx context.Context, query string, page int) (SearchResult, error)
	AddFavorite(ctx context.Context, f Favorite) (string, error)
	RemoveFavorite(ctx context.Context, imdbID string) (string, error)
	ListFavorites(ctx context.Context, page, pageSize int) (FavoritesPage, error)
}

// Provider searches an external movie database.
type Provider interface {
	SearchByTitle(ctx context.Context, title string, page int) (ProviderResult, error)
}

// FavoriteRepository stores favorites in insertion order. IMDb ids are
// compared case-insensitively.
type FavoriteRepository interface {
	Exists(ctx context.Context, imdbID string) (bool, error)
	Add(ctx context.Context, f Favorite) error
	Remove(ctx context.Context, imdbID string) (bool, error)
	Paginate(ctx context.Context, page, pageSize int) (Page, error)
}

type Usecase struct {
	p Provider
	r FavoriteRepository
}

func NewUsecase(p Provider, r FavoriteRepository) *Usecase {
	return &Usecase{p: p, r: r}
}

func (uc *Usecase) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, ErrInvalidQuery
	}

	res, err := uc.p.SearchByTitle(ctx, query, max(1, page))
	if err != nil {
		return SearchResult{}, err
	}

	movies := make([]MovieWithStatus, len(res.Movies))
	for i, m := range res.Movies {
		fav, err := uc.r.Exists(ctx, m.ImdbID)
		if err != nil {
			return SearchResult{}, err
		}
		movies[i] = MovieWithStatus{Movie: m, IsFavorite: fav}
	}

	total := res.TotalResults
	if total == "" {
		total = "0"
	}

	return SearchResult{
		Movies:       movies,
		Count:        len(movies),
		TotalResults: total,
	}, nil
}

func (uc *Usecase) AddFavorite(ctx context.Context, f Favorite) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	exists, err := uc.r.Exists(ctx, f.ImdbID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrAlreadyExists(f.ImdbID)
	}

	if err := uc.r.Add(ctx, f); err != nil {
		return "", err
	}
	return MessageAdded, nil
}

func (uc *Usecase) RemoveFavorite(ctx context.Context, imdbID string) (string, error) {
	if strings.TrimSpace(imdbID) == "" {
		return "", ErrInvalidImdbID
	}

	removed, err := uc.r.Remove(ctx, imdbID)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", ErrNotFound(imdbID)
	}
	return MessageRemoved, nil
}

func (uc *Usecase) ListFavorites(ctx context.Context, page, pageSize int) (FavoritesPage, error) {
	page = max(1, page)
	pageSize = min(max(1, pageSize), MaxPageSize)

	p, err := uc.r.Paginate(ctx, page, pageSize)
	if err != nil {
		return FavoritesPage{}, err
	}

	items := p.Items
	if items == nil {
		items = []Favorite{}
	}

	return FavoritesPage{
		Favorites:    items,
		Count:        len(items),
		TotalResults: strconv.Itoa(p.Total),
		CurrentPage:  page,
		TotalPages:   TotalPages(p.Total, pageSize),
	}, nil
}
