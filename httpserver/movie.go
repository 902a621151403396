package httpserver

import (
	"net/http"
	"net/url"

	"moviefav/errs"
	"moviefav/movie"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/search", s.handleSearchMovies)
	g.POST("/favorites", s.handleAddFavorite)
	g.DELETE("/favorites/:imdbID", s.handleRemoveFavorite)
	g.GET("/favorites/list", s.handleListFavorites)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}

// handleSearchMovies godoc
// @Summary Search movies by title
// @Tags movies
// @Produce json
// @Param q query string true "Search query for movie titles"
// @Param page query int false "Page number, default 1"
// @Success 200 {object} DataResponse{data=movie.SearchResult}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /movies/search [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	req := SearchMoviesQuery{
		Q:    c.QueryParam("q"),
		Page: queryInt(c.QueryParam("page"), movie.DefaultPage),
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := svc.Search(c.Request().Context(), req.Q, req.Page)
	if err != nil {
		return err
	}

	return writeData(c, http.StatusOK, result)
}

// handleAddFavorite godoc
// @Summary Add a movie to favorites
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body AddFavoriteRequest true "Movie"
// @Success 201 {object} DataResponse{data=MessageResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /movies/favorites [post]
func (s *Server) handleAddFavorite(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	var req AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := svc.AddFavorite(c.Request().Context(), req.ToFavorite())
	if err != nil {
		return err
	}

	return writeMessage(c, http.StatusCreated, msg)
}

// handleRemoveFavorite godoc
// @Summary Remove a movie from favorites
// @Tags movies
// @Produce json
// @Param imdbID path string true "The IMDb ID of the movie to remove"
// @Success 200 {object} DataResponse{data=MessageResponse}
// @Failure 404 {object} ErrorResponse
// @Router /movies/favorites/{imdbID} [delete]
func (s *Server) handleRemoveFavorite(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	imdbID, err := pathParam(c, "imdbID")
	if err != nil {
		return movie.ErrInvalidImdbID
	}

	msg, err := svc.RemoveFavorite(c.Request().Context(), imdbID)
	if err != nil {
		return err
	}

	return writeMessage(c, http.StatusOK, msg)
}

// handleListFavorites godoc
// @Summary Get paginated list of favorite movies
// @Tags movies
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param pageSize query int false "Items per page (1-100), default 10"
// @Success 200 {object} DataResponse{data=movie.FavoritesPage}
// @Failure 400 {object} ErrorResponse
// @Router /movies/favorites/list [get]
func (s *Server) handleListFavorites(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	req := PaginationQuery{
		Page:     queryInt(c.QueryParam("page"), movie.DefaultPage),
		PageSize: queryInt(c.QueryParam("pageSize"), movie.DefaultPageSize),
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	page, err := svc.ListFavorites(c.Request().Context(), req.Page, req.PageSize)
	if err != nil {
		return err
	}

	return writeData(c, http.StatusOK, page)
}

// pathParam returns a decoded path parameter. echo matches on RawPath when it
// is set and leaves those params escaped; otherwise they are already decoded.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
