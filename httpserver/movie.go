package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

func (s *Server) RegisterPublicMovieRoutes(g *echo.Group) {
	g.GET("/movies", s.handleListMovies, s.cached(movieCacheTag))
	g.GET("/movies/:idOrSlug", s.handleGetMovie, s.cached(movieCacheTag))
}

func (s *Server) RegisterPrivateMovieRoutes(g *echo.Group) {
	g.POST("/movies", s.handleCreateMovie)
	g.PUT("/movies/:id", s.handleUpdateMovie)
	g.DELETE("/movies/:id", s.handleDeleteMovie)
}

func (s *Server) handleCreateMovie(c echo.Context) error {
	var req CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m := req.ToMovie(uuid.NewString())
	if _, err := s.MovieService.Create(c.Request().Context(), m); err != nil {
		return err
	}
	s.evictMovies()

	c.Response().Header().Set(echo.HeaderLocation, "/api/movies/"+m.ID)
	return writeSuccess(c, http.StatusCreated, toMovieResponse(m))
}

func (s *Server) handleListMovies(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return err
	}
	opts.UserID = s.userID(c)

	result, err := s.MovieService.GetAll(c.Request().Context(), opts)
	if err != nil {
		return err
	}

	items := make([]MovieResponse, 0, len(result.Items))
	for _, m := range result.Items {
		items = append(items, toMovieResponse(m))
	}
	return writePagedList(c, http.StatusOK, items, result.Page, result.PageSize, result.Total, result.HasNextPage())
}

func (s *Server) handleGetMovie(c echo.Context) error {
	idOrSlug := c.Param("idOrSlug")
	userID := s.userID(c)
	ctx := c.Request().Context()

	var (
		m   *movie.Movie
		err error
	)
	if _, perr := uuid.Parse(idOrSlug); perr == nil {
		m, err = s.MovieService.GetByID(ctx, idOrSlug, userID)
	} else {
		m, err = s.MovieService.GetBySlug(ctx, idOrSlug, userID)
	}
	if err != nil {
		return err
	}
	if m == nil {
		return errs.Errorf(errs.ENOTFOUND, "Movie not found.")
	}

	return writeSuccess(c, http.StatusOK, toMovieResponse(*m))
}

func (s *Server) handleUpdateMovie(c echo.Context) error {
	var req UpdateMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, err := s.MovieService.Update(c.Request().Context(), req.ToMovie(c.Param("id")), s.userID(c))
	if err != nil {
		return err
	}
	if m == nil {
		return errs.Errorf(errs.ENOTFOUND, "Movie not found.")
	}
	s.evictMovies()

	return writeSuccess(c, http.StatusOK, toMovieResponse(*m))
}

func (s *Server) handleDeleteMovie(c echo.Context) error {
	deleted, err := s.MovieService.DeleteByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return errs.Errorf(errs.ENOTFOUND, "Movie not found.")
	}
	s.evictMovies()

	return c.NoContent(http.StatusNoContent)
}

// listOptions parses the listing query string. A "-" prefix on sortBy flips
// the order to descending, mirroring the request format of the API clients.
func listOptions(c echo.Context) (movie.GetAllOptions, error) {
	opts := movie.GetAllOptions{
		Title:    c.QueryParam("title"),
		Page:     defaultPage,
		PageSize: defaultPageSize,
	}

	if raw := c.QueryParam("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errs.Errorf(errs.EINVALID, "year must be a number")
		}
		opts.YearOfRelease = year
	}

	if raw := c.QueryParam("sortBy"); raw != "" {
		if field, found := strings.CutPrefix(raw, "-"); found {
			opts.SortField = field
			opts.SortOrder = movie.SortDescending
		} else {
			opts.SortField = raw
			opts.SortOrder = movie.SortAscending
		}
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errs.Errorf(errs.EINVALID, "page must be a number")
		}
		opts.Page = page
	}

	if raw := c.QueryParam("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errs.Errorf(errs.EINVALID, "pageSize must be a number")
		}
		opts.PageSize = size
	}

	return opts, nil
}

func (s *Server) evictMovies() {
	if s.Cache != nil {
		s.Cache.EvictByTag(movieCacheTag)
	}
}

type MovieResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating,omitempty"`
	UserRating    *int     `json:"userRating,omitempty"`
}

func toMovieResponse(m movie.Movie) MovieResponse {
	return MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug(),
		YearOfRelease: m.YearOfRelease,
		Genres:        m.Genres,
		Rating:        m.Rating,
		UserRating:    m.UserRating,
	}
}
