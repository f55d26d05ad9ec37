package httpserver

import (
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/rating"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterRatingRoutes(g *echo.Group) {
	g.PUT("/movies/:id/ratings", s.handleRateMovie)
	g.DELETE("/movies/:id/ratings", s.handleDeleteRating)
	g.GET("/ratings/me", s.handleMyRatings)
}

func (s *Server) handleRateMovie(c echo.Context) error {
	var req RateMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ok, err := s.RatingService.RateMovie(c.Request().Context(), c.Param("id"), req.Rating, s.userID(c))
	if err != nil {
		return err
	}
	if !ok {
		return errs.Errorf(errs.ENOTFOUND, "Movie not found.")
	}
	s.evictMovies()

	return c.NoContent(http.StatusOK)
}

func (s *Server) handleDeleteRating(c echo.Context) error {
	deleted, err := s.RatingService.DeleteRating(c.Request().Context(), c.Param("id"), s.userID(c))
	if err != nil {
		return err
	}
	if !deleted {
		return errs.Errorf(errs.ENOTFOUND, "Rating not found.")
	}
	s.evictMovies()

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMyRatings(c echo.Context) error {
	ratings, err := s.RatingService.RatingsForUser(c.Request().Context(), s.userID(c))
	if err != nil {
		return err
	}

	items := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, toRatingResponse(r))
	}
	return writeSuccess(c, http.StatusOK, items)
}

type RatingResponse struct {
	MovieID string `json:"movieId"`
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
}

func toRatingResponse(r rating.MovieRating) RatingResponse {
	return RatingResponse{
		MovieID: r.MovieID,
		Slug:    r.Slug,
		Rating:  r.Rating,
	}
}
