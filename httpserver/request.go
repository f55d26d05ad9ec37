package httpserver

import (
	"moviecatalog/movie"
)

type CreateMovieRequest struct {
	Title         string   `json:"title" validate:"required"`
	YearOfRelease int      `json:"yearOfRelease" validate:"required,min=1888"`
	Genres        []string `json:"genres" validate:"required,min=1,dive,required"`
}

func (r CreateMovieRequest) ToMovie(id string) movie.Movie {
	return movie.Movie{
		ID:            id,
		Title:         r.Title,
		YearOfRelease: r.YearOfRelease,
		Genres:        r.Genres,
	}
}

type UpdateMovieRequest struct {
	Title         string   `json:"title" validate:"required"`
	YearOfRelease int      `json:"yearOfRelease" validate:"required,min=1888"`
	Genres        []string `json:"genres" validate:"required,min=1,dive,required"`
}

func (r UpdateMovieRequest) ToMovie(id string) movie.Movie {
	return movie.Movie{
		ID:            id,
		Title:         r.Title,
		YearOfRelease: r.YearOfRelease,
		Genres:        r.Genres,
	}
}

// RateMovieRequest carries the stars only. The 1 to 5 range is enforced by
// the rating usecase so every caller gets the same message.
type RateMovieRequest struct {
	Rating int `json:"rating" validate:"required"`
}
