package rating

import (
	"context"

	"moviecatalog/errs"
)

type Service interface {
	RateMovie(ctx context.Context, movieID string, stars int, userID string) (bool, error)
	DeleteRating(ctx context.Context, movieID, userID string) (bool, error)
	RatingsForUser(ctx context.Context, userID string) ([]MovieRating, error)
}

type Repository interface {
	Rate(ctx context.Context, movieID string, stars int, userID string) (bool, error)
	Delete(ctx context.Context, movieID, userID string) (bool, error)
	GetRating(ctx context.Context, movieID string) (*float64, error)
	GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error)
	AllForUser(ctx context.Context, userID string) ([]MovieRating, error)
}

// MovieChecker is the slice of the movie repository needed to verify the
// rating target exists.
type MovieChecker interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type Usecase struct {
	r      Repository
	movies MovieChecker
}

func NewUsecase(r Repository, movies MovieChecker) *Usecase {
	return &Usecase{r: r, movies: movies}
}

// RateMovie upserts the user's rating. Out-of-range stars fail validation
// before any persistence call; a missing movie yields false, not an error.
func (uc *Usecase) RateMovie(ctx context.Context, movieID string, stars int, userID string) (bool, error) {
	if stars < 1 || stars > 5 {
		verr := &errs.ValidationError{}
		verr.Add("rating", "Rating must be between 1 and 5.")
		return false, verr
	}

	exists, err := uc.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	return uc.r.Rate(ctx, movieID, stars, userID)
}

func (uc *Usecase) DeleteRating(ctx context.Context, movieID, userID string) (bool, error) {
	return uc.r.Delete(ctx, movieID, userID)
}

func (uc *Usecase) RatingsForUser(ctx context.Context, userID string) ([]MovieRating, error) {
	return uc.r.AllForUser(ctx, userID)
}
