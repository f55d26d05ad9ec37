package movie

import "context"

type Service interface {
	Create(ctx context.Context, m Movie) (bool, error)
	GetAll(ctx context.Context, opts GetAllOptions) (PagedResult[Movie], error)
	GetByID(ctx context.Context, id, userID string) (*Movie, error)
	GetBySlug(ctx context.Context, slug, userID string) (*Movie, error)
	Update(ctx context.Context, m Movie, userID string) (*Movie, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type Repository interface {
	Create(ctx context.Context, m Movie) (bool, error)
	GetAll(ctx context.Context, opts GetAllOptions) ([]Movie, error)
	GetCount(ctx context.Context, opts GetAllOptions) (int, error)
	GetByID(ctx context.Context, id, userID string) (*Movie, error)
	GetBySlug(ctx context.Context, slug, userID string) (*Movie, error)
	Update(ctx context.Context, m Movie) (bool, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// RatingSource supplies the aggregate and per-user rating lookups used to
// re-attach ratings to an updated movie.
type RatingSource interface {
	GetRating(ctx context.Context, movieID string) (*float64, error)
	GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error)
}

type Usecase struct {
	r         Repository
	ratings   RatingSource
	validator *Validator
	optsValid OptionsValidator
}

func NewUsecase(r Repository, ratings RatingSource) *Usecase {
	return &Usecase{
		r:         r,
		ratings:   ratings,
		validator: NewValidator(r),
	}
}

// Create persists a new movie after full validation. Validation failures
// abort before any repository call.
func (uc *Usecase) Create(ctx context.Context, m Movie) (bool, error) {
	if err := uc.validator.Validate(ctx, m); err != nil {
		return false, err
	}
	return uc.r.Create(ctx, m)
}

// GetAll returns one page of movies plus the total count matching the
// filters. The page and the count are two repository calls sharing the same
// predicate.
func (uc *Usecase) GetAll(ctx context.Context, opts GetAllOptions) (PagedResult[Movie], error) {
	if err := uc.optsValid.Validate(opts); err != nil {
		return PagedResult[Movie]{}, err
	}

	movies, err := uc.r.GetAll(ctx, opts)
	if err != nil {
		return PagedResult[Movie]{}, err
	}

	total, err := uc.r.GetCount(ctx, opts)
	if err != nil {
		return PagedResult[Movie]{}, err
	}

	return PagedResult[Movie]{
		Items:    movies,
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Total:    total,
	}, nil
}

// GetByID returns the movie or nil when it does not exist.
func (uc *Usecase) GetByID(ctx context.Context, id, userID string) (*Movie, error) {
	return uc.r.GetByID(ctx, id, userID)
}

// GetBySlug returns the movie or nil when it does not exist.
func (uc *Usecase) GetBySlug(ctx context.Context, slug, userID string) (*Movie, error) {
	return uc.r.GetBySlug(ctx, slug, userID)
}

// Update validates and persists the movie, then re-attaches its ratings.
// A nil result means the movie does not exist.
func (uc *Usecase) Update(ctx context.Context, m Movie, userID string) (*Movie, error) {
	if err := uc.validator.Validate(ctx, m); err != nil {
		return nil, err
	}

	exists, err := uc.r.ExistsByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if _, err := uc.r.Update(ctx, m); err != nil {
		return nil, err
	}

	if userID == "" {
		avg, err := uc.ratings.GetRating(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		m.Rating = avg
		return &m, nil
	}

	avg, own, err := uc.ratings.GetRatingWithUser(ctx, m.ID, userID)
	if err != nil {
		return nil, err
	}
	m.Rating = avg
	m.UserRating = own
	return &m, nil
}

// DeleteByID reports whether a movie row was removed. Deleting a missing id
// is not an error.
func (uc *Usecase) DeleteByID(ctx context.Context, id string) (bool, error) {
	return uc.r.DeleteByID(ctx, id)
}
