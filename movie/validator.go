package movie

import (
	"context"
	"strings"
	"time"

	"moviecatalog/errs"
)

// AcceptedSortFields is the closed set of columns the listing may order by.
// Keeping the set closed prevents arbitrary field injection into ORDER BY.
var AcceptedSortFields = []string{"title", "year_of_release"}

// IsAcceptedSortField matches case-insensitively against AcceptedSortFields.
func IsAcceptedSortField(field string) bool {
	for _, accepted := range AcceptedSortFields {
		if strings.EqualFold(accepted, field) {
			return true
		}
	}
	return false
}

// SlugLookup is the slice of the repository the movie validator needs to
// check slug uniqueness.
type SlugLookup interface {
	GetBySlug(ctx context.Context, slug, userID string) (*Movie, error)
}

type Validator struct {
	movies SlugLookup
}

func NewValidator(movies SlugLookup) *Validator {
	return &Validator{movies: movies}
}

// Validate checks every movie rule and collects all failures. The slug rule
// is idempotent for updates: a collision with the movie's own id passes, so
// an update that keeps title and year untouched validates cleanly.
func (v *Validator) Validate(ctx context.Context, m Movie) error {
	verr := &errs.ValidationError{}

	if m.ID == "" {
		verr.Add("id", "must not be empty")
	}
	if len(m.Genres) == 0 {
		verr.Add("genres", "must not be empty")
	}
	if m.Title == "" {
		verr.Add("title", "must not be empty")
	}
	if m.YearOfRelease > time.Now().Year() {
		verr.Add("yearofrelease", "must not be later than the current year")
	}

	existing, err := v.movies.GetBySlug(ctx, m.Slug(), "")
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != m.ID {
		verr.Add("slug", "This movie already exists.")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// OptionsValidator checks listing options. It is stateless.
type OptionsValidator struct{}

func (OptionsValidator) Validate(opts GetAllOptions) error {
	verr := &errs.ValidationError{}

	if opts.YearOfRelease > time.Now().Year() {
		verr.Add("year", "must not be later than the current year")
	}
	if opts.SortField != "" && !IsAcceptedSortField(opts.SortField) {
		verr.Add("sortby", "you can only sort by 'title' or 'year_of_release'")
	}
	if opts.Page < 1 {
		verr.Add("page", "must be at least 1")
	}
	if opts.PageSize < 1 || opts.PageSize > 25 {
		verr.Add("pagesize", "must be between 1 and 25")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
