package movie

import (
	"strconv"
	"strings"
)

type SortOrder int

const (
	SortUnsorted SortOrder = iota
	SortAscending
	SortDescending
)

type Movie struct {
	ID            string
	Title         string
	YearOfRelease int
	Genres        []string

	// Rating and UserRating are view-level enrichments filled in by the
	// rating joins on read paths. They are never persisted on the movie row.
	Rating     *float64
	UserRating *int
}

// Slug derives the URL-safe lookup key from title and year. It is always
// recomputed; the stored slug column is only a projection of this value.
func (m Movie) Slug() string {
	return strings.ReplaceAll(strings.ToLower(m.Title), " ", "-") + "-" + strconv.Itoa(m.YearOfRelease)
}

// GetAllOptions narrows and orders the movie listing. Zero values mean
// "no filter": an empty Title skips the substring match, a zero
// YearOfRelease skips the exact-year match and an empty SortField leaves
// the result in database order.
type GetAllOptions struct {
	Title         string
	YearOfRelease int
	SortField     string
	SortOrder     SortOrder
	Page          int
	PageSize      int

	// UserID, when set, attaches that user's own rating to each item.
	UserID string
}

type PagedResult[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

func (p PagedResult[T]) HasNextPage() bool {
	return p.Page*p.PageSize < p.Total
}
