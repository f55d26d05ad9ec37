package movie_test

import (
	"testing"

	"moviecatalog/movie"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		movie    movie.Movie
		expected string
	}{
		{
			name:     "single word title",
			movie:    movie.Movie{Title: "Inception", YearOfRelease: 2010},
			expected: "inception-2010",
		},
		{
			name:     "spaces become hyphens",
			movie:    movie.Movie{Title: "The Dark Knight", YearOfRelease: 2008},
			expected: "the-dark-knight-2008",
		},
		{
			name:     "title is lowercased",
			movie:    movie.Movie{Title: "WALL-E", YearOfRelease: 2008},
			expected: "wall-e-2008",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.movie.Slug())
		})
	}
}

func TestHasNextPage(t *testing.T) {
	tests := []struct {
		name     string
		result   movie.PagedResult[movie.Movie]
		expected bool
	}{
		{
			name:     "more items remain",
			result:   movie.PagedResult[movie.Movie]{Page: 2, PageSize: 10, Total: 25},
			expected: true,
		},
		{
			name:     "last page exactly full",
			result:   movie.PagedResult[movie.Movie]{Page: 2, PageSize: 10, Total: 20},
			expected: false,
		},
		{
			name:     "empty result",
			result:   movie.PagedResult[movie.Movie]{Page: 1, PageSize: 10, Total: 0},
			expected: false,
		},
		{
			name:     "first of many",
			result:   movie.PagedResult[movie.Movie]{Page: 1, PageSize: 10, Total: 11},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.HasNextPage())
		})
	}
}
