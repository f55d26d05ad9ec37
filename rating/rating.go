package rating

// MovieRating is one rating a user has submitted, joined with the movie's
// slug for display.
type MovieRating struct {
	MovieID string
	Slug    string
	Rating  int
}
