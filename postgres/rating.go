package postgres

import (
	"context"

	"moviecatalog/rating"

	"gorm.io/gorm"
)

// RatingModel represents one user's rating of one movie. The composite
// primary key gives the upsert its conflict target.
type RatingModel struct {
	UserID  string `gorm:"type:uuid;column:user_id;primaryKey"`
	MovieID string `gorm:"type:uuid;column:movie_id;primaryKey"`
	Rating  int    `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (RatingModel) TableName() string {
	return "ratings"
}

// RatingRepository implements rating.Repository on PostgreSQL. It also
// serves as the movie usecase's rating source.
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Rate upserts the (movie, user) rating. A conflict on the composite key
// overwrites the stored value; there is no rating history.
func (r *RatingRepository) Rate(ctx context.Context, movieID string, stars int, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
INSERT INTO ratings (movie_id, rating, user_id)
VALUES (?, ?, ?)
ON CONFLICT (user_id, movie_id) DO UPDATE SET rating = EXCLUDED.rating`, movieID, stars, userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the user's rating of the movie if present.
func (r *RatingRepository) Delete(ctx context.Context, movieID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
DELETE FROM ratings
WHERE movie_id = ? AND user_id = ?`, movieID, userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetRating returns the average rating rounded to one decimal, or nil when
// the movie has no ratings.
func (r *RatingRepository) GetRating(ctx context.Context, movieID string) (*float64, error) {
	var row struct {
		Rating *float64
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT round(avg(rating), 1) AS rating
FROM ratings
WHERE movie_id = ?`, movieID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.Rating, nil
}

// GetRatingWithUser returns the aggregate average and this user's own stars
// in one round trip. Either can be nil independently.
func (r *RatingRepository) GetRatingWithUser(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	var row struct {
		Rating     *float64
		UserRating *int
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT round(avg(rating), 1) AS rating,
       (SELECT rating FROM ratings WHERE movie_id = ? AND user_id = ? LIMIT 1) AS user_rating
FROM ratings
WHERE movie_id = ?`, movieID, userID, movieID).Scan(&row).Error
	if err != nil {
		return nil, nil, err
	}
	return row.Rating, row.UserRating, nil
}

// AllForUser lists every rating the user has submitted, joined with the
// movie slug for display.
func (r *RatingRepository) AllForUser(ctx context.Context, userID string) ([]rating.MovieRating, error) {
	var rows []struct {
		MovieID string
		Slug    string
		Rating  int
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT r.movie_id, m.slug, r.rating
FROM ratings r
INNER JOIN movies m ON r.movie_id = m.id
WHERE r.user_id = ?`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ratings := make([]rating.MovieRating, len(rows))
	for i, row := range rows {
		ratings[i] = rating.MovieRating{
			MovieID: row.MovieID,
			Slug:    row.Slug,
			Rating:  row.Rating,
		}
	}
	return ratings, nil
}
