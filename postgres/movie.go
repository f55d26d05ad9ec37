package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MovieModel represents the database model for movies. The slug column is a
// projection of the derived slug, stored only for the unique index and the
// by-slug lookup.
type MovieModel struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Title         string `gorm:"not null"`
	Slug          string `gorm:"not null;uniqueIndex"`
	YearOfRelease int    `gorm:"column:year_of_release;not null"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// GenreModel represents one genre child row of a movie.
type GenreModel struct {
	MovieID string `gorm:"type:uuid;column:movie_id;not null"`
	Name    string `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (GenreModel) TableName() string {
	return "genres"
}

// MovieRepository implements movie.Repository on PostgreSQL.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// movieRow is the scan target for the aggregated listing/lookup queries.
type movieRow struct {
	ID            string
	Title         string
	YearOfRelease int
	Genres        *string
	Rating        *float64
	UserRating    *int
}

func (row movieRow) toDomain() movie.Movie {
	m := movie.Movie{
		ID:            row.ID,
		Title:         row.Title,
		YearOfRelease: row.YearOfRelease,
		Rating:        row.Rating,
		UserRating:    row.UserRating,
	}
	if row.Genres != nil && *row.Genres != "" {
		m.Genres = strings.Split(*row.Genres, ",")
	}
	return m
}

// Create inserts the movie row and its genre rows as one transaction.
// It reports false when the movie row inserted nothing.
func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
INSERT INTO movies (id, slug, title, year_of_release)
VALUES (?, ?, ?, ?)`, m.ID, m.Slug(), m.Title, m.YearOfRelease)
		if res.Error != nil {
			return mapUniqueViolation(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		for _, genre := range m.Genres {
			err := tx.Exec(`
INSERT INTO genres (movie_id, name)
VALUES (?, ?)`, m.ID, genre).Error
			if err != nil {
				return err
			}
		}

		created = true
		return nil
	})
	return created, err
}

// GetAll runs one aggregated query: genre names comma-joined per movie, the
// average rating across all users, and the requesting user's own rating as a
// separate join. Filters are skipped when absent; sorting only happens for a
// whitelisted field, which is also added to the grouping key.
func (r *MovieRepository) GetAll(ctx context.Context, opts movie.GetAllOptions) ([]movie.Movie, error) {
	whereSQL, args := listFilters(opts)

	query := `
SELECT m.id, m.title, m.year_of_release,
       string_agg(DISTINCT g.name, ',') AS genres,
       round(avg(r.rating), 1) AS rating,
       ur.rating AS user_rating
FROM movies m
LEFT JOIN genres g ON m.id = g.movie_id
LEFT JOIN ratings r ON m.id = r.movie_id
LEFT JOIN ratings ur ON m.id = ur.movie_id AND ur.user_id = ?`
	queryArgs := append([]interface{}{nullableID(opts.UserID)}, args...)

	query += whereSQL
	query += `
GROUP BY m.id, ur.rating`
	query += orderClause(opts)
	query += `
LIMIT ? OFFSET ?`
	queryArgs = append(queryArgs, opts.PageSize, (opts.Page-1)*opts.PageSize)

	var rows []movieRow
	if err := r.db.WithContext(ctx).Raw(query, queryArgs...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	movies := make([]movie.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toDomain()
	}
	return movies, nil
}

// GetCount returns the distinct number of movies matching the same predicate
// as GetAll, independent of pagination and sort.
func (r *MovieRepository) GetCount(ctx context.Context, opts movie.GetAllOptions) (int, error) {
	whereSQL, args := listFilters(opts)

	query := `
SELECT COUNT(DISTINCT m.id)
FROM movies m
LEFT JOIN genres g ON m.id = g.movie_id` + whereSQL

	var count int
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetByID fetches one movie with its rating aggregate, then its genre list
// in a second query. Genre cardinality is low, so the extra round trip is
// cheaper than folding genres into the aggregate query.
func (r *MovieRepository) GetByID(ctx context.Context, id, userID string) (*movie.Movie, error) {
	return r.getOne(ctx, "m.id = ?", id, userID)
}

// GetBySlug is GetByID keyed by the derived slug.
func (r *MovieRepository) GetBySlug(ctx context.Context, slug, userID string) (*movie.Movie, error) {
	return r.getOne(ctx, "m.slug = ?", slug, userID)
}

func (r *MovieRepository) getOne(ctx context.Context, cond string, key, userID string) (*movie.Movie, error) {
	query := `
SELECT m.id, m.title, m.year_of_release,
       round(avg(r.rating), 1) AS rating,
       ur.rating AS user_rating
FROM movies m
LEFT JOIN ratings r ON m.id = r.movie_id
LEFT JOIN ratings ur ON m.id = ur.movie_id AND ur.user_id = ?
WHERE ` + cond + `
GROUP BY m.id, ur.rating`

	var rows []movieRow
	err := r.db.WithContext(ctx).Raw(query, nullableID(userID), key).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	m := rows[0].toDomain()

	var genres []string
	err = r.db.WithContext(ctx).Raw(`
SELECT name FROM genres WHERE movie_id = ? ORDER BY name`, m.ID).Scan(&genres).Error
	if err != nil {
		return nil, err
	}
	m.Genres = genres

	return &m, nil
}

// Update replaces the genre set and the movie row atomically. It reports
// whether the movie row was actually affected.
func (r *MovieRepository) Update(ctx context.Context, m movie.Movie) (bool, error) {
	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM genres WHERE movie_id = ?`, m.ID).Error
		if err != nil {
			return err
		}

		for _, genre := range m.Genres {
			err := tx.Exec(`
INSERT INTO genres (movie_id, name)
VALUES (?, ?)`, m.ID, genre).Error
			if err != nil {
				return err
			}
		}

		res := tx.Exec(`
UPDATE movies
SET slug = ?, title = ?, year_of_release = ?
WHERE id = ?`, m.Slug(), m.Title, m.YearOfRelease, m.ID)
		if res.Error != nil {
			return mapUniqueViolation(res.Error)
		}

		updated = res.RowsAffected > 0
		return nil
	})
	return updated, err
}

// DeleteByID removes the genre rows then the movie row in one transaction.
// Rating rows go away through the ON DELETE CASCADE on ratings.movie_id.
func (r *MovieRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM genres WHERE movie_id = ?`, id).Error
		if err != nil {
			return err
		}

		res := tx.Exec(`DELETE FROM movies WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}

		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ExistsByID is the existence predicate services use to short-circuit
// not-found cases before mutating.
func (r *MovieRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(1) FROM movies WHERE id = ?`, id).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func listFilters(opts movie.GetAllOptions) (string, []interface{}) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if opts.Title != "" {
		where = append(where, "m.title ILIKE ?")
		args = append(args, "%"+opts.Title+"%")
	}
	if opts.YearOfRelease != 0 {
		where = append(where, "m.year_of_release = ?")
		args = append(args, opts.YearOfRelease)
	}

	if len(where) == 0 {
		return "", args
	}
	return "\nWHERE " + strings.Join(where, " AND "), args
}

// orderClause builds the dynamic sort suffix. Only whitelisted fields are
// ever interpolated; anything else leaves the result unsorted. The sort
// field joins the grouping key to satisfy the aggregate query.
func orderClause(opts movie.GetAllOptions) string {
	if opts.SortField == "" || !movie.IsAcceptedSortField(opts.SortField) {
		return ""
	}

	field := strings.ToLower(opts.SortField)
	direction := "ASC"
	if opts.SortOrder == movie.SortDescending {
		direction = "DESC"
	}
	return fmt.Sprintf(", m.%s ORDER BY m.%s %s", field, field, direction)
}

// nullableID lets an absent user id fall out of the per-user rating join:
// comparing a uuid column against NULL matches nothing.
func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(strings.ToLower(pqErr.Constraint), "slug") {
			return errs.Errorf(errs.ECONFLICT, "a movie with this slug already exists")
		}
		return errs.Errorf(errs.ECONFLICT, "this movie already exists")
	}
	return err
}
