// Command movieseed imports the MovieLens movies.csv dataset into the
// catalog. Titles carry their release year as a "(1999)" suffix, which is
// split off into year_of_release; the pipe-separated genre list becomes one
// genre row per name. Rows are upserted by slug so reruns are idempotent.
package main

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/postgres"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultMovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

var yearSuffix = regexp.MustCompile(`^(.*)\s+\((\d{4})\)\s*$`)

func main() {
	var (
		csvPath string
		zipURL  string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "", "Path to movies.csv (skip download)")
	flag.StringVar(&zipURL, "url", defaultMovieLensURL, "MovieLens zip URL")
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	cleanup := func() {}
	if csvPath == "" {
		path, c, err := downloadAndExtract(zipURL)
		if err != nil {
			slog.Error("failed to download dataset", "error", err)
			os.Exit(1)
		}
		csvPath = path
		cleanup = c
	}
	defer cleanup()

	count, skipped, err := importMovies(context.Background(), db, csvPath, limit)
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}

	slog.Info("import completed", "rows", count, "skipped", skipped)
}

func downloadAndExtract(zipURL string) (string, func(), error) {
	if zipURL == "" {
		return "", func() {}, errors.New("dataset url is empty")
	}

	tmpDir, err := os.MkdirTemp("", "movielens-")
	if err != nil {
		return "", func() {}, err
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	zipPath := filepath.Join(tmpDir, "dataset.zip")
	if err := downloadFile(zipURL, zipPath); err != nil {
		cleanup()
		return "", func() {}, err
	}

	csvPath, err := extractMoviesCSV(zipPath, tmpDir)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}

	return csvPath, cleanup, nil
}

func downloadFile(url, dest string) error {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url) // nolint: noctx
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func extractMoviesCSV(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, file := range r.File {
		if !strings.HasSuffix(file.Name, "movies.csv") {
			continue
		}

		src, err := file.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()

		destPath := filepath.Join(destDir, filepath.Base(file.Name))
		out, err := os.Create(destPath)
		if err != nil {
			return "", err
		}

		if _, err := io.Copy(out, src); err != nil {
			_ = out.Close()
			return "", err
		}
		if err := out.Close(); err != nil {
			return "", err
		}

		return destPath, nil
	}

	return "", errors.New("movies.csv not found in zip")
}

func importMovies(ctx context.Context, db *gorm.DB, csvPath string, limit int) (int, int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	idxTitle, idxGenres, err := parseMovieCSVHeader(reader)
	if err != nil {
		return 0, 0, err
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, 0, tx.Error
	}

	count, skipped := 0, 0
	for limit <= 0 || count < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = tx.Rollback()
			return count, skipped, err
		}

		m, ok := parseMovieRecord(record, idxTitle, idxGenres)
		if !ok {
			skipped++
			continue
		}

		if err := upsertMovie(tx, m); err != nil {
			_ = tx.Rollback()
			return count, skipped, err
		}

		count++
	}

	if err := tx.Commit().Error; err != nil {
		return count, skipped, err
	}

	return count, skipped, nil
}

// upsertMovie keys on the slug so reimporting the dataset updates instead of
// duplicating. The genre set is replaced wholesale for the affected movie.
func upsertMovie(tx *gorm.DB, m movie.Movie) error {
	err := tx.Exec(`
INSERT INTO movies (id, slug, title, year_of_release)
VALUES (?, ?, ?, ?)
ON CONFLICT (slug) DO UPDATE SET
	title = EXCLUDED.title,
	year_of_release = EXCLUDED.year_of_release`, m.ID, m.Slug(), m.Title, m.YearOfRelease).Error
	if err != nil {
		return err
	}

	// The conflict path keeps the original id, so resolve it by slug.
	var id string
	if err := tx.Raw(`SELECT id FROM movies WHERE slug = ?`, m.Slug()).Scan(&id).Error; err != nil {
		return err
	}

	if err := tx.Exec(`DELETE FROM genres WHERE movie_id = ?`, id).Error; err != nil {
		return err
	}
	for _, genre := range m.Genres {
		err := tx.Exec(`INSERT INTO genres (movie_id, name) VALUES (?, ?)`, id, genre).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func parseMovieCSVHeader(reader *csv.Reader) (int, int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, err
	}

	idxTitle, idxGenres := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "title":
			idxTitle = i
		case "genres":
			idxGenres = i
		}
	}
	if idxTitle == -1 || idxGenres == -1 {
		return 0, 0, errors.New("missing required columns in csv header")
	}

	return idxTitle, idxGenres, nil
}

// parseMovieRecord turns one MovieLens row into a movie. Rows without the
// year suffix or with no listed genres are skipped.
func parseMovieRecord(record []string, idxTitle, idxGenres int) (movie.Movie, bool) {
	if idxTitle >= len(record) || idxGenres >= len(record) {
		return movie.Movie{}, false
	}

	matches := yearSuffix.FindStringSubmatch(strings.TrimSpace(record[idxTitle]))
	if matches == nil {
		return movie.Movie{}, false
	}
	title := strings.TrimSpace(matches[1])
	year, err := strconv.Atoi(matches[2])
	if err != nil || title == "" {
		return movie.Movie{}, false
	}

	rawGenres := strings.TrimSpace(record[idxGenres])
	if rawGenres == "" || rawGenres == "(no genres listed)" {
		return movie.Movie{}, false
	}

	return movie.Movie{
		ID:            uuid.NewString(),
		Title:         title,
		YearOfRelease: year,
		Genres:        strings.Split(rawGenres, "|"),
	}, true
}
