package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"moviecatalog/pkg/cache"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/sentry"
	"moviecatalog/postgres"
	"moviecatalog/rating"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("Cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	store, err := cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	if err != nil {
		slog.Error("Cannot create cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	movieRepo := postgres.NewMovieRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)

	server := httpserver.Default(cfg)
	server.MovieService = movie.NewUsecase(movieRepo, ratingRepo)
	server.RatingService = rating.NewUsecase(ratingRepo, movieRepo)
	server.Cache = store
	server.DB = db
	if cfg.Port != 0 {
		server.Addr = fmt.Sprintf(":%d", cfg.Port)
	}

	slog.Info("server started!", "addr", server.Addr)
	if err := server.Start(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
