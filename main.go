package main

import (
	"context"
	"net/http"
	"os"

	"microblog/internal/auth"
	"microblog/internal/config"
	"microblog/internal/handler"
	"microblog/internal/logger"
	"microblog/internal/repository"
	"microblog/internal/router"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// initDB applies schema.sql. Every statement is idempotent, so this runs on
// every boot.
func initDB(ctx context.Context, pool *pgxpool.Pool) error {
	schema, err := os.ReadFile("schema.sql")
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, string(schema))
	return err
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("failed to load config: ", err)
	}

	logger.InitLogger(cfg.LogLevel)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal("failed to connect database: ", err)
	}
	defer pool.Close()

	if err := initDB(ctx, pool); err != nil {
		logrus.Fatal("failed to apply schema: ", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(pool)
	tweetRepo := repository.NewTweetRepository(pool)
	likeRepo := repository.NewLikeRepository(pool)
	bookmarkRepo := repository.NewBookmarkRepository(pool)
	followRepo := repository.NewFollowRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	timelineRepo := repository.NewTimelineRepository(pool)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(userRepo, tokens, auth.NewGoogleVerifier(cfg.GoogleClientID)),
		Tweets:        handler.NewTweetHandler(tweetRepo, likeRepo, timelineRepo, notificationRepo),
		Users:         handler.NewUserHandler(userRepo, tweetRepo, followRepo, timelineRepo, notificationRepo),
		Bookmarks:     handler.NewBookmarkHandler(tweetRepo, bookmarkRepo, timelineRepo),
		Notifications: handler.NewNotificationHandler(notificationRepo),
		Trending:      handler.NewTrendingHandler(tweetRepo),
		News:          handler.NewNewsHandler(cfg.NewsAPIKey),
	}

	r := router.Setup(cfg.AllowedOrigins, tokens, h)

	logrus.WithField("addr", cfg.Addr).Info("Server starting")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logrus.Fatal("server stopped: ", err)
	}
}
