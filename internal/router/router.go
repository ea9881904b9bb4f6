package router

import (
	"net/http"

	"microblog/internal/auth"
	"microblog/internal/handler"
	"microblog/internal/monitoring"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Tweets        *handler.TweetHandler
	Users         *handler.UserHandler
	Bookmarks     *handler.BookmarkHandler
	Notifications *handler.NotificationHandler
	Trending      *handler.TrendingHandler
	News          *handler.NewsHandler
}

// Setup builds the route table. Routes come in three flavors: public,
// required-auth (401 without a valid token) and optional-auth (anonymous
// callers get un-annotated views).
func Setup(allowedOrigins []string, tokens *auth.TokenManager, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Post("/auth/signup", h.Auth.Signup)
	r.Post("/auth/login", h.Auth.Login)
	r.Post("/auth/google", h.Auth.Google)
	r.Get("/users/search", h.Users.Search)
	r.Get("/trending", h.Trending.Get)
	r.Get("/news", h.News.Get)

	// Optional auth: readable anonymously, annotated when a token is present
	r.Group(func(r chi.Router) {
		r.Use(tokens.OptionalMiddleware)
		r.Get("/tweets/{id}", h.Tweets.Get)
		r.Get("/users/{username}", h.Users.GetByUsername)
		r.Get("/users/{username}/tweets", h.Users.Tweets)
	})

	// Required auth
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)

		r.Get("/tweets/timeline", h.Tweets.Timeline)
		r.Post("/tweets", h.Tweets.Create)
		r.Delete("/tweets/{id}", h.Tweets.Delete)
		r.Post("/tweets/{id}/like", h.Tweets.Like)
		r.Delete("/tweets/{id}/like", h.Tweets.Unlike)

		r.Get("/bookmarks", h.Bookmarks.List)
		r.Post("/bookmarks/{tweetID}", h.Bookmarks.Add)
		r.Delete("/bookmarks/{tweetID}", h.Bookmarks.Remove)

		r.Get("/users/me", h.Users.Me)
		r.Post("/users/{username}/follow", h.Users.Follow)
		r.Delete("/users/{username}/follow", h.Users.Unfollow)

		r.Get("/notifications", h.Notifications.List)
		r.Get("/notifications/unread-count", h.Notifications.UnreadCount)
		r.Put("/notifications/{id}/read", h.Notifications.MarkRead)
		r.Put("/notifications/read-all", h.Notifications.MarkAllRead)
	})

	r.Handle("/metrics", promhttp.Handler())

	return monitoring.InstrumentHandler(r)
}
