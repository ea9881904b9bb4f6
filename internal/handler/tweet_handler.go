package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"microblog/internal/auth"
	"microblog/internal/domain"
	"microblog/internal/monitoring"
	"microblog/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const timelineLimit = 50

type TweetHandler struct {
	tweets        repository.TweetStore
	likes         repository.LikeStore
	timeline      repository.TimelineStore
	notifications repository.NotificationStore
}

func NewTweetHandler(tweets repository.TweetStore, likes repository.LikeStore, timeline repository.TimelineStore, notifications repository.NotificationStore) *TweetHandler {
	return &TweetHandler{tweets: tweets, likes: likes, timeline: timeline, notifications: notifications}
}

// Timeline serves the viewer's feed. mode=following (the default) restricts
// authorship to the viewer and accounts the viewer follows; mode=all does not.
func (h *TweetHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	followingOnly := r.URL.Query().Get("mode") != "all"

	tweets, err := h.timeline.GetTimeline(ctx, userID, followingOnly, timelineLimit)
	if err != nil {
		logrus.WithError(err).Error("Failed to load timeline")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if tweets == nil {
		tweets = []domain.TweetView{}
	}

	respondJSON(w, http.StatusOK, tweets)
}

func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	var req domain.PostTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if n := utf8.RuneCountInString(req.Content); n < 1 || n > 280 {
		respondError(w, http.StatusBadRequest, "Content must be 1-280 characters")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate uuid")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tweet, err := h.tweets.CreateTweet(ctx, id.String(), userID, req.Content)
	if err != nil {
		logrus.WithError(err).Error("Failed to create tweet")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	view, err := h.timeline.GetTweetView(ctx, tweet.ID, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load created tweet")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	monitoring.TweetsPosted.Inc()
	respondJSON(w, http.StatusCreated, view)
}

// Get serves a single tweet. Auth is optional here: an anonymous viewer gets
// false annotation flags.
func (h *TweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, _ := auth.UserIDFromContext(ctx)

	view, err := h.timeline.GetTweetView(ctx, chi.URLParam(r, "id"), viewerID)
	if errors.Is(err, repository.ErrTweetNotFound) {
		respondError(w, http.StatusNotFound, "Tweet not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load tweet")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)
	tweetID := chi.URLParam(r, "id")

	tweet, err := h.tweets.GetTweetByID(ctx, tweetID)
	if errors.Is(err, repository.ErrTweetNotFound) {
		respondError(w, http.StatusNotFound, "Tweet not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load tweet")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if tweet.UserID != userID {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.tweets.DeleteTweet(ctx, tweetID); err != nil {
		logrus.WithError(err).Error("Failed to delete tweet")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "Tweet deleted")
}

func (h *TweetHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)
	tweetID := chi.URLParam(r, "id")

	tweet, err := h.tweets.GetTweetByID(ctx, tweetID)
	if errors.Is(err, repository.ErrTweetNotFound) {
		respondError(w, http.StatusNotFound, "Tweet not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load tweet")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate uuid")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	err = h.likes.CreateLike(ctx, id.String(), userID, tweetID)
	if errors.Is(err, repository.ErrAlreadyLiked) {
		respondError(w, http.StatusBadRequest, "Already liked")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to create like")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Fan out to the author, unless they liked their own tweet. The like
	// itself already succeeded, so an emit failure is logged, not surfaced.
	if tweet.UserID != userID {
		nid, err := uuid.NewV7()
		if err == nil {
			err = h.notifications.CreateNotification(ctx, nid.String(), tweet.UserID, userID, domain.NotificationTypeLike, &tweetID)
		}
		if err != nil {
			logrus.WithError(err).Warn("Failed to emit like notification")
		} else {
			monitoring.NotificationsEmitted.WithLabelValues(domain.NotificationTypeLike).Inc()
		}
	}

	respondMessage(w, "Tweet liked")
}

func (h *TweetHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	err := h.likes.DeleteLike(ctx, userID, chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotLiked) {
		respondError(w, http.StatusBadRequest, "Not liked yet")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to delete like")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "Tweet unliked")
}
