package handler

import (
	"errors"
	"net/http"

	"microblog/internal/auth"
	"microblog/internal/domain"
	"microblog/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookmarkHandler struct {
	tweets    repository.TweetStore
	bookmarks repository.BookmarkStore
	timeline  repository.TimelineStore
}

func NewBookmarkHandler(tweets repository.TweetStore, bookmarks repository.BookmarkStore, timeline repository.TimelineStore) *BookmarkHandler {
	return &BookmarkHandler{tweets: tweets, bookmarks: bookmarks, timeline: timeline}
}

func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	tweets, err := h.timeline.GetBookmarkedTweets(ctx, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to load bookmarks")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if tweets == nil {
		tweets = []domain.BookmarkedTweet{}
	}

	respondJSON(w, http.StatusOK, tweets)
}

func (h *BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)
	tweetID := chi.URLParam(r, "tweetID")

	if _, err := h.tweets.GetTweetByID(ctx, tweetID); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			respondError(w, http.StatusNotFound, "Tweet not found")
			return
		}
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

	err = h.bookmarks.CreateBookmark(ctx, id.String(), userID, tweetID)
	if errors.Is(err, repository.ErrAlreadyBookmarked) {
		respondError(w, http.StatusBadRequest, "Already bookmarked")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to create bookmark")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "Tweet bookmarked")
}

func (h *BookmarkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	err := h.bookmarks.DeleteBookmark(ctx, userID, chi.URLParam(r, "tweetID"))
	if errors.Is(err, repository.ErrBookmarkNotFound) {
		respondError(w, http.StatusNotFound, "Bookmark not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to delete bookmark")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "Bookmark removed")
}
