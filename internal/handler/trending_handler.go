package handler

import (
	"net/http"

	"microblog/internal/domain"
	"microblog/internal/repository"
	"microblog/internal/trending"

	"github.com/sirupsen/logrus"
)

type TrendingHandler struct {
	tweets repository.TweetStore
}

func NewTrendingHandler(tweets repository.TweetStore) *TrendingHandler {
	return &TrendingHandler{tweets: tweets}
}

// Get recomputes the tally over the most recent tweets on every call. This is
// a best-effort view: a storage failure degrades to an empty list.
func (h *TrendingHandler) Get(w http.ResponseWriter, r *http.Request) {
	contents, err := h.tweets.RecentContents(r.Context(), trending.MaxTweets)
	if err != nil {
		logrus.WithError(err).Error("Failed to load recent tweets for trending")
		respondJSON(w, http.StatusOK, domain.TrendingResponse{Trending: []domain.TrendingWord{}})
		return
	}

	respondJSON(w, http.StatusOK, domain.TrendingResponse{Trending: trending.Extract(contents)})
}
