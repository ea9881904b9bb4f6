package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"microblog/internal/auth"
	"microblog/internal/domain"
	"microblog/internal/monitoring"
	"microblog/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const searchLimit = 20

type UserHandler struct {
	users         repository.UserStore
	tweets        repository.TweetStore
	follows       repository.FollowStore
	timeline      repository.TimelineStore
	notifications repository.NotificationStore
}

func NewUserHandler(users repository.UserStore, tweets repository.TweetStore, follows repository.FollowStore, timeline repository.TimelineStore, notifications repository.NotificationStore) *UserHandler {
	return &UserHandler{users: users, tweets: tweets, follows: follows, timeline: timeline, notifications: notifications}
}

// buildProfile annotates a user with live relation counts. Counts are always
// recomputed from the rows, never cached.
func (h *UserHandler) buildProfile(ctx context.Context, user domain.User) (domain.Profile, error) {
	followerCount, err := h.follows.CountFollowers(ctx, user.ID)
	if err != nil {
		return domain.Profile{}, err
	}
	followingCount, err := h.follows.CountFollowing(ctx, user.ID)
	if err != nil {
		return domain.Profile{}, err
	}
	tweetCount, err := h.tweets.CountByUser(ctx, user.ID)
	if err != nil {
		return domain.Profile{}, err
	}

	return domain.Profile{
		User:           user,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		TweetCount:     tweetCount,
	}, nil
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	user, err := h.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	profile, err := h.buildProfile(ctx, *user)
	if err != nil {
		logrus.WithError(err).Error("Failed to build profile")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	users, err := h.users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		logrus.WithError(err).Error("Failed to search users")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	profiles := make([]domain.Profile, 0, len(users))
	for _, user := range users {
		profile, err := h.buildProfile(ctx, user)
		if err != nil {
			logrus.WithError(err).Error("Failed to build profile")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		profiles = append(profiles, profile)
	}

	respondJSON(w, http.StatusOK, profiles)
}

// GetByUsername serves a public profile. A logged-in viewer additionally gets
// whether they follow the subject.
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, hasViewer := auth.UserIDFromContext(ctx)

	user, err := h.users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	profile, err := h.buildProfile(ctx, *user)
	if err != nil {
		logrus.WithError(err).Error("Failed to build profile")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	isFollowing := false
	if hasViewer {
		isFollowing, err = h.follows.IsFollowing(ctx, viewerID, user.ID)
		if err != nil {
			logrus.WithError(err).Error("Failed to check follow state")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	respondJSON(w, http.StatusOK, domain.ProfileWithFollow{Profile: profile, IsFollowing: isFollowing})
}

func (h *UserHandler) Tweets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, _ := auth.UserIDFromContext(ctx)

	user, err := h.users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tweets, err := h.timeline.GetUserTweets(ctx, user.ID, viewerID, timelineLimit)
	if err != nil {
		logrus.WithError(err).Error("Failed to load user tweets")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if tweets == nil {
		tweets = []domain.TweetView{}
	}

	respondJSON(w, http.StatusOK, tweets)
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	target, err := h.users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate uuid")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	err = h.follows.CreateFollow(ctx, id.String(), userID, target.ID)
	switch {
	case errors.Is(err, repository.ErrSelfFollow):
		respondError(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	case errors.Is(err, repository.ErrAlreadyFollowing):
		respondError(w, http.StatusBadRequest, "Already following")
		return
	case err != nil:
		logrus.WithError(err).Error("Failed to create follow")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	nid, err := uuid.NewV7()
	if err == nil {
		err = h.notifications.CreateNotification(ctx, nid.String(), target.ID, userID, domain.NotificationTypeFollow, nil)
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to emit follow notification")
	} else {
		monitoring.NotificationsEmitted.WithLabelValues(domain.NotificationTypeFollow).Inc()
	}

	respondMessage(w, "User followed")
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	target, err := h.users.GetUserByUsername(ctx, chi.URLParam(r, "username"))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to load user")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	err = h.follows.DeleteFollow(ctx, userID, target.ID)
	if errors.Is(err, repository.ErrNotFollowing) {
		respondError(w, http.StatusBadRequest, "Not following")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to delete follow")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "User unfollowed")
}
