package handler

import (
	"errors"
	"net/http"

	"microblog/internal/auth"
	"microblog/internal/domain"
	"microblog/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const notificationLimit = 50

type NotificationHandler struct {
	notifications repository.NotificationStore
}

func NewNotificationHandler(notifications repository.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	notifications, err := h.notifications.ListByUser(ctx, userID, notificationLimit)
	if err != nil {
		logrus.WithError(err).Error("Failed to load notifications")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if notifications == nil {
		notifications = []domain.NotificationView{}
	}

	respondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	count, err := h.notifications.CountUnread(ctx, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to count unread notifications")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, domain.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	err := h.notifications.MarkRead(ctx, chi.URLParam(r, "id"), userID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		respondError(w, http.StatusNotFound, "Notification not found")
		return
	} else if err != nil {
		logrus.WithError(err).Error("Failed to mark notification read")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "Notification marked as read")
}

// MarkAllRead is idempotent: a second call finds nothing unread and succeeds.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	if err := h.notifications.MarkAllRead(ctx, userID); err != nil {
		logrus.WithError(err).Error("Failed to mark notifications read")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, "All notifications marked as read")
}
