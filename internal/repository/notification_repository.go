package repository

import (
	"context"
	"time"

	"microblog/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	conn *pgxpool.Pool
}

func NewNotificationRepository(conn *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// CreateNotification is a plain insert. Idempotency is deliberately not
// enforced: repeated like/unlike/like cycles produce repeated notifications.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notificationID, userID, actorID, kind string, tweetID *string) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO notifications (id, user_id, actor_id, type, tweet_id) VALUES ($1, $2, $3, $4, $5)",
		notificationID, userID, actorID, kind, tweetID,
	)
	return err
}

// ListByUser returns the recipient's notifications newest first, each with
// the actor's public profile and, when present, the related tweet and its
// author.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NotificationView, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT
			n.id, n.type, n.user_id, n.actor_id, n.tweet_id, n.read, n.created_at,
			a.id, a.username, a.email, a.display_name, a.bio, a.avatar, a.created_at,
			t.id, t.user_id, t.content, t.created_at,
			tu.id, tu.username, tu.email, tu.display_name, tu.bio, tu.avatar, tu.created_at
		 FROM notifications n
		 INNER JOIN users a ON n.actor_id = a.id
		 LEFT JOIN tweets t ON n.tweet_id = t.id
		 LEFT JOIN users tu ON t.user_id = tu.id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC, n.id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []domain.NotificationView
	for rows.Next() {
		var v domain.NotificationView
		var tID, tUserID, tContent *string
		var tCreatedAt *time.Time
		var tuID, tuUsername, tuEmail, tuDisplayName, tuBio, tuAvatar *string
		var tuCreatedAt *time.Time

		if err := rows.Scan(
			&v.ID, &v.Type, &v.UserID, &v.ActorID, &v.TweetID, &v.Read, &v.CreatedAt,
			&v.Actor.ID, &v.Actor.Username, &v.Actor.Email, &v.Actor.DisplayName, &v.Actor.Bio, &v.Actor.Avatar, &v.Actor.CreatedAt,
			&tID, &tUserID, &tContent, &tCreatedAt,
			&tuID, &tuUsername, &tuEmail, &tuDisplayName, &tuBio, &tuAvatar, &tuCreatedAt,
		); err != nil {
			return nil, err
		}

		if tID != nil && tuID != nil {
			v.Tweet = &domain.TweetWithUser{
				Tweet: domain.Tweet{
					ID:        *tID,
					UserID:    *tUserID,
					Content:   *tContent,
					CreatedAt: *tCreatedAt,
				},
				User: domain.User{
					ID:          *tuID,
					Username:    *tuUsername,
					Email:       *tuEmail,
					DisplayName: *tuDisplayName,
					Bio:         tuBio,
					Avatar:      tuAvatar,
					CreatedAt:   *tuCreatedAt,
				},
			}
		}

		views = append(views, v)
	}

	return views, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE",
		userID,
	).Scan(&count)
	return count, err
}

// MarkRead flips the read flag. Ownership is enforced in the WHERE clause, so
// another account's notification looks the same as a missing one.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	ct, err := r.conn.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2",
		notificationID, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.conn.Exec(ctx,
		"UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE",
		userID,
	)
	return err
}
