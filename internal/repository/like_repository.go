package repository

import (
	"context"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepository struct {
	conn *pgxpool.Pool
}

func NewLikeRepository(conn *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{conn: conn}
}

// CreateLike inserts the (user, tweet) pair. The unique constraint is the
// real duplicate guard; a violation maps to ErrAlreadyLiked.
func (r *LikeRepository) CreateLike(ctx context.Context, likeID, userID, tweetID string) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO likes (id, user_id, tweet_id) VALUES ($1, $2, $3)",
		likeID, userID, tweetID,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAlreadyLiked
			}
		}
		return err
	}
	return nil
}

func (r *LikeRepository) DeleteLike(ctx context.Context, userID, tweetID string) error {
	ct, err := r.conn.Exec(ctx,
		"DELETE FROM likes WHERE user_id = $1 AND tweet_id = $2",
		userID, tweetID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotLiked
	}
	return nil
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, tweetID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND tweet_id = $2)",
		userID, tweetID,
	).Scan(&exists)
	return exists, err
}
