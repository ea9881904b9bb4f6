package repository

import (
	"context"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookmarkRepository struct {
	conn *pgxpool.Pool
}

func NewBookmarkRepository(conn *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{conn: conn}
}

func (r *BookmarkRepository) CreateBookmark(ctx context.Context, bookmarkID, userID, tweetID string) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO bookmarks (id, user_id, tweet_id) VALUES ($1, $2, $3)",
		bookmarkID, userID, tweetID,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAlreadyBookmarked
			}
		}
		return err
	}
	return nil
}

func (r *BookmarkRepository) DeleteBookmark(ctx context.Context, userID, tweetID string) error {
	ct, err := r.conn.Exec(ctx,
		"DELETE FROM bookmarks WHERE user_id = $1 AND tweet_id = $2",
		userID, tweetID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

func (r *BookmarkRepository) IsBookmarked(ctx context.Context, userID, tweetID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND tweet_id = $2)",
		userID, tweetID,
	).Scan(&exists)
	return exists, err
}
