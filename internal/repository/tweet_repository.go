package repository

import (
	"context"

	"microblog/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TweetRepository struct {
	conn *pgxpool.Pool
}

func NewTweetRepository(conn *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{conn: conn}
}

func (r *TweetRepository) CreateTweet(ctx context.Context, tweetID, userID, content string) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.conn.QueryRow(ctx,
		"INSERT INTO tweets (id, user_id, content) VALUES ($1, $2, $3) RETURNING id, user_id, content, created_at",
		tweetID, userID, content,
	).Scan(&tweet.ID, &tweet.UserID, &tweet.Content, &tweet.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &tweet, nil
}

func (r *TweetRepository) GetTweetByID(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := r.conn.QueryRow(ctx,
		"SELECT id, user_id, content, created_at FROM tweets WHERE id = $1",
		tweetID,
	).Scan(&tweet.ID, &tweet.UserID, &tweet.Content, &tweet.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrTweetNotFound
	} else if err != nil {
		return nil, err
	}

	return &tweet, nil
}

// DeleteTweet removes the tweet; likes, bookmarks and notifications that
// reference it go with it via FK cascade.
func (r *TweetRepository) DeleteTweet(ctx context.Context, tweetID string) error {
	ct, err := r.conn.Exec(ctx, "DELETE FROM tweets WHERE id = $1", tweetID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrTweetNotFound
	}
	return nil
}

func (r *TweetRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM tweets WHERE user_id = $1", userID).Scan(&count)
	return count, err
}

// RecentContents returns the bodies of the most recent tweets, newest first.
// Feeds the trending tally.
func (r *TweetRepository) RecentContents(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT content FROM tweets ORDER BY created_at DESC, id DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}

	return contents, rows.Err()
}
