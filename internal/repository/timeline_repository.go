package repository

import (
	"context"

	"microblog/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TimelineRepository assembles the viewer-annotated tweet views. Every
// annotation is computed live: like counts are COUNT subqueries over the
// likes relation, viewer flags are EXISTS membership checks keyed by
// (viewer, tweet). A viewerID of "" means anonymous and yields false flags.
type TimelineRepository struct {
	conn *pgxpool.Pool
}

func NewTimelineRepository(conn *pgxpool.Pool) *TimelineRepository {
	return &TimelineRepository{conn: conn}
}

const tweetViewColumns = `
	t.id,
	t.user_id,
	t.content,
	t.created_at,
	u.id,
	u.username,
	u.email,
	u.display_name,
	u.bio,
	u.avatar,
	u.created_at,
	(SELECT COUNT(*) FROM likes l WHERE l.tweet_id = t.id) AS like_count,
	($2 <> '' AND EXISTS(SELECT 1 FROM likes l WHERE l.user_id = $2 AND l.tweet_id = t.id)) AS is_liked,
	($2 <> '' AND EXISTS(SELECT 1 FROM bookmarks b WHERE b.user_id = $2 AND b.tweet_id = t.id)) AS is_bookmarked`

func scanTweetView(rows pgx.Rows) (domain.TweetView, error) {
	var tweet domain.TweetView
	err := rows.Scan(
		&tweet.ID,
		&tweet.UserID,
		&tweet.Content,
		&tweet.CreatedAt,
		&tweet.User.ID,
		&tweet.User.Username,
		&tweet.User.Email,
		&tweet.User.DisplayName,
		&tweet.User.Bio,
		&tweet.User.Avatar,
		&tweet.User.CreatedAt,
		&tweet.LikeCount,
		&tweet.IsLiked,
		&tweet.IsBookmarked,
	)
	return tweet, err
}

func collectTweetViews(rows pgx.Rows) ([]domain.TweetView, error) {
	defer rows.Close()

	var tweets []domain.TweetView
	for rows.Next() {
		tweet, err := scanTweetView(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}

	return tweets, rows.Err()
}

// GetTimeline returns recent tweets for the viewer, newest first. With
// followingOnly set, only tweets authored by the viewer or by accounts the
// viewer follows qualify; otherwise every author qualifies.
func (r *TimelineRepository) GetTimeline(ctx context.Context, viewerID string, followingOnly bool, limit int) ([]domain.TweetView, error) {
	query := `
		SELECT` + tweetViewColumns + `
		FROM tweets t
		INNER JOIN users u ON t.user_id = u.id
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1`
	if followingOnly {
		query = `
		SELECT` + tweetViewColumns + `
		FROM tweets t
		INNER JOIN users u ON t.user_id = u.id
		WHERE t.user_id = $2
		   OR t.user_id IN (SELECT followee_id FROM follows f WHERE f.follower_id = $2)
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1`
	}

	rows, err := r.conn.Query(ctx, query, limit, viewerID)
	if err != nil {
		return nil, err
	}

	return collectTweetViews(rows)
}

func (r *TimelineRepository) GetUserTweets(ctx context.Context, authorID, viewerID string, limit int) ([]domain.TweetView, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT`+tweetViewColumns+`
		FROM tweets t
		INNER JOIN users u ON t.user_id = u.id
		WHERE t.user_id = $3
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1`,
		limit, viewerID, authorID,
	)
	if err != nil {
		return nil, err
	}

	return collectTweetViews(rows)
}

func (r *TimelineRepository) GetTweetView(ctx context.Context, tweetID, viewerID string) (*domain.TweetView, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT`+tweetViewColumns+`
		FROM tweets t
		INNER JOIN users u ON t.user_id = u.id
		WHERE t.id = $1`,
		tweetID, viewerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrTweetNotFound
	}

	tweet, err := scanTweetView(rows)
	if err != nil {
		return nil, err
	}

	return &tweet, nil
}

// GetBookmarkedTweets returns the user's bookmarked tweets ordered by when
// they were bookmarked, newest first. IsBookmarked is true by construction.
func (r *TimelineRepository) GetBookmarkedTweets(ctx context.Context, userID string) ([]domain.BookmarkedTweet, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT`+tweetViewColumns+`,
			bm.created_at AS bookmarked_at
		FROM bookmarks bm
		INNER JOIN tweets t ON bm.tweet_id = t.id
		INNER JOIN users u ON t.user_id = u.id
		WHERE bm.user_id = $1
		ORDER BY bm.created_at DESC, bm.id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []domain.BookmarkedTweet
	for rows.Next() {
		var tweet domain.BookmarkedTweet
		err := rows.Scan(
			&tweet.ID,
			&tweet.UserID,
			&tweet.Content,
			&tweet.CreatedAt,
			&tweet.User.ID,
			&tweet.User.Username,
			&tweet.User.Email,
			&tweet.User.DisplayName,
			&tweet.User.Bio,
			&tweet.User.Avatar,
			&tweet.User.CreatedAt,
			&tweet.LikeCount,
			&tweet.IsLiked,
			&tweet.IsBookmarked,
			&tweet.BookmarkedAt,
		)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}

	return tweets, rows.Err()
}
