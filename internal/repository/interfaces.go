package repository

import (
	"context"

	"microblog/internal/domain"
)

type UserStore interface {
	CreateUser(ctx context.Context, userID, username, email, password, displayName string, bio, avatar *string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserAuth(ctx context.Context, userID string) (*domain.UserAuth, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error)
	VerifyPassword(hashedPassword, password string) error
}

type TweetStore interface {
	CreateTweet(ctx context.Context, tweetID, userID, content string) (*domain.Tweet, error)
	GetTweetByID(ctx context.Context, tweetID string) (*domain.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	RecentContents(ctx context.Context, limit int) ([]string, error)
}

type LikeStore interface {
	CreateLike(ctx context.Context, likeID, userID, tweetID string) error
	DeleteLike(ctx context.Context, userID, tweetID string) error
	IsLiked(ctx context.Context, userID, tweetID string) (bool, error)
}

type BookmarkStore interface {
	CreateBookmark(ctx context.Context, bookmarkID, userID, tweetID string) error
	DeleteBookmark(ctx context.Context, userID, tweetID string) error
	IsBookmarked(ctx context.Context, userID, tweetID string) (bool, error)
}

type FollowStore interface {
	CreateFollow(ctx context.Context, followID, followerID, followeeID string) error
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notificationID, userID, actorID, kind string, tweetID *string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.NotificationView, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// TimelineStore serves the composed, viewer-annotated read models. A viewerID
// of "" means anonymous: annotation flags come back false.
type TimelineStore interface {
	GetTimeline(ctx context.Context, viewerID string, followingOnly bool, limit int) ([]domain.TweetView, error)
	GetUserTweets(ctx context.Context, authorID, viewerID string, limit int) ([]domain.TweetView, error)
	GetTweetView(ctx context.Context, tweetID, viewerID string) (*domain.TweetView, error)
	GetBookmarkedTweets(ctx context.Context, userID string) ([]domain.BookmarkedTweet, error)
}
