package domain

import "time"

// ============================================
// Domain Models
// ============================================

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Bio         *string   `json:"bio"`
	Avatar      *string   `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UserAuth struct {
	UserID         string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

type Tweet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TweetView is a tweet annotated for a specific viewer. LikeCount is always
// computed from the likes relation, never stored.
type TweetView struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	User         User      `json:"user"`
	LikeCount    int64     `json:"likeCount"`
	IsLiked      bool      `json:"isLiked"`
	IsBookmarked bool      `json:"isBookmarked"`
}

type BookmarkedTweet struct {
	TweetView
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}

// Profile is a user plus live relation counts.
type Profile struct {
	User
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
	TweetCount     int64 `json:"tweetCount"`
}

type ProfileWithFollow struct {
	Profile
	IsFollowing bool `json:"isFollowing"`
}

const (
	NotificationTypeLike   = "like"
	NotificationTypeFollow = "follow"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	ActorID   string    `json:"actorId"`
	TweetID   *string   `json:"tweetId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// TweetWithUser is a tweet with its author embedded, without viewer
// annotations. Used inside notification entries.
type TweetWithUser struct {
	Tweet
	User User `json:"user"`
}

type NotificationView struct {
	Notification
	Actor User           `json:"actor"`
	Tweet *TweetWithUser `json:"tweet,omitempty"`
}

type TrendingWord struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ============================================
// Request/Response Models
// ============================================

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SignupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type PostTweetRequest struct {
	Content string `json:"content"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type TrendingResponse struct {
	Trending []TrendingWord `json:"trending"`
}

type NewsSource struct {
	Name string `json:"name"`
}

type NewsArticle struct {
	Source      NewsSource `json:"source"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	URLToImage  string     `json:"urlToImage"`
	PublishedAt time.Time  `json:"publishedAt"`
}

type NewsResponse struct {
	Articles []NewsArticle `json:"articles"`
}
