package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"microblog/internal/auth"
	"microblog/internal/domain"
	"microblog/internal/handler"
	"microblog/internal/repository"
	"microblog/internal/router"

	"github.com/stretchr/testify/require"
)

// In-memory fakes of the repository interfaces. They reproduce the store
// semantics the handlers rely on: uniqueness, ownership scoping and
// newest-first ordering.

type pair struct{ a, b string }

type fakeUserStore struct {
	users     []domain.User
	passwords map[string]string // userID -> stored secret, kept plain in tests
}

func (s *fakeUserStore) CreateUser(_ context.Context, userID, username, email, password, displayName string, bio, avatar *string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, repository.ErrDuplicateUser
		}
	}
	u := domain.User{
		ID:          userID,
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		Bio:         bio,
		Avatar:      avatar,
		CreatedAt:   time.Now(),
	}
	s.users = append(s.users, u)
	s.passwords[userID] = password
	return &u, nil
}

func (s *fakeUserStore) find(match func(domain.User) bool) (*domain.User, error) {
	for i := range s.users {
		if match(s.users[i]) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.ID == userID })
}

func (s *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username })
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Email == email })
}

func (s *fakeUserStore) GetUserAuth(_ context.Context, userID string) (*domain.UserAuth, error) {
	secret, ok := s.passwords[userID]
	if !ok {
		return nil, errors.New("no credentials")
	}
	return &domain.UserAuth{UserID: userID, HashedPassword: secret}, nil
}

func (s *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := s.find(func(u domain.User) bool { return u.Username == username })
	return err == nil, nil
}

func (s *fakeUserStore) SearchUsers(_ context.Context, query string, limit int) ([]domain.User, error) {
	q := strings.ToLower(query)
	var out []domain.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.DisplayName), q) {
			out = append(out, u)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeUserStore) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != password {
		return errors.New("hash mismatch")
	}
	return nil
}

type fakeTweetStore struct {
	tweets []domain.Tweet
}

func (s *fakeTweetStore) CreateTweet(_ context.Context, tweetID, userID, content string) (*domain.Tweet, error) {
	t := domain.Tweet{ID: tweetID, UserID: userID, Content: content, CreatedAt: time.Now()}
	s.tweets = append(s.tweets, t)
	return &t, nil
}

func (s *fakeTweetStore) GetTweetByID(_ context.Context, tweetID string) (*domain.Tweet, error) {
	for i := range s.tweets {
		if s.tweets[i].ID == tweetID {
			t := s.tweets[i]
			return &t, nil
		}
	}
	return nil, repository.ErrTweetNotFound
}

func (s *fakeTweetStore) DeleteTweet(_ context.Context, tweetID string) error {
	for i := range s.tweets {
		if s.tweets[i].ID == tweetID {
			s.tweets = append(s.tweets[:i], s.tweets[i+1:]...)
			return nil
		}
	}
	return repository.ErrTweetNotFound
}

func (s *fakeTweetStore) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, t := range s.tweets {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *fakeTweetStore) RecentContents(_ context.Context, limit int) ([]string, error) {
	var out []string
	for i := len(s.tweets) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.tweets[i].Content)
	}
	return out, nil
}

type fakeLikeStore struct {
	likes map[pair]bool // (userID, tweetID)
}

func (s *fakeLikeStore) CreateLike(_ context.Context, _, userID, tweetID string) error {
	k := pair{userID, tweetID}
	if s.likes[k] {
		return repository.ErrAlreadyLiked
	}
	s.likes[k] = true
	return nil
}

func (s *fakeLikeStore) DeleteLike(_ context.Context, userID, tweetID string) error {
	k := pair{userID, tweetID}
	if !s.likes[k] {
		return repository.ErrNotLiked
	}
	delete(s.likes, k)
	return nil
}

func (s *fakeLikeStore) IsLiked(_ context.Context, userID, tweetID string) (bool, error) {
	return s.likes[pair{userID, tweetID}], nil
}

type bookmarkRow struct {
	userID    string
	tweetID   string
	createdAt time.Time
}

type fakeBookmarkStore struct {
	bookmarks []bookmarkRow
}

func (s *fakeBookmarkStore) CreateBookmark(_ context.Context, _, userID, tweetID string) error {
	for _, b := range s.bookmarks {
		if b.userID == userID && b.tweetID == tweetID {
			return repository.ErrAlreadyBookmarked
		}
	}
	s.bookmarks = append(s.bookmarks, bookmarkRow{userID, tweetID, time.Now()})
	return nil
}

func (s *fakeBookmarkStore) DeleteBookmark(_ context.Context, userID, tweetID string) error {
	for i, b := range s.bookmarks {
		if b.userID == userID && b.tweetID == tweetID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return nil
		}
	}
	return repository.ErrBookmarkNotFound
}

func (s *fakeBookmarkStore) IsBookmarked(_ context.Context, userID, tweetID string) (bool, error) {
	for _, b := range s.bookmarks {
		if b.userID == userID && b.tweetID == tweetID {
			return true, nil
		}
	}
	return false, nil
}

type fakeFollowStore struct {
	edges map[pair]bool // (followerID, followeeID)
}

func (s *fakeFollowStore) CreateFollow(_ context.Context, _, followerID, followeeID string) error {
	if followerID == followeeID {
		return repository.ErrSelfFollow
	}
	k := pair{followerID, followeeID}
	if s.edges[k] {
		return repository.ErrAlreadyFollowing
	}
	s.edges[k] = true
	return nil
}

func (s *fakeFollowStore) DeleteFollow(_ context.Context, followerID, followeeID string) error {
	k := pair{followerID, followeeID}
	if !s.edges[k] {
		return repository.ErrNotFollowing
	}
	delete(s.edges, k)
	return nil
}

func (s *fakeFollowStore) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	return s.edges[pair{followerID, followeeID}], nil
}

func (s *fakeFollowStore) CountFollowers(_ context.Context, userID string) (int64, error) {
	var n int64
	for k := range s.edges {
		if k.b == userID {
			n++
		}
	}
	return n, nil
}

func (s *fakeFollowStore) CountFollowing(_ context.Context, userID string) (int64, error) {
	var n int64
	for k := range s.edges {
		if k.a == userID {
			n++
		}
	}
	return n, nil
}

type fakeNotificationStore struct {
	users  *fakeUserStore
	tweets *fakeTweetStore
	notifs []domain.Notification
}

func (s *fakeNotificationStore) CreateNotification(_ context.Context, notificationID, userID, actorID, kind string, tweetID *string) error {
	s.notifs = append(s.notifs, domain.Notification{
		ID:        notificationID,
		Type:      kind,
		UserID:    userID,
		ActorID:   actorID,
		TweetID:   tweetID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *fakeNotificationStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NotificationView, error) {
	var out []domain.NotificationView
	for i := len(s.notifs) - 1; i >= 0 && len(out) < limit; i-- {
		n := s.notifs[i]
		if n.UserID != userID {
			continue
		}
		v := domain.NotificationView{Notification: n}
		if actor, err := s.users.GetUserByID(ctx, n.ActorID); err == nil {
			v.Actor = *actor
		}
		if n.TweetID != nil {
			if t, err := s.tweets.GetTweetByID(ctx, *n.TweetID); err == nil {
				tw := domain.TweetWithUser{Tweet: *t}
				if author, err := s.users.GetUserByID(ctx, t.UserID); err == nil {
					tw.User = *author
				}
				v.Tweet = &tw
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *fakeNotificationStore) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, notif := range s.notifs {
		if notif.UserID == userID && !notif.Read {
			n++
		}
	}
	return n, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, notificationID, userID string) error {
	for i := range s.notifs {
		if s.notifs[i].ID == notificationID && s.notifs[i].UserID == userID {
			s.notifs[i].Read = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, userID string) error {
	for i := range s.notifs {
		if s.notifs[i].UserID == userID {
			s.notifs[i].Read = true
		}
	}
	return nil
}

// fakeTimelineStore composes views from the other fakes, mirroring the SQL
// composition layer.
type fakeTimelineStore struct {
	users     *fakeUserStore
	tweets    *fakeTweetStore
	likes     *fakeLikeStore
	bookmarks *fakeBookmarkStore
	follows   *fakeFollowStore
}

func (s *fakeTimelineStore) view(ctx context.Context, t domain.Tweet, viewerID string) domain.TweetView {
	v := domain.TweetView{
		ID:        t.ID,
		UserID:    t.UserID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
	if author, err := s.users.GetUserByID(ctx, t.UserID); err == nil {
		v.User = *author
	}
	for k := range s.likes.likes {
		if k.b == t.ID {
			v.LikeCount++
		}
	}
	if viewerID != "" {
		v.IsLiked, _ = s.likes.IsLiked(ctx, viewerID, t.ID)
		v.IsBookmarked, _ = s.bookmarks.IsBookmarked(ctx, viewerID, t.ID)
	}
	return v
}

func (s *fakeTimelineStore) GetTimeline(ctx context.Context, viewerID string, followingOnly bool, limit int) ([]domain.TweetView, error) {
	var out []domain.TweetView
	for i := len(s.tweets.tweets) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.tweets.tweets[i]
		if followingOnly && t.UserID != viewerID && !s.follows.edges[pair{viewerID, t.UserID}] {
			continue
		}
		out = append(out, s.view(ctx, t, viewerID))
	}
	return out, nil
}

func (s *fakeTimelineStore) GetUserTweets(ctx context.Context, authorID, viewerID string, limit int) ([]domain.TweetView, error) {
	var out []domain.TweetView
	for i := len(s.tweets.tweets) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.tweets.tweets[i]
		if t.UserID != authorID {
			continue
		}
		out = append(out, s.view(ctx, t, viewerID))
	}
	return out, nil
}

func (s *fakeTimelineStore) GetTweetView(ctx context.Context, tweetID, viewerID string) (*domain.TweetView, error) {
	t, err := s.tweets.GetTweetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	v := s.view(ctx, *t, viewerID)
	return &v, nil
}

func (s *fakeTimelineStore) GetBookmarkedTweets(ctx context.Context, userID string) ([]domain.BookmarkedTweet, error) {
	var out []domain.BookmarkedTweet
	for i := len(s.bookmarks.bookmarks) - 1; i >= 0; i-- {
		b := s.bookmarks.bookmarks[i]
		if b.userID != userID {
			continue
		}
		t, err := s.tweets.GetTweetByID(ctx, b.tweetID)
		if err != nil {
			continue
		}
		out = append(out, domain.BookmarkedTweet{
			TweetView:    s.view(ctx, *t, userID),
			BookmarkedAt: b.createdAt,
		})
	}
	return out, nil
}

type fakeGoogleVerifier struct {
	claims *auth.GoogleClaims
	err    error
}

func (v *fakeGoogleVerifier) Verify(context.Context, string) (*auth.GoogleClaims, error) {
	return v.claims, v.err
}

// ============================================
// Test environment
// ============================================

type testEnv struct {
	users         *fakeUserStore
	tweets        *fakeTweetStore
	likes         *fakeLikeStore
	bookmarks     *fakeBookmarkStore
	follows       *fakeFollowStore
	notifications *fakeNotificationStore
	google        *fakeGoogleVerifier
	tokens        *auth.TokenManager
	srv           http.Handler
}

func newTestEnv() *testEnv {
	users := &fakeUserStore{passwords: map[string]string{}}
	tweets := &fakeTweetStore{}
	likes := &fakeLikeStore{likes: map[pair]bool{}}
	bookmarks := &fakeBookmarkStore{}
	follows := &fakeFollowStore{edges: map[pair]bool{}}
	notifications := &fakeNotificationStore{users: users, tweets: tweets}
	timeline := &fakeTimelineStore{
		users:     users,
		tweets:    tweets,
		likes:     likes,
		bookmarks: bookmarks,
		follows:   follows,
	}
	google := &fakeGoogleVerifier{err: errors.New("not configured")}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(users, tokens, google),
		Tweets:        handler.NewTweetHandler(tweets, likes, timeline, notifications),
		Users:         handler.NewUserHandler(users, tweets, follows, timeline, notifications),
		Bookmarks:     handler.NewBookmarkHandler(tweets, bookmarks, timeline),
		Notifications: handler.NewNotificationHandler(notifications),
		Trending:      handler.NewTrendingHandler(tweets),
		News:          handler.NewNewsHandler(""),
	}

	return &testEnv{
		users:         users,
		tweets:        tweets,
		likes:         likes,
		bookmarks:     bookmarks,
		follows:       follows,
		notifications: notifications,
		google:        google,
		tokens:        tokens,
		srv:           router.Setup([]string{"http://localhost:3000"}, tokens, h),
	}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

// signup registers a user through the boundary and returns the session token.
func (e *testEnv) signup(t *testing.T, username, email string) string {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/auth/signup", "", domain.SignupRequest{
		Username:    username,
		Email:       email,
		Password:    "password123",
		DisplayName: username,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// post creates a tweet and returns its ID.
func (e *testEnv) post(t *testing.T, token, content string) string {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/tweets", token, domain.PostTweetRequest{Content: content})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view domain.TweetView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
