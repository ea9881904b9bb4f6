package repository

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateUser        = errors.New("user already exists")
	ErrTweetNotFound        = errors.New("tweet not found")
	ErrAlreadyLiked         = errors.New("already liked")
	ErrNotLiked             = errors.New("not liked yet")
	ErrAlreadyBookmarked    = errors.New("already bookmarked")
	ErrBookmarkNotFound     = errors.New("bookmark not found")
	ErrSelfFollow           = errors.New("cannot follow yourself")
	ErrAlreadyFollowing     = errors.New("already following")
	ErrNotFollowing         = errors.New("not following")
	ErrNotificationNotFound = errors.New("notification not found")
)
