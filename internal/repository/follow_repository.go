package repository

import (
	"context"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FollowRepository struct {
	conn *pgxpool.Pool
}

func NewFollowRepository(conn *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{conn: conn}
}

// CreateFollow inserts the directed edge. Duplicate edges map to
// ErrAlreadyFollowing via the unique constraint; self-follow is rejected
// before touching the store.
func (r *FollowRepository) CreateFollow(ctx context.Context, followID, followerID, followeeID string) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	_, err := r.conn.Exec(ctx,
		"INSERT INTO follows (id, follower_id, followee_id) VALUES ($1, $2, $3)",
		followID, followerID, followeeID,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAlreadyFollowing
			}
		}
		return err
	}
	return nil
}

func (r *FollowRepository) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	ct, err := r.conn.Exec(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2",
		followerID, followeeID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)",
		followerID, followeeID,
	).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE followee_id = $1", userID).Scan(&count)
	return count, err
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE follower_id = $1", userID).Scan(&count)
	return count, err
}
