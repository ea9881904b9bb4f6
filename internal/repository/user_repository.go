package repository

import (
	"context"

	"microblog/internal/domain"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository struct {
	conn *pgxpool.Pool
}

func NewUserRepository(conn *pgxpool.Pool) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = "id, username, email, display_name, bio, avatar, created_at"

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.Bio, &user.Avatar, &user.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the account and its credential row in one transaction.
// A unique violation on username or email surfaces as ErrDuplicateUser
// regardless of any earlier existence check.
func (r *UserRepository) CreateUser(ctx context.Context, userID, username, email, password, displayName string, bio, avatar *string) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var user domain.User
	err = tx.QueryRow(ctx,
		"INSERT INTO users (id, username, email, display_name, bio, avatar) VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+userColumns,
		userID, username, email, displayName, bio, avatar,
	).Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.Bio, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return nil, ErrDuplicateUser
			}
		}
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO user_auth (user_id, hashed_password) VALUES ($1, $2)",
		userID, hashedPassword,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(r.conn.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID))
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.conn.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.conn.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email))
}

func (r *UserRepository) GetUserAuth(ctx context.Context, userID string) (*domain.UserAuth, error) {
	var userAuth domain.UserAuth
	err := r.conn.QueryRow(ctx,
		"SELECT user_id, hashed_password, created_at, updated_at FROM user_auth WHERE user_id = $1",
		userID,
	).Scan(&userAuth.UserID, &userAuth.HashedPassword, &userAuth.CreatedAt, &userAuth.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &userAuth, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	return exists, err
}

// SearchUsers matches the query case-insensitively against username and
// display name.
func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE username ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%' LIMIT $2",
		query, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.Bio, &user.Avatar, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
