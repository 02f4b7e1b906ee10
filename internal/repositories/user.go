package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/etechnosoft/authgate/internal/logger"
	"github.com/etechnosoft/authgate/internal/models"
)

// UserReadRepository provides read access to user records.
type UserReadRepository struct {
	db *sqlx.DB
}

// NewUserReadRepository creates a new UserReadRepository.
func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername returns the user with the given username, or nil if absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, activated, secret_key, client_id, created_at, updated_at
		FROM users
		WHERE username = $1
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logger.Log.Debugw("user read",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByUsernameOrEmail returns a user matching the given username or email,
// or nil if neither is taken. Either argument may be nil.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, activated, secret_key, client_id, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	logger.Log.Debugw("user read",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository provides write access to user records.
type UserWriteRepository struct {
	db *sqlx.DB
}

// NewUserWriteRepository creates a new UserWriteRepository.
func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user record.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash, secretKey, clientID string) error {
	const query = `
		INSERT INTO users (username, email, password_hash, secret_key, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	args := []any{username, email, passwordHash, secretKey, clientID}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"username", username,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// Activate marks the user's account as activated.
func (r *UserWriteRepository) Activate(ctx context.Context, username string) error {
	const query = `
		UPDATE users
		SET activated = TRUE,
		    updated_at = NOW()
		WHERE username = $1
	`

	res, err := r.db.ExecContext(ctx, query, username)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("user activate",
		"query", strings.Join(strings.Fields(query), " "),
		"username", username,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
