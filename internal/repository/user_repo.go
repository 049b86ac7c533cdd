package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/t3ratech/bantora-web/internal/database"
	"github.com/t3ratech/bantora-web/internal/models"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		db: database.DB,
	}
}

// NewUserRepositoryWithDB creates a new user repository with a specific database connection
func NewUserRepositoryWithDB(db *sql.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bantora_users (phone_number, password_hash, country_code, enabled, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.PhoneNumber, user.PasswordHash, user.CountryCode, user.Enabled, user.Verified, user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return models.ErrPhoneRegistered
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByPhone retrieves a user by phone number
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var (
		user      models.User
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT phone_number, password_hash, country_code, enabled, verified, created_at, last_login_at
		FROM bantora_users
		WHERE phone_number = $1`, phone).Scan(
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.CountryCode,
		&user.Enabled,
		&user.Verified,
		&user.CreatedAt,
		&lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return &user, nil
}

// TouchLastLogin records a successful login time
func (r *UserRepository) TouchLastLogin(ctx context.Context, phone string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bantora_users SET last_login_at = $1 WHERE phone_number = $2`, at, phone)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
