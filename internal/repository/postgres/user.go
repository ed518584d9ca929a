package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/promptdeck/promptdeck/internal/domain"
)

const pgUniqueViolation = "23505"

// UserRepository handles user data access.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A uniqueness violation on username, email or
// api_key surfaces as domain.ErrConflict; the row is never half-written.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, api_key, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.APIKey,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("username/email/api_key already exists: %w", domain.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID. Returns nil without error when absent.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

// GetByAPIKey retrieves a user by exact API key match.
func (r *UserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	return r.getOne(ctx, "api_key = $1", apiKey)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT id, username, email, api_key, is_active, created_at, updated_at
		FROM users
		WHERE ` + where

	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.APIKey,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// APIKeyExists checks whether an API key is already assigned.
func (r *UserRepository) APIKeyExists(ctx context.Context, apiKey string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE api_key = $1)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, apiKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check api key: %w", err)
	}

	return exists, nil
}

// ReplaceAPIKey swaps a user's API key for a new one. The old key is never
// reusable once replaced; the unique constraint rejects a colliding candidate.
func (r *UserRepository) ReplaceAPIKey(ctx context.Context, id uuid.UUID, apiKey string) error {
	query := `
		UPDATE users
		SET api_key = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, apiKey)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("api_key already exists: %w", domain.ErrConflict)
		}
		return fmt.Errorf("failed to replace api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
