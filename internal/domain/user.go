package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a platform user. The API key is a long-lived bearer
// credential for the tool-call surface and is only exposed at registration.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	APIKey    string    `json:"-"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCreate represents user registration data. APIKey is an override path
// for migrations and tests; normally the server generates the key.
type UserCreate struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	APIKey   string `json:"api_key,omitempty" validate:"omitempty,min=32,max=64"`
}

// UserLogin represents login input. Identity is established by email lookup
// alone; there is no password in this design.
type UserLogin struct {
	Email string `json:"email" validate:"required,email"`
}

// SessionToken is the issued access token envelope.
type SessionToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*User, error)
	APIKeyExists(ctx context.Context, apiKey string) (bool, error)
	ReplaceAPIKey(ctx context.Context, id uuid.UUID, apiKey string) error
}
