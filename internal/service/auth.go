package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/repository/redis"
	"github.com/promptdeck/promptdeck/internal/security"
	"github.com/rs/zerolog/log"
)

// Bounded retries for API key generation before falling back to a longer
// random value.
const apiKeyGenRetries = 5

// AuthService handles registration, login and both identity resolution paths
// of the access gate.
type AuthService struct {
	users       domain.UserRepository
	jwtManager  *security.JWTManager
	apiKeyCache *redis.APIKeyCache
}

// NewAuthService creates a new auth service. apiKeyCache may be nil; the
// service then resolves API keys from the store on every call.
func NewAuthService(users domain.UserRepository, jwtManager *security.JWTManager, apiKeyCache *redis.APIKeyCache) *AuthService {
	return &AuthService{
		users:       users,
		jwtManager:  jwtManager,
		apiKeyCache: apiKeyCache,
	}
}

// Register creates a new user account with a server-generated API key.
// Duplicate username, email or api_key surface as domain.ErrConflict.
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	apiKey := input.APIKey
	if apiKey == "" {
		apiKey, err = s.uniqueAPIKey(ctx)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &domain.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		APIKey:    apiKey,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The unique constraints are the final arbiter under concurrent
	// registration; a losing insert comes back as ErrConflict.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// uniqueAPIKey generates a candidate key and retries on collision, then falls
// back to a longer random value.
func (s *AuthService) uniqueAPIKey(ctx context.Context) (string, error) {
	for i := 0; i < apiKeyGenRetries; i++ {
		candidate, err := security.GenerateAPIKey()
		if err != nil {
			return "", err
		}
		exists, err := s.users.APIKeyExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check api key: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return security.GenerateLongAPIKey()
}

// Login issues a session token for the user matching the email. There is no
// password in this design; identity is established by email lookup alone.
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.SessionToken, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.SessionToken{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

// ResolveSessionToken is gate path A: verify the token, then load the user it
// names. A token for a since-deleted user resolves to ErrNotFound.
func (s *AuthService) ResolveSessionToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	return user, nil
}

// ResolveAPIKey is gate path B: exact API key lookup. An unknown key is
// ErrUnauthenticated; a known key on an inactive account is ErrForbidden.
func (s *AuthService) ResolveAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	user := s.cachedUser(ctx, apiKey)

	if user == nil {
		var err error
		user, err = s.users.GetByAPIKey(ctx, apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("invalid api key: %w", domain.ErrUnauthenticated)
		}
		s.cacheUser(ctx, apiKey, user)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("user is inactive: %w", domain.ErrForbidden)
	}

	return user, nil
}

// ReplaceAPIKey rotates a user's API key and invalidates the cached old key.
func (s *AuthService) ReplaceAPIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	apiKey, err := s.uniqueAPIKey(ctx)
	if err != nil {
		return "", err
	}

	if err := s.users.ReplaceAPIKey(ctx, userID, apiKey); err != nil {
		return "", err
	}

	if s.apiKeyCache != nil {
		if err := s.apiKeyCache.Invalidate(ctx, user.APIKey); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate api key cache")
		}
	}

	return apiKey, nil
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return user, nil
}

// Cache reads and writes are best effort; a failing cache degrades to a store
// lookup, never to a failed request.
func (s *AuthService) cachedUser(ctx context.Context, apiKey string) *domain.User {
	if s.apiKeyCache == nil {
		return nil
	}
	user, err := s.apiKeyCache.Get(ctx, apiKey)
	if err != nil {
		log.Warn().Err(err).Msg("api key cache read failed")
		return nil
	}
	return user
}

func (s *AuthService) cacheUser(ctx context.Context, apiKey string, user *domain.User) {
	if s.apiKeyCache == nil {
		return
	}
	if err := s.apiKeyCache.Set(ctx, apiKey, user); err != nil {
		log.Warn().Err(err).Msg("api key cache write failed")
	}
}
