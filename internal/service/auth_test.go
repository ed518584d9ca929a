package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager() *security.JWTManager {
	return security.NewJWTManager("test-secret-key-with-32-chars!!", 60*time.Minute)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success generates api key", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByEmail", ctx, "a@x.com").Return(nil, nil)
		repo.On("APIKeyExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := svc.Register(ctx, domain.UserCreate{Username: "u1", Email: "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.Username)
		assert.Equal(t, "a@x.com", user.Email)
		assert.NotEmpty(t, user.APIKey)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, uuid.Nil, user.ID)

		repo.AssertExpectations(t)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByEmail", ctx, "a@x.com").Return(&domain.User{ID: uuid.New(), Email: "a@x.com"}, nil)

		_, err := svc.Register(ctx, domain.UserCreate{Username: "u2", Email: "a@x.com"})
		assert.ErrorIs(t, err, domain.ErrConflict)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("key collision falls back to long key", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByEmail", ctx, "b@x.com").Return(nil, nil)
		// Every short candidate collides; the fallback long key is used
		// without a further existence check.
		repo.On("APIKeyExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Times(apiKeyGenRetries)
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return len(u.APIKey) == 64
		})).Return(nil)

		user, err := svc.Register(ctx, domain.UserCreate{Username: "u3", Email: "b@x.com"})
		require.NoError(t, err)
		assert.Len(t, user.APIKey, 64)

		repo.AssertExpectations(t)
	})

	t.Run("concurrent insert loses as conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByEmail", ctx, "c@x.com").Return(nil, nil)
		repo.On("APIKeyExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrConflict)

		_, err := svc.Register(ctx, domain.UserCreate{Username: "u4", Email: "c@x.com"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		jwtManager := newTestJWTManager()
		svc := NewAuthService(repo, jwtManager, nil)

		userID := uuid.New()
		repo.On("GetByEmail", ctx, "a@x.com").Return(&domain.User{ID: userID, Email: "a@x.com", IsActive: true}, nil)

		token, err := svc.Login(ctx, domain.UserLogin{Email: "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, "bearer", token.TokenType)
		assert.Equal(t, int64(3600), token.ExpiresIn)

		claims, err := jwtManager.ValidateAccessToken(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByEmail", ctx, "nobody@x.com").Return(nil, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Email: "nobody@x.com"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAuthService_ResolveSessionToken(t *testing.T) {
	ctx := context.Background()
	jwtManager := newTestJWTManager()

	t.Run("valid token resolves user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, jwtManager, nil)

		userID := uuid.New()
		user := &domain.User{ID: userID, Email: "a@x.com", IsActive: true}
		repo.On("GetByID", ctx, userID).Return(user, nil)

		token, err := jwtManager.GenerateAccessToken(userID, "a@x.com")
		require.NoError(t, err)

		got, err := svc.ResolveSessionToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("garbage token is unauthenticated", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, jwtManager, nil)

		_, err := svc.ResolveSessionToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("token for deleted user is not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, jwtManager, nil)

		userID := uuid.New()
		repo.On("GetByID", ctx, userID).Return(nil, nil)

		token, err := jwtManager.GenerateAccessToken(userID, "gone@x.com")
		require.NoError(t, err)

		_, err = svc.ResolveSessionToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAuthService_ResolveAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("active user resolves", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		user := &domain.User{ID: uuid.New(), APIKey: "key-1", IsActive: true}
		repo.On("GetByAPIKey", ctx, "key-1").Return(user, nil)

		got, err := svc.ResolveAPIKey(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("unknown key is unauthenticated", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByAPIKey", ctx, "bogus").Return(nil, nil)

		_, err := svc.ResolveAPIKey(ctx, "bogus")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("inactive user is forbidden", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		repo.On("GetByAPIKey", ctx, "key-2").Return(&domain.User{ID: uuid.New(), APIKey: "key-2", IsActive: false}, nil)

		_, err := svc.ResolveAPIKey(ctx, "key-2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAuthService_ReplaceAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		userID := uuid.New()
		repo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID, APIKey: "old-key", IsActive: true}, nil)
		repo.On("APIKeyExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("ReplaceAPIKey", ctx, userID, mock.AnythingOfType("string")).Return(nil)

		key, err := svc.ReplaceAPIKey(ctx, userID)
		require.NoError(t, err)
		assert.NotEmpty(t, key)
		assert.NotEqual(t, "old-key", key)

		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, newTestJWTManager(), nil)

		userID := uuid.New()
		repo.On("GetByID", ctx, userID).Return(nil, nil)

		_, err := svc.ReplaceAPIKey(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
